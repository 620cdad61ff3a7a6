package rules

import (
	"context"
	"strings"
	"testing"

	"github.com/greenmere/lorekeep/internal/party"
)

func TestPersonalityChecker_FearOfFire(t *testing.T) {
	checker := NewPersonalityChecker()
	p := &party.Profile{
		Name:            "Wren",
		Class:           "Bard",
		FearsWeaknesses: []string{"Fear of fire"},
	}

	issue := checker.Check(context.Background(), testContext(p, "Wren rushes forward into the fire"))

	if issue == nil {
		t.Fatal("Expected a personality issue for acting against a declared fear of fire")
	}
	if issue.Kind != KindPersonality {
		t.Errorf("Expected kind %q, got %q", KindPersonality, issue.Kind)
	}
	if issue.Score != 8 {
		t.Errorf("Expected fixed score 8, got %d", issue.Score)
	}
	if !strings.Contains(issue.Suggestion, "Fear of fire") {
		t.Errorf("Expected suggestion to list the character's flaws, got %q", issue.Suggestion)
	}
}

func TestPersonalityChecker_RecklessChargeAgainstFear(t *testing.T) {
	checker := NewPersonalityChecker()
	p := &party.Profile{
		Name:            "Tomas",
		FearsWeaknesses: []string{"Easily frightened in combat", "Distrusts magic"},
	}

	issue := checker.Check(context.Background(), testContext(p, "Tomas recklessly charges the troll"))

	if issue == nil {
		t.Fatal("Expected a personality issue for a frightened character recklessly charging")
	}
	// Suggestion lists all flaws, not only the conflicting one.
	for _, flaw := range p.FearsWeaknesses {
		if !strings.Contains(issue.Suggestion, flaw) {
			t.Errorf("Expected suggestion to contain flaw %q, got %q", flaw, issue.Suggestion)
		}
	}
}

func TestPersonalityChecker_FirstMatchWins(t *testing.T) {
	checker := NewPersonalityChecker()
	p := &party.Profile{
		Name:            "Mira",
		FearsWeaknesses: []string{"Fear of fire", "Crushed by the weight of her past"},
	}

	// Action matches both the reckless-charge row and the fire row; exactly
	// one issue comes back and it is the earlier table row.
	issue := checker.Check(context.Background(), testContext(p, "Mira recklessly charges through the fire"))

	if issue == nil {
		t.Fatal("Expected a personality issue")
	}
	if !strings.Contains(issue.Description, "recklessly charging") {
		t.Errorf("Expected the first matching table row to win, got %q", issue.Description)
	}
}

func TestPersonalityChecker_NoFlawsNoIssue(t *testing.T) {
	checker := NewPersonalityChecker()
	p := &party.Profile{Name: "Stoic"}

	if issue := checker.Check(context.Background(), testContext(p, "Stoic recklessly charges into the fire")); issue != nil {
		t.Errorf("Expected no issue for a character without declared flaws, got %+v", issue)
	}
}

func TestPersonalityChecker_FlawWithoutConflictingAction(t *testing.T) {
	checker := NewPersonalityChecker()
	p := &party.Profile{
		Name:            "Wren",
		FearsWeaknesses: []string{"Fear of fire"},
	}

	if issue := checker.Check(context.Background(), testContext(p, "Wren quietly studies the map")); issue != nil {
		t.Errorf("Expected no issue without a conflicting action phrase, got %+v", issue)
	}
}
