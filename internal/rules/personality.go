package rules

import (
	"context"
	"fmt"
	"strings"
)

// personalityConflict pairs flaw keywords with an action phrase that
// contradicts them. The table is data: new conflicts are additive rows.
type personalityConflict struct {
	flawKeywords []string
	actionPhrase string
	description  string
}

var personalityConflicts = []personalityConflict{
	{
		flawKeywords: []string{"fear", "fright", "afraid", "coward"},
		actionPhrase: "recklessly charges",
		description:  "A character haunted by fear would hesitate before recklessly charging in.",
	},
	{
		flawKeywords: []string{"fire", "flame"},
		actionPhrase: "fire",
		description:  "Engaging with fire directly contradicts the character's declared fear of it.",
	},
	{
		flawKeywords: []string{"burden", "weight"},
		actionPhrase: "carelessly",
		description:  "A character weighed down by their burdens does not act carelessly.",
	},
	{
		flawKeywords: []string{"water", "drown"},
		actionPhrase: "dives into",
		description:  "Diving in headfirst clashes with the character's dread of water.",
	},
	{
		flawKeywords: []string{"dark", "shadow"},
		actionPhrase: "into the darkness alone",
		description:  "Venturing into darkness alone contradicts the character's fear of the dark.",
	},
}

// PersonalityChecker flags actions that contradict a character's declared
// fears and weaknesses. At most one issue per action; the first table row
// that matches wins.
type PersonalityChecker struct{}

func NewPersonalityChecker() *PersonalityChecker {
	return &PersonalityChecker{}
}

func (c *PersonalityChecker) Name() string {
	return "personality"
}

func (c *PersonalityChecker) Check(_ context.Context, ac ActionContext) *Issue {
	if ac.Profile == nil || ac.Action == "" || len(ac.Profile.FearsWeaknesses) == 0 {
		return nil
	}

	action := strings.ToLower(ac.Action)

	for _, conflict := range personalityConflicts {
		if !strings.Contains(action, conflict.actionPhrase) {
			continue
		}
		if !anyFlawMatches(ac.Profile.FearsWeaknesses, conflict.flawKeywords) {
			continue
		}

		return &Issue{
			Character:   ac.Character,
			Story:       ac.Story,
			Line:        ac.Line,
			Action:      ac.Action,
			Kind:        KindPersonality,
			Description: conflict.description,
			Suggestion:  fmt.Sprintf("Declared flaws: %s.", strings.Join(ac.Profile.FearsWeaknesses, "; ")),
			Score:       8,
		}
	}
	return nil
}

func anyFlawMatches(flaws []string, keywords []string) bool {
	for _, flaw := range flaws {
		if containsAny(strings.ToLower(flaw), keywords) {
			return true
		}
	}
	return false
}
