package rules

import (
	"context"
	"fmt"
	"strings"

	"github.com/greenmere/lorekeep/internal/llm"
)

const (
	backstoryPromptLimit = 200
	replySuggestionLimit = 300
)

// actionableMarkers are the words whose presence classifies an LLM reply as
// carrying a usable suggestion.
var actionableMarkers = []string{
	"should", "could", "better", "instead", "consider", "more appropriate",
}

// AIChecker defers to an external text-generation capability for a free-form
// consistency review. It is fail-soft by contract: any failure of the
// capability, of any kind, is treated as "no issue" so the pipeline never
// blocks on it.
type AIChecker struct {
	llm llm.LLM
}

// NewAIChecker wraps the given capability. Callers only construct one when a
// capability is configured; without it the checker simply isn't registered.
func NewAIChecker(capability llm.LLM) *AIChecker {
	return &AIChecker{llm: capability}
}

func (c *AIChecker) Name() string {
	return "ai"
}

func (c *AIChecker) Check(ctx context.Context, ac ActionContext) *Issue {
	if c.llm == nil || ac.Profile == nil || ac.Action == "" {
		return nil
	}

	reply, err := c.llm.Generate(ctx, buildReviewPrompt(ac))
	if err != nil {
		// Fail-soft boundary: an unavailable capability is not a finding.
		return nil
	}

	if !isActionable(reply) {
		return nil
	}

	return &Issue{
		Character:   ac.Character,
		Story:       ac.Story,
		Line:        ac.Line,
		Action:      ac.Action,
		Kind:        KindAISuggestion,
		Description: "AI review flagged this action as a possible mismatch with the character.",
		Suggestion:  truncate(strings.TrimSpace(reply), replySuggestionLimit),
		Score:       8,
	}
}

// buildReviewPrompt assembles the structured review prompt: identity, the
// non-empty profile fields, the action, and three fixed questions.
func buildReviewPrompt(ac ActionContext) string {
	p := ac.Profile

	var b strings.Builder
	b.WriteString("You are reviewing a tabletop RPG narrative for character consistency.\n\n")
	b.WriteString(fmt.Sprintf("**Character:** %s\n", ac.Character))
	b.WriteString(fmt.Sprintf("**Class:** %s (Level %d)\n", p.Class, p.Level))

	if p.BackgroundStory != "" {
		b.WriteString(fmt.Sprintf("**Backstory:** %s\n", truncate(p.BackgroundStory, backstoryPromptLimit)))
	}
	writePromptList(&b, "Personality Traits", p.Traits)
	writePromptList(&b, "Ideals", p.Ideals)
	writePromptList(&b, "Bonds", p.Bonds)
	writePromptList(&b, "Flaws", p.FearsWeaknesses)

	b.WriteString(fmt.Sprintf("\n**Action under review:**\n%s\n\n", ac.Action))

	b.WriteString("1. Is this action consistent with the character's established abilities and personality?\n")
	b.WriteString("2. Would another approach fit this character better?\n")
	b.WriteString("3. If so, what should the character do instead?\n")

	return b.String()
}

func writePromptList(b *strings.Builder, label string, values []string) {
	if len(values) == 0 {
		return
	}
	b.WriteString(fmt.Sprintf("**%s:** %s\n", label, strings.Join(values, "; ")))
}

func isActionable(reply string) bool {
	lowered := strings.ToLower(reply)
	for _, marker := range actionableMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
