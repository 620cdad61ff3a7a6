// Package rules implements the consistency checkers: keyword-driven tactical
// and personality rules plus an optional AI-assisted review. Each checker
// inspects one action in the context of one character's profile and emits at
// most one issue. Checkers tolerate malformed profiles; missing fields are
// treated as empty and never cause a failure.
package rules

import (
	"context"

	"github.com/greenmere/lorekeep/internal/party"
)

// Kind classifies a consistency issue.
type Kind string

const (
	KindTactical     Kind = "tactical"
	KindPersonality  Kind = "personality"
	KindEquipment    Kind = "equipment"
	KindAISuggestion Kind = "ai_suggestion"
)

// Label returns the human-readable form of the kind for report rendering.
func (k Kind) Label() string {
	switch k {
	case KindTactical:
		return "Tactical"
	case KindPersonality:
		return "Personality"
	case KindEquipment:
		return "Equipment"
	case KindAISuggestion:
		return "AI Suggestion"
	default:
		return string(k)
	}
}

// ActionContext carries one character mention through rule evaluation.
// It is built per mention and discarded afterwards; never shared across
// goroutines.
type ActionContext struct {
	Character string
	Profile   *party.Profile
	Story     string
	Line      int    // 1-based line number of the mention
	Action    string // the mention line itself
	Context   string // action plus up to one surrounding line each side
}

// Issue is a single detected mismatch between a character's profile and an
// action attributed to them. Immutable once created.
type Issue struct {
	Character   string `json:"character"`
	Story       string `json:"story"`
	Line        int    `json:"line"`
	Action      string `json:"action"`
	Kind        Kind   `json:"kind"`
	Description string `json:"description"`
	Suggestion  string `json:"suggestion"`
	Score       int    `json:"score"` // severity 0-10, higher is worse
}

// Checker evaluates one action against one character profile.
// Implementations return nil when nothing is wrong and must never fail past
// a single action: best-effort advice, not verification.
type Checker interface {
	// Name identifies the checker in logs and summaries.
	Name() string

	// Check inspects the action and returns an issue or nil.
	Check(ctx context.Context, ac ActionContext) *Issue
}
