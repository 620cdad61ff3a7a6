// Package amend reassigns narrative actions to better-fitting characters.
// It identifies candidate action lines for one character, asks the fit
// scorer whether another party member suits each better, and applies
// single-line textual substitutions. The rewrite is a best-effort literal
// replacement, not a grammar-aware transform: names embedded in other words
// or unusual phrasings can produce partial substitutions.
package amend

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/greenmere/lorekeep/internal/fit"
	"github.com/greenmere/lorekeep/internal/match"
	"github.com/greenmere/lorekeep/internal/party"
)

var ErrLineOutOfRange = errors.New("line index outside file")

// ActionSegment is one candidate action: the mention line with one line of
// context either side. Line numbers are 1-based for display; LineIndex is
// the 0-based index used to patch the file.
type ActionSegment struct {
	Text         string // mention line plus surrounding context
	LineStart    int    // 1-based first line of the context window
	LineEnd      int    // 1-based last line of the context window
	OriginalLine string // the untrimmed mention line as stored in the file
	LineIndex    int    // 0-based index of the mention line

	Suggestion *fit.Suggestion // populated by Analyze; nil when no better fit
}

// Amender pairs the fit scorer with the text transforms.
type Amender struct {
	scorer *fit.Scorer
}

func NewAmender(scorer *fit.Scorer) *Amender {
	return &Amender{scorer: scorer}
}

// IdentifyActions finds the character's candidate action segments in text,
// in line order.
func (a *Amender) IdentifyActions(text, character string) []ActionSegment {
	lines := strings.Split(text, "\n")

	var segments []ActionSegment
	for _, mention := range match.FindMentions(text, character) {
		idx := mention.Line - 1

		start := idx - 1
		if start < 0 {
			start = 0
		}
		end := idx + 1
		if end > len(lines)-1 {
			end = len(lines) - 1
		}

		segments = append(segments, ActionSegment{
			Text:         strings.TrimSpace(strings.Join(lines[start:end+1], "\n")),
			LineStart:    start + 1,
			LineEnd:      end + 1,
			OriginalLine: lines[idx],
			LineIndex:    idx,
		})
	}
	return segments
}

// Analyze attaches a fit suggestion to each segment whose action would suit
// another party member better. Segments are returned in input order.
func (a *Amender) Analyze(segments []ActionSegment, current string, profiles []*party.Profile, prior map[string][]string) []ActionSegment {
	analyzed := make([]ActionSegment, len(segments))
	for i, seg := range segments {
		seg.Suggestion = a.scorer.SuggestAmendment(current, seg.Text, profiles, prior)
		analyzed[i] = seg
	}
	return analyzed
}

// GenerateAmendedText swaps the performing character on a single line: the
// full name is replaced first, then the bare first name when it differs
// from the full name.
func GenerateAmendedText(line, current, suggested string) string {
	amended := strings.ReplaceAll(line, current, suggested)

	currentFirst := firstToken(current)
	if currentFirst != current {
		amended = strings.ReplaceAll(amended, currentFirst, firstToken(suggested))
	}
	return amended
}

// ApplyToFile replaces exactly one line (0-based index) and rewrites the
// whole file. There is no locking and no atomicity across the read and the
// write: a concurrent writer loses, last write wins.
func ApplyToFile(path string, lineIndex int, newLine string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read story file: %w", err)
	}

	lines := strings.Split(string(data), "\n")
	if lineIndex < 0 || lineIndex >= len(lines) {
		return fmt.Errorf("%w: index %d, file has %d lines", ErrLineOutOfRange, lineIndex, len(lines))
	}

	lines[lineIndex] = newLine
	return os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0644)
}

func firstToken(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return name
	}
	return fields[0]
}
