// Package match locates per-line mentions of a character in narrative text.
// Matching is purely lexical: a small set of name-variant patterns is built
// from the character's full name and every line of text is tested against
// them. Multi-line actions are the caller's concern (context windows), not
// this package's.
package match

import (
	"regexp"
	"strings"
)

// Mention is one line of text matched by a character name pattern.
// Line numbers are 1-based; Text is the trimmed line content.
type Mention struct {
	Line int
	Text string
}

// NamePatterns builds the ordered, case-insensitive match patterns for a
// character name: the exact full name, the first token as a standalone word,
// and the last token as a standalone word when the name has more than one
// token. A single-token name yields exactly one pattern.
func NamePatterns(fullName string) []*regexp.Regexp {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil
	}

	var patterns []*regexp.Regexp
	seen := make(map[string]struct{})

	add := func(variant string) {
		key := strings.ToLower(variant)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		patterns = append(patterns, compileWordPattern(variant))
	}

	add(fullName)

	tokens := strings.Fields(fullName)
	if len(tokens) > 1 {
		add(tokens[0])
		add(tokens[len(tokens)-1])
	}

	return patterns
}

// FindMentions scans text line by line and returns a mention for every line
// matching any of the character's name patterns. A line matching multiple
// patterns is still reported once.
func FindMentions(text, fullName string) []Mention {
	patterns := NamePatterns(fullName)
	if len(patterns) == 0 {
		return nil
	}

	var mentions []Mention
	for i, line := range strings.Split(text, "\n") {
		for _, p := range patterns {
			if p.MatchString(line) {
				mentions = append(mentions, Mention{Line: i + 1, Text: strings.TrimSpace(line)})
				break
			}
		}
	}
	return mentions
}

func compileWordPattern(variant string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(variant) + `\b`)
}
