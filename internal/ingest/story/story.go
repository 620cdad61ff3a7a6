// Package story loads narrative series from their storage: a plain campaign
// directory or a git repository holding the campaign's history. Stories are
// always returned in a deterministic reading order: lexicographic for
// directories, first-commit chronological for repositories.
package story

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Story is one narrative file: its display name, source path, and full text.
type Story struct {
	Name string
	Path string
	Text string
}

// storyExtensions are the file extensions recognized as narrative text.
var storyExtensions = map[string]bool{
	".md":  true,
	".txt": true,
}

// IsStoryFile reports whether a path looks like a narrative file.
func IsStoryFile(path string) bool {
	return storyExtensions[strings.ToLower(filepath.Ext(path))]
}

// Read loads a single story file.
func Read(path string) (Story, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Story{}, fmt.Errorf("failed to read story %s: %w", path, err)
	}
	return Story{Name: filepath.Base(path), Path: path, Text: string(data)}, nil
}

// ReadDir loads every story file directly inside dir, sorted by name.
func ReadDir(dir string) ([]Story, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read story directory: %w", err)
	}

	var stories []Story
	for _, entry := range entries {
		if entry.IsDir() || !IsStoryFile(entry.Name()) {
			continue
		}
		st, err := Read(filepath.Join(dir, entry.Name()))
		if err != nil {
			// Unreadable stories are skipped, matching the analysis
			// pipeline's tolerance for absent inputs.
			continue
		}
		stories = append(stories, st)
	}

	sort.Slice(stories, func(i, j int) bool { return stories[i].Name < stories[j].Name })
	return stories, nil
}

// ActionBlock is one structured narration block of the form:
//
//	CHARACTER: <name>
//	ACTION: <text>
//	REASONING: <text>
//
// Free text between blocks is ignored; the analysis engine works on raw
// lines either way, but structured blocks give the history archive clean
// per-character action records.
type ActionBlock struct {
	Character string
	Action    string
	Reasoning string
	Line      int // 1-based line of the CHARACTER: marker
}

// ParseActionBlocks extracts structured action blocks from narrative text.
func ParseActionBlocks(text string) []ActionBlock {
	var blocks []ActionBlock
	var current *ActionBlock

	for i, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, "CHARACTER:"):
			if current != nil && current.Character != "" {
				blocks = append(blocks, *current)
			}
			current = &ActionBlock{
				Character: strings.TrimSpace(strings.TrimPrefix(trimmed, "CHARACTER:")),
				Line:      i + 1,
			}
		case strings.HasPrefix(trimmed, "ACTION:"):
			if current != nil {
				current.Action = strings.TrimSpace(strings.TrimPrefix(trimmed, "ACTION:"))
			}
		case strings.HasPrefix(trimmed, "REASONING:"):
			if current != nil {
				current.Reasoning = strings.TrimSpace(strings.TrimPrefix(trimmed, "REASONING:"))
			}
		}
	}

	if current != nil && current.Character != "" {
		blocks = append(blocks, *current)
	}
	return blocks
}
