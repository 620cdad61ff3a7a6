package consistency

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/greenmere/lorekeep/internal/party"
	"github.com/greenmere/lorekeep/internal/rules"
)

const excerptLimit = 100

// ReportPath returns the conventional report file name for a series
// directory: series_analysis_<YYYY-MM-DD>.md.
func ReportPath(dir string, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("series_analysis_%s.md", now.Format("2006-01-02")))
}

// ReportWriter renders the analysis report incrementally. The header goes
// out first and each story section is appended as soon as the story
// finishes, so the file is valid markdown at every intermediate point and a
// crashed run still leaves a readable partial report. Exactly one writer is
// assumed per file for the duration of a run.
type ReportWriter struct {
	path string
	now  func() time.Time
}

// NewReportWriter creates a writer targeting the given path.
func NewReportWriter(path string) *ReportWriter {
	return &ReportWriter{path: path, now: time.Now}
}

// WriteHeader creates (or truncates) the report file and writes the fixed
// header block.
func (w *ReportWriter) WriteHeader(series string, storyCount int, cast []*party.Profile) error {
	names := make([]string, len(cast))
	for i, p := range cast {
		names[i] = p.Name
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("# Story Consistency Analysis: %s\n", series))
	b.WriteString(fmt.Sprintf("Generated: %s\n", w.now().Format("2006-01-02 15:04:05")))
	b.WriteString(fmt.Sprintf("Stories Analyzed: %d\n", storyCount))
	b.WriteString(fmt.Sprintf("Party Members: %s\n", strings.Join(names, ", ")))

	return os.WriteFile(w.path, []byte(b.String()), 0644)
}

// AppendStory appends one story section grouping issues per character in
// alphabetical order.
func (w *ReportWriter) AppendStory(story string, cast []*party.Profile, issues []rules.Issue) error {
	return w.append(renderStorySection(story, cast, issues))
}

// AppendSummary appends the overall totals. Called once after the last
// story; totals cannot go in the header because the file is append-only.
func (w *ReportWriter) AppendSummary(totalIssues, charactersAnalyzed int) error {
	var b strings.Builder
	b.WriteString("\n## Overall Summary\n")
	b.WriteString(fmt.Sprintf("- Total issues found: %d\n", totalIssues))
	b.WriteString(fmt.Sprintf("- Characters analyzed: %d\n", charactersAnalyzed))
	return w.append(b.String())
}

func (w *ReportWriter) append(section string) error {
	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open report for append: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(section); err != nil {
		return fmt.Errorf("failed to append report section: %w", err)
	}
	return nil
}

func renderStorySection(story string, cast []*party.Profile, issues []rules.Issue) string {
	byCharacter := make(map[string][]rules.Issue)
	for _, issue := range issues {
		byCharacter[issue.Character] = append(byCharacter[issue.Character], issue)
	}

	names := make([]string, 0, len(byCharacter))
	for name := range byCharacter {
		names = append(names, name)
	}
	sort.Strings(names)

	profilesByName := make(map[string]*party.Profile, len(cast))
	for _, p := range cast {
		profilesByName[p.Name] = p
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("\n## Story: %s\n", story))

	if len(names) == 0 {
		b.WriteString("No issues found.\n")
		return b.String()
	}

	for _, name := range names {
		b.WriteString(fmt.Sprintf("### %s\n", name))
		if p := profilesByName[name]; p != nil {
			b.WriteString(fmt.Sprintf("**Class:** %s (Level %d)\n", p.Class, p.Level))
		}

		for _, issue := range byCharacter[name] {
			b.WriteString(fmt.Sprintf("**Line %d:** %s\n", issue.Line, excerpt(issue.Action)))
			b.WriteString(fmt.Sprintf("**Issue Type:** %s\n", issue.Kind.Label()))
			b.WriteString(fmt.Sprintf("**Analysis:** %s\n", issue.Description))
			b.WriteString(fmt.Sprintf("**Suggestion:** %s\n", issue.Suggestion))
			b.WriteString(fmt.Sprintf("**Consistency Score:** %d/10\n", issue.Score))
			b.WriteString("---\n")
		}
	}

	return b.String()
}

func excerpt(action string) string {
	if len(action) <= excerptLimit {
		return action
	}
	return action[:excerptLimit] + "..."
}
