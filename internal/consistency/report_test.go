package consistency

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/greenmere/lorekeep/internal/party"
	"github.com/greenmere/lorekeep/internal/rules"
)

func TestReportPath(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	got := ReportPath("campaigns/greenmere", now)
	want := filepath.Join("campaigns/greenmere", "series_analysis_2026-03-14.md")
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestWriteHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")
	w := NewReportWriter(path)
	w.now = func() time.Time { return time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC) }

	cast := []*party.Profile{
		{Name: "Elara Moonwhisper"},
		{Name: "Borin Stonefist"},
	}
	if err := w.WriteHeader("Greenmere", 3, cast); err != nil {
		t.Fatalf("WriteHeader failed: %v", err)
	}

	data, _ := os.ReadFile(path)
	content := string(data)

	for _, want := range []string{
		"# Story Consistency Analysis: Greenmere",
		"Generated: 2026-03-14 10:30:00",
		"Stories Analyzed: 3",
		"Party Members: Elara Moonwhisper, Borin Stonefist",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("header missing %q", want)
		}
	}
}

func TestAppendStoryGroupsByCharacterAlphabetically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")
	w := NewReportWriter(path)

	cast := []*party.Profile{
		{Name: "Zara", Class: "Rogue", Level: 3},
		{Name: "Aldric", Class: "Paladin", Level: 6},
	}
	issues := []rules.Issue{
		{Character: "Zara", Line: 10, Action: "Zara charges", Kind: rules.KindTactical, Description: "d1", Suggestion: "s1", Score: 6},
		{Character: "Aldric", Line: 4, Action: "Aldric sneaks", Kind: rules.KindPersonality, Description: "d2", Suggestion: "s2", Score: 8},
	}

	if err := w.WriteHeader("Test", 1, cast); err != nil {
		t.Fatalf("WriteHeader failed: %v", err)
	}
	if err := w.AppendStory("ep1.md", cast, issues); err != nil {
		t.Fatalf("AppendStory failed: %v", err)
	}

	data, _ := os.ReadFile(path)
	content := string(data)

	aldric := strings.Index(content, "### Aldric")
	zara := strings.Index(content, "### Zara")
	if aldric == -1 || zara == -1 {
		t.Fatal("expected a section per character")
	}
	if aldric > zara {
		t.Error("characters should be listed alphabetically")
	}

	for _, want := range []string{
		"## Story: ep1.md",
		"**Class:** Paladin (Level 6)",
		"**Line 4:** Aldric sneaks",
		"**Issue Type:** Personality",
		"**Analysis:** d2",
		"**Suggestion:** s2",
		"**Consistency Score:** 8/10",
		"---",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestAppendStoryNoIssues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")
	w := NewReportWriter(path)

	if err := w.WriteHeader("Test", 1, nil); err != nil {
		t.Fatalf("WriteHeader failed: %v", err)
	}
	if err := w.AppendStory("quiet.md", nil, nil); err != nil {
		t.Fatalf("AppendStory failed: %v", err)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "No issues found.") {
		t.Error("issue-free story should say so")
	}
}

func TestAppendStoryTruncatesLongActions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")
	w := NewReportWriter(path)

	long := strings.Repeat("a", 150)
	issues := []rules.Issue{{Character: "Zara", Line: 1, Action: long, Kind: rules.KindTactical}}

	if err := w.WriteHeader("Test", 1, nil); err != nil {
		t.Fatalf("WriteHeader failed: %v", err)
	}
	if err := w.AppendStory("ep.md", nil, issues); err != nil {
		t.Fatalf("AppendStory failed: %v", err)
	}

	data, _ := os.ReadFile(path)
	want := strings.Repeat("a", excerptLimit) + "..."
	if !strings.Contains(string(data), want) {
		t.Error("long action should be truncated with ellipsis")
	}
	if strings.Contains(string(data), long) {
		t.Error("full action text should not appear")
	}
}

func TestIncrementalReportValidAfterEachAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")
	w := NewReportWriter(path)

	if err := w.WriteHeader("Test", 2, nil); err != nil {
		t.Fatalf("WriteHeader failed: %v", err)
	}
	afterHeader, _ := os.ReadFile(path)

	if err := w.AppendStory("ep1.md", nil, nil); err != nil {
		t.Fatalf("AppendStory failed: %v", err)
	}
	afterFirst, _ := os.ReadFile(path)

	if !strings.HasPrefix(string(afterFirst), string(afterHeader)) {
		t.Error("appending a story must not rewrite earlier content")
	}

	if err := w.AppendSummary(0, 2); err != nil {
		t.Fatalf("AppendSummary failed: %v", err)
	}
	final, _ := os.ReadFile(path)

	if !strings.HasPrefix(string(final), string(afterFirst)) {
		t.Error("appending the summary must not rewrite earlier content")
	}
	if !strings.Contains(string(final), "- Total issues found: 0") {
		t.Error("summary missing totals")
	}
	if !strings.Contains(string(final), "- Characters analyzed: 2") {
		t.Error("summary missing character count")
	}
}

func TestAppendWithoutHeaderFails(t *testing.T) {
	w := NewReportWriter(filepath.Join(t.TempDir(), "never-created.md"))
	if err := w.AppendStory("ep.md", nil, nil); err == nil {
		t.Error("append before WriteHeader should fail")
	}
}
