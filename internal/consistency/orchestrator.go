// Package consistency runs the full series analysis: for every story file,
// in caller-supplied order, it finds each cast member's mentions, evaluates
// every configured rule checker against them, and appends one section to an
// incrementally written markdown report. Processing is strictly sequential;
// the report is append-only and may be inspected mid-run.
package consistency

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/greenmere/lorekeep/internal/ingest/story"
	"github.com/greenmere/lorekeep/internal/match"
	"github.com/greenmere/lorekeep/internal/party"
	"github.com/greenmere/lorekeep/internal/rules"
)

// Summary aggregates the results of one orchestration run.
type Summary struct {
	Series          string
	StoriesAnalyzed int
	Issues          []rules.Issue
	IssuesByStory   map[string][]rules.Issue
	StoryOrder      []string
}

// Orchestrator drives the per-series analysis. The cast and checker set are
// fixed for the duration of one run.
type Orchestrator struct {
	series   string
	cast     []*party.Profile
	checkers []rules.Checker
	report   *ReportWriter
}

// NewOrchestrator assembles an orchestrator. report may be nil for runs
// that only want the in-memory summary.
func NewOrchestrator(series string, cast []*party.Profile, checkers []rules.Checker, report *ReportWriter) *Orchestrator {
	return &Orchestrator{
		series:   series,
		cast:     cast,
		checkers: checkers,
		report:   report,
	}
}

// Run analyzes the given story files in order. Missing or unreadable files
// are skipped silently; an empty file list still yields a valid header-only
// report. Report write failures are logged and never abort the run.
func (o *Orchestrator) Run(ctx context.Context, storyFiles []string) (*Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled before analysis: %w", err)
	}

	o.writeHeader(len(storyFiles))
	summary := o.newSummary()

	for _, path := range storyFiles {
		data, err := os.ReadFile(path)
		if err != nil {
			// Absent or unreadable stories are not findings; move on.
			continue
		}
		o.processStory(ctx, summary, filepath.Base(path), string(data))
	}

	o.finish(summary)
	return summary, nil
}

// RunStories analyzes already-loaded stories, in order. Used when the
// series comes from a cloned repository rather than the local filesystem.
func (o *Orchestrator) RunStories(ctx context.Context, stories []story.Story) (*Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled before analysis: %w", err)
	}

	o.writeHeader(len(stories))
	summary := o.newSummary()

	for _, st := range stories {
		o.processStory(ctx, summary, st.Name, st.Text)
	}

	o.finish(summary)
	return summary, nil
}

func (o *Orchestrator) newSummary() *Summary {
	return &Summary{
		Series:        o.series,
		IssuesByStory: make(map[string][]rules.Issue),
	}
}

func (o *Orchestrator) writeHeader(storyCount int) {
	if o.report == nil {
		return
	}
	if err := o.report.WriteHeader(o.series, storyCount, o.cast); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to write report header: %v\n", err)
	}
}

func (o *Orchestrator) processStory(ctx context.Context, summary *Summary, name, text string) {
	issues := o.analyzeStory(ctx, name, text)

	summary.StoriesAnalyzed++
	summary.StoryOrder = append(summary.StoryOrder, name)
	summary.IssuesByStory[name] = issues
	summary.Issues = append(summary.Issues, issues...)

	if o.report != nil {
		if err := o.report.AppendStory(name, o.cast, issues); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to append report section for %s: %v\n", name, err)
		}
	}
}

func (o *Orchestrator) finish(summary *Summary) {
	if o.report == nil {
		return
	}
	if err := o.report.AppendSummary(len(summary.Issues), len(o.cast)); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to append report summary: %v\n", err)
	}
}

// analyzeStory evaluates every checker against every cast mention in one
// story's text.
func (o *Orchestrator) analyzeStory(ctx context.Context, name, text string) []rules.Issue {
	lines := strings.Split(text, "\n")

	var issues []rules.Issue
	for _, p := range o.cast {
		for _, mention := range match.FindMentions(text, p.Name) {
			ac := rules.ActionContext{
				Character: p.Name,
				Profile:   p,
				Story:     name,
				Line:      mention.Line,
				Action:    mention.Text,
				Context:   contextWindow(lines, mention.Line),
			}

			for _, checker := range o.checkers {
				if issue := checker.Check(ctx, ac); issue != nil {
					issues = append(issues, *issue)
				}
			}
		}
	}
	return issues
}

// contextWindow joins the mention line with up to one line before and after.
// line is 1-based.
func contextWindow(lines []string, line int) string {
	start := line - 2
	if start < 0 {
		start = 0
	}
	end := line + 1
	if end > len(lines) {
		end = len(lines)
	}

	window := make([]string, 0, 3)
	for _, l := range lines[start:end] {
		window = append(window, strings.TrimSpace(l))
	}
	return strings.Join(window, "\n")
}
