package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/greenmere/lorekeep/internal/consistency"
	"github.com/greenmere/lorekeep/internal/history"
	"github.com/greenmere/lorekeep/internal/ingest/story"
	"github.com/greenmere/lorekeep/internal/llm"
	"github.com/greenmere/lorekeep/internal/party"
	"github.com/greenmere/lorekeep/internal/rules"
)

var (
	reportPath string
	noReport   bool
	withAI     bool
	gitSource  string
	indexRun   bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [campaign-dir]",
	Short: "Analyze a campaign's stories for character consistency",
	Long: `Analyze every story of a campaign, in reading order, against the party's
character sheets and write an incremental markdown report.

The campaign directory must contain a campaign.yaml manifest naming the
series, the character sheets and the story files. Story order can instead be
taken from a campaign git repository's history with --git.

Examples:
  lorekeep analyze ./campaigns/greenmere
  lorekeep analyze ./campaigns/greenmere --ai
  lorekeep analyze ./campaigns/greenmere --git https://github.com/user/campaign
  lorekeep analyze ./campaigns/greenmere --index`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVar(&reportPath, "report", "", "Report file path (default: series_analysis_<date>.md in the campaign dir)")
	analyzeCmd.Flags().BoolVar(&noReport, "no-report", false, "Skip writing the report file")
	analyzeCmd.Flags().BoolVar(&withAI, "ai", false, "Enable AI-assisted checks (requires OPENAI_API_KEY)")
	analyzeCmd.Flags().StringVar(&gitSource, "git", "", "Read story order from a campaign git repository (path or URL)")
	analyzeCmd.Flags().BoolVar(&indexRun, "index", false, "Archive analyzed actions into the Milvus history store")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	dir := args[0]
	ctx := context.Background()

	manifest, err := party.LoadManifest(dir)
	if err != nil {
		return err
	}
	cast, err := party.LoadCast(dir, manifest)
	if err != nil {
		return err
	}

	checkers := []rules.Checker{
		rules.NewTacticalChecker(),
		rules.NewPersonalityChecker(),
	}
	if withAI {
		capability, err := llm.NewOpenAILLM(llm.DefaultConfig())
		if err != nil {
			return fmt.Errorf("AI checks requested but unavailable: %w", err)
		}
		checkers = append(checkers, rules.NewAIChecker(capability))
	}

	var report *consistency.ReportWriter
	if !noReport {
		path := reportPath
		if path == "" {
			path = consistency.ReportPath(dir, time.Now())
		}
		report = consistency.NewReportWriter(path)
		fmt.Printf("Writing report to %s\n", path)
	}

	orchestrator := consistency.NewOrchestrator(manifest.Series, cast, checkers, report)

	var summary *consistency.Summary
	if gitSource != "" {
		stories, err := loadGitSeries(gitSource)
		if err != nil {
			return err
		}
		summary, err = orchestrator.RunStories(ctx, stories)
		if err != nil {
			return err
		}
		if indexRun {
			indexActions(ctx, cast, stories)
		}
	} else if len(manifest.Stories) == 0 {
		// Manifest without a story list: scan the stories/ directory in
		// name order, the layout the fetch command produces.
		stories, err := story.ReadDir(filepath.Join(dir, "stories"))
		if err != nil {
			return err
		}
		summary, err = orchestrator.RunStories(ctx, stories)
		if err != nil {
			return err
		}
		if indexRun {
			indexActions(ctx, cast, stories)
		}
	} else {
		paths := manifest.StoryPaths(dir)
		summary, err = orchestrator.Run(ctx, paths)
		if err != nil {
			return err
		}
		if indexRun {
			indexActions(ctx, cast, readStories(paths))
		}
	}

	printSummary(summary)
	return nil
}

// loadGitSeries resolves the campaign's stories from a git repository in
// first-commit order.
func loadGitSeries(source string) ([]story.Story, error) {
	repo, err := story.OpenRepository(source)
	if err != nil {
		repo, err = story.CloneRepository(source)
		if err != nil {
			return nil, fmt.Errorf("failed to open or clone campaign repository '%s': %w", source, err)
		}
	}
	return story.ReadRepositorySeries(repo, "")
}

func readStories(paths []string) []story.Story {
	var stories []story.Story
	for _, path := range paths {
		st, err := story.Read(path)
		if err != nil {
			continue
		}
		stories = append(stories, st)
	}
	return stories
}

// indexActions archives the cast's actions for later recall. Indexing is an
// enrichment; failures warn and never fail the analysis.
func indexActions(ctx context.Context, cast []*party.Profile, stories []story.Story) {
	embedder, err := history.NewOpenAIEmbedder(history.DefaultEmbeddingModel, history.DefaultEmbeddingDimension)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: action indexing skipped: %v\n", err)
		return
	}

	store, err := history.NewMilvusStore(ctx, history.DefaultMilvusConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: action indexing skipped: %v\n", err)
		return
	}
	defer store.Close()

	archive, err := history.NewArchive(embedder, store)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: action indexing skipped: %v\n", err)
		return
	}

	count, err := archive.IndexStories(ctx, cast, stories)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: action indexing failed: %v\n", err)
		return
	}
	fmt.Printf("✓ Archived %d character actions\n", count)
}

func printSummary(summary *consistency.Summary) {
	var (
		headerColor = lipgloss.Color("#F780FF") // Bright pink/magenta
		storyColor  = lipgloss.Color("#BD93F9") // Purple
		numberColor = lipgloss.Color("#FF79C6") // Pink
		borderColor = lipgloss.Color("#6272A4") // Muted purple
		totalColor  = lipgloss.Color("#8BE9FD") // Cyan accent
	)

	const (
		storyWidth = 36
		countWidth = 10
	)

	headerStyle := lipgloss.NewStyle().
		Foreground(headerColor).
		Bold(true).
		Padding(0, 1)

	borderStyle := lipgloss.NewStyle().Foreground(borderColor)

	headers := []string{
		headerStyle.Width(storyWidth).Render("STORY"),
		headerStyle.Width(countWidth).Render("ISSUES"),
	}
	fmt.Println(strings.Join(headers, borderStyle.Render("│")))

	separatorParts := []string{
		strings.Repeat("─", storyWidth),
		strings.Repeat("─", countWidth),
	}
	fmt.Println(borderStyle.Render(strings.Join(separatorParts, "┼")))

	storyStyle := lipgloss.NewStyle().
		Foreground(storyColor).
		Padding(0, 1).
		Width(storyWidth)

	countStyle := lipgloss.NewStyle().
		Foreground(numberColor).
		Padding(0, 1).
		Width(countWidth).
		Align(lipgloss.Right)

	for _, name := range summary.StoryOrder {
		cells := []string{
			storyStyle.Render(name),
			countStyle.Render(fmt.Sprintf("%d", len(summary.IssuesByStory[name]))),
		}
		fmt.Println(strings.Join(cells, borderStyle.Render("│")))
	}

	totalStyle := lipgloss.NewStyle().
		Foreground(totalColor).
		Italic(true)

	fmt.Println()
	fmt.Println(totalStyle.Render(fmt.Sprintf(
		"Total: %d stories analyzed, %d issues found",
		summary.StoriesAnalyzed, len(summary.Issues))))
}
