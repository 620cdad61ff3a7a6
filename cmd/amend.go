package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/greenmere/lorekeep/internal/amend"
	"github.com/greenmere/lorekeep/internal/fit"
	"github.com/greenmere/lorekeep/internal/history"
	"github.com/greenmere/lorekeep/internal/ingest/story"
	"github.com/greenmere/lorekeep/internal/party"
)

var (
	amendCampaign  string
	amendCharacter string
	amendApply     bool
	amendThreshold float64
	amendRecall    bool
	amendTopK      int
)

var amendCmd = &cobra.Command{
	Use:   "amend [story-file]",
	Short: "Suggest reassigning a character's actions to a better-fitting party member",
	Long: `Amend scans one story file for a character's action lines, scores each
action against the whole party, and proposes substitutions where another
party member fits clearly better.

Suggestions are printed by default; --apply rewrites the affected lines in
place. With --recall, each character's archived prior actions are pulled
from the Milvus store and fed into the fit score.

Examples:
  lorekeep amend stories/ep3.md --campaign ./campaigns/greenmere --character "Boba Fett"
  lorekeep amend stories/ep3.md --campaign . --character Elara --apply`,
	Args: cobra.ExactArgs(1),
	RunE: runAmend,
}

func init() {
	rootCmd.AddCommand(amendCmd)
	amendCmd.Flags().StringVar(&amendCampaign, "campaign", ".", "Campaign directory containing campaign.yaml")
	amendCmd.Flags().StringVar(&amendCharacter, "character", "", "Character whose actions to review (required)")
	amendCmd.Flags().BoolVar(&amendApply, "apply", false, "Rewrite the story file in place")
	amendCmd.Flags().Float64Var(&amendThreshold, "threshold", 0, "Override the confidence threshold for suggestions")
	amendCmd.Flags().BoolVar(&amendRecall, "recall", false, "Include archived prior actions in the fit score")
	amendCmd.Flags().IntVar(&amendTopK, "topk", 5, "Prior actions recalled per character with --recall")
	_ = amendCmd.MarkFlagRequired("character")
}

func runAmend(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx := context.Background()

	manifest, err := party.LoadManifest(amendCampaign)
	if err != nil {
		return err
	}
	cast, err := party.LoadCast(amendCampaign, manifest)
	if err != nil {
		return err
	}
	if !castIncludes(cast, amendCharacter) {
		return fmt.Errorf("character '%s' is not in the party", amendCharacter)
	}

	st, err := story.Read(path)
	if err != nil {
		return err
	}

	config := fit.DefaultConfig()
	if amendThreshold > 0 {
		config.ConfidenceThreshold = amendThreshold
	}
	amender := amend.NewAmender(fit.NewScorer(config))

	segments := amender.IdentifyActions(st.Text, amendCharacter)
	if len(segments) == 0 {
		fmt.Printf("No actions found for %s in %s\n", amendCharacter, st.Name)
		return nil
	}

	prior := recallPrior(ctx, cast, segments)
	analyzed := amender.Analyze(segments, amendCharacter, cast, prior)

	suggested := 0
	for _, seg := range analyzed {
		if seg.Suggestion == nil {
			continue
		}
		suggested++
		printSuggestion(seg)

		if amendApply {
			amended := amend.GenerateAmendedText(seg.OriginalLine, seg.Suggestion.Current, seg.Suggestion.Suggested)
			if err := amend.ApplyToFile(path, seg.LineIndex, amended); err != nil {
				return fmt.Errorf("failed to apply amendment at line %d: %w", seg.LineIndex+1, err)
			}
			fmt.Printf("  Applied to line %d\n", seg.LineIndex+1)
		}
	}

	if suggested == 0 {
		fmt.Printf("All %d actions already fit %s best\n", len(segments), amendCharacter)
	}
	return nil
}

func castIncludes(cast []*party.Profile, name string) bool {
	for _, p := range cast {
		if p.Name == name {
			return true
		}
	}
	return false
}

// recallPrior fetches each party member's archived actions similar to the
// reviewed segments. Recall is optional; any setup failure degrades to
// scoring without history.
func recallPrior(ctx context.Context, cast []*party.Profile, segments []amend.ActionSegment) map[string][]string {
	if !amendRecall || len(segments) == 0 {
		return nil
	}

	embedder, err := history.NewOpenAIEmbedder(history.DefaultEmbeddingModel, history.DefaultEmbeddingDimension)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: recall disabled: %v\n", err)
		return nil
	}
	store, err := history.NewMilvusStore(ctx, history.DefaultMilvusConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: recall disabled: %v\n", err)
		return nil
	}
	defer store.Close()

	archive, err := history.NewArchive(embedder, store)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: recall disabled: %v\n", err)
		return nil
	}

	query := segments[0].Text
	prior := make(map[string][]string, len(cast))
	for _, p := range cast {
		prior[p.Name] = archive.PriorActions(ctx, p.Name, query, amendTopK)
	}
	return prior
}

func printSuggestion(seg amend.ActionSegment) {
	var (
		lineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6272A4"))
		fromStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF79C6")).Bold(true)
		toStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BE9FD")).Bold(true)
		scoreStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#BD93F9"))
	)

	s := seg.Suggestion
	fmt.Println()
	fmt.Println(lineStyle.Render(fmt.Sprintf("Lines %d-%d:", seg.LineStart, seg.LineEnd)))
	fmt.Printf("  %s\n", seg.OriginalLine)
	fmt.Printf("  %s %s %s\n",
		fromStyle.Render(fmt.Sprintf("%s (%.3f)", s.Current, s.CurrentScore)),
		lineStyle.Render("→"),
		toStyle.Render(fmt.Sprintf("%s (%.3f)", s.Suggested, s.SuggestedScore)))
	fmt.Println(scoreStyle.Render(fmt.Sprintf("  Confidence gap: %.3f", s.Difference)))
	for _, alt := range s.Alternatives {
		fmt.Println(lineStyle.Render(fmt.Sprintf("    %-24s %.3f", alt.Name, alt.Score)))
	}
}
