package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/greenmere/lorekeep/internal/history"
)

var recallTopK int

var recallCmd = &cobra.Command{
	Use:   "recall [character] [query]",
	Short: "Recall a character's archived actions similar to a query",
	Long: `Recall searches the action archive for a character's past actions most
similar to the query text. Actions are archived by 'analyze --index'.

Requires OPENAI_API_KEY for query embedding and a reachable Milvus instance
(MILVUS_ADDRESS, default localhost:19530).

Examples:
  lorekeep recall "Boba Fett" "fires his blaster at the guards"
  lorekeep recall Elara "casts a protective ward" --topk 10`,
	Args: cobra.ExactArgs(2),
	RunE: runRecall,
}

func init() {
	rootCmd.AddCommand(recallCmd)
	recallCmd.Flags().IntVar(&recallTopK, "topk", 5, "Number of actions to recall")
}

func runRecall(cmd *cobra.Command, args []string) error {
	character, query := args[0], args[1]
	ctx := context.Background()

	embedder, err := history.NewOpenAIEmbedder(history.DefaultEmbeddingModel, history.DefaultEmbeddingDimension)
	if err != nil {
		return err
	}
	store, err := history.NewMilvusStore(ctx, history.DefaultMilvusConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	archive, err := history.NewArchive(embedder, store)
	if err != nil {
		return err
	}

	recalled, err := archive.Recall(ctx, character, query, recallTopK)
	if err != nil {
		return fmt.Errorf("recall failed: %w", err)
	}
	if len(recalled) == 0 {
		fmt.Printf("No archived actions for %s\n", character)
		return nil
	}

	var (
		storyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#BD93F9"))
		scoreStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF79C6"))
		actionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#E9E9F4"))
	)

	for _, r := range recalled {
		fmt.Printf("%s %s\n  %s\n",
			storyStyle.Render(fmt.Sprintf("%s:%d", r.Story, r.Line)),
			scoreStyle.Render(fmt.Sprintf("(%.3f)", r.Score)),
			actionStyle.Render(r.Action))
	}
	return nil
}
