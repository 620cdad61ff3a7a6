package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/greenmere/lorekeep/internal/adapter"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [owner/repo] [dest-dir]",
	Short: "Download a campaign's character sheets and stories from GitHub",
	Long: `Fetch downloads a campaign repository's characters/ and stories/
directories into a local campaign directory ready for analysis.

A GITHUB_TOKEN environment variable is used when set; public repositories
work without one.

Examples:
  lorekeep fetch user/campaign ./campaigns/downloaded`,
	Args: cobra.ExactArgs(2),
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	owner, repo, err := adapter.ParseRepoRef(args[0])
	if err != nil {
		return err
	}
	dest := args[1]

	campaign, err := adapter.NewGitHubAdapter().FetchCampaign(context.Background(), os.Getenv("GITHUB_TOKEN"), owner, repo)
	if err != nil {
		return err
	}

	if err := writeRemoteFiles(filepath.Join(dest, "characters"), campaign.Sheets); err != nil {
		return err
	}
	if err := writeRemoteFiles(filepath.Join(dest, "stories"), campaign.Stories); err != nil {
		return err
	}

	fmt.Printf("✓ Fetched %d character sheets and %d stories into %s\n",
		len(campaign.Sheets), len(campaign.Stories), dest)
	return nil
}

func writeRemoteFiles(dir string, files []adapter.RemoteFile) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	for _, f := range files {
		path := filepath.Join(dir, f.Name)
		if err := os.WriteFile(path, []byte(f.Content), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	return nil
}
