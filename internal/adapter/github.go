package adapter

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v77/github"
)

// Campaign repository layout: sheets under characters/, narrative under
// stories/.
const (
	sheetDir = "characters"
	storyDir = "stories"
)

// GitHubAdapter implements Adapter for campaigns hosted on GitHub.
type GitHubAdapter struct{}

// NewGitHubAdapter creates a GitHub adapter instance.
func NewGitHubAdapter() *GitHubAdapter {
	return &GitHubAdapter{}
}

// FetchCampaign downloads character sheets and story files via the contents
// API. Individual files that fail to download are skipped with a warning;
// only an unreachable repository fails the fetch.
func (a *GitHubAdapter) FetchCampaign(ctx context.Context, token, owner, repo string) (*Campaign, error) {
	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}

	sheets, err := fetchDirectory(ctx, client, owner, repo, sheetDir, ".json")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch character sheets: %w", err)
	}

	stories, err := fetchDirectory(ctx, client, owner, repo, storyDir, "")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stories: %w", err)
	}

	return &Campaign{Sheets: sheets, Stories: stories}, nil
}

// fetchDirectory lists one repository directory and downloads every file in
// it, optionally filtered by extension.
func fetchDirectory(ctx context.Context, client *github.Client, owner, repo, dir, ext string) ([]RemoteFile, error) {
	_, entries, _, err := client.Repositories.GetContents(ctx, owner, repo, dir, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var files []RemoteFile
	for _, entry := range entries {
		if entry.GetType() != "file" {
			continue
		}
		if ext != "" && !strings.HasSuffix(strings.ToLower(entry.GetName()), ext) {
			continue
		}

		content, _, _, err := client.Repositories.GetContents(ctx, owner, repo, entry.GetPath(), nil)
		if err != nil {
			fmt.Printf("Warning: failed to fetch %s: %v\n", entry.GetPath(), err)
			continue
		}

		text, err := content.GetContent()
		if err != nil {
			fmt.Printf("Warning: failed to decode %s: %v\n", entry.GetPath(), err)
			continue
		}

		files = append(files, RemoteFile{
			Name:    entry.GetName(),
			Path:    entry.GetPath(),
			Content: text,
		})
	}

	return files, nil
}
