// Package adapter fetches remotely hosted campaigns. A campaign repository
// keeps character sheets and story files in well-known directories; the
// adapter downloads both so a campaign can be analyzed locally.
package adapter

import (
	"context"
	"errors"
	"strings"
)

var ErrInvalidRepoRef = errors.New("repository reference must be owner/repo")

// RemoteFile is one downloaded campaign file.
type RemoteFile struct {
	Name    string
	Path    string
	Content string
}

// Campaign bundles the fetched campaign content.
type Campaign struct {
	Sheets  []RemoteFile
	Stories []RemoteFile
}

// Adapter fetches a campaign from a hosting platform.
type Adapter interface {
	// FetchCampaign downloads the character sheets and story files of the
	// referenced repository.
	FetchCampaign(ctx context.Context, token, owner, repo string) (*Campaign, error)
}

// ParseRepoRef splits an "owner/repo" reference.
func ParseRepoRef(ref string) (owner, repo string, err error) {
	parts := strings.Split(strings.TrimSuffix(strings.TrimSpace(ref), "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", ErrInvalidRepoRef
	}
	return parts[0], parts[1], nil
}
