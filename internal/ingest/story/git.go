package story

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing/object"
	"github.com/go-git/go-git/v6/storage/memory"
)

// OpenRepository opens a campaign repository from a local path.
func OpenRepository(dir string) (*git.Repository, error) {
	return git.PlainOpen(dir)
}

// CloneRepository clones a campaign repository to memory.
func CloneRepository(url string) (*git.Repository, error) {
	return git.Clone(memory.NewStorage(), nil, &git.CloneOptions{
		URL: url,
	})
}

// ReadRepositorySeries returns the story files of a campaign repository in
// the order they first entered its history, oldest first, which is the order
// the series was written. subdir restricts the scan to one directory
// ("" means the whole tree). Files deleted from HEAD are not part of the
// current series and are dropped.
func ReadRepositorySeries(repo *git.Repository, subdir string) ([]Story, error) {
	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve HEAD: %w", err)
	}

	headCommit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed to load HEAD commit: %w", err)
	}

	firstSeen, err := firstCommitTimes(repo, subdir)
	if err != nil {
		return nil, err
	}

	type dated struct {
		path string
		when time.Time
	}

	var ordered []dated
	for p, when := range firstSeen {
		ordered = append(ordered, dated{path: p, when: when})
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].when.Equal(ordered[j].when) {
			return ordered[i].path < ordered[j].path
		}
		return ordered[i].when.Before(ordered[j].when)
	})

	var stories []Story
	for _, entry := range ordered {
		file, err := headCommit.File(entry.path)
		if err != nil {
			// Known to history but gone from HEAD.
			continue
		}
		text, err := file.Contents()
		if err != nil {
			continue
		}
		stories = append(stories, Story{
			Name: path.Base(entry.path),
			Path: entry.path,
			Text: text,
		})
	}
	return stories, nil
}

// firstCommitTimes maps each story path to the commit time of its earliest
// appearance. The log iterates newest to oldest, so the last write for a
// path wins, which is exactly the oldest commit touching it.
func firstCommitTimes(repo *git.Repository, subdir string) (map[string]time.Time, error) {
	iter, err := repo.Log(&git.LogOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to read repository log: %w", err)
	}

	firstSeen := make(map[string]time.Time)
	err = iter.ForEach(func(commit *object.Commit) error {
		stats, err := commit.Stats()
		if err != nil {
			// Merge and root commits without usable stats are skipped.
			return nil
		}
		for _, stat := range stats {
			if !IsStoryFile(stat.Name) {
				continue
			}
			if subdir != "" && !strings.HasPrefix(stat.Name, strings.TrimSuffix(subdir, "/")+"/") {
				continue
			}
			firstSeen[stat.Name] = commit.Committer.When
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate commits: %w", err)
	}
	return firstSeen, nil
}
