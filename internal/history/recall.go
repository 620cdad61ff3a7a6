package history

import (
	"context"
	"fmt"
	"strings"

	"github.com/greenmere/lorekeep/internal/ingest/story"
	"github.com/greenmere/lorekeep/internal/match"
	"github.com/greenmere/lorekeep/internal/party"
)

// embedBatchSize bounds one embeddings API call.
const embedBatchSize = 32

// Archive composes an embedder with a vector store for indexing and recall.
type Archive struct {
	embedder Embedder
	store    Store
}

// NewArchive creates an action archive.
func NewArchive(embedder Embedder, store Store) (*Archive, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder cannot be nil")
	}
	if store == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	return &Archive{embedder: embedder, store: store}, nil
}

// IndexStories extracts every cast member's action lines from the stories
// and archives them. Structured CHARACTER:/ACTION: blocks are archived as
// written; free text is mined through mention matching.
func (a *Archive) IndexStories(ctx context.Context, cast []*party.Profile, stories []story.Story) (int, error) {
	records := CollectActions(cast, stories)
	if len(records) == 0 {
		return 0, nil
	}

	for start := 0; start < len(records); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[start:end]

		texts := make([]string, len(batch))
		for i, r := range batch {
			texts[i] = r.Action
		}

		vectors, err := a.embedder.Embed(ctx, texts)
		if err != nil {
			return 0, fmt.Errorf("failed to embed action batch: %w", err)
		}
		if err := a.store.Insert(ctx, batch, vectors); err != nil {
			return 0, fmt.Errorf("failed to archive action batch: %w", err)
		}
	}

	return len(records), nil
}

// Recall returns the character's archived actions most similar to the
// query, best first.
func (a *Archive) Recall(ctx context.Context, character, query string, topK int) ([]RecalledAction, error) {
	if query == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}
	if topK <= 0 {
		return nil, fmt.Errorf("topK must be positive, got %d", topK)
	}

	vectors, err := a.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("no embedding generated for query")
	}

	return a.store.Search(ctx, character, vectors[0], topK)
}

// PriorActions returns just the action texts for the fit scorer's
// prior-action signal. Recall failures degrade to no history rather than
// blocking scoring.
func (a *Archive) PriorActions(ctx context.Context, character, query string, topK int) []string {
	recalled, err := a.Recall(ctx, character, query, topK)
	if err != nil {
		return nil
	}

	actions := make([]string, len(recalled))
	for i, r := range recalled {
		actions[i] = r.Action
	}
	return actions
}

// Close releases the underlying store.
func (a *Archive) Close() error {
	return a.store.Close()
}

// CollectActions gathers per-character action records from the stories,
// preferring structured action blocks and falling back to mention lines.
func CollectActions(cast []*party.Profile, stories []story.Story) []ActionRecord {
	castByFirstName := make(map[string]*party.Profile, len(cast))
	castByName := make(map[string]*party.Profile, len(cast))
	for _, p := range cast {
		castByName[p.Name] = p
		castByFirstName[p.FirstName()] = p
	}

	var records []ActionRecord
	for _, st := range stories {
		blocks := story.ParseActionBlocks(st.Text)
		structured := make(map[int]bool, len(blocks))

		for _, block := range blocks {
			p := castByName[block.Character]
			if p == nil {
				p = castByFirstName[block.Character]
			}
			if p == nil || block.Action == "" {
				continue
			}
			structured[block.Line] = true
			records = append(records, ActionRecord{
				Character: p.Name,
				Story:     st.Name,
				Line:      block.Line,
				Action:    block.Action,
			})
		}

		for _, p := range cast {
			for _, mention := range match.FindMentions(st.Text, p.Name) {
				if structured[mention.Line] || isBlockMarker(mention.Text) {
					continue
				}
				records = append(records, ActionRecord{
					Character: p.Name,
					Story:     st.Name,
					Line:      mention.Line,
					Action:    mention.Text,
				})
			}
		}
	}
	return records
}

// isBlockMarker reports whether a mention line is part of a structured
// block; those are already archived from the parsed block.
func isBlockMarker(line string) bool {
	for _, prefix := range []string{"CHARACTER:", "ACTION:", "REASONING:"} {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}
