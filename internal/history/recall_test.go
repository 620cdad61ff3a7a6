package history

import (
	"context"
	"errors"
	"testing"

	"github.com/greenmere/lorekeep/internal/ingest/story"
	"github.com/greenmere/lorekeep/internal/party"
)

// fakeEmbedder returns a fixed-size zero vector per text.
type fakeEmbedder struct {
	calls  int
	batch  []int
	failOn error
}

func (e *fakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	e.calls++
	e.batch = append(e.batch, len(texts))
	if e.failOn != nil {
		return nil, e.failOn
	}
	vectors := make([][]float32, len(texts))
	for i := range vectors {
		vectors[i] = make([]float32, 4)
	}
	return vectors, nil
}

func (e *fakeEmbedder) Dimension() int { return 4 }

// fakeStore records inserts and serves canned search results.
type fakeStore struct {
	inserted []ActionRecord
	results  []RecalledAction
	searches int
	err      error
	closed   bool
}

func (s *fakeStore) Insert(ctx context.Context, records []ActionRecord, vectors [][]float32) error {
	if s.err != nil {
		return s.err
	}
	if len(records) != len(vectors) {
		return errors.New("record/vector length mismatch")
	}
	s.inserted = append(s.inserted, records...)
	return nil
}

func (s *fakeStore) Search(ctx context.Context, character string, queryVector []float32, topK int) ([]RecalledAction, error) {
	s.searches++
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

func (s *fakeStore) Close() error {
	s.closed = true
	return nil
}

func testParty() []*party.Profile {
	return []*party.Profile{
		{Name: "Elara Moonwhisper"},
		{Name: "Borin Stonefist"},
	}
}

func TestNewArchiveNilArguments(t *testing.T) {
	if _, err := NewArchive(nil, &fakeStore{}); err == nil {
		t.Error("expected error for nil embedder")
	}
	if _, err := NewArchive(&fakeEmbedder{}, nil); err == nil {
		t.Error("expected error for nil store")
	}
}

func TestCollectActionsPrefersStructuredBlocks(t *testing.T) {
	text := `CHARACTER: Elara Moonwhisper
ACTION: casts Light on her staff
REASONING: the passage is dark

Borin Stonefist hefted his axe.
`
	records := CollectActions(testParty(), []story.Story{{Name: "ep1.md", Text: text}})

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d: %v", len(records), records)
	}

	var elara, borin *ActionRecord
	for i := range records {
		switch records[i].Character {
		case "Elara Moonwhisper":
			elara = &records[i]
		case "Borin Stonefist":
			borin = &records[i]
		}
	}

	if elara == nil || elara.Action != "casts Light on her staff" {
		t.Errorf("structured block should win for Elara: %+v", elara)
	}
	if borin == nil || borin.Action != "Borin Stonefist hefted his axe." {
		t.Errorf("mention fallback should capture Borin: %+v", borin)
	}
}

func TestCollectActionsSkipsBlockMarkerMentions(t *testing.T) {
	text := `CHARACTER: Elara Moonwhisper
ACTION: Elara Moonwhisper raises her staff
`
	records := CollectActions(testParty(), []story.Story{{Name: "ep1.md", Text: text}})

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d: %v", len(records), records)
	}
	if records[0].Action != "Elara Moonwhisper raises her staff" {
		t.Errorf("unexpected action: %q", records[0].Action)
	}
}

func TestCollectActionsMatchesBlockByFirstName(t *testing.T) {
	text := "CHARACTER: Borin\nACTION: shoulders the door open\n"
	records := CollectActions(testParty(), []story.Story{{Name: "ep1.md", Text: text}})

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Character != "Borin Stonefist" {
		t.Errorf("block character should resolve to the full name, got %q", records[0].Character)
	}
}

func TestIndexStoriesBatchesEmbeddings(t *testing.T) {
	var text string
	for i := 0; i < embedBatchSize+5; i++ {
		text += "Borin swings again.\n"
	}

	embedder := &fakeEmbedder{}
	store := &fakeStore{}
	archive, err := NewArchive(embedder, store)
	if err != nil {
		t.Fatalf("NewArchive failed: %v", err)
	}

	count, err := archive.IndexStories(context.Background(), testParty(), []story.Story{{Name: "ep1.md", Text: text}})
	if err != nil {
		t.Fatalf("IndexStories failed: %v", err)
	}

	if count != embedBatchSize+5 {
		t.Errorf("expected %d records indexed, got %d", embedBatchSize+5, count)
	}
	if embedder.calls != 2 {
		t.Errorf("expected 2 embedding batches, got %d", embedder.calls)
	}
	if embedder.batch[0] != embedBatchSize || embedder.batch[1] != 5 {
		t.Errorf("unexpected batch sizes: %v", embedder.batch)
	}
	if len(store.inserted) != count {
		t.Errorf("expected %d records inserted, got %d", count, len(store.inserted))
	}
}

func TestIndexStoriesNoActions(t *testing.T) {
	embedder := &fakeEmbedder{}
	archive, _ := NewArchive(embedder, &fakeStore{})

	count, err := archive.IndexStories(context.Background(), testParty(), []story.Story{{Name: "ep1.md", Text: "Nothing happens.\n"}})
	if err != nil {
		t.Fatalf("IndexStories failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 records, got %d", count)
	}
	if embedder.calls != 0 {
		t.Error("no actions should mean no embedding calls")
	}
}

func TestIndexStoriesEmbedFailure(t *testing.T) {
	embedder := &fakeEmbedder{failOn: errors.New("rate limited")}
	archive, _ := NewArchive(embedder, &fakeStore{})

	_, err := archive.IndexStories(context.Background(), testParty(), []story.Story{{Name: "ep1.md", Text: "Borin swings.\n"}})
	if err == nil {
		t.Error("expected embedding failure to surface")
	}
}

func TestRecall(t *testing.T) {
	store := &fakeStore{results: []RecalledAction{
		{ActionRecord: ActionRecord{Character: "Borin Stonefist", Story: "ep1.md", Line: 3, Action: "Borin swings."}, Score: 0.91},
	}}
	archive, _ := NewArchive(&fakeEmbedder{}, store)

	recalled, err := archive.Recall(context.Background(), "Borin Stonefist", "swinging an axe", 5)
	if err != nil {
		t.Fatalf("Recall failed: %v", err)
	}
	if len(recalled) != 1 || recalled[0].Action != "Borin swings." {
		t.Errorf("unexpected recall results: %v", recalled)
	}
	if store.searches != 1 {
		t.Errorf("expected 1 search, got %d", store.searches)
	}
}

func TestRecallValidation(t *testing.T) {
	archive, _ := NewArchive(&fakeEmbedder{}, &fakeStore{})

	if _, err := archive.Recall(context.Background(), "Borin", "", 5); err == nil {
		t.Error("expected error for empty query")
	}
	if _, err := archive.Recall(context.Background(), "Borin", "query", 0); err == nil {
		t.Error("expected error for non-positive topK")
	}
}

func TestPriorActionsDegradesOnError(t *testing.T) {
	archive, _ := NewArchive(&fakeEmbedder{}, &fakeStore{err: errors.New("milvus down")})

	if got := archive.PriorActions(context.Background(), "Borin", "query", 5); got != nil {
		t.Errorf("expected nil on store error, got %v", got)
	}
}

func TestPriorActionsReturnsTexts(t *testing.T) {
	store := &fakeStore{results: []RecalledAction{
		{ActionRecord: ActionRecord{Action: "first"}, Score: 0.9},
		{ActionRecord: ActionRecord{Action: "second"}, Score: 0.8},
	}}
	archive, _ := NewArchive(&fakeEmbedder{}, store)

	got := archive.PriorActions(context.Background(), "Borin", "query", 5)
	if len(got) != 2 || got[0] != "first" || got[1] != "second" {
		t.Errorf("unexpected prior actions: %v", got)
	}
}

func TestArchiveClose(t *testing.T) {
	store := &fakeStore{}
	archive, _ := NewArchive(&fakeEmbedder{}, store)

	if err := archive.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !store.closed {
		t.Error("store should be closed")
	}
}
