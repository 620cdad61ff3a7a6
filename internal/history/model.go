// Package history archives the actions characters have performed across a
// series and recalls the ones most similar to a query. Action lines are
// embedded and stored in Milvus; the fit scorer consumes recalled actions as
// its prior-action signal, replacing the neutral no-history default with
// real history.
package history

import "context"

// ActionRecord is one archived character action.
type ActionRecord struct {
	Character string `json:"character"`
	Story     string `json:"story"`
	Line      int    `json:"line"`
	Action    string `json:"action"`
}

// RecalledAction is an archived action returned from similarity search.
type RecalledAction struct {
	ActionRecord
	Score float32 `json:"score"` // cosine similarity to the query
}

// Embedder turns action texts into vectors.
type Embedder interface {
	// Embed generates one vector per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the embedding vector dimension.
	Dimension() int
}

// Store is the vector archive behind recall. Implementations must scope
// Search to a single character.
type Store interface {
	// Insert adds records with their embeddings, in matching order.
	Insert(ctx context.Context, records []ActionRecord, vectors [][]float32) error

	// Search returns the topK archived actions of one character most
	// similar to the query vector, best first.
	Search(ctx context.Context, character string, queryVector []float32, topK int) ([]RecalledAction, error)

	// Close releases resources and closes connections.
	Close() error
}
