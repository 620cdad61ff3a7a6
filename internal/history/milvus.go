package history

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

var (
	ErrInvalidDimension = errors.New("invalid vector dimension")
	ErrEmptyRecords     = errors.New("no records provided for insertion")
	ErrConnectionFailed = errors.New("failed to connect to Milvus")
	ErrInsertFailed     = errors.New("failed to insert records")
	ErrSearchFailed     = errors.New("failed to search vectors")
)

// MilvusConfig holds configuration for the Milvus connection and the action
// collection.
type MilvusConfig struct {
	Address        string // Milvus server address (e.g., "localhost:19530")
	CollectionName string
	Dimension      int

	// HNSW index parameters
	M              int
	EfConstruction int
}

// DefaultMilvusConfig returns defaults, honoring MILVUS_ADDRESS and
// MILVUS_COLLECTION when set.
func DefaultMilvusConfig() MilvusConfig {
	address := os.Getenv("MILVUS_ADDRESS")
	if address == "" {
		address = "localhost:19530"
	}

	collection := os.Getenv("MILVUS_COLLECTION")
	if collection == "" {
		collection = "lorekeep_actions"
	}

	return MilvusConfig{
		Address:        address,
		CollectionName: collection,
		Dimension:      DefaultEmbeddingDimension,
		M:              16,
		EfConstruction: 256,
	}
}

// MilvusStore implements Store using Milvus.
type MilvusStore struct {
	client client.Client
	config MilvusConfig
}

// NewMilvusStore connects to Milvus and ensures the action collection
// exists with the expected schema.
func NewMilvusStore(ctx context.Context, config MilvusConfig) (*MilvusStore, error) {
	if config.Dimension <= 0 {
		return nil, ErrInvalidDimension
	}

	c, err := client.NewGrpcClient(ctx, config.Address)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}

	store := &MilvusStore{
		client: c,
		config: config,
	}

	if err := store.ensureCollection(ctx); err != nil {
		c.Close()
		return nil, err
	}

	return store, nil
}

func (m *MilvusStore) ensureCollection(ctx context.Context) error {
	has, err := m.client.HasCollection(ctx, m.config.CollectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection existence: %w", err)
	}
	if has {
		return nil
	}

	schema := &entity.Schema{
		CollectionName: m.config.CollectionName,
		AutoID:         true,
		Fields: []*entity.Field{
			{
				Name:       "id",
				DataType:   entity.FieldTypeInt64,
				PrimaryKey: true,
				AutoID:     true,
			},
			{
				Name:     "character",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "128",
				},
			},
			{
				Name:     "story",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "256",
				},
			},
			{
				Name:     "line",
				DataType: entity.FieldTypeInt64,
			},
			{
				Name:     "action",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "4096",
				},
			},
			{
				Name:     "embedding",
				DataType: entity.FieldTypeFloatVector,
				TypeParams: map[string]string{
					"dim": fmt.Sprintf("%d", m.config.Dimension),
				},
			},
		},
	}

	if err := m.client.CreateCollection(ctx, schema, entity.DefaultShardNumber); err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	idx, err := entity.NewIndexHNSW(entity.COSINE, m.config.M, m.config.EfConstruction)
	if err != nil {
		return fmt.Errorf("failed to create index config: %w", err)
	}
	if err := m.client.CreateIndex(ctx, m.config.CollectionName, "embedding", idx, false); err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	if err := m.client.LoadCollection(ctx, m.config.CollectionName, false); err != nil {
		return fmt.Errorf("failed to load collection: %w", err)
	}

	return nil
}

// Insert adds action records with their embeddings.
func (m *MilvusStore) Insert(ctx context.Context, records []ActionRecord, vectors [][]float32) error {
	if len(records) == 0 {
		return ErrEmptyRecords
	}
	if len(records) != len(vectors) {
		return fmt.Errorf("%w: %d records but %d vectors", ErrInsertFailed, len(records), len(vectors))
	}

	characters := make([]string, len(records))
	stories := make([]string, len(records))
	lines := make([]int64, len(records))
	actions := make([]string, len(records))

	for i, r := range records {
		characters[i] = r.Character
		stories[i] = r.Story
		lines[i] = int64(r.Line)
		actions[i] = r.Action
	}

	columns := []entity.Column{
		entity.NewColumnVarChar("character", characters),
		entity.NewColumnVarChar("story", stories),
		entity.NewColumnInt64("line", lines),
		entity.NewColumnVarChar("action", actions),
		entity.NewColumnFloatVector("embedding", m.config.Dimension, vectors),
	}

	if _, err := m.client.Insert(ctx, m.config.CollectionName, "", columns...); err != nil {
		return fmt.Errorf("%w: %v", ErrInsertFailed, err)
	}

	if err := m.client.Flush(ctx, m.config.CollectionName, false); err != nil {
		return fmt.Errorf("failed to flush data: %w", err)
	}

	return nil
}

// Search returns the topK most similar archived actions of one character.
func (m *MilvusStore) Search(ctx context.Context, character string, queryVector []float32, topK int) ([]RecalledAction, error) {
	if len(queryVector) != m.config.Dimension {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrInvalidDimension, m.config.Dimension, len(queryVector))
	}

	expr := fmt.Sprintf(`character == "%s"`, character)

	sp, err := entity.NewIndexHNSWSearchParam(64)
	if err != nil {
		return nil, fmt.Errorf("failed to create search params: %w", err)
	}

	vectors := []entity.Vector{entity.FloatVector(queryVector)}
	outputFields := []string{"character", "story", "line", "action"}

	results, err := m.client.Search(
		ctx,
		m.config.CollectionName,
		nil, // partition names
		expr,
		outputFields,
		vectors,
		"embedding",
		entity.COSINE,
		topK,
		sp,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}

	if len(results) == 0 {
		return []RecalledAction{}, nil
	}

	recalled := make([]RecalledAction, 0, results[0].ResultCount)
	for i := 0; i < results[0].ResultCount; i++ {
		action := RecalledAction{Score: results[0].Scores[i]}

		for _, field := range results[0].Fields {
			switch field.Name() {
			case "character":
				action.Character = field.(*entity.ColumnVarChar).Data()[i]
			case "story":
				action.Story = field.(*entity.ColumnVarChar).Data()[i]
			case "line":
				action.Line = int(field.(*entity.ColumnInt64).Data()[i])
			case "action":
				action.Action = field.(*entity.ColumnVarChar).Data()[i]
			}
		}

		recalled = append(recalled, action)
	}

	return recalled, nil
}

// Close releases the Milvus connection.
func (m *MilvusStore) Close() error {
	if m.client != nil {
		return m.client.Close()
	}
	return nil
}
