package contract

import (
	"context"

	"ai-assistant-be/internal/entity"
)

// ChunkRepository stores embedded document chunks and answers similarity
// queries. Implementations: embedded (any gorm driver, in-process cosine) and
// pgvector (ranking pushed into SQL).
type ChunkRepository interface {
	// UpsertBulk writes chunks keyed by their content-addressed ids;
	// re-importing identical text overwrites rather than duplicates.
	UpsertBulk(ctx context.Context, chunks []*entity.Chunk) error

	// Search returns chunks whose cosine similarity to the query embedding is
	// at least threshold, best first, at most limit.
	Search(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*entity.QueryResult, error)

	Count(ctx context.Context) (int64, error)

	// Clear empties the collection.
	Clear(ctx context.Context) error

	// ExportAll returns every stored chunk, grouped by source in chunk order.
	ExportAll(ctx context.Context) ([]*entity.Chunk, error)
}
