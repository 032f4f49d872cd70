package driven

import (
	"context"

	"github.com/custodia-labs/campus-assistant/internal/core/domain"
)

// VectorIndex is an immutable nearest-neighbour index over chunk vectors.
// Implementations must be safe for concurrent Search calls.
type VectorIndex interface {
	// Search returns at most k hits in ascending distance order.
	// An empty index returns an empty result.
	Search(ctx context.Context, query []float32, k int) ([]domain.SearchHit, error)

	// Len returns the number of indexed chunks.
	Len() int

	// Metadata describes the index (dimension, model, size).
	Metadata() domain.IndexMetadata

	// Chunks returns the indexed chunks with their embeddings, in insertion order.
	Chunks() []domain.Chunk
}

// VectorIndexFactory constructs vector indexes.
type VectorIndexFactory interface {
	// Build embeds every chunk that has no embedding yet and indexes all of them.
	// Empty input fails with domain.ErrEmptyCorpus.
	Build(ctx context.Context, chunks []domain.Chunk, embedder EmbeddingService) (VectorIndex, error)

	// Restore rebuilds an index from persisted chunks and metadata.
	// Inconsistent data fails with domain.ErrCorruptIndex.
	Restore(meta domain.IndexMetadata, chunks []domain.Chunk) (VectorIndex, error)
}
