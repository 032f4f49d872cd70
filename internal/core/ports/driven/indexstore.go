package driven

import (
	"context"

	"github.com/custodia-labs/campus-assistant/internal/core/domain"
)

// IndexStore persists a whole vector index to one durable location.
type IndexStore interface {
	// Exists reports whether a persisted index is present.
	Exists(ctx context.Context) (bool, error)

	// Save replaces the persisted index with idx.
	Save(ctx context.Context, idx VectorIndex) error

	// Load reads the persisted index. A missing index fails with
	// domain.ErrIndexNotFound and an unreadable one with domain.ErrCorruptIndex.
	Load(ctx context.Context) (domain.IndexMetadata, []domain.Chunk, error)

	// Location returns where the index lives.
	Location() string
}
