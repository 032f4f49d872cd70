package driving

import (
	"context"

	"github.com/custodia-labs/campus-assistant/internal/core/domain"
)

// IndexService owns the index lifecycle.
type IndexService interface {
	// Start loads the persisted index or builds a new one. It runs once;
	// any error it returns is fatal for the process.
	Start(ctx context.Context) error

	// Rebuild builds a fresh index from locations (the configured corpus
	// when empty), persists it and swaps it in.
	Rebuild(ctx context.Context, locations []string) error

	// State returns the current lifecycle state.
	State() domain.IndexState

	// Metadata describes the serving index. ok is false before Ready.
	Metadata() (meta domain.IndexMetadata, ok bool)

	// Sources lists the distinct pages in the serving index, in index order.
	Sources() []string
}
