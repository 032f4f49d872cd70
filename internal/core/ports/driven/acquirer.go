package driven

import (
	"context"

	"github.com/custodia-labs/campus-assistant/internal/core/domain"
)

// Acquirer fetches source locations.
type Acquirer interface {
	// Acquire fetches every location and returns one RawDocument per
	// successful fetch, in the order of locations. Failed locations are
	// dropped and reported; an error is returned only when nothing could
	// be fetched or ctx was cancelled.
	Acquire(ctx context.Context, locations []string) ([]domain.RawDocument, error)
}
