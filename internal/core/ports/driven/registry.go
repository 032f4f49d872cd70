package driven

import (
	"context"

	"github.com/custodia-labs/campus-assistant/internal/core/domain"
)

// NormaliserRegistry selects the appropriate normaliser for a document
// based on its MIME type.
type NormaliserRegistry interface {
	// Normalise transforms a raw document using the matching normaliser.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)

	// Register adds a normaliser to the registry.
	Register(normaliser Normaliser)

	// SupportedMIMETypes returns all MIME types that can be normalised.
	SupportedMIMETypes() []string
}
