// Package plaintext passes text documents through with line endings normalised.
package plaintext

import (
	"context"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/campus-assistant/internal/core/domain"
	"github.com/custodia-labs/campus-assistant/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text documents.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/plain", "text/markdown"}
}

// Normalise converts a raw document to a document holding its text.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	content := strings.ReplaceAll(string(raw.Content), "\r\n", "\n")

	doc := domain.Document{
		ID:       uuid.New().String(),
		URI:      raw.URI,
		Title:    path.Base(raw.URI),
		Content:  strings.TrimSpace(content),
		Metadata: map[string]any{"mime_type": raw.MIMEType, "format": "text"},
	}

	return &driven.NormaliseResult{
		Document: doc,
	}, nil
}
