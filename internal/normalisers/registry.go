package normalisers

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/campus-assistant/internal/core/domain"
	"github.com/custodia-labs/campus-assistant/internal/core/ports/driven"
	"github.com/custodia-labs/campus-assistant/internal/normalisers/docx"
	"github.com/custodia-labs/campus-assistant/internal/normalisers/html"
	"github.com/custodia-labs/campus-assistant/internal/normalisers/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry dispatches raw documents to normalisers by MIME type.
// Documents with an unknown or missing MIME type go to the fallback.
type Registry struct {
	mu       sync.RWMutex
	byMIME   map[string]driven.Normaliser
	fallback driven.Normaliser
}

// NewRegistry creates an empty registry that falls back to fallback.
func NewRegistry(fallback driven.Normaliser) *Registry {
	return &Registry{
		byMIME:   make(map[string]driven.Normaliser),
		fallback: fallback,
	}
}

// NewDefaultRegistry returns a registry for the formats a university site
// serves: HTML pages, plain text, and Word documents linked as forms. HTML
// is the fallback, since web servers frequently mislabel pages.
func NewDefaultRegistry() *Registry {
	h := html.New()
	r := NewRegistry(h)
	r.Register(h)
	r.Register(plaintext.New())
	r.Register(docx.New())
	return r
}

// Register adds a normaliser. Later registrations win for shared MIME types.
func (r *Registry) Register(n driven.Normaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, mime := range n.SupportedMIMETypes() {
		r.byMIME[strings.ToLower(mime)] = n
	}
}

// SupportedMIMETypes returns all registered MIME types, sorted.
func (r *Registry) SupportedMIMETypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.byMIME))
	for mime := range r.byMIME {
		types = append(types, mime)
	}
	sort.Strings(types)
	return types
}

// Normalise transforms raw with the normaliser registered for its MIME type.
func (r *Registry) Normalise(ctx context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	r.mu.RLock()
	n, ok := r.byMIME[strings.ToLower(raw.MIMEType)]
	if !ok {
		n = r.fallback
	}
	r.mu.RUnlock()

	if n == nil {
		return nil, fmt.Errorf("no normaliser for %q", raw.MIMEType)
	}
	return n.Normalise(ctx, raw)
}
