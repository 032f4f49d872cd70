// Package chunker splits document text into overlapping, boundary-aware chunks.
package chunker

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/custodia-labs/campus-assistant/internal/core/domain"
	"github.com/custodia-labs/campus-assistant/internal/core/ports/driven"
)

// Ensure Processor implements the interface.
var _ driven.PostProcessor = (*Processor)(nil)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = domain.DefaultChunkSize

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = domain.DefaultChunkOverlap

// DefaultSeparators are tried in order: paragraph, line, sentence, word, character.
var DefaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// Processor splits document content recursively. It splits on the coarsest
// separator present in the text, merges the pieces back into chunks of at
// most chunkSize characters, and re-splits any piece that is still too long
// with the next finer separator.
type Processor struct {
	chunkSize  int
	overlap    int
	separators []string
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// WithSeparators replaces the separator hierarchy. The empty separator is
// always appended so that any text can be split.
func WithSeparators(seps ...string) Option {
	return func(p *Processor) {
		if len(seps) == 0 {
			return
		}
		if seps[len(seps)-1] != "" {
			seps = append(seps, "")
		}
		p.separators = seps
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize:  DefaultChunkSize,
		overlap:    DefaultChunkOverlap,
		separators: DefaultSeparators,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Overlap must leave room for new text in every chunk.
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// ChunkSize returns the maximum chunk length in characters.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Overlap returns the maximum overlap between consecutive chunks.
func (p *Processor) Overlap() int {
	return p.overlap
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from document content.
func (p *Processor) Process(ctx context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content := strings.TrimSpace(doc.Content)
	if content == "" {
		return nil, nil
	}

	var texts []string
	if runeLen(content) <= p.chunkSize {
		texts = []string{content}
	} else {
		texts = p.Split(content)
	}

	chunks := make([]domain.Chunk, 0, len(texts))
	for i, text := range texts {
		chunks = append(chunks, domain.Chunk{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			Source:     doc.URI,
			Content:    text,
			Position:   i,
		})
	}

	return chunks, nil
}

// Split returns the chunk texts for text without building domain chunks.
func (p *Processor) Split(text string) []string {
	return p.split(text, p.separators)
}

func (p *Processor) split(text string, separators []string) []string {
	sep := ""
	var finer []string
	for i, s := range separators {
		if s == "" || strings.Contains(text, s) {
			sep = s
			finer = separators[i+1:]
			break
		}
	}

	var out, fitting []string
	for _, piece := range splitKeep(text, sep) {
		if runeLen(piece) <= p.chunkSize {
			fitting = append(fitting, piece)
			continue
		}
		if len(fitting) > 0 {
			out = append(out, p.merge(fitting)...)
			fitting = nil
		}
		if len(finer) == 0 {
			out = append(out, piece)
			continue
		}
		out = append(out, p.split(piece, finer)...)
	}
	if len(fitting) > 0 {
		out = append(out, p.merge(fitting)...)
	}

	return out
}

// merge greedily packs pieces into chunks of at most chunkSize characters.
// When a chunk is emitted, trailing pieces totalling at most overlap
// characters are carried into the next chunk.
func (p *Processor) merge(pieces []string) []string {
	var out, window []string
	total := 0

	for _, piece := range pieces {
		n := runeLen(piece)
		if total+n > p.chunkSize && len(window) > 0 {
			if text := strings.TrimSpace(strings.Join(window, "")); text != "" {
				out = append(out, text)
			}
			for total > p.overlap || (total+n > p.chunkSize && total > 0) {
				total -= runeLen(window[0])
				window = window[1:]
			}
		}
		window = append(window, piece)
		total += n
	}

	if text := strings.TrimSpace(strings.Join(window, "")); text != "" {
		out = append(out, text)
	}
	return out
}

// splitKeep splits text after every occurrence of sep, keeping sep at the
// end of each piece. The empty separator splits into characters.
func splitKeep(text, sep string) []string {
	if sep == "" {
		pieces := make([]string, 0, len(text))
		for _, r := range text {
			pieces = append(pieces, string(r))
		}
		return pieces
	}
	return strings.SplitAfter(text, sep)
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
