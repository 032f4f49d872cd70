package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/campus-assistant/internal/core/domain"
	"github.com/custodia-labs/campus-assistant/internal/core/ports/driven"
)

// Ensure implementations satisfy the interfaces.
var (
	_ driven.VectorIndex        = (*VectorIndex)(nil)
	_ driven.VectorIndexFactory = (*VectorIndexFactory)(nil)
)

// VectorIndex is an exact nearest-neighbour index held in memory.
// It never changes after construction, so concurrent searches need no locking.
type VectorIndex struct {
	chunks []domain.Chunk
	meta   domain.IndexMetadata
}

// Search returns the k chunks closest to query by Euclidean distance.
// Equal distances keep insertion order.
func (idx *VectorIndex) Search(ctx context.Context, query []float32, k int) ([]domain.SearchHit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if k <= 0 || len(idx.chunks) == 0 {
		return []domain.SearchHit{}, nil
	}
	if len(query) != idx.meta.Dimension {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			domain.ErrDimensionMismatch, len(query), idx.meta.Dimension)
	}

	type scored struct {
		pos  int
		dist float64
	}
	all := make([]scored, len(idx.chunks))
	for i := range idx.chunks {
		all[i] = scored{pos: i, dist: euclidean(query, idx.chunks[i].Embedding)}
	}
	sort.SliceStable(all, func(a, b int) bool { return all[a].dist < all[b].dist })

	if k > len(all) {
		k = len(all)
	}
	hits := make([]domain.SearchHit, k)
	for i := 0; i < k; i++ {
		hits[i] = domain.SearchHit{
			Chunk:    idx.chunks[all[i].pos],
			Rank:     i + 1,
			Distance: all[i].dist,
		}
	}
	return hits, nil
}

// Len returns the number of indexed chunks.
func (idx *VectorIndex) Len() int {
	return len(idx.chunks)
}

// Metadata describes the index.
func (idx *VectorIndex) Metadata() domain.IndexMetadata {
	return idx.meta
}

// Chunks returns a copy of the indexed chunks in insertion order.
func (idx *VectorIndex) Chunks() []domain.Chunk {
	out := make([]domain.Chunk, len(idx.chunks))
	copy(out, idx.chunks)
	return out
}

func euclidean(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}

// VectorIndexFactory builds and restores in-memory vector indexes.
type VectorIndexFactory struct {
	batchSize   int
	parallelism int
	now         func() time.Time
}

// FactoryOption configures a VectorIndexFactory.
type FactoryOption func(*VectorIndexFactory)

// WithBatchSize sets how many chunks are sent per EmbedBatch call.
func WithBatchSize(n int) FactoryOption {
	return func(f *VectorIndexFactory) {
		if n > 0 {
			f.batchSize = n
		}
	}
}

// WithParallelism bounds concurrent EmbedBatch calls.
func WithParallelism(n int) FactoryOption {
	return func(f *VectorIndexFactory) {
		if n > 0 {
			f.parallelism = n
		}
	}
}

// WithClock overrides the build timestamp source.
func WithClock(now func() time.Time) FactoryOption {
	return func(f *VectorIndexFactory) {
		f.now = now
	}
}

// NewVectorIndexFactory creates a factory.
func NewVectorIndexFactory(opts ...FactoryOption) *VectorIndexFactory {
	f := &VectorIndexFactory{
		batchSize:   domain.DefaultEmbedBatchSize,
		parallelism: domain.DefaultEmbedParallelism,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Build embeds chunks lacking an embedding and indexes all of them.
// The input slice is not modified.
func (f *VectorIndexFactory) Build(
	ctx context.Context,
	chunks []domain.Chunk,
	embedder driven.EmbeddingService,
) (driven.VectorIndex, error) {
	if len(chunks) == 0 {
		return nil, domain.ErrEmptyCorpus
	}

	indexed := make([]domain.Chunk, len(chunks))
	copy(indexed, chunks)

	var pending []int
	for i := range indexed {
		if len(indexed[i].Embedding) == 0 {
			pending = append(pending, i)
		}
	}
	if len(pending) > 0 {
		if err := f.embed(ctx, indexed, pending, embedder); err != nil {
			return nil, err
		}
	}

	dim := embedder.Dimensions()
	if dim == 0 {
		dim = len(indexed[0].Embedding)
	}
	for i := range indexed {
		if len(indexed[i].Embedding) != dim {
			return nil, fmt.Errorf("%w: chunk %d has %d dimensions, want %d",
				domain.ErrDimensionMismatch, i, len(indexed[i].Embedding), dim)
		}
	}

	return &VectorIndex{
		chunks: indexed,
		meta: domain.IndexMetadata{
			SchemaVersion: domain.IndexSchemaVersion,
			Dimension:     dim,
			Model:         embedder.ModelName(),
			ChunkCount:    len(indexed),
			CreatedAt:     f.now().UTC(),
		},
	}, nil
}

// embed fills in embeddings for the chunks at the pending positions,
// running up to parallelism batches at once.
func (f *VectorIndexFactory) embed(
	ctx context.Context,
	chunks []domain.Chunk,
	pending []int,
	embedder driven.EmbeddingService,
) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	sem := make(chan struct{}, f.parallelism)

	for start := 0; start < len(pending); start += f.batchSize {
		end := min(start+f.batchSize, len(pending))
		batch := pending[start:end]

		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		go func(batch []int) {
			defer wg.Done()
			defer func() { <-sem }()

			texts := make([]string, len(batch))
			for i, pos := range batch {
				texts[i] = chunks[pos].Content
			}
			vecs, err := embedder.EmbedBatch(ctx, texts)
			if err == nil && len(vecs) != len(texts) {
				err = fmt.Errorf("embedder returned %d vectors for %d texts", len(vecs), len(texts))
			}
			if err != nil {
				once.Do(func() {
					firstErr = fmt.Errorf("embed chunks: %w", err)
					cancel()
				})
				return
			}
			// Each goroutine owns distinct positions.
			for i, pos := range batch {
				chunks[pos].Embedding = vecs[i]
			}
		}(batch)
	}
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	return ctx.Err()
}

// Restore rebuilds an index from persisted metadata and chunks.
func (f *VectorIndexFactory) Restore(meta domain.IndexMetadata, chunks []domain.Chunk) (driven.VectorIndex, error) {
	if meta.Dimension <= 0 {
		return nil, fmt.Errorf("%w: dimension %d", domain.ErrCorruptIndex, meta.Dimension)
	}
	if meta.ChunkCount != len(chunks) {
		return nil, fmt.Errorf("%w: metadata lists %d chunks, found %d",
			domain.ErrCorruptIndex, meta.ChunkCount, len(chunks))
	}
	for i := range chunks {
		if len(chunks[i].Embedding) != meta.Dimension {
			return nil, fmt.Errorf("%w: chunk %s has %d dimensions, want %d",
				domain.ErrCorruptIndex, chunks[i].ID, len(chunks[i].Embedding), meta.Dimension)
		}
	}

	restored := make([]domain.Chunk, len(chunks))
	copy(restored, chunks)
	return &VectorIndex{chunks: restored, meta: meta}, nil
}
