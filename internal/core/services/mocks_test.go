package services

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/custodia-labs/campus-assistant/internal/core/domain"
	"github.com/custodia-labs/campus-assistant/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbeddingService counts calls and returns a fixed vector.
type mockEmbeddingService struct {
	vector     []float32
	model      string
	dims       int
	embedErr   error
	embedCalls atomic.Int32
	batchCalls atomic.Int32
}

func (m *mockEmbeddingService) Embed(_ context.Context, _ string) ([]float32, error) {
	m.embedCalls.Add(1)
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.vector, nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.batchCalls.Add(1)
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = m.vector
	}
	return out, nil
}

func (m *mockEmbeddingService) Dimensions() int              { return m.dims }
func (m *mockEmbeddingService) ModelName() string            { return m.model }
func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }
func (m *mockEmbeddingService) Close() error                 { return nil }

// mockVectorIndex returns canned hits and counts searches.
type mockVectorIndex struct {
	hits        []domain.SearchHit
	searchErr   error
	searchCalls atomic.Int32
	lastK       atomic.Int32
}

func (m *mockVectorIndex) Search(_ context.Context, _ []float32, k int) ([]domain.SearchHit, error) {
	m.searchCalls.Add(1)
	m.lastK.Store(int32(k))
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if k > len(m.hits) {
		return m.hits, nil
	}
	return m.hits[:k], nil
}

func (m *mockVectorIndex) Len() int                       { return len(m.hits) }
func (m *mockVectorIndex) Metadata() domain.IndexMetadata { return domain.IndexMetadata{} }
func (m *mockVectorIndex) Chunks() []domain.Chunk         { return nil }

// staticIndex is an IndexProvider with a fixed index.
type staticIndex struct {
	idx driven.VectorIndex
}

func (s staticIndex) Index() driven.VectorIndex { return s.idx }

// mockLLMService delegates to generate and records prompts.
type mockLLMService struct {
	mu       sync.Mutex
	prompts  []string
	opts     []driven.GenerateOptions
	generate func(ctx context.Context, prompt string) (string, error)
}

func (m *mockLLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.opts = append(m.opts, opts)
	m.mu.Unlock()
	return m.generate(ctx, prompt)
}

func (m *mockLLMService) lastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.prompts) == 0 {
		return ""
	}
	return m.prompts[len(m.prompts)-1]
}

func (m *mockLLMService) ModelName() string            { return "mock-llm" }
func (m *mockLLMService) Ping(_ context.Context) error { return nil }
func (m *mockLLMService) Close() error                 { return nil }

// mockPromptStore serves one template.
type mockPromptStore struct {
	template string
	err      error
}

func (m *mockPromptStore) Load(_ string) (string, error) { return m.template, m.err }
func (m *mockPromptStore) Reload()                       {}

// mockAcquirer returns canned documents. When block is set, Acquire waits
// on it so tests can hold a build open.
type mockAcquirer struct {
	docs      []domain.RawDocument
	err       error
	block     chan struct{}
	entered   chan struct{}
	calls     atomic.Int32
	mu        sync.Mutex
	locations [][]string
}

func (m *mockAcquirer) Acquire(ctx context.Context, locations []string) ([]domain.RawDocument, error) {
	m.calls.Add(1)
	m.mu.Lock()
	m.locations = append(m.locations, locations)
	m.mu.Unlock()
	if m.entered != nil {
		m.entered <- struct{}{}
	}
	if m.block != nil {
		select {
		case <-m.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return m.docs, m.err
}

// mockIndexStore keeps one snapshot in memory.
type mockIndexStore struct {
	mu      sync.Mutex
	meta    domain.IndexMetadata
	chunks  []domain.Chunk
	exists  bool
	loadErr error
	saveErr error
	saves   int
}

func (m *mockIndexStore) Exists(_ context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.exists, nil
}

func (m *mockIndexStore) Save(_ context.Context, idx driven.VectorIndex) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.meta = idx.Metadata()
	m.chunks = idx.Chunks()
	m.exists = true
	return nil
}

func (m *mockIndexStore) Load(_ context.Context) (domain.IndexMetadata, []domain.Chunk, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return domain.IndexMetadata{}, nil, m.loadErr
	}
	return m.meta, m.chunks, nil
}

func (m *mockIndexStore) Location() string { return "mock://index" }

func (m *mockIndexStore) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
