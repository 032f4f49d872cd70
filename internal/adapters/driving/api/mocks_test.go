package api

import (
	"context"
	"sync"

	"github.com/custodia-labs/campus-assistant/internal/core/domain"
)

// mockAnswerService is a mock implementation of driving.AnswerService.
type mockAnswerService struct {
	answer   *domain.Answer
	err      error
	question string
}

func (m *mockAnswerService) Answer(_ context.Context, question string) (*domain.Answer, error) {
	m.question = question
	return m.answer, m.err
}

// mockIndexService is a mock implementation of driving.IndexService.
type mockIndexService struct {
	mu         sync.Mutex
	state      domain.IndexState
	meta       domain.IndexMetadata
	ready      bool
	rebuildErr error
	rebuilt    [][]string
}

func (m *mockIndexService) Start(_ context.Context) error { return nil }

func (m *mockIndexService) Rebuild(_ context.Context, locations []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rebuilt = append(m.rebuilt, locations)
	return m.rebuildErr
}

func (m *mockIndexService) State() domain.IndexState { return m.state }

func (m *mockIndexService) Metadata() (domain.IndexMetadata, bool) { return m.meta, m.ready }

func (m *mockIndexService) Sources() []string { return nil }
