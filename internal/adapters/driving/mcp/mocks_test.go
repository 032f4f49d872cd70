package mcp

import (
	"context"

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
	state   domain.IndexState
	meta    domain.IndexMetadata
	ready   bool
	sources []string
}

func (m *mockIndexService) Start(_ context.Context) error { return nil }

func (m *mockIndexService) Rebuild(_ context.Context, _ []string) error { return nil }

func (m *mockIndexService) State() domain.IndexState { return m.state }

func (m *mockIndexService) Metadata() (domain.IndexMetadata, bool) { return m.meta, m.ready }

func (m *mockIndexService) Sources() []string { return m.sources }
