package tui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/campus-assistant/internal/core/domain"
	"github.com/custodia-labs/campus-assistant/internal/core/ports/driving"
)

// MockAnswerService implements driving.AnswerService for testing.
type MockAnswerService struct {
	AnswerFunc func(ctx context.Context, question string) (*domain.Answer, error)
}

func (m *MockAnswerService) Answer(ctx context.Context, question string) (*domain.Answer, error) {
	if m.AnswerFunc != nil {
		return m.AnswerFunc(ctx, question)
	}
	return &domain.Answer{Question: question}, nil
}

// MockIndexService implements driving.IndexService for testing.
type MockIndexService struct {
	StateValue domain.IndexState
}

func (m *MockIndexService) Start(context.Context) error { return nil }

func (m *MockIndexService) Rebuild(context.Context, []string) error { return nil }

func (m *MockIndexService) State() domain.IndexState { return m.StateValue }

func (m *MockIndexService) Metadata() (domain.IndexMetadata, bool) {
	return domain.IndexMetadata{}, m.StateValue == domain.IndexStateReady
}

func (m *MockIndexService) Sources() []string { return nil }

var (
	_ driving.AnswerService = (*MockAnswerService)(nil)
	_ driving.IndexService  = (*MockIndexService)(nil)
)

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name  string
		ports Ports
		want  error
	}{
		{"valid", Ports{Answer: &MockAnswerService{}, Index: &MockIndexService{}}, nil},
		{"missing answer", Ports{Index: &MockIndexService{}}, ErrMissingAnswerService},
		{"missing index", Ports{Answer: &MockAnswerService{}}, ErrMissingIndexService},
		{"empty", Ports{}, ErrMissingAnswerService},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
