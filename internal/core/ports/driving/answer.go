package driving

import (
	"context"

	"github.com/custodia-labs/campus-assistant/internal/core/domain"
)

// AnswerService answers questions against the ready index.
type AnswerService interface {
	// Answer returns formatted bullets and sources for a question.
	// Errors: domain.ErrInvalidInput for a blank question,
	// domain.ErrNotReady before the index is ready,
	// domain.ErrGeneration when the generator fails or times out.
	Answer(ctx context.Context, question string) (*domain.Answer, error)
}
