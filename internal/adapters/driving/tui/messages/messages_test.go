package messages

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/campus-assistant/internal/core/domain"
)

func TestAnswerCompleted(t *testing.T) {
	t.Run("with answer", func(t *testing.T) {
		a := &domain.Answer{Question: "q", Points: []string{"• yes"}}
		msg := AnswerCompleted{Question: "q", Answer: a}

		require.NotNil(t, msg.Answer)
		assert.Equal(t, "q", msg.Question)
		assert.NoError(t, msg.Err)
	})

	t.Run("with error", func(t *testing.T) {
		msg := AnswerCompleted{Question: "q", Err: errors.New("failed")}

		assert.Nil(t, msg.Answer)
		assert.EqualError(t, msg.Err, "failed")
	})
}

func TestIndexStatus(t *testing.T) {
	msg := IndexStatus{State: domain.IndexStateEmbedding}

	assert.Equal(t, "embedding", msg.State.String())
}

func TestViewType_String(t *testing.T) {
	tests := []struct {
		view ViewType
		want string
	}{
		{ViewAsk, "ask"},
		{ViewHelp, "help"},
		{ViewType(99), "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.view.String())
		})
	}
}

func TestViewChanged(t *testing.T) {
	msg := ViewChanged{View: ViewHelp}

	assert.Equal(t, ViewHelp, msg.View)
}

func TestErrorOccurred(t *testing.T) {
	err := errors.New("boom")
	msg := ErrorOccurred{Err: err}

	assert.Equal(t, err, msg.Err)
}
