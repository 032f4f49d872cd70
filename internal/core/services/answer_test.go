package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/campus-assistant/internal/core/domain"
	"github.com/custodia-labs/campus-assistant/internal/core/ports/driven"
)

const testTemplate = "Context:\n{context}\n\nQuestion: {question}\nAnswer:"

func admissionsHits() []domain.SearchHit {
	return []domain.SearchHit{
		{Rank: 1, Distance: 0.1, Chunk: domain.Chunk{
			ID: "c1", Source: "https://example.edu/admissions", Content: "Admissions open in June every year.",
		}},
		{Rank: 2, Distance: 0.4, Chunk: domain.Chunk{
			ID: "c2", Source: "https://example.edu/fees", Content: "Fees are paid each semester.",
		}},
		{Rank: 3, Distance: 0.9, Chunk: domain.Chunk{
			ID: "c3", Source: "https://example.edu/", Content: strings.Repeat("x", 300),
		}},
	}
}

type answerFixture struct {
	embedder *mockEmbeddingService
	index    *mockVectorIndex
	llm      *mockLLMService
	prompts  *mockPromptStore
}

func newAnswerFixture(generate func(ctx context.Context, prompt string) (string, error)) *answerFixture {
	return &answerFixture{
		embedder: &mockEmbeddingService{vector: []float32{1, 0}, model: "m", dims: 2},
		index:    &mockVectorIndex{hits: admissionsHits()},
		llm:      &mockLLMService{generate: generate},
		prompts:  &mockPromptStore{template: testTemplate},
	}
}

func (f *answerFixture) service(cfg AnswerConfig) *AnswerService {
	return NewAnswerService(staticIndex{idx: f.index}, f.embedder, f.llm, f.prompts, cfg)
}

func reply(text string) func(context.Context, string) (string, error) {
	return func(context.Context, string) (string, error) { return text, nil }
}

func TestAnswerService_Answer(t *testing.T) {
	f := newAnswerFixture(reply("Admissions open in June."))
	svc := f.service(AnswerConfig{})

	ans, err := svc.Answer(context.Background(), "  When do admissions open?  ")

	require.NoError(t, err)
	assert.Equal(t, "When do admissions open?", ans.Question)
	assert.Equal(t, "Admissions open in June.", ans.Raw)
	assert.Equal(t, []string{"• Admissions open in June."}, ans.Points)

	require.Len(t, ans.Sources, 3)
	assert.Equal(t, "https://example.edu/admissions", ans.Sources[0].Source)
	assert.Equal(t, "Admissions open in June every year....", ans.Sources[0].ContentPreview)
	assert.Equal(t, strings.Repeat("x", domain.PreviewLength)+domain.PreviewMarker, ans.Sources[2].ContentPreview)

	assert.Equal(t, int32(1), f.embedder.embedCalls.Load())
	assert.Equal(t, int32(1), f.index.searchCalls.Load())
	assert.Equal(t, int32(domain.DefaultTopK), f.index.lastK.Load())
}

func TestAnswerService_Answer_RendersPrompt(t *testing.T) {
	f := newAnswerFixture(reply("ok"))
	svc := f.service(AnswerConfig{})

	_, err := svc.Answer(context.Background(), "When do admissions open?")
	require.NoError(t, err)

	prompt := f.llm.lastPrompt()
	assert.Contains(t, prompt, "Question: When do admissions open?")
	assert.Contains(t, prompt, "Admissions open in June every year.\n\nFees are paid each semester.")
	assert.NotContains(t, prompt, "{context}")
	assert.NotContains(t, prompt, "{question}")
}

func TestAnswerService_Answer_PlaceholdersInQuestionAreLiteral(t *testing.T) {
	f := newAnswerFixture(reply("ok"))
	svc := f.service(AnswerConfig{})

	_, err := svc.Answer(context.Background(), "what is {context}?")
	require.NoError(t, err)

	assert.Contains(t, f.llm.lastPrompt(), "Question: what is {context}?")
}

func TestAnswerService_Answer_EmptyQuestion(t *testing.T) {
	for _, q := range []string{"", "   ", "\n\t"} {
		f := newAnswerFixture(reply("unused"))
		svc := f.service(AnswerConfig{})

		_, err := svc.Answer(context.Background(), q)

		require.ErrorIs(t, err, domain.ErrInvalidInput, "question %q", q)
		assert.Zero(t, f.embedder.embedCalls.Load())
		assert.Zero(t, f.index.searchCalls.Load())
		assert.Empty(t, f.llm.prompts)
	}
}

func TestAnswerService_Answer_NotReady(t *testing.T) {
	f := newAnswerFixture(reply("unused"))
	svc := NewAnswerService(staticIndex{}, f.embedder, f.llm, f.prompts, AnswerConfig{})

	_, err := svc.Answer(context.Background(), "When do admissions open?")

	require.ErrorIs(t, err, domain.ErrNotReady)
	assert.Zero(t, f.embedder.embedCalls.Load())
}

func TestAnswerService_Answer_EmptyQuestionCheckedBeforeReadiness(t *testing.T) {
	f := newAnswerFixture(reply("unused"))
	svc := NewAnswerService(staticIndex{}, f.embedder, f.llm, f.prompts, AnswerConfig{})

	_, err := svc.Answer(context.Background(), "")

	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAnswerService_Answer_TopKForwarded(t *testing.T) {
	f := newAnswerFixture(reply("ok"))
	svc := f.service(AnswerConfig{TopK: 2})

	ans, err := svc.Answer(context.Background(), "fees?")

	require.NoError(t, err)
	assert.Equal(t, int32(2), f.index.lastK.Load())
	assert.Len(t, ans.Sources, 2)
}

func TestAnswerService_Answer_GenerateOptionsForwarded(t *testing.T) {
	f := newAnswerFixture(reply("ok"))
	opts := driven.GenerateOptions{MaxTokens: 500, Temperature: 0.3, TopK: 50, TopP: 0.9, RepetitionPenalty: 1.1}
	svc := f.service(AnswerConfig{Generate: opts})

	_, err := svc.Answer(context.Background(), "fees?")

	require.NoError(t, err)
	require.Len(t, f.llm.opts, 1)
	assert.Equal(t, opts, f.llm.opts[0])
}

func TestAnswerService_Answer_GenerationError(t *testing.T) {
	f := newAnswerFixture(func(context.Context, string) (string, error) {
		return "", errors.New("model exploded")
	})
	svc := f.service(AnswerConfig{})

	_, err := svc.Answer(context.Background(), "fees?")

	require.ErrorIs(t, err, domain.ErrGeneration)
	assert.Contains(t, err.Error(), "model exploded")
}

func TestAnswerService_Answer_GenerationTimeout(t *testing.T) {
	f := newAnswerFixture(func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	svc := f.service(AnswerConfig{Timeout: 20 * time.Millisecond})

	_, err := svc.Answer(context.Background(), "fees?")

	require.ErrorIs(t, err, domain.ErrGeneration)
	assert.Contains(t, err.Error(), "timed out after 20ms")
}

func TestAnswerService_Answer_NoLLM(t *testing.T) {
	f := newAnswerFixture(nil)
	svc := NewAnswerService(staticIndex{idx: f.index}, f.embedder, nil, f.prompts, AnswerConfig{})

	_, err := svc.Answer(context.Background(), "fees?")

	require.ErrorIs(t, err, domain.ErrGeneration)
	require.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestAnswerService_Answer_EmbedAndSearchErrors(t *testing.T) {
	t.Run("embed", func(t *testing.T) {
		f := newAnswerFixture(reply("unused"))
		f.embedder.embedErr = errors.New("embedder offline")
		svc := f.service(AnswerConfig{})

		_, err := svc.Answer(context.Background(), "fees?")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "embed question")
		assert.Zero(t, f.index.searchCalls.Load())
	})

	t.Run("search", func(t *testing.T) {
		f := newAnswerFixture(reply("unused"))
		f.index.searchErr = domain.ErrDimensionMismatch
		svc := f.service(AnswerConfig{})

		_, err := svc.Answer(context.Background(), "fees?")

		require.ErrorIs(t, err, domain.ErrDimensionMismatch)
		assert.Empty(t, f.llm.prompts)
	})
}

func TestAnswerService_Answer_PromptLoadError(t *testing.T) {
	f := newAnswerFixture(reply("unused"))
	f.prompts.err = errors.New("permission denied")
	svc := f.service(AnswerConfig{})

	_, err := svc.Answer(context.Background(), "fees?")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "load prompt")
}

func TestAnswerService_Answer_ConcurrentRequestsDoNotSerialise(t *testing.T) {
	release := make(chan struct{})
	f := newAnswerFixture(func(ctx context.Context, prompt string) (string, error) {
		if strings.Contains(prompt, "slow") {
			select {
			case <-release:
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
		return "done", nil
	})
	svc := f.service(AnswerConfig{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = svc.Answer(context.Background(), "slow question")
	}()

	// The fast answer completes while the slow one is still generating.
	ans, err := svc.Answer(context.Background(), "fast question")
	require.NoError(t, err)
	assert.Equal(t, []string{"• done"}, ans.Points)

	close(release)
	wg.Wait()
}
