package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/campus-assistant/internal/core/domain"
	"github.com/custodia-labs/campus-assistant/internal/core/ports/driven"
	"github.com/custodia-labs/campus-assistant/internal/core/ports/driving"
	"github.com/custodia-labs/campus-assistant/internal/formatter"
	"github.com/custodia-labs/campus-assistant/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.AnswerService = (*AnswerService)(nil)

// IndexProvider exposes the serving index. IndexLifecycle implements it.
type IndexProvider interface {
	// Index returns nil until an index is ready.
	Index() driven.VectorIndex
}

// AnswerConfig tunes retrieval and generation.
type AnswerConfig struct {
	// TopK is the number of chunks retrieved per question (default 3).
	TopK int

	// Timeout bounds a single generation call (default 120s).
	Timeout time.Duration

	// Generate is forwarded to the LLM.
	Generate driven.GenerateOptions
}

// AnswerService answers questions from the serving index.
// It holds no per-request state, so concurrent calls do not wait on each other.
type AnswerService struct {
	indexes  IndexProvider
	embedder driven.EmbeddingService
	llm      driven.LLMService
	prompts  driven.PromptStore
	cfg      AnswerConfig
}

// NewAnswerService creates a new answer service. llm may be nil, in which
// case every answer fails with domain.ErrGeneration.
func NewAnswerService(
	indexes IndexProvider,
	embedder driven.EmbeddingService,
	llm driven.LLMService,
	prompts driven.PromptStore,
	cfg AnswerConfig,
) *AnswerService {
	if cfg.TopK <= 0 {
		cfg.TopK = domain.DefaultTopK
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = domain.DefaultLLMTimeout
	}
	return &AnswerService{
		indexes:  indexes,
		embedder: embedder,
		llm:      llm,
		prompts:  prompts,
		cfg:      cfg,
	}
}

// Answer retrieves the closest chunks to question and asks the LLM to answer
// from them.
func (s *AnswerService) Answer(ctx context.Context, question string) (*domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question cannot be empty", domain.ErrInvalidInput)
	}

	idx := s.indexes.Index()
	if idx == nil {
		return nil, domain.ErrNotReady
	}

	logger.Debug("Question: %q", question)

	qvec, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	hits, err := idx.Search(ctx, qvec, s.cfg.TopK)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	logger.Debug("Retrieved %d chunk(s)", len(hits))

	prompt, err := s.renderPrompt(question, hits)
	if err != nil {
		return nil, err
	}

	raw, err := s.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	sources := make([]domain.Source, len(hits))
	for i, hit := range hits {
		sources[i] = domain.NewSource(hit.Chunk)
	}

	return &domain.Answer{
		Question: question,
		Raw:      raw,
		Points:   formatter.Format(raw),
		Sources:  sources,
	}, nil
}

func (s *AnswerService) renderPrompt(question string, hits []domain.SearchHit) (string, error) {
	tmpl, err := s.prompts.Load(driven.PromptAnswer)
	if err != nil {
		return "", fmt.Errorf("load prompt: %w", err)
	}

	texts := make([]string, len(hits))
	for i, hit := range hits {
		texts[i] = hit.Chunk.Content
	}

	// One pass, so placeholders inside the question or context are left alone.
	r := strings.NewReplacer(
		"{context}", strings.Join(texts, "\n\n"),
		"{question}", question,
	)
	return r.Replace(tmpl), nil
}

func (s *AnswerService) generate(ctx context.Context, prompt string) (string, error) {
	if s.llm == nil {
		return "", fmt.Errorf("%w: %w", domain.ErrGeneration, domain.ErrLLMUnavailable)
	}

	genCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	start := time.Now()
	raw, err := s.llm.Generate(genCtx, prompt, s.cfg.Generate)
	if err != nil {
		if errors.Is(genCtx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: timed out after %s: %w", domain.ErrGeneration, s.cfg.Timeout, err)
		}
		return "", fmt.Errorf("%w: %w", domain.ErrGeneration, err)
	}
	logger.Debug("Generated %d bytes in %s", len(raw), time.Since(start).Round(time.Millisecond))

	return raw, nil
}
