package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input, such as an empty question.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotReady indicates the index has not finished loading or building.
	ErrNotReady = errors.New("service not ready")

	// ErrGeneration indicates the answer generator failed or timed out.
	ErrGeneration = errors.New("generation failed")

	// ErrCorruptIndex indicates a persisted index is unreadable or was built
	// with a different embedding dimension.
	ErrCorruptIndex = errors.New("corrupt index")

	// ErrIndexNotFound indicates no persisted index exists at the configured location.
	ErrIndexNotFound = errors.New("index not found")

	// ErrEmptyCorpus indicates there is nothing to index.
	ErrEmptyCorpus = errors.New("empty corpus")

	// ErrPersistence indicates the index could not be written.
	// The in-memory index remains usable.
	ErrPersistence = errors.New("index persistence failed")

	// ErrDimensionMismatch indicates a vector of the wrong length.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrRebuildInProgress indicates another rebuild is running.
	ErrRebuildInProgress = errors.New("index rebuild in progress")

	// ErrLLMUnavailable indicates the LLM service is not configured or unreachable.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured or unreachable.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrUnsupportedProvider indicates an unknown AI provider name.
	ErrUnsupportedProvider = errors.New("unsupported provider")
)

// FetchFailure records why one source location could not be acquired.
type FetchFailure struct {
	URI string
	Err error
}

// AcquisitionError aggregates per-location fetch failures.
// It unwraps to ErrEmptyCorpus when nothing at all was fetched.
type AcquisitionError struct {
	Failures []FetchFailure
	Empty    bool
}

func (e *AcquisitionError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s: %v", f.URI, f.Err))
	}
	msg := fmt.Sprintf("%d location(s) failed", len(e.Failures))
	if e.Empty {
		msg = "no documents acquired, " + msg
	}
	if len(parts) == 0 {
		return msg
	}
	return msg + ": " + strings.Join(parts, "; ")
}

// Unwrap exposes ErrEmptyCorpus for errors.Is when no document was acquired.
func (e *AcquisitionError) Unwrap() error {
	if e.Empty {
		return ErrEmptyCorpus
	}
	return nil
}
