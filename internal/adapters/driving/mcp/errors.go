// Package mcp provides an MCP (Model Context Protocol) server adapter for the campus assistant.
// It lets AI assistants ask questions about the indexed university website.
package mcp

import (
	"errors"

	"github.com/custodia-labs/campus-assistant/internal/core/domain"
)

// ErrMissingAnswerService is returned when the answer service is not provided.
var ErrMissingAnswerService = errors.New("mcp: answer service is required")

// ErrMissingIndexService is returned when the index service is not provided.
var ErrMissingIndexService = errors.New("mcp: index service is required")

// toolError turns a domain error into the message shown to the assistant.
func toolError(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return errors.New("question cannot be empty")
	case errors.Is(err, domain.ErrNotReady):
		return errors.New("service initializing, please try again in 30 seconds")
	default:
		return err
	}
}
