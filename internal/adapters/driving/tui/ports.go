// Package tui provides an interactive terminal user interface for asking
// questions about the university. It is a driving adapter over the answer
// and index services.
package tui

import (
	"github.com/custodia-labs/campus-assistant/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Answer answers questions.
	Answer driving.AnswerService

	// Index reports the lifecycle state shown in the status bar.
	Index driving.IndexService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Answer == nil {
		return ErrMissingAnswerService
	}
	if p.Index == nil {
		return ErrMissingIndexService
	}
	return nil
}
