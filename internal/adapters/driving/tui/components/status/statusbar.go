// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/campus-assistant/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/campus-assistant/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/campus-assistant/internal/core/domain"
)

// State represents the current application state for display.
type State string

const (
	StateReady    State = "ready"
	StateThinking State = "thinking"
	StateError    State = "error"
	StateHelp     State = "help"
	StateAnswered State = "answered"
)

// Bar displays application status, index state and keybinding hints.
type Bar struct {
	styles      *styles.Styles
	keymap      *keymap.KeyMap
	state       State
	indexState  domain.IndexState
	message     string
	sourceCount int
	width       int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles:     s,
		keymap:     km,
		state:      StateReady,
		indexState: domain.IndexStateChecking,
		width:      80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	// Bar is mostly passive, updated via Set methods
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders the index state and the current activity.
func (s *Bar) renderLeft() string {
	index := s.renderIndexState()

	var activity string
	switch s.state {
	case StateThinking:
		activity = s.styles.Muted.Render("Thinking...")
	case StateError:
		if s.message != "" {
			activity = s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		} else {
			activity = s.styles.Error.Render("Error")
		}
	case StateHelp:
		activity = s.styles.Normal.Render("Help")
	case StateAnswered:
		activity = s.styles.Normal.Render(fmt.Sprintf("%d sources", s.sourceCount))
	case StateReady:
		if s.message != "" {
			activity = s.styles.Muted.Render(s.message)
		}
	}

	if activity == "" {
		return index
	}
	return index + s.styles.Muted.Render(" | ") + activity
}

func (s *Bar) renderIndexState() string {
	label := "index: " + s.indexState.String()
	switch s.indexState {
	case domain.IndexStateReady:
		return s.styles.Success.Render(label)
	case domain.IndexStateFailed:
		return s.styles.Error.Render(label)
	default:
		return s.styles.Warning.Render(label)
	}
}

// renderRight renders keybinding hints.
func (s *Bar) renderRight() string {
	var bindings []key.Binding
	if s.state == StateAnswered {
		bindings = s.keymap.AnswerHelp()
	} else {
		bindings = s.keymap.InputHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetIndexState sets the index lifecycle state shown on the left.
func (s *Bar) SetIndexState(state domain.IndexState) {
	s.indexState = state
}

// IndexState returns the displayed index state.
func (s *Bar) IndexState() domain.IndexState {
	return s.indexState
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetSourceCount sets the number of sources behind the current answer.
func (s *Bar) SetSourceCount(count int) {
	s.sourceCount = count
}

// SourceCount returns the current source count.
func (s *Bar) SourceCount() int {
	return s.sourceCount
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar activity. The index state is kept.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.sourceCount = 0
}
