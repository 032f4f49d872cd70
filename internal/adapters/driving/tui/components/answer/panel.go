// Package answer provides the answer display component for the TUI.
package answer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/campus-assistant/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/campus-assistant/internal/core/domain"
)

// Panel renders answer bullets followed by a navigable list of sources.
type Panel struct {
	styles   *styles.Styles
	answer   *domain.Answer
	selected int
	width    int
	height   int
}

// NewPanel creates a new answer panel.
func NewPanel(s *styles.Styles) *Panel {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &Panel{
		styles: s,
		width:  80,
		height: 20,
	}
}

// Init initialises the panel.
func (p *Panel) Init() tea.Cmd {
	return nil
}

// Update handles panel messages.
func (p *Panel) Update(msg tea.Msg) (*Panel, tea.Cmd) {
	return p, nil
}

// View renders the answer and its sources.
func (p *Panel) View() string {
	if p.answer == nil {
		return p.styles.Muted.Render("Ask a question to get started.")
	}

	var b strings.Builder

	if len(p.answer.Points) == 0 {
		b.WriteString(p.styles.Muted.Render("No answer was generated."))
		b.WriteString("\n")
	}
	for _, point := range p.answer.Points {
		b.WriteString(p.styles.Bullet.Render(point))
		b.WriteString("\n")
	}

	if len(p.answer.Sources) == 0 {
		return strings.TrimRight(b.String(), "\n")
	}

	b.WriteString("\n")
	b.WriteString(p.styles.Subtitle.Render(fmt.Sprintf("Sources (%d)", len(p.answer.Sources))))
	b.WriteString("\n")

	for i, src := range p.answer.Sources {
		if i == p.selected {
			b.WriteString(p.styles.Selected.Render(fmt.Sprintf("> %d. %s", i+1, src.Source)))
		} else {
			b.WriteString(fmt.Sprintf("  %d. ", i+1) + p.styles.Source.Render(src.Source))
		}
		b.WriteString("\n")
	}

	if src := p.SelectedSource(); src != nil {
		b.WriteString("\n")
		b.WriteString(p.styles.Muted.Render(p.wrapPreview(src.ContentPreview)))
	}

	return strings.TrimRight(b.String(), "\n")
}

// wrapPreview limits the preview to the panel width.
func (p *Panel) wrapPreview(preview string) string {
	width := p.width - 4
	if width < 20 {
		width = 20
	}
	return p.styles.Muted.Width(width).Render(preview)
}

// SetAnswer replaces the displayed answer and resets the selection.
func (p *Panel) SetAnswer(a *domain.Answer) {
	p.answer = a
	p.selected = 0
}

// Answer returns the displayed answer.
func (p *Panel) Answer() *domain.Answer {
	return p.answer
}

// MoveUp selects the previous source.
func (p *Panel) MoveUp() {
	if p.selected > 0 {
		p.selected--
	}
}

// MoveDown selects the next source.
func (p *Panel) MoveDown() {
	if p.answer != nil && p.selected < len(p.answer.Sources)-1 {
		p.selected++
	}
}

// Selected returns the selected source index.
func (p *Panel) Selected() int {
	return p.selected
}

// SelectedSource returns the selected source, or nil when there is none.
func (p *Panel) SelectedSource() *domain.Source {
	if p.answer == nil || p.selected >= len(p.answer.Sources) {
		return nil
	}
	return &p.answer.Sources[p.selected]
}

// SetDimensions sets the panel dimensions.
func (p *Panel) SetDimensions(width, height int) {
	p.width = width
	p.height = height
}

// Clear removes the displayed answer.
func (p *Panel) Clear() {
	p.answer = nil
	p.selected = 0
}
