// Package styles provides colour themes and styling for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is the colour palette the styles are built from.
type Theme struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
	Border     lipgloss.Color
	StatusBar  lipgloss.Color
}

// DefaultTheme returns the campus palette: university navy and gold on a
// dark terminal.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#E0B43A"), // gold
		Secondary:  lipgloss.Color("#6CA0DC"), // sky
		Foreground: lipgloss.Color("#DCE3EE"),
		Muted:      lipgloss.Color("#7A8699"),
		Success:    lipgloss.Color("#8FCB8B"),
		Warning:    lipgloss.Color("#E8C872"),
		Error:      lipgloss.Color("#E57373"),
		Border:     lipgloss.Color("#3B4A66"),
		StatusBar:  lipgloss.Color("#14213D"), // navy
	}
}

// Styles are the rendered styles used across the views.
type Styles struct {
	theme *Theme

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style

	// InputField frames the question box.
	InputField lipgloss.Style
	StatusBar  lipgloss.Style
	Help       lipgloss.Style

	// Bullet renders one answer point.
	Bullet lipgloss.Style

	// Source renders a cited page URL.
	Source lipgloss.Style
}

// NewStyles creates styles from a theme. A nil theme uses DefaultTheme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme: theme,

		Title:    lipgloss.NewStyle().Bold(true).Foreground(theme.Primary),
		Subtitle: lipgloss.NewStyle().Bold(true).Foreground(theme.Secondary),
		Normal:   lipgloss.NewStyle().Foreground(theme.Foreground),
		Muted:    lipgloss.NewStyle().Foreground(theme.Muted),
		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.StatusBar).
			Background(theme.Primary),
		Error:   lipgloss.NewStyle().Foreground(theme.Error),
		Success: lipgloss.NewStyle().Foreground(theme.Success),
		Warning: lipgloss.NewStyle().Foreground(theme.Warning),

		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),
		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(theme.StatusBar).
			Padding(0, 1),
		Help: lipgloss.NewStyle().Foreground(theme.Muted),

		Bullet: lipgloss.NewStyle().Foreground(theme.Foreground).PaddingLeft(1),
		Source: lipgloss.NewStyle().Underline(true).Foreground(theme.Secondary),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}
