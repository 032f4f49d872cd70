package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/campus-assistant/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/campus-assistant/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/campus-assistant/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/campus-assistant/internal/adapters/driving/tui/views/ask"
	"github.com/custodia-labs/campus-assistant/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// keymap holds the keybindings shared by all views.
	keymap *keymap.KeyMap

	// askView is the question and answer view.
	askView *ask.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		askView:     ask.NewView(s, km, ports.Answer, ports.Index),
		currentView: messages.ViewAsk,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.askView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("campus - University Assistant"),
		a.askView.Init(),
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.askView.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		switch a.currentView {
		case messages.ViewHelp:
			if msg.Type == tea.KeyEsc || keymap.Matches(msg.String(), a.keymap.Help) {
				a.currentView = messages.ViewAsk
				return a, nil
			}
			if keymap.Matches(msg.String(), a.keymap.Quit) {
				return a, tea.Quit
			}
			return a, nil

		case messages.ViewAsk:
			// Help and quit only apply while browsing an answer; in input mode
			// every printable key belongs to the question.
			if !a.askView.InputFocused() {
				if keymap.Matches(msg.String(), a.keymap.Help) {
					a.currentView = messages.ViewHelp
					return a, nil
				}
				if keymap.Matches(msg.String(), a.keymap.Quit) {
					return a, tea.Quit
				}
			}
			a.askView, cmd = a.askView.Update(msg)
			a.err = a.askView.Err()
			return a, cmd
		}
		return a, nil

	case messages.AnswerCompleted:
		a.askView, cmd = a.askView.Update(msg)
		a.err = a.askView.Err()
		return a, cmd

	case messages.ViewChanged:
		a.currentView = msg.View
		if msg.View == messages.ViewAsk {
			a.askView.Reset()
		}
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.askView, cmd = a.askView.Update(msg)
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	// Index polling and cursor blinks continue in every view.
	a.askView, cmd = a.askView.Update(msg)
	return a, cmd
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	if a.currentView == messages.ViewHelp {
		return a.viewHelp()
	}
	return a.askView.View()
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	body := `Asking:
  (type)      Enter a question
  enter       Ask
  esc         Clear the question

Answer:
  j/k, ↑/↓    Browse sources
  n           New question
  esc         Back to the question
  ?           Help
  q           Quit

Anywhere:
  ctrl+c      Quit`

	return a.styles.Title.Render("Help") + "\n\n" +
		a.styles.Normal.Render(body) + "\n\n" +
		a.styles.Help.Render("[esc] back")
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Answer returns the displayed answer.
func (a *App) Answer() *domain.Answer {
	return a.askView.Answer()
}

// Question returns the question being typed.
func (a *App) Question() string {
	return a.askView.Question()
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.askView.SetDimensions(width, height)
}
