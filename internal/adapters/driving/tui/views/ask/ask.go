// Package ask provides the main question and answer view for the TUI.
package ask

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/campus-assistant/internal/adapters/driving/tui/components/answer"
	"github.com/custodia-labs/campus-assistant/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/campus-assistant/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/campus-assistant/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/campus-assistant/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/campus-assistant/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/campus-assistant/internal/core/domain"
	"github.com/custodia-labs/campus-assistant/internal/core/ports/driving"
)

// ErrNoAnswerService is returned when a question is submitted without an answer service.
var ErrNoAnswerService = errors.New("answer service not available")

// IndexPollInterval is how often the index state is polled until it settles.
const IndexPollInterval = 500 * time.Millisecond

// View represents the ask view with input, answer panel, and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QuestionInput
	panel     *answer.Panel
	statusbar *status.Bar

	answerService driving.AnswerService
	indexService  driving.IndexService
	ctx           context.Context

	width      int
	height     int
	ready      bool
	err        error
	pending    string
	focusInput bool // true = input mode (typing), false = answer mode (navigating sources)
}

// NewView creates a new ask view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	answerService driving.AnswerService,
	indexService driving.IndexService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:        s,
		keymap:        km,
		input:         input.NewQuestionInput(s),
		panel:         answer.NewPanel(s),
		statusbar:     status.NewBar(s, km),
		answerService: answerService,
		indexService:  indexService,
		ctx:           context.Background(),
		width:         80,
		height:        24,
		focusInput:    true,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view and starts polling the index state.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.input.Init(), v.checkIndex())
}

// Update handles messages for the ask view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AnswerCompleted:
		v.handleAnswerCompleted(msg)
		return v, nil

	case messages.IndexStatus:
		v.statusbar.SetIndexState(msg.State)
		if msg.State.IsTerminal() {
			return v, nil
		}
		return v, v.pollIndex()

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	// Esc in answer mode returns to the input; in input mode it clears it.
	if msg.Type == tea.KeyEsc {
		if !v.focusInput {
			v.focusInput = true
			return v, v.input.Focus()
		}
		v.input.SetValue("")
		return v, nil
	}

	if msg.Type == tea.KeyEnter && v.focusInput {
		question := v.input.Question()
		if question == "" || v.pending != "" {
			return v, nil
		}
		v.pending = question
		v.err = nil
		v.statusbar.SetState(status.StateThinking)
		v.statusbar.SetMessage("")
		return v, v.performAsk(question)
	}

	// Input mode: all other keys go to input
	if v.focusInput {
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	switch {
	case keymap.Matches(msg.String(), v.keymap.Up):
		v.panel.MoveUp()
	case keymap.Matches(msg.String(), v.keymap.Down):
		v.panel.MoveDown()
	case keymap.Matches(msg.String(), v.keymap.NewQuestion):
		v.newQuestion()
		return v, v.input.Focus()
	}

	return v, nil
}

// performAsk answers a question off the update loop.
func (v *View) performAsk(question string) tea.Cmd {
	svc := v.answerService
	ctx := v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.AnswerCompleted{Question: question, Err: ErrNoAnswerService}
		}
		a, err := svc.Answer(ctx, question)
		return messages.AnswerCompleted{Question: question, Answer: a, Err: err}
	}
}

// handleAnswerCompleted shows an answer or its error.
func (v *View) handleAnswerCompleted(msg messages.AnswerCompleted) {
	v.pending = ""

	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}

	v.err = nil
	v.panel.SetAnswer(msg.Answer)
	v.statusbar.SetState(status.StateAnswered)
	v.statusbar.SetMessage("")
	if msg.Answer != nil {
		v.statusbar.SetSourceCount(len(msg.Answer.Sources))
	}

	// Switch to answer mode so sources can be browsed
	v.focusInput = false
	v.input.Blur()
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(ErrorMessage(err))
}

// ErrorMessage turns service errors into text for the user.
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return "Question cannot be empty"
	case errors.Is(err, domain.ErrNotReady):
		return "Service initializing. Please try again in 30 seconds."
	default:
		return err.Error()
	}
}

// checkIndex reads the index state once.
func (v *View) checkIndex() tea.Cmd {
	svc := v.indexService
	if svc == nil {
		return nil
	}
	return func() tea.Msg {
		return messages.IndexStatus{State: svc.State()}
	}
}

// pollIndex reads the index state after IndexPollInterval.
func (v *View) pollIndex() tea.Cmd {
	svc := v.indexService
	if svc == nil {
		return nil
	}
	return tea.Tick(IndexPollInterval, func(time.Time) tea.Msg {
		return messages.IndexStatus{State: svc.State()}
	})
}

func (v *View) newQuestion() {
	v.focusInput = true
	v.input.SetValue("")
	v.panel.Clear()
	v.err = nil
	v.statusbar.Clear()
}

// View renders the ask view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 10)

	sections = append(sections, v.styles.Title.Render("Campus Assistant"), "")
	sections = append(sections, v.input.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render(ErrorMessage(v.err)), "")
	}

	if v.pending != "" {
		sections = append(sections, v.styles.Muted.Render("Thinking about: "+v.pending))
	} else {
		sections = append(sections, v.panel.View())
	}

	sections = append(sections, "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.panel.SetDimensions(width, height-10) // Reserve space for header, input, status
	v.statusbar.SetWidth(width)
}

// Width returns the current width.
func (v *View) Width() int {
	return v.width
}

// Height returns the current height.
func (v *View) Height() int {
	return v.height
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Question returns the current input value.
func (v *View) Question() string {
	return v.input.Value()
}

// SetQuestion sets the input value.
func (v *View) SetQuestion(question string) {
	v.input.SetValue(question)
}

// Answer returns the displayed answer.
func (v *View) Answer() *domain.Answer {
	return v.panel.Answer()
}

// SelectedSource returns the highlighted source of the displayed answer.
func (v *View) SelectedSource() *domain.Source {
	return v.panel.SelectedSource()
}

// Pending returns the question awaiting an answer, if any.
func (v *View) Pending() string {
	return v.pending
}

// Status returns the status bar state.
func (v *View) Status() status.State {
	return v.statusbar.State()
}

// IndexState returns the last index state seen.
func (v *View) IndexState() domain.IndexState {
	return v.statusbar.IndexState()
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// Reset resets the view to initial input mode.
func (v *View) Reset() {
	v.newQuestion()
	v.pending = ""
	v.input.Focus()
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}
