package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQuestionInput(t *testing.T) {
	in := NewQuestionInput(nil)

	require.NotNil(t, in)
	assert.True(t, in.Focused())
	assert.Equal(t, "", in.Value())
	assert.Equal(t, 50, in.Width())
}

func TestQuestionInput_Typing(t *testing.T) {
	in := NewQuestionInput(nil)

	in.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("hi")})

	assert.Equal(t, "hi", in.Value())
}

func TestQuestionInput_Question_Trims(t *testing.T) {
	in := NewQuestionInput(nil)
	in.SetValue("  where is the gym?\t")

	assert.Equal(t, "where is the gym?", in.Question())
}

func TestQuestionInput_CharLimit(t *testing.T) {
	in := NewQuestionInput(nil)
	long := make([]rune, DefaultCharLimit+10)
	for i := range long {
		long[i] = 'a'
	}

	in.SetValue(string(long))

	assert.Len(t, in.Value(), DefaultCharLimit)
}

func TestQuestionInput_FocusBlur(t *testing.T) {
	in := NewQuestionInput(nil)

	in.Blur()
	assert.False(t, in.Focused())

	in.Focus()
	assert.True(t, in.Focused())
}

func TestQuestionInput_SetWidth(t *testing.T) {
	in := NewQuestionInput(nil)

	in.SetWidth(100)
	assert.Equal(t, 100, in.Width())
	assert.Equal(t, 90, in.textinput.Width)

	in.SetWidth(15)
	assert.Equal(t, 20, in.textinput.Width)
}

func TestQuestionInput_Reset(t *testing.T) {
	in := NewQuestionInput(nil)
	in.SetValue("question")

	in.Reset()

	assert.Equal(t, "", in.Value())
}

func TestQuestionInput_View(t *testing.T) {
	in := NewQuestionInput(nil)

	assert.Contains(t, in.View(), "Ask:")
}
