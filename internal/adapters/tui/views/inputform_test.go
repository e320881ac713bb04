package views

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputForm_FocusWraps(t *testing.T) {
	f := NewInputForm(NewInputField("a", "", 0), NewInputField("b", "", 0), NewInputField("c", "", 0))

	handled, _ := f.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.True(t, handled)
	assert.Equal(t, 2, f.Focused())

	f.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 0, f.Focused())
}

func TestInputForm_SubmitFocusesFirstFailingField(t *testing.T) {
	notEmpty := func(s string) error {
		if s == "" {
			return errors.New("required")
		}
		return nil
	}
	f := NewInputForm(
		NewInputField("name", "", 0),
		NewInputField("path", "", 0).WithCheck(notEmpty),
	)
	f.SetValue(0, "  VS Code ")

	_, ok := f.Submit()
	require.False(t, ok)
	assert.Equal(t, 1, f.Focused())
	assert.Contains(t, f.RenderField(1), "required")

	f.SetValue(1, "/usr/bin/code")
	values, ok := f.Submit()
	require.True(t, ok)
	assert.Equal(t, []string{"VS Code", "/usr/bin/code"}, values)
	assert.NotContains(t, f.RenderField(1), "required")
}

func TestInputForm_ResetClearsValuesAndErrors(t *testing.T) {
	f := NewInputForm(NewInputField("a", "", 0), NewInputField("b", "", 0).WithCheck(func(string) error {
		return errors.New("bad")
	}))
	f.SetValue(0, "x")
	f.Submit()

	f.Reset()
	assert.Equal(t, 0, f.Focused())
	assert.Empty(t, f.Value(0))
	assert.NotContains(t, f.RenderField(1), "bad")
}

func TestViewState_StatusLine(t *testing.T) {
	var s ViewState
	s.Apply(StoreChangedMsg{Message: "Traceback: tout a échoué", Err: true})
	assert.True(t, s.MessageErr)
	assert.Equal(t, "Traceback: tout a échoué", s.StatusLine(), "no width yet")

	s.SetSize(10, 5)
	assert.Equal(t, "Traceback…", s.StatusLine())

	s.ClearMessage()
	assert.Empty(t, s.StatusLine())
	assert.False(t, s.MessageErr)
}
