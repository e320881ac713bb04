package views

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"renextract/internal/i18n"
)

// PromptModel asks for a path when the backend host has no file dialog
type PromptModel struct {
	ViewState
	form    *InputForm
	message string
	reply   chan<- string
}

// NewPromptModel creates an idle prompt
func NewPromptModel() *PromptModel {
	return &PromptModel{
		form: NewInputForm(NewInputField(i18n.T("dialog.manual_path"), "/mnt/c/...", 1024)),
	}
}

// Ask shows message and arranges for the answer to go to reply
func (m *PromptModel) Ask(msg PromptPathMsg) tea.Cmd {
	m.message = msg.Message
	m.reply = msg.Reply
	m.form.Reset()
	return m.form.Init()
}

// Pending reports whether an answer is still expected
func (m *PromptModel) Pending() bool {
	return m.reply != nil
}

// Cancel answers "" to a pending prompt
func (m *PromptModel) Cancel() {
	m.answer("")
}

func (m *PromptModel) answer(text string) {
	if m.reply == nil {
		return
	}
	m.reply <- text
	m.reply = nil
}

// Init initializes the prompt
func (m *PromptModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the prompt
func (m *PromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.form.Keys.Cancel):
			m.answer("")
			return m, func() tea.Msg { return SwitchToBrowserMsg{} }
		case key.Matches(msg, m.form.Keys.Submit):
			values, ok := m.form.Submit()
			if !ok {
				return m, nil
			}
			m.answer(values[0])
			return m, func() tea.Msg { return SwitchToBrowserMsg{} }
		}
	}

	_, cmd := m.form.Update(msg)
	return m, cmd
}

// View renders the prompt
func (m *PromptModel) View() string {
	return NewViewBuilder().
		Line(m.message).
		BlankLine().
		Line(m.form.RenderField(0)).
		BlankLine().
		Raw(m.form.RenderHelp(i18n.T("actions.open"))).
		String()
}
