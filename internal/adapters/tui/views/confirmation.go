package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"renextract/internal/adapters/tui/styles"
)

// ConfirmKeyMap defines key bindings for confirmation views
type ConfirmKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultConfirmKeys returns the default confirmation key bindings
var DefaultConfirmKeys = ConfirmKeyMap{
	Confirm: key.NewBinding(
		key.WithKeys("y", "o"),
		key.WithHelp("y", "confirm"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "esc"),
		key.WithHelp("n/esc", "cancel"),
	),
}

// ConfirmationModel asks before a destructive workflow such as
// rebuilding over the original script
type ConfirmationModel struct {
	ViewState
	Keys    ConfirmKeyMap
	pending *ConfirmMsg
}

// NewConfirmationModel creates a new confirmation model with default keys
func NewConfirmationModel() *ConfirmationModel {
	return &ConfirmationModel{Keys: DefaultConfirmKeys}
}

// Ask sets the pending question
func (m *ConfirmationModel) Ask(msg ConfirmMsg) {
	m.pending = &msg
}

// Init initializes the confirmation view
func (m *ConfirmationModel) Init() tea.Cmd {
	return nil
}

// Update runs the pending action on confirm, then returns to the
// workflow panels either way
func (m *ConfirmationModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.pending == nil {
		return m, nil
	}
	back := func() tea.Msg { return SwitchToWorkflowMsg{} }

	switch {
	case key.Matches(keyMsg, m.Keys.Cancel):
		m.pending = nil
		return m, back
	case key.Matches(keyMsg, m.Keys.Confirm):
		run := m.pending.OnConfirm
		m.pending = nil
		return m, tea.Sequence(back, func() tea.Msg { return run() })
	}
	return m, nil
}

// View renders the question
func (m *ConfirmationModel) View() string {
	if m.pending == nil {
		return ""
	}
	v := NewViewBuilder()
	if m.pending.Target != "" {
		v.Line(styles.InputLabel.Render(m.pending.Target)).BlankLine()
	}
	v.Line(RenderConfirmPrompt(m.pending.Question))
	return v.String()
}

// RenderConfirmPrompt renders the standard confirmation prompt
func RenderConfirmPrompt(question string) string {
	var b strings.Builder
	b.WriteString(question)
	b.WriteString(" ")
	b.WriteString(styles.HelpKey.Render("y"))
	b.WriteString(styles.HelpDesc.Render(" to confirm, "))
	b.WriteString(styles.HelpKey.Render("n"))
	b.WriteString(styles.HelpDesc.Render(" to cancel"))
	return b.String()
}
