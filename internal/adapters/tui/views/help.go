package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"renextract/internal/adapters/tui/styles"
	"renextract/internal/i18n"
)

// HelpKeyMap defines key bindings for the help view
type HelpKeyMap struct {
	Close key.Binding
}

var HelpKeys = HelpKeyMap{
	Close: key.NewBinding(
		key.WithKeys("esc", "q", "?"),
		key.WithHelp("esc/q/?", "close"),
	),
}

// HelpModel is the model for the help view
type HelpModel struct {
	ViewState
}

// NewHelpModel creates a new help view model
func NewHelpModel() *HelpModel {
	return &HelpModel{}
}

// Init initializes the help view
func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view
func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, HelpKeys.Close) {
			return m, func() tea.Msg {
				return SwitchToBrowserMsg{}
			}
		}
	}

	return m, nil
}

// View renders the help view
func (m *HelpModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render(i18n.T("app.name")))
	b.WriteString("\n\n")
	b.WriteString(styles.Subtitle.Render(i18n.T("app.tagline")))
	b.WriteString("\n\n")

	section := func(title string, bindings ...key.Binding) {
		b.WriteString(styles.InputLabel.Render(title))
		b.WriteString("\n")
		for _, k := range bindings {
			h := k.Help()
			b.WriteString(helpLine(h.Key, h.Desc))
		}
		b.WriteString("\n")
	}

	section(i18n.T("navigation.project"),
		BrowserKeys.Up, BrowserKeys.Down, BrowserKeys.NextPage, BrowserKeys.PrevPage,
		BrowserKeys.Enter, BrowserKeys.Back, BrowserKeys.Open, BrowserKeys.OpenFile,
		BrowserKeys.Refresh, BrowserKeys.Edit)
	section(i18n.T("navigation.extraction"),
		WorkflowKeys.Extract, WorkflowKeys.Duplicates, WorkflowKeys.OpenOutput,
		WorkflowKeys.Reconstruct, WorkflowKeys.QuickCheck, WorkflowKeys.Analyze,
		WorkflowKeys.OpenReport, WorkflowKeys.Copy)
	section(i18n.T("navigation.settings"),
		SettingsKeys.Toggle, SettingsKeys.All, SettingsKeys.None, SettingsKeys.Editor)
	section("General", BrowserKeys.Workflow, BrowserKeys.Settings, BrowserKeys.Help, BrowserKeys.Quit)

	b.WriteString(styles.HelpDesc.Render("Press "))
	b.WriteString(styles.HelpKey.Render("esc"))
	b.WriteString(styles.HelpDesc.Render(" or "))
	b.WriteString(styles.HelpKey.Render("?"))
	b.WriteString(styles.HelpDesc.Render(" to close"))

	return styles.App.Render(b.String())
}

func helpLine(key, desc string) string {
	return "  " + styles.HelpKey.Render(padRight(key, 20)) + styles.HelpDesc.Render(desc) + "\n"
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}
