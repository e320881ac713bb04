package tui

import (
	"context"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"renextract/internal/adapters/tui/views"
	"renextract/internal/application/stores"
	"renextract/internal/ports"
)

// ViewState represents the current view
type ViewState int

const (
	ViewBrowser ViewState = iota
	ViewWorkflow
	ViewSettings
	ViewPrompt
	ViewConfirm
	ViewHelp
)

// App is the main TUI application model
type App struct {
	ctx    context.Context
	stores *stores.App
	editor ports.EditorOpener

	state    ViewState
	previous ViewState
	browser  *views.BrowserModel
	workflow *views.WorkflowModel
	settings *views.SettingsModel
	prompt   *views.PromptModel
	confirm  *views.ConfirmationModel
	help     *views.HelpModel

	width  int
	height int
}

// NewApp creates a new TUI application. ed may be nil.
func NewApp(ctx context.Context, app *stores.App, ed ports.EditorOpener) *App {
	return &App{
		ctx:      ctx,
		stores:   app,
		editor:   ed,
		state:    ViewBrowser,
		browser:  views.NewBrowserModel(ctx, app),
		workflow: views.NewWorkflowModel(ctx, app),
		settings: views.NewSettingsModel(ctx, app),
		prompt:   views.NewPromptModel(),
		confirm:  views.NewConfirmationModel(),
		help:     views.NewHelpModel(),
	}
}

// startupDoneMsg is sent once the stores have finished loading
type startupDoneMsg struct{}

// Init starts the stores and the spinner
func (a *App) Init() tea.Cmd {
	a.stores.Start(a.ctx)
	return tea.Batch(
		a.browser.Init(),
		a.workflow.Init(),
		func() tea.Msg {
			a.stores.Wait()
			return startupDoneMsg{}
		},
	)
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.browser.SetSize(msg.Width, msg.Height)
		a.workflow.SetSize(msg.Width, msg.Height)
		a.settings.SetSize(msg.Width, msg.Height)
		a.prompt.SetSize(msg.Width, msg.Height)
		a.confirm.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	case spinner.TickMsg:
		_, cmd := a.workflow.Update(msg)
		return a, cmd

	case startupDoneMsg:
		_, cmd := a.browser.Update(views.StoreChangedMsg{})
		return a, cmd

	// View switching messages
	case views.SwitchToBrowserMsg:
		// an answered prompt goes back to whatever asked for it
		next := ViewBrowser
		if a.state == ViewPrompt {
			next = a.previous
		}
		a.state = next
		_, cmd := a.browser.Update(views.StoreChangedMsg{})
		return a, cmd

	case views.SwitchToWorkflowMsg:
		a.state = ViewWorkflow
		return a, nil

	case views.SwitchToSettingsMsg:
		a.state = ViewSettings
		return a, nil

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.PromptPathMsg:
		if a.state != ViewPrompt {
			a.previous = a.state
		}
		a.state = ViewPrompt
		return a, a.prompt.Ask(msg)

	case views.ConfirmMsg:
		a.confirm.Ask(msg)
		a.state = ViewConfirm
		return a, nil

	case views.StoreChangedMsg:
		// every view shows the latest snapshot; only the visible one
		// keeps the message
		_, c1 := a.browser.Update(msg)
		_, c2 := a.workflow.Update(msg)
		if a.state == ViewSettings {
			a.settings.Update(msg)
		}
		return a, tea.Batch(c1, c2)

	case views.CopyMsg:
		return a, copyToClipboard(msg.Text)

	case views.OpenEditorMsg:
		return a, a.openEditor(msg.Path)

	case editorFinishedMsg:
		return a, a.reloadAfterEdit(msg)
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewBrowser:
		_, cmd = a.browser.Update(msg)
	case ViewWorkflow:
		_, cmd = a.workflow.Update(msg)
	case ViewSettings:
		_, cmd = a.settings.Update(msg)
	case ViewPrompt:
		_, cmd = a.prompt.Update(msg)
	case ViewConfirm:
		_, cmd = a.confirm.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

func copyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return views.StoreChangedMsg{Message: "clipboard: " + err.Error(), Err: true}
		}
		return views.StoreChangedMsg{Message: "Copié: " + text}
	}
}

type editorFinishedMsg struct {
	path string
	err  error
}

func (a *App) openEditor(path string) tea.Cmd {
	if a.editor == nil {
		return nil
	}

	cmd, err := a.editor.Command(path)
	if err != nil {
		return func() tea.Msg {
			return editorFinishedMsg{path: path, err: err}
		}
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{path: path, err: err}
	})
}

// reloadAfterEdit re-selects the edited file so the store holds the
// saved content.
func (a *App) reloadAfterEdit(msg editorFinishedMsg) tea.Cmd {
	if msg.err != nil {
		return func() tea.Msg {
			return views.StoreChangedMsg{Message: msg.err.Error(), Err: true}
		}
	}
	return func() tea.Msg {
		if !a.stores.Project.SelectFile(a.ctx, msg.path) {
			return views.StoreChangedMsg{Message: a.stores.Project.Snapshot().Error, Err: true}
		}
		return views.StoreChangedMsg{}
	}
}

// Close answers a pending path prompt so no request stays blocked.
func (a *App) Close() {
	a.prompt.Cancel()
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewWorkflow:
		return a.workflow.View()
	case ViewSettings:
		return a.settings.View()
	case ViewPrompt:
		return a.prompt.View()
	case ViewConfirm:
		return a.confirm.View()
	case ViewHelp:
		return a.help.View()
	default:
		return a.browser.View()
	}
}
