package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"renextract/internal/adapters/tui/styles"
	"renextract/internal/application"
	"renextract/internal/application/stores"
	"renextract/internal/domain"
	"renextract/internal/i18n"
	apperrors "renextract/internal/pkg/errors"
	"renextract/internal/ports"
)

// BrowserKeyMap defines key bindings for the project browser
type BrowserKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	Enter    key.Binding
	Back     key.Binding
	Open     key.Binding
	OpenFile key.Binding
	Refresh  key.Binding
	Edit     key.Binding
	Workflow key.Binding
	Settings key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var BrowserKeys = BrowserKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	NextPage: key.NewBinding(
		key.WithKeys("l", "right", "pgdown"),
		key.WithHelp("l/→", "next page"),
	),
	PrevPage: key.NewBinding(
		key.WithKeys("h", "left", "pgup"),
		key.WithHelp("h/←", "prev page"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Back: key.NewBinding(
		key.WithKeys("backspace", "esc"),
		key.WithHelp("⌫", "languages"),
	),
	Open: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "open project"),
	),
	OpenFile: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "open file"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit"),
	),
	Workflow: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "workflows"),
	),
	Settings: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "settings"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

type browserLevel int

const (
	levelLanguages browserLevel = iota
	levelFiles
)

// BrowserModel lists the languages of the loaded project, then the
// scripts of the selected language
type BrowserModel struct {
	ViewState
	ctx   context.Context
	app   *stores.App
	list  *List
	level browserLevel
	busy  bool
}

// NewBrowserModel creates a new browser model
func NewBrowserModel(ctx context.Context, app *stores.App) *BrowserModel {
	return &BrowserModel{
		ctx:  ctx,
		app:  app,
		list: NewList(12),
	}
}

// Init initializes the browser
func (m *BrowserModel) Init() tea.Cmd {
	m.sync()
	return nil
}

// Update handles messages for the browser
func (m *BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case StoreChangedMsg:
		m.busy = false
		m.Apply(msg)
		m.sync()
		return m, nil

	case tea.KeyMsg:
		if m.busy {
			if key.Matches(msg, BrowserKeys.Quit) {
				return m, tea.Quit
			}
			return m, nil
		}
		m.ClearMessage()

		switch {
		case key.Matches(msg, BrowserKeys.Quit):
			return m, tea.Quit

		case key.Matches(msg, BrowserKeys.Up):
			m.list.CursorUp()
			return m, nil

		case key.Matches(msg, BrowserKeys.Down):
			m.list.CursorDown()
			return m, nil

		case key.Matches(msg, BrowserKeys.NextPage):
			m.list.NextPage()
			return m, nil

		case key.Matches(msg, BrowserKeys.PrevPage):
			m.list.PrevPage()
			return m, nil

		case key.Matches(msg, BrowserKeys.Enter):
			return m, m.selectRow()

		case key.Matches(msg, BrowserKeys.Back):
			if m.level == levelFiles {
				m.level = levelLanguages
				m.sync()
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Open):
			return m, m.openProject()

		case key.Matches(msg, BrowserKeys.OpenFile):
			return m, m.openSingleFile()

		case key.Matches(msg, BrowserKeys.Refresh):
			return m, m.run(func(ctx context.Context) bool {
				return m.app.Project.RefreshState(ctx)
			}, "")

		case key.Matches(msg, BrowserKeys.Edit):
			if path := m.app.Project.Snapshot().CurrentFile; path != "" {
				return m, func() tea.Msg { return OpenEditorMsg{Path: path} }
			}
			m.SetStatus(i18n.T("project.no_file"), true)
			return m, nil

		case key.Matches(msg, BrowserKeys.Workflow):
			return m, func() tea.Msg { return SwitchToWorkflowMsg{} }

		case key.Matches(msg, BrowserKeys.Settings):
			return m, func() tea.Msg { return SwitchToSettingsMsg{} }

		case key.Matches(msg, BrowserKeys.Help):
			return m, func() tea.Msg { return SwitchToHelpMsg{} }
		}
	}

	return m, nil
}

// sync re-reads the project store and resizes the list
func (m *BrowserModel) sync() {
	st := m.app.Project.Snapshot()
	if st.Language == "" || st.Mode == domain.ModeSingleFile {
		m.level = levelLanguages
	} else if m.level == levelLanguages && len(st.AvailableFiles) > 0 && st.CurrentFile == "" {
		m.level = levelFiles
	}

	switch m.level {
	case levelFiles:
		m.list.SetTotal(len(st.AvailableFiles))
	default:
		m.list.SetTotal(len(st.AvailableLanguages))
	}
}

func (m *BrowserModel) selectRow() tea.Cmd {
	st := m.app.Project.Snapshot()
	i := m.list.Cursor()

	switch m.level {
	case levelLanguages:
		if i >= len(st.AvailableLanguages) {
			return nil
		}
		lang := st.AvailableLanguages[i].Name
		m.level = levelFiles
		m.list.SetCursor(0)
		return m.run(func(ctx context.Context) bool {
			return m.app.Project.SelectLanguage(ctx, lang)
		}, "")

	case levelFiles:
		if i >= len(st.AvailableFiles) {
			return nil
		}
		file := st.AvailableFiles[i]
		return m.run(func(ctx context.Context) bool {
			return m.app.Project.SelectFile(ctx, file.Path)
		}, file.Name)
	}
	return nil
}

func (m *BrowserModel) openProject() tea.Cmd {
	m.busy = true
	return func() tea.Msg {
		path, err := m.app.Backend.OpenDialog(m.ctx, ports.DialogRequest{
			DialogType: ports.DialogFolder,
			Title:      "Sélectionner le dossier du projet Ren'Py",
		})
		if err != nil {
			return StoreChangedMsg{Message: apperrors.MessageOf(err), Err: true}
		}
		if path == "" {
			return StoreChangedMsg{}
		}
		if !m.app.Project.LoadProject(m.ctx, path) {
			return StoreChangedMsg{Message: m.app.Project.Snapshot().Error, Err: true}
		}
		return StoreChangedMsg{Message: m.app.Project.Snapshot().ProjectPath}
	}
}

func (m *BrowserModel) openSingleFile() tea.Cmd {
	m.busy = true
	return func() tea.Msg {
		path, err := m.app.Backend.OpenDialog(m.ctx, ports.DialogRequest{
			DialogType: ports.DialogFile,
			Title:      "Sélectionner un fichier .rpy",
			FileTypes:  []ports.FileType{{"Fichiers Ren'Py", "*.rpy"}, {"Tous les fichiers", "*.*"}},
			MustExist:  true,
			Validate: func(p string) bool {
				return application.ValidateScriptPath("filePath", p) == nil
			},
		})
		if err != nil {
			return StoreChangedMsg{Message: apperrors.MessageOf(err), Err: true}
		}
		if path == "" {
			return StoreChangedMsg{}
		}
		if !m.app.Project.LoadSingleFile(m.ctx, path) {
			return StoreChangedMsg{Message: m.app.Project.Snapshot().Error, Err: true}
		}
		return StoreChangedMsg{Message: path}
	}
}

// run calls fn off the UI loop. The project error is reported on
// failure, ok on success.
func (m *BrowserModel) run(fn func(context.Context) bool, ok string) tea.Cmd {
	m.busy = true
	return func() tea.Msg {
		if fn(m.ctx) {
			return StoreChangedMsg{Message: ok}
		}
		msg := m.app.Project.Snapshot().Error
		if msg == "" {
			msg = apperrors.UnknownError
		}
		return StoreChangedMsg{Message: msg, Err: true}
	}
}

// View renders the browser
func (m *BrowserModel) View() string {
	st := m.app.Project.Snapshot()
	v := NewViewBuilder()

	v.Raw(renderTabs(0)).BlankLine().BlankLine()
	v.Title(i18n.T("app.name"))

	switch {
	case st.IsLoading || m.busy:
		v.Muted("...")
	case st.ProjectPath == "":
		v.Muted(i18n.T("project.no_project"))
	default:
		v.Raw(renderProjectHeader(st)).BlankLine()
	}

	if st.Mode == domain.ModeProject && st.ProjectPath != "" {
		v.Raw(m.renderRows(st))
	}

	v.Message(st.Error, true)
	v.Message(m.StatusLine(), m.MessageErr)

	v.BlankLine()
	v.Help(BrowserKeys.Enter, BrowserKeys.Back, BrowserKeys.Open, BrowserKeys.OpenFile,
		BrowserKeys.Edit, BrowserKeys.Workflow, BrowserKeys.Settings, BrowserKeys.Help, BrowserKeys.Quit)

	return v.String()
}

func renderProjectHeader(st domain.ProjectState) string {
	var b strings.Builder
	mode := i18n.T("project.mode_project")
	if st.Mode == domain.ModeSingleFile {
		mode = i18n.T("project.mode_single_file")
	}
	b.WriteString(RenderLabelValue(i18n.T("navigation.project"), st.ProjectPath))
	b.WriteString("  ")
	b.WriteString(RenderMuted("(" + mode + ")"))
	b.WriteString("\n")
	if st.Summary != nil && st.Summary.Summary != "" {
		b.WriteString(RenderMuted(st.Summary.Summary))
		b.WriteString("\n")
	}
	if st.Language != "" {
		b.WriteString(RenderLabelValue(i18n.T("settings.language"), i18n.Title(st.Language)))
		b.WriteString("\n")
	}
	if st.CurrentFile != "" {
		b.WriteString(RenderLabelValue("Fichier", st.CurrentFile))
		b.WriteString(RenderMuted(fmt.Sprintf("  %d %s", len(st.FileContent), i18n.T("project.lines"))))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *BrowserModel) renderRows(st domain.ProjectState) string {
	var rows []string
	switch m.level {
	case levelFiles:
		for _, f := range st.AvailableFiles {
			row := styles.RowFile.Render(f.Name)
			if f.Path == st.CurrentFile {
				row = styles.RowCurrent.Render(f.Name)
			}
			rows = append(rows, row)
		}
	default:
		for _, l := range st.AvailableLanguages {
			rows = append(rows, styles.RowLanguage.Render(fmt.Sprintf("%-20s %3d", i18n.Title(l.Name), l.FileCount)))
		}
	}
	if len(rows) == 0 {
		return RenderMuted("  -") + "\n"
	}

	var b strings.Builder
	start, end := m.list.VisibleRange()
	for i := start; i < end; i++ {
		if i == m.list.Cursor() {
			b.WriteString(styles.RowSelected.Render("> " + stripRow(i, st, m.level)))
		} else {
			b.WriteString("  " + rows[i])
		}
		b.WriteString("\n")
	}
	if pager := m.list.PagerView(); pager != "" {
		b.WriteString("\n  " + pager + "\n")
	}
	return b.String()
}

// stripRow returns the unstyled text of row i
func stripRow(i int, st domain.ProjectState, level browserLevel) string {
	if level == levelFiles {
		return st.AvailableFiles[i].Name
	}
	l := st.AvailableLanguages[i]
	return fmt.Sprintf("%-20s %3d", i18n.Title(l.Name), l.FileCount)
}

func renderTabs(active int) string {
	tabs := []string{i18n.T("navigation.project"), i18n.T("navigation.extraction"), i18n.T("navigation.settings")}
	parts := make([]string, len(tabs))
	for i, t := range tabs {
		if i == active {
			parts[i] = styles.TabActive.Render(t)
		} else {
			parts[i] = styles.Tab.Render(t)
		}
	}
	return strings.Join(parts, " ")
}
