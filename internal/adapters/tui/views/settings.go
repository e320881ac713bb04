package views

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"renextract/internal/adapters/tui/styles"
	"renextract/internal/application"
	"renextract/internal/application/stores"
	"renextract/internal/domain"
	"renextract/internal/i18n"
)

// SettingsKeyMap defines key bindings for the settings view
type SettingsKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	All    key.Binding
	None   key.Binding
	Editor key.Binding
	Back   key.Binding
	Quit   key.Binding
}

var SettingsKeys = SettingsKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Toggle: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("space", "toggle"),
	),
	All: key.NewBinding(
		key.WithKeys("A"),
		key.WithHelp("A", "all checks"),
	),
	None: key.NewBinding(
		key.WithKeys("N"),
		key.WithHelp("N", "no checks"),
	),
	Editor: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "text editor"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc", "tab"),
		key.WithHelp("esc", "back"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}

// settingRow is one line of the settings list. value renders the
// current value; next applies the change for a toggle.
type settingRow struct {
	label string
	value func(domain.AppSettings, domain.CoherenceOptions) string
	next  func(m *SettingsModel) error
}

func boolSetting(label, path string, get func(domain.AppSettings) bool) settingRow {
	return settingRow{
		label: label,
		value: func(s domain.AppSettings, _ domain.CoherenceOptions) string { return styles.Toggle(get(s)) },
		next: func(m *SettingsModel) error {
			return m.app.Settings.SetSetting(path, !get(m.app.Settings.Snapshot()))
		},
	}
}

func cycleSetting(label, path string, values []string, get func(domain.AppSettings) string) settingRow {
	return settingRow{
		label: label,
		value: func(s domain.AppSettings, _ domain.CoherenceOptions) string { return get(s) },
		next: func(m *SettingsModel) error {
			return m.app.Settings.SetSetting(path, nextValue(values, get(m.app.Settings.Snapshot())))
		},
	}
}

func checkSetting(name string) settingRow {
	return settingRow{
		label: name,
		value: func(_ domain.AppSettings, o domain.CoherenceOptions) string {
			if c := o.Check(name); c != nil {
				return styles.Toggle(*c)
			}
			return "?"
		},
		next: func(m *SettingsModel) error {
			opts := m.app.Coherence.Snapshot().Options
			c := opts.Check(name)
			if c == nil {
				return fmt.Errorf("unknown check %q", name)
			}
			return m.app.Coherence.UpdateOption(name, !*c)
		},
	}
}

// nextValue returns the value after cur in values, wrapping around.
func nextValue(values []string, cur string) string {
	for i, v := range values {
		if v == cur {
			return values[(i+1)%len(values)]
		}
	}
	return values[0]
}

func settingRows() []settingRow {
	rows := []settingRow{
		cycleSetting(i18n.T("settings.language"), "language", []string{"fr", "en", "de"},
			func(s domain.AppSettings) string { return s.Language }),
		cycleSetting(i18n.T("settings.theme"), "theme", []string{domain.ThemeDark, domain.ThemeLight, domain.ThemeAuto},
			func(s domain.AppSettings) string { return s.Theme }),
		boolSetting(i18n.T("settings.debug"), "debugActive",
			func(s domain.AppSettings) bool { return s.DebugActive }),
		boolSetting(i18n.T("settings.auto_open_files"), "autoOpenings.files",
			func(s domain.AppSettings) bool { return s.AutoOpenings.Files }),
		boolSetting(i18n.T("settings.auto_open_folders"), "autoOpenings.folders",
			func(s domain.AppSettings) bool { return s.AutoOpenings.Folders }),
		boolSetting(i18n.T("settings.auto_open_reports"), "autoOpenings.reports",
			func(s domain.AppSettings) bool { return s.AutoOpenings.Reports }),
		cycleSetting(i18n.T("reconstruction.save_mode"), "reconstruction.saveMode",
			[]string{domain.SaveModeNewFile, domain.SaveModeOverwrite},
			func(s domain.AppSettings) string { return s.EffectiveSaveMode() }),
	}
	for _, name := range domain.CheckKeys() {
		rows = append(rows, checkSetting(name))
	}
	return rows
}

// SettingsModel edits the application settings and the coherence checks
type SettingsModel struct {
	ViewState
	ctx     context.Context
	app     *stores.App
	rows    []settingRow
	list    *List
	form    *InputForm
	editing bool
}

// NewSettingsModel creates a new settings view
func NewSettingsModel(ctx context.Context, app *stores.App) *SettingsModel {
	rows := settingRows()
	list := NewList(len(rows))
	list.SetTotal(len(rows))
	return &SettingsModel{
		ctx:  ctx,
		app:  app,
		rows: rows,
		list: list,
		form: NewInputForm(
			NewInputField(i18n.T("settings.text_editor"), "VS Code", 64),
			NewInputField("paths.editor", "/usr/bin/code", 512).WithCheck(checkEditorPath),
		),
	}
}

// Init initializes the settings view
func (m *SettingsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the settings view
func (m *SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case StoreChangedMsg:
		m.Apply(msg)
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m, m.updateForm(msg)
		}
		m.ClearMessage()

		switch {
		case key.Matches(msg, SettingsKeys.Quit):
			return m, tea.Quit

		case key.Matches(msg, SettingsKeys.Back):
			return m, func() tea.Msg { return SwitchToBrowserMsg{} }

		case key.Matches(msg, SettingsKeys.Up):
			m.list.CursorUp()

		case key.Matches(msg, SettingsKeys.Down):
			m.list.CursorDown()

		case key.Matches(msg, SettingsKeys.Toggle):
			return m, m.toggle(m.rows[m.list.Cursor()])

		case key.Matches(msg, SettingsKeys.All), key.Matches(msg, SettingsKeys.None):
			m.app.Coherence.ToggleAll(key.Matches(msg, SettingsKeys.All))
			return m, m.saveOptions()

		case key.Matches(msg, SettingsKeys.Editor):
			s := m.app.Settings.Snapshot()
			m.form.Reset()
			m.form.SetValue(0, s.ExternalTools.TextEditor)
			m.form.SetValue(1, s.Paths.Editor)
			m.editing = true
			return m, m.form.Init()
		}
	}
	return m, nil
}

func (m *SettingsModel) toggle(row settingRow) tea.Cmd {
	if err := row.next(m); err != nil {
		m.SetStatus(err.Error(), true)
		return nil
	}
	if row.label == i18n.T("settings.language") {
		i18n.SetLanguage(m.app.Settings.Snapshot().Language)
		m.rows = settingRows()
	}
	if strings.HasPrefix(row.label, "check_") {
		return m.saveOptions()
	}
	return nil
}

// saveOptions pushes the local check toggles to the backend.
func (m *SettingsModel) saveOptions() tea.Cmd {
	opts := m.app.Coherence.Snapshot().Options
	patch := make(map[string]any, len(domain.CheckKeys()))
	for _, name := range domain.CheckKeys() {
		patch[name] = *opts.Check(name)
	}
	return func() tea.Msg {
		if !m.app.Coherence.SaveOptions(m.ctx, patch) {
			return StoreChangedMsg{Message: "Échec de l'enregistrement des options", Err: true}
		}
		return StoreChangedMsg{Message: i18n.T("settings.saved")}
	}
}

func (m *SettingsModel) updateForm(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.form.Keys.Cancel):
		m.editing = false
		return nil
	case key.Matches(msg, m.form.Keys.Submit):
		values, ok := m.form.Submit()
		if !ok {
			return nil
		}
		editor, path := values[0], values[1]
		m.app.Settings.Update(func(s *domain.AppSettings) {
			s.ExternalTools.TextEditor = editor
			s.Paths.Editor = path
		})
		m.editing = false
		m.SetStatus(i18n.T("settings.saved"), false)
		return nil
	}
	_, cmd := m.form.Update(msg)
	return cmd
}

// View renders the settings view
func (m *SettingsModel) View() string {
	v := NewViewBuilder()
	v.Raw(renderTabs(2)).BlankLine().BlankLine()

	if m.editing {
		v.Line(m.form.RenderField(0)).Line(m.form.RenderField(1)).BlankLine()
		v.Raw(m.form.RenderHelp(i18n.T("actions.open")))
		return v.String()
	}

	s := m.app.Settings.Snapshot()
	opts := m.app.Coherence.Snapshot().Options
	for i, row := range m.rows {
		if i == len(m.rows)-len(domain.CheckKeys()) {
			v.BlankLine().Line(styles.InputLabel.Render(i18n.T("coherence.options")))
		}
		line := fmt.Sprintf("%-42s %s", row.label, row.value(s, opts))
		if i == m.list.Cursor() {
			v.Line(styles.RowSelected.Render("> " + line))
		} else {
			v.Line("  " + line)
		}
	}
	v.BlankLine()
	v.Line(RenderLabelValue(i18n.T("settings.text_editor"), s.ExternalTools.TextEditor))
	if !m.app.Settings.Loaded() {
		v.Muted("(défauts, non synchronisés)")
	}

	v.BlankLine().Message(m.StatusLine(), m.MessageErr)
	v.Help(SettingsKeys.Toggle, SettingsKeys.All, SettingsKeys.None, SettingsKeys.Editor, SettingsKeys.Back)
	return v.String()
}

// checkEditorPath accepts an empty path (use the editor name) or an
// absolute one.
func checkEditorPath(path string) error {
	if path == "" || filepath.IsAbs(path) {
		return nil
	}
	return &application.ValidationError{Field: "paths.editor", Message: i18n.T("dialog.invalid_path")}
}
