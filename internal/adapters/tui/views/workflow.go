package views

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"renextract/internal/adapters/tui/styles"
	"renextract/internal/application/stores"
	"renextract/internal/domain"
	"renextract/internal/i18n"
)

// WorkflowKeyMap defines key bindings for the workflow panels
type WorkflowKeyMap struct {
	Extract     key.Binding
	Reconstruct key.Binding
	QuickCheck  key.Binding
	Analyze     key.Binding
	Duplicates  key.Binding
	OpenOutput  key.Binding
	OpenReport  key.Binding
	Copy        key.Binding
	Browser     key.Binding
	Settings    key.Binding
	Help        key.Binding
	Quit        key.Binding
}

var WorkflowKeys = WorkflowKeyMap{
	Extract: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "extract"),
	),
	Reconstruct: key.NewBinding(
		key.WithKeys("b"),
		key.WithHelp("b", "rebuild"),
	),
	QuickCheck: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "check file"),
	),
	Analyze: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "check language"),
	),
	Duplicates: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "duplicates"),
	),
	OpenOutput: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "output folder"),
	),
	OpenReport: key.NewBinding(
		key.WithKeys("R"),
		key.WithHelp("R", "report"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy path"),
	),
	Browser: key.NewBinding(
		key.WithKeys("tab", "esc"),
		key.WithHelp("tab", "project"),
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

// WorkflowModel shows the extraction, reconstruction and coherence
// panels for the current file
type WorkflowModel struct {
	ViewState
	ctx     context.Context
	app     *stores.App
	spinner spinner.Model
}

// NewWorkflowModel creates the workflow panels
func NewWorkflowModel(ctx context.Context, app *stores.App) *WorkflowModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Warning)
	return &WorkflowModel{ctx: ctx, app: app, spinner: s}
}

// Init starts the spinner. It keeps ticking for the life of the program.
func (m *WorkflowModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages for the workflow panels
func (m *WorkflowModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case StoreChangedMsg:
		m.Apply(msg)
		return m, nil

	case tea.KeyMsg:
		m.ClearMessage()
		project := m.app.Project.Snapshot()

		switch {
		case key.Matches(msg, WorkflowKeys.Quit):
			return m, tea.Quit

		case key.Matches(msg, WorkflowKeys.Browser):
			return m, func() tea.Msg { return SwitchToBrowserMsg{} }

		case key.Matches(msg, WorkflowKeys.Settings):
			return m, func() tea.Msg { return SwitchToSettingsMsg{} }

		case key.Matches(msg, WorkflowKeys.Help):
			return m, func() tea.Msg { return SwitchToHelpMsg{} }

		case key.Matches(msg, WorkflowKeys.Extract):
			if !m.requireFile(project) || m.app.Extraction.Snapshot().IsExtracting {
				return m, nil
			}
			return m, m.extract(project.FileContent, project.CurrentFile)

		case key.Matches(msg, WorkflowKeys.Reconstruct):
			if !m.requireFile(project) || m.app.Reconstruction.Snapshot().IsReconstructing {
				return m, nil
			}
			return m, m.reconstruct(project.FileContent, project.CurrentFile)

		case key.Matches(msg, WorkflowKeys.QuickCheck):
			if !m.requireFile(project) || m.app.Coherence.Snapshot().IsChecking {
				return m, nil
			}
			path := project.CurrentFile
			return m, m.coherence(func(ctx context.Context) bool {
				return m.app.Coherence.QuickCheckFile(ctx, path)
			})

		case key.Matches(msg, WorkflowKeys.Analyze):
			target := languageFolder(project)
			if target == "" {
				m.SetStatus(i18n.T("project.no_language"), true)
				return m, nil
			}
			if m.app.Coherence.Snapshot().IsChecking {
				return m, nil
			}
			return m, m.coherence(func(ctx context.Context) bool {
				return m.app.Coherence.AnalyzeCoherence(ctx, target)
			})

		case key.Matches(msg, WorkflowKeys.Duplicates):
			detect := !m.app.Extraction.Snapshot().Settings.DetectDuplicates
			return m, func() tea.Msg {
				if !m.app.Extraction.UpdateSettings(m.ctx, domain.ExtractionSettingsPatch{DetectDuplicates: &detect}) {
					return StoreChangedMsg{Message: m.app.Extraction.Snapshot().LastError, Err: true}
				}
				return StoreChangedMsg{}
			}

		case key.Matches(msg, WorkflowKeys.OpenOutput):
			return m, func() tea.Msg {
				m.app.Extraction.OpenOutputFolder(m.ctx)
				return StoreChangedMsg{}
			}

		case key.Matches(msg, WorkflowKeys.OpenReport):
			return m, func() tea.Msg {
				if !m.app.Coherence.OpenDetailedReport(m.ctx) {
					m.app.Coherence.OpenReportsFolder(m.ctx)
				}
				return StoreChangedMsg{}
			}

		case key.Matches(msg, WorkflowKeys.Copy):
			if text := CopyTarget(m.app.Extraction.Snapshot(), m.app.Reconstruction.Snapshot(), m.app.Coherence.Snapshot()); text != "" {
				return m, func() tea.Msg { return CopyMsg{Text: text} }
			}
			return m, nil
		}
	}

	return m, nil
}

func (m *WorkflowModel) requireFile(st domain.ProjectState) bool {
	if st.CurrentFile == "" || len(st.FileContent) == 0 {
		m.SetStatus(i18n.T("project.no_file"), true)
		return false
	}
	return true
}

func (m *WorkflowModel) extract(content []string, path string) tea.Cmd {
	return func() tea.Msg {
		if m.app.Extraction.ExtractTexts(m.ctx, content, path, nil) {
			return StoreChangedMsg{Message: i18n.T("extraction.done")}
		}
		return StoreChangedMsg{Message: m.app.Extraction.Snapshot().LastError, Err: true}
	}
}

// reconstruct asks first when the settings say the original is
// overwritten.
func (m *WorkflowModel) reconstruct(content []string, path string) tea.Cmd {
	run := func() StoreChangedMsg {
		if m.app.Reconstruction.ReconstructFile(m.ctx, content, path, "") {
			return StoreChangedMsg{Message: i18n.T("reconstruction.done")}
		}
		return StoreChangedMsg{Message: m.app.Reconstruction.Snapshot().LastError, Err: true}
	}

	if m.app.Settings.Snapshot().EffectiveSaveMode() == domain.SaveModeOverwrite {
		return func() tea.Msg {
			return ConfirmMsg{
				Question:  i18n.T("reconstruction.save_overwrite") + " ?",
				Target:    path,
				OnConfirm: run,
			}
		}
	}
	return func() tea.Msg { return run() }
}

func (m *WorkflowModel) coherence(fn func(context.Context) bool) tea.Cmd {
	return func() tea.Msg {
		if fn(m.ctx) {
			return StoreChangedMsg{}
		}
		return StoreChangedMsg{Message: m.app.Coherence.Snapshot().LastError, Err: true}
	}
}

// languageFolder returns the tl/<language> folder of the selected
// language, or "".
func languageFolder(st domain.ProjectState) string {
	for _, l := range st.AvailableLanguages {
		if l.Name == st.Language && l.Path != "" {
			return l.Path
		}
	}
	return ""
}

// CopyTarget picks the most recent useful path: the rebuilt file, the
// coherence report, then the extraction output folder.
func CopyTarget(ex stores.ExtractionState, rec stores.ReconstructionState, coh stores.CoherenceState) string {
	switch {
	case rec.LastResult != nil && rec.LastResult.SavePath != "":
		return rec.LastResult.SavePath
	case coh.LastResult != nil && coh.LastResult.RapportPath != "":
		return coh.LastResult.RapportPath
	case ex.LastResult != nil:
		return ex.LastResult.OutputFolder
	}
	return ""
}

// View renders the panels
func (m *WorkflowModel) View() string {
	spin := m.spinner.View()
	v := NewViewBuilder()

	v.Raw(renderTabs(1)).BlankLine().BlankLine()

	project := m.app.Project.Snapshot()
	if project.CurrentFile == "" {
		v.Muted(i18n.T("project.no_file")).BlankLine()
	} else {
		v.Line(RenderLabelValue("Fichier", project.CurrentFile)).BlankLine()
	}

	v.Raw(RenderExtractionPanel(m.app.Extraction.Snapshot(), spin)).BlankLine()
	v.Raw(RenderReconstructionPanel(m.app.Reconstruction.Snapshot(), spin)).BlankLine()
	v.Raw(RenderCoherencePanel(m.app.Coherence.Snapshot(), spin)).BlankLine()

	v.Message(m.StatusLine(), m.MessageErr)
	v.Help(WorkflowKeys.Extract, WorkflowKeys.Reconstruct, WorkflowKeys.QuickCheck, WorkflowKeys.Analyze,
		WorkflowKeys.Duplicates, WorkflowKeys.OpenReport, WorkflowKeys.Copy, WorkflowKeys.Browser, WorkflowKeys.Quit)
	return v.String()
}

func panel(title string, busy bool, lines ...string) string {
	var b strings.Builder
	b.WriteString(styles.PanelTitle.Render(title))
	for _, l := range lines {
		if l == "" {
			continue
		}
		b.WriteString("\n")
		b.WriteString(l)
	}
	if busy {
		return styles.PanelBusy.Render(b.String())
	}
	return styles.Panel.Render(b.String())
}

// RenderExtractionPanel renders the extraction state
func RenderExtractionPanel(st stores.ExtractionState, spin string) string {
	lines := []string{
		styles.Toggle(st.Settings.DetectDuplicates) + " " + i18n.T("extraction.detect_duplicates"),
		RenderProgress(spin, st.IsExtracting, st.Progress),
	}
	if st.LastResult != nil {
		summary := st.LastResult.Summary()
		if st.ExtractionTime > 0 {
			summary += " (" + domain.FormatElapsed(st.ExtractionTime) + ")"
		}
		lines = append(lines, styles.Success.Render(summary), RenderMuted(st.LastResult.OutputFolder))
	}
	if st.LastError != "" {
		lines = append(lines, styles.ErrorMsg.Render(st.LastError))
	}
	lines = append(lines, RenderStats(st.Stats))
	return panel(i18n.T("navigation.extraction"), st.IsExtracting, lines...)
}

// RenderReconstructionPanel renders the reconstruction state
func RenderReconstructionPanel(st stores.ReconstructionState, spin string) string {
	lines := []string{RenderProgress(spin, st.IsReconstructing, st.Progress)}
	if st.LastResult != nil {
		lines = append(lines, styles.Success.Render(st.LastResult.SavePath))
		if st.ReconstructionTime > 0 {
			lines = append(lines, RenderMuted(domain.FormatElapsed(st.ReconstructionTime)))
		}
	}
	if v := st.LastValidation; v != nil && !v.OverallValid {
		for _, e := range v.Summary.Errors {
			lines = append(lines, styles.ErrorMsg.Render("• "+e))
		}
	}
	if st.LastError != "" {
		lines = append(lines, styles.ErrorMsg.Render(st.LastError))
	}
	lines = append(lines, RenderStats(st.Stats))
	return panel(i18n.T("navigation.reconstruction"), st.IsReconstructing, lines...)
}

// RenderCoherencePanel renders the coherence state with issue counts
// per type
func RenderCoherencePanel(st stores.CoherenceState, spin string) string {
	lines := []string{RenderProgress(spin, st.IsChecking, st.Progress)}
	if st.CurrentTarget != "" {
		lines = append(lines, RenderMuted(st.CurrentTarget))
	}
	if r := st.LastResult; r != nil {
		lines = append(lines, fmt.Sprintf("%d %s, %d %s",
			r.Stats.TotalIssues, i18n.T("coherence.issues"),
			r.Stats.FilesAnalyzed, i18n.T("coherence.files")))

		types := make([]string, 0, len(r.Stats.IssuesByType))
		for t, n := range r.Stats.IssuesByType {
			if n > 0 {
				types = append(types, t)
			}
		}
		sort.Strings(types)
		for _, t := range types {
			style := lipgloss.NewStyle().Foreground(styles.IssueColor(t))
			lines = append(lines, fmt.Sprintf("  %s %d", style.Render(t), r.Stats.IssuesByType[t]))
		}
		if r.RapportPath != "" {
			lines = append(lines, RenderLabelValue(i18n.T("coherence.report"), r.RapportPath))
		}
	}
	if st.LastError != "" {
		lines = append(lines, styles.ErrorMsg.Render(st.LastError))
	}
	lines = append(lines, RenderStats(st.Stats))
	return panel(i18n.T("navigation.coherence"), st.IsChecking, lines...)
}
