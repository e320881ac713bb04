package stores

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"renextract/internal/domain"
	apperrors "renextract/internal/pkg/errors"
	"renextract/internal/ports"
)

// ProjectStore tracks the open project, its languages and the loaded
// script.
type ProjectStore struct {
	api      ports.ProjectAPI
	settings SettingsWriter
	log      *zap.Logger

	settingsDelay time.Duration
	projectDelay  time.Duration

	mu    sync.Mutex
	state domain.ProjectState
}

// NewProjectStore creates an empty project store.
func NewProjectStore(api ports.ProjectAPI, settings SettingsWriter, opts ...Option) *ProjectStore {
	o := buildOptions(opts)
	return &ProjectStore{
		api:           api,
		settings:      settings,
		log:           o.log.Named("project"),
		settingsDelay: o.settingsDelay,
		projectDelay:  o.projectDelay,
		state:         domain.NewProjectState(),
	}
}

// Snapshot returns a copy of the state.
func (s *ProjectStore) Snapshot() domain.ProjectState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Status derives the lifecycle from the state.
func (s *ProjectStore) Status() domain.ProjectStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Status()
}

func (s *ProjectStore) update(fn func(*domain.ProjectState)) {
	s.mu.Lock()
	fn(&s.state)
	s.mu.Unlock()
}

// ValidateProject asks the backend whether path is a Ren'Py project.
func (s *ProjectStore) ValidateProject(ctx context.Context, path string) (bool, string) {
	v, err := s.api.ValidateProject(ctx, path)
	if err != nil {
		return false, apperrors.MessageOf(err)
	}
	return v.Valid, v.Message
}

// FindProjectRoot looks for the project root above subdir.
func (s *ProjectStore) FindProjectRoot(ctx context.Context, subdir string) (string, bool) {
	root, err := s.api.FindProjectRoot(ctx, subdir, maxRootLevels)
	if err != nil {
		s.log.Debug("project root not found", zap.String("path", subdir), zap.String("error", apperrors.MessageOf(err)))
		return "", false
	}
	if root == "" {
		return "", false
	}
	return root, true
}

// LoadProject opens a project folder. A path below the project root is
// resolved upward. With a single language, that language and, if it has
// a single file, that file are selected too.
func (s *ProjectStore) LoadProject(ctx context.Context, path string) bool {
	s.update(func(st *domain.ProjectState) {
		st.IsLoading = true
		st.Error = ""
	})

	valid, message := s.ValidateProject(ctx, path)
	if !valid {
		root, ok := s.FindProjectRoot(ctx, path)
		if !ok {
			s.fail(message)
			return false
		}
		s.log.Info("project root resolved", zap.String("path", path), zap.String("root", root))
		path = root
	}

	if err := s.api.SetCurrentProject(ctx, path, domain.ModeProject); err != nil {
		s.fail(apperrors.MessageOf(err))
		return false
	}

	summary, err := s.api.ProjectSummary(ctx, path)
	if err != nil {
		s.log.Warn("project summary unavailable", zap.String("path", path), zap.String("error", apperrors.MessageOf(err)))
		summary = nil
	}

	languages, err := s.api.ScanLanguages(ctx, path)
	if err != nil {
		s.log.Warn("language scan failed", zap.String("path", path), zap.String("error", apperrors.MessageOf(err)))
		languages = nil
	}

	s.update(func(st *domain.ProjectState) {
		*st = domain.ProjectState{
			Mode:               domain.ModeProject,
			ProjectPath:        path,
			Summary:            summary,
			AvailableLanguages: languages,
		}
	})

	s.remember(path, domain.ModeProject)
	s.log.Info("project loaded", zap.String("path", path), zap.Int("languages", len(languages)))

	if len(languages) == 1 {
		s.SelectLanguage(ctx, languages[0].Name)
	}
	return true
}

// SelectLanguage lists the files of a language of the open project.
func (s *ProjectStore) SelectLanguage(ctx context.Context, language string) bool {
	s.mu.Lock()
	projectPath := s.state.ProjectPath
	if projectPath == "" {
		s.mu.Unlock()
		s.log.Error("select language: no project loaded", zap.String("language", language))
		return false
	}
	s.state.IsLoading = true
	s.mu.Unlock()

	files, err := s.api.ScanLanguageFiles(ctx, projectPath, language, []string{})
	if err != nil {
		s.log.Warn("language file scan failed", zap.String("language", language), zap.String("error", apperrors.MessageOf(err)))
		files = nil
	}

	s.update(func(st *domain.ProjectState) {
		st.Language = language
		st.AvailableFiles = files
		st.CurrentFile = ""
		st.FileContent = nil
		st.IsLoading = false
	})

	if s.settings != nil && s.settings.Snapshot().LastProject != nil {
		s.settings.Update(func(as *domain.AppSettings) {
			if as.LastProject != nil {
				as.LastProject.Language = language
			}
		})
	}

	if len(files) == 1 {
		s.SelectFile(ctx, files[0].Path)
	}
	return true
}

// SelectFile loads a script of the open project.
func (s *ProjectStore) SelectFile(ctx context.Context, path string) bool {
	s.update(func(st *domain.ProjectState) { st.IsLoading = true })

	content, err := s.api.LoadFile(ctx, path)
	if err != nil {
		s.fail(apperrors.MessageOf(err))
		return false
	}

	s.update(func(st *domain.ProjectState) {
		st.CurrentFile = path
		st.FileContent = content.Lines
		st.IsLoading = false
		st.Error = ""
	})
	return true
}

// LoadSingleFile opens one script without a project around it.
func (s *ProjectStore) LoadSingleFile(ctx context.Context, path string) bool {
	s.update(func(st *domain.ProjectState) {
		st.IsLoading = true
		st.Error = ""
	})

	if err := s.api.SetCurrentProject(ctx, path, domain.ModeSingleFile); err != nil {
		s.fail(apperrors.MessageOf(err))
		return false
	}

	content, err := s.api.LoadFile(ctx, path)
	if err != nil {
		s.fail(apperrors.MessageOf(err))
		return false
	}

	s.update(func(st *domain.ProjectState) {
		st.Mode = domain.ModeSingleFile
		st.ProjectPath = path
		st.CurrentFile = path
		st.FileContent = content.Lines
		st.AvailableLanguages = nil
		st.AvailableFiles = nil
		st.Language = ""
		st.IsLoading = false
		st.Error = ""
	})

	s.remember(path, domain.ModeSingleFile)
	s.log.Info("single file loaded", zap.String("path", path), zap.Int("lines", len(content.Lines)))
	return true
}

// RefreshState mirrors the backend's view of the current project.
func (s *ProjectStore) RefreshState(ctx context.Context) bool {
	bs, err := s.api.ProjectState(ctx)
	if err != nil {
		s.log.Warn("project state refresh failed", zap.String("error", apperrors.MessageOf(err)))
		return false
	}

	s.update(func(st *domain.ProjectState) {
		st.Mode = bs.Mode
		if st.Mode == "" {
			st.Mode = domain.ModeProject
		}
		st.ProjectPath = deref(bs.ProjectPath)
		st.Language = deref(bs.Language)
		st.CurrentFile = deref(bs.CurrentFile)
		st.FileContent = bs.FileContent
		st.AvailableLanguages = bs.AvailableLanguages
		st.AvailableFiles = bs.AvailableFiles
	})
	return true
}

// LoadLastProject reopens the project or file saved in settings, then
// reselects its language.
func (s *ProjectStore) LoadLastProject(ctx context.Context) bool {
	if !sleep(ctx, s.settingsDelay) {
		return false
	}
	if s.settings == nil {
		return false
	}

	last := s.settings.Snapshot().LastProject
	if last == nil || last.Path == "" {
		s.log.Debug("no last project to load")
		return false
	}

	s.log.Info("loading last project", zap.String("path", last.Path), zap.String("mode", string(last.Mode)))
	if last.Mode == domain.ModeSingleFile {
		return s.LoadSingleFile(ctx, last.Path)
	}

	ok := s.LoadProject(ctx, last.Path)
	if ok && last.Language != "" {
		s.SelectLanguage(ctx, last.Language)
	}
	return ok
}

// Startup waits for the project delay, then opens paths.editor if set,
// else the last project.
func (s *ProjectStore) Startup(ctx context.Context) bool {
	if !sleep(ctx, s.projectDelay) {
		return false
	}

	if s.settings != nil {
		if initial := s.settings.Snapshot().Paths.Editor; strings.TrimSpace(initial) != "" {
			s.log.Info("loading initial project from settings", zap.String("path", initial))
			return s.LoadProject(ctx, initial)
		}
	}
	return s.LoadLastProject(ctx)
}

// UpdateFileContent replaces the loaded lines after a local edit.
func (s *ProjectStore) UpdateFileContent(lines []string) {
	content := append([]string(nil), lines...)
	s.update(func(st *domain.ProjectState) { st.FileContent = content })
}

// Reset returns to the empty state.
func (s *ProjectStore) Reset() {
	s.update(func(st *domain.ProjectState) { *st = domain.NewProjectState() })
}

func (s *ProjectStore) fail(msg string) {
	if msg == "" {
		msg = apperrors.UnknownError
	}
	s.update(func(st *domain.ProjectState) {
		st.IsLoading = false
		st.Error = msg
	})
	s.log.Warn("project action failed", zap.String("error", msg))
}

// remember saves path as the last project and as the editor path.
func (s *ProjectStore) remember(path string, mode domain.ProjectMode) {
	if s.settings == nil {
		return
	}
	s.settings.Update(func(as *domain.AppSettings) {
		as.LastProject = &domain.LastProject{Path: path, Mode: mode}
	})
	if s.settings.Snapshot().Paths.Editor != path {
		s.settings.Update(func(as *domain.AppSettings) { as.Paths.Editor = path })
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
