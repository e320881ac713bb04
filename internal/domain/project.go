package domain

// ProjectMode tells whether the client works on a whole game project or
// on a lone script file.
type ProjectMode string

const (
	ModeProject    ProjectMode = "project"
	ModeSingleFile ProjectMode = "single_file"
)

// ProjectStatus is the derived lifecycle of the project store.
type ProjectStatus int

const (
	ProjectIdle ProjectStatus = iota
	ProjectLoading
	ProjectReady
	ProjectError
)

func (s ProjectStatus) String() string {
	switch s {
	case ProjectLoading:
		return "loading"
	case ProjectReady:
		return "ready"
	case ProjectError:
		return "error"
	default:
		return "idle"
	}
}

// LanguageInfo is a translation language found under game/tl.
type LanguageInfo struct {
	Name      string `json:"name"`
	FileCount int    `json:"file_count"`
	Path      string `json:"path"`
}

// FileInfo is a script file of a language.
type FileInfo struct {
	Name         string `json:"name"`
	Path         string `json:"path"`
	Size         int64  `json:"size"`
	RelativePath string `json:"relative_path"`
}

// ProjectSummary describes a project as scanned by the backend.
type ProjectSummary struct {
	ProjectName string         `json:"project_name"`
	RPACount    int            `json:"rpa_count"`
	RPYCount    int            `json:"rpy_count"`
	Languages   []LanguageInfo `json:"languages"`
	Summary     string         `json:"summary"`
}

// ProjectState is the client's view of the current project and file.
type ProjectState struct {
	Mode               ProjectMode
	ProjectPath        string
	Language           string
	CurrentFile        string
	FileContent        []string
	AvailableLanguages []LanguageInfo
	AvailableFiles     []FileInfo
	Summary            *ProjectSummary
	IsLoading          bool
	Error              string
}

// NewProjectState returns the empty state.
func NewProjectState() ProjectState {
	return ProjectState{Mode: ModeProject}
}

// Status derives the lifecycle from the fields.
func (s ProjectState) Status() ProjectStatus {
	switch {
	case s.IsLoading:
		return ProjectLoading
	case s.Error != "":
		return ProjectError
	case s.ProjectPath != "":
		return ProjectReady
	default:
		return ProjectIdle
	}
}

// Clone returns a deep copy.
func (s ProjectState) Clone() ProjectState {
	s.FileContent = append([]string(nil), s.FileContent...)
	s.AvailableLanguages = append([]LanguageInfo(nil), s.AvailableLanguages...)
	s.AvailableFiles = append([]FileInfo(nil), s.AvailableFiles...)
	if s.Summary != nil {
		sum := *s.Summary
		sum.Languages = append([]LanguageInfo(nil), sum.Languages...)
		s.Summary = &sum
	}
	return s
}

// LanguageNames lists the available language names in order.
func (s ProjectState) LanguageNames() []string {
	names := make([]string, 0, len(s.AvailableLanguages))
	for _, l := range s.AvailableLanguages {
		names = append(names, l.Name)
	}
	return names
}

// BackendProjectState is the payload of GET /project/state.
type BackendProjectState struct {
	Mode               ProjectMode    `json:"mode"`
	ProjectPath        *string        `json:"project_path"`
	Language           *string        `json:"language"`
	CurrentFile        *string        `json:"current_file"`
	FileContent        []string       `json:"file_content"`
	AvailableLanguages []LanguageInfo `json:"available_languages"`
	AvailableFiles     []FileInfo     `json:"available_files"`
}
