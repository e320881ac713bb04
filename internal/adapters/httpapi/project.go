package httpapi

import (
	"context"

	"renextract/internal/domain"
	apperrors "renextract/internal/pkg/errors"
	"renextract/internal/ports"
)

func (c *Client) ValidateProject(ctx context.Context, projectPath string) (ports.ProjectValidation, error) {
	var out struct {
		Validation *ports.ProjectValidation `json:"validation"`
	}
	if err := c.post(ctx, "/project/validate", map[string]any{"project_path": projectPath}, &out); err != nil {
		return ports.ProjectValidation{}, err
	}
	if out.Validation == nil {
		return ports.ProjectValidation{}, apperrors.Rejected("").WithEndpoint("POST /project/validate")
	}
	return *out.Validation, nil
}

func (c *Client) FindProjectRoot(ctx context.Context, subdirPath string, maxLevels int) (string, error) {
	var out struct {
		RootPath string `json:"root_path"`
	}
	in := map[string]any{"subdir_path": subdirPath, "max_levels": maxLevels}
	if err := c.post(ctx, "/project/find-root", in, &out); err != nil {
		return "", err
	}
	return out.RootPath, nil
}

func (c *Client) ProjectSummary(ctx context.Context, projectPath string) (*domain.ProjectSummary, error) {
	var out struct {
		Summary *domain.ProjectSummary `json:"summary"`
	}
	if err := c.post(ctx, "/project/summary", map[string]any{"project_path": projectPath}, &out); err != nil {
		return nil, err
	}
	return out.Summary, nil
}

func (c *Client) ScanLanguages(ctx context.Context, projectPath string) ([]domain.LanguageInfo, error) {
	var out struct {
		Languages []domain.LanguageInfo `json:"languages"`
	}
	if err := c.post(ctx, "/project/languages", map[string]any{"project_path": projectPath}, &out); err != nil {
		return nil, err
	}
	return out.Languages, nil
}

// ScanLanguageFiles lists the scripts of tl/<language>.
func (c *Client) ScanLanguageFiles(ctx context.Context, projectPath, language string, exclusions []string) ([]domain.FileInfo, error) {
	if exclusions == nil {
		exclusions = []string{}
	}
	in := map[string]any{
		"project_path": projectPath,
		"file_type":    "languages",
		"language":     language,
		"exclusions":   exclusions,
	}
	var out struct {
		Files []domain.FileInfo `json:"files"`
	}
	if err := c.post(ctx, "/project/files", in, &out); err != nil {
		return nil, err
	}
	return out.Files, nil
}

func (c *Client) LoadFile(ctx context.Context, filePath string) (*ports.FileContent, error) {
	var out struct {
		Content   []string `json:"content"`
		LineCount int      `json:"line_count"`
		FilePath  string   `json:"filepath"`
	}
	if err := c.post(ctx, "/project/load-file", map[string]any{"filepath": filePath}, &out); err != nil {
		return nil, err
	}
	if out.FilePath == "" {
		out.FilePath = filePath
	}
	return &ports.FileContent{Lines: out.Content, LineCount: out.LineCount, FilePath: out.FilePath}, nil
}

func (c *Client) SetCurrentProject(ctx context.Context, projectPath string, mode domain.ProjectMode) error {
	in := map[string]any{"project_path": projectPath, "mode": mode}
	return c.post(ctx, "/project/set-current", in, nil)
}

func (c *Client) ProjectState(ctx context.Context) (*domain.BackendProjectState, error) {
	var out struct {
		State *domain.BackendProjectState `json:"state"`
	}
	if err := c.get(ctx, "/project/state", &out); err != nil {
		return nil, err
	}
	if out.State == nil {
		return nil, apperrors.Rejected("").WithEndpoint("GET /project/state")
	}
	return out.State, nil
}
