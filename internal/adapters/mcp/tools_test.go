package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renextract/internal/application/stores"
	"renextract/internal/domain"
)

func call(t *testing.T, h func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args

	res, err := h(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)

	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text, res.IsError
}

func TestProjectState_Empty(t *testing.T) {
	app := stores.New(nil)
	out, isErr := call(t, projectStateHandler(app), nil)

	assert.False(t, isErr)
	assert.Contains(t, out, "mode: project")
}

func TestSetSetting(t *testing.T) {
	app := stores.New(nil)
	defer app.Close()

	out, isErr := call(t, setSettingHandler(app), map[string]any{"key": "autoOpenings.files", "value": "false"})
	require.False(t, isErr, out)
	assert.Equal(t, "autoOpenings.files = false", out)
	assert.False(t, app.Settings.Snapshot().AutoOpenings.Files)

	out, isErr = call(t, setSettingHandler(app), map[string]any{"key": "nope.key", "value": "1"})
	assert.True(t, isErr)
	assert.Contains(t, out, "nope.key")
}

func TestWorkflowTools_RequireState(t *testing.T) {
	app := stores.New(nil)

	tests := []struct {
		name string
		call func() (string, bool)
		want string
	}{
		{"extract without script", func() (string, bool) { return call(t, extractHandler(app), nil) }, "select_file"},
		{"reconstruct without script", func() (string, bool) { return call(t, reconstructHandler(app), nil) }, "select_file"},
		{"bad save mode", func() (string, bool) {
			return call(t, reconstructHandler(app), map[string]any{"save_mode": "append"})
		}, "append"},
		{"language without project", func() (string, bool) {
			return call(t, selectLanguageHandler(app), map[string]any{"language": "french"})
		}, "no project loaded"},
		{"file must be a script", func() (string, bool) {
			return call(t, selectFileHandler(app), map[string]any{"file_path": "/game/notes.txt"})
		}, ".rpy"},
		{"coherence needs a target", func() (string, bool) { return call(t, checkCoherenceHandler(app), nil) }, "target path"},
		{"load needs a path", func() (string, bool) { return call(t, loadProjectHandler(app), nil) }, "project path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, isErr := tt.call()
			assert.True(t, isErr)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestCoherenceResult_NoRun(t *testing.T) {
	out, isErr := call(t, coherenceResultHandler(stores.New(nil)), nil)
	assert.False(t, isErr)
	assert.Equal(t, "No coherence check yet.", out)
}

func TestFormatCoherence(t *testing.T) {
	r := domain.CoherenceResult{
		TargetPath: "/game/tl/french",
		Stats: domain.CoherenceStats{
			TotalIssues:   2,
			FilesAnalyzed: 1,
			IssuesByType:  map[string]int{"untranslated": 1, "variable_mismatch": 1, "tags_unbalanced": 0},
		},
		IssuesByFile: map[string][]domain.CoherenceIssue{
			"script.rpy": {
				{Type: "untranslated", LineNumber: 12, Message: "Ligne non traduite"},
				{Type: "variable_mismatch", LineNumber: 40, Message: "[name] manquant"},
			},
		},
		RapportPath: "/reports/r.html",
	}

	short := formatCoherence(r, false)
	assert.Contains(t, short, "2 issue(s) in 1 file(s)")
	assert.Contains(t, short, "untranslated  1")
	assert.NotContains(t, short, "tags_unbalanced")
	assert.NotContains(t, short, "Ligne non traduite")

	full := formatCoherence(r, true)
	assert.Contains(t, full, "12  untranslated  Ligne non traduite")
	assert.True(t, strings.Index(full, "12  untranslated") < strings.Index(full, "40  variable_mismatch"))
}

func TestFormatStats(t *testing.T) {
	assert.Equal(t, "runs: 3 ok, 1 failed (75%)\n", formatStats(domain.NewRunStats(3, 1)))
}
