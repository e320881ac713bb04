package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"renextract/internal/application/stores"
	"renextract/internal/domain"
)

// RegisterReadTools adds the read-only state tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, app *stores.App) {
	s.AddTool(projectStateTool(), projectStateHandler(app))
	s.AddTool(extractionStateTool(), extractionStateHandler(app))
	s.AddTool(reconstructionStateTool(), reconstructionStateHandler(app))
	s.AddTool(coherenceResultTool(), coherenceResultHandler(app))
	s.AddTool(settingsTool(), settingsHandler(app))
}

// --- project_state ---

func projectStateTool() mcp.Tool {
	return mcp.NewTool("project_state",
		mcp.WithDescription("Show the loaded Ren'Py project: mode, path, selected language and file, and the available languages and files."),
	)
}

func projectStateHandler(app *stores.App) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText(formatProject(app.Project.Snapshot())), nil
	}
}

func formatProject(st domain.ProjectState) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "status: %s\n", st.Status())
	fmt.Fprintf(&sb, "mode: %s\n", st.Mode)
	if st.ProjectPath != "" {
		fmt.Fprintf(&sb, "project: %s\n", st.ProjectPath)
	}
	if st.Language != "" {
		fmt.Fprintf(&sb, "language: %s\n", st.Language)
	}
	if st.CurrentFile != "" {
		fmt.Fprintf(&sb, "file: %s (%d lines)\n", st.CurrentFile, len(st.FileContent))
	}
	if st.Error != "" {
		fmt.Fprintf(&sb, "error: %s\n", st.Error)
	}
	if len(st.AvailableLanguages) > 0 {
		sb.WriteString("languages:\n")
		for _, l := range st.AvailableLanguages {
			fmt.Fprintf(&sb, "  %s  %d file(s)\n", l.Name, l.FileCount)
		}
	}
	if len(st.AvailableFiles) > 0 {
		sb.WriteString("files:\n")
		for _, f := range st.AvailableFiles {
			fmt.Fprintf(&sb, "  %s\n", f.Path)
		}
	}
	return sb.String()
}

// --- extraction_state ---

func extractionStateTool() mcp.Tool {
	return mcp.NewTool("extraction_state",
		mcp.WithDescription("Show the last extraction result, its duration, the duplicate detection setting and the run statistics."),
	)
}

func extractionStateHandler(app *stores.App) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		st := app.Extraction.Snapshot()

		var sb strings.Builder
		fmt.Fprintf(&sb, "detect_duplicates: %t\n", st.Settings.DetectDuplicates)
		if st.Progress != "" {
			fmt.Fprintf(&sb, "progress: %s\n", st.Progress)
		}
		if r := st.LastResult; r != nil {
			fmt.Fprintf(&sb, "result: %s (%s)\n", r.Summary(), domain.FormatElapsed(st.ExtractionTime))
			fmt.Fprintf(&sb, "output: %s\n", r.OutputFolder)
			for _, f := range r.FilesToOpen() {
				fmt.Fprintf(&sb, "  %s\n", f)
			}
		}
		if st.LastError != "" {
			fmt.Fprintf(&sb, "error: %s\n", st.LastError)
		}
		sb.WriteString(formatStats(st.Stats))
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- reconstruction_state ---

func reconstructionStateTool() mcp.Tool {
	return mcp.NewTool("reconstruction_state",
		mcp.WithDescription("Show the last reconstruction: saved path, save mode, validation errors and run statistics."),
	)
}

func reconstructionStateHandler(app *stores.App) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		st := app.Reconstruction.Snapshot()

		var sb strings.Builder
		if st.Progress != "" {
			fmt.Fprintf(&sb, "progress: %s\n", st.Progress)
		}
		if r := st.LastResult; r != nil {
			fmt.Fprintf(&sb, "saved: %s (%s, %s)\n", r.SavePath, r.SaveMode, domain.FormatElapsed(st.ReconstructionTime))
		}
		if v := st.LastValidation; v != nil {
			fmt.Fprintf(&sb, "validation: %t (%d/%d)\n", v.OverallValid, v.Summary.TotalFound, v.Summary.TotalExpected)
			for _, e := range v.Summary.Errors {
				fmt.Fprintf(&sb, "  %s\n", e)
			}
		}
		if st.LastError != "" {
			fmt.Fprintf(&sb, "error: %s\n", st.LastError)
		}
		sb.WriteString(formatStats(st.Stats))
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- coherence_result ---

func coherenceResultTool() mcp.Tool {
	return mcp.NewTool("coherence_result",
		mcp.WithDescription("Show the last coherence check: issue counts per type and, optionally, every issue with its file and line."),
		mcp.WithBoolean("details",
			mcp.Description("List every issue, not just the counts"),
		),
	)
}

func coherenceResultHandler(app *stores.App) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		st := app.Coherence.Snapshot()
		if st.LastResult == nil {
			if st.LastError != "" {
				return mcp.NewToolResultText("error: " + st.LastError), nil
			}
			return mcp.NewToolResultText("No coherence check yet."), nil
		}
		return mcp.NewToolResultText(formatCoherence(*st.LastResult, req.GetBool("details", false))), nil
	}
}

func formatCoherence(r domain.CoherenceResult, details bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "target: %s\n", r.TargetPath)
	fmt.Fprintf(&sb, "%d issue(s) in %d file(s)\n", r.Stats.TotalIssues, r.Stats.FilesAnalyzed)
	for _, t := range sortedKeys(r.Stats.IssuesByType) {
		if n := r.Stats.IssuesByType[t]; n > 0 {
			fmt.Fprintf(&sb, "  %s  %d\n", t, n)
		}
	}
	if r.RapportPath != "" {
		fmt.Fprintf(&sb, "report: %s\n", r.RapportPath)
	}
	if !details {
		return sb.String()
	}
	for _, file := range sortedKeys(r.IssuesByFile) {
		fmt.Fprintf(&sb, "%s\n", file)
		for _, issue := range r.IssuesByFile[file] {
			fmt.Fprintf(&sb, "  %d  %s  %s\n", issue.LineNumber, issue.Type, issue.Message)
		}
	}
	return sb.String()
}

// --- settings ---

func settingsTool() mcp.Tool {
	return mcp.NewTool("settings",
		mcp.WithDescription("Show the application settings and the coherence check options as JSON."),
	)
}

func settingsHandler(app *stores.App) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		doc := struct {
			Settings  domain.AppSettings      `json:"settings"`
			Coherence domain.CoherenceOptions `json:"coherence"`
		}{
			Settings:  app.Settings.Snapshot(),
			Coherence: app.Coherence.Snapshot().Options,
		}
		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(string(out)), nil
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func formatStats(st domain.RunStats) string {
	return fmt.Sprintf("runs: %d ok, %d failed (%.0f%%)\n", st.Successful, st.Failed, st.SuccessRate)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
