package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"renextract/internal/application"
	"renextract/internal/application/stores"
)

// RegisterWriteTools adds the workflow tools to the MCP server.
func RegisterWriteTools(s *server.MCPServer, app *stores.App) {
	s.AddTool(loadProjectTool(), loadProjectHandler(app))
	s.AddTool(selectLanguageTool(), selectLanguageHandler(app))
	s.AddTool(selectFileTool(), selectFileHandler(app))
	s.AddTool(extractTool(), extractHandler(app))
	s.AddTool(reconstructTool(), reconstructHandler(app))
	s.AddTool(checkCoherenceTool(), checkCoherenceHandler(app))
	s.AddTool(setSettingTool(), setSettingHandler(app))
}

// --- load_project ---

func loadProjectTool() mcp.Tool {
	return mcp.NewTool("load_project",
		mcp.WithDescription("Load a Ren'Py project folder, or a single .rpy script when the path ends in .rpy. A project with one language and one file selects them."),
		mcp.WithString("path",
			mcp.Description("Project folder or script path"),
			mcp.Required(),
		),
	)
}

func loadProjectHandler(app *stores.App) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path := req.GetString("path", "")
		if err := application.ValidateRequired("projectPath", path); err != nil {
			return toolError(err)
		}

		var ok bool
		if application.ValidateScriptPath("filePath", path) == nil {
			ok = app.Project.LoadSingleFile(ctx, path)
		} else {
			ok = app.Project.LoadProject(ctx, path)
		}
		return projectResult(app, ok)
	}
}

// --- select_language ---

func selectLanguageTool() mcp.Tool {
	return mcp.NewTool("select_language",
		mcp.WithDescription("Select a translation language of the loaded project and list its files."),
		mcp.WithString("language",
			mcp.Description("Language folder name under game/tl (e.g. french)"),
			mcp.Required(),
		),
	)
}

func selectLanguageHandler(app *stores.App) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		language := req.GetString("language", "")
		if err := application.ValidateRequired("language", language); err != nil {
			return toolError(err)
		}
		if app.Project.Snapshot().ProjectPath == "" {
			return toolError(application.ErrNoProject)
		}
		return projectResult(app, app.Project.SelectLanguage(ctx, language))
	}
}

// --- select_file ---

func selectFileTool() mcp.Tool {
	return mcp.NewTool("select_file",
		mcp.WithDescription("Load a script of the selected language so it can be extracted or checked."),
		mcp.WithString("file_path",
			mcp.Description("Absolute path of the .rpy script"),
			mcp.Required(),
		),
	)
}

func selectFileHandler(app *stores.App) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path := req.GetString("file_path", "")
		if err := application.ValidateScriptPath("filePath", path); err != nil {
			return toolError(err)
		}
		return projectResult(app, app.Project.SelectFile(ctx, path))
	}
}

// --- extract ---

func extractTool() mcp.Tool {
	return mcp.NewTool("extract",
		mcp.WithDescription("Extract the translatable texts of the current script. A security backup is made first."),
		mcp.WithBoolean("detect_duplicates",
			mcp.Description("Override the duplicate detection setting for this run"),
		),
	)
}

func extractHandler(app *stores.App) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		project := app.Project.Snapshot()
		if err := requireScript(project.CurrentFile, project.FileContent); err != nil {
			return toolError(err)
		}

		var detect *bool
		if _, set := req.GetArguments()["detect_duplicates"]; set {
			v := req.GetBool("detect_duplicates", false)
			detect = &v
		}

		if !app.Extraction.ExtractTexts(ctx, project.FileContent, project.CurrentFile, detect) {
			return toolError(errors.New(app.Extraction.Snapshot().LastError))
		}
		st := app.Extraction.Snapshot()
		return mcp.NewToolResultText(fmt.Sprintf("%s\noutput: %s", st.LastResult.Summary(), st.LastResult.OutputFolder)), nil
	}
}

// --- reconstruct ---

func reconstructTool() mcp.Tool {
	return mcp.NewTool("reconstruct",
		mcp.WithDescription("Merge the translated texts back into the current script. Requires a prior extraction. A coherence check of the result follows."),
		mcp.WithString("save_mode",
			mcp.Description("new_file or overwrite. Omit to use the configured mode."),
			mcp.Enum("new_file", "overwrite"),
		),
	)
}

func reconstructHandler(app *stores.App) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		mode := req.GetString("save_mode", "")
		if err := application.ValidateSaveMode(mode); err != nil {
			return toolError(err)
		}
		project := app.Project.Snapshot()
		if err := requireScript(project.CurrentFile, project.FileContent); err != nil {
			return toolError(err)
		}
		if app.Extraction.LastResult() == nil {
			return toolError(application.ErrNoExtraction)
		}

		if !app.Reconstruction.ReconstructFile(ctx, project.FileContent, project.CurrentFile, mode) {
			return toolError(errors.New(app.Reconstruction.Snapshot().LastError))
		}
		msg := "saved: " + app.Reconstruction.Snapshot().LastResult.SavePath
		if r := app.Coherence.Snapshot().LastResult; r != nil {
			msg += fmt.Sprintf("\ncoherence: %d issue(s)", r.Stats.TotalIssues)
		}
		return mcp.NewToolResultText(msg), nil
	}
}

// --- check_coherence ---

func checkCoherenceTool() mcp.Tool {
	return mcp.NewTool("check_coherence",
		mcp.WithDescription("Check a translated script or a whole language folder for untranslated lines, variable and tag mismatches."),
		mcp.WithString("target_path",
			mcp.Description("Script or folder to check. Omit to check the current script."),
		),
	)
}

func checkCoherenceHandler(app *stores.App) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		target := req.GetString("target_path", app.Project.Snapshot().CurrentFile)
		if err := application.ValidateRequired("targetPath", target); err != nil {
			return toolError(err)
		}

		if !app.Coherence.AnalyzeCoherence(ctx, target) {
			return toolError(errors.New(app.Coherence.Snapshot().LastError))
		}
		return mcp.NewToolResultText(formatCoherence(*app.Coherence.Snapshot().LastResult, false)), nil
	}
}

// --- set_setting ---

func setSettingTool() mcp.Tool {
	return mcp.NewTool("set_setting",
		mcp.WithDescription("Change a setting by dotted key (e.g. autoOpenings.files, reconstruction.saveMode, language). The change is synced to the backend shortly after."),
		mcp.WithString("key",
			mcp.Description("Dotted setting key"),
			mcp.Required(),
		),
		mcp.WithString("value",
			mcp.Description("New value; true/false and numbers are converted"),
			mcp.Required(),
		),
	)
}

func setSettingHandler(app *stores.App) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		key := req.GetString("key", "")
		value := application.ParseSettingValue(req.GetString("value", ""))

		if err := app.Settings.SetSetting(key, value); err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(fmt.Sprintf("%s = %v", key, value)), nil
	}
}

// --- helpers ---

func requireScript(path string, content []string) error {
	if path == "" || len(content) == 0 {
		return &application.ValidationError{Field: "filePath", Message: "no script loaded, use select_file first"}
	}
	return nil
}

func projectResult(app *stores.App, ok bool) (*mcp.CallToolResult, error) {
	st := app.Project.Snapshot()
	if !ok {
		return toolError(errors.New(st.Error))
	}
	return mcp.NewToolResultText(formatProject(st)), nil
}
