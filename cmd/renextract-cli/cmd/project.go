package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"renextract/internal/application"
	"renextract/internal/domain"
	"renextract/internal/i18n"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Load and inspect Ren'Py projects",
}

var projectLoadCmd = &cobra.Command{
	Use:   "load <project-path> [language] [file]",
	Short: "Load a project, optionally selecting a language and a file",
	Long: `Load a Ren'Py project and list its translation languages.

When the project has a single language and a single file, both are
selected. Pass a language (and a file path) to select them explicitly.

Examples:
  renextract-cli project load ~/games/Demo
  renextract-cli project load ~/games/Demo french
  renextract-cli project load ~/games/Demo french ~/games/Demo/game/tl/french/script.rpy`,
	Args: cobra.RangeArgs(1, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := loadProject(ctx, args[0], args[1:]...); err != nil {
			return err
		}
		printProject(GetApp().Stores.Project.Snapshot())
		return nil
	},
}

var projectFileCmd = &cobra.Command{
	Use:   "file <script.rpy>",
	Short: "Load a single script outside a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := loadScript(ctx, args[0]); err != nil {
			return err
		}
		printProject(GetApp().Stores.Project.Snapshot())
		return nil
	},
}

var projectStateCmd = &cobra.Command{
	Use:   "state",
	Short: "Show the project the backend has loaded",
	RunE: func(cmd *cobra.Command, args []string) error {
		project := GetApp().Stores.Project
		if !project.RefreshState(cmd.Context()) {
			return errors.New(project.Snapshot().Error)
		}
		printProject(project.Snapshot())
		return nil
	},
}

// loadProject loads path and selects the optional language and file.
func loadProject(ctx context.Context, path string, selection ...string) error {
	if err := application.ValidateRequired("projectPath", path); err != nil {
		return err
	}
	loadSettings(ctx)
	project := GetApp().Stores.Project

	ok := withSpinner("Chargement du projet...", func() bool {
		return project.LoadProject(ctx, path)
	})
	if !ok {
		return errors.New(project.Snapshot().Error)
	}

	if len(selection) > 0 {
		language := selection[0]
		if !project.SelectLanguage(ctx, language) {
			return unknownLanguage(language, project.Snapshot())
		}
	}
	if len(selection) > 1 {
		if err := application.ValidateScriptPath("filePath", selection[1]); err != nil {
			return err
		}
		if !project.SelectFile(ctx, selection[1]) {
			return errors.New(project.Snapshot().Error)
		}
	}
	return nil
}

// loadScript loads a single script.
func loadScript(ctx context.Context, path string) error {
	if err := application.ValidateScriptPath("filePath", path); err != nil {
		return err
	}
	loadSettings(ctx)
	project := GetApp().Stores.Project

	ok := withSpinner("Chargement du fichier...", func() bool {
		return project.LoadSingleFile(ctx, path)
	})
	if !ok {
		return errors.New(project.Snapshot().Error)
	}
	return nil
}

func unknownLanguage(language string, st domain.ProjectState) error {
	names := make([]string, 0, len(st.AvailableLanguages))
	for _, l := range st.AvailableLanguages {
		names = append(names, l.Name)
	}
	msg := fmt.Sprintf("%s: %s", i18n.T("project.unknown_language"), language)
	if guess, ok := i18n.Closest(language, names); ok {
		msg += fmt.Sprintf(" (%s?)", guess)
	}
	if len(names) > 0 {
		msg += "\n" + strings.Join(names, ", ")
	}
	return errors.New(msg)
}

func printProject(st domain.ProjectState) {
	mode := i18n.T("project.mode_project")
	if st.Mode == domain.ModeSingleFile {
		mode = i18n.T("project.mode_single_file")
	}
	pterm.DefaultSection.Println(mode)

	rows := [][]string{}
	if st.ProjectPath != "" {
		rows = append(rows, []string{i18n.T("navigation.project"), st.ProjectPath})
	}
	if st.Language != "" {
		rows = append(rows, []string{i18n.T("settings.language"), st.Language})
	}
	if st.CurrentFile != "" {
		rows = append(rows, []string{"file", fmt.Sprintf("%s (%d %s)", st.CurrentFile, len(st.FileContent), i18n.T("project.lines"))})
	}
	if s := st.Summary; s != nil && s.Summary != "" {
		rows = append(rows, []string{"summary", s.Summary})
	}
	for _, r := range rows {
		fmt.Printf("%-12s %s\n", r[0], r[1])
	}

	if len(st.AvailableLanguages) > 0 {
		fmt.Println()
		for _, l := range st.AvailableLanguages {
			marker := " "
			if l.Name == st.Language {
				marker = "*"
			}
			fmt.Printf("%s %-20s %d\n", marker, l.Name, l.FileCount)
		}
	}
	if len(st.AvailableFiles) > 0 {
		fmt.Println()
		for _, f := range st.AvailableFiles {
			fmt.Printf("  %s\n", f.Path)
		}
	}
}

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.AddCommand(projectLoadCmd)
	projectCmd.AddCommand(projectFileCmd)
	projectCmd.AddCommand(projectStateCmd)
}
