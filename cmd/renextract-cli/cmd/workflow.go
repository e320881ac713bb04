package cmd

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"renextract/internal/application"
	"renextract/internal/domain"
	"renextract/internal/i18n"
	apperrors "renextract/internal/pkg/errors"
)

var (
	detectDuplicates bool
	noDuplicates     bool
	saveMode         string
	showIssues       bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <script.rpy>",
	Short: "Extract the translatable texts of a script",
	Long: `Back the script up, then extract its dialogue, asterisk and tilde
texts into the output folder.

Examples:
  renextract-cli extract ~/games/Demo/game/tl/french/script.rpy
  renextract-cli extract --duplicates script.rpy`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := loadScript(ctx, args[0]); err != nil {
			return err
		}

		var detect *bool
		switch {
		case detectDuplicates:
			detect = &detectDuplicates
		case noDuplicates:
			off := false
			detect = &off
		}

		a := GetApp()
		project := a.Stores.Project.Snapshot()
		ok := withSpinner(i18n.T("actions.extract")+"...", func() bool {
			return a.Stores.Extraction.ExtractTexts(ctx, project.FileContent, project.CurrentFile, detect)
		})
		st := a.Stores.Extraction.Snapshot()
		if !ok {
			return fmt.Errorf("%s: %s", i18n.T("extraction.failed"), st.LastError)
		}

		pterm.Success.Printfln("%s (%s)", st.LastResult.Summary(), domain.FormatElapsed(st.ExtractionTime))
		for _, f := range st.LastResult.FilesToOpen() {
			fmt.Println("  " + f)
		}
		copyPath(st.LastResult.OutputFolder)
		return nil
	},
}

var reconstructCmd = &cobra.Command{
	Use:   "reconstruct <script.rpy>",
	Short: "Rebuild a script from its translated texts",
	Long: `Fix common quote errors, validate the translation files and rebuild
the script. A coherence check of the result follows.

Examples:
  renextract-cli reconstruct script.rpy
  renextract-cli reconstruct --mode overwrite script.rpy`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := application.ValidateSaveMode(saveMode); err != nil {
			return err
		}
		if err := loadScript(ctx, args[0]); err != nil {
			return err
		}

		a := GetApp()
		project := a.Stores.Project.Snapshot()
		ok := withSpinner(i18n.T("actions.reconstruct")+"...", func() bool {
			return a.Stores.Reconstruction.ReconstructFile(ctx, project.FileContent, project.CurrentFile, saveMode)
		})
		st := a.Stores.Reconstruction.Snapshot()
		switch v := st.LastValidation; {
		case v == nil:
			pterm.Warning.Println("no recorded extraction for this script, translation files not validated")
		case !v.OverallValid:
			for _, e := range v.Summary.Errors {
				pterm.Warning.Println(e)
			}
		}
		if !ok {
			return fmt.Errorf("%s: %s", i18n.T("reconstruction.failed"), st.LastError)
		}

		pterm.Success.Printfln("%s (%s)", st.LastResult.SavePath, domain.FormatElapsed(st.ReconstructionTime))
		if coh := a.Stores.Coherence.Snapshot(); coh.LastResult != nil {
			printCoherence(*coh.LastResult, false)
		} else if coh.LastError != "" {
			pterm.Warning.Println(coh.LastError)
		}
		copyPath(st.LastResult.SavePath)
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <script.rpy>",
	Short: "Check that the backend can extract a script",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := application.ValidateScriptPath("filePath", args[0]); err != nil {
			return err
		}
		valid, msg := GetApp().Stores.Extraction.ValidateFile(cmd.Context(), args[0])
		if !valid {
			if msg == "" {
				msg = apperrors.UnknownError
			}
			return errors.New(msg)
		}
		pterm.Success.Println(msg)
		return nil
	},
}

var openCmd = &cobra.Command{
	Use:   "open <file>",
	Short: "Open a file on the backend host",
	Long: `Open a file produced by an extraction, such as a dialogue or
asterisk file, with the backend host's default editor.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := application.ValidateRequired("filePath", args[0]); err != nil {
			return err
		}
		if !GetApp().Stores.Extraction.OpenExtractionFile(cmd.Context(), args[0]) {
			return fmt.Errorf("cannot open %s", args[0])
		}
		return nil
	},
}

var coherenceCmd = &cobra.Command{
	Use:   "coherence",
	Short: "Check translated scripts and manage the checks",
}

var coherenceCheckCmd = &cobra.Command{
	Use:   "check <script-or-folder>",
	Short: "Check a translated script or a language folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		target := args[0]
		if err := application.ValidateRequired("targetPath", target); err != nil {
			return err
		}
		loadSettings(ctx)

		coherence := GetApp().Stores.Coherence
		ok := withSpinner(i18n.T("actions.check")+"...", func() bool {
			return coherence.AnalyzeCoherence(ctx, target)
		})
		st := coherence.Snapshot()
		if !ok {
			return errors.New(st.LastError)
		}
		printCoherence(*st.LastResult, showIssues)
		copyPath(st.LastResult.RapportPath)
		return nil
	},
}

var coherenceOptionsCmd = &cobra.Command{
	Use:   "options [check=true|false ...]",
	Short: "Show or change the coherence checks",
	Long: `Without arguments, list the checks and whether they are enabled.
With name=value pairs, change them on the backend.

Examples:
  renextract-cli coherence options
  renextract-cli coherence options check_ellipsis=false check_tags=true`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		coherence := GetApp().Stores.Coherence
		if !coherence.LoadOptions(ctx) {
			pterm.Warning.Println("options not loaded, showing defaults")
		}

		if len(args) > 0 {
			patch, err := parseAssignments(args)
			if err != nil {
				return err
			}
			if !coherence.SaveOptions(ctx, patch) {
				return errors.New("Échec de l'enregistrement des options")
			}
		}

		opts := coherence.Snapshot().Options
		for _, name := range domain.CheckKeys() {
			if c := opts.Check(name); c != nil {
				fmt.Printf("%-28s %t\n", name, *c)
			}
		}
		return nil
	},
}

// parseAssignments turns key=value arguments into a patch.
func parseAssignments(args []string) (map[string]any, error) {
	patch := make(map[string]any, len(args))
	for _, arg := range args {
		key, raw, found := strings.Cut(arg, "=")
		if !found || key == "" {
			return nil, &application.ValidationError{Field: arg, Message: "expected name=value"}
		}
		patch[key] = application.ParseSettingValue(raw)
	}
	return patch, nil
}

func printCoherence(r domain.CoherenceResult, details bool) {
	pterm.Info.Printfln("%d %s, %d %s", r.Stats.TotalIssues, i18n.T("coherence.issues"), r.Stats.FilesAnalyzed, i18n.T("coherence.files"))

	types := make([]string, 0, len(r.Stats.IssuesByType))
	for t, n := range r.Stats.IssuesByType {
		if n > 0 {
			types = append(types, t)
		}
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Printf("  %-24s %d\n", t, r.Stats.IssuesByType[t])
	}
	if r.RapportPath != "" {
		fmt.Printf("%s: %s\n", i18n.T("coherence.report"), r.RapportPath)
	}

	if !details {
		return
	}
	files := make([]string, 0, len(r.IssuesByFile))
	for f := range r.IssuesByFile {
		files = append(files, f)
	}
	sort.Strings(files)
	for _, f := range files {
		pterm.DefaultSection.Println(f)
		for _, issue := range r.IssuesByFile[f] {
			fmt.Printf("  %5d  %-20s %s\n", issue.LineNumber, issue.Type, issue.Message)
		}
	}
}

func init() {
	extractCmd.Flags().BoolVar(&detectDuplicates, "duplicates", false, "detect duplicate lines for this run")
	extractCmd.Flags().BoolVar(&noDuplicates, "no-duplicates", false, "skip duplicate detection for this run")
	extractCmd.MarkFlagsMutuallyExclusive("duplicates", "no-duplicates")
	reconstructCmd.Flags().StringVar(&saveMode, "mode", "", "save mode: new_file or overwrite (default: from settings)")
	coherenceCheckCmd.Flags().BoolVar(&showIssues, "issues", false, "list every issue")

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(reconstructCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(coherenceCmd)
	coherenceCmd.AddCommand(coherenceCheckCmd)
	coherenceCmd.AddCommand(coherenceOptionsCmd)
}
