package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"renextract/internal/adapters/sqlite"
	"renextract/internal/domain"
	"renextract/internal/i18n"
	"renextract/internal/ports"
)

var (
	dialogFolder bool
	dialogTitle  string
	historyKind  string
	historyLimit int
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the backend answers",
	RunE: func(cmd *cobra.Command, args []string) error {
		backend := GetApp().Backend
		h, err := backend.Health(cmd.Context())
		if err != nil {
			return err
		}
		pterm.Success.Printfln("%s: %s", h.Status, h.Message)

		if z, err := backend.CheckZenity(cmd.Context()); err == nil {
			fmt.Printf("zenity: %t %s\n", z.Available, z.Version)
		}
		if info, err := backend.WSLInfo(cmd.Context()); err == nil && len(info) > 0 {
			fmt.Printf("wsl: %v\n", info)
		}
		return nil
	},
}

var dialogCmd = &cobra.Command{
	Use:   "dialog",
	Short: "Open the backend's file pickers",
}

var dialogOpenCmd = &cobra.Command{
	Use:   "open",
	Short: "Pick a script, or a folder with --folder",
	Long: `Open the backend's native picker and print the chosen path. Under
WSL the path is typed instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := ports.DialogRequest{
			DialogType: ports.DialogFile,
			Title:      dialogTitle,
			FileTypes:  []ports.FileType{{"Ren'Py", "*.rpy"}},
			MustExist:  true,
		}
		if dialogFolder {
			req.DialogType = ports.DialogFolder
			req.FileTypes = nil
		}

		path, err := GetApp().Backend.OpenDialog(cmd.Context(), req)
		if err != nil {
			return err
		}
		if path == "" {
			return errors.New(i18n.T("dialog.no_path"))
		}
		fmt.Println(path)
		copyPath(path)
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent extraction, reconstruction and coherence runs",
	Long: `Show the runs recorded in the local history database.

Examples:
  renextract-cli history
  renextract-cli history --kind extraction --limit 5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		h := GetApp().History
		if h == nil {
			return errors.New("run history is disabled")
		}

		counts, err := h.Counts(cmd.Context())
		if err != nil {
			return err
		}
		for _, kind := range []string{"extraction", "reconstruction", "coherence"} {
			st := counts[kind]
			fmt.Printf("%-16s %d %s, %d %s (%.0f%%)\n", kind,
				st.Successful, i18n.T("stats.successful"), st.Failed, i18n.T("stats.failed"), st.SuccessRate)
		}

		recs, err := h.Recent(cmd.Context(), historyKind, historyLimit)
		if err != nil {
			return err
		}
		if len(recs) == 0 {
			return nil
		}
		fmt.Println()
		data := pterm.TableData{{"When", "Kind", "Path", "Result"}}
		for _, r := range recs {
			data = append(data, []string{r.OccurredAt.Local().Format(time.DateTime), r.Kind, r.Path, outcome(r)})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	},
}

func outcome(r domain.RunRecord) string {
	if r.Success {
		return r.Detail
	}
	return "✗ " + r.Error
}

func init() {
	dialogOpenCmd.Flags().BoolVar(&dialogFolder, "folder", false, "pick a folder")
	dialogOpenCmd.Flags().StringVar(&dialogTitle, "title", "", "dialog title")
	historyCmd.Flags().StringVar(&historyKind, "kind", "", "extraction, reconstruction or coherence")
	historyCmd.Flags().IntVar(&historyLimit, "limit", sqlite.DefaultRecentLimit, "number of runs to show")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(dialogCmd)
	dialogCmd.AddCommand(dialogOpenCmd)
	rootCmd.AddCommand(historyCmd)
}
