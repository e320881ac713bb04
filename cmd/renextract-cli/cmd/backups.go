package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"renextract/internal/application"
	"renextract/internal/domain"
)

var (
	backupGame string
	backupType string
	restoreTo  string
)

var backupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "List, restore and delete script backups",
}

var backupsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List backups, optionally filtered by game and type",
	Long: `List the backups the backend keeps.

Types: security, cleanup, rpa_build, realtime_edit.

Examples:
  renextract-cli backups list
  renextract-cli backups list --game Demo --type security`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := application.ValidateBackupType(backupType); err != nil {
			return err
		}

		backups, err := GetApp().Backend.ListBackups(cmd.Context(), domain.BackupFilter{
			Game: backupGame,
			Type: domain.BackupType(backupType),
		})
		if err != nil {
			return err
		}
		if len(backups) == 0 {
			fmt.Println("No backups.")
			return nil
		}

		data := pterm.TableData{{"ID", "Game", "File", "Type", "Created"}}
		for _, b := range backups {
			data = append(data, []string{b.ID, b.GameName, b.FileName, string(b.Type), b.CreatedAt})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	},
}

var backupsRestoreCmd = &cobra.Command{
	Use:   "restore <backup-id>",
	Short: "Restore a backup to its source, or elsewhere with --to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		if err := application.ValidateRequired("backupID", id); err != nil {
			return err
		}

		backend := GetApp().Backend
		var err error
		if restoreTo != "" {
			err = backend.RestoreBackupTo(cmd.Context(), id, restoreTo)
		} else {
			err = backend.RestoreBackup(cmd.Context(), id)
		}
		if err != nil {
			return err
		}
		pterm.Success.Printfln("restored %s", id)
		return nil
	},
}

var backupsDeleteCmd = &cobra.Command{
	Use:   "delete <backup-id>",
	Short: "Delete a backup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		if err := application.ValidateRequired("backupID", id); err != nil {
			return err
		}
		if err := GetApp().Backend.DeleteBackup(cmd.Context(), id); err != nil {
			return err
		}
		pterm.Success.Printfln("deleted %s", id)
		return nil
	},
}

func init() {
	backupsListCmd.Flags().StringVar(&backupGame, "game", "", "only backups of this game")
	backupsListCmd.Flags().StringVar(&backupType, "type", "", "only backups of this type")
	backupsRestoreCmd.Flags().StringVar(&restoreTo, "to", "", "restore to this path instead of the source")

	rootCmd.AddCommand(backupsCmd)
	backupsCmd.AddCommand(backupsListCmd)
	backupsCmd.AddCommand(backupsRestoreCmd)
	backupsCmd.AddCommand(backupsDeleteCmd)
}
