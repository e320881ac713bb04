package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"renextract/internal/adapters/prompt"
	"renextract/internal/app"
	"renextract/internal/config"
	"renextract/internal/pkg/logger"
)

var (
	v           = config.New()
	appInstance *app.Application
	copyResult  bool
)

var rootCmd = &cobra.Command{
	Use:   "renextract-cli",
	Short: "Command-line client for the RenExtract backend",
	Long: `renextract-cli drives a running RenExtract backend from the shell.

It loads Ren'Py projects, extracts translatable texts, rebuilds
translated scripts, checks their coherence and manages settings and
backups.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		cfg, err := config.Load(v)
		if err != nil {
			return err
		}
		if err := logger.Init(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, File: cfg.Log.File}); err != nil {
			return err
		}

		appInstance, err = app.Bootstrap(cmd.Context(), cfg, prompt.NewLine(os.Stdin, os.Stderr))
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if appInstance != nil {
			appInstance.Shutdown()
		}
		_ = logger.Sync()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("api", config.DefaultBaseURL, "backend base URL")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")
	flags.String("lang", "fr", "interface language (fr, en, de)")
	flags.BoolVar(&copyResult, "copy", false, "copy the resulting path to the clipboard")

	_ = v.BindPFlag("api.base_url", flags.Lookup("api"))
	_ = v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = v.BindPFlag("ui.language", flags.Lookup("lang"))
}

// GetApp returns the bootstrapped client
func GetApp() *app.Application {
	return appInstance
}

// withSpinner shows a spinner while fn runs.
func withSpinner(text string, fn func() bool) bool {
	spinner, _ := pterm.DefaultSpinner.
		WithStyle(pterm.NewStyle(pterm.FgCyan)).
		WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").
		WithDelay(100).
		WithRemoveWhenDone(true).
		Start(text)
	ok := fn()
	_ = spinner.Stop()
	return ok
}

// copyPath puts path on the clipboard when --copy is set.
func copyPath(path string) {
	if !copyResult || path == "" {
		return
	}
	if err := clipboard.WriteAll(path); err != nil {
		pterm.Warning.Printfln("clipboard: %v", err)
		return
	}
	pterm.Info.Printfln("copied %s", path)
}

// loadSettings fetches settings before a command that reads or writes
// them. Failures keep the defaults.
func loadSettings(ctx context.Context) {
	a := GetApp()
	a.Stores.Settings.Load(ctx)
	a.Stores.Extraction.LoadSettings(ctx)
	a.Stores.Coherence.LoadOptions(ctx)
}
