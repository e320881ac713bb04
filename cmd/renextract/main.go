package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"renextract/internal/adapters/editor"
	"renextract/internal/adapters/tui"
	"renextract/internal/app"
	"renextract/internal/config"
	"renextract/internal/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.New())
	if err != nil {
		return err
	}

	// the screen belongs to the TUI, so logs go to a file
	logFile := cfg.Log.File
	if logFile == "" {
		logFile = filepath.Join(filepath.Dir(cfg.History.Path), "renextract.log")
		if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
	}
	if err := logger.Init(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, File: logFile}); err != nil {
		return err
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	prompter := tui.NewPrompter()
	application, err := app.Bootstrap(ctx, cfg, prompter)
	if err != nil {
		return err
	}
	defer application.Shutdown()

	model := tui.NewApp(ctx, application.Stores, editor.NewOpener(application.Stores.Settings))
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	prompter.Attach(p)

	_, err = p.Run()
	return err
}
