package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ranggacaw/satanlib/internal/shared"
	"github.com/ranggacaw/satanlib/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal browser.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.library == nil {
		return fmt.Errorf("%w: library service not initialized", shared.ErrServiceUnavailable)
	}

	store, err := r.session()
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	logPath := filepath.Join("tmp", "satanlib-tui.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()
	r.SetLogger(shared.NewLogger(logFile))

	model := ui.NewModel(ctx, r.library, r.engine, store)
	defer model.Close()
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
