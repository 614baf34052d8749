package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/photobook/internal/shared"
	"github.com/desertthunder/photobook/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal photobook.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Log.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	if err := shared.SetLogLevelString(fileLogger, r.config.Log.Level); err != nil {
		return err
	}
	r.SetLogger(fileLogger)

	b, err := r.openBook(ctx)
	if err != nil {
		return err
	}

	model := ui.NewModel(ctx, b, ui.Options{
		FlipDelay:  r.config.Book.FlipDelay(),
		CloseDelay: r.config.Book.CloseDelay(),
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
