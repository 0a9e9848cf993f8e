package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/freebeats/internal/shared"
	"github.com/desertthunder/freebeats/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive catalog browser.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/freebeats-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	fileLogger.SetLevel(r.logger.GetLevel())
	r.SetLogger(fileLogger)

	catalog, err := r.openCatalog(cmd)
	if err != nil {
		return err
	}
	p, err := r.openPlayer(cmd)
	if err != nil {
		return err
	}

	if err := ui.Run(ctx, catalog, p); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
