package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/freebeats/internal/shared"
	"github.com/desertthunder/freebeats/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Import publishes every audio file under the dir argument.
func (r *Runner) Import(ctx context.Context, cmd *cli.Command) error {
	dir := strings.TrimSpace(cmd.StringArg("dir"))
	if dir == "" {
		return fmt.Errorf("%w: directory", shared.ErrMissingArgument)
	}

	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}
	catalog, err := r.openCatalog(cmd)
	if err != nil {
		return err
	}

	paths, err := tasks.FindAudioFiles(dir)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return r.writePlain("No audio files found in %s\n", dir)
	}

	workers := int(cmd.Int("workers"))
	if workers <= 0 {
		workers = config.Import.Workers
	}

	r.logger.Info("starting import", "dir", dir, "files", len(paths), "workers", workers)
	r.writePlain("Importing %d files from %s...\n\n", len(paths), dir)

	progressCh := make(chan tasks.ProgressUpdate, len(paths))
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			r.writePlain("  %s\n", update.Message)
		}
	}()

	result, err := catalog.Import(ctx, progressCh, paths, tasks.ImportOpts{
		License:    cmd.String("license"),
		Tags:       cmd.String("tags"),
		Artist:     cmd.String("artist"),
		Authorized: cmd.Bool("authorize"),
		NumWorkers: workers,
		RateLimit:  config.Import.RateLimit,
	})
	close(progressCh)
	<-done

	if err != nil && result == nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Import Complete")
	r.writePlain("Imported: %d/%d\n", result.Imported, result.Total)

	if result.Failed > 0 {
		r.writePlain("\nFailed %d files:\n", result.Failed)
		for _, res := range result.Results {
			if res.Error != nil {
				r.writePlain("  - %s: %v\n", res.Path, res.Error)
			}
		}
	}

	return err
}
