package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/freebeats/internal/formatter"
	"github.com/desertthunder/freebeats/internal/models"
	"github.com/desertthunder/freebeats/internal/shared"
	"github.com/desertthunder/freebeats/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Publish validates the flags, embeds the audio file and appends the new track.
func (r *Runner) Publish(ctx context.Context, cmd *cli.Command) error {
	catalog, err := r.openCatalog(cmd)
	if err != nil {
		return err
	}

	path := cmd.String("file")
	sub := tasks.Submission{
		Title:      cmd.String("title"),
		Artist:     cmd.String("artist"),
		Tags:       cmd.String("tags"),
		License:    cmd.String("license"),
		Authorized: cmd.Bool("authorize"),
	}

	file, fileErr := tasks.FileFromPath(path, cmd.String("type"))
	if fileErr != nil {
		// fields ahead of the file are reported first
		if err := catalog.Check(sub); err != nil && !isFileError(err) {
			return invalidArgument(err)
		}
		return fileErr
	}
	sub.File = file

	if cmd.Bool("from-tags") {
		meta, err := tasks.ReadMetadata(path)
		if err != nil {
			r.logger.Warn("could not read embedded tags", "file", path, "error", err)
		} else {
			sub.ApplyMetadata(meta)
		}
	}

	progressCh := make(chan tasks.ProgressUpdate, 10)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			r.logger.Debug(update.Message, "phase", update.Phase, "step", update.Step, "total", update.Total)
		}
	}()

	track, err := catalog.Publish(ctx, sub, progressCh)
	close(progressCh)
	<-done

	if err != nil {
		return invalidArgument(err)
	}

	if cmd.Bool("json") {
		data, err := formatter.ToSummaryJSON([]models.Track{*track}, true)
		if err != nil {
			return err
		}
		return r.writeRaw(data)
	}

	r.writePlain("✓ Published\n\n")
	r.writePlain("%s", formatter.Card(*track))
	return nil
}

// invalidArgument reports a validation failure as a bad flag value. Other errors pass through.
func invalidArgument(err error) error {
	var vErr *tasks.ValidationError
	if errors.As(err, &vErr) {
		return fmt.Errorf("%w: %s: %s", shared.ErrInvalidArgument, vErr.Field, vErr.Message)
	}
	return err
}

func isFileError(err error) bool {
	var vErr *tasks.ValidationError
	return errors.As(err, &vErr) && vErr.Field == "file"
}

// List prints the tracks matching --query and --tag, newest first.
func (r *Runner) List(ctx context.Context, cmd *cli.Command) error {
	catalog, err := r.openCatalog(cmd)
	if err != nil {
		return err
	}

	query := cmd.String("query")
	tag := cmd.String("tag")
	tracks := catalog.Browse(ctx, query, tag)

	if cmd.Bool("json") {
		data, err := formatter.ToSummaryJSON(tracks, cmd.Bool("pretty"))
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return r.writeRaw(data)
	}

	if len(tracks) == 0 {
		if query != "" || tag != "" {
			return r.writePlain("No tracks match the current filters.\n")
		}
		return r.writePlain("No tracks yet. Publish one with 'freebeats publish'.\n")
	}

	r.writePlainHeader(fmt.Sprintf("%d tracks", len(tracks)))
	for _, track := range tracks {
		r.writePlain("\n%s", formatter.Card(track))
	}
	return nil
}

// Tags prints the tag vocabulary, one per line.
func (r *Runner) Tags(ctx context.Context, cmd *cli.Command) error {
	catalog, err := r.openCatalog(cmd)
	if err != nil {
		return err
	}

	for _, tag := range catalog.Tags(ctx) {
		r.writePlain("%s\n", tag)
	}
	return nil
}

// Remove deletes the track named by the id argument.
func (r *Runner) Remove(ctx context.Context, cmd *cli.Command) error {
	id := strings.TrimSpace(cmd.StringArg("id"))
	if id == "" {
		return fmt.Errorf("%w: track id", shared.ErrMissingArgument)
	}

	catalog, err := r.openCatalog(cmd)
	if err != nil {
		return err
	}

	removed, err := catalog.Remove(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return r.writePlain("No track with id %s; catalog unchanged.\n", id)
	}
	return r.writePlain("✓ Removed %s\n", id)
}

// Clear deletes every track after confirmation (or --yes).
func (r *Runner) Clear(ctx context.Context, cmd *cli.Command) error {
	catalog, err := r.openCatalog(cmd)
	if err != nil {
		return err
	}

	var confirm tasks.Confirmer = tasks.ConfirmFunc(r.prompt)
	if cmd.Bool("yes") {
		confirm = tasks.ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })
	}

	if err := catalog.ClearAll(ctx, confirm); err != nil {
		if errors.Is(err, shared.ErrCancelled) {
			return r.writePlain("Cancelled; nothing was deleted.\n")
		}
		return err
	}
	return r.writePlain("✓ Catalog cleared\n")
}

// prompt asks a yes/no question on the runner's input.
func (r *Runner) prompt(_ context.Context, question string) (bool, error) {
	if err := r.writePlain("%s [y/N]: ", question); err != nil {
		return false, err
	}

	line, err := bufio.NewReader(r.input).ReadString('\n')
	if err != nil && line == "" {
		return false, nil
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Export writes the whole catalog, newest first, in the requested format.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	catalog, err := r.openCatalog(cmd)
	if err != nil {
		return err
	}
	tracks := tasks.SortByRecency(catalog.All(ctx))

	output := cmd.String("output")
	if output == "-" {
		data, err := formatter.Export(format, tracks)
		if err != nil {
			return err
		}
		return r.writePlain("%s", data)
	}

	path, err := formatter.WriteExport(format, tracks, output)
	if err != nil {
		return err
	}
	r.logger.Info("catalog exported", "format", format, "tracks", len(tracks), "path", path)
	return r.writePlain("✓ Exported %d tracks to %s\n", len(tracks), path)
}

// Play plays the track named by the id argument and waits for playback to end.
func (r *Runner) Play(ctx context.Context, cmd *cli.Command) error {
	id := strings.TrimSpace(cmd.StringArg("id"))
	if id == "" {
		return fmt.Errorf("%w: track id", shared.ErrMissingArgument)
	}

	catalog, err := r.openCatalog(cmd)
	if err != nil {
		return err
	}
	track, err := catalog.Get(ctx, id)
	if err != nil {
		return err
	}

	p, err := r.openPlayer(cmd)
	if err != nil {
		return err
	}
	if err := p.Play(ctx, track); err != nil {
		return err
	}

	r.writePlain("▶ %s - %s %s\n", track.Artist, track.Title, formatter.LicenseBadge(track.License))
	r.writePlain("  %s\n", track.License.UsageNote())
	return p.Wait(ctx)
}
