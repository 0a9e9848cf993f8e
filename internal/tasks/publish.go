package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/freebeats/internal/models"
	"github.com/desertthunder/freebeats/internal/shared"
)

// Submission is one publish attempt as collected from the publish form.
type Submission struct {
	Title      string
	Artist     string
	Tags       string // Comma separated
	License    string
	File       *AudioFile
	Authorized bool // The author confirmed they may publish the file
}

// ValidationError is a user-facing rejection of a [Submission].
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Unwrap lets callers match validation failures with [shared.ErrInvalidInput].
func (e *ValidationError) Unwrap() error { return shared.ErrInvalidInput }

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// draft is a submission that passed validation.
type draft struct {
	title   string
	artist  string
	tags    []string
	license models.License
	file    *AudioFile
}

// validate trims and checks sub in form order. It never reads the file.
func (c *Catalog) validate(sub Submission) (*draft, error) {
	d := &draft{
		title:  strings.TrimSpace(sub.Title),
		artist: strings.TrimSpace(sub.Artist),
		tags:   parseTags(sub.Tags, c.maxTags),
		file:   sub.File,
	}

	if d.title == "" {
		return nil, invalid("title", "Title is required.")
	}
	if d.artist == "" {
		return nil, invalid("artist", "Artist is required.")
	}
	if strings.TrimSpace(sub.License) == "" {
		return nil, invalid("license", "Choose a license.")
	}
	license, err := models.ParseLicense(sub.License)
	if err != nil {
		return nil, invalid("license", "Unknown license %q.", strings.TrimSpace(sub.License))
	}
	d.license = license

	if sub.File == nil {
		return nil, invalid("file", "Select an audio file.")
	}
	if !sub.Authorized {
		return nil, invalid("authorized", "You must confirm you are authorized to publish this audio.")
	}
	if !strings.HasPrefix(strings.ToLower(sub.File.Type), AudioPrefix) {
		return nil, invalid("file", "Select a valid audio file (got %q).", sub.File.Type)
	}
	if sub.File.Size > c.maxFileSize {
		return nil, invalid("file", "File is too large (max %s).", shared.FormatBytes(c.maxFileSize))
	}

	return d, nil
}

// build encodes the draft's file and assembles the track. Storage is not touched.
func (c *Catalog) build(ctx context.Context, d *draft) (*models.Track, error) {
	embed, err := Embed(ctx, d.file, c.maxFileSize)
	if err != nil {
		return nil, err
	}

	track := &models.Track{
		ID:         c.newID(),
		Title:      d.title,
		Artist:     d.artist,
		Tags:       d.tags,
		License:    d.license,
		CreatedAt:  c.now().UTC(),
		AudioEmbed: embed,
		FileName:   d.file.Name,
		FileType:   d.file.Type,
		FileSize:   d.file.Size,
	}
	if err := track.Validate(); err != nil {
		return nil, err
	}
	return track, nil
}

// Check runs the publish validation without reading the file or touching storage.
func (c *Catalog) Check(sub Submission) error {
	_, err := c.validate(sub)
	return err
}

// Publish validates sub, embeds its audio and appends the new track to the catalog.
//
// Validation failures return a [*ValidationError] before the file is read. Read failures wrap
// [shared.ErrFileRead]. A catalog that cannot be read is never overwritten. In all three cases the catalog is
// unchanged.
func (c *Catalog) Publish(ctx context.Context, sub Submission, progress chan<- ProgressUpdate) (*models.Track, error) {
	sendProgress(progress, validateUpdate(strings.TrimSpace(sub.Title)))
	d, err := c.validate(sub)
	if err != nil {
		c.logger.Debug("publish rejected", "error", err)
		return nil, err
	}

	sendProgress(progress, encodeUpdate(d.file))
	track, err := c.build(ctx, d)
	if err != nil {
		c.logger.Warn("publish failed", "file", d.file.Name, "error", err)
		return nil, err
	}

	sendProgress(progress, persistUpdate(track))
	tracks, err := c.repo.LoadForUpdate(ctx)
	if err != nil {
		c.logger.Warn("publish aborted, catalog unreadable", "error", err)
		return nil, err
	}
	tracks = append(tracks, *track)
	if err := c.repo.Save(ctx, tracks); err != nil {
		return nil, err
	}

	c.logger.Info("track published", "id", track.ID, "title", track.Title, "size", track.FileSize)
	return track, nil
}
