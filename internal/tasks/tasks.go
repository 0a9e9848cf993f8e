// package tasks implements catalog operations: browsing, publishing, deletion and bulk import.
package tasks

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/freebeats/internal/models"
	"github.com/desertthunder/freebeats/internal/shared"
)

// DefaultMaxFileSize is the largest audio file accepted for publishing (6 MB).
const DefaultMaxFileSize int64 = 6 * 1024 * 1024

// Repository is the persistence the catalog needs: whole-collection load, save and clear.
//
// Load is lenient and serves reads. LoadForUpdate reports store failures and is used before every Save.
//
// Implemented by repositories.CatalogRepository.
type Repository interface {
	Load(ctx context.Context) []models.Track
	LoadForUpdate(ctx context.Context) ([]models.Track, error)
	Save(ctx context.Context, tracks []models.Track) error
	Clear(ctx context.Context) error
}

// Confirmer asks the user to approve an irreversible action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to [Confirmer].
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) { return f(ctx, prompt) }

// ClearPrompt is the question asked before wiping the catalog.
const ClearPrompt = "This deletes every track saved in this profile. Continue?"

// Catalog implements the catalog operations over an injected [Repository].
//
// Every operation reloads the collection; nothing is cached between calls.
type Catalog struct {
	repo        Repository
	logger      *log.Logger
	now         func() time.Time
	newID       func() string
	maxFileSize int64
	maxTags     int
}

// CatalogOpts contains configuration options for creating a Catalog.
type CatalogOpts struct {
	Repo        Repository
	Logger      *log.Logger
	Now         func() time.Time // Clock for createdAt (default: time.Now)
	NewID       func() string    // ID generator (default: shared.GenerateID)
	MaxFileSize int64            // Upload cap in bytes (default: DefaultMaxFileSize)
	MaxTags     int              // Tag cap, never above models.MaxTags
}

// NewCatalog creates a new Catalog with the provided configuration
func NewCatalog(opts CatalogOpts) *Catalog {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = shared.GenerateID
	}
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = DefaultMaxFileSize
	}
	if opts.MaxTags <= 0 || opts.MaxTags > models.MaxTags {
		opts.MaxTags = models.MaxTags
	}

	return &Catalog{
		repo:        opts.Repo,
		logger:      opts.Logger,
		now:         opts.Now,
		newID:       opts.NewID,
		maxFileSize: opts.MaxFileSize,
		maxTags:     opts.MaxTags,
	}
}

// MaxFileSize returns the upload cap in bytes.
func (c *Catalog) MaxFileSize() int64 { return c.maxFileSize }

// All returns every persisted track, unordered.
func (c *Catalog) All(ctx context.Context) []models.Track {
	return c.repo.Load(ctx)
}

// Browse returns tracks matching query and tag, newest first.
func (c *Catalog) Browse(ctx context.Context, query, tag string) []models.Track {
	return Browse(c.repo.Load(ctx), query, tag)
}

// Tags returns the alphabetical tag vocabulary of the catalog.
func (c *Catalog) Tags(ctx context.Context) []string {
	return DistinctTags(c.repo.Load(ctx))
}

// Get returns the track with id.
func (c *Catalog) Get(ctx context.Context, id string) (models.Track, error) {
	for _, t := range c.repo.Load(ctx) {
		if t.ID == id {
			return t, nil
		}
	}
	return models.Track{}, fmt.Errorf("%w: %s", shared.ErrTrackNotFound, id)
}

// Remove deletes the track with id and persists the remainder.
//
// An unknown id is a no-op: it reports false and does not write.
func (c *Catalog) Remove(ctx context.Context, id string) (bool, error) {
	tracks, err := c.repo.LoadForUpdate(ctx)
	if err != nil {
		return false, err
	}
	next := make([]models.Track, 0, len(tracks))
	for _, t := range tracks {
		if t.ID != id {
			next = append(next, t)
		}
	}

	if len(next) == len(tracks) {
		c.logger.Debug("remove: track not found", "id", id)
		return false, nil
	}

	if err := c.repo.Save(ctx, next); err != nil {
		return false, err
	}
	c.logger.Info("track removed", "id", id)
	return true, nil
}

// ClearAll deletes the whole catalog once confirm accepts [ClearPrompt].
//
// Declining returns [shared.ErrCancelled] and leaves storage untouched.
func (c *Catalog) ClearAll(ctx context.Context, confirm Confirmer) error {
	if confirm == nil {
		return fmt.Errorf("%w: clearing the catalog requires confirmation", shared.ErrCancelled)
	}

	ok, err := confirm.Confirm(ctx, ClearPrompt)
	if err != nil {
		return fmt.Errorf("confirmation failed: %w", err)
	}
	if !ok {
		return shared.ErrCancelled
	}

	if err := c.repo.Clear(ctx); err != nil {
		return err
	}
	c.logger.Info("catalog cleared")
	return nil
}
