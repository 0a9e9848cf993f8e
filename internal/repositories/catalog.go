package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/freebeats/internal/models"
	"github.com/desertthunder/freebeats/internal/shared"
)

// StorageKey is the default key holding the serialized catalog.
const StorageKey = "freebeats_tracks_v1"

// CatalogRepository loads, saves and clears the whole track collection as one blob.
//
// There is no cached state: every Load reads the store again.
type CatalogRepository struct {
	store  Store
	key    string
	logger *log.Logger
}

// NewCatalogRepository creates a CatalogRepository over store. An empty key uses [StorageKey].
func NewCatalogRepository(store Store, key string, logger *log.Logger) *CatalogRepository {
	if key == "" {
		key = StorageKey
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &CatalogRepository{store: store, key: key, logger: logger}
}

// Key returns the storage key the catalog is kept under.
func (r *CatalogRepository) Key() string {
	return r.key
}

// Load returns every persisted track.
//
// Absent, unreadable or malformed data (including JSON that is not an array) yields an empty catalog.
func (r *CatalogRepository) Load(ctx context.Context) []models.Track {
	tracks, err := r.LoadForUpdate(ctx)
	if err != nil {
		r.logger.Debug("catalog read failed, treating as empty", "key", r.key, "error", err)
		return []models.Track{}
	}
	return tracks
}

// LoadForUpdate returns every persisted track ahead of a write.
//
// Absent or malformed data still yields an empty catalog, but a failed store read is returned so that callers do
// not overwrite tracks they could not see.
func (r *CatalogRepository) LoadForUpdate(ctx context.Context) ([]models.Track, error) {
	raw, ok, err := r.store.GetItem(ctx, r.key)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read catalog: %w", shared.ErrStorageUnavailable, err)
	}
	if !ok || raw == "" {
		return []models.Track{}, nil
	}

	var tracks []models.Track
	if err := json.Unmarshal([]byte(raw), &tracks); err != nil {
		r.logger.Debug("catalog blob is corrupt, treating as empty", "key", r.key, "error", err)
		return []models.Track{}, nil
	}
	if tracks == nil {
		// "null" decodes without error
		return []models.Track{}, nil
	}
	return tracks, nil
}

// Save overwrites the persisted catalog with tracks.
func (r *CatalogRepository) Save(ctx context.Context, tracks []models.Track) error {
	if tracks == nil {
		tracks = []models.Track{}
	}

	data, err := json.Marshal(tracks)
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}

	if err := r.store.SetItem(ctx, r.key, string(data)); err != nil {
		return fmt.Errorf("failed to save catalog: %w", err)
	}
	return nil
}

// Clear removes the persisted catalog entirely.
func (r *CatalogRepository) Clear(ctx context.Context) error {
	if err := r.store.RemoveItem(ctx, r.key); err != nil {
		return fmt.Errorf("failed to clear catalog: %w", err)
	}
	return nil
}
