// package models defines the data model for the track catalog
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/freebeats/internal/shared"
)

// MaxTags is the maximum number of tags a track may carry.
const MaxTags = 12

// Track is a single published audio entry with metadata and embedded audio.
type Track struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Artist     string    `json:"artist"`
	Tags       []string  `json:"tags"`
	License    License   `json:"license"`
	CreatedAt  time.Time `json:"createdAt"`
	AudioEmbed string    `json:"audioEmbed"`
	FileName   string    `json:"fileName"`
	FileType   string    `json:"fileType"`
	FileSize   int64     `json:"fileSize"`
}

// Validate checks the invariants every persisted track must satisfy.
func (t Track) Validate() error {
	switch {
	case t.ID == "":
		return fmt.Errorf("%w: track id is required", shared.ErrInvalidInput)
	case strings.TrimSpace(t.Title) == "":
		return fmt.Errorf("%w: title is required", shared.ErrInvalidInput)
	case strings.TrimSpace(t.Artist) == "":
		return fmt.Errorf("%w: artist is required", shared.ErrInvalidInput)
	case t.License == "":
		return fmt.Errorf("%w: license is required", shared.ErrInvalidInput)
	case t.CreatedAt.IsZero():
		return fmt.Errorf("%w: createdAt is required", shared.ErrInvalidInput)
	case len(t.Tags) > MaxTags:
		return fmt.Errorf("%w: %d tags exceeds the limit of %d", shared.ErrInvalidInput, len(t.Tags), MaxTags)
	}
	return nil
}

// HasTag reports whether tag is one of the track's tags (exact match).
func (t Track) HasTag(tag string) bool {
	for _, existing := range t.Tags {
		if existing == tag {
			return true
		}
	}
	return false
}

// Haystack is the text searched by free-text queries: title, artist, license and tags joined by spaces.
func (t Track) Haystack() string {
	parts := make([]string, 0, 3+len(t.Tags))
	parts = append(parts, t.Title, t.Artist, string(t.License))
	parts = append(parts, t.Tags...)
	return strings.Join(parts, " ")
}
