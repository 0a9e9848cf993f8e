package tasks

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/freebeats/internal/shared"
	"github.com/dhowden/tag"
)

// FileMetadata holds the descriptive tags embedded in an audio file.
type FileMetadata struct {
	Title  string
	Artist string
	Genre  string
}

// ReadMetadata reads ID3/MP4/FLAC/OGG tags from the file at path.
//
// A file without tags yields empty metadata and no error.
func ReadMetadata(path string) (FileMetadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return FileMetadata{}, fmt.Errorf("%w: %w", shared.ErrFileRead, err)
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if errors.Is(err, tag.ErrNoTagsFound) {
		return FileMetadata{}, nil
	}
	if err != nil {
		return FileMetadata{}, fmt.Errorf("failed to read tags from %s: %w", filepath.Base(path), err)
	}

	artist := m.Artist()
	if artist == "" {
		artist = m.AlbumArtist()
	}
	return FileMetadata{
		Title:  strings.TrimSpace(m.Title()),
		Artist: strings.TrimSpace(artist),
		Genre:  strings.TrimSpace(m.Genre()),
	}, nil
}

// ApplyMetadata fills the submission's blank title, artist and tags from meta.
func (s *Submission) ApplyMetadata(meta FileMetadata) {
	if strings.TrimSpace(s.Title) == "" {
		s.Title = meta.Title
	}
	if strings.TrimSpace(s.Artist) == "" {
		s.Artist = meta.Artist
	}
	if strings.TrimSpace(s.Tags) == "" && meta.Genre != "" {
		s.Tags = meta.Genre
	}
}

// titleFromFileName derives a fallback title from a file name ("night_drive.mp3" -> "night drive").
func titleFromFileName(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	return strings.Join(strings.Fields(base), " ")
}
