// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"testing"
	"time"

	"github.com/desertthunder/freebeats/internal/models"
)

// ErrStoreDown is returned by every [FailingStore] operation.
var ErrStoreDown = errors.New("store down")

// FailingStore is a key/value store whose every operation fails with [ErrStoreDown].
type FailingStore struct{}

func (FailingStore) GetItem(context.Context, string) (string, bool, error) {
	return "", false, ErrStoreDown
}
func (FailingStore) SetItem(context.Context, string, string) error { return ErrStoreDown }
func (FailingStore) RemoveItem(context.Context, string) error      { return ErrStoreDown }

// KeyValueStore is the store shape shared by every catalog backend.
type KeyValueStore interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// ReadFailingStore wraps a store and fails reads with [ErrStoreDown] while FailReads is set. Writes pass through
// and are counted.
type ReadFailingStore struct {
	KeyValueStore
	FailReads bool
	Writes    int
}

func (s *ReadFailingStore) GetItem(ctx context.Context, key string) (string, bool, error) {
	if s.FailReads {
		return "", false, ErrStoreDown
	}
	return s.KeyValueStore.GetItem(ctx, key)
}

func (s *ReadFailingStore) SetItem(ctx context.Context, key, value string) error {
	s.Writes++
	return s.KeyValueStore.SetItem(ctx, key, value)
}

func (s *ReadFailingStore) RemoveItem(ctx context.Context, key string) error {
	s.Writes++
	return s.KeyValueStore.RemoveItem(ctx, key)
}

// Epoch is the reference publish time used by [NewTrack].
var Epoch = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

// NewTrack builds a valid track published age before [Epoch], with a tiny embedded payload.
func NewTrack(id, title, artist string, license models.License, age time.Duration, tags ...string) models.Track {
	if tags == nil {
		tags = []string{}
	}
	return models.Track{
		ID:         id,
		Title:      title,
		Artist:     artist,
		Tags:       tags,
		License:    license,
		CreatedAt:  Epoch.Add(-age),
		AudioEmbed: "data:audio/mpeg;base64,SUQz",
		FileName:   fmt.Sprintf("%s.mp3", id),
		FileType:   "audio/mpeg",
		FileSize:   3,
	}
}

// SampleTracks returns n distinct tracks, newest first.
func SampleTracks(n int) []models.Track {
	tracks := make([]models.Track, 0, n)
	for i := range n {
		tracks = append(tracks, NewTrack(
			fmt.Sprintf("track-%d", i+1),
			fmt.Sprintf("Song %d", i+1),
			fmt.Sprintf("Artist %d", i+1),
			models.LicenseCC0,
			time.Duration(i)*time.Hour,
			"demo",
		))
	}
	return tracks
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertFileMissing(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("File should not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func MustWriteFile(t *testing.T, path string, data []byte) string {
	t.Helper()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
	return path
}
