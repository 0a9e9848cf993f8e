package tasks

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/desertthunder/freebeats/internal/repositories"
	"github.com/desertthunder/freebeats/internal/shared"
)

func TestFindAudioFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.mp3", []byte("x"))
	writeFile(t, dir, "a.wav", []byte("x"))
	writeFile(t, dir, "cover.jpg", []byte("x"))
	writeFile(t, dir, filepath.Join("nested", "c.flac"), []byte("x"))

	paths, err := FindAudioFiles(dir)
	if err != nil {
		t.Fatalf("FindAudioFiles() error = %v", err)
	}

	want := []string{
		filepath.Join(dir, "a.wav"),
		filepath.Join(dir, "b.mp3"),
		filepath.Join(dir, "nested", "c.flac"),
	}
	if len(paths) != len(want) {
		t.Fatalf("FindAudioFiles() = %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], want[i])
		}
	}

	if _, err := FindAudioFiles(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestCatalog_Import(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store := repositories.NewMemoryStore()
	catalog := NewCatalog(CatalogOpts{
		Repo:        repositories.NewCatalogRepository(store, "", nil),
		MaxFileSize: 1024,
	})

	tagged := writeFile(t, dir, "tagged.mp3", id3v23(map[string]string{"TIT2": "Night Drive", "TPE1": "DJ Nova"}))
	plain := writeFile(t, dir, "city_lights.wav", make([]byte, 256))
	big := writeFile(t, dir, "huge.mp3", make([]byte, 2048))

	progress := make(chan ProgressUpdate, 10)
	result, err := catalog.Import(ctx, progress, []string{tagged, plain, big}, ImportOpts{
		License:    "cc-by",
		Tags:       "synth, retro",
		Artist:     "Various",
		Authorized: true,
		NumWorkers: 2,
		RateLimit:  1000,
	})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	if result.Total != 3 || result.Imported != 2 || result.Failed != 1 {
		t.Fatalf("unexpected totals: %+v", result)
	}
	if store.Writes() != 1 {
		t.Errorf("expected a single catalog write, got %d", store.Writes())
	}

	byPath := make(map[string]ImportResult)
	for _, r := range result.Results {
		byPath[r.Path] = r
	}

	if r := byPath[tagged]; r.Error != nil || r.Track.Title != "Night Drive" || r.Track.Artist != "DJ Nova" {
		t.Errorf("tagged file: unexpected result %+v", r)
	}
	if r := byPath[plain]; r.Error != nil || r.Track.Title != "city lights" || r.Track.Artist != "Various" {
		t.Errorf("plain file: unexpected result %+v", r)
	}
	if r := byPath[big]; r.Error == nil {
		t.Error("oversized file should fail")
	} else {
		var vErr *ValidationError
		if !errors.As(r.Error, &vErr) || vErr.Field != "file" {
			t.Errorf("expected file validation error, got %v", r.Error)
		}
	}

	tracks := catalog.All(ctx)
	if len(tracks) != 2 {
		t.Fatalf("expected 2 persisted tracks, got %d", len(tracks))
	}
	for _, tr := range tracks {
		if string(tr.License) != "CC-BY" {
			t.Errorf("expected CC-BY license, got %q", tr.License)
		}
		if len(tr.Tags) != 2 {
			t.Errorf("expected tags applied, got %v", tr.Tags)
		}
	}

	close(progress)
	n := 0
	for u := range progress {
		if u.Phase != ImportFiles {
			t.Errorf("unexpected phase %v", u.Phase)
		}
		n++
	}
	if n != 3 {
		t.Errorf("expected 3 progress updates, got %d", n)
	}
}

func TestCatalog_ImportRejectsBatch(t *testing.T) {
	tc := []struct {
		name      string
		opts      ImportOpts
		wantField string
	}{
		{name: "unauthorized", opts: ImportOpts{License: "CC0"}, wantField: "authorized"},
		{name: "bad license", opts: ImportOpts{License: "MIT", Authorized: true}, wantField: "license"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			store := repositories.NewMemoryStore()
			catalog := NewCatalog(CatalogOpts{Repo: repositories.NewCatalogRepository(store, "", nil)})

			_, err := catalog.Import(context.Background(), nil, []string{"/does/not/matter.mp3"}, tt.opts)

			var vErr *ValidationError
			if !errors.As(err, &vErr) || vErr.Field != tt.wantField {
				t.Fatalf("expected %s validation error, got %v", tt.wantField, err)
			}
			if !errors.Is(err, shared.ErrInvalidInput) {
				t.Error("expected ErrInvalidInput")
			}
			if store.Writes() != 0 {
				t.Error("rejected batch must not write storage")
			}
		})
	}
}

func TestCatalog_ImportUnreadableCatalog(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	catalog, store := unreadableCatalog(t)

	path := writeFile(t, dir, "night_drive.mp3", make([]byte, 64))
	result, err := catalog.Import(ctx, nil, []string{path}, ImportOpts{
		License:    "CC0",
		Artist:     "Various",
		Authorized: true,
	})
	if !errors.Is(err, shared.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
	if result == nil || result.Imported != 1 {
		t.Errorf("expected per-file results to be reported, got %+v", result)
	}
	if store.Writes != 0 {
		t.Errorf("expected no writes, got %d", store.Writes)
	}

	store.FailReads = false
	if n := len(catalog.All(ctx)); n != 4 {
		t.Errorf("expected the 4 existing tracks to survive, got %d", n)
	}
}

func TestCatalog_ImportEmpty(t *testing.T) {
	store := repositories.NewMemoryStore()
	catalog := NewCatalog(CatalogOpts{Repo: repositories.NewCatalogRepository(store, "", nil)})

	result, err := catalog.Import(context.Background(), nil, nil, ImportOpts{License: "CC0", Authorized: true})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if result.Total != 0 || store.Writes() != 0 {
		t.Errorf("expected empty result without writes, got %+v (writes %d)", result, store.Writes())
	}
}
