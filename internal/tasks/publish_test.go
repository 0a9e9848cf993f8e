package tasks

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/freebeats/internal/models"
	"github.com/desertthunder/freebeats/internal/repositories"
	"github.com/desertthunder/freebeats/internal/shared"
)

// newTestCatalog returns a Catalog over a fresh [repositories.MemoryStore] with a fixed clock and IDs.
func newTestCatalog(t *testing.T) (*Catalog, *repositories.MemoryStore) {
	t.Helper()
	store := repositories.NewMemoryStore()
	n := 0
	catalog := NewCatalog(CatalogOpts{
		Repo: repositories.NewCatalogRepository(store, "", nil),
		Now:  func() time.Time { return baseTime },
		NewID: func() string {
			n++
			return "generated-" + string(rune('0'+n))
		},
	})
	return catalog, store
}

// trackedFile is an [AudioFile] that records whether its contents were opened.
func trackedFile(name, mediaType string, size int, opened *bool) *AudioFile {
	data := bytes.Repeat([]byte{0xAB}, size)
	return &AudioFile{
		Name: name,
		Type: mediaType,
		Size: int64(size),
		Open: func() (io.ReadCloser, error) {
			*opened = true
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

func validSubmission(file *AudioFile) Submission {
	return Submission{
		Title:      "Night Drive",
		Artist:     "DJ Nova",
		Tags:       "synth, retro",
		License:    "CC0",
		File:       file,
		Authorized: true,
	}
}

func TestPublish_Success(t *testing.T) {
	ctx := context.Background()
	catalog, store := newTestCatalog(t)

	var opened bool
	file := trackedFile("night-drive.mp3", "audio/mpeg", 2*1024*1024, &opened)

	track, err := catalog.Publish(ctx, validSubmission(file), nil)
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	if !opened {
		t.Error("expected the file to be read")
	}
	if track.ID != "generated-1" {
		t.Errorf("expected generated id, got %q", track.ID)
	}
	if !track.CreatedAt.Equal(baseTime) {
		t.Errorf("expected createdAt %v, got %v", baseTime, track.CreatedAt)
	}
	if track.Title != "Night Drive" || track.Artist != "DJ Nova" || track.License != models.LicenseCC0 {
		t.Errorf("unexpected track fields: %+v", track)
	}
	if len(track.Tags) != 2 || track.Tags[0] != "synth" || track.Tags[1] != "retro" {
		t.Errorf("unexpected tags: %v", track.Tags)
	}
	if track.FileName != "night-drive.mp3" || track.FileType != "audio/mpeg" || track.FileSize != 2*1024*1024 {
		t.Errorf("unexpected file metadata: %s %s %d", track.FileName, track.FileType, track.FileSize)
	}
	if !strings.HasPrefix(track.AudioEmbed, "data:audio/mpeg;base64,") {
		t.Errorf("unexpected embed prefix: %.40s", track.AudioEmbed)
	}

	all := catalog.All(ctx)
	if len(all) != 1 || all[0].ID != track.ID {
		t.Fatalf("expected catalog to hold the new track, got %v", ids(all))
	}
	if store.Writes() != 1 {
		t.Errorf("expected exactly one storage write, got %d", store.Writes())
	}
}

func TestPublish_AppendsToExistingCatalog(t *testing.T) {
	ctx := context.Background()
	catalog, _ := newTestCatalog(t)

	var opened bool
	for i := 0; i < 3; i++ {
		if _, err := catalog.Publish(ctx, validSubmission(trackedFile("a.mp3", "audio/mpeg", 10, &opened)), nil); err != nil {
			t.Fatalf("Publish() #%d error = %v", i, err)
		}
	}

	if n := len(catalog.All(ctx)); n != 3 {
		t.Errorf("expected 3 tracks, got %d", n)
	}
}

func TestPublish_UnreadableCatalogIsNotOverwritten(t *testing.T) {
	ctx := context.Background()
	catalog, store := unreadableCatalog(t)

	var opened bool
	track, err := catalog.Publish(ctx, validSubmission(trackedFile("a.mp3", "audio/mpeg", 10, &opened)), nil)
	if !errors.Is(err, shared.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
	if track != nil {
		t.Errorf("expected no track, got %+v", track)
	}
	if store.Writes != 0 {
		t.Errorf("expected no writes, got %d", store.Writes)
	}

	store.FailReads = false
	if n := len(catalog.All(ctx)); n != 4 {
		t.Errorf("expected the 4 existing tracks to survive, got %d", n)
	}
}

func TestPublish_ValidationFailures(t *testing.T) {
	tc := []struct {
		name      string
		mutate    func(*Submission)
		wantField string
	}{
		{name: "blank title", mutate: func(s *Submission) { s.Title = "   " }, wantField: "title"},
		{name: "blank artist", mutate: func(s *Submission) { s.Artist = "" }, wantField: "artist"},
		{name: "missing license", mutate: func(s *Submission) { s.License = "" }, wantField: "license"},
		{name: "unknown license", mutate: func(s *Submission) { s.License = "GPL" }, wantField: "license"},
		{name: "no file", mutate: func(s *Submission) { s.File = nil }, wantField: "file"},
		{name: "unauthorized", mutate: func(s *Submission) { s.Authorized = false }, wantField: "authorized"},
		{name: "not audio", mutate: func(s *Submission) { s.File.Type = "video/mp4" }, wantField: "file"},
		{name: "empty media type", mutate: func(s *Submission) { s.File.Type = "" }, wantField: "file"},
		{name: "oversized", mutate: func(s *Submission) { s.File.Size = 8 * 1024 * 1024 }, wantField: "file"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			catalog, store := newTestCatalog(t)

			var opened bool
			sub := validSubmission(trackedFile("a.mp3", "audio/mpeg", 16, &opened))
			tt.mutate(&sub)

			track, err := catalog.Publish(ctx, sub, nil)
			if err == nil {
				t.Fatalf("expected validation error, got track %+v", track)
			}

			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected *ValidationError, got %T: %v", err, err)
			}
			if vErr.Field != tt.wantField {
				t.Errorf("expected field %q, got %q (%s)", tt.wantField, vErr.Field, vErr.Message)
			}
			if !errors.Is(err, shared.ErrInvalidInput) {
				t.Error("validation errors should match ErrInvalidInput")
			}
			if opened {
				t.Error("file must not be read when validation fails")
			}
			if store.Writes() != 0 {
				t.Errorf("expected no storage writes, got %d", store.Writes())
			}
		})
	}
}

func TestPublish_OversizedFileLeavesCatalogUnchanged(t *testing.T) {
	ctx := context.Background()
	catalog, store := newTestCatalog(t)

	var opened bool
	if _, err := catalog.Publish(ctx, validSubmission(trackedFile("ok.mp3", "audio/mpeg", 32, &opened)), nil); err != nil {
		t.Fatalf("seed Publish() error = %v", err)
	}
	writes := store.Writes()

	opened = false
	big := trackedFile("big.mp3", "audio/mpeg", 8*1024*1024, &opened)
	if _, err := catalog.Publish(ctx, validSubmission(big), nil); err == nil {
		t.Fatal("expected 8MB file to be rejected")
	}

	if opened {
		t.Error("oversized file should be rejected before it is read")
	}
	if store.Writes() != writes {
		t.Error("rejected publish must not write storage")
	}
	if n := len(catalog.All(ctx)); n != 1 {
		t.Errorf("expected catalog to keep 1 track, got %d", n)
	}
}

func TestPublish_FileReadFailure(t *testing.T) {
	ctx := context.Background()
	catalog, store := newTestCatalog(t)

	file := &AudioFile{
		Name: "broken.mp3",
		Type: "audio/mpeg",
		Size: 10,
		Open: func() (io.ReadCloser, error) { return nil, errors.New("permission denied") },
	}

	_, err := catalog.Publish(ctx, validSubmission(file), nil)
	if !errors.Is(err, shared.ErrFileRead) {
		t.Fatalf("expected ErrFileRead, got %v", err)
	}
	if store.Writes() != 0 {
		t.Error("failed read must not write storage")
	}
}

func TestPublish_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	catalog, store := newTestCatalog(t)

	var opened bool
	_, err := catalog.Publish(ctx, validSubmission(trackedFile("a.mp3", "audio/mpeg", 64, &opened)), nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if store.Writes() != 0 {
		t.Error("cancelled publish must not write storage")
	}
}

func TestPublish_ProgressUpdates(t *testing.T) {
	catalog, _ := newTestCatalog(t)
	progress := make(chan ProgressUpdate, 10)

	var opened bool
	if _, err := catalog.Publish(context.Background(), validSubmission(trackedFile("a.mp3", "audio/mpeg", 8, &opened)), progress); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	close(progress)

	var phases []Phase
	for u := range progress {
		phases = append(phases, u.Phase)
	}
	want := []Phase{ValidateSubmission, EncodeAudio, PersistCatalog}
	if len(phases) != len(want) {
		t.Fatalf("expected phases %v, got %v", want, phases)
	}
	for i := range want {
		if phases[i] != want[i] {
			t.Errorf("phase %d = %v, want %v", i, phases[i], want[i])
		}
	}
}

func TestPublish_TagCapFromOptions(t *testing.T) {
	catalog := NewCatalog(CatalogOpts{
		Repo:    repositories.NewCatalogRepository(repositories.NewMemoryStore(), "", nil),
		MaxTags: 2,
	})

	var opened bool
	sub := validSubmission(trackedFile("a.mp3", "audio/mpeg", 8, &opened))
	sub.Tags = "one, two, three"

	track, err := catalog.Publish(context.Background(), sub, nil)
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if len(track.Tags) != 2 {
		t.Errorf("expected 2 tags, got %v", track.Tags)
	}
}

func TestCheck(t *testing.T) {
	catalog, _ := newTestCatalog(t)

	var opened bool
	sub := validSubmission(trackedFile("a.mp3", "audio/mpeg", 8, &opened))
	if err := catalog.Check(sub); err != nil {
		t.Errorf("Check() error = %v", err)
	}

	sub.Authorized = false
	if err := catalog.Check(sub); err == nil {
		t.Error("expected Check() to reject unauthorized submission")
	}
	if opened {
		t.Error("Check() must not read the file")
	}
}
