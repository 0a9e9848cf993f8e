package ui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/freebeats/internal/models"
	"github.com/desertthunder/freebeats/internal/repositories"
	"github.com/desertthunder/freebeats/internal/tasks"
	th "github.com/desertthunder/freebeats/internal/testing"
)

type fakePlayer struct {
	played  []string
	stopped int
	err     error
}

func (p *fakePlayer) Play(_ context.Context, t models.Track) error {
	if p.err != nil {
		return p.err
	}
	p.played = append(p.played, t.ID)
	return nil
}

func (p *fakePlayer) Stop() { p.stopped++ }

func keyRunes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

// drain runs cmd and feeds every resulting message back into the model until no command remains. Commands that
// do not answer promptly (cursor blinks) are abandoned.
func drain(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	for i := 0; cmd != nil; i++ {
		if i > 20 {
			t.Fatal("command chain did not settle")
		}

		out := make(chan tea.Msg, 1)
		go func(c tea.Cmd) { out <- c() }(cmd)

		var msg tea.Msg
		select {
		case msg = <-out:
		case <-time.After(250 * time.Millisecond):
			return
		}

		if _, ok := msg.(Msg); !ok {
			return
		}
		_, cmd = m.Update(msg)
	}
}

func press(t *testing.T, m *Model, msg tea.KeyMsg) {
	t.Helper()
	_, cmd := m.Update(msg)
	drain(t, m, cmd)
}

func setupModel(t *testing.T, seed []models.Track) (*Model, *repositories.MemoryStore, *fakePlayer) {
	t.Helper()
	store := repositories.NewMemoryStore()
	repo := repositories.NewCatalogRepository(store, "", nil)
	if seed != nil {
		if err := repo.Save(context.Background(), seed); err != nil {
			t.Fatalf("failed to seed: %v", err)
		}
	}

	catalog := tasks.NewCatalog(tasks.CatalogOpts{Repo: repo})
	player := &fakePlayer{}
	m := NewModel(context.Background(), catalog, player)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	drain(t, m, m.Init())
	return m, store, player
}

func seedTracks() []models.Track {
	return []models.Track{
		th.NewTrack("a", "Night Drive", "DJ Nova", models.LicenseCC0, 3*time.Hour, "synth", "retro"),
		th.NewTrack("b", "Morning Dew", "Aurora Lane", models.LicenseCCBY, time.Hour, "ambient"),
		th.NewTrack("c", "City Lights", "DJ Nova", models.LicenseCustom, 2*time.Hour, "synth"),
	}
}

func visibleIDs(m *Model) string {
	ids := make([]string, len(m.visible))
	for i, t := range m.visible {
		ids[i] = t.ID
	}
	return strings.Join(ids, ",")
}

func TestModel_Browse(t *testing.T) {
	m, _, _ := setupModel(t, seedTracks())

	if got := visibleIDs(m); got != "b,c,a" {
		t.Errorf("expected newest first, got %s", got)
	}
	if strings.Join(m.tags, ",") != "ambient,retro,synth" {
		t.Errorf("unexpected tag vocabulary %v", m.tags)
	}
	if !strings.Contains(m.View(), "Morning Dew") {
		t.Error("view should render the selected card")
	}
}

func TestModel_Search(t *testing.T) {
	m, _, _ := setupModel(t, seedTracks())

	press(t, m, keyRunes("/"))
	if !m.searching {
		t.Fatal("expected search mode")
	}
	press(t, m, keyRunes("nova"))
	if got := visibleIDs(m); got != "c,a" {
		t.Errorf("search nova = %s, want c,a", got)
	}

	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.searching {
		t.Error("enter should leave search mode")
	}
	if m.query != "nova" {
		t.Errorf("query should persist, got %q", m.query)
	}

	press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.query != "" || visibleIDs(m) != "b,c,a" {
		t.Errorf("esc should clear filters, got query %q ids %s", m.query, visibleIDs(m))
	}
}

func TestModel_FilterChangeReloadsCatalog(t *testing.T) {
	m, store, _ := setupModel(t, seedTracks())

	// another writer adds a track behind the model
	tracks := append(seedTracks(), th.NewTrack("d", "Desert Wind", "DJ Nova", models.LicenseCC0, 0, "synth"))
	if err := repositories.NewCatalogRepository(store, "", nil).Save(context.Background(), tracks); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	press(t, m, keyRunes("/"))
	press(t, m, keyRunes("dj"))
	if got := visibleIDs(m); got != "d,c,a" {
		t.Errorf("search dj = %s, want d,c,a", got)
	}
	if len(m.tracks) != 4 {
		t.Errorf("expected 4 tracks after reload, got %d", len(m.tracks))
	}

	press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	press(t, m, keyRunes("t"))
	if m.tag != "ambient" || visibleIDs(m) != "b" {
		t.Errorf("tag filter: got tag %q ids %s", m.tag, visibleIDs(m))
	}
}

func TestModel_TagFilter(t *testing.T) {
	m, _, _ := setupModel(t, seedTracks())

	want := []struct{ tag, ids string }{
		{"ambient", "b"},
		{"retro", "a"},
		{"synth", "c,a"},
		{"", "b,c,a"},
	}
	for _, w := range want {
		press(t, m, keyRunes("t"))
		if m.tag != w.tag || visibleIDs(m) != w.ids {
			t.Errorf("tag %q: got tag %q ids %s, want %s", w.tag, m.tag, visibleIDs(m), w.ids)
		}
	}

	// the selected card's chips set the filter
	press(t, m, keyRunes("f"))
	if m.tag != "ambient" {
		t.Errorf("expected chip filter ambient, got %q", m.tag)
	}
}

func TestModel_PublishDialog(t *testing.T) {
	t.Run("publishes and closes", func(t *testing.T) {
		m, store, _ := setupModel(t, nil)
		path := th.MustWriteFile(t, filepath.Join(t.TempDir(), "night-drive.mp3"), []byte("ID3 fake audio"))

		press(t, m, keyRunes("n"))
		if m.view != PublishView {
			t.Fatal("expected publish dialog")
		}

		m.form.inputs[fieldTitle].SetValue("Night Drive")
		m.form.inputs[fieldArtist].SetValue("DJ Nova")
		m.form.inputs[fieldTags].SetValue("synth, retro")
		m.form.inputs[fieldFile].SetValue(path)

		for i := 0; i < int(fieldLicense); i++ {
			press(t, m, tea.KeyMsg{Type: tea.KeyTab})
		}
		press(t, m, tea.KeyMsg{Type: tea.KeyRight})
		press(t, m, tea.KeyMsg{Type: tea.KeyRight})
		if m.form.chosenLicense() != "CC0" {
			t.Fatalf("expected CC0, got %q", m.form.chosenLicense())
		}

		press(t, m, tea.KeyMsg{Type: tea.KeyTab})
		press(t, m, tea.KeyMsg{Type: tea.KeyTab})
		press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
		if !m.form.authorized {
			t.Fatal("expected authorization checked")
		}

		press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

		if m.view != BrowseView {
			t.Fatalf("dialog should close after publishing, form error: %v", m.form.err)
		}
		if len(m.tracks) != 1 {
			t.Fatalf("expected 1 track, got %d", len(m.tracks))
		}
		got := m.tracks[0]
		if got.Title != "Night Drive" || got.Artist != "DJ Nova" || got.License != models.LicenseCC0 {
			t.Errorf("unexpected track %+v", got)
		}
		if store.Writes() != 1 {
			t.Errorf("expected 1 write, got %d", store.Writes())
		}
		if m.form.value(fieldTitle) != "" {
			t.Error("form should be reset")
		}
	})

	t.Run("esc dismisses without side effects", func(t *testing.T) {
		m, store, _ := setupModel(t, seedTracks())
		writes := store.Writes()

		press(t, m, keyRunes("n"))
		m.form.inputs[fieldTitle].SetValue("Draft")
		press(t, m, tea.KeyMsg{Type: tea.KeyEsc})

		if m.view != BrowseView {
			t.Error("esc should close the dialog")
		}
		if store.Writes() != writes {
			t.Error("dismissing must not write storage")
		}

		press(t, m, keyRunes("n"))
		if m.form.value(fieldTitle) != "" {
			t.Error("reopened dialog should be empty")
		}
	})

	t.Run("validation keeps dialog open", func(t *testing.T) {
		m, store, _ := setupModel(t, nil)

		press(t, m, keyRunes("n"))
		m.form.inputs[fieldTitle].SetValue("Night Drive")
		m.form.inputs[fieldArtist].SetValue("DJ Nova")
		m.form.cycleLicense(1)
		m.form.inputs[fieldFile].SetValue(th.MustWriteFile(t, filepath.Join(t.TempDir(), "a.mp3"), []byte("x")))

		press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})

		if m.view != PublishView {
			t.Error("dialog should stay open on validation failure")
		}
		var vErr *tasks.ValidationError
		if !errors.As(m.form.err, &vErr) || vErr.Field != "authorized" {
			t.Errorf("expected authorization error, got %v", m.form.err)
		}
		if store.Writes() != 0 {
			t.Error("rejected submission must not write storage")
		}
	})
}

func TestModel_DeleteAndClear(t *testing.T) {
	m, _, _ := setupModel(t, seedTracks())

	press(t, m, keyRunes("d"))
	if got := visibleIDs(m); got != "c,a" {
		t.Errorf("expected newest track deleted, got %s", got)
	}

	press(t, m, keyRunes("C"))
	if m.view != ConfirmClearView {
		t.Fatal("expected confirmation view")
	}
	press(t, m, keyRunes("n"))
	if m.view != BrowseView || len(m.tracks) != 2 {
		t.Errorf("declined clear must keep tracks, got %d", len(m.tracks))
	}

	press(t, m, keyRunes("C"))
	press(t, m, keyRunes("y"))
	if len(m.tracks) != 0 {
		t.Errorf("expected empty catalog, got %d", len(m.tracks))
	}
	if !strings.Contains(m.View(), "No tracks yet") {
		t.Error("empty catalog should render the empty state")
	}
}

func TestModel_Play(t *testing.T) {
	m, _, player := setupModel(t, seedTracks())

	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if len(player.played) != 1 || player.played[0] != "b" {
		t.Fatalf("expected b to play, got %v", player.played)
	}
	if m.playing != "b" {
		t.Errorf("expected playing b, got %q", m.playing)
	}

	press(t, m, keyRunes("s"))
	if player.stopped != 1 || m.playing != "" {
		t.Errorf("expected stop, got stopped=%d playing=%q", player.stopped, m.playing)
	}

	player.err = errors.New("no audio device")
	press(t, m, keyRunes("p"))
	if m.err == nil {
		t.Error("expected play error to surface")
	}
}

func TestNextTag(t *testing.T) {
	tags := []string{"a", "b"}
	tc := map[string]string{"": "a", "a": "b", "b": "", "zzz": "a"}
	for in, want := range tc {
		if got := nextTag(tags, in); got != want {
			t.Errorf("nextTag(%q) = %q, want %q", in, got, want)
		}
	}
	if got := nextTag(nil, "a"); got != "" {
		t.Errorf("nextTag(nil) = %q", got)
	}
}
