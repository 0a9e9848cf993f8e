package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/freebeats/internal/models"
	"github.com/desertthunder/freebeats/internal/shared"
	"github.com/desertthunder/freebeats/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	BrowseView ViewState = iota
	PublishView
	ConfirmClearView
)

// Player plays one track at a time.
type Player interface {
	Play(ctx context.Context, track models.Track) error
	Stop()
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	catalog      *tasks.Catalog
	player       Player
	width        int
	height       int
	tracks       []models.Track // Full catalog as of the last refresh
	visible      []models.Track // Catalog after search, tag filter and sort
	tags         []string
	query        string
	tag          string
	searching    bool
	search       textinput.Model
	trackList    list.Model
	form         publishForm
	progressChan <-chan tasks.ProgressUpdate
	resultChan   <-chan Msg
	playing      string
	status       string
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model with the provided dependencies. player may be nil to disable playback.
func NewModel(ctx context.Context, catalog *tasks.Catalog, player Player) *Model {
	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search title, artist, license or tags"
	search.CharLimit = 200

	trackList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	trackList.Title = "freebeats"
	trackList.SetFilteringEnabled(false)
	trackList.SetShowHelp(false)
	trackList.DisableQuitKeybindings()
	trackList.SetStatusBarItemName("track", "tracks")

	return &Model{
		ctx:       ctx,
		view:      BrowseView,
		catalog:   catalog,
		player:    player,
		search:    search,
		trackList: trackList,
		form:      newPublishForm(),
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init initializes the TUI by rendering the stored catalog.
func (m *Model) Init() tea.Cmd {
	return m.loadCatalog()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.trackList.SetSize(msg.Width-4, max(msg.Height-14, 4))
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.stopPlayback()
			return m, tea.Quit
		}
		switch m.view {
		case PublishView:
			return m.handlePublishKeys(msg)
		case ConfirmClearView:
			return m.handleConfirmKeys(msg)
		default:
			if m.searching {
				return m.handleSearchKeys(msg)
			}
			return m.handleBrowseKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	var cmd tea.Cmd
	m.trackList, cmd = m.trackList.Update(msg)
	return m, cmd
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgCatalogChanged:
		m.refresh()
		return m, nil

	case MsgProgressUpdate:
		update := msg.data.(tasks.ProgressUpdate)
		m.form.status = update.Message
		return m, m.waitForProgress()

	case MsgPublished:
		res := msg.data.(publishResult)
		m.progressChan = nil
		m.resultChan = nil
		m.form.busy = false
		if res.err != nil {
			m.form.err = res.err
			return m, nil
		}
		m.form = newPublishForm()
		m.view = BrowseView
		m.err = nil
		m.status = fmt.Sprintf("Published %q by %s", res.track.Title, res.track.Artist)
		return m, m.loadCatalog()

	case MsgRemoved:
		res := msg.data.(removeResult)
		if res.err != nil {
			m.err = res.err
			return m, nil
		}
		if res.removed {
			m.status = "Track deleted"
			if m.playing == res.id {
				m.stopPlayback()
			}
		}
		return m, m.loadCatalog()

	case MsgCleared:
		m.view = BrowseView
		if err, _ := msg.data.(error); err != nil {
			if errors.Is(err, shared.ErrCancelled) {
				m.status = "Clear cancelled"
				return m, nil
			}
			m.err = err
			return m, nil
		}
		m.stopPlayback()
		m.status = "Catalog cleared"
		return m, m.loadCatalog()

	case MsgPlayed:
		res := msg.data.(playResult)
		if res.err != nil {
			m.err = res.err
			return m, nil
		}
		m.playing = res.track.ID
		m.status = fmt.Sprintf("Playing %s - %s", res.track.Artist, res.track.Title)
		return m, nil
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case PublishView:
		helpView := m.help.ShortHelpView([]key.Binding{m.keys.next, m.keys.toggle, m.keys.submit, m.keys.back})
		return fmt.Sprintf("%s\n\n%s", m.form.view(), helpView)
	case ConfirmClearView:
		return m.renderConfirm()
	default:
		return m.renderBrowse()
	}
}

func (m *Model) handleBrowseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil

	switch {
	case key.Matches(msg, m.keys.quit):
		m.stopPlayback()
		return m, tea.Quit
	case key.Matches(msg, m.keys.publish):
		m.view = PublishView
		m.form = newPublishForm()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.search):
		m.searching = true
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.tag):
		m.tag = nextTag(m.tags, m.tag)
		m.refresh()
		return m, nil
	case key.Matches(msg, m.keys.chip):
		if t, ok := m.selected(); ok && len(t.Tags) > 0 {
			m.tag = nextTag(t.Tags, m.tag)
			m.refresh()
		}
		return m, nil
	case key.Matches(msg, m.keys.reset):
		m.query, m.tag = "", ""
		m.search.SetValue("")
		m.refresh()
		return m, nil
	case key.Matches(msg, m.keys.remove):
		if t, ok := m.selected(); ok {
			return m, m.removeTrack(t.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.clear):
		if len(m.tracks) > 0 {
			m.view = ConfirmClearView
		}
		return m, nil
	case key.Matches(msg, m.keys.play):
		if t, ok := m.selected(); ok {
			return m, m.playTrack(t)
		}
		return m, nil
	case key.Matches(msg, m.keys.stop):
		m.stopPlayback()
		m.status = "Stopped"
		return m, nil
	case key.Matches(msg, m.keys.showHelp):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	var cmd tea.Cmd
	m.trackList, cmd = m.trackList.Update(msg)
	return m, cmd
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if q := m.search.Value(); q != m.query {
		m.query = q
		m.refresh()
	}
	return m, cmd
}

func (m *Model) handlePublishKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		if m.form.busy {
			return m, nil
		}
		m.form = newPublishForm()
		m.view = BrowseView
		return m, nil
	}
	if m.form.busy {
		return m, nil
	}

	switch msg.String() {
	case "tab", "down":
		return m, m.form.setFocus(m.form.focus + 1)
	case "shift+tab", "up":
		return m, m.form.setFocus(m.form.focus - 1)
	case "ctrl+s":
		return m, m.submit()
	case "enter":
		if m.form.focus == fieldAuthorized {
			return m, m.submit()
		}
		return m, m.form.setFocus(m.form.focus + 1)
	}

	switch m.form.focus {
	case fieldLicense:
		switch msg.String() {
		case "left", "h":
			m.form.cycleLicense(-1)
		case "right", "l", " ":
			m.form.cycleLicense(1)
		}
		return m, nil
	case fieldAuthorized:
		if msg.String() == " " || msg.String() == "x" {
			m.form.authorized = !m.form.authorized
		}
		return m, nil
	}

	return m, m.form.updateInput(msg)
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		return m, m.clearCatalog(true)
	case "n", "N", "esc", "q":
		return m, m.clearCatalog(false)
	}
	return m, nil
}

// submit validates the form and starts encoding. Validation failures stay in the dialog.
func (m *Model) submit() tea.Cmd {
	sub, err := m.form.submission()
	if err != nil {
		m.form.err = err
		return nil
	}
	if err := m.catalog.Check(sub); err != nil {
		m.form.err = err
		return nil
	}

	m.form.err = nil
	m.form.busy = true
	m.form.status = "Encoding audio..."
	return m.startPublish(sub)
}

func (m *Model) startPublish(sub tasks.Submission) tea.Cmd {
	progress := make(chan tasks.ProgressUpdate, 8)
	result := make(chan Msg, 1)

	go func() {
		track, err := m.catalog.Publish(m.ctx, sub, progress)
		close(progress)
		result <- publishedMsg(track, err)
	}()

	m.progressChan = progress
	m.resultChan = result
	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progress, result := m.progressChan, m.resultChan
	return func() tea.Msg {
		if progress != nil {
			if update, ok := <-progress; ok {
				return progressUpdateMsg(update)
			}
		}
		if result == nil {
			return nil
		}
		return <-result
	}
}

func (m *Model) loadCatalog() tea.Cmd {
	return func() tea.Msg {
		return catalogChangedMsg()
	}
}

func (m *Model) removeTrack(id string) tea.Cmd {
	return func() tea.Msg {
		removed, err := m.catalog.Remove(m.ctx, id)
		return removedMsg(id, removed, err)
	}
}

func (m *Model) clearCatalog(accepted bool) tea.Cmd {
	confirm := tasks.ConfirmFunc(func(context.Context, string) (bool, error) { return accepted, nil })
	return func() tea.Msg {
		return clearedMsg(m.catalog.ClearAll(m.ctx, confirm))
	}
}

func (m *Model) playTrack(t models.Track) tea.Cmd {
	if m.player == nil {
		m.err = errors.New("playback is not configured")
		return nil
	}
	p := m.player
	return func() tea.Msg {
		return playedMsg(t, p.Play(m.ctx, t))
	}
}

func (m *Model) stopPlayback() {
	if m.player != nil && m.playing != "" {
		m.player.Stop()
	}
	m.playing = ""
}

// refresh re-reads the catalog from storage and re-derives the visible tracks and the tag vocabulary. A tag
// filter that no longer exists is dropped.
func (m *Model) refresh() {
	m.tracks = m.catalog.All(m.ctx)
	m.tags = m.catalog.Tags(m.ctx)
	if m.tag != "" && !contains(m.tags, m.tag) {
		m.tag = ""
	}
	m.visible = m.catalog.Browse(m.ctx, m.query, m.tag)
	m.trackList.SetItems(trackItems(m.visible))
}

func (m *Model) selected() (models.Track, bool) {
	item, ok := m.trackList.SelectedItem().(trackItem)
	if !ok {
		return models.Track{}, false
	}
	return item.track, true
}

func (m *Model) renderBrowse() string {
	var b strings.Builder

	filters := fmt.Sprintf("%d of %d tracks", len(m.visible), len(m.tracks))
	if m.query != "" {
		filters += fmt.Sprintf(" • search %q", m.query)
	}
	if m.tag != "" {
		filters += " • tag " + styles.ok.Render("#"+m.tag)
	}
	b.WriteString(styles.help.Render(filters) + "\n")

	if m.searching {
		b.WriteString(m.search.View() + "\n")
	}

	if len(m.tracks) == 0 {
		b.WriteString("\n" + styles.warn.Render("No tracks yet. Press n to publish one.") + "\n")
	} else {
		b.WriteString(m.trackList.View() + "\n")
		if t, ok := m.selected(); ok {
			b.WriteString("\n" + renderCard(t, m.tag, t.ID == m.playing))
		}
	}

	switch {
	case m.err != nil:
		b.WriteString("\n" + styles.err.Render("Error: "+m.err.Error()) + "\n")
	case m.status != "":
		b.WriteString("\n" + styles.ok.Render(m.status) + "\n")
	}

	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render("Clear the whole catalog?")
	info := fmt.Sprintf("\n%s\n\nTracks: %d\n", tasks.ClearPrompt, len(m.tracks))
	warn := styles.warn.Render("This cannot be undone.")

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no})
	return fmt.Sprintf("%s\n%s\n%s\n\n%s", title, info, warn, helpView)
}

// nextTag cycles through "" and each tag in order.
func nextTag(tags []string, current string) string {
	if len(tags) == 0 {
		return ""
	}
	if current == "" {
		return tags[0]
	}
	for i, t := range tags {
		if t == current {
			if i+1 < len(tags) {
				return tags[i+1]
			}
			return ""
		}
	}
	return tags[0]
}

func contains(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

// Run starts the TUI on the alternate screen and blocks until it exits.
func Run(ctx context.Context, catalog *tasks.Catalog, player Player) error {
	m := NewModel(ctx, catalog, player)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	m.stopPlayback()
	return err
}
