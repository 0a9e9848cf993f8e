package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/freebeats/internal/formatter"
	"github.com/desertthunder/freebeats/internal/models"
)

var _ list.DefaultItem = trackItem{}

// trackItem wraps [models.Track] to implement [list.Item].
type trackItem struct {
	track models.Track
}

func (i trackItem) FilterValue() string { return i.track.Haystack() }
func (i trackItem) Title() string       { return i.track.Title }
func (i trackItem) Description() string {
	parts := []string{
		i.track.Artist,
		formatter.FormatTimestamp(i.track.CreatedAt.Local()),
		formatter.LicenseBadge(i.track.License),
	}
	if len(i.track.Tags) > 0 {
		parts = append(parts, formatter.FormatTags(i.track.Tags))
	}
	return strings.Join(parts, " • ")
}

func trackItems(tracks []models.Track) []list.Item {
	items := make([]list.Item, len(tracks))
	for i, t := range tracks {
		items[i] = trackItem{track: t}
	}
	return items
}

// renderCard renders the full card for the selected track, highlighting the active tag filter.
func renderCard(t models.Track, activeTag string, playing bool) string {
	var b strings.Builder

	title := t.Title
	if playing {
		title = "♪ " + title
	}
	b.WriteString(styles.focus.Render(title) + "\n")
	b.WriteString(fmt.Sprintf("%s · %s\n", t.Artist, formatter.FormatTimestamp(t.CreatedAt.Local())))
	b.WriteString(fmt.Sprintf("%s %s\n", styles.badge(t.License), styles.help.Render(t.License.UsageNote())))

	if len(t.Tags) > 0 {
		chips := make([]string, len(t.Tags))
		for i, tag := range t.Tags {
			if tag == activeTag {
				chips[i] = styles.ok.Render("#" + tag)
			} else {
				chips[i] = styles.chip.Render("#" + tag)
			}
		}
		b.WriteString(strings.Join(chips, " ") + "\n")
	}
	return b.String()
}
