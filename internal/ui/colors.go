package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/freebeats/internal/models"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title  lipgloss.Style
	ok     lipgloss.Style
	err    lipgloss.Style
	warn   lipgloss.Style
	help   lipgloss.Style
	chip   lipgloss.Style
	focus  lipgloss.Style
	dialog lipgloss.Style
	badges map[models.License]lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title:  NewBold(t).MarginBottom(1),
		ok:     NewBold(s),
		err:    NewBold(e),
		warn:   NewStyle(w),
		help:   NewEm(h),
		chip:   NewStyle(t),
		focus:  NewBold(t),
		dialog: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(t)).Padding(1, 2),
		badges: map[models.License]lipgloss.Style{
			models.LicenseCCBY:   NewBadge(w),
			models.LicenseCC0:    NewBadge(s),
			models.LicenseCustom: NewBadge(t),
		},
	}
}

// badge renders the license badge in the license's color.
func (p *Palette) badge(l models.License) string {
	st, ok := p.badges[l]
	if !ok {
		st = NewBadge("#626262")
	}
	return st.Render(l.String())
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

func NewBadge(bg string) lipgloss.Style {
	return lipgloss.NewStyle().Background(lipgloss.Color(bg)).Foreground(lipgloss.Color("#FFFFFF")).Padding(0, 1)
}
