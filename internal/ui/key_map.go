package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up       key.Binding
	down     key.Binding
	play     key.Binding
	stop     key.Binding
	search   key.Binding
	tag      key.Binding
	chip     key.Binding
	reset    key.Binding
	publish  key.Binding
	remove   key.Binding
	clear    key.Binding
	next     key.Binding
	prev     key.Binding
	toggle   key.Binding
	submit   key.Binding
	back     key.Binding
	yes      key.Binding
	no       key.Binding
	quit     key.Binding
	showHelp key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		play:     key.NewBinding(key.WithKeys("enter", "p"), key.WithHelp("enter", "play")),
		stop:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
		search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		tag:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "next tag")),
		chip:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter by track tag")),
		reset:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear filters")),
		publish:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "publish")),
		remove:   key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		clear:    key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear all")),
		next:     key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		prev:     key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
		toggle:   key.NewBinding(key.WithKeys(" ", "left", "right"), key.WithHelp("space/←/→", "change")),
		submit:   key.NewBinding(key.WithKeys("ctrl+s", "enter"), key.WithHelp("ctrl+s", "publish")),
		back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		yes:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		no:       key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "no")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		showHelp: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.play, k.search, k.tag, k.publish, k.remove, k.showHelp, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.play, k.stop},
		{k.search, k.tag, k.chip, k.reset},
		{k.publish, k.remove, k.clear},
		{k.showHelp, k.quit},
	}
}
