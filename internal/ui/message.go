package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/freebeats/internal/models"
	"github.com/desertthunder/freebeats/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgCatalogChanged MsgKind = iota
	MsgProgressUpdate
	MsgPublished
	MsgRemoved
	MsgCleared
	MsgPlayed
)

// catalogChangedMsg is the constructor for [MsgCatalogChanged]
func catalogChangedMsg() Msg {
	return Msg{kind: MsgCatalogChanged}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

type publishResult struct {
	track *models.Track
	err   error
}

// publishedMsg is the constructor for [MsgPublished]
func publishedMsg(track *models.Track, err error) Msg {
	return Msg{kind: MsgPublished, data: publishResult{track, err}}
}

type removeResult struct {
	id      string
	removed bool
	err     error
}

// removedMsg is the constructor for [MsgRemoved]
func removedMsg(id string, removed bool, err error) Msg {
	return Msg{kind: MsgRemoved, data: removeResult{id, removed, err}}
}

// clearedMsg is the constructor for [MsgCleared]
func clearedMsg(err error) Msg {
	return Msg{kind: MsgCleared, data: err}
}

type playResult struct {
	track models.Track
	err   error
}

// playedMsg is the constructor for [MsgPlayed]
func playedMsg(track models.Track, err error) Msg {
	return Msg{kind: MsgPlayed, data: playResult{track, err}}
}
