package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/freebeats/internal/models"
	"github.com/desertthunder/freebeats/internal/tasks"
)

// formField indexes the publish dialog's focusable rows.
type formField int

const (
	fieldTitle formField = iota
	fieldArtist
	fieldTags
	fieldLicense
	fieldFile
	fieldAuthorized
	fieldCount
)

// publishForm is the state of the publish dialog.
type publishForm struct {
	inputs     map[formField]*textinput.Model
	focus      formField
	license    int // Index into models.Licenses(); -1 until chosen
	authorized bool
	busy       bool // A submission is being encoded
	status     string
	err        error
}

func newPublishForm() publishForm {
	mk := func(placeholder string, limit int) *textinput.Model {
		in := textinput.New()
		in.Placeholder = placeholder
		in.CharLimit = limit
		in.Width = 48
		return &in
	}

	f := publishForm{
		inputs: map[formField]*textinput.Model{
			fieldTitle:  mk("Night Drive", 200),
			fieldArtist: mk("DJ Nova", 200),
			fieldTags:   mk("synth, retro", 400),
			fieldFile:   mk("/path/to/track.mp3", 4096),
		},
		license: -1,
	}
	f.inputs[fieldTitle].Focus()
	return f
}

func (f *publishForm) value(field formField) string {
	if in, ok := f.inputs[field]; ok {
		return in.Value()
	}
	return ""
}

// setFocus moves focus to field, wrapping around the dialog.
func (f *publishForm) setFocus(field formField) tea.Cmd {
	f.focus = (field + fieldCount) % fieldCount
	var cmd tea.Cmd
	for k, in := range f.inputs {
		if k == f.focus {
			cmd = in.Focus()
		} else {
			in.Blur()
		}
	}
	return cmd
}

// cycleLicense moves the license choice by delta.
func (f *publishForm) cycleLicense(delta int) {
	n := len(models.Licenses())
	if f.license < 0 {
		f.license = 0
		if delta < 0 {
			f.license = n - 1
		}
		return
	}
	f.license = (f.license + delta + n) % n
}

func (f *publishForm) chosenLicense() string {
	if f.license < 0 {
		return ""
	}
	return models.Licenses()[f.license].String()
}

// submission collects the form into a [tasks.Submission]. A path that cannot be opened yields a nil file, which the
// publish validation reports.
func (f *publishForm) submission() (tasks.Submission, error) {
	sub := tasks.Submission{
		Title:      f.value(fieldTitle),
		Artist:     f.value(fieldArtist),
		Tags:       f.value(fieldTags),
		License:    f.chosenLicense(),
		Authorized: f.authorized,
	}

	path := strings.TrimSpace(f.value(fieldFile))
	if path == "" {
		return sub, nil
	}
	file, err := tasks.FileFromPath(path, "")
	if err != nil {
		return sub, err
	}
	sub.File = file
	return sub, nil
}

// updateInput forwards msg to the focused text input.
func (f *publishForm) updateInput(msg tea.Msg) tea.Cmd {
	in, ok := f.inputs[f.focus]
	if !ok {
		return nil
	}
	updated, cmd := in.Update(msg)
	*in = updated
	return cmd
}

func (f *publishForm) view() string {
	var b strings.Builder

	b.WriteString(styles.title.Render("Publish a track") + "\n")

	row := func(field formField, label, content string) {
		marker := "  "
		if f.focus == field {
			marker = styles.focus.Render("> ")
		}
		b.WriteString(fmt.Sprintf("%s%-10s %s\n", marker, label, content))
	}

	row(fieldTitle, "Title", f.inputs[fieldTitle].View())
	row(fieldArtist, "Artist", f.inputs[fieldArtist].View())
	row(fieldTags, "Tags", f.inputs[fieldTags].View())

	licenses := make([]string, 0, len(models.Licenses()))
	for i, l := range models.Licenses() {
		if i == f.license {
			licenses = append(licenses, styles.ok.Render("("+l.String()+")"))
		} else {
			licenses = append(licenses, l.String())
		}
	}
	row(fieldLicense, "License", strings.Join(licenses, "  "))
	row(fieldFile, "File", f.inputs[fieldFile].View())

	box := "[ ]"
	if f.authorized {
		box = "[x]"
	}
	row(fieldAuthorized, "", box+" I am authorized to publish this audio")

	if f.license >= 0 {
		b.WriteString("\n" + styles.help.Render(models.Licenses()[f.license].UsageNote()) + "\n")
	}

	switch {
	case f.busy:
		b.WriteString("\n" + styles.warn.Render(f.status))
	case f.err != nil:
		b.WriteString("\n" + styles.err.Render(f.err.Error()))
	}

	return styles.dialog.Render(b.String())
}
