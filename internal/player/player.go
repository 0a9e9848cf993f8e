// package player plays embedded track audio through an external command, one track at a time.
package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/freebeats/internal/models"
	"github.com/desertthunder/freebeats/internal/shared"
	"github.com/desertthunder/freebeats/internal/tasks"
)

// Process is a running playback command.
type Process interface {
	Wait() error
	Kill() error
}

// Starter launches name with args.
type Starter func(ctx context.Context, name string, args ...string) (Process, error)

// ExecStarter starts a real OS process. The process is killed when ctx is done.
func ExecStarter(ctx context.Context, name string, args ...string) (Process, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &execProcess{cmd: cmd}, nil
}

type execProcess struct{ cmd *exec.Cmd }

func (p *execProcess) Wait() error { return p.cmd.Wait() }
func (p *execProcess) Kill() error { return p.cmd.Process.Kill() }

// blockingPlayers are tried in order when no command is configured. Each one exits when playback ends.
var blockingPlayers = []struct {
	name string
	args []string
}{
	{name: "ffplay", args: []string{"-nodisp", "-autoexit", "-loglevel", "quiet"}},
	{name: "mpv", args: []string{"--no-video", "--really-quiet"}},
	{name: "afplay"},
}

// session is the active playback.
//
// A detached session was handed to the system opener, which exits as soon as another application has the file.
// Its temp file is kept until the next Play or Stop.
type session struct {
	trackID  string
	path     string
	proc     Process
	done     chan struct{}
	detached bool
}

// Player enforces a single active playback: starting a track stops the previous one.
type Player struct {
	command string
	args    []string
	tempDir string
	logger  *log.Logger
	start   Starter

	mu      sync.Mutex
	current *session
}

// PlayerOpts contains configuration options for creating a Player.
type PlayerOpts struct {
	Command string   // Player executable; empty detects one, then falls back to the platform opener
	Args    []string // Arguments placed before the audio file path
	TempDir string   // Where decoded audio is written (default: os.TempDir())
	Logger  *log.Logger
	Starter Starter // Process launcher (default: ExecStarter)

	// LookPath finds a blocking player when Command is empty (default: exec.LookPath)
	LookPath func(file string) (string, error)
}

// New creates a Player from opts.
func New(opts PlayerOpts) *Player {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Starter == nil {
		opts.Starter = ExecStarter
	}
	if opts.LookPath == nil {
		opts.LookPath = exec.LookPath
	}
	if opts.Command == "" {
		for _, c := range blockingPlayers {
			if _, err := opts.LookPath(c.name); err == nil {
				opts.Command, opts.Args = c.name, c.args
				break
			}
		}
	}
	if opts.Command == "" {
		opts.Logger.Debug("no audio player found, falling back to the system opener")
	}
	return &Player{
		command: opts.Command,
		args:    opts.Args,
		tempDir: opts.TempDir,
		logger:  opts.Logger,
		start:   opts.Starter,
	}
}

// FromConfig creates a Player using the [player] config section.
func FromConfig(cfg shared.PlayerConfig, logger *log.Logger) *Player {
	return New(PlayerOpts{Command: cfg.Command, Args: cfg.Args, Logger: logger})
}

// Play stops any active playback, writes track's audio to a temp file and starts the player on it.
//
// Without a player command the file is handed to the system opener and stays in place until the next Play or
// Stop.
func (p *Player) Play(ctx context.Context, track models.Track) error {
	mediaType, data, err := tasks.DecodeEmbed(track.AudioEmbed)
	if err != nil {
		return fmt.Errorf("track %s has no playable audio: %w", track.ID, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()

	f, err := os.CreateTemp(p.tempDir, "freebeats-*"+tasks.ExtensionFor(mediaType))
	if err != nil {
		return fmt.Errorf("failed to create temp audio file: %w", err)
	}
	path := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("failed to write temp audio file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to write temp audio file: %w", err)
	}

	name, args, err := p.commandFor(path)
	if err != nil {
		os.Remove(path)
		return err
	}

	proc, err := p.start(ctx, name, args...)
	if err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to start %s: %w", name, err)
	}

	s := &session{trackID: track.ID, path: path, proc: proc, done: make(chan struct{}), detached: p.command == ""}
	p.current = s
	go p.watch(s)

	p.logger.Info("playing", "id", track.ID, "title", track.Title, "player", name)
	return nil
}

// Stop ends the active playback, if any.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

// Current returns the id of the track playing now.
func (p *Player) Current() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return "", false
	}
	return p.current.trackID, true
}

// Wait blocks until the active playback finishes or ctx is done. A detached session finishes once the opener
// has handed the file off.
func (p *Player) Wait(ctx context.Context) error {
	p.mu.Lock()
	s := p.current
	p.mu.Unlock()
	if s == nil {
		return nil
	}

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		p.Stop()
		return ctx.Err()
	}
}

func (p *Player) commandFor(path string) (string, []string, error) {
	if p.command == "" {
		return shared.OpenerCommand(path)
	}
	args := append(append([]string{}, p.args...), path)
	return p.command, args, nil
}

func (p *Player) stopLocked() {
	s := p.current
	if s == nil {
		return
	}
	p.current = nil

	select {
	case <-s.done:
	default:
		if err := s.proc.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			p.logger.Debug("failed to stop player", "id", s.trackID, "error", err)
		}
		<-s.done
	}
	if s.detached {
		os.Remove(s.path)
	}
	p.logger.Debug("playback stopped", "id", s.trackID)
}

// watch waits for the process to exit. An attached session is then cleared and its temp file removed.
func (p *Player) watch(s *session) {
	if err := s.proc.Wait(); err != nil {
		p.logger.Debug("player exited", "id", s.trackID, "error", err)
	}
	if !s.detached {
		os.Remove(s.path)
	}
	close(s.done)

	if s.detached {
		p.logger.Debug("audio handed to system opener", "id", s.trackID, "path", s.path)
		return
	}

	p.mu.Lock()
	if p.current == s {
		p.current = nil
	}
	p.mu.Unlock()
}
