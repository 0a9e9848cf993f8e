package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/freebeats/internal/models"
	"github.com/desertthunder/freebeats/internal/player"
	"github.com/desertthunder/freebeats/internal/repositories"
	"github.com/desertthunder/freebeats/internal/shared"
	"github.com/desertthunder/freebeats/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Player plays one track at a time.
//
// Implemented by [player.Player].
type Player interface {
	Play(ctx context.Context, track models.Track) error
	Stop()
	Wait(ctx context.Context) error
}

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The catalog, its database and the player are opened on first use so that commands like setup work before a
// database exists.
type Runner struct {
	config  *shared.Config
	catalog *tasks.Catalog
	player  Player
	db      *sql.DB
	logger  *log.Logger
	output  io.Writer
	input   io.Reader
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config // Loaded from --config on first use when nil
	Catalog *tasks.Catalog // Opened from the configured database on first use when nil
	Player  Player
	Logger  *log.Logger
	Output  io.Writer
	Input   io.Reader // Answers confirmation prompts
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}

	return &Runner{
		config:  opts.Config,
		catalog: opts.Catalog,
		player:  opts.Player,
		logger:  opts.Logger,
		output:  opts.Output,
		input:   opts.Input,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, publishCommand, listCommand, tagsCommand, removeCommand, clearCommand, exportCommand,
		importCommand, playCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before applies the --log-level flag ahead of any command.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if level := cmd.String("log-level"); level != "" {
		shared.SetLogLevel(r.logger, shared.ParseLogLevel(level))
	}
	return ctx, nil
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// Close releases the database handle, if one was opened.
func (r *Runner) Close() {
	if r.db != nil {
		if err := r.db.Close(); err != nil {
			r.logger.Warn("failed to close database", "error", err)
		}
		r.db = nil
	}
}

// loadConfig returns the injected config or resolves --config, falling back to defaults when the file is missing.
func (r *Runner) loadConfig(cmd *cli.Command) (*shared.Config, error) {
	if r.config != nil {
		return r.config, nil
	}

	config, err := shared.ResolveConfig(cmd.String("config"))
	if err != nil {
		return nil, err
	}
	if cmd.String("log-level") == "" {
		shared.SetLogLevel(r.logger, shared.ParseLogLevel(config.Log.Level))
	}
	r.config = config
	return config, nil
}

// openCatalog builds the catalog over SQLite, or over memory with --memory.
func (r *Runner) openCatalog(cmd *cli.Command) (*tasks.Catalog, error) {
	if r.catalog != nil {
		return r.catalog, nil
	}

	config, err := r.loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	var store repositories.Store
	if cmd.Bool("memory") {
		r.logger.Debug("using in-memory catalog")
		store = repositories.NewMemoryStore()
	} else {
		db, err := shared.OpenCatalogDatabase(config.Database)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", shared.ErrStorageUnavailable, err)
		}
		r.db = db
		store = repositories.NewSQLiteStore(db)
	}

	repo := repositories.NewCatalogRepository(store, config.Catalog.StorageKey, shared.WithLogger(r.logger, "component", "repository"))
	r.catalog = tasks.NewCatalog(tasks.CatalogOpts{
		Repo:        repo,
		Logger:      shared.WithLogger(r.logger, "component", "catalog"),
		MaxFileSize: config.Catalog.MaxFileSize(),
		MaxTags:     config.Catalog.MaxTags,
	})
	return r.catalog, nil
}

// openPlayer returns the injected player or one built from the [player] config section.
func (r *Runner) openPlayer(cmd *cli.Command) (Player, error) {
	if r.player != nil {
		return r.player, nil
	}
	config, err := r.loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	r.player = player.FromConfig(config.Player, shared.WithLogger(r.logger, "component", "player"))
	return r.player, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return r.writeRaw(output)
}

// writeRaw writes already-encoded output followed by a newline.
func (r *Runner) writeRaw(output []byte) error {
	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
