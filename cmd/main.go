package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/freebeats/internal/shared"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	// .env never overrides variables already set in the environment
	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file loaded", "error", err)
	}

	runner := NewRunner(RunnerOpts{Logger: logger})
	defer runner.Close()

	if err := newApp(runner).Run(context.Background(), os.Args); err != nil {
		switch {
		case errors.Is(err, shared.ErrCancelled):
			logger.Warn("cancelled")
			os.Exit(0)
		default:
			runner.Close()
			logger.Fatalf("application error: %v", err)
		}
	}
}

// newApp builds the root command with the runner's subcommands and the flags every subcommand shares.
func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "freebeats",
		Usage:   "Publish, browse and play a local catalog of free-to-use audio tracks",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
				Sources: cli.EnvVars("FREEBEATS_CONFIG"),
			},
			&cli.BoolFlag{
				Name:  "memory",
				Usage: "Keep the catalog in memory for this run only",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error); overrides the config file",
				Sources: cli.EnvVars("FREEBEATS_LOG_LEVEL"),
			},
		},
		Before:   r.Before,
		Commands: r.register(),
	}
}
