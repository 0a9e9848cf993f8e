// submodule cmd contains command definitions
package main

import (
	"github.com/urfave/cli/v3"
)

// setupCommand creates the config file and initializes the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create the config file (if missing), initialize the database and run migrations",
		Action: r.Setup,
	}
}

// publishCommand adds one track to the catalog.
func publishCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "publish",
		Usage: "Publish an audio file to the catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "title",
				Aliases: []string{"t"},
				Usage:   "Track title",
			},
			&cli.StringFlag{
				Name:    "artist",
				Aliases: []string{"a"},
				Usage:   "Artist name",
			},
			&cli.StringFlag{
				Name:  "tags",
				Usage: "Comma separated tags (at most 12)",
			},
			&cli.StringFlag{
				Name:    "license",
				Aliases: []string{"l"},
				Usage:   "License: CC-BY, CC0 or custom-permission",
			},
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "Path to the audio file (max 6 MB)",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "type",
				Usage: "Media type override (e.g. audio/mpeg); detected from the file when empty",
			},
			&cli.BoolFlag{
				Name:  "from-tags",
				Usage: "Fill a blank title, artist or tags from the file's embedded metadata",
			},
			&cli.BoolFlag{
				Name:  "authorize",
				Usage: "Confirm you are authorized to publish this audio",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the new track as JSON",
			},
		},
		Action: r.Publish,
	}
}

// listCommand prints the catalog.
func listCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List tracks, newest first",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "query",
				Aliases: []string{"q"},
				Usage:   "Case-insensitive search over title, artist, license and tags",
			},
			&cli.StringFlag{
				Name:  "tag",
				Usage: "Only tracks carrying this exact tag",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON (without audio)",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.List,
	}
}

// tagsCommand prints the tag vocabulary.
func tagsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tags",
		Usage:  "List every tag used in the catalog",
		Action: r.Tags,
	}
}

// removeCommand deletes a single track.
func removeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "remove",
		Aliases: []string{"rm"},
		Usage:   "Delete a track by id",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "id"},
		},
		Action: r.Remove,
	}
}

// clearCommand deletes every track.
func clearCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "clear",
		Usage: "Delete every track in the catalog",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Skip the confirmation prompt",
			},
		},
		Action: r.Clear,
	}
}

// exportCommand writes the catalog to a file.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the catalog as JSON, CSV, Markdown or plain text",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "format",
				Usage: "Export format: json, csv, markdown, txt",
				Value: "json",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path (\"-\" for stdout)",
			},
		},
		Action: r.Export,
	}
}

// importCommand publishes a directory of audio files.
func importCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Publish every audio file in a directory",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "dir"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "license",
				Aliases:  []string{"l"},
				Usage:    "License applied to every file",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "tags",
				Usage: "Comma separated tags applied to every file",
			},
			&cli.StringFlag{
				Name:  "artist",
				Usage: "Artist for files without an artist tag",
			},
			&cli.BoolFlag{
				Name:  "authorize",
				Usage: "Confirm you are authorized to publish every file",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent encoders (default from config)",
			},
		},
		Action: r.Import,
	}
}

// playCommand plays one track.
func playCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "Play a track with the configured player",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "id"},
		},
		Action: r.Play,
	}
}

// tuiCommand returns the top-level TUI command for interactive catalog management.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive catalog browser",
		Action:  r.TUI,
	}
}
