// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/photobook/internal/formatter"
	"github.com/desertthunder/photobook/internal/tasks"
	"github.com/urfave/cli/v3"
)

// openCommand returns the top-level TUI command.
func openCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "open",
		Aliases: []string{"tui", "ui"},
		Usage:   "Open the photobook in the terminal",
		Action:  r.TUI,
	}
}

// listCommand prints one page of a chapter
func listCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "Print a page of photos",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "category",
				Aliases: []string{"chapter"},
				Usage:   "Chapter to show (all, sleepy, playing, eating, nature)",
				Value:   "all",
			},
			&cli.IntFlag{
				Name:    "page",
				Aliases: []string{"p"},
				Usage:   "Page number, starting at 1",
				Value:   1,
			},
			&cli.BoolFlag{
				Name:  "sync",
				Usage: "List remote photos before paginating",
				Value: true,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.List,
	}
}

// uploadCommand adds photos to storage
func uploadCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "upload",
		Aliases:   []string{"add"},
		Usage:     "Upload image files or directories of images",
		ArgsUsage: "<paths...>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "Number of concurrent uploads",
				Value:   tasks.DefaultWorkers,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the result as JSON",
			},
		},
		Action: r.Upload,
	}
}

// watchCommand uploads images as they appear in a directory
func watchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Upload new images dropped into a directory",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "dir"},
		},
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "settle",
				Usage: "Quiet period before a changed file is uploaded",
				Value: tasks.DefaultSettle,
			},
		},
		Action: r.Watch,
	}
}

// exportCommand writes the catalog to a file
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the photo catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format (text, csv, markdown, json)",
				Value:   formatter.Formats[0],
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path, - for stdout",
			},
			&cli.BoolFlag{
				Name:  "sync",
				Usage: "List remote photos before exporting",
				Value: true,
			},
		},
		Action: r.Export,
	}
}

// serveCommand runs the HTTP API
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the photobook API; clients upload through it without storage credentials",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Interface to bind (overrides server.host)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to bind (overrides server.port)",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the book state in a browser once listening",
			},
		},
		Action: r.Serve,
	}
}

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write a config.toml from the bundled template",
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize the local object database and run migrations",
				Action: r.SetupDatabase,
			},
		},
	}
}

// authCommand manages the storage access token kept in the OS keyring
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage storage credentials",
		Commands: []*cli.Command{
			{
				Name:  "set-token",
				Usage: "Store an Azure SAS token in the OS keyring",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "token"},
				},
				Action: r.AuthSetToken,
			},
			{
				Name:   "clear-token",
				Usage:  "Remove the stored Azure SAS token",
				Action: r.AuthClearToken,
			},
			{
				Name:   "status",
				Usage:  "Show which credentials the configured backend will use",
				Action: r.AuthStatus,
			},
		},
	}
}
