package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/photobook/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	if err := shared.LoadEnv(".env"); err != nil {
		logger.Warn("ignoring .env", "error", err)
	}

	runner := NewRunner(RunnerOpts{ConfigPath: "config.toml", Logger: logger})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(runner).Run(ctx, os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		logger.Error("application error", "error", err)
		stop()
		os.Exit(exitCode(err))
	}
}

// newApp builds the root command around r.
func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "photobook",
		Usage:   "A terminal photobook backed by cloud object storage",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:  "storage",
				Usage: "Storage backend override (azure, local or proxy)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level override (debug, info, warn, error)",
			},
		},
		Before:   r.Before,
		After:    r.After,
		Commands: r.register(),
	}
}
