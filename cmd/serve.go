package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/photobook/internal/book"
	"github.com/desertthunder/photobook/internal/server"
	"github.com/desertthunder/photobook/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve runs the HTTP API until interrupted.
//
// The server owns the storage credentials; the proxy backend would point the server at itself.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if r.config.Storage.Backend == "proxy" {
		return fmt.Errorf("%w: serve needs the azure or local backend, not proxy", shared.ErrInvalidConfig)
	}

	cfg := r.config.Server
	if host := cmd.String("host"); host != "" {
		cfg.Host = host
	}
	if port := cmd.Int("port"); port != 0 {
		cfg.Port = int(port)
	}

	b, err := r.openBook(ctx)
	if err != nil {
		return err
	}
	r.sync(ctx, b)

	scheduler := book.NewScheduler(b, r.config.Book.FlipDelay(), r.config.Book.CloseDelay())
	defer scheduler.Stop()

	api := server.NewAPI(b, r.storage, scheduler, r.config.Upload.MaxBytes, r.logger)
	srv := server.New(cfg.Addr(), server.NewRouter(api, r.logger), r.logger)

	ready := make(chan string, 1)
	go func() {
		addr, ok := <-ready
		if !ok {
			return
		}
		r.writePlain("📖 Serving %s at http://%s\n", r.config.Book.Title, addr)
		if cmd.Bool("open") {
			if err := shared.OpenBrowser("http://" + addr + "/api/book"); err != nil {
				r.logger.Warn("failed to open browser", "error", err)
			}
		}
	}()

	err = srv.Run(ctx, ready)
	close(ready)
	return err
}
