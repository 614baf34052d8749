package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/desertthunder/photobook/internal/formatter"
	"github.com/desertthunder/photobook/internal/models"
	"github.com/desertthunder/photobook/internal/shared"
	"github.com/desertthunder/photobook/internal/tasks"
	"github.com/urfave/cli/v3"
)

// List prints one page of a chapter.
func (r *Runner) List(ctx context.Context, cmd *cli.Command) error {
	page := cmd.Int("page")
	if page < 1 {
		return fmt.Errorf("%w: --page starts at 1, got %d", shared.ErrInvalidFlag, page)
	}

	b, err := r.openBook(ctx)
	if err != nil {
		return err
	}
	if cmd.Bool("sync") {
		r.sync(ctx, b)
	}

	view, err := b.View(cmd.String("category"), page-1)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(view, cmd.Bool("pretty"))
	}
	return r.writePlain("%s", formatter.FormatPage(view))
}

// uploadReport is the JSON shape of an upload run.
type uploadReport struct {
	Uploaded []models.PhotoRecord `json:"uploaded"`
	Skipped  map[string]string    `json:"skipped,omitempty"`
	Failed   map[string]string    `json:"failed,omitempty"`
	Bytes    int64                `json:"bytes"`
}

func newUploadReport(result *tasks.BulkUploadResult) uploadReport {
	report := uploadReport{Uploaded: []models.PhotoRecord{}, Bytes: result.Bytes}
	for _, res := range result.Results {
		switch {
		case res.Error == nil && res.Record != nil:
			report.Uploaded = append(report.Uploaded, *res.Record)
		case res.Skipped:
			if report.Skipped == nil {
				report.Skipped = map[string]string{}
			}
			report.Skipped[res.Path] = res.Error.Error()
		case res.Error != nil:
			if report.Failed == nil {
				report.Failed = map[string]string{}
			}
			report.Failed[res.Path] = res.Error.Error()
		}
	}
	return report
}

// Upload sends files (or directories of files) to storage.
func (r *Runner) Upload(ctx context.Context, cmd *cli.Command) error {
	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		return fmt.Errorf("%w: at least one file or directory", shared.ErrMissingArgument)
	}

	b, err := r.openBook(ctx)
	if err != nil {
		return err
	}

	asJSON := cmd.Bool("json")
	progressCh := make(chan tasks.ProgressUpdate, 50)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range progressCh {
			if asJSON {
				continue
			}
			switch update.Phase {
			case tasks.ScanFiles:
				r.writePlain("📂 %s\n", update.Message)
			case tasks.UploadFiles:
				r.writePlain("   [%d/%d] %s\n", update.Step, update.Total, update.Message)
			}
		}
	}()

	uploader := tasks.NewBulkUploader(b, tasks.BulkUploadOpts{
		NumWorkers: cmd.Int("workers"),
		RateLimit:  r.config.Upload.RateLimit,
	}, r.logger)
	result, runErr := uploader.Run(ctx, progressCh, paths)
	close(progressCh)
	wg.Wait()

	if result == nil {
		return runErr
	}

	if asJSON {
		if err := r.writeJSON(newUploadReport(result), true); err != nil {
			return err
		}
	} else {
		r.writePlain("\n")
		r.writePlainHeader("Upload Complete")
		r.writePlain("%s", formatter.FormatUploadSummary(result))
	}
	return runErr
}

// Watch uploads images as they land in a directory until interrupted.
func (r *Runner) Watch(ctx context.Context, cmd *cli.Command) error {
	dir := cmd.StringArg("dir")
	if dir == "" {
		return fmt.Errorf("%w: directory to watch", shared.ErrMissingArgument)
	}

	b, err := r.openBook(ctx)
	if err != nil {
		return err
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.WatchFiles:
				r.writePlain("👀 %s (ctrl+c to stop)\n", update.Message)
			default:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	watcher := tasks.NewWatcher(dir, b, cmd.Duration("settle"), r.logger)
	err = watcher.Run(ctx, progressCh)
	close(progressCh)
	<-done
	return err
}

// Export writes the whole catalog in the chosen format.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	format := cmd.String("format")
	output := cmd.String("output")

	b, err := r.openBook(ctx)
	if err != nil {
		return err
	}
	if cmd.Bool("sync") {
		r.sync(ctx, b)
	}

	photos := b.Photos()
	title := r.config.Book.Title

	if output == "-" {
		data, err := formatter.Export(format, title, photos)
		if err != nil {
			return err
		}
		_, err = r.output.Write(data)
		return err
	}

	path, err := formatter.WriteExport(format, title, photos, output)
	if err != nil {
		return err
	}

	r.logger.Info("catalog exported", "format", format, "path", path, "photos", len(photos))
	return r.writePlain("✓ Exported %d photos to %s\n", len(photos), path)
}
