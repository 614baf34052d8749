package tasks

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/photobook/internal/book"
	"github.com/desertthunder/photobook/internal/models"
	"github.com/desertthunder/photobook/internal/shared"
	"github.com/maruel/natural"
	"go.uber.org/multierr"
	"golang.org/x/time/rate"
)

// Uploader stores one photo; [book.Book] implements it.
type Uploader interface {
	UploadPhoto(ctx context.Context, f book.File) (models.PhotoRecord, error)
}

// UploadResult is the outcome for one file.
type UploadResult struct {
	Path    string
	Size    int64
	Record  *models.PhotoRecord
	Skipped bool  // rejected by validation
	Error   error // nil on success
}

// BulkUploadResult summarises a bulk upload.
type BulkUploadResult struct {
	Total    int
	Uploaded int
	Skipped  int
	Failed   int
	Bytes    int64
	Results  []UploadResult // in path order
}

// Worker pool bounds for [BulkUploader].
const (
	DefaultWorkers = 2
	MaxWorkers     = 8
)

// BulkUploadOpts contains configuration for bulk uploads.
type BulkUploadOpts struct {
	NumWorkers int     // Concurrent workers (default: 2, max: 8)
	RateLimit  float64 // Uploads per second (default: 2)
}

// BulkUploader uploads many files through a rate-limited worker pool.
type BulkUploader struct {
	book   Uploader
	opts   BulkUploadOpts
	logger *log.Logger
}

// NewBulkUploader creates an uploader for b.
func NewBulkUploader(b Uploader, opts BulkUploadOpts, logger *log.Logger) *BulkUploader {
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = DefaultWorkers
	}
	if opts.NumWorkers > MaxWorkers {
		opts.NumWorkers = MaxWorkers
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 2.0
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &BulkUploader{book: b, opts: opts, logger: shared.WithLogger(logger, "component", "bulk-upload")}
}

// ExpandPaths replaces directories with the files under them, drops hidden entries and sorts naturally.
func ExpandPaths(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}

		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			hidden := strings.HasPrefix(d.Name(), ".") && path != p
			if d.IsDir() {
				if hidden {
					return filepath.SkipDir
				}
				return nil
			}
			if !hidden {
				out = append(out, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", p, err)
		}
	}

	sort.Sort(natural.StringSlice(out))
	return out, nil
}

// Run uploads paths (files or directories).
//
// Validation rejections are counted as skipped. Other failures are combined into the returned error;
// the result is always populated.
func (u *BulkUploader) Run(ctx context.Context, prog chan<- ProgressUpdate, paths []string) (*BulkUploadResult, error) {
	files, err := ExpandPaths(paths)
	if err != nil {
		return nil, err
	}

	total := len(files)
	sendProgress(prog, scanUpdate(total))
	result := &BulkUploadResult{Total: total, Results: make([]UploadResult, total)}
	if total == 0 {
		return result, nil
	}

	limiter := rate.NewLimiter(rate.Limit(u.opts.RateLimit), 1)
	jobs := make(chan int, total)
	results := make(chan int, total)

	var wg sync.WaitGroup
	for i := 0; i < u.opts.NumWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if err := limiter.Wait(ctx); err != nil {
					result.Results[idx] = UploadResult{Path: files[idx], Error: err}
				} else {
					result.Results[idx] = u.uploadOne(ctx, files[idx])
				}
				results <- idx
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	var errs error
	for idx := range results {
		completed++
		res := result.Results[idx]

		switch {
		case res.Error == nil:
			result.Uploaded++
			result.Bytes += res.Size
			sendProgress(prog, uploadedUpdate(completed, total, res.Path, res.Size, *res.Record))
		case res.Skipped:
			result.Skipped++
			sendProgress(prog, skippedUpdate(completed, total, res.Path, res.Error))
		default:
			result.Failed++
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", res.Path, res.Error))
			sendProgress(prog, failedUpdate(completed, total, res.Path, res.Error))
		}
	}

	u.logger.Info("bulk upload finished", "uploaded", result.Uploaded, "skipped", result.Skipped, "failed", result.Failed)
	return result, errs
}

func (u *BulkUploader) uploadOne(ctx context.Context, path string) UploadResult {
	f, err := book.ReadFile(path)
	if err != nil {
		return UploadResult{Path: path, Error: err}
	}

	res := UploadResult{Path: path, Size: int64(len(f.Data))}
	rec, err := u.book.UploadPhoto(ctx, f)
	if err != nil {
		res.Error = err
		res.Skipped = errors.Is(err, shared.ErrValidation)
		return res
	}
	res.Record = &rec
	return res
}
