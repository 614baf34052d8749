package tasks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/photobook/internal/book"
	"github.com/desertthunder/photobook/internal/shared"
	"github.com/fsnotify/fsnotify"
)

// DefaultSettle is how long a file must go without writes before it is uploaded.
const DefaultSettle = 500 * time.Millisecond

// Watcher uploads files created in a directory.
type Watcher struct {
	dir    string
	book   Uploader
	settle time.Duration
	logger *log.Logger

	mu       sync.Mutex
	pending  map[string]*time.Timer
	uploaded map[string]bool
}

// NewWatcher creates a watcher for dir. A zero settle uses [DefaultSettle].
func NewWatcher(dir string, b Uploader, settle time.Duration, logger *log.Logger) *Watcher {
	if settle <= 0 {
		settle = DefaultSettle
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Watcher{
		dir:      dir,
		book:     b,
		settle:   settle,
		logger:   shared.WithLogger(logger, "component", "watcher", "dir", dir),
		pending:  map[string]*time.Timer{},
		uploaded: map[string]bool{},
	}
}

// Run watches until ctx is done. Existing files are left alone.
func (w *Watcher) Run(ctx context.Context, prog chan<- ProgressUpdate) error {
	info, err := os.Stat(w.dir)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", shared.ErrInvalidInput, w.dir)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}

	ready := make(chan string, 16)
	defer w.stopPending()

	w.logger.Info("watching directory")
	sendProgress(prog, watchingUpdate(w.dir))

	step := 0
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			if strings.HasPrefix(filepath.Base(event.Name), ".") {
				continue
			}
			w.schedule(ctx, event.Name, ready)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("fsnotify watcher error", "error", err)

		case path := <-ready:
			step++
			w.upload(ctx, prog, step, path)
		}
	}
}

// schedule (re)starts the settle timer for path.
func (w *Watcher) schedule(ctx context.Context, path string, ready chan<- string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.uploaded[path] {
		return
	}
	if t, ok := w.pending[path]; ok {
		t.Reset(w.settle)
		return
	}
	w.pending[path] = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		select {
		case ready <- path:
		case <-ctx.Done():
		}
	})
}

func (w *Watcher) upload(ctx context.Context, prog chan<- ProgressUpdate, step int, path string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}

	w.mu.Lock()
	if w.uploaded[path] {
		w.mu.Unlock()
		return
	}
	w.uploaded[path] = true
	w.mu.Unlock()

	f, err := book.ReadFile(path)
	if err == nil {
		record, uerr := w.book.UploadPhoto(ctx, f)
		if uerr == nil {
			w.logger.Info("uploaded", "path", path, "key", record.ID)
			sendProgress(prog, uploadedUpdate(step, step, path, info.Size(), record))
			return
		}
		err = uerr
	}

	if errors.Is(err, shared.ErrValidation) {
		w.logger.Debug("skipped", "path", path, "error", err)
		sendProgress(prog, skippedUpdate(step, step, path, err))
		return
	}

	// A later write retries the file.
	w.mu.Lock()
	delete(w.uploaded, path)
	w.mu.Unlock()

	w.logger.Error("upload failed", "path", path, "error", err)
	sendProgress(prog, failedUpdate(step, step, path, err))
}

func (w *Watcher) stopPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
}
