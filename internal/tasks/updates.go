package tasks

import (
	"fmt"

	"github.com/desertthunder/photobook/internal/models"
	"github.com/dustin/go-humanize"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ScanFiles Phase = iota
	UploadFiles
	WatchFiles
)

func (p Phase) String() string {
	switch p {
	case ScanFiles:
		return "scan_files"
	case UploadFiles:
		return "upload_files"
	case WatchFiles:
		return "watch_files"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func scanUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ScanFiles,
		Step:    total,
		Total:   total,
		Message: fmt.Sprintf("Found %d files", total),
	}
}

func uploadedUpdate(step, total int, path string, size int64, rec models.PhotoRecord) ProgressUpdate {
	return ProgressUpdate{
		Phase:   UploadFiles,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%s)", step, total, path, humanize.Bytes(uint64(size))),
		Data:    rec,
	}
}

func skippedUpdate(step, total int, path string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   UploadFiles,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] - %s skipped: %v", step, total, path, err),
	}
}

func failedUpdate(step, total int, path string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   UploadFiles,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, path, err),
	}
}

func watchingUpdate(dir string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WatchFiles,
		Message: fmt.Sprintf("Watching %s for new photos...", dir),
	}
}
