// package formatter renders catalog pages and whole catalogs as CSV, Markdown, JSON or plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/photobook/internal/book"
	"github.com/desertthunder/photobook/internal/models"
	"github.com/desertthunder/photobook/internal/shared"
	"github.com/desertthunder/photobook/internal/tasks"
	"github.com/dustin/go-humanize"
)

// Formats lists the accepted format names.
var Formats = []string{"text", "csv", "markdown", "json"}

// ExportToCSV converts photos to CSV with columns: ID, Category, Description, ImageRef
func ExportToCSV(photos []models.PhotoRecord) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"ID", "Category", "Description", "ImageRef"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, p := range photos {
		if err := writer.Write([]string{p.ID, p.Category.String(), p.Description, p.ImageRef}); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportToMarkdown renders the catalog as one section per chapter, in chapter order.
// Photos without a chapter are listed last under "All Adventures".
func ExportToMarkdown(title string, photos []models.PhotoRecord) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", title)
	fmt.Fprintf(&buf, "**Photos**: %d\n\n", len(photos))

	chapters := models.Categories()
	order := make([]models.CategoryInfo, 0, len(chapters))
	order = append(order, chapters[1:]...)
	order = append(order, chapters[0])
	for _, info := range order {
		chapter := book.Filter(photos, info.ID)
		if info.ID == models.CategoryAll {
			chapter = unfiled(photos)
		}
		if len(chapter) == 0 {
			continue
		}

		fmt.Fprintf(&buf, "## %s %s\n\n", info.Emoji, info.Name)
		for i, p := range chapter {
			fmt.Fprintf(&buf, "%d. %s %s\n", i+1, p.Description, imageLink(p))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportToText renders the catalog as a numbered list.
func ExportToText(title string, photos []models.PhotoRecord) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Photobook: %s\n", title)
	fmt.Fprintf(&buf, "Photos: %d\n\n", len(photos))
	for i, p := range photos {
		fmt.Fprintf(&buf, "%d. %s %s [%s]\n", i+1, p.Emoji(), p.Description, p.Category)
	}
	return buf.Bytes(), nil
}

// Export renders photos in format.
func Export(format, title string, photos []models.PhotoRecord) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", "text", "txt":
		return ExportToText(title, photos)
	case "csv":
		return ExportToCSV(photos)
	case "markdown", "md":
		return ExportToMarkdown(title, photos)
	case "json":
		return shared.MarshalJSON(map[string]any{"title": title, "photos": photos}, true)
	default:
		return nil, fmt.Errorf("%w: unknown format %q (want one of %s)", shared.ErrInvalidFlag, format, strings.Join(Formats, ", "))
	}
}

// Extension returns the file extension for format.
func Extension(format string) string {
	switch strings.ToLower(format) {
	case "csv":
		return ".csv"
	case "markdown", "md":
		return ".md"
	case "json":
		return ".json"
	default:
		return ".txt"
	}
}

// WriteExport renders photos to path, defaulting to photobook{ext} in the working directory.
func WriteExport(format, title string, photos []models.PhotoRecord, path string) (string, error) {
	if path == "" {
		path = "photobook" + Extension(format)
	}

	data, err := Export(format, title, photos)
	if err != nil {
		return "", err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}

// FormatPage renders one page as the book shows it, including the "Page X of Y" footer.
func FormatPage(v book.View) string {
	var b strings.Builder

	info := v.Category.Info()
	fmt.Fprintf(&b, "%s %s (%d photos)\n\n", info.Emoji, info.Name, v.Count)
	if len(v.Photos) == 0 {
		b.WriteString("  No photos in this chapter yet.\n")
	}
	for _, p := range v.Photos {
		fmt.Fprintf(&b, "  %s %-24s %s\n", p.Emoji(), p.Description, p.ID)
	}
	fmt.Fprintf(&b, "\nPage %d of %d\n", v.Page+1, v.DisplayTotal)
	return b.String()
}

// FormatUploadSummary renders the outcome of a bulk upload.
func FormatUploadSummary(r *tasks.BulkUploadResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Uploaded %d of %d files (%s)", r.Uploaded, r.Total, humanize.Bytes(uint64(r.Bytes)))
	if r.Skipped > 0 {
		fmt.Fprintf(&b, ", %d skipped", r.Skipped)
	}
	if r.Failed > 0 {
		fmt.Fprintf(&b, ", %d failed", r.Failed)
	}
	b.WriteString("\n")

	for _, res := range r.Results {
		switch {
		case res.Error == nil:
			fmt.Fprintf(&b, "  ✓ %s → %s\n", res.Path, res.Record.ImageRef)
		case res.Skipped:
			fmt.Fprintf(&b, "  - %s: %v\n", res.Path, res.Error)
		default:
			fmt.Fprintf(&b, "  ✗ %s: %v\n", res.Path, res.Error)
		}
	}
	return b.String()
}

func unfiled(photos []models.PhotoRecord) []models.PhotoRecord {
	out := []models.PhotoRecord{}
	for _, p := range photos {
		if p.Category == models.CategoryAll || !p.Category.Valid() {
			out = append(out, p)
		}
	}
	return out
}

func imageLink(p models.PhotoRecord) string {
	if p.IsAsset() {
		return fmt.Sprintf("(`%s`)", p.ImageRef)
	}
	return fmt.Sprintf("([image](%s))", p.ImageRef)
}
