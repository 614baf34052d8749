package formatter

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/photobook/internal/book"
	"github.com/desertthunder/photobook/internal/models"
	"github.com/desertthunder/photobook/internal/shared"
	"github.com/desertthunder/photobook/internal/tasks"
	th "github.com/desertthunder/photobook/internal/testing"
)

var testPhotos = []models.PhotoRecord{
	{ID: "1", Category: models.CategorySleepy, Description: "Cozy nap time", ImageRef: "asset:nap"},
	{ID: "2", Category: models.CategoryPlaying, Description: "Chasing toys, again", ImageRef: "asset:toys"},
	{ID: "abc-cat.png", Category: models.CategoryAll, Description: "Uploaded photo", ImageRef: "https://blob/photos/abc-cat.png"},
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(testPhotos)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.HasPrefix(output, "ID,Category,Description,ImageRef\n") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, `2,playing,"Chasing toys, again",asset:toys`) {
			t.Errorf("CSV should quote fields with commas, got: %s", output)
		}
		if lines := strings.Count(output, "\n"); lines != 4 {
			t.Errorf("expected 4 lines, got %d", lines)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown("The Book of Neumann", testPhotos)
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"# The Book of Neumann",
			"**Photos**: 3",
			"## 😴 Sleepy Neumann",
			"1. Cozy nap time (`asset:nap`)",
			"## 📚 All Adventures",
			"1. Uploaded photo ([image](https://blob/photos/abc-cat.png))",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("markdown missing %q:\n%s", want, output)
			}
		}
		if strings.Contains(output, "## 🌿 Nature") {
			t.Error("empty chapters should be omitted")
		}
		if strings.Index(output, "Sleepy") > strings.Index(output, "All Adventures") {
			t.Error("unfiled photos should come last")
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText("Neumann", testPhotos)
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}
		output := string(data)
		if !strings.Contains(output, "Photobook: Neumann") || !strings.Contains(output, "1. 😴 Cozy nap time [sleepy]") {
			t.Errorf("unexpected text export:\n%s", output)
		}
	})

	t.Run("Export JSON", func(t *testing.T) {
		data, err := Export("json", "Neumann", testPhotos)
		if err != nil {
			t.Fatalf("Export failed: %v", err)
		}

		var decoded struct {
			Title  string               `json:"title"`
			Photos []models.PhotoRecord `json:"photos"`
		}
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded.Title != "Neumann" || len(decoded.Photos) != 3 {
			t.Errorf("unexpected JSON export %+v", decoded)
		}
	})

	t.Run("Export Unknown Format", func(t *testing.T) {
		_, err := Export("pdf", "x", testPhotos)
		if !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})
}

func TestWriteExport(t *testing.T) {
	t.Run("Writes File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out", "book.md")

		got, err := WriteExport("markdown", "Neumann", testPhotos, path)
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if got != path {
			t.Errorf("expected %s, got %s", path, got)
		}
		th.AssertFileExists(t, path)
		if !strings.Contains(th.MustReadFile(t, path), "# Neumann") {
			t.Error("file content mismatch")
		}
	})

	t.Run("Default Path", func(t *testing.T) {
		wd, _ := os.Getwd()
		defer os.Chdir(wd)
		os.Chdir(t.TempDir())

		got, err := WriteExport("csv", "Neumann", testPhotos, "")
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if got != "photobook.csv" {
			t.Errorf("expected photobook.csv, got %s", got)
		}
		th.AssertFileExists(t, got)
	})

	t.Run("Bad Format Writes Nothing", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "x.pdf")
		if _, err := WriteExport("pdf", "x", testPhotos, path); err == nil {
			t.Fatal("expected error")
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Error("no file should be written")
		}
	})

	t.Run("Extension", func(t *testing.T) {
		for format, want := range map[string]string{"csv": ".csv", "md": ".md", "json": ".json", "text": ".txt", "": ".txt"} {
			if got := Extension(format); got != want {
				t.Errorf("Extension(%q) = %s, want %s", format, got, want)
			}
		}
	})
}

func TestFormatPage(t *testing.T) {
	t.Run("Page Footer", func(t *testing.T) {
		view := book.Paginate(testPhotos, models.CategoryAll, 1, 2)
		output := FormatPage(view)

		if !strings.Contains(output, "Page 2 of 2") {
			t.Errorf("missing footer:\n%s", output)
		}
		if !strings.Contains(output, "abc-cat.png") || strings.Contains(output, "Cozy nap time") {
			t.Errorf("wrong photos on page 2:\n%s", output)
		}
	})

	t.Run("Empty Chapter", func(t *testing.T) {
		output := FormatPage(book.Paginate(testPhotos, models.CategoryNature, 0, 4))
		if !strings.Contains(output, "Page 1 of 1") || !strings.Contains(output, "No photos") {
			t.Errorf("unexpected empty page:\n%s", output)
		}
	})
}

func TestFormatUploadSummary(t *testing.T) {
	rec := models.PhotoRecord{ID: "k", ImageRef: "https://blob/k.png"}
	result := &tasks.BulkUploadResult{
		Total:    3,
		Uploaded: 1,
		Skipped:  1,
		Failed:   1,
		Bytes:    2048,
		Results: []tasks.UploadResult{
			{Path: "a.png", Record: &rec},
			{Path: "b.txt", Skipped: true, Error: shared.ErrValidation},
			{Path: "c.png", Error: shared.ErrTransport},
		},
	}

	output := FormatUploadSummary(result)
	for _, want := range []string{"Uploaded 1 of 3 files (2.0 kB)", "1 skipped", "1 failed", "✓ a.png → https://blob/k.png", "- b.txt", "✗ c.png"} {
		if !strings.Contains(output, want) {
			t.Errorf("summary missing %q:\n%s", want, output)
		}
	}
}
