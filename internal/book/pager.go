package book

import "github.com/desertthunder/photobook/internal/models"

// View is one page of a chapter.
type View struct {
	Category     models.Category      `json:"category"`
	Page         int                  `json:"page"`
	PageSize     int                  `json:"page_size"`
	Count        int                  `json:"count"`
	TotalPages   int                  `json:"total_pages"`
	DisplayTotal int                  `json:"display_total"`
	Photos       []models.PhotoRecord `json:"photos"`
}

// Filter returns the records in chapter c, preserving catalog order. [models.CategoryAll] keeps everything.
func Filter(photos []models.PhotoRecord, c models.Category) []models.PhotoRecord {
	if c == models.CategoryAll {
		return photos
	}
	out := []models.PhotoRecord{}
	for _, p := range photos {
		if p.Category == c {
			out = append(out, p)
		}
	}
	return out
}

// TotalPages is ceil(n/size). A non-positive size has no pages.
func TotalPages(n, size int) int {
	if size <= 0 || n <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// DisplayTotal is the page count shown to readers; an empty chapter reads "Page 1 of 1".
func DisplayTotal(total int) int {
	return max(1, total)
}

// Page slices page of filtered, clamped to its bounds.
func Page(filtered []models.PhotoRecord, page, size int) []models.PhotoRecord {
	if size <= 0 || page < 0 {
		return []models.PhotoRecord{}
	}
	start := page * size
	if start >= len(filtered) {
		return []models.PhotoRecord{}
	}
	end := min(start+size, len(filtered))
	out := make([]models.PhotoRecord, end-start)
	copy(out, filtered[start:end])
	return out
}

// Paginate derives the visible page of chapter c.
func Paginate(photos []models.PhotoRecord, c models.Category, page, size int) View {
	filtered := Filter(photos, c)
	total := TotalPages(len(filtered), size)
	return View{
		Category:     c,
		Page:         page,
		PageSize:     size,
		Count:        len(filtered),
		TotalPages:   total,
		DisplayTotal: DisplayTotal(total),
		Photos:       Page(filtered, page, size),
	}
}
