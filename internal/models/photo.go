package models

import (
	"fmt"
	"strings"
)

// Category is a chapter of the book. Photos carry exactly one category.
type Category string

const (
	CategoryAll     Category = "all"
	CategorySleepy  Category = "sleepy"
	CategoryPlaying Category = "playing"
	CategoryEating  Category = "eating"
	CategoryNature  Category = "nature"
)

// CategoryInfo holds the display metadata of a [Category].
type CategoryInfo struct {
	ID    Category `json:"id" yaml:"id"`
	Name  string   `json:"name" yaml:"name"`
	Emoji string   `json:"emoji" yaml:"emoji"`
}

var categories = []CategoryInfo{
	{ID: CategoryAll, Name: "All Adventures", Emoji: "📚"},
	{ID: CategorySleepy, Name: "Sleepy Neumann", Emoji: "😴"},
	{ID: CategoryPlaying, Name: "Playing", Emoji: "🎾"},
	{ID: CategoryEating, Name: "Eating", Emoji: "🍽️"},
	{ID: CategoryNature, Name: "Nature", Emoji: "🌿"},
}

// Categories returns the chapters in display order, starting with [CategoryAll].
func Categories() []CategoryInfo {
	out := make([]CategoryInfo, len(categories))
	copy(out, categories)
	return out
}

// ParseCategory resolves a chapter id. Matching ignores case and surrounding space.
func ParseCategory(id string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(id)))
	if c.Valid() {
		return c, nil
	}
	return "", fmt.Errorf("unknown category %q", id)
}

// Valid reports whether c is one of the declared categories.
func (c Category) Valid() bool {
	for _, info := range categories {
		if info.ID == c {
			return true
		}
	}
	return false
}

// Info returns the display metadata for c, falling back to the raw id.
func (c Category) Info() CategoryInfo {
	for _, info := range categories {
		if info.ID == c {
			return info
		}
	}
	return CategoryInfo{ID: c, Name: string(c)}
}

func (c Category) String() string { return string(c) }

// PhotoRecord is one catalog entry. Records are values and never change after creation.
type PhotoRecord struct {
	ID          string   `json:"id" yaml:"id"`
	Category    Category `json:"category" yaml:"category"`
	Description string   `json:"description" yaml:"description"`
	ImageRef    string   `json:"image_ref" yaml:"image_ref"` // URL or asset:<name> handle
}

// AssetPrefix marks image refs that point at bundled artwork rather than a URL.
const AssetPrefix = "asset:"

// IsAsset reports whether the record points at bundled artwork.
func (p PhotoRecord) IsAsset() bool {
	return strings.HasPrefix(p.ImageRef, AssetPrefix)
}

// Emoji returns the glyph used to draw the photo in a terminal.
func (p PhotoRecord) Emoji() string {
	if e := p.Category.Info().Emoji; e != "" && p.Category != CategoryAll {
		return e
	}
	return "🖼️"
}
