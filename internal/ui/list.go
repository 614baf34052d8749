package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/photobook/internal/book"
	"github.com/desertthunder/photobook/internal/models"
)

var (
	_ list.Item = chapterItem{}
)

// chapterItem wraps [models.CategoryInfo] to implement [list.Item].
type chapterItem struct {
	info  models.CategoryInfo
	count int
}

func (i chapterItem) FilterValue() string { return i.info.Name }
func (i chapterItem) Title() string       { return fmt.Sprintf("%s %s", i.info.Emoji, i.info.Name) }
func (i chapterItem) Description() string {
	if i.count == 1 {
		return "1 photo"
	}
	return fmt.Sprintf("%d photos", i.count)
}

// chapterItems counts the photos of every chapter.
func chapterItems(photos []models.PhotoRecord) []list.Item {
	infos := models.Categories()
	items := make([]list.Item, len(infos))
	for i, info := range infos {
		items[i] = chapterItem{info: info, count: len(book.Filter(photos, info.ID))}
	}
	return items
}

// newChapterList builds the sidebar. Filtering is off since there are only a handful of chapters.
func newChapterList(photos []models.PhotoRecord) list.Model {
	l := list.New(chapterItems(photos), list.NewDefaultDelegate(), 28, 18)
	l.Title = "Chapters"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	return l
}
