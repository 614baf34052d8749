package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette("#C2185B", "#04B575", "#FF0000", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title    lipgloss.Style
	cover    lipgloss.Style
	page     lipgloss.Style
	card     lipgloss.Style
	caption  lipgloss.Style
	selected lipgloss.Style
	ok       lipgloss.Style
	err      lipgloss.Style
	warn     lipgloss.Style
	help     lipgloss.Style
}

// NewPalette builds the stylesheet from title, success, error, warning and help colors.
func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		cover: NewBold(t).
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color(t)).
			Padding(2, 6).
			Align(lipgloss.Center),
		page: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(h)).
			Padding(0, 1),
		card: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(h)).
			Width(22).
			Height(4).
			Align(lipgloss.Center),
		caption:  NewEm(h),
		selected: NewBold(t),
		ok:       NewBold(s),
		err:      NewBold(e),
		warn:     NewStyle(w),
		help:     NewEm(h),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
