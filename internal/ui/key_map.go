package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	open   key.Binding
	close  key.Binding
	next   key.Binding
	prev   key.Binding
	up     key.Binding
	down   key.Binding
	upload key.Binding
	submit key.Binding
	cancel key.Binding
	help   key.Binding
	quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		open:   key.NewBinding(key.WithKeys("enter", " ", "o"), key.WithHelp("enter", "open book")),
		close:  key.NewBinding(key.WithKeys("c", "esc"), key.WithHelp("c/esc", "close book")),
		next:   key.NewBinding(key.WithKeys("right", "l", "n"), key.WithHelp("→/l", "next page")),
		prev:   key.NewBinding(key.WithKeys("left", "h", "p"), key.WithHelp("←/h", "previous page")),
		up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "previous chapter")),
		down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next chapter")),
		upload: key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "add photo")),
		submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "upload")),
		cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.prev, k.next, k.upload, k.help, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.prev, k.next},
		{k.up, k.down},
		{k.upload, k.close},
		{k.help, k.quit},
	}
}
