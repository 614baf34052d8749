// Package ui implements an interactive terminal photobook using bubbletea's Elm architecture.
//
// The TUI has three views:
//  1. [CoverView] : the closed (or closing) cover
//  2. [PageView] : chapters on the left, the current page of photos on the right
//  3. [UploadView] : a path prompt for adding a photo
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Page flips and the closing cover are timed with [tea.Tick]; listing and uploading run as commands so the
// interface keeps rendering while the network calls are in flight.
//
// Keyboard navigation uses vim-style bindings (h/l, j/k, enter, esc, u, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
