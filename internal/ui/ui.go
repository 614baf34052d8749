package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/photobook/internal/book"
	"github.com/desertthunder/photobook/internal/models"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	CoverView ViewState = iota
	PageView
	UploadView
)

const (
	defaultTitle = "The Book of Neumann"
	gridColumns  = 2
)

// Options tune the timed transitions of the TUI.
type Options struct {
	FlipDelay  time.Duration
	CloseDelay time.Duration
}

// Model represents the TUI application state.
type Model struct {
	ctx        context.Context
	view       ViewState
	book       *book.Book
	flipDelay  time.Duration
	closeDelay time.Duration
	width      int
	height     int
	chapters   list.Model
	prompt     textinput.Model
	spinner    spinner.Model
	syncing    bool
	uploads    int
	status     string
	err        error
	help       help.Model
	keys       keyMap
}

// NewModel creates a new TUI model over b.
func NewModel(ctx context.Context, b *book.Book, opts Options) *Model {
	prompt := textinput.New()
	prompt.Placeholder = "~/Pictures/neumann.jpg"
	prompt.Prompt = "path: "
	prompt.CharLimit = 512
	prompt.Width = 48

	return &Model{
		ctx:        ctx,
		view:       CoverView,
		book:       b,
		flipDelay:  opts.FlipDelay,
		closeDelay: opts.CloseDelay,
		chapters:   newChapterList(b.Photos()),
		prompt:     prompt,
		spinner:    spinner.New(spinner.WithSpinner(spinner.MiniDot)),
		help:       help.New(),
		keys:       newKeyMap(),
	}
}

// Init renders the closed cover; nothing is fetched until the book is opened.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.chapters.SetHeight(max(msg.Height-8, 10))
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case CoverView:
			return m.handleCoverKeys(msg)
		case PageView:
			return m.handlePageKeys(msg)
		case UploadView:
			return m.handleUploadKeys(msg)
		}

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		return m.handleMsg(msg)
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case CoverView:
		return m.renderCover()
	case PageView:
		return m.renderPage()
	case UploadView:
		return m.renderUpload()
	default:
		return ""
	}
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgSynced:
		m.syncing = false
		if err, _ := msg.data.(error); err != nil {
			m.setStatus(fmt.Errorf("could not reach photo storage, showing bundled photos: %w", err))
		} else {
			m.setStatus(nil)
		}
		m.refreshChapters()

	case MsgUploaded:
		m.uploads--
		data := msg.data.(struct {
			record models.PhotoRecord
			err    error
		})
		if data.err != nil {
			m.setStatus(data.err)
			return m, nil
		}
		m.status = fmt.Sprintf("Added %s to the book", data.record.ID)
		m.err = nil
		m.refreshChapters()

	case MsgFlipDone:
		m.book.FinishFlip()

	case MsgCloseDone:
		m.book.FinishClose()
		m.chapters.Select(0)
		m.status = ""
		m.err = nil
	}
	return m, nil
}

func (m *Model) handleCoverKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.open):
		first := m.book.Open()
		if !m.book.Snapshot().IsOpen {
			return m, nil
		}
		m.view = PageView
		if first {
			m.syncing = true
			return m, tea.Batch(m.sync(), m.spinner.Tick)
		}
	}
	return m, nil
}

func (m *Model) handlePageKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.next):
		if m.book.NextPage() {
			return m, m.after(m.flipDelay, flipDoneMsg)
		}
	case key.Matches(msg, m.keys.prev):
		if m.book.PrevPage() {
			return m, m.after(m.flipDelay, flipDoneMsg)
		}
	case key.Matches(msg, m.keys.up):
		m.chapters.CursorUp()
		m.selectChapter()
	case key.Matches(msg, m.keys.down):
		m.chapters.CursorDown()
		m.selectChapter()
	case key.Matches(msg, m.keys.upload):
		m.view = UploadView
		m.prompt.Reset()
		return m, m.prompt.Focus()
	case key.Matches(msg, m.keys.close):
		if m.book.Close() {
			m.view = CoverView
			return m, m.after(m.closeDelay, closeDoneMsg)
		}
	}
	return m, nil
}

func (m *Model) handleUploadKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.cancel):
		m.prompt.Blur()
		m.view = PageView
		return m, nil
	case key.Matches(msg, m.keys.submit):
		path := strings.TrimSpace(m.prompt.Value())
		if path == "" {
			return m, nil
		}
		m.prompt.Blur()
		m.view = PageView
		m.uploads++
		m.status = fmt.Sprintf("Uploading %s", filepath.Base(path))
		m.err = nil
		return m, tea.Batch(m.uploadPhoto(path), m.spinner.Tick)
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

// selectChapter applies the sidebar cursor to the book.
func (m *Model) selectChapter() {
	item, ok := m.chapters.SelectedItem().(chapterItem)
	if !ok || item.info.ID == m.book.Snapshot().SelectedCategory {
		return
	}
	if err := m.book.SelectCategory(string(item.info.ID)); err != nil {
		m.setStatus(err)
	}
}

func (m *Model) refreshChapters() {
	m.chapters.SetItems(chapterItems(m.book.Photos()))
}

func (m *Model) setStatus(err error) {
	m.err = err
	if err == nil {
		m.status = ""
		return
	}
	m.status = err.Error()
}

func (m *Model) busy() bool {
	return m.syncing || m.uploads > 0
}

func (m *Model) after(d time.Duration, done func() Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return done() })
}

func (m *Model) sync() tea.Cmd {
	return func() tea.Msg {
		return syncedMsg(m.book.Refresh(m.ctx))
	}
}

func (m *Model) uploadPhoto(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := book.ReadFile(expandHome(path))
		if err != nil {
			return uploadedMsg(models.PhotoRecord{}, err)
		}
		record, err := m.book.UploadPhoto(m.ctx, f)
		return uploadedMsg(record, err)
	}
}

func (m *Model) title() string {
	if t := m.book.Snapshot().Title; t != "" {
		return t
	}
	return defaultTitle
}

func (m *Model) center(s string) string {
	if m.width == 0 || m.height == 0 {
		return s
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, s)
}

func (m *Model) renderCover() string {
	hint := "press enter to open"
	if m.book.Snapshot().IsClosing {
		hint = "closing..."
	}

	cover := styles.cover.Render(fmt.Sprintf("📖\n\n%s\n\n%s", m.title(), styles.caption.Render(hint)))
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.open, m.keys.quit})
	return m.center(fmt.Sprintf("%s\n\n%s", cover, helpView))
}

func (m *Model) renderPage() string {
	snap := m.book.Snapshot()
	header := styles.title.Render("📖 " + m.title())
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.chapters.View(), "  ", m.renderSpread(snap))
	return fmt.Sprintf("%s\n%s\n\n%s\n%s", header, body, m.renderStatus(), m.help.View(m.keys))
}

// renderSpread draws the current page as a grid of photo cards.
func (m *Model) renderSpread(snap book.State) string {
	info := snap.SelectedCategory.Info()
	heading := styles.selected.Render(fmt.Sprintf("%s %s", info.Emoji, info.Name))

	var content string
	switch {
	case snap.IsFlipping:
		content = styles.caption.Render("~ turning the page ~")
	case len(snap.VisiblePhotos) == 0:
		content = styles.caption.Render("No photos in this chapter yet")
	default:
		var rows []string
		for i := 0; i < len(snap.VisiblePhotos); i += gridColumns {
			end := min(i+gridColumns, len(snap.VisiblePhotos))
			cards := make([]string, 0, gridColumns)
			for _, p := range snap.VisiblePhotos[i:end] {
				cards = append(cards, styles.card.Render(fmt.Sprintf("%s\n\n%s", p.Emoji(), p.Description)))
			}
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
		}
		content = lipgloss.JoinVertical(lipgloss.Left, rows...)
	}

	footer := styles.caption.Render(fmt.Sprintf("Page %d of %d", snap.CurrentPage+1, snap.DisplayTotal))
	return styles.page.Render(lipgloss.JoinVertical(lipgloss.Left, heading, "", content, "", footer))
}

func (m *Model) renderStatus() string {
	switch {
	case m.syncing:
		return fmt.Sprintf("%s syncing photos...", m.spinner.View())
	case m.uploads > 0:
		return fmt.Sprintf("%s %s", m.spinner.View(), m.status)
	case m.err != nil:
		return styles.err.Render(m.status)
	case m.status != "":
		return styles.ok.Render("✓ " + m.status)
	default:
		return ""
	}
}

func (m *Model) renderUpload() string {
	title := styles.title.Render("Add a photo to " + m.title())
	info := styles.caption.Render("Images only. The photo joins the All Adventures chapter.")
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.submit, m.keys.cancel})
	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s", title, m.prompt.View(), info, helpView)
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
