package ui

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/photobook/internal/book"
	"github.com/desertthunder/photobook/internal/models"
	"github.com/desertthunder/photobook/internal/services"
	"github.com/desertthunder/photobook/internal/shared"
	tu "github.com/desertthunder/photobook/internal/testing"
)

func newTestModel(storage *tu.MockStorage) *Model {
	b := book.New(storage, book.Options{
		Title:    "The Book of Neumann",
		PageSize: 4,
		Logger:   shared.NewLogger(io.Discard),
	})
	return NewModel(context.Background(), b, Options{})
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var enter = tea.KeyMsg{Type: tea.KeyEnter}

// drain runs cmd and feeds every resulting message back into m. Spinner ticks are dropped.
func drain(m *Model, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case nil, spinner.TickMsg, tea.QuitMsg:
	case tea.BatchMsg:
		for _, c := range msg {
			drain(m, c)
		}
	default:
		_, next := m.Update(msg)
		drain(m, next)
	}
}

func press(m *Model, msg tea.KeyMsg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

func TestCover(t *testing.T) {
	t.Run("starts closed", func(t *testing.T) {
		m := newTestModel(&tu.MockStorage{})
		if m.Init() != nil {
			t.Error("expected no startup command")
		}
		if m.view != CoverView {
			t.Errorf("expected cover view, got %d", m.view)
		}
		if out := m.View(); !strings.Contains(out, "The Book of Neumann") || !strings.Contains(out, "press enter to open") {
			t.Errorf("unexpected cover:\n%s", out)
		}
	})

	t.Run("first open syncs once", func(t *testing.T) {
		storage := &tu.MockStorage{Objects: []services.Object{
			{Key: "garden-day.jpg", URL: "https://acct.blob.core.windows.net/photos/garden-day.jpg"},
		}}
		m := newTestModel(storage)

		cmd := press(m, enter)
		if m.view != PageView || !m.syncing {
			t.Fatalf("expected page view while syncing, got view %d syncing %v", m.view, m.syncing)
		}
		if !strings.Contains(m.View(), "syncing photos") {
			t.Error("expected syncing indicator")
		}
		drain(m, cmd)

		if m.syncing {
			t.Error("expected sync to finish")
		}
		if got := len(m.book.Photos()); got != 9 {
			t.Errorf("expected 9 photos after sync, got %d", got)
		}
		all := m.chapters.Items()[0].(chapterItem)
		if all.count != 9 {
			t.Errorf("expected all chapter to count 9, got %d", all.count)
		}

		drain(m, press(m, runes("c")))
		if cmd := press(m, enter); cmd != nil {
			drain(m, cmd)
		}
		if storage.ListCalls != 1 {
			t.Errorf("expected a single listing, got %d", storage.ListCalls)
		}
	})

	t.Run("failed sync keeps bundled photos", func(t *testing.T) {
		m := newTestModel(&tu.MockStorage{ListErr: errors.New("connection refused")})
		drain(m, press(m, enter))

		if got := len(m.book.Photos()); got != 8 {
			t.Errorf("expected bundled photos, got %d", got)
		}
		if m.err == nil || !strings.Contains(m.status, "bundled") {
			t.Errorf("expected a sync warning, got %q", m.status)
		}
	})

	t.Run("quit", func(t *testing.T) {
		m := newTestModel(&tu.MockStorage{})
		cmd := press(m, runes("q"))
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}
	})
}

func TestPages(t *testing.T) {
	open := func(t *testing.T) *Model {
		t.Helper()
		m := newTestModel(&tu.MockStorage{})
		drain(m, press(m, enter))
		return m
	}

	t.Run("flip forward and back", func(t *testing.T) {
		m := open(t)
		if !strings.Contains(m.View(), "Page 1 of 2") {
			t.Fatalf("expected first page:\n%s", m.View())
		}

		cmd := press(m, runes("l"))
		if !m.book.Snapshot().IsFlipping {
			t.Fatal("expected flip in progress")
		}
		if !strings.Contains(m.View(), "turning the page") {
			t.Error("expected flip placeholder")
		}
		if again := press(m, runes("l")); again != nil {
			t.Error("expected flip during flip to be ignored")
		}
		drain(m, cmd)

		s := m.book.Snapshot()
		if s.IsFlipping || s.CurrentPage != 1 {
			t.Errorf("expected settled page 1, got %+v", s)
		}
		if !strings.Contains(m.View(), "Page 2 of 2") {
			t.Errorf("expected second page:\n%s", m.View())
		}

		if cmd := press(m, runes("l")); cmd != nil {
			t.Error("expected next at last page to be a no-op")
		}

		drain(m, press(m, runes("h")))
		if got := m.book.Snapshot().CurrentPage; got != 0 {
			t.Errorf("expected page 0, got %d", got)
		}
	})

	t.Run("chapters reset the page", func(t *testing.T) {
		m := open(t)
		drain(m, press(m, runes("l")))

		press(m, runes("j"))
		s := m.book.Snapshot()
		if s.SelectedCategory != models.CategorySleepy || s.CurrentPage != 0 {
			t.Errorf("expected sleepy page 0, got %s page %d", s.SelectedCategory, s.CurrentPage)
		}
		if len(s.VisiblePhotos) != 2 {
			t.Errorf("expected 2 sleepy photos, got %d", len(s.VisiblePhotos))
		}
		if out := m.View(); !strings.Contains(out, "Sleepy Neumann") || !strings.Contains(out, "Page 1 of 1") {
			t.Errorf("unexpected chapter view:\n%s", out)
		}

		press(m, runes("k"))
		if got := m.book.Snapshot().SelectedCategory; got != models.CategoryAll {
			t.Errorf("expected all, got %s", got)
		}
	})

	t.Run("close resets the session", func(t *testing.T) {
		m := open(t)
		press(m, runes("j"))

		cmd := press(m, runes("c"))
		if m.view != CoverView || !m.book.Snapshot().IsClosing {
			t.Fatal("expected closing cover")
		}
		if !strings.Contains(m.View(), "closing...") {
			t.Error("expected closing hint")
		}
		if reopen := press(m, enter); reopen != nil || m.view != CoverView {
			t.Error("expected open during close to be ignored")
		}
		drain(m, cmd)

		s := m.book.Snapshot()
		if s.IsOpen || s.IsClosing || s.SelectedCategory != models.CategoryAll || s.CurrentPage != 0 {
			t.Errorf("expected reset closed book, got %+v", s)
		}
		if m.chapters.Index() != 0 {
			t.Errorf("expected sidebar reset, got %d", m.chapters.Index())
		}
	})

	t.Run("help toggles", func(t *testing.T) {
		m := open(t)
		press(m, runes("?"))
		if !m.help.ShowAll {
			t.Error("expected full help")
		}
	})
}

func TestUpload(t *testing.T) {
	upload := func(m *Model, path string) {
		press(m, runes("u"))
		press(m, runes(path))
		drain(m, press(m, enter))
	}

	t.Run("adds a photo", func(t *testing.T) {
		storage := &tu.MockStorage{}
		m := newTestModel(storage)
		drain(m, press(m, enter))

		path := filepath.Join(t.TempDir(), "sunny nap.png")
		tu.MustWriteFile(t, path, tu.PNGBytes(t, 4, 4))

		press(m, runes("u"))
		if m.view != UploadView {
			t.Fatalf("expected upload view, got %d", m.view)
		}
		if !strings.Contains(m.View(), "Add a photo") {
			t.Error("expected upload prompt")
		}
		press(m, runes(path))
		cmd := press(m, enter)
		if m.view != PageView || m.uploads != 1 {
			t.Fatalf("expected pending upload on page view, got view %d uploads %d", m.view, m.uploads)
		}
		drain(m, cmd)

		if storage.UploadCount() != 1 {
			t.Fatalf("expected one upload, got %d", storage.UploadCount())
		}
		if m.err != nil || !strings.Contains(m.status, "Added") {
			t.Errorf("expected success status, got %q (%v)", m.status, m.err)
		}
		photos := m.book.Photos()
		last := photos[len(photos)-1]
		if last.Description != book.UploadedDescription || strings.Contains(last.ImageRef, "?") {
			t.Errorf("unexpected uploaded record %+v", last)
		}
		if !strings.HasSuffix(last.ID, "-sunny-nap.png") {
			t.Errorf("unexpected key %q", last.ID)
		}
	})

	t.Run("rejects non-images", func(t *testing.T) {
		storage := &tu.MockStorage{}
		m := newTestModel(storage)
		drain(m, press(m, enter))

		path := filepath.Join(t.TempDir(), "notes.txt")
		tu.MustWriteFile(t, path, []byte("not a photo"))
		upload(m, path)

		if !errors.Is(m.err, shared.ErrValidation) {
			t.Errorf("expected validation error, got %v", m.err)
		}
		if storage.UploadCount() != 0 || len(m.book.Photos()) != 8 {
			t.Error("expected no upload and no catalog change")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		m := newTestModel(&tu.MockStorage{})
		drain(m, press(m, enter))
		upload(m, filepath.Join(t.TempDir(), "missing.png"))

		if m.err == nil || m.uploads != 0 {
			t.Errorf("expected read error, got %v (uploads %d)", m.err, m.uploads)
		}
	})

	t.Run("escape cancels", func(t *testing.T) {
		m := newTestModel(&tu.MockStorage{})
		drain(m, press(m, enter))
		press(m, runes("u"))
		press(m, tea.KeyMsg{Type: tea.KeyEsc})
		if m.view != PageView {
			t.Errorf("expected page view, got %d", m.view)
		}
	})
}
