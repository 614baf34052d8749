package book

import (
	"testing"
	"time"

	tu "github.com/desertthunder/photobook/internal/testing"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestScheduler(t *testing.T) {
	t.Run("Close Finishes After Delay", func(t *testing.T) {
		b := newTestBook(&tu.MockStorage{}, Options{})
		s := NewScheduler(b, time.Millisecond, 5*time.Millisecond)
		b.Open()

		if !s.Close() {
			t.Fatal("expected close to start")
		}
		if !b.Snapshot().IsClosing {
			t.Error("expected closing right after Close")
		}
		waitFor(t, func() bool { st := b.Snapshot(); return !st.IsOpen && !st.IsClosing })
		waitFor(t, func() bool { return s.Pending() == 0 })
	})

	t.Run("Flip Commits After Delay", func(t *testing.T) {
		b := newTestBook(&tu.MockStorage{}, Options{PageSize: 2})
		s := NewScheduler(b, time.Millisecond, time.Millisecond)
		b.Open()

		if !s.NextPage() {
			t.Fatal("expected flip to start")
		}
		waitFor(t, func() bool { return b.Snapshot().CurrentPage == 1 })

		if !s.PrevPage() {
			t.Fatal("expected flip back")
		}
		waitFor(t, func() bool { return b.Snapshot().CurrentPage == 0 })
	})

	t.Run("Ignored Transitions Schedule Nothing", func(t *testing.T) {
		b := newTestBook(&tu.MockStorage{}, Options{})
		s := NewScheduler(b, time.Hour, time.Hour)

		if s.Close() || s.PrevPage() || s.NextPage() {
			t.Error("closed book should ignore transitions")
		}
		if s.Pending() != 0 {
			t.Errorf("expected nothing pending, got %d", s.Pending())
		}
	})

	t.Run("Stop", func(t *testing.T) {
		b := newTestBook(&tu.MockStorage{}, Options{})
		s := NewScheduler(b, time.Hour, time.Hour)
		b.Open()
		s.Close()
		s.Stop()

		if s.Pending() != 0 {
			t.Errorf("expected timers cancelled, got %d", s.Pending())
		}
		if !b.Snapshot().IsClosing {
			t.Error("stopped close should stay closing")
		}
	})
}
