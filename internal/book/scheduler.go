package book

import (
	"sync"
	"time"
)

// Scheduler drives the timed halves of close and flip for callers without an event loop.
type Scheduler struct {
	book       *Book
	flipDelay  time.Duration
	closeDelay time.Duration

	mu     sync.Mutex
	seq    int
	timers map[int]*time.Timer
}

// NewScheduler wraps b with the given transition delays.
func NewScheduler(b *Book, flipDelay, closeDelay time.Duration) *Scheduler {
	return &Scheduler{book: b, flipDelay: flipDelay, closeDelay: closeDelay, timers: map[int]*time.Timer{}}
}

// Close starts closing and finishes after the close delay.
func (s *Scheduler) Close() bool {
	if !s.book.Close() {
		return false
	}
	s.after(s.closeDelay, s.book.FinishClose)
	return true
}

// NextPage flips forward and commits after the flip delay.
func (s *Scheduler) NextPage() bool {
	if !s.book.NextPage() {
		return false
	}
	s.after(s.flipDelay, s.book.FinishFlip)
	return true
}

// PrevPage flips back and commits after the flip delay.
func (s *Scheduler) PrevPage() bool {
	if !s.book.PrevPage() {
		return false
	}
	s.after(s.flipDelay, s.book.FinishFlip)
	return true
}

// Pending returns the number of transitions not yet finished.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop cancels pending transitions.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}

func (s *Scheduler) after(d time.Duration, f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	id := s.seq
	s.timers[id] = time.AfterFunc(d, func() {
		s.mu.Lock()
		delete(s.timers, id)
		s.mu.Unlock()
		f()
	})
}
