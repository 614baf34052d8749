package book

import "github.com/desertthunder/photobook/internal/models"

// Phase is the cover state.
type Phase int

const (
	Closed Phase = iota
	Open
	Closing
)

func (p Phase) String() string {
	switch p {
	case Open:
		return "open"
	case Closing:
		return "closing"
	default:
		return "closed"
	}
}

// Session is the transient view state of one reader.
//
// Every method returns a new value; timers are the caller's concern. Close, NextPage and PrevPage
// report whether a transition started, in which case the caller must later call FinishClose or
// FinishFlip.
type Session struct {
	Phase    Phase
	Page     int
	Category models.Category
	Flipping bool

	pending int
}

// NewSession returns a closed book on the first page of every chapter.
func NewSession() Session {
	return Session{Phase: Closed, Category: models.CategoryAll}
}

// Open moves Closed to Open. Opening while the cover is closing is ignored; the close completes.
func (s Session) Open() Session {
	if s.Phase == Closed {
		s.Phase = Open
	}
	return s
}

// Close starts closing an open book.
func (s Session) Close() (Session, bool) {
	if s.Phase != Open {
		return s, false
	}
	s.Phase = Closing
	return s, true
}

// FinishClose completes a close and resets the page and chapter.
func (s Session) FinishClose() Session {
	if s.Phase != Closing {
		return s
	}
	return NewSession()
}

// SelectCategory switches chapter and returns to its first page. An in-flight flip is dropped.
func (s Session) SelectCategory(c models.Category) Session {
	s.Category = c
	s.Page = 0
	s.Flipping = false
	s.pending = 0
	return s
}

// NextPage starts a flip forward unless total pages are exhausted.
func (s Session) NextPage(total int) (Session, bool) {
	if s.Phase != Open || s.Flipping || s.Page >= total-1 {
		return s, false
	}
	s.Flipping = true
	s.pending = s.Page + 1
	return s, true
}

// PrevPage starts a flip back unless already on the first page.
func (s Session) PrevPage() (Session, bool) {
	if s.Phase != Open || s.Flipping || s.Page <= 0 {
		return s, false
	}
	s.Flipping = true
	s.pending = s.Page - 1
	return s, true
}

// FinishFlip commits the pending page.
func (s Session) FinishFlip() Session {
	if !s.Flipping {
		return s
	}
	s.Page = s.pending
	s.Flipping = false
	return s
}

// Clamp keeps Page inside [0, total) when total > 0.
func (s Session) Clamp(total int) Session {
	if total > 0 && s.Page >= total {
		s.Page = total - 1
	}
	if s.Page < 0 {
		s.Page = 0
	}
	return s
}
