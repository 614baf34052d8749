package book

import (
	"sync"

	"github.com/desertthunder/photobook/internal/models"
)

// Catalog keeps the bundled, listed and uploaded photos as separate segments so a listing never
// overwrites an upload that finished while it was in flight.
type Catalog struct {
	mu       sync.RWMutex
	defaults []models.PhotoRecord
	remote   []models.PhotoRecord
	uploads  []models.PhotoRecord
}

// NewCatalog creates a catalog seeded with defaults.
func NewCatalog(defaults []models.PhotoRecord) *Catalog {
	return &Catalog{defaults: clone(defaults)}
}

// Photos returns defaults, then listed records, then uploads.
func (c *Catalog) Photos() []models.PhotoRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.PhotoRecord, 0, len(c.defaults)+len(c.remote)+len(c.uploads))
	out = append(out, c.defaults...)
	out = append(out, c.remote...)
	return append(out, c.uploads...)
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.defaults) + len(c.remote) + len(c.uploads)
}

// ReplaceRemote swaps in a fresh listing. Uploads the listing already contains move to the remote segment.
func (c *Catalog) ReplaceRemote(records []models.PhotoRecord) {
	listed := make(map[string]struct{}, len(records))
	for _, r := range records {
		listed[r.ID] = struct{}{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.remote = clone(records)
	kept := c.uploads[:0]
	for _, u := range c.uploads {
		if _, ok := listed[u.ID]; !ok {
			kept = append(kept, u)
		}
	}
	c.uploads = kept
}

// Append adds an uploaded record at the end.
func (c *Catalog) Append(r models.PhotoRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.uploads = append(c.uploads, r)
}

func clone(in []models.PhotoRecord) []models.PhotoRecord {
	out := make([]models.PhotoRecord, len(in))
	copy(out, in)
	return out
}
