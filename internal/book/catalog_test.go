package book

import (
	"sync"
	"testing"

	"github.com/desertthunder/photobook/internal/models"
)

func ids(photos []models.PhotoRecord) []string {
	out := make([]string, len(photos))
	for i, p := range photos {
		out[i] = p.ID
	}
	return out
}

func TestCatalog(t *testing.T) {
	defaults := []models.PhotoRecord{{ID: "1"}, {ID: "2"}}

	t.Run("Segments In Order", func(t *testing.T) {
		c := NewCatalog(defaults)
		c.Append(models.PhotoRecord{ID: "up-1"})
		c.ReplaceRemote([]models.PhotoRecord{{ID: "r-1"}, {ID: "r-2"}})

		got := ids(c.Photos())
		want := []string{"1", "2", "r-1", "r-2", "up-1"}
		if len(got) != len(want) {
			t.Fatalf("expected %v, got %v", want, got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("expected %v, got %v", want, got)
			}
		}
		if c.Len() != 5 {
			t.Errorf("expected 5 records, got %d", c.Len())
		}
	})

	t.Run("Listing Does Not Drop Uploads", func(t *testing.T) {
		c := NewCatalog(defaults)
		c.Append(models.PhotoRecord{ID: "up-1"})
		c.ReplaceRemote(nil)

		if got := ids(c.Photos()); len(got) != 3 || got[2] != "up-1" {
			t.Errorf("expected upload to survive, got %v", got)
		}
	})

	t.Run("Listed Uploads Appear Once", func(t *testing.T) {
		c := NewCatalog(defaults)
		c.Append(models.PhotoRecord{ID: "up-1"})
		c.Append(models.PhotoRecord{ID: "up-2"})
		c.ReplaceRemote([]models.PhotoRecord{{ID: "up-1"}})

		got := ids(c.Photos())
		want := []string{"1", "2", "up-1", "up-2"}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("expected %v, got %v", want, got)
			}
		}
	})

	t.Run("Replace Swaps Remote Segment", func(t *testing.T) {
		c := NewCatalog(defaults)
		c.ReplaceRemote([]models.PhotoRecord{{ID: "a"}, {ID: "b"}})
		c.ReplaceRemote([]models.PhotoRecord{{ID: "c"}})

		if got := ids(c.Photos()); len(got) != 3 || got[2] != "c" {
			t.Errorf("expected defaults plus c, got %v", got)
		}
	})

	t.Run("Photos Is A Copy", func(t *testing.T) {
		c := NewCatalog(defaults)
		photos := c.Photos()
		photos[0].ID = "mutated"
		if c.Photos()[0].ID != "1" {
			t.Error("mutating the returned slice changed the catalog")
		}
	})

	t.Run("Concurrent Appends", func(t *testing.T) {
		c := NewCatalog(nil)
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				c.Append(models.PhotoRecord{ID: "x"})
			}()
		}
		wg.Wait()
		if c.Len() != 50 {
			t.Errorf("expected 50 records, got %d", c.Len())
		}
	})
}
