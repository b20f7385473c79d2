package models

import "time"

// Artist is a seed entity: one profile on the art catalog.
type Artist struct {
	ID        int64     `json:"-"`
	Name      string    `json:"name"`
	Link      string    `json:"link"`
	Status    string    `json:"-"`
	ScrapedAt time.Time `json:"-"`
}

// Artist scrape statuses stored in the database.
const (
	StatusNeedsArtworks = "needs_artworks"
	StatusCompleted     = "completed"
	StatusFailed        = "failed"
)

// Artwork is one work linked from an artist's profile.
type Artwork struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Image string `json:"image,omitempty"`
}

// Valid reports whether the artwork carries the fields every output record needs.
func (a Artwork) Valid() bool {
	return a.Title != "" && a.URL != ""
}

// Catalog maps an artist name to the artworks collected for it.
// Artists whose scrape failed map to an empty, non-nil slice.
type Catalog map[string][]Artwork

// Count returns the total number of artworks across all artists.
func (c Catalog) Count() int {
	n := 0
	for _, works := range c {
		n += len(works)
	}
	return n
}

// RunSummary is reported at the end of an artwork run.
type RunSummary struct {
	Artists  int
	Failed   int
	Artworks int
}
