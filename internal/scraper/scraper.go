package scraper

import (
	"context"
	"errors"

	"ArtScraper/internal/models"
)

// Per-artist failures. The outer driver recovers from both by recording an
// empty artwork list and moving on to the next artist.
var (
	ErrNavigation = errors.New("navigation failure")
	ErrExtraction = errors.New("extraction failure")
)

// Scraper defines the basic behavior for an art-catalog site.
type Scraper interface {
	// ScrapeArtistList enumerates every artist on the catalog's listing page.
	ScrapeArtistList(ctx context.Context) ([]models.Artist, error)

	ArtworkScraper
}

// ArtworkScraper collects the artworks linked from one artist profile.
type ArtworkScraper interface {
	ScrapeArtworks(ctx context.Context, artist models.Artist) ([]models.Artwork, error)
}

// FailureKind names the class of a per-artist failure for log output.
func FailureKind(err error) string {
	switch {
	case errors.Is(err, ErrNavigation):
		return "navigation"
	case errors.Is(err, ErrExtraction):
		return "extraction"
	default:
		return "unknown"
	}
}
