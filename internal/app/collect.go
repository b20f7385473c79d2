package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"ArtScraper/internal/models"
	"ArtScraper/internal/scraper"

	"golang.org/x/time/rate"
)

// CollectOptions controls the per-artist driver.
type CollectOptions struct {
	// Workers is the number of artists scraped at once. Values below 1 mean 1.
	Workers int
	// Delay is the minimum interval between two artist scrapes, across all workers.
	Delay time.Duration
	// OnResult, if set, is called once per finished artist from a single
	// goroutine. err is nil when the scrape succeeded.
	OnResult func(ctx context.Context, artist models.Artist, artworks []models.Artwork, err error)
}

type artistResult struct {
	index    int
	artist   models.Artist
	artworks []models.Artwork
	err      error
}

// CollectArtworks scrapes the artworks of every artist. A failed artist is
// logged and maps to an empty list; it never stops the run. When ctx ends,
// no further artists are started; the artists finished before that are
// returned together with ctx.Err().
func CollectArtworks(ctx context.Context, s scraper.ArtworkScraper, artists []models.Artist, opts CollectOptions) (models.Catalog, models.RunSummary, error) {
	workers := max(opts.Workers, 1)
	workers = min(workers, max(len(artists), 1))

	limit := rate.Inf
	if opts.Delay > 0 {
		limit = rate.Every(opts.Delay)
	}
	limiter := rate.NewLimiter(limit, 1)

	jobs := make(chan int)
	results := make(chan artistResult)

	var wg sync.WaitGroup
	for w := 1; w <= workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					continue
				}
				artist := artists[i]
				slog.Info("Scraping artworks", "worker", workerID, "artist", artist.Name, "progress", i+1, "total", len(artists))
				artworks, err := s.ScrapeArtworks(ctx, artist)
				results <- artistResult{index: i, artist: artist, artworks: artworks, err: err}
			}
		}(w)
	}

	// Dispatch in seed order; the limiter spaces out the starts.
	go func() {
		defer close(jobs)
		for i := range artists {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	finished := make([]*artistResult, len(artists))
	var summary models.RunSummary

	for res := range results {
		if res.err != nil && ctx.Err() != nil {
			// Interrupted, not failed.
			continue
		}

		summary.Artists++
		if res.err != nil {
			summary.Failed++
			slog.Warn("Failed to scrape artist, recording no artworks",
				"artist", res.artist.Name, "kind", scraper.FailureKind(res.err), "err", res.err)
			res.artworks = []models.Artwork{}
		} else {
			summary.Artworks += len(res.artworks)
			slog.Info("Artworks collected", "artist", res.artist.Name, "artworks", len(res.artworks))
		}
		finished[res.index] = &res

		if opts.OnResult != nil {
			opts.OnResult(ctx, res.artist, res.artworks, res.err)
		}
	}

	return buildCatalog(finished), summary, ctx.Err()
}

// buildCatalog assembles results in seed order, so a repeated artist name
// keeps the later seed's artworks regardless of which worker finished first.
func buildCatalog(finished []*artistResult) models.Catalog {
	catalog := models.Catalog{}
	for _, res := range finished {
		if res == nil {
			continue
		}
		if res.artworks == nil {
			res.artworks = []models.Artwork{}
		}
		catalog[res.artist.Name] = res.artworks
	}
	return catalog
}
