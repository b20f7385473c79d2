// Package artsandculture scrapes artists and their artworks from the
// Google Arts & Culture catalog.
package artsandculture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"ArtScraper/internal/browser"
	"ArtScraper/internal/loader"
	"ArtScraper/internal/models"
	"ArtScraper/internal/scraper"
	"ArtScraper/pkg/config"

	"github.com/PuerkitoBio/goquery"
)

// listingPage is the part of a browser tab the scraper drives.
type listingPage interface {
	loader.Page
	Navigate(ctx context.Context, url string, timeout time.Duration) error
	HTML(ctx context.Context) (string, error)
	Close() error
}

var errNoBrowser = errors.New("scraper was built without a browser")

// pageOpener opens a fresh tab.
type pageOpener func(ctx context.Context) (listingPage, error)

// ArtsScraper holds the browser and the settings it was built with.
type ArtsScraper struct {
	ScraperConf config.ScraperConfig
	LoaderConf  config.LoaderConfig
	SiteConf    config.SiteConfig

	base        *url.URL
	listMode    loader.Mode
	artworkMode loader.Mode
	openPage    pageOpener
}

var _ scraper.Scraper = (*ArtsScraper)(nil)

// New builds a scraper that opens its tabs in b.
func New(b *browser.Browser, cfg *config.Config) (*ArtsScraper, error) {
	return newScraper(func(ctx context.Context) (listingPage, error) {
		return b.NewPage(ctx)
	}, cfg)
}

// NewStatic builds a scraper without a browser. Only FetchArtistsStatic works
// on it; the browser operations fail with ErrNavigation.
func NewStatic(cfg *config.Config) (*ArtsScraper, error) {
	return newScraper(func(ctx context.Context) (listingPage, error) {
		return nil, errNoBrowser
	}, cfg)
}

func newScraper(open pageOpener, cfg *config.Config) (*ArtsScraper, error) {
	base, err := url.Parse(cfg.Site.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid site base url: %w", err)
	}
	listMode, err := loader.ParseMode(cfg.Loader.ArtistListMode)
	if err != nil {
		return nil, fmt.Errorf("loader.artist_list_mode: %w", err)
	}
	artworkMode, err := loader.ParseMode(cfg.Loader.ArtworkMode)
	if err != nil {
		return nil, fmt.Errorf("loader.artwork_mode: %w", err)
	}
	return &ArtsScraper{
		ScraperConf: cfg.Scraper,
		LoaderConf:  cfg.Loader,
		SiteConf:    cfg.Site,
		base:        base,
		listMode:    listMode,
		artworkMode: artworkMode,
		openPage:    open,
	}, nil
}

func (s *ArtsScraper) loaderConfig(mode loader.Mode, key string) loader.Config {
	return loader.Config{
		SettleDelay:     s.LoaderConf.SettleDelay,
		MaxStableRounds: s.LoaderConf.MaxStableRounds,
		MaxAttempts:     s.LoaderConf.MaxAttempts,
		DedupKey:        loader.KeyField(key),
		Mode:            mode,
	}
}

// extractor turns the current DOM of page into records with parse.
func extractor(page listingPage, base *url.URL, pattern string, parse func(*goquery.Document, *url.URL, string) []loader.Record) loader.ExtractFunc {
	return func(ctx context.Context) ([]loader.Record, error) {
		html, err := page.HTML(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read page HTML: %w", err)
		}
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
		if err != nil {
			return nil, fmt.Errorf("failed to parse page HTML: %w", err)
		}
		return parse(doc, base, pattern), nil
	}
}

// ScrapeArtistList scrolls the artist category page until no more artists
// load and returns them in order of first appearance, unique by link.
func (s *ArtsScraper) ScrapeArtistList(ctx context.Context) ([]models.Artist, error) {
	target := s.SiteConf.CategoryURL()
	slog.Info("Starting artist list scraping", "url", target, "mode", s.listMode)

	page, err := s.openPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", scraper.ErrNavigation, err)
	}
	defer page.Close()

	if err := page.Navigate(ctx, target, s.ScraperConf.NavigationTimeout); err != nil {
		return nil, fmt.Errorf("%w: %v", scraper.ErrNavigation, err)
	}

	rs, err := loader.Enumerate(ctx, page,
		extractor(page, s.base, s.SiteConf.ArtistLinkPattern, ParseArtists),
		s.loaderConfig(s.listMode, fieldLink))
	if err != nil {
		if ctx.Err() != nil && rs != nil {
			return recordsToArtists(rs.Records), err
		}
		return nil, fmt.Errorf("%w: artist list: %v", scraper.ErrExtraction, err)
	}

	slog.Info("Artist list loaded", "artists", rs.Len(), "scrolls", rs.Attempts, "state", rs.State)
	return recordsToArtists(rs.Records), nil
}

// ScrapeArtworks opens the artist's profile, loads all lazily rendered cards
// and returns the linked artworks, unique by URL.
func (s *ArtsScraper) ScrapeArtworks(ctx context.Context, artist models.Artist) ([]models.Artwork, error) {
	page, err := s.openPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", scraper.ErrNavigation, artist.Name, err)
	}
	defer page.Close()

	if err := page.Navigate(ctx, artist.Link, s.ScraperConf.NavigationTimeout); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", scraper.ErrNavigation, artist.Name, err)
	}

	rs, err := loader.Enumerate(ctx, page,
		extractor(page, s.base, s.SiteConf.ArtworkLinkPattern, ParseArtworks),
		s.loaderConfig(s.artworkMode, fieldURL))
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %v", scraper.ErrExtraction, artist.Name, err)
	}

	slog.Debug("artist page loaded", "artist", artist.Name, "scrolls", rs.Attempts, "state", rs.State)
	return recordsToArtworks(rs.Records), nil
}
