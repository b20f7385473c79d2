package artsandculture

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"ArtScraper/internal/loader"
	"ArtScraper/internal/models"
	"ArtScraper/internal/scraper"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html"
)

// FetchArtistsStatic reads the artist category page over plain HTTP without
// a browser. Only the server-rendered first screen of artists is available
// this way, but it needs no Chrome and is useful for quick seeding.
func (s *ArtsScraper) FetchArtistsStatic(ctx context.Context) ([]models.Artist, error) {
	target := s.SiteConf.CategoryURL()
	slog.Info("Fetching artist list without a browser", "url", target)

	client := resty.New().
		SetTimeout(s.ScraperConf.NavigationTimeout).
		SetHeader("User-Agent", s.ScraperConf.UserAgent)
	if s.ScraperConf.ProxyURL != "" {
		client.SetProxy(s.ScraperConf.ProxyURL)
	}

	resp, err := client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(target)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %v", scraper.ErrNavigation, err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: received status code %d", scraper.ErrNavigation, resp.StatusCode())
	}

	node, err := html.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing HTML: %v", scraper.ErrExtraction, err)
	}
	doc := goquery.NewDocumentFromNode(node)

	records := loader.Dedup(ParseArtists(doc, s.base, s.SiteConf.ArtistLinkPattern), loader.KeyField(fieldLink))
	slog.Info("Artist list fetched", "artists", len(records))
	return recordsToArtists(records), nil
}
