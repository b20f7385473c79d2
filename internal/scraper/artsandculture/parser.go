package artsandculture

import (
	"net/url"
	"strings"

	"ArtScraper/internal/loader"
	"ArtScraper/internal/models"
	"ArtScraper/utils"

	"github.com/PuerkitoBio/goquery"
)

// Record field names.
const (
	fieldName  = "name"
	fieldLink  = "link"
	fieldTitle = "title"
	fieldURL   = "url"
	fieldImage = "image"
)

// ParseArtists returns one record per anchor whose href contains pattern.
// Anchors without visible or labelled text are skipped.
func ParseArtists(doc *goquery.Document, base *url.URL, pattern string) []loader.Record {
	var records []loader.Record
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !strings.Contains(href, pattern) {
			return
		}
		link := utils.ResolveURL(base, href)
		if link == "" {
			return
		}
		name := anchorLabel(a)
		if name == "" {
			return
		}
		records = append(records, loader.Record{fieldName: name, fieldLink: link})
	})
	return records
}

// ParseArtworks returns one record per anchor whose href contains pattern.
// Records missing a title or URL are discarded.
func ParseArtworks(doc *goquery.Document, base *url.URL, pattern string) []loader.Record {
	var records []loader.Record
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !strings.Contains(href, pattern) {
			return
		}
		link := utils.ResolveURL(base, href)
		title := anchorLabel(a)
		if link == "" || title == "" {
			return
		}
		records = append(records, loader.Record{
			fieldTitle: title,
			fieldURL:   link,
			fieldImage: anchorImage(a, base),
		})
	})
	return records
}

// anchorLabel prefers the visible text, then the accessibility attributes,
// then the alt text of a contained image.
func anchorLabel(a *goquery.Selection) string {
	if text := utils.CollapseSpace(a.Text()); text != "" {
		return text
	}
	for _, attr := range []string{"aria-label", "title"} {
		if v, ok := a.Attr(attr); ok {
			if v = utils.CollapseSpace(v); v != "" {
				return v
			}
		}
	}
	if alt, ok := a.Find("img[alt]").First().Attr("alt"); ok {
		return utils.CollapseSpace(alt)
	}
	return ""
}

// anchorImage finds the thumbnail of an artwork card: an <img> source, a
// lazy-load data attribute, or an inline background-image.
func anchorImage(a *goquery.Selection, base *url.URL) string {
	img := a.Find("img").First()
	for _, attr := range []string{"src", "data-src"} {
		if v, ok := img.Attr(attr); ok && !strings.HasPrefix(v, "data:") {
			if abs := utils.ResolveURL(base, v); abs != "" {
				return abs
			}
		}
	}

	var image string
	a.Find("[style]").AddSelection(a).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		style, _ := s.Attr("style")
		if raw := utils.BackgroundImageURL(style); raw != "" {
			image = utils.ResolveURL(base, raw)
		}
		return image == ""
	})
	return image
}

func recordsToArtists(records []loader.Record) []models.Artist {
	artists := make([]models.Artist, 0, len(records))
	for _, r := range records {
		artists = append(artists, models.Artist{Name: r[fieldName], Link: r[fieldLink]})
	}
	return artists
}

func recordsToArtworks(records []loader.Record) []models.Artwork {
	artworks := make([]models.Artwork, 0, len(records))
	for _, r := range records {
		w := models.Artwork{Title: r[fieldTitle], URL: r[fieldURL], Image: r[fieldImage]}
		if !w.Valid() {
			continue
		}
		artworks = append(artworks, w)
	}
	return artworks
}
