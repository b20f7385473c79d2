package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"ArtScraper/internal/database"
	"ArtScraper/internal/models"
	"ArtScraper/pkg/config"

	"github.com/stretchr/testify/require"
)

func seededRepo(t *testing.T) *database.DBRepository {
	t.Helper()
	repo, err := database.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	ctx := context.Background()
	id, err := repo.SaveArtist(ctx, models.Artist{Name: "Claude Monet", Link: "https://example.org/entity/monet"})
	require.NoError(t, err)
	works := make([]models.Artwork, 0, 5)
	for _, title := range []string{"Water Lilies", "Haystacks", "Impression, Sunrise", "Rouen Cathedral", "The Magpie"} {
		works = append(works, models.Artwork{Title: title, URL: "https://example.org/asset/" + title})
	}
	require.NoError(t, repo.ReplaceArtworks(ctx, id, works))

	_, err = repo.SaveArtist(ctx, models.Artist{Name: "Frida Kahlo", Link: "https://example.org/entity/frida"})
	require.NoError(t, err)
	return repo
}

func get(t *testing.T, h http.Handler, target string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestArtworksPagination(t *testing.T) {
	h := NewHandler(seededRepo(t), config.ServerConfig{})

	testCases := []struct {
		target string
		titles []string
		page   models.Pagination
	}{
		{"/artworks?limit=2", []string{"Water Lilies", "Haystacks"}, models.Pagination{TotalPages: 3, CurrentPage: 1, Total: 5}},
		{"/artworks?limit=2&page=3", []string{"The Magpie"}, models.Pagination{TotalPages: 3, CurrentPage: 3, Total: 5}},
		{"/artworks?page=0&limit=-1", []string{"Water Lilies", "Haystacks", "Impression, Sunrise", "Rouen Cathedral", "The Magpie"}, models.Pagination{TotalPages: 1, CurrentPage: 1, Total: 5}},
		{"/artworks?artist=Frida+Kahlo", []string{}, models.Pagination{TotalPages: 0, CurrentPage: 1, Total: 0}},
	}

	for _, tc := range testCases {
		t.Run(tc.target, func(t *testing.T) {
			rec := get(t, h, tc.target, nil)
			require.Equal(t, http.StatusOK, rec.Code)
			require.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

			var resp models.ArtworkResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			titles := []string{}
			for _, w := range resp.Data {
				require.Equal(t, "Claude Monet", w.Artist)
				titles = append(titles, w.Title)
			}
			require.Equal(t, tc.titles, titles)
			require.Equal(t, tc.page, resp.Pagination)
		})
	}
}

func TestArtists(t *testing.T) {
	h := NewHandler(seededRepo(t), config.ServerConfig{})

	rec := get(t, h, "/artists", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var artists []models.ArtistRow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &artists))
	require.Equal(t, []models.ArtistRow{
		{Name: "Claude Monet", Link: "https://example.org/entity/monet", Status: models.StatusCompleted, Artworks: 5},
		{Name: "Frida Kahlo", Link: "https://example.org/entity/frida", Status: models.StatusNeedsArtworks, Artworks: 0},
	}, artists)

	rec = get(t, h, "/unknown", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPIKey(t *testing.T) {
	h := NewHandler(seededRepo(t), config.ServerConfig{ApiKey: "s3cret"})

	rec := get(t, h, "/artists", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = get(t, h, "/artists", http.Header{"X-Api-Key": {"wrong"}})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = get(t, h, "/artists", http.Header{"X-Api-Key": {"s3cret"}})
	require.Equal(t, http.StatusOK, rec.Code)
}
