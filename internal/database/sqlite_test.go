package database

import (
	"context"
	"path/filepath"
	"testing"

	"ArtScraper/internal/models"

	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DBRepository {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSaveArtistUpsert(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()

	id, err := repo.SaveArtist(ctx, models.Artist{Name: "Monet", Link: "https://example.org/entity/monet"})
	require.NoError(t, err)
	require.NoError(t, repo.UpdateArtistStatus(ctx, id, models.StatusFailed))

	again, err := repo.SaveArtist(ctx, models.Artist{Name: "Claude Monet", Link: "https://example.org/entity/monet"})
	require.NoError(t, err)
	require.Equal(t, id, again)

	failed, err := repo.GetArtistsByStatus(ctx, models.StatusFailed)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	require.Equal(t, "Claude Monet", failed[0].Name, "name is refreshed")
	require.Equal(t, models.StatusFailed, failed[0].Status, "status is kept")
}

func TestReplaceArtworksAndCatalog(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()

	a, err := repo.SaveArtist(ctx, models.Artist{Name: "A", Link: "http://x/a"})
	require.NoError(t, err)
	_, err = repo.SaveArtist(ctx, models.Artist{Name: "B", Link: "http://x/b"})
	require.NoError(t, err)

	require.NoError(t, repo.ReplaceArtworks(ctx, a, []models.Artwork{
		{Title: "Old", URL: "http://x/a/0"},
	}))
	require.NoError(t, repo.ReplaceArtworks(ctx, a, []models.Artwork{
		{Title: "Work1", URL: "http://x/a/1", Image: "http://img/1"},
		{Title: "Work2", URL: "http://x/a/2"},
		{Title: "Work1 again", URL: "http://x/a/1"},
	}))

	catalog, err := repo.GetCatalog(ctx)
	require.NoError(t, err)
	require.Equal(t, models.Catalog{
		"A": {
			{Title: "Work1", URL: "http://x/a/1", Image: "http://img/1"},
			{Title: "Work2", URL: "http://x/a/2"},
		},
		"B": {},
	}, catalog)

	completed, err := repo.GetArtistsByStatus(ctx, models.StatusCompleted)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	require.Equal(t, a, completed[0].ID)

	pending, err := repo.GetArtistsByStatus(ctx, models.StatusNeedsArtworks)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, "B", pending[0].Name)
}

func TestListArtworksPagination(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()

	a, err := repo.SaveArtist(ctx, models.Artist{Name: "A", Link: "http://x/a"})
	require.NoError(t, err)
	b, err := repo.SaveArtist(ctx, models.Artist{Name: "B", Link: "http://x/b"})
	require.NoError(t, err)

	require.NoError(t, repo.ReplaceArtworks(ctx, a, []models.Artwork{
		{Title: "A1", URL: "http://x/a/1"},
		{Title: "A2", URL: "http://x/a/2"},
		{Title: "A3", URL: "http://x/a/3"},
	}))
	require.NoError(t, repo.ReplaceArtworks(ctx, b, []models.Artwork{
		{Title: "B1", URL: "http://x/b/1"},
	}))

	testCases := []struct {
		name    string
		filters models.ArtworkFilters
		titles  []string
		total   int
	}{
		{"first page", models.ArtworkFilters{Limit: 2}, []string{"A1", "A2"}, 4},
		{"second page", models.ArtworkFilters{Limit: 2, Offset: 2}, []string{"A3", "B1"}, 4},
		{"by artist", models.ArtworkFilters{Artist: "B", Limit: 10}, []string{"B1"}, 1},
		{"unknown artist", models.ArtworkFilters{Artist: "C", Limit: 10}, []string{}, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rows, err := repo.ListArtworks(ctx, tc.filters)
			require.NoError(t, err)
			titles := []string{}
			for _, r := range rows {
				titles = append(titles, r.Title)
			}
			require.Equal(t, tc.titles, titles)

			total, err := repo.CountArtworks(ctx, tc.filters)
			require.NoError(t, err)
			require.Equal(t, tc.total, total)
		})
	}

	artists, err := repo.ListArtists(ctx)
	require.NoError(t, err)
	require.Equal(t, []models.ArtistRow{
		{Name: "A", Link: "http://x/a", Status: models.StatusCompleted, Artworks: 3},
		{Name: "B", Link: "http://x/b", Status: models.StatusCompleted, Artworks: 1},
	}, artists)
}
