package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.Equal(t, "https://artsandculture.google.com/category/artist", cfg.Site.CategoryURL())
}

func TestLoadConfigOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
scraper:
  workers: auto
  artist_delay: 3s
loader:
  settle_delay: 1500ms
  max_attempts: 10
storage:
  artworks_file: out/artworks.json
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "auto", cfg.Scraper.Workers)
	require.Equal(t, 3*time.Second, cfg.Scraper.ArtistDelay)
	require.Equal(t, 1500*time.Millisecond, cfg.Loader.SettleDelay)
	require.Equal(t, 10, cfg.Loader.MaxAttempts)
	require.Equal(t, "out/artworks.json", cfg.Storage.ArtworksFile)

	// untouched keys keep their defaults
	require.Equal(t, 3, cfg.Loader.MaxStableRounds)
	require.Equal(t, "artists.json", cfg.Storage.ArtistsFile)
	require.True(t, cfg.Scraper.Headless)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{"bad yaml", "scraper: [unclosed"},
		{"attempts below stable", "loader:\n  max_stable_rounds: 5\n  max_attempts: 2\n"},
		{"zero settle", "loader:\n  settle_delay: 0s\n"},
		{"relative base url", "site:\n  base_url: artsandculture.google.com\n"},
		{"empty artwork pattern", "site:\n  artwork_link_pattern: \"\"\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tc.body))
			require.Error(t, err)
		})
	}
}
