package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ScraperConfig holds browser and outer-loop settings.
type ScraperConfig struct {
	Workers           string        `yaml:"workers"`
	Headless          bool          `yaml:"headless"`
	ProxyURL          string        `yaml:"proxy_url"`
	UserAgent         string        `yaml:"user_agent"`
	NavigationTimeout time.Duration `yaml:"navigation_timeout"`
	ArtistDelay       time.Duration `yaml:"artist_delay"`
}

// LoaderConfig holds the infinite-scroll loop settings shared by all listings.
type LoaderConfig struct {
	SettleDelay     time.Duration `yaml:"settle_delay"`
	MaxStableRounds int           `yaml:"max_stable_rounds"`
	MaxAttempts     int           `yaml:"max_attempts"`
	ArtistListMode  string        `yaml:"artist_list_mode"`
	ArtworkMode     string        `yaml:"artwork_mode"`
}

// SiteConfig holds settings specific to the art catalog.
type SiteConfig struct {
	BaseURL            string `yaml:"base_url"`
	CategoryPath       string `yaml:"category_path"`
	ArtistLinkPattern  string `yaml:"artist_link_pattern"`
	ArtworkLinkPattern string `yaml:"artwork_link_pattern"`
}

// StorageConfig names the files the tasks read and write.
type StorageConfig struct {
	DBPath       string `yaml:"db_path"`
	ArtistsFile  string `yaml:"artists_file"`
	ArtworksFile string `yaml:"artworks_file"`
}

// ServerConfig holds the read API settings.
type ServerConfig struct {
	Addr   string `yaml:"addr"`
	ApiKey string `yaml:"api_key"`
}

// Config is the complete structure for the config.yml file.
type Config struct {
	Scraper ScraperConfig `yaml:"scraper"`
	Loader  LoaderConfig  `yaml:"loader"`
	Site    SiteConfig    `yaml:"site"`
	Storage StorageConfig `yaml:"storage"`
	Server  ServerConfig  `yaml:"server"`
}

// Default returns a Config populated with the values the scraper was tuned
// against.
func Default() *Config {
	return &Config{
		Scraper: ScraperConfig{
			Workers:           "1",
			Headless:          true,
			UserAgent:         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			NavigationTimeout: 30 * time.Second,
			ArtistDelay:       time.Second,
		},
		Loader: LoaderConfig{
			SettleDelay:     2 * time.Second,
			MaxStableRounds: 3,
			MaxAttempts:     50,
			ArtistListMode:  "streaming",
			ArtworkMode:     "batch",
		},
		Site: SiteConfig{
			BaseURL:            "https://artsandculture.google.com",
			CategoryPath:       "/category/artist",
			ArtistLinkPattern:  "/entity/",
			ArtworkLinkPattern: "/asset/",
		},
		Storage: StorageConfig{
			DBPath:       "artworks.db",
			ArtistsFile:  "artists.json",
			ArtworksFile: "artworks.json",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// LoadConfig reads path over the defaults. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Warn("config file not found, using defaults", "path", path)
		return cfg, cfg.Validate()
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values that would make a run hang or scrape nothing.
func (c *Config) Validate() error {
	if c.Loader.SettleDelay <= 0 {
		return fmt.Errorf("loader.settle_delay must be positive")
	}
	if c.Loader.MaxStableRounds < 1 {
		return fmt.Errorf("loader.max_stable_rounds must be at least 1")
	}
	if c.Loader.MaxAttempts < c.Loader.MaxStableRounds {
		return fmt.Errorf("loader.max_attempts (%d) must be >= loader.max_stable_rounds (%d)", c.Loader.MaxAttempts, c.Loader.MaxStableRounds)
	}
	if c.Scraper.ArtistDelay < 0 {
		return fmt.Errorf("scraper.artist_delay must not be negative")
	}
	if c.Scraper.NavigationTimeout <= 0 {
		return fmt.Errorf("scraper.navigation_timeout must be positive")
	}
	u, err := url.Parse(c.Site.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("site.base_url %q is not an absolute URL", c.Site.BaseURL)
	}
	if c.Site.ArtistLinkPattern == "" || c.Site.ArtworkLinkPattern == "" {
		return fmt.Errorf("site link patterns must not be empty")
	}
	return nil
}

// CategoryURL is the listing page that enumerates artists.
func (s SiteConfig) CategoryURL() string {
	return s.BaseURL + s.CategoryPath
}
