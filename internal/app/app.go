package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"ArtScraper/internal/browser"
	"ArtScraper/internal/database"
	"ArtScraper/internal/models"
	"ArtScraper/internal/scraper"
	"ArtScraper/internal/scraper/artsandculture"
	"ArtScraper/internal/storage"
	"ArtScraper/pkg/config"
	"ArtScraper/utils"
)

// siteScraper is what the tasks need from a catalog scraper.
type siteScraper interface {
	scraper.Scraper
	FetchArtistsStatic(ctx context.Context) ([]models.Artist, error)
}

// scraperFactory starts a scraper and returns the function that releases it.
// Without a browser only the static artist fetch is usable.
type scraperFactory func(cfg *config.Config, withBrowser bool) (siteScraper, func(), error)

// App is the main application structure holding all dependencies.
type App struct {
	Config *config.Config
	Repo   *database.DBRepository

	newScraper scraperFactory
}

// New creates a new application instance from the config file at cfgPath.
func New(cfgPath string) (*App, error) {
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	repo, err := database.Open(cfg.Storage.DBPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrFatalIO, err)
	}
	return &App{
		Config:     cfg,
		Repo:       repo,
		newScraper: launchScraper,
	}, nil
}

// Close releases the database.
func (a *App) Close() error {
	return a.Repo.Close()
}

// launchScraper starts a browser and builds the catalog scraper on it.
func launchScraper(cfg *config.Config, withBrowser bool) (siteScraper, func(), error) {
	if !withBrowser {
		s, err := artsandculture.NewStatic(cfg)
		return s, func() {}, err
	}

	b, err := browser.Launch(cfg.Scraper)
	if err != nil {
		return nil, nil, err
	}
	s, err := artsandculture.New(b, cfg)
	if err != nil {
		b.Close()
		return nil, nil, err
	}
	return s, func() { b.Close() }, nil
}

// RunArtistScraper enumerates the artists of the category page, writes them
// to the artists file and registers them in the database. With static set
// the page is fetched over plain HTTP instead of a browser.
func (a *App) RunArtistScraper(ctx context.Context, static bool) error {
	slog.Info("--- Starting Artist List Scraping Task ---", "static", static)

	s, release, err := a.newScraper(a.Config, !static)
	if err != nil {
		return fmt.Errorf("starting scraper: %w", err)
	}
	defer release()

	var artists []models.Artist
	if static {
		artists, err = s.FetchArtistsStatic(ctx)
	} else {
		artists, err = s.ScrapeArtistList(ctx)
	}
	if err != nil && len(artists) == 0 {
		return fmt.Errorf("failed to scrape artist list: %w", err)
	}
	if err != nil {
		slog.Warn("Artist list interrupted, keeping what was loaded", "artists", len(artists), "err", err)
	}

	if werr := storage.WriteArtists(a.Config.Storage.ArtistsFile, artists); werr != nil {
		return werr
	}

	var savedCount int
	for _, artist := range artists {
		if _, serr := a.Repo.SaveArtist(context.WithoutCancel(ctx), artist); serr != nil {
			slog.Warn("Failed to save artist", "artist", artist.Name, "err", serr)
			continue
		}
		savedCount++
	}

	slog.Info("--- Artist List Scraping Task Finished ---",
		"artists", len(artists), "saved", savedCount, "file", a.Config.Storage.ArtistsFile)
	return err
}

// RunArtworkScraper collects the artworks of every seed artist and writes the
// catalog. With pending set the seeds are the artists the database has not
// completed yet, and the whole database catalog is written afterwards.
func (a *App) RunArtworkScraper(ctx context.Context, pending bool) error {
	slog.Info("--- Starting Artwork Scraping Task ---", "pending", pending)

	artists, err := a.seedArtists(ctx, pending)
	if err != nil {
		return err
	}
	if len(artists) == 0 {
		slog.Info("No artists are awaiting artwork scraping. Task finished.")
		if pending {
			return a.ExportCatalog(ctx)
		}
		return storage.WriteCatalog(a.Config.Storage.ArtworksFile, models.Catalog{})
	}
	slog.Info("Found artists to scrape", "artists", len(artists))

	s, release, err := a.newScraper(a.Config, true)
	if err != nil {
		return fmt.Errorf("starting scraper: %w", err)
	}
	defer release()

	catalog, summary, runErr := CollectArtworks(ctx, s, artists, CollectOptions{
		Workers:  utils.GetOptimalWorkerCount(a.Config.Scraper.Workers),
		Delay:    a.Config.Scraper.ArtistDelay,
		OnResult: a.persistResult,
	})
	if runErr != nil {
		slog.Warn("Artwork scraping interrupted, writing partial results", "err", runErr)
	}

	if pending {
		err = a.ExportCatalog(context.WithoutCancel(ctx))
	} else {
		err = storage.WriteCatalog(a.Config.Storage.ArtworksFile, catalog)
	}
	if err != nil {
		return err
	}

	slog.Info("--- Artwork Scraping Task Finished ---",
		"artists", summary.Artists, "failed", summary.Failed, "artworks", summary.Artworks,
		"file", a.Config.Storage.ArtworksFile)
	return runErr
}

// seedArtists returns the artists to scrape, each with its database ID.
func (a *App) seedArtists(ctx context.Context, pending bool) ([]models.Artist, error) {
	if pending {
		var artists []models.Artist
		for _, status := range []string{models.StatusNeedsArtworks, models.StatusFailed} {
			batch, err := a.Repo.GetArtistsByStatus(ctx, status)
			if err != nil {
				return nil, fmt.Errorf("%w: reading %s artists: %v", storage.ErrFatalIO, status, err)
			}
			artists = append(artists, batch...)
		}
		return artists, nil
	}

	artists, err := storage.ReadSeeds(a.Config.Storage.ArtistsFile)
	if err != nil {
		return nil, err
	}
	for i := range artists {
		id, err := a.Repo.SaveArtist(ctx, artists[i])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", storage.ErrFatalIO, err)
		}
		artists[i].ID = id
	}
	return artists, nil
}

// persistResult stores one artist's outcome. Database failures are logged;
// the JSON catalog remains the primary output.
func (a *App) persistResult(ctx context.Context, artist models.Artist, artworks []models.Artwork, err error) {
	if artist.ID == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)
	if err != nil {
		if uerr := a.Repo.UpdateArtistStatus(ctx, artist.ID, models.StatusFailed); uerr != nil {
			slog.Warn("DB update failed", "artist", artist.Name, "err", uerr)
		}
		return
	}
	if rerr := a.Repo.ReplaceArtworks(ctx, artist.ID, artworks); rerr != nil {
		slog.Warn("DB update failed", "artist", artist.Name, "err", rerr)
	}
}

// RunAutomaticWorkflow enumerates the artists and then collects their artworks.
func (a *App) RunAutomaticWorkflow(ctx context.Context, static bool) error {
	slog.Info("====== STARTING AUTOMATIC WORKFLOW ======")

	slog.Info("--- STEP 1 of 2: Scraping Artist List ---")
	if err := a.RunArtistScraper(ctx, static); err != nil {
		return fmt.Errorf("artist list step: %w", err)
	}
	slog.Info("--- STEP 1 of 2: COMPLETED ---")

	slog.Info("--- STEP 2 of 2: Scraping Artworks ---")
	if err := a.RunArtworkScraper(ctx, false); err != nil {
		return fmt.Errorf("artwork step: %w", err)
	}
	slog.Info("--- STEP 2 of 2: COMPLETED ---")

	slog.Info("====== AUTOMATIC WORKFLOW FINISHED SUCCESSFULLY ======")
	return nil
}

// ExportCatalog writes the catalog stored in the database to the artworks file.
func (a *App) ExportCatalog(ctx context.Context) error {
	catalog, err := a.Repo.GetCatalog(ctx)
	if err != nil {
		return fmt.Errorf("%w: reading catalog: %v", storage.ErrFatalIO, err)
	}
	if err := storage.WriteCatalog(a.Config.Storage.ArtworksFile, catalog); err != nil {
		return err
	}
	slog.Info("Catalog exported", "artists", len(catalog), "artworks", catalog.Count(), "file", a.Config.Storage.ArtworksFile)
	return nil
}

// IsFatal reports whether err should stop the process with a failure status.
// Interrupted runs have already written their partial output.
func IsFatal(err error) bool {
	return err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}
