package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ArtScraper/internal/app"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	timeout    time.Duration
	static     bool
	pending    bool
)

func initSlog(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)
}

// runTask loads the application and runs task under the root context.
func runTask(task func(ctx context.Context, a *app.App) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		application, err := app.New(configPath)
		if err != nil {
			return err
		}
		defer application.Close()

		slog.Info("Running task", "task", cmd.Name())
		err = task(ctx, application)
		if err != nil && !app.IsFatal(err) {
			slog.Warn("Task stopped early; partial results were written", "task", cmd.Name(), "err", err)
			return nil
		}
		return err
	}
}

func main() {
	rootCmd := &cobra.Command{
		Use:          "scraper",
		Short:        "Collects artists and their artworks from Google Arts & Culture",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			initSlog(verbose)
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yml", "path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "abort the task after this long (0 disables)")

	artistsCmd := &cobra.Command{
		Use:   "artists",
		Short: "Scrape the artist list into the artists file and database",
		Args:  cobra.NoArgs,
		RunE: runTask(func(ctx context.Context, a *app.App) error {
			return a.RunArtistScraper(ctx, static)
		}),
	}
	artistsCmd.Flags().BoolVar(&static, "static", false, "fetch the category page over HTTP without a browser")

	artworksCmd := &cobra.Command{
		Use:   "artworks",
		Short: "Scrape the artworks of every artist in the artists file",
		Args:  cobra.NoArgs,
		RunE: runTask(func(ctx context.Context, a *app.App) error {
			return a.RunArtworkScraper(ctx, pending)
		}),
	}
	artworksCmd.Flags().BoolVar(&pending, "pending", false, "only scrape artists the database has not completed, then export the full catalog")

	automaticCmd := &cobra.Command{
		Use:   "automatic",
		Short: "Scrape the artist list and then every artist's artworks",
		Args:  cobra.NoArgs,
		RunE: runTask(func(ctx context.Context, a *app.App) error {
			return a.RunAutomaticWorkflow(ctx, static)
		}),
	}
	automaticCmd.Flags().BoolVar(&static, "static", false, "fetch the category page over HTTP without a browser")

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write the catalog stored in the database to the artworks file",
		Args:  cobra.NoArgs,
		RunE: runTask(func(ctx context.Context, a *app.App) error {
			return a.ExportCatalog(ctx)
		}),
	}

	rootCmd.AddCommand(artistsCmd, artworksCmd, automaticCmd, exportCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
