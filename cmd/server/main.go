package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ArtScraper/internal/database"
	"ArtScraper/internal/server"
	"ArtScraper/pkg/config"

	"github.com/lmittmann/tint"
)

func main() {
	configPath := flag.String("config", "config.yml", "path to the YAML config file")
	flag.Parse()

	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: time.Kitchen,
	})))

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	// The server reads the same catalog database the scraper writes.
	repo, err := database.Open(cfg.Storage.DBPath)
	if err != nil {
		slog.Error("failed to open database", "path", cfg.Storage.DBPath, "err", err)
		os.Exit(1)
	}
	defer repo.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx, repo, cfg.Server); err != nil {
		slog.Error("server failed", "err", err)
		repo.Close()
		os.Exit(1)
	}
}
