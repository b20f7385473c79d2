package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"ArtScraper/internal/models"
	"ArtScraper/pkg/config"
)

const (
	defaultLimit = 20
	maxLimit     = 200
)

// Catalog is the read side of the artwork database.
type Catalog interface {
	ListArtists(ctx context.Context) ([]models.ArtistRow, error)
	ListArtworks(ctx context.Context, filters models.ArtworkFilters) ([]models.ArtworkRow, error)
	CountArtworks(ctx context.Context, filters models.ArtworkFilters) (int, error)
}

// NewHandler returns the API routes, guarded by the API key when one is set.
func NewHandler(repo Catalog, cfg config.ServerConfig) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /artists", artistsHandler(repo))
	mux.HandleFunc("GET /artworks", artworksHandler(repo))

	if cfg.ApiKey == "" {
		return mux
	}
	return requireAPIKey(cfg.ApiKey, mux)
}

// Start serves the API until ctx is cancelled.
func Start(ctx context.Context, repo Catalog, cfg config.ServerConfig) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           NewHandler(repo, cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("Starting API server", "addr", cfg.Addr, "auth", cfg.ApiKey != "")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	slog.Info("API server stopped")
	return nil
}

func requireAPIKey(key string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := r.Header.Get("X-API-Key")
		if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func artistsHandler(repo Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		artists, err := repo.ListArtists(r.Context())
		if err != nil {
			slog.Error("failed to list artists", "err", err)
			http.Error(w, "Failed to get artists", http.StatusInternalServerError)
			return
		}
		writeJSON(w, artists)
	}
}

func artworksHandler(repo Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		queryParams := r.URL.Query()
		page, _ := strconv.Atoi(queryParams.Get("page"))
		if page < 1 {
			page = 1
		}
		limit, _ := strconv.Atoi(queryParams.Get("limit"))
		if limit < 1 {
			limit = defaultLimit
		}
		limit = min(limit, maxLimit)

		filters := models.ArtworkFilters{
			Artist: queryParams.Get("artist"),
			Limit:  limit,
			Offset: (page - 1) * limit,
		}

		total, err := repo.CountArtworks(r.Context(), filters)
		if err != nil {
			slog.Error("failed to count artworks", "err", err)
			http.Error(w, "Failed to count artworks", http.StatusInternalServerError)
			return
		}

		artworks, err := repo.ListArtworks(r.Context(), filters)
		if err != nil {
			slog.Error("failed to list artworks", "err", err)
			http.Error(w, "Failed to get artworks", http.StatusInternalServerError)
			return
		}

		writeJSON(w, models.ArtworkResponse{
			Data: artworks,
			Pagination: models.Pagination{
				TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
				CurrentPage: page,
				Total:       total,
			},
		})
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "err", err)
	}
}
