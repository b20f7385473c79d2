package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"ArtScraper/internal/models"

	_ "modernc.org/sqlite"
)

// DBRepository is a thin layer around the catalog database.
type DBRepository struct {
	DB *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS artists (
	"id" INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
	"name" TEXT NOT NULL,
	"link" TEXT NOT NULL UNIQUE,
	"status" TEXT NOT NULL DEFAULT 'needs_artworks',
	"scraped_at" DATETIME
);

CREATE TABLE IF NOT EXISTS artworks (
	"id" INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
	"artist_id" INTEGER NOT NULL REFERENCES artists(id) ON DELETE CASCADE,
	"position" INTEGER NOT NULL,
	"title" TEXT NOT NULL,
	"url" TEXT NOT NULL,
	"image_url" TEXT,
	"scraped_at" DATETIME,
	UNIQUE(artist_id, url)
);

CREATE INDEX IF NOT EXISTS artworks_artist_idx ON artworks(artist_id, position);
`

// Open opens (creating if needed) the SQLite database at path.
func Open(path string) (*DBRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// SQLite allows one writer; a single connection keeps writes ordered.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	slog.Debug("database and tables initialized", "path", path)
	return &DBRepository{DB: db}, nil
}

// Close closes the database connection.
func (repo *DBRepository) Close() error {
	return repo.DB.Close()
}

// SaveArtist inserts an artist or refreshes its name. The status is only set
// on the initial insert so completed artists are not scraped twice.
func (repo *DBRepository) SaveArtist(ctx context.Context, artist models.Artist) (int64, error) {
	query := `
	INSERT INTO artists (name, link, status) VALUES (?, ?, ?)
	ON CONFLICT(link) DO UPDATE SET name = excluded.name
	RETURNING id;
	`
	var id int64
	err := repo.DB.QueryRowContext(ctx, query, artist.Name, artist.Link, models.StatusNeedsArtworks).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("saving artist %s: %w", artist.Link, err)
	}
	return id, nil
}

// GetArtistsByStatus returns artists with the given status in insertion order.
func (repo *DBRepository) GetArtistsByStatus(ctx context.Context, status string) ([]models.Artist, error) {
	rows, err := repo.DB.QueryContext(ctx, `SELECT id, name, link, status FROM artists WHERE status = ? ORDER BY id`, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var artists []models.Artist
	for rows.Next() {
		var a models.Artist
		if err := rows.Scan(&a.ID, &a.Name, &a.Link, &a.Status); err != nil {
			return nil, fmt.Errorf("scanning artist row: %w", err)
		}
		artists = append(artists, a)
	}
	return artists, rows.Err()
}

// UpdateArtistStatus moves an artist to the next step.
func (repo *DBRepository) UpdateArtistStatus(ctx context.Context, id int64, status string) error {
	_, err := repo.DB.ExecContext(ctx, `UPDATE artists SET status = ?, scraped_at = ? WHERE id = ?`, status, time.Now(), id)
	return err
}

// ReplaceArtworks stores the artworks of one artist, replacing whatever an
// earlier run collected, and marks the artist completed.
func (repo *DBRepository) ReplaceArtworks(ctx context.Context, artistID int64, artworks []models.Artwork) error {
	tx, err := repo.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM artworks WHERE artist_id = ?`, artistID); err != nil {
		return fmt.Errorf("clearing artworks of artist %d: %w", artistID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO artworks (artist_id, position, title, url, image_url, scraped_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(artist_id, url) DO NOTHING;
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now()
	for i, w := range artworks {
		if _, err := stmt.ExecContext(ctx, artistID, i, w.Title, w.URL, w.Image, now); err != nil {
			return fmt.Errorf("saving artwork %s: %w", w.URL, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `UPDATE artists SET status = ?, scraped_at = ? WHERE id = ?`, models.StatusCompleted, now, artistID); err != nil {
		return err
	}
	return tx.Commit()
}

// GetCatalog rebuilds the name-to-artworks mapping from the database. Every
// artist is present; artists without artworks map to an empty list.
func (repo *DBRepository) GetCatalog(ctx context.Context) (models.Catalog, error) {
	catalog := models.Catalog{}

	rows, err := repo.DB.QueryContext(ctx, `
		SELECT a.name, w.title, w.url, COALESCE(w.image_url, '')
		FROM artists a
		LEFT JOIN artworks w ON w.artist_id = a.id
		ORDER BY a.id, w.position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		var title, url sql.NullString
		var image string
		if err := rows.Scan(&name, &title, &url, &image); err != nil {
			return nil, fmt.Errorf("scanning catalog row: %w", err)
		}
		if _, ok := catalog[name]; !ok {
			catalog[name] = []models.Artwork{}
		}
		if title.Valid {
			catalog[name] = append(catalog[name], models.Artwork{Title: title.String, URL: url.String, Image: image})
		}
	}
	return catalog, rows.Err()
}

// ListArtists returns every artist with its status and artwork count.
func (repo *DBRepository) ListArtists(ctx context.Context) ([]models.ArtistRow, error) {
	rows, err := repo.DB.QueryContext(ctx, `
		SELECT a.name, a.link, a.status, COUNT(w.id)
		FROM artists a
		LEFT JOIN artworks w ON w.artist_id = a.id
		GROUP BY a.id
		ORDER BY a.id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	artists := []models.ArtistRow{}
	for rows.Next() {
		var a models.ArtistRow
		if err := rows.Scan(&a.Name, &a.Link, &a.Status, &a.Artworks); err != nil {
			return nil, fmt.Errorf("scanning artist row: %w", err)
		}
		artists = append(artists, a)
	}
	return artists, rows.Err()
}

// ListArtworks retrieves a page of artworks, optionally for one artist.
func (repo *DBRepository) ListArtworks(ctx context.Context, filters models.ArtworkFilters) ([]models.ArtworkRow, error) {
	rows, err := repo.DB.QueryContext(ctx, `
		SELECT a.name, w.title, w.url, COALESCE(w.image_url, '')
		FROM artworks w
		JOIN artists a ON a.id = w.artist_id
		WHERE (? = '' OR a.name = ?)
		ORDER BY a.id, w.position
		LIMIT ? OFFSET ?
	`, filters.Artist, filters.Artist, filters.Limit, filters.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	artworks := []models.ArtworkRow{}
	for rows.Next() {
		var w models.ArtworkRow
		if err := rows.Scan(&w.Artist, &w.Title, &w.URL, &w.Image); err != nil {
			return nil, fmt.Errorf("scanning artwork row: %w", err)
		}
		artworks = append(artworks, w)
	}
	return artworks, rows.Err()
}

// CountArtworks returns the number of artworks matching filters, for pagination.
func (repo *DBRepository) CountArtworks(ctx context.Context, filters models.ArtworkFilters) (int, error) {
	var count int
	err := repo.DB.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM artworks w
		JOIN artists a ON a.id = w.artist_id
		WHERE (? = '' OR a.name = ?)
	`, filters.Artist, filters.Artist).Scan(&count)
	return count, err
}
