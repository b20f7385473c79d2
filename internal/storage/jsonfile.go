// Package storage reads seed files and writes result files as JSON.
package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"ArtScraper/internal/models"
	"ArtScraper/utils"
)

// ErrFatalIO marks a failure to read input or persist output. A run cannot
// continue past it.
var ErrFatalIO = errors.New("fatal i/o failure")

// ReadSeeds loads the artist seed array from path. Entries without a name or
// an absolute http(s) link are skipped with a warning.
func ReadSeeds(path string) ([]models.Artist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading seeds %s: %v", ErrFatalIO, path, err)
	}

	var raw []models.Artist
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: parsing seeds %s: %v", ErrFatalIO, path, err)
	}

	artists := make([]models.Artist, 0, len(raw))
	for i, a := range raw {
		a.Name = strings.TrimSpace(a.Name)
		a.Link = strings.TrimSpace(a.Link)
		if a.Name == "" || !utils.IsAbsoluteHTTPURL(a.Link) {
			slog.Warn("skipping invalid seed entry", "index", i, "name", a.Name, "link", a.Link)
			continue
		}
		artists = append(artists, a)
	}
	return artists, nil
}

// WriteArtists writes the artist list as a JSON array.
func WriteArtists(path string, artists []models.Artist) error {
	if artists == nil {
		artists = []models.Artist{}
	}
	return writeJSON(path, artists)
}

// WriteCatalog writes the artist-name to artworks mapping.
func WriteCatalog(path string, catalog models.Catalog) error {
	if catalog == nil {
		catalog = models.Catalog{}
	}
	return writeJSON(path, catalog)
}

// writeJSON encodes v with two-space indentation and replaces path atomically,
// so an interrupted run never leaves a truncated file behind.
func writeJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("%w: encoding %s: %v", ErrFatalIO, path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: creating %s: %v", ErrFatalIO, dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: creating temp file for %s: %v", ErrFatalIO, path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: writing %s: %v", ErrFatalIO, path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: closing %s: %v", ErrFatalIO, path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("%w: renaming into %s: %v", ErrFatalIO, path, err)
	}
	return nil
}
