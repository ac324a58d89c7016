// Package sqlite provides a SQLite-backed catalog source. The catalog table
// is written once by catalog-import and only read by the API.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	_ "github.com/mattn/go-sqlite3" // Import the driver anonymously

	"github.com/ewilliams-labs/songradar/internal/core/domain"
	"github.com/ewilliams-labs/songradar/internal/core/ports"
	"github.com/ewilliams-labs/songradar/internal/logger"
)

// Adapter implements the catalog source port for SQLite
type Adapter struct {
	db  *sql.DB
	log logger.Logger
}

// compile-time interface assertion
var _ ports.CatalogSource = (*Adapter)(nil)

// NewAdapter creates a connection and runs the schema migration
func NewAdapter(storagePath string) (*Adapter, error) {
	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	// :memory: databases are per connection.
	db.SetMaxOpenConns(1)

	// Verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	adapter := &Adapter{db: db, log: logger.New("sqlite")}
	if err := adapter.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return adapter, nil
}

// Close ensures the DB connection is closed gracefully
func (a *Adapter) Close() error {
	return a.db.Close()
}

// LoadCatalog returns every row in insertion order.
func (a *Adapter) LoadCatalog(ctx context.Context) ([]domain.CatalogEntry, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT track_name, artist, genres, genre_flags,
			IFNULL(popularity, 0), IFNULL(album_cover, ''),
			IFNULL(release_year, 0), IFNULL(duration_seconds, 0)
		FROM catalog
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	defer rows.Close()

	entries := []domain.CatalogEntry{}
	for rows.Next() {
		var (
			e      domain.CatalogEntry
			genres sql.NullString
			flags  int64
		)
		if err := rows.Scan(
			&e.TrackName,
			&e.Artist,
			&genres,
			&flags,
			&e.Popularity,
			&e.AlbumCover,
			&e.ReleaseYear,
			&e.DurationSeconds,
		); err != nil {
			return nil, fmt.Errorf("failed to scan catalog row: %w", err)
		}
		if !finite(e.Popularity) || !finite(e.DurationSeconds) {
			a.log.Function("LoadCatalog").Warn("skipping catalog row with non-finite number",
				"track", e.TrackName, "popularity", e.Popularity, "duration_seconds", e.DurationSeconds)
			continue
		}
		if genres.Valid && genres.String != "" {
			if err := json.Unmarshal([]byte(genres.String), &e.Genres); err != nil {
				a.log.Function("LoadCatalog").Warn("skipping unreadable genres", "track", e.TrackName, "error", err)
			}
		}
		e.GenresVector = unpackFlags(flags)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate catalog: %w", err)
	}

	a.log.Function("LoadCatalog").Debug("catalog loaded", "rows", len(entries))
	return entries, nil
}

// SaveCatalog replaces the catalog with entries, keeping their order.
func (a *Adapter) SaveCatalog(ctx context.Context, entries []domain.CatalogEntry) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // no-op after commit

	if _, err := tx.ExecContext(ctx, "DELETE FROM catalog"); err != nil {
		return fmt.Errorf("failed to clear catalog: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO catalog (
			position, track_name, artist, genres, genre_flags,
			popularity, album_cover, release_year, duration_seconds
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range entries {
		genres, err := json.Marshal(e.Genres)
		if err != nil {
			return fmt.Errorf("failed to encode genres for %q: %w", e.TrackName, err)
		}
		if _, err := stmt.ExecContext(
			ctx,
			i,
			e.TrackName,
			e.Artist,
			string(genres),
			packFlags(e.GenresVector),
			e.Popularity,
			e.AlbumCover,
			e.ReleaseYear,
			e.DurationSeconds,
		); err != nil {
			return fmt.Errorf("failed to save catalog row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("transaction commit failed: %w", err)
	}
	return nil
}

func (a *Adapter) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS catalog (
		position INTEGER PRIMARY KEY,
		track_name TEXT NOT NULL,
		artist TEXT NOT NULL,
		genres TEXT,
		genre_flags INTEGER NOT NULL DEFAULT 0,
		popularity REAL,
		album_cover TEXT,
		release_year INTEGER,
		duration_seconds REAL
	);

	CREATE INDEX IF NOT EXISTS idx_catalog_artist ON catalog (artist);
	`
	if _, err := a.db.Exec(query); err != nil {
		return err
	}

	// Catalogs written before album covers were imported lack the column.
	if _, err := a.db.Exec("ALTER TABLE catalog ADD COLUMN album_cover TEXT"); err != nil {
		if !isDuplicateColumnError(err) {
			return err
		}
	}
	return nil
}

func isDuplicateColumnError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "duplicate column") || strings.Contains(err.Error(), "already exists"))
}

// packFlags stores the genre vector as a bitmask, bit i for vocabulary index i.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func packFlags(v [domain.GenreCount]bool) int64 {
	var flags int64
	for i, set := range v {
		if set {
			flags |= 1 << i
		}
	}
	return flags
}

func unpackFlags(flags int64) [domain.GenreCount]bool {
	var v [domain.GenreCount]bool
	for i := range v {
		v[i] = flags&(1<<i) != 0
	}
	return v
}
