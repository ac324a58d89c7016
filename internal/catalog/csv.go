// Package catalog reads the recommendation dataset from CSV.
package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/ewilliams-labs/songradar/internal/core/domain"
	"github.com/ewilliams-labs/songradar/internal/core/ports"
	"github.com/ewilliams-labs/songradar/internal/logger"
)

// Column names in the dataset header. The 16 genre flag columns are named
// after domain.GenreVocabulary.
const (
	colTrackName       = "track_name"
	colArtist          = "artist"
	colGenres          = "genres"
	colPopularity      = "popularity"
	colAlbumCover      = "album_cover"
	colReleaseYear     = "release_year"
	colDurationSeconds = "duration_seconds"
)

// ErrMissingColumn reports a header without a required column.
var ErrMissingColumn = errors.New("catalog: missing required column")

// CSVSource loads the catalog from a CSV file.
type CSVSource struct {
	path string
	log  logger.Logger
}

// compile-time interface assertion
var _ ports.CatalogSource = (*CSVSource)(nil)

func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path, log: logger.New("catalog")}
}

// LoadCatalog reads the whole file.
func (s *CSVSource) LoadCatalog(ctx context.Context) ([]domain.CatalogEntry, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", s.path, err)
	}
	defer f.Close()

	entries, err := Parse(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", s.path, err)
	}
	return entries, nil
}

// Parse reads CSV rows in file order. Rows without a track name or artist,
// or with unreadable numbers, are skipped and logged.
func Parse(ctx context.Context, r io.Reader) ([]domain.CatalogEntry, error) {
	log := logger.New("catalog").Function("Parse").TraceFromContext(ctx)

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []domain.CatalogEntry{}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := indexHeader(header)
	for _, required := range []string{colTrackName, colArtist} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}

	entries := []domain.CatalogEntry{}
	skipped := 0
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Warn("skipping unreadable row", "line", line, "error", err)
			skipped++
			continue
		}

		entry, err := parseRow(cols, record)
		if err != nil {
			log.Warn("skipping catalog row", "line", line, "error", err)
			skipped++
			continue
		}
		entries = append(entries, entry)
	}

	log.Info("catalog parsed", "rows", len(entries), "skipped", skipped)
	return entries, nil
}

type columns map[string]int

func indexHeader(header []string) columns {
	cols := make(columns, len(header))
	for i, h := range header {
		key := domain.NormalizeKey(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := cols[key]; !dup {
			cols[key] = i
		}
	}
	return cols
}

func (c columns) get(record []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func parseRow(cols columns, record []string) (domain.CatalogEntry, error) {
	entry := domain.CatalogEntry{
		TrackName:  cols.get(record, colTrackName),
		Artist:     cols.get(record, colArtist),
		Genres:     ParseGenreList(cols.get(record, colGenres)),
		AlbumCover: cols.get(record, colAlbumCover),
	}
	if entry.TrackName == "" || entry.Artist == "" {
		return domain.CatalogEntry{}, errors.New("missing track_name or artist")
	}

	var err error
	if entry.Popularity, err = parseFloat(cols.get(record, colPopularity)); err != nil {
		return domain.CatalogEntry{}, fmt.Errorf("popularity: %w", err)
	}
	if entry.DurationSeconds, err = parseFloat(cols.get(record, colDurationSeconds)); err != nil {
		return domain.CatalogEntry{}, fmt.Errorf("duration_seconds: %w", err)
	}
	year, err := parseFloat(cols.get(record, colReleaseYear))
	if err != nil {
		return domain.CatalogEntry{}, fmt.Errorf("release_year: %w", err)
	}
	entry.ReleaseYear = int(year)

	entry.GenresVector = genreVector(cols, record, entry.Genres)
	return entry, nil
}

// genreVector reads the flag columns. When the file has none, the vector is
// derived from the genre list.
func genreVector(cols columns, record []string, genres []string) [domain.GenreCount]bool {
	var v [domain.GenreCount]bool
	present := false
	for i, g := range domain.GenreVocabulary {
		if _, ok := cols[g]; !ok {
			continue
		}
		present = true
		v[i] = parseFlag(cols.get(record, g))
	}
	if present {
		return v
	}
	for _, g := range genres {
		if i := domain.GenreIndex(g); i >= 0 {
			v[i] = true
		}
	}
	return v
}

// errNonFinite rejects NaN and ±Inf.
var errNonFinite = errors.New("value is not a finite number")

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q: %w", s, errNonFinite)
	}
	return v, nil
}

func parseFlag(s string) bool {
	switch strings.ToLower(s) {
	case "1", "1.0", "true", "t", "yes":
		return true
	default:
		return false
	}
}

// ParseGenreList decodes the list-encoded genre column. It accepts
// "['pop', 'dance pop']", `["pop"]` and plain "pop, dance pop".
func ParseGenreList(raw string) []string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "[")
	raw = strings.TrimSuffix(raw, "]")

	genres := []string{}
	for _, part := range strings.Split(raw, ",") {
		g := strings.Trim(strings.TrimSpace(part), `'"`)
		if g = strings.TrimSpace(g); g != "" {
			genres = append(genres, g)
		}
	}
	return genres
}
