package domain

import (
	"strconv"
	"strings"
)

// GenreVocabulary is the closed, ordered genre set backing GenresVector.
var GenreVocabulary = [GenreCount]string{
	"pop", "rock", "hip hop", "rap", "r&b", "soul", "jazz", "blues",
	"country", "folk", "electronic", "dance", "metal", "punk", "classical", "latin",
}

// GenreCount is the size of GenreVocabulary.
const GenreCount = 16

// CatalogEntry is one row of the static recommendation dataset. Entries are
// loaded once at startup and never mutated afterwards.
type CatalogEntry struct {
	TrackName       string           `json:"track_name"`
	Artist          string           `json:"artist"`
	Genres          []string         `json:"genres"`
	GenresVector    [GenreCount]bool `json:"genres_vector"`
	Popularity      float64          `json:"popularity"`
	AlbumCover      string           `json:"album_cover,omitempty"`
	DurationSeconds float64          `json:"duration_seconds"`
	ReleaseYear     int              `json:"release_year,omitempty"`
}

// GenreString is the comma-joined genre list as it appears in the dataset.
func (c CatalogEntry) GenreString() string {
	return strings.Join(c.Genres, ", ")
}

// GenreSet returns the entry's normalized genre tokens.
func (c CatalogEntry) GenreSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.Genres))
	for _, g := range c.Genres {
		if key := NormalizeKey(g); key != "" {
			set[key] = struct{}{}
		}
	}
	return set
}

// ToSongRecord renders a catalog row in canonical form for similar_songs.
func (c CatalogEntry) ToSongRecord() SongRecord {
	rec := SongRecord{
		TrackName:       c.TrackName,
		Artist:          c.Artist,
		DurationMinutes: MinutesFromSeconds(c.DurationSeconds),
		Genre:           c.GenreString(),
		AlbumArtURL:     c.AlbumCover,
	}
	if c.ReleaseYear > 0 {
		rec.ReleaseDate = strconv.Itoa(c.ReleaseYear)
	}
	return rec
}

// GenreIndex returns the vocabulary position of genre, or -1.
func GenreIndex(genre string) int {
	key := NormalizeKey(genre)
	for i, g := range GenreVocabulary {
		if g == key {
			return i
		}
	}
	return -1
}

// NormalizeKey lowercases and trims a comparison key.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// GenreTokens splits a comma-joined genre string into normalized tokens.
func GenreTokens(genre string) map[string]struct{} {
	set := map[string]struct{}{}
	for _, part := range strings.Split(genre, ",") {
		if key := NormalizeKey(part); key != "" {
			set[key] = struct{}{}
		}
	}
	return set
}
