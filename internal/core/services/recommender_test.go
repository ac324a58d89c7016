package services

import (
	"math"
	"testing"

	"github.com/ewilliams-labs/songradar/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(track, artist string, popularity float64, genres ...string) domain.CatalogEntry {
	return domain.CatalogEntry{TrackName: track, Artist: artist, Popularity: popularity, Genres: genres}
}

func trackNames(entries []domain.CatalogEntry) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.TrackName
	}
	return names
}

func TestRecommender_ArtistOnlyWhenGenreEmpty(t *testing.T) {
	catalog := []domain.CatalogEntry{
		entry("One", "X", 10, "rock"),
		entry("Two", "Y", 99, "rock"),
		entry("Three", "x ", 30, "jazz"),
		entry("Four", "X", 20, "pop"),
	}
	r := NewRecommender(catalog, 5)

	got := r.Recommend(domain.SongRecord{TrackName: "Source", Artist: "X", Genre: ""}, 5)

	assert.Equal(t, []string{"Three", "Four", "One"}, trackNames(got))
}

func TestRecommender_UnionOfArtistAndGenre(t *testing.T) {
	catalog := []domain.CatalogEntry{
		entry("A1", "X", 1, "jazz"),
		entry("A2", "X", 2, "blues"),
		entry("G1", "P", 3, "Rock"),
		entry("G2", "Q", 4, "rock", "pop"),
		entry("G3", "R", 5, "indie", "rock"),
		entry("Other", "S", 100, "classical"),
	}
	r := NewRecommender(catalog, 5)
	source := domain.SongRecord{TrackName: "Source", Artist: "X", Genre: "rock"}

	got := r.Recommend(source, 10)
	require.Len(t, got, 5)
	assert.Equal(t, []string{"G3", "G2", "G1", "A2", "A1"}, trackNames(got))

	truncated := r.Recommend(source, 3)
	assert.Equal(t, []string{"G3", "G2", "G1"}, trackNames(truncated))
}

func TestRecommender_GenreTokensAreOR(t *testing.T) {
	catalog := []domain.CatalogEntry{
		entry("Jazzy", "P", 1, "jazz"),
		entry("Folky", "Q", 2, "folk"),
		entry("Metal", "R", 3, "metal"),
	}
	r := NewRecommender(catalog, 5)

	got := r.Recommend(domain.SongRecord{TrackName: "S", Artist: "Z", Genre: "Jazz, FOLK"}, 0)

	assert.Equal(t, []string{"Folky", "Jazzy"}, trackNames(got))
}

func TestRecommender_SelfExclusion(t *testing.T) {
	catalog := []domain.CatalogEntry{
		entry("Hello", "Adele", 90, "pop"),
		entry("  hello ", "Adele", 80, "soul"),
		entry("Skyfall", "Adele", 70, "pop"),
	}
	r := NewRecommender(catalog, 5)

	got := r.Recommend(domain.SongRecord{TrackName: "HELLO", Artist: "adele", Genre: "pop"}, 5)

	assert.Equal(t, []string{"Skyfall"}, trackNames(got))
	for _, e := range got {
		assert.NotEqual(t, "hello", domain.NormalizeKey(e.TrackName))
	}
}

func TestRecommender_DeduplicatesByTrackAndGenre(t *testing.T) {
	catalog := []domain.CatalogEntry{
		entry("Dup", "X", 50, "rock"),
		entry("Dup", "Y", 60, "rock"),
		entry("Dup", "Z", 70, "pop"),
	}
	r := NewRecommender(catalog, 5)

	got := r.Recommend(domain.SongRecord{TrackName: "S", Artist: "X", Genre: "rock, pop"}, 5)

	require.Len(t, got, 2)
	assert.Equal(t, "Z", got[0].Artist)
	assert.Equal(t, "X", got[1].Artist, "first occurrence in catalog order wins")
}

func TestRecommender_StableTies(t *testing.T) {
	catalog := []domain.CatalogEntry{
		entry("First", "X", 10),
		entry("Second", "X", 10),
		entry("Third", "X", 10),
	}
	r := NewRecommender(catalog, 5)

	got := r.Recommend(domain.SongRecord{TrackName: "S", Artist: "X"}, 5)

	assert.Equal(t, []string{"First", "Second", "Third"}, trackNames(got))
}

func TestRecommender_NaNPopularitySortsLast(t *testing.T) {
	catalog := []domain.CatalogEntry{
		entry("A", "X", 10),
		entry("B", "X", math.NaN()),
		entry("C", "X", 90),
		entry("D", "X", 50),
	}
	r := NewRecommender(catalog, 5)

	got := r.Recommend(domain.SongRecord{TrackName: "S", Artist: "X"}, 5)

	assert.Equal(t, []string{"C", "D", "A", "B"}, trackNames(got))
}

func TestRecommender_EmptyPool(t *testing.T) {
	r := NewRecommender([]domain.CatalogEntry{entry("Only", "X", 1, "rock")}, 5)

	assert.Empty(t, r.Recommend(domain.SongRecord{TrackName: "Only", Artist: "X", Genre: "rock"}, 5))
	assert.Empty(t, r.Recommend(domain.SongRecord{TrackName: "S", Artist: "Nobody"}, 5))
	assert.Empty(t, NewRecommender(nil, 0).Recommend(domain.SongRecord{TrackName: "S"}, 5))
}

func TestRecommender_DefaultLimit(t *testing.T) {
	var catalog []domain.CatalogEntry
	for i := 0; i < 8; i++ {
		catalog = append(catalog, entry(string(rune('a'+i)), "X", float64(i)))
	}
	r := NewRecommender(catalog, 0)

	assert.Len(t, r.Recommend(domain.SongRecord{TrackName: "S", Artist: "X"}, 0), DefaultRecommendationLimit)
	assert.Equal(t, 8, r.Size())
}

func TestRecommender_RecommendRecords(t *testing.T) {
	catalog := []domain.CatalogEntry{
		{TrackName: "Two", Artist: "X", Genres: []string{"pop"}, DurationSeconds: 180, ReleaseYear: 2001},
	}
	r := NewRecommender(catalog, 5)

	got := r.RecommendRecords(domain.SongRecord{TrackName: "One", Artist: "X"}, 5)

	require.Len(t, got, 1)
	assert.Equal(t, "Two", got[0].TrackName)
	assert.Equal(t, 3.0, got[0].DurationMinutes)
	assert.Equal(t, "pop", got[0].Genre)
	assert.Equal(t, "2001", got[0].ReleaseDate)
}
