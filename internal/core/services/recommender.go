package services

import (
	"math"
	"sort"

	"github.com/ewilliams-labs/songradar/internal/core/domain"
	"github.com/ewilliams-labs/songradar/internal/logger"
)

// DefaultRecommendationLimit is used when a caller asks for k <= 0.
const DefaultRecommendationLimit = 5

// Recommender ranks catalog rows similar to a confirmed song. The catalog is
// read-only after construction, so Recommend is safe for concurrent use.
type Recommender struct {
	catalog []domain.CatalogEntry
	genres  []map[string]struct{}
	limit   int
	log     logger.Logger
}

// NewRecommender indexes the catalog once. limit is the default k.
func NewRecommender(catalog []domain.CatalogEntry, limit int) *Recommender {
	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}
	genres := make([]map[string]struct{}, len(catalog))
	for i, entry := range catalog {
		genres[i] = entry.GenreSet()
	}
	return &Recommender{
		catalog: catalog,
		genres:  genres,
		limit:   limit,
		log:     logger.New("recommender"),
	}
}

// Size reports the number of catalog rows.
func (r *Recommender) Size() int {
	return len(r.catalog)
}

type poolKey struct {
	track string
	genre string
}

// Recommend returns up to k rows sharing the source's artist or any of its
// genres, most popular first, never including the source track itself.
func (r *Recommender) Recommend(source domain.SongRecord, k int) []domain.CatalogEntry {
	if k <= 0 {
		k = r.limit
	}
	log := r.log.Function("Recommend")

	artist := domain.NormalizeKey(source.Artist)
	track := domain.NormalizeKey(source.TrackName)
	sourceGenres := domain.GenreTokens(source.Genre)

	var artistRows, pool []int
	seen := make(map[poolKey]struct{})
	for i, entry := range r.catalog {
		inArtist := artist != "" && domain.NormalizeKey(entry.Artist) == artist
		if inArtist {
			artistRows = append(artistRows, i)
		}
		if !inArtist && !intersects(sourceGenres, r.genres[i]) {
			continue
		}
		key := poolKey{track: entry.TrackName, genre: entry.GenreString()}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		pool = append(pool, i)
	}

	pool = r.excludeTrack(pool, track)
	if len(pool) == 0 {
		// Artist rows stay subject to self-exclusion.
		pool = r.excludeTrack(artistRows, track)
		log.Debug("genre pool empty, falling back to artist rows", "artist", source.Artist, "rows", len(pool))
	}

	sort.SliceStable(pool, func(a, b int) bool {
		return rankPopularity(r.catalog[pool[a]].Popularity) > rankPopularity(r.catalog[pool[b]].Popularity)
	})

	if len(pool) > k {
		pool = pool[:k]
	}
	out := make([]domain.CatalogEntry, len(pool))
	for i, idx := range pool {
		out[i] = r.catalog[idx]
	}
	log.Debug("recommendations ranked", "track", source.TrackName, "count", len(out))
	return out
}

// RecommendRecords is Recommend rendered as SongRecords for similar_songs.
func (r *Recommender) RecommendRecords(source domain.SongRecord, k int) []domain.SongRecord {
	entries := r.Recommend(source, k)
	records := make([]domain.SongRecord, len(entries))
	for i, e := range entries {
		records[i] = e.ToSongRecord()
	}
	return records
}

func (r *Recommender) excludeTrack(rows []int, track string) []int {
	kept := make([]int, 0, len(rows))
	for _, idx := range rows {
		if domain.NormalizeKey(r.catalog[idx].TrackName) == track {
			continue
		}
		kept = append(kept, idx)
	}
	return kept
}

// rankPopularity orders NaN below every number so the sort stays a strict
// weak ordering.
func rankPopularity(p float64) float64 {
	if math.IsNaN(p) {
		return math.Inf(-1)
	}
	return p
}

func intersects(a, b map[string]struct{}) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	for k := range a {
		if _, ok := b[k]; ok {
			return true
		}
	}
	return false
}
