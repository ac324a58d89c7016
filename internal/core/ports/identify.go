package ports

import (
	"context"

	"github.com/ewilliams-labs/songradar/internal/core/domain"
)

// FingerprintMatch is one candidate returned by the fingerprint service, in
// upstream rank order.
type FingerprintMatch struct {
	Title   string
	Artists []string
	Album   string
	ACRID   string
	Score   float64
}

// Fingerprinter submits an audio sample for acoustic identification.
// An empty slice with a nil error means the service found nothing.
type Fingerprinter interface {
	Identify(ctx context.Context, audio []byte) ([]FingerprintMatch, error)
}

// MetadataSearcher looks tracks up in the metadata/search service.
type MetadataSearcher interface {
	SearchByName(ctx context.Context, trackName string) ([]domain.SongRecord, error)
	LookupByID(ctx context.Context, acrID string) (domain.SongRecord, error)
	LookupByTitle(ctx context.Context, title, artist string) (domain.SongRecord, error)
}

// LyricsQuery identifies a track for a lyrics lookup. Album and
// DurationSeconds are optional.
type LyricsQuery struct {
	TrackName       string
	ArtistName      string
	AlbumName       string
	DurationSeconds float64
}

// LyricsProvider fetches lyrics for a known track or searches by lyric text.
// GetLyrics returns domain.ErrNoMatch when the track is unknown.
type LyricsProvider interface {
	GetLyrics(ctx context.Context, q LyricsQuery) (domain.SongRecord, error)
	SearchLyrics(ctx context.Context, query string) ([]domain.SongRecord, error)
}

// TrackSearcher is a secondary free-text search service.
type TrackSearcher interface {
	SearchTracks(ctx context.Context, query string, limit int) ([]domain.SongRecord, error)
}
