package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ewilliams-labs/songradar/internal/core/domain"
	"github.com/ewilliams-labs/songradar/internal/core/ports"
	"github.com/ewilliams-labs/songradar/internal/logger"
)

// ErrEmptyQuery is returned when a search is attempted without a query.
var ErrEmptyQuery = errors.New("service: query cannot be empty")

// DefaultShazamLimit mirrors the page size requested from the Shazam search.
const DefaultShazamLimit = 10

// Searcher serves the text-driven lookups: song name, lyrics and Shazam.
type Searcher struct {
	metadata ports.MetadataSearcher
	lyrics   ports.LyricsProvider
	shazam   ports.TrackSearcher
	log      logger.Logger
}

// NewSearcher constructs a Searcher. shazam may be nil when not configured.
func NewSearcher(metadata ports.MetadataSearcher, lyrics ports.LyricsProvider, shazam ports.TrackSearcher) *Searcher {
	return &Searcher{
		metadata: metadata,
		lyrics:   lyrics,
		shazam:   shazam,
		log:      logger.New("searcher"),
	}
}

// SearchSongs searches the metadata service by track name.
func (s *Searcher) SearchSongs(ctx context.Context, name string) ([]domain.SongRecord, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyQuery
	}
	results, err := s.metadata.SearchByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("service: song search failed: %w", domain.NewUpstreamError("metadata", err))
	}
	s.log.Function("SearchSongs").TraceFromContext(ctx).Debug("song search complete", "query", name, "results", len(results))
	return results, nil
}

// SongMetadata looks up a single track either by ACRCloud id or by title and
// artist.
func (s *Searcher) SongMetadata(ctx context.Context, acrID, title, artist string) (domain.SongRecord, error) {
	var (
		rec domain.SongRecord
		err error
	)
	switch {
	case strings.TrimSpace(acrID) != "":
		rec, err = s.metadata.LookupByID(ctx, acrID)
	case strings.TrimSpace(title) != "":
		rec, err = s.metadata.LookupByTitle(ctx, title, artist)
	default:
		return domain.SongRecord{}, ErrEmptyQuery
	}
	if err != nil {
		return domain.SongRecord{}, fmt.Errorf("service: metadata lookup failed: %w", domain.NewUpstreamError("metadata", err))
	}
	return rec, nil
}

// SearchLyrics finds songs whose lyrics match the query text.
func (s *Searcher) SearchLyrics(ctx context.Context, query string) ([]domain.SongRecord, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	results, err := s.lyrics.SearchLyrics(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("service: lyrics search failed: %w", domain.NewUpstreamError("lyrics", err))
	}
	return results, nil
}

// Lyrics fetches lyrics for a known track.
func (s *Searcher) Lyrics(ctx context.Context, q ports.LyricsQuery) (domain.SongRecord, error) {
	if strings.TrimSpace(q.TrackName) == "" || strings.TrimSpace(q.ArtistName) == "" {
		return domain.SongRecord{}, ErrEmptyQuery
	}
	rec, err := s.lyrics.GetLyrics(ctx, q)
	if err != nil {
		return domain.SongRecord{}, fmt.Errorf("service: lyrics lookup failed: %w", domain.NewUpstreamError("lyrics", err))
	}
	return rec, nil
}

// ErrShazamDisabled is returned when no Shazam credentials were configured.
var ErrShazamDisabled = errors.New("service: shazam search not configured")

// SearchShazam runs a free-text Shazam search.
func (s *Searcher) SearchShazam(ctx context.Context, query string, limit int) ([]domain.SongRecord, error) {
	if s.shazam == nil {
		return nil, ErrShazamDisabled
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 {
		limit = DefaultShazamLimit
	}
	results, err := s.shazam.SearchTracks(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("service: shazam search failed: %w", domain.NewUpstreamError("shazam", err))
	}
	return results, nil
}
