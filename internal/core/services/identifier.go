package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ewilliams-labs/songradar/internal/core/domain"
	"github.com/ewilliams-labs/songradar/internal/core/ports"
	"github.com/ewilliams-labs/songradar/internal/logger"
)

// Identifier turns an audio sample into one enriched SongRecord.
//
// Flow: Start -> Fingerprinted -> MetadataConfirmed -> LyricsEnriched -> Done.
// Both Fingerprinted and MetadataConfirmed may exit early with NoMatch; the
// lyrics step never fails the flow.
type Identifier struct {
	fingerprint ports.Fingerprinter
	metadata    ports.MetadataSearcher
	lyrics      ports.LyricsProvider
	clips       ports.ClipStore
	log         logger.Logger
}

// NewIdentifier constructs an Identifier. clips may be nil, in which case
// results carry no audio reference.
func NewIdentifier(fp ports.Fingerprinter, metadata ports.MetadataSearcher, lyrics ports.LyricsProvider, clips ports.ClipStore) *Identifier {
	return &Identifier{
		fingerprint: fp,
		metadata:    metadata,
		lyrics:      lyrics,
		clips:       clips,
		log:         logger.New("identifier"),
	}
}

// Identify runs the identification flow for one sample. Failures are either
// a *domain.NoMatchError or a *domain.UpstreamError.
func (o *Identifier) Identify(ctx context.Context, audio []byte, contentType string) (domain.SongRecord, error) {
	log := o.log.Function("Identify").TraceFromContext(ctx)
	stage := domain.StageStart
	log.Debug("identification started", "stage", stage, "bytes", len(audio))

	// 1. Fingerprint
	matches, err := o.fingerprint.Identify(ctx, audio)
	if err != nil {
		return domain.SongRecord{}, fmt.Errorf("service: fingerprint failed: %w", domain.NewUpstreamError("fingerprint", err))
	}
	if len(matches) == 0 {
		return domain.SongRecord{}, &domain.NoMatchError{Stage: domain.StageFingerprinted}
	}
	stage = domain.StageFingerprinted
	top := matches[0]
	log.Debug("fingerprint matched", "stage", stage, "title", top.Title, "candidates", len(matches))

	// 2. Cross-confirm through the metadata search
	results, err := o.metadata.SearchByName(ctx, top.Title)
	if err != nil {
		if errors.Is(err, domain.ErrNoMatch) {
			return domain.SongRecord{}, &domain.NoMatchError{Stage: domain.StageMetadataConfirmed, Query: top.Title}
		}
		return domain.SongRecord{}, fmt.Errorf("service: metadata search failed: %w", domain.NewUpstreamError("metadata", err))
	}
	if len(results) == 0 {
		return domain.SongRecord{}, &domain.NoMatchError{Stage: domain.StageMetadataConfirmed, Query: top.Title}
	}
	stage = domain.StageMetadataConfirmed
	record := results[0]
	log.Debug("metadata confirmed", "stage", stage, "track", record.TrackName, "artist", record.Artist)

	// 3. Lyrics are best effort
	hit, err := o.lyrics.GetLyrics(ctx, ports.LyricsQuery{
		TrackName:       record.TrackName,
		ArtistName:      record.Artist,
		AlbumName:       record.Album,
		DurationSeconds: domain.SecondsFromMinutes(record.DurationMinutes),
	})
	switch {
	case err == nil:
		record = record.WithLyrics(hit)
		stage = domain.StageLyricsEnriched
		log.Debug("lyrics attached", "stage", stage)
	case errors.Is(err, domain.ErrNoMatch):
		log.Debug("no lyrics found", "track", record.TrackName)
	default:
		log.Warn("lyrics lookup failed, continuing without lyrics", "track", record.TrackName, "error", err)
	}

	// 4. Reference the recording
	if o.clips != nil {
		clipID, err := o.clips.Put(audio, contentType)
		if err != nil {
			log.Warn("failed to keep recording", "error", err)
		} else {
			record = record.WithClip(clipID)
		}
	}

	stage = domain.StageDone
	log.Info("song identified", "stage", stage, "track", record.TrackName, "artist", record.Artist)
	return record, nil
}
