package lrclib

import (
	"github.com/ewilliams-labs/songradar/internal/core/domain"
)

// normalizeLyricsHit maps an LRCLIB record. Duration arrives in seconds;
// synced lyrics are kept exactly as LRCLIB sent them.
func normalizeLyricsHit(h lyricsHit) domain.SongRecord {
	return domain.SongRecord{
		TrackName:       h.TrackName,
		Artist:          h.ArtistName,
		Album:           h.AlbumName,
		DurationMinutes: domain.MinutesFromSeconds(h.Duration),
		Lyrics:          h.PlainLyrics,
		SyncedLyrics:    h.SyncedLyrics,
		Instrumental:    h.Instrumental,
	}
}
