package domain

import (
	"encoding/json"
	"strings"
)

// SongRecord is the canonical track shape every upstream response is
// normalized into. Empty strings mean the source did not provide the field.
type SongRecord struct {
	TrackName       string  `json:"track_name"`
	Artist          string  `json:"artist"`
	Album           string  `json:"album,omitempty"`
	DurationMinutes float64 `json:"duration_minutes"`
	Genre           string  `json:"genre"`
	ReleaseDate     string  `json:"release_date,omitempty"`
	Language        string  `json:"language,omitempty"`

	SpotifyURL    string `json:"spotify_url,omitempty"`
	YouTubeURL    string `json:"youtube_url,omitempty"`
	AppleMusicURL string `json:"apple_music_url,omitempty"`
	PreviewURL    string `json:"preview_url,omitempty"`
	AlbumArtURL   string `json:"album_art_url,omitempty"`
	ShareURL      string `json:"share_url,omitempty"`

	Lyrics       string `json:"lyrics,omitempty"`
	SyncedLyrics string `json:"synced_lyrics,omitempty"`
	Instrumental bool   `json:"instrumental"`

	SimilarSongs []SongRecord `json:"similar_songs"`

	// AudioClipID references the recording a record was identified from.
	// Search results never carry one.
	AudioClipID string `json:"audio_file_reference,omitempty"`
}

// MarshalJSON always emits similar_songs as an array.
func (s SongRecord) MarshalJSON() ([]byte, error) {
	type record SongRecord
	if s.SimilarSongs == nil {
		s.SimilarSongs = []SongRecord{}
	}
	return json.Marshal(record(s))
}

// WithLyrics returns a copy carrying the lyrics of hit. Other fields,
// including Instrumental, are left untouched.
func (s SongRecord) WithLyrics(hit SongRecord) SongRecord {
	s.Lyrics = hit.Lyrics
	s.SyncedLyrics = hit.SyncedLyrics
	return s
}

// WithClip returns a copy referencing the given recording.
func (s SongRecord) WithClip(clipID string) SongRecord {
	s.AudioClipID = clipID
	return s
}

// WithSimilar returns a copy carrying the given recommendations.
func (s SongRecord) WithSimilar(similar []SongRecord) SongRecord {
	s.SimilarSongs = append([]SongRecord{}, similar...)
	return s
}

// JoinNames joins non-blank names with ", ".
func JoinNames(names []string) string {
	kept := make([]string, 0, len(names))
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			continue
		}
		kept = append(kept, n)
	}
	return strings.Join(kept, ", ")
}

// FirstNonEmpty returns the first argument that is not blank.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
