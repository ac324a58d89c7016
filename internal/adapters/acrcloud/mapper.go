package acrcloud

import (
	"github.com/ewilliams-labs/songradar/internal/core/domain"
	"github.com/ewilliams-labs/songradar/internal/core/ports"
)

// normalizeMetadataResult maps a metadata lookup hit. Album art comes from
// album.cover only.
func normalizeMetadataResult(t metadataTrack) domain.SongRecord {
	rec := baseRecord(t)
	rec.AlbumArtURL = t.Album.Cover
	rec.Language = t.Language
	return rec
}

// normalizeSearchHit maps a name-search hit. Album art falls back from
// album.cover to covers.large to covers.medium.
func normalizeSearchHit(t metadataTrack) domain.SongRecord {
	rec := baseRecord(t)
	rec.AlbumArtURL = domain.FirstNonEmpty(t.Album.Cover, t.Album.Covers.Large, t.Album.Covers.Medium)
	return rec
}

func baseRecord(t metadataTrack) domain.SongRecord {
	spotify := firstLink(t.ExternalMetadata.Spotify)
	return domain.SongRecord{
		TrackName:       t.Name,
		Artist:          artistNames(t.Artists),
		Album:           t.Album.Name,
		DurationMinutes: domain.MinutesFromMillis(t.DurationMs),
		Genre:           domain.JoinNames(t.Genres),
		ReleaseDate:     t.ReleaseDate,
		SpotifyURL:      spotify.Link,
		PreviewURL:      spotify.Preview,
		YouTubeURL:      firstLink(t.ExternalMetadata.YouTube).Link,
		AppleMusicURL:   firstLink(t.ExternalMetadata.AppleMusic).Link,
	}
}

func firstLink(links []externalLink) externalLink {
	if len(links) == 0 {
		return externalLink{}
	}
	return links[0]
}

func artistNames(artists []wireArtist) string {
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		names = append(names, a.Name)
	}
	return domain.JoinNames(names)
}

func mapMatches(music []identifyMusic) []ports.FingerprintMatch {
	matches := make([]ports.FingerprintMatch, 0, len(music))
	for _, m := range music {
		artists := make([]string, 0, len(m.Artists))
		for _, a := range m.Artists {
			artists = append(artists, a.Name)
		}
		matches = append(matches, ports.FingerprintMatch{
			Title:   m.Title,
			Artists: artists,
			Album:   m.Album.Name,
			ACRID:   m.ACRID,
			Score:   m.Score,
		})
	}
	return matches
}
