package shazam

import "github.com/ewilliams-labs/songradar/internal/core/domain"

// normalizeShazamHit maps one search hit. Shazam search carries no duration.
func normalizeShazamHit(h trackHit) domain.SongRecord {
	artist := h.Heading.Subtitle
	if len(h.Artists) > 0 {
		aliases := make([]string, 0, len(h.Artists))
		for _, a := range h.Artists {
			aliases = append(aliases, a.Alias)
		}
		artist = domain.FirstNonEmpty(domain.JoinNames(aliases), artist)
	}

	var apple string
	if len(h.Stores.Apple.Actions) > 0 {
		apple = h.Stores.Apple.Actions[0].URI
	}

	return domain.SongRecord{
		TrackName:     h.Heading.Title,
		Artist:        artist,
		AlbumArtURL:   h.Images.Default,
		AppleMusicURL: apple,
		ShareURL:      domain.FirstNonEmpty(h.Share.Href, h.URL),
	}
}
