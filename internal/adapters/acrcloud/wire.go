package acrcloud

// Wire types mirror the ACRCloud JSON bodies. Nested objects are values so
// that absent sections decode as zero values instead of failing.

type identifyResponse struct {
	Status   identifyStatus   `json:"status"`
	Metadata identifyMetadata `json:"metadata"`
}

type identifyStatus struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

type identifyMetadata struct {
	Music []identifyMusic `json:"music"`
}

type identifyMusic struct {
	Title   string       `json:"title"`
	Artists []wireArtist `json:"artists"`
	Album   wireAlbum    `json:"album"`
	ACRID   string       `json:"acrid"`
	Score   float64      `json:"score"`
}

type metadataResponse struct {
	Data []metadataTrack `json:"data"`
}

type metadataTrack struct {
	Name             string           `json:"name"`
	Artists          []wireArtist     `json:"artists"`
	Album            wireAlbum        `json:"album"`
	DurationMs       float64          `json:"duration_ms"`
	Genres           []string         `json:"genres"`
	Language         string           `json:"language"`
	ReleaseDate      string           `json:"release_date"`
	ExternalMetadata externalMetadata `json:"external_metadata"`
}

type wireArtist struct {
	Name string `json:"name"`
}

type wireAlbum struct {
	Name   string     `json:"name"`
	Cover  string     `json:"cover"`
	Covers wireCovers `json:"covers"`
}

type wireCovers struct {
	Large  string `json:"large"`
	Medium string `json:"medium"`
	Small  string `json:"small"`
}

type externalMetadata struct {
	Spotify    []externalLink `json:"spotify"`
	YouTube    []externalLink `json:"youtube"`
	AppleMusic []externalLink `json:"applemusic"`
}

type externalLink struct {
	Link    string `json:"link"`
	Preview string `json:"preview"`
}
