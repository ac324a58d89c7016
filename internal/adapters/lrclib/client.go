// Package lrclib looks up plain and synced lyrics on LRCLIB.
package lrclib

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ewilliams-labs/songradar/internal/adapters/upstream"
	"github.com/ewilliams-labs/songradar/internal/core/domain"
	"github.com/ewilliams-labs/songradar/internal/core/ports"
	"github.com/ewilliams-labs/songradar/internal/logger"
)

const service = "lrclib"

// DefaultUserAgent identifies this client to LRCLIB.
const DefaultUserAgent = "SONG-RADAR v1.0"

// Client is an HTTP client for the LRCLIB API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	log        logger.Logger
}

// compile-time interface assertion
var _ ports.LyricsProvider = (*Client)(nil)

// NewClient constructs a new LRCLIB client.
func NewClient(httpClient *http.Client, baseURL, userAgent string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if strings.TrimSpace(userAgent) == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		log:        logger.New("lrclib"),
	}
}

// GetLyrics fetches the single best record for a track. A 404 is reported
// as domain.ErrNoMatch.
func (c *Client) GetLyrics(ctx context.Context, q ports.LyricsQuery) (domain.SongRecord, error) {
	params := url.Values{}
	params.Set("track_name", q.TrackName)
	params.Set("artist_name", q.ArtistName)
	if q.AlbumName != "" {
		params.Set("album_name", q.AlbumName)
	}
	if secs := int(q.DurationSeconds); secs > 0 {
		params.Set("duration", strconv.Itoa(secs))
	}

	req, err := c.newRequest(ctx, "/get", params)
	if err != nil {
		return domain.SongRecord{}, err
	}

	resp, err := upstream.Do(c.httpClient, service, req, http.StatusOK, http.StatusNotFound)
	if err != nil {
		return domain.SongRecord{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.SongRecord{}, &domain.NoMatchError{Stage: domain.StageLyricsEnriched, Query: q.TrackName}
	}

	var hit lyricsHit
	if err := upstream.DecodeJSON(service, resp.Body, &hit); err != nil {
		return domain.SongRecord{}, err
	}
	return normalizeLyricsHit(hit), nil
}

// SearchLyrics runs a free-text search. When the q search is rejected the
// query is sent once more as a track_name search.
func (c *Client) SearchLyrics(ctx context.Context, query string) ([]domain.SongRecord, error) {
	log := c.log.Function("SearchLyrics").TraceFromContext(ctx)

	hits, err := c.search(ctx, "q", query)
	if err != nil {
		var up *domain.UpstreamError
		if !asStatusError(err, &up) {
			return nil, err
		}
		log.Debug("q search rejected, trying track_name", "status", up.StatusCode)
		hits, err = c.search(ctx, "track_name", query)
		if err != nil {
			return nil, err
		}
	}

	out := make([]domain.SongRecord, 0, len(hits))
	for _, h := range hits {
		out = append(out, normalizeLyricsHit(h))
	}
	log.Debug("lyrics search", "results", len(out))
	return out, nil
}

func (c *Client) search(ctx context.Context, field, query string) ([]lyricsHit, error) {
	params := url.Values{}
	params.Set(field, query)

	req, err := c.newRequest(ctx, "/search", params)
	if err != nil {
		return nil, err
	}

	resp, err := upstream.Do(c.httpClient, service, req, http.StatusOK)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var hits []lyricsHit
	if err := upstream.DecodeJSON(service, resp.Body, &hits); err != nil {
		return nil, err
	}
	return hits, nil
}

func (c *Client) newRequest(ctx context.Context, path string, params url.Values) (*http.Request, error) {
	endpoint := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("lrclib adapter: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// asStatusError reports whether err is an upstream status rejection, as
// opposed to a transport failure.
func asStatusError(err error, target **domain.UpstreamError) bool {
	return errors.As(err, target) && (*target).StatusCode != 0
}
