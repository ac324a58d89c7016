// Package shazam searches tracks through the RapidAPI Shazam proxy.
package shazam

import (
	"context"
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

const service = "shazam"

// Client is an HTTP client for the Shazam search endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	apiHost    string
	log        logger.Logger
}

// compile-time interface assertion
var _ ports.TrackSearcher = (*Client)(nil)

// NewClient constructs a new Shazam client. apiHost defaults to the host of
// baseURL.
func NewClient(httpClient *http.Client, baseURL, apiKey, apiHost string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if apiHost == "" {
		if u, err := url.Parse(baseURL); err == nil {
			apiHost = u.Host
		}
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		apiHost:    apiHost,
		log:        logger.New("shazam"),
	}
}

// SearchTracks returns up to limit hits for query.
func (c *Client) SearchTracks(ctx context.Context, query string, limit int) ([]domain.SongRecord, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("limit", strconv.Itoa(limit))

	endpoint := c.baseURL + "/shazam/search_track/?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("shazam adapter: %w", err)
	}
	req.Header.Set("x-rapidapi-key", c.apiKey)
	req.Header.Set("x-rapidapi-host", c.apiHost)

	resp, err := upstream.Do(c.httpClient, service, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var sr searchResponse
	if err := upstream.DecodeJSON(service, resp.Body, &sr); err != nil {
		return nil, err
	}

	hits := sr.Result.Tracks.Hits
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]domain.SongRecord, 0, len(hits))
	for _, h := range hits {
		out = append(out, normalizeShazamHit(h))
	}
	c.log.Function("SearchTracks").TraceFromContext(ctx).Debug("shazam search", "query", query, "results", len(out))
	return out, nil
}
