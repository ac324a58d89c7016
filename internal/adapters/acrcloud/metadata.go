package acrcloud

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ewilliams-labs/songradar/internal/adapters/upstream"
	"github.com/ewilliams-labs/songradar/internal/core/domain"
)

type trackQuery struct {
	Track   string   `json:"track"`
	Artists []string `json:"artists,omitempty"`
}

// SearchByName searches the metadata API by track title. Results keep the
// upstream order.
func (c *Client) SearchByName(ctx context.Context, name string) ([]domain.SongRecord, error) {
	params, err := queryParams(trackQuery{Track: name})
	if err != nil {
		return nil, err
	}
	params.Set("platforms", metadataPlatforms)

	tracks, err := c.fetchTracks(ctx, params)
	if err != nil {
		return nil, err
	}

	out := make([]domain.SongRecord, 0, len(tracks))
	for _, t := range tracks {
		out = append(out, normalizeSearchHit(t))
	}
	c.log.Function("SearchByName").TraceFromContext(ctx).Debug("metadata search", "query", name, "results", len(out))
	return out, nil
}

// LookupByID fetches one track by its ACRCloud id.
func (c *Client) LookupByID(ctx context.Context, acrID string) (domain.SongRecord, error) {
	params := url.Values{}
	params.Set("acr_id", acrID)
	params.Set("platforms", metadataPlatforms)
	return c.lookup(ctx, params, acrID)
}

// LookupByTitle fetches the first track matching title and artist.
func (c *Client) LookupByTitle(ctx context.Context, title, artist string) (domain.SongRecord, error) {
	params, err := queryParams(trackQuery{Track: title, Artists: []string{artist}})
	if err != nil {
		return domain.SongRecord{}, err
	}
	params.Set("platforms", metadataPlatforms)
	return c.lookup(ctx, params, title)
}

func (c *Client) lookup(ctx context.Context, params url.Values, query string) (domain.SongRecord, error) {
	tracks, err := c.fetchTracks(ctx, params)
	if err != nil {
		return domain.SongRecord{}, err
	}
	if len(tracks) == 0 {
		return domain.SongRecord{}, &domain.NoMatchError{Stage: domain.StageMetadataConfirmed, Query: query}
	}
	return normalizeMetadataResult(tracks[0]), nil
}

func (c *Client) fetchTracks(ctx context.Context, params url.Values) ([]metadataTrack, error) {
	params.Set("format", "json")
	endpoint := c.metadataURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("acrcloud adapter: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := upstream.Do(c.metadataHTTP, serviceMetadata, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var mr metadataResponse
	if err := upstream.DecodeJSON(serviceMetadata, resp.Body, &mr); err != nil {
		return nil, err
	}
	return mr.Data, nil
}

func queryParams(q trackQuery) (url.Values, error) {
	b, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("acrcloud adapter: encode query: %w", err)
	}
	params := url.Values{}
	params.Set("query", string(b))
	return params, nil
}
