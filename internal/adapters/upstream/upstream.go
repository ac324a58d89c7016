// Package upstream performs single-attempt HTTP calls to third-party services
// and classifies their failures as domain.UpstreamError.
package upstream

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ewilliams-labs/songradar/internal/core/domain"
	"github.com/ewilliams-labs/songradar/internal/logger"
)

// maxErrorBody bounds how much of a failed response is kept in the error.
const maxErrorBody = 512

// NewHTTPClient returns a client with the given timeout. A zero timeout means
// the client waits for as long as the upstream does.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// Do sends req once. Transport failures and statuses outside okStatuses
// (default: any 2xx) come back as *domain.UpstreamError; the response body
// is closed in that case. Nothing is retried.
func Do(client *http.Client, service string, req *http.Request, okStatuses ...int) (*http.Response, error) {
	log := logger.New(service).Function("Do").TraceFromContext(req.Context())
	if client == nil {
		client = http.DefaultClient
	}

	start := time.Now()
	// #nosec G107 -- URL is built from configured upstream base URLs
	resp, err := client.Do(req)
	if err != nil {
		log.Debug("upstream request failed", "method", req.Method, "path", req.URL.Path, "error", err)
		return nil, &domain.UpstreamError{Service: service, Err: err}
	}
	log.Debug("upstream responded",
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if statusAccepted(resp.StatusCode, okStatuses) {
		return resp, nil
	}

	defer resp.Body.Close()
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var cause error
	if msg := strings.TrimSpace(string(snippet)); msg != "" {
		cause = errors.New(msg)
	}
	return nil, &domain.UpstreamError{Service: service, StatusCode: resp.StatusCode, Err: cause}
}

func statusAccepted(status int, ok []int) bool {
	if len(ok) == 0 {
		return status >= 200 && status < 300
	}
	for _, s := range ok {
		if s == status {
			return true
		}
	}
	return false
}

// DecodeJSON decodes body into v. A body that is not JSON yields
// domain.ErrMalformedUpstreamResponse wrapped in an UpstreamError.
func DecodeJSON(service string, body io.Reader, v any) error {
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return &domain.UpstreamError{
			Service: service,
			Err:     fmt.Errorf("%w: %v", domain.ErrMalformedUpstreamResponse, err),
		}
	}
	return nil
}
