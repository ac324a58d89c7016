package upstream

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ewilliams-labs/songradar/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		ok         []int
		wantErr    bool
		wantStatus int
		attempts   int
	}{
		{name: "2xx passes", status: http.StatusOK, body: `{}`},
		{name: "404 accepted when listed", status: http.StatusNotFound, ok: []int{http.StatusOK, http.StatusNotFound}},
		{name: "503 is an upstream error and is not retried", status: http.StatusServiceUnavailable, body: "overloaded", wantErr: true, wantStatus: 503},
		{name: "401 is an upstream error", status: http.StatusUnauthorized, wantErr: true, wantStatus: 401},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempts := 0
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				attempts++
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
			require.NoError(t, err)

			resp, err := Do(NewHTTPClient(0), "svc", req, tt.ok...)
			assert.Equal(t, 1, attempts)

			if !tt.wantErr {
				require.NoError(t, err)
				resp.Body.Close()
				return
			}
			require.Error(t, err)
			var up *domain.UpstreamError
			require.True(t, errors.As(err, &up))
			assert.Equal(t, "svc", up.Service)
			assert.Equal(t, tt.wantStatus, up.StatusCode)
			if tt.body != "" {
				assert.Contains(t, err.Error(), tt.body)
			}
		})
	}
}

func TestDo_TransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)

	_, err = Do(nil, "svc", req)

	var up *domain.UpstreamError
	require.True(t, errors.As(err, &up))
	assert.Zero(t, up.StatusCode)
}

func TestDecodeJSON(t *testing.T) {
	var v struct{ A int }
	require.NoError(t, DecodeJSON("svc", strings.NewReader(`{"A":1}`), &v))
	assert.Equal(t, 1, v.A)

	err := DecodeJSON("svc", strings.NewReader(`<html>`), &v)
	assert.ErrorIs(t, err, domain.ErrMalformedUpstreamResponse)
}
