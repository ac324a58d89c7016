package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestMux_ProxiesAPIAndProbesBackend(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			w.WriteHeader(http.StatusOK)
		case "/api/songs":
			_, _ = io.WriteString(w, `[{"track_name":"`+r.URL.Query().Get("q")+`"}]`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer backend.Close()

	mux, err := newMux(backend.URL)
	if err != nil {
		t.Fatalf("newMux: %v", err)
	}

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantBody   string
	}{
		{name: "own health", target: "/health", wantStatus: http.StatusOK, wantBody: `{"status":"healthy","service":"bff"}`},
		{name: "ready", target: "/ready", wantStatus: http.StatusOK, wantBody: `{"status":"ready","backend":"connected"}`},
		{name: "proxied api", target: "/api/songs?q=Hello", wantStatus: http.StatusOK, wantBody: `[{"track_name":"Hello"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.target, nil))
			if rr.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rr.Code)
			}
			if rr.Body.String() != tt.wantBody {
				t.Fatalf("unexpected body %q", rr.Body.String())
			}
		})
	}
}

func TestMux_BackendDown(t *testing.T) {
	backend := httptest.NewServer(http.NotFoundHandler())
	url := backend.URL
	backend.Close()

	mux, err := newMux(url)
	if err != nil {
		t.Fatalf("newMux: %v", err)
	}

	for _, target := range []string{"/ready", "/api/songs"} {
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
		if rr.Code != http.StatusServiceUnavailable && rr.Code != http.StatusBadGateway {
			t.Fatalf("%s: expected 502/503, got %d", target, rr.Code)
		}
	}
}

func TestNewMux_RejectsRelativeURL(t *testing.T) {
	if _, err := newMux("backend:8080/x"); err == nil {
		t.Fatal("expected error for relative url")
	}
}

func TestWaitForBackend_Timeout(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer backend.Close()

	if err := waitForBackend(backend.URL, 10*time.Millisecond); err == nil {
		t.Fatal("expected timeout error")
	}
}
