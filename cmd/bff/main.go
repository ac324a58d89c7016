// Package main provides the BFF (Backend-for-Frontend) gateway for Song Radar.
// It answers its own health probes and forwards /api/* to the API process.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ewilliams-labs/songradar/internal/logger"
)

func main() {
	backendURL := getEnv("BACKEND_URL", "http://backend:8080")
	port := getEnv("PORT", "3000")
	logger.Configure(logger.Config{
		Format: logger.Format(getEnv("LOG_FORMAT", string(logger.FormatJSON))),
		Level:  logger.ParseLevel(getEnv("LOG_LEVEL", "info")),
	})
	log := logger.New("bff").Function("main")

	log.Info("🎭 Song Radar BFF starting...", "backend_url", backendURL, "port", port)

	// Verify backend connectivity on startup
	if err := waitForBackend(backendURL, 30*time.Second); err != nil {
		log.Warn("Backend not reachable (continuing anyway)", "error", err)
	} else {
		log.Info("Backend health check passed")
	}

	mux, err := newMux(backendURL)
	if err != nil {
		_ = log.Err("invalid BACKEND_URL", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     mux,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("BFF is running", "addr", "http://localhost:"+port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			_ = log.Err("Server error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("🛑 Shutting down BFF...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		_ = log.Err("Shutdown error", err)
		os.Exit(1)
	}
	log.Info("👋 BFF stopped")
}

func newMux(backendURL string) (*http.ServeMux, error) {
	target, err := url.Parse(backendURL)
	if err != nil {
		return nil, err
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("backend url %q must be absolute", backendURL)
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logger.New("bff").Function("proxy").Warn("backend request failed", "path", r.URL.Path, "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, `{"error":"backend unavailable","code":"UPSTREAM_ERROR"}`)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		readyHandler(w, r, backendURL)
	})
	mux.Handle("/api/", proxy)
	mux.HandleFunc("/", rootHandler)
	return mux, nil
}

// healthHandler returns the BFF's own health status
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, `{"status":"healthy","service":"bff"}`)
}

// readyHandler checks if the BFF can reach the backend
func readyHandler(w http.ResponseWriter, r *http.Request, backendURL string) {
	w.Header().Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 5 * time.Second}
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, backendURL+"/health", nil)
	if err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprintf(w, `{"status":"not_ready","error":%q}`, err.Error())
		return
	}
	resp, err := client.Do(req)
	if err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprintf(w, `{"status":"not_ready","error":%q}`, err.Error())
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprintf(w, `{"status":"not_ready","backend_status":%d}`, resp.StatusCode)
		return
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, `{"status":"ready","backend":"connected"}`)
}

// rootHandler provides basic service info
func rootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, `{"service":"songradar-bff","version":"0.1.0","description":"Backend-for-Frontend API Gateway"}`)
}

// waitForBackend polls the backend health endpoint until it responds or times out
func waitForBackend(backendURL string, timeout time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := client.Get(backendURL + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(500 * time.Millisecond)
	}

	return fmt.Errorf("backend not available after %v", timeout)
}

// getEnv returns environment variable value or default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
