package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ewilliams-labs/songradar/internal/config"
	"github.com/ewilliams-labs/songradar/internal/logger"
)

func main() {
	// 1. Configuration
	cfg, err := config.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}
	logger.Configure(logger.Config{Format: logger.Format(cfg.LogFormat), Level: logger.ParseLevel(cfg.LogLevel)})
	log := logger.New("main").Function("main")

	// 2. Adapters, catalog and services
	app, err := build(context.Background(), cfg)
	if err != nil {
		_ = log.Err("failed to start", err)
		os.Exit(1)
	}
	defer app.close()

	// 3. Start the Server
	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	log.Info("🎧 Song Radar API is running", "addr", addr, "catalog_rows", app.catalogSize, "chat", cfg.ChatProvider)

	srv := &http.Server{
		Addr:              addr,
		Handler:           app.handler,
		ReadHeaderTimeout: 15 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		if err != nil {
			_ = log.Err("server failed", err)
			app.close()
			os.Exit(1)
		}
	case <-ctx.Done():
		log.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = log.Err("shutdown error", err)
		}
	}
}
