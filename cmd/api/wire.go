package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ewilliams-labs/songradar/internal/adapters/acrcloud"
	"github.com/ewilliams-labs/songradar/internal/adapters/groq"
	"github.com/ewilliams-labs/songradar/internal/adapters/lrclib"
	"github.com/ewilliams-labs/songradar/internal/adapters/ollama"
	"github.com/ewilliams-labs/songradar/internal/adapters/rest"
	"github.com/ewilliams-labs/songradar/internal/adapters/shazam"
	"github.com/ewilliams-labs/songradar/internal/adapters/sqlite"
	"github.com/ewilliams-labs/songradar/internal/adapters/upstream"
	"github.com/ewilliams-labs/songradar/internal/catalog"
	"github.com/ewilliams-labs/songradar/internal/config"
	"github.com/ewilliams-labs/songradar/internal/core/domain"
	"github.com/ewilliams-labs/songradar/internal/core/ports"
	"github.com/ewilliams-labs/songradar/internal/core/services"
	"github.com/ewilliams-labs/songradar/internal/recording"
)

type app struct {
	handler     http.Handler
	catalogSize int
	closers     []func() error
}

func (a *app) close() {
	for _, c := range a.closers {
		_ = c()
	}
	a.closers = nil
}

// build wires adapters into services. The catalog is read once here.
func build(ctx context.Context, cfg config.Config) (*app, error) {
	a := &app{}
	httpClient := upstream.NewHTTPClient(cfg.UpstreamTimeout)

	// -- Catalog
	entries, err := loadCatalog(ctx, cfg, a)
	if err != nil {
		a.close()
		return nil, err
	}
	a.catalogSize = len(entries)

	// -- Upstream adapters
	acr := acrcloud.NewClient(acrcloud.Options{
		IdentifyURL:  cfg.ACRIdentifyURL,
		AccessKey:    cfg.ACRAccessKey,
		AccessSecret: cfg.ACRAccessSecret,
		MetadataURL:  cfg.ACRMetadataURL,
		Token:        cfg.ACRToken,
		HTTPClient:   httpClient,
	})
	lyrics := lrclib.NewClient(httpClient, cfg.LrclibURL, cfg.LrclibUserAgent)

	var tracks ports.TrackSearcher
	if cfg.ShazamAPIKey != "" {
		tracks = shazam.NewClient(httpClient, cfg.ShazamURL, cfg.ShazamAPIKey, cfg.ShazamAPIHost)
	}

	var completer ports.ChatCompleter
	switch cfg.ChatProvider {
	case config.ChatProviderGroq:
		completer = groq.NewClient(httpClient, cfg.GroqURL, cfg.GroqAPIKey, cfg.GroqModel)
	default:
		completer = ollama.NewClient(httpClient, cfg.OllamaHost, cfg.OllamaModel)
	}

	// -- Core services
	clips := recording.NewStore(cfg.ClipStoreSize)
	a.handler = rest.NewHandler(rest.Services{
		Identifier:  services.NewIdentifier(acr, acr, lyrics, clips),
		Searcher:    services.NewSearcher(acr, lyrics, tracks),
		Recommender: services.NewRecommender(entries, cfg.RecommendLimit),
		Assistant:   services.NewAssistant(completer),
		Clips:       clips,
		Audio:       recording.NewTranscoder(cfg.AudioTranscode, cfg.FfmpegPath),
	})
	return a, nil
}

func loadCatalog(ctx context.Context, cfg config.Config, a *app) ([]domain.CatalogEntry, error) {
	var source ports.CatalogSource
	switch cfg.CatalogDriver {
	case config.CatalogDriverSQLite:
		db, err := sqlite.NewAdapter(cfg.CatalogPath)
		if err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		source = db
	default:
		source = catalog.NewCSVSource(cfg.CatalogPath)
	}

	entries, err := source.LoadCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return entries, nil
}
