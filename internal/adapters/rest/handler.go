package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ewilliams-labs/songradar/internal/core/domain"
	"github.com/ewilliams-labs/songradar/internal/core/ports"
	"github.com/ewilliams-labs/songradar/internal/logger"
	"github.com/ewilliams-labs/songradar/internal/recording"
)

// TraceHeader carries the request trace id in and out.
const TraceHeader = "X-Request-ID"

// Identifier runs the audio identification flow.
type Identifier interface {
	Identify(ctx context.Context, audio []byte, contentType string) (domain.SongRecord, error)
}

// Searcher serves the text search endpoints.
type Searcher interface {
	SearchSongs(ctx context.Context, name string) ([]domain.SongRecord, error)
	SongMetadata(ctx context.Context, acrID, title, artist string) (domain.SongRecord, error)
	SearchLyrics(ctx context.Context, query string) ([]domain.SongRecord, error)
	Lyrics(ctx context.Context, q ports.LyricsQuery) (domain.SongRecord, error)
	SearchShazam(ctx context.Context, query string, limit int) ([]domain.SongRecord, error)
}

// Recommender picks similar catalog songs.
type Recommender interface {
	RecommendRecords(source domain.SongRecord, k int) []domain.SongRecord
}

// Assistant answers chat messages.
type Assistant interface {
	Reply(ctx context.Context, history domain.Conversation, input string) (string, domain.Conversation, error)
}

// ClipReader returns stored recordings.
type ClipReader interface {
	Get(id string) (recording.Clip, bool)
}

// AudioPreparer converts an upload before identification.
type AudioPreparer interface {
	Prepare(ctx context.Context, data []byte, contentType string) ([]byte, string, error)
}

// Services groups the collaborators of a Handler. Audio may be nil.
type Services struct {
	Identifier  Identifier
	Searcher    Searcher
	Recommender Recommender
	Assistant   Assistant
	Clips       ClipReader
	Audio       AudioPreparer
}

// Handler manages the HTTP interface for our application.
type Handler struct {
	svc    Services
	router *http.ServeMux // Standard library router
	log    logger.Logger
}

// NewHandler initializes the HTTP adapter and sets up routes.
func NewHandler(svc Services) *Handler {
	h := &Handler{
		svc:    svc,
		router: http.NewServeMux(),
		log:    logger.New("rest"),
	}

	// Register Routes
	h.routes()

	return h
}

// ServeHTTP satisfies the http.Handler interface. Every request gets a
// trace id before it reaches the router.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	traceID := r.Header.Get(TraceHeader)
	if traceID == "" {
		traceID = uuid.NewString()
	}
	w.Header().Set(TraceHeader, traceID)
	r = r.WithContext(logger.ContextWithTraceID(r.Context(), traceID))

	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	start := time.Now()
	h.router.ServeHTTP(rec, r)

	h.log.TraceFromContext(r.Context()).Debug("request served",
		"method", r.Method,
		"path", r.URL.Path,
		"status", rec.status,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

// routes defines the mapping between URLs and methods.
func (h *Handler) routes() {
	// Health Check
	h.router.HandleFunc("GET /health", h.HealthCheck)
	// Identification
	h.router.HandleFunc("POST /api/identify", h.Identify)
	h.router.HandleFunc("GET /api/clips/{id}", h.GetClip)
	h.router.HandleFunc("GET /api/clips/{id}/info", h.GetClipInfo)
	// Search
	h.router.HandleFunc("GET /api/songs", h.SearchSongs)
	h.router.HandleFunc("GET /api/songs/metadata", h.SongMetadata)
	h.router.HandleFunc("GET /api/lyrics/search", h.SearchLyrics)
	h.router.HandleFunc("GET /api/lyrics", h.GetLyrics)
	h.router.HandleFunc("GET /api/shazam", h.SearchShazam)
	// Recommendations and chat
	h.router.HandleFunc("POST /api/recommendations", h.Recommend)
	h.router.HandleFunc("POST /api/chat", h.Chat)
}

// HealthCheck is a simple endpoint to verify the API is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok", "message": "Song Radar is listening 🎧"})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
