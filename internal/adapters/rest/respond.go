package rest

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"github.com/ewilliams-labs/songradar/internal/core/domain"
	"github.com/ewilliams-labs/songradar/internal/core/services"
)

const (
	errCodeNoMatch        = "NO_MATCH"
	errCodeUpstream       = "UPSTREAM_ERROR"
	errCodeBadRequest     = "BAD_REQUEST"
	errCodeNotConfigured  = "NOT_CONFIGURED"
	errCodeUnprocessable  = "AUDIO_UNPROCESSABLE"
	errCodeInternalServer = "INTERNAL"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
	Stage string `json:"stage,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeErrorWithCode(w http.ResponseWriter, status int, msg, code string) {
	writeJSON(w, status, errorResponse{Error: msg, Code: code})
}

// writeServiceError maps core errors onto statuses.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	log := h.log.Function("writeServiceError").TraceFromContext(r.Context())

	var noMatch *domain.NoMatchError
	var upstream *domain.UpstreamError
	switch {
	case errors.As(err, &noMatch):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: noMatch.Error(), Code: errCodeNoMatch, Stage: string(noMatch.Stage)})
	case errors.Is(err, domain.ErrNoMatch):
		writeErrorWithCode(w, http.StatusNotFound, err.Error(), errCodeNoMatch)
	case errors.As(err, &upstream):
		log.Warn("upstream failure", "service", upstream.Service, "status", upstream.StatusCode, "error", err)
		writeErrorWithCode(w, http.StatusBadGateway, "upstream service "+upstream.Service+" failed", errCodeUpstream)
	case errors.Is(err, services.ErrEmptyQuery):
		writeErrorWithCode(w, http.StatusBadRequest, err.Error(), errCodeBadRequest)
	case errors.Is(err, services.ErrShazamDisabled):
		writeErrorWithCode(w, http.StatusServiceUnavailable, err.Error(), errCodeNotConfigured)
	default:
		_ = log.Err("unhandled error", err, "path", r.URL.Path)
		writeErrorWithCode(w, http.StatusInternalServerError, "internal error", errCodeInternalServer)
	}
}

func isJSONContentType(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}
