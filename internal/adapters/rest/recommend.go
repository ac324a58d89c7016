package rest

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ewilliams-labs/songradar/internal/core/domain"
)

// Recommend handles POST /api/recommendations?k=
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}
	if h.svc.Recommender == nil {
		writeErrorWithCode(w, http.StatusServiceUnavailable, "recommendations not configured", errCodeNotConfigured)
		return
	}

	k, ok := intParam(w, r, "k")
	if !ok {
		return
	}

	var source domain.SongRecord
	if err := json.NewDecoder(r.Body).Decode(&source); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(source.TrackName) == "" && strings.TrimSpace(source.Artist) == "" {
		writeErrorWithCode(w, http.StatusBadRequest, "track_name or artist is required", errCodeBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, h.svc.Recommender.RecommendRecords(source, k))
}
