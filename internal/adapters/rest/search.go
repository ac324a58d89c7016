package rest

import (
	"net/http"
	"strconv"

	"github.com/ewilliams-labs/songradar/internal/core/ports"
)

// SearchSongs handles GET /api/songs?q=
func (h *Handler) SearchSongs(w http.ResponseWriter, r *http.Request) {
	results, err := h.svc.Searcher.SearchSongs(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// SongMetadata handles GET /api/songs/metadata?acr_id= or ?title=&artist=
func (h *Handler) SongMetadata(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rec, err := h.svc.Searcher.SongMetadata(r.Context(), q.Get("acr_id"), q.Get("title"), q.Get("artist"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// SearchLyrics handles GET /api/lyrics/search?q=
func (h *Handler) SearchLyrics(w http.ResponseWriter, r *http.Request) {
	results, err := h.svc.Searcher.SearchLyrics(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// GetLyrics handles GET /api/lyrics?track=&artist=&album=&duration=
func (h *Handler) GetLyrics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lq := ports.LyricsQuery{
		TrackName:  q.Get("track"),
		ArtistName: q.Get("artist"),
		AlbumName:  q.Get("album"),
	}
	if raw := q.Get("duration"); raw != "" {
		secs, err := strconv.ParseFloat(raw, 64)
		if err != nil || secs < 0 {
			writeErrorWithCode(w, http.StatusBadRequest, "duration must be a non-negative number of seconds", errCodeBadRequest)
			return
		}
		lq.DurationSeconds = secs
	}

	rec, err := h.svc.Searcher.Lyrics(r.Context(), lq)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// SearchShazam handles GET /api/shazam?q=&limit=
func (h *Handler) SearchShazam(w http.ResponseWriter, r *http.Request) {
	limit, ok := intParam(w, r, "limit")
	if !ok {
		return
	}
	results, err := h.svc.Searcher.SearchShazam(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// intParam reads an optional non-negative integer query parameter. It writes
// a 400 and returns false when the value is invalid.
func intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		writeErrorWithCode(w, http.StatusBadRequest, name+" must be a non-negative integer", errCodeBadRequest)
		return 0, false
	}
	return v, true
}
