package rest

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/ewilliams-labs/songradar/internal/recording"
)

// MaxUploadBytes bounds an identify upload. Clips are seconds long.
const MaxUploadBytes = 10 << 20

// ClipDurationHeader carries a stored clip's length in seconds.
const ClipDurationHeader = "X-Clip-Duration"

// Identify handles POST /api/identify. The body is either the raw clip or a
// multipart form with the clip in the "sample" field.
func (h *Handler) Identify(w http.ResponseWriter, r *http.Request) {
	log := h.log.Function("Identify").TraceFromContext(r.Context())

	// 1. Read the clip
	audio, contentType, err := readClip(w, r)
	if err != nil {
		writeErrorWithCode(w, http.StatusBadRequest, err.Error(), errCodeBadRequest)
		return
	}

	// 2. Convert it if needed
	if h.svc.Audio != nil {
		audio, contentType, err = h.svc.Audio.Prepare(r.Context(), audio, contentType)
		if err != nil {
			_ = log.Err("audio preparation failed", err)
			writeErrorWithCode(w, http.StatusUnprocessableEntity, "audio could not be processed", errCodeUnprocessable)
			return
		}
	}

	// 3. Identify
	rec, err := h.svc.Identifier.Identify(r.Context(), audio, contentType)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	// 4. Optionally attach recommendations
	if similar, _ := strconv.ParseBool(r.URL.Query().Get("similar")); similar && h.svc.Recommender != nil {
		rec = rec.WithSimilar(h.svc.Recommender.RecommendRecords(rec, 0))
	}

	writeJSON(w, http.StatusOK, rec)
}

var errEmptyClip = errors.New("audio sample is required")

func readClip(w http.ResponseWriter, r *http.Request) ([]byte, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
			return nil, "", errors.New("invalid multipart body")
		}
		file, header, err := r.FormFile("sample")
		if err != nil {
			return nil, "", errEmptyClip
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return nil, "", errors.New("failed to read sample")
		}
		if len(data) == 0 {
			return nil, "", errEmptyClip
		}
		return data, header.Header.Get("Content-Type"), nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, "", errors.New("failed to read body")
	}
	if len(data) == 0 {
		return nil, "", errEmptyClip
	}
	if mediaType == "application/octet-stream" {
		mediaType = ""
	}
	return data, mediaType, nil
}

// clipInfo describes a stored clip without its bytes.
type clipInfo struct {
	ID              string    `json:"id"`
	ContentType     string    `json:"content_type"`
	Bytes           int       `json:"bytes"`
	DurationSeconds float64   `json:"duration_seconds"`
	SampleRate      int       `json:"sample_rate,omitempty"`
	Channels        int       `json:"channels,omitempty"`
	StoredAt        time.Time `json:"stored_at"`
}

func (h *Handler) lookupClip(w http.ResponseWriter, r *http.Request) (recording.Clip, bool) {
	if h.svc.Clips == nil {
		writeErrorWithCode(w, http.StatusNotFound, "clip storage disabled", errCodeNotConfigured)
		return recording.Clip{}, false
	}
	clip, ok := h.svc.Clips.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "clip not found")
		return recording.Clip{}, false
	}
	return clip, true
}

// GetClipInfo handles GET /api/clips/{id}/info
func (h *Handler) GetClipInfo(w http.ResponseWriter, r *http.Request) {
	clip, ok := h.lookupClip(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, clipInfo{
		ID:              clip.ID,
		ContentType:     clip.ContentType,
		Bytes:           len(clip.Data),
		DurationSeconds: clip.Info.Duration.Seconds(),
		SampleRate:      clip.Info.SampleRate,
		Channels:        clip.Info.Channels,
		StoredAt:        clip.StoredAt,
	})
}

// GetClip handles GET /api/clips/{id}. The probed duration, when known, is
// sent in ClipDurationHeader.
func (h *Handler) GetClip(w http.ResponseWriter, r *http.Request) {
	clip, ok := h.lookupClip(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", clip.ContentType)
	if clip.Info.Duration > 0 {
		w.Header().Set(ClipDurationHeader, strconv.FormatFloat(clip.Info.Duration.Seconds(), 'f', 3, 64))
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(clip.Data)))
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(clip.Data)
}
