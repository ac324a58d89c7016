package rest

import (
	"encoding/json"
	"net/http"

	"github.com/ewilliams-labs/songradar/internal/core/domain"
)

type chatRequest struct {
	History domain.Conversation `json:"history"`
	Message string              `json:"message"`
}

type chatResponse struct {
	Reply   string              `json:"reply"`
	History domain.Conversation `json:"history"`
}

// Chat handles POST /api/chat. The client owns the history and sends it back
// with every message.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}
	if h.svc.Assistant == nil {
		writeErrorWithCode(w, http.StatusServiceUnavailable, "chat not configured", errCodeNotConfigured)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	reply, history, err := h.svc.Assistant.Reply(r.Context(), req.History, req.Message)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{Reply: reply, History: history})
}
