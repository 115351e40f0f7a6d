package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/rosellabs/crmlens/internal/interfaces"
)

// ChatHandler serves the conversational endpoint.
type ChatHandler struct {
	chat   interfaces.ChatService
	logger arbor.ILogger
}

// NewChatHandler creates a chat handler.
func NewChatHandler(chat interfaces.ChatService, logger arbor.ILogger) *ChatHandler {
	return &ChatHandler{
		chat:   chat,
		logger: logger,
	}
}

// Chat handles POST /api/chat. The body is {"query": "..."} with optional
// retrieval overrides; the response is {"answer": ..., "context": [...]}.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req interfaces.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		WriteError(w, http.StatusBadRequest, "Query is required")
		return
	}

	resp, err := h.chat.Chat(r.Context(), &req)
	if err != nil {
		h.logger.Error().Err(err).Msg("Chat request failed")
		WriteError(w, http.StatusInternalServerError, "Chat request failed")
		return
	}

	h.logger.Info().
		Str("route", resp.Route).
		Int("context_docs", len(resp.Context)).
		Msg("Chat answered")

	WriteJSON(w, http.StatusOK, resp)
}
