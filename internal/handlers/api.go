package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/rosellabs/crmlens/internal/common"
	"github.com/rosellabs/crmlens/internal/interfaces"
)

// SystemHandler serves health and version endpoints.
type SystemHandler struct {
	store interfaces.CustomerStore
	chat  interfaces.ChatService
}

// NewSystemHandler creates a system handler.
func NewSystemHandler(store interfaces.CustomerStore, chat interfaces.ChatService) *SystemHandler {
	return &SystemHandler{
		store: store,
		chat:  chat,
	}
}

// Health handles GET /api/health.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "healthy"
	statusCode := http.StatusOK
	if h.store.Count() == 0 {
		status = "degraded"
		statusCode = http.StatusServiceUnavailable
	}

	WriteJSON(w, statusCode, map[string]interface{}{
		"status":    status,
		"customers": h.store.Count(),
		"llm_mode":  h.chat.GetMode(),
		"chat_ok":   h.chat.HealthCheck(ctx) == nil,
	})
}

// Version handles GET /api/version.
func (h *SystemHandler) Version(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetFullVersion(),
	})
}

// NotFound handles unmatched /api/ paths with a JSON error instead of the
// default HTML 404 page.
func (h *SystemHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	WriteError(w, http.StatusNotFound, "Endpoint not found: "+r.URL.Path)
}
