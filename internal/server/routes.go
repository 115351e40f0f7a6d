package server

import (
	"net/http"
	"strings"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// UI
	mux.HandleFunc("/", s.app.PageHandler.Index)
	mux.HandleFunc("/static/", s.app.PageHandler.Static)

	// API routes - Dashboard
	mux.HandleFunc("/api/summary", s.app.DashboardHandler.Summary)
	mux.HandleFunc("/api/segment/", s.app.DashboardHandler.Segment) // GET /{key} and /{key}/export
	mux.HandleFunc("/api/upsell", s.app.DashboardHandler.Upsell)
	mux.HandleFunc("/api/info", s.app.DashboardHandler.Info)

	// API routes - Chat
	mux.HandleFunc("/api/chat", s.app.ChatHandler.Chat)

	// API routes - System
	mux.HandleFunc("/api/version", s.app.SystemHandler.Version)
	mux.HandleFunc("/api/health", s.app.SystemHandler.Health)

	// Unmatched /api/ paths get a JSON 404
	mux.HandleFunc("/api/", s.handleAPINotFound)

	return mux
}

func (s *Server) handleAPINotFound(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		s.app.SystemHandler.NotFound(w, r)
		return
	}
	http.NotFound(w, r)
}
