package handlers

import (
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/ternarybob/arbor"
)

// PageHandler serves the dashboard HTML and its static assets.
type PageHandler struct {
	logger    arbor.ILogger
	templates *template.Template
	pagesDir  string
}

// NewPageHandler creates a page handler. An empty pagesDir triggers a
// search through the usual run locations.
func NewPageHandler(logger arbor.ILogger, pagesDir string) (*PageHandler, error) {
	if pagesDir == "" {
		pagesDir = findPagesDir()
	}

	templates, err := template.ParseGlob(filepath.Join(pagesDir, "*.html"))
	if err != nil {
		return nil, err
	}

	return &PageHandler{
		logger:    logger,
		templates: templates,
		pagesDir:  pagesDir,
	}, nil
}

// findPagesDir locates the pages directory relative to common run locations.
func findPagesDir() string {
	dirs := []string{
		"./pages",
		"../pages",
		"../../pages",
		".",
	}

	for _, dir := range dirs {
		if _, err := os.Stat(filepath.Join(dir, "index.html")); err == nil {
			abs, _ := filepath.Abs(dir)
			return abs
		}
	}

	return "."
}

// Index serves the dashboard page at /. Any other path falls through to 404.
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	if err := h.templates.ExecuteTemplate(w, "index.html", nil); err != nil {
		h.logger.Error().
			Err(err).
			Msg("Failed to render dashboard page")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Static serves files under pages/static with a traversal guard.
func (h *PageHandler) Static(w http.ResponseWriter, r *http.Request) {
	staticDir := filepath.Join(h.pagesDir, "static")

	path := strings.TrimPrefix(r.URL.Path, "/static/")
	fullPath := filepath.Join(staticDir, filepath.Clean("/"+path))

	if !strings.HasPrefix(fullPath, staticDir) {
		http.NotFound(w, r)
		return
	}

	http.ServeFile(w, r, fullPath)
}
