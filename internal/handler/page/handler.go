// Package page renders the browser landing page.
package page

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

//go:embed templates/index.html
var templates embed.FS

var indexTemplate = template.Must(template.ParseFS(templates, "templates/index.html"))

type indexData struct {
	Title     string
	CheckPath string
}

// Handler serves GET /.
type Handler struct {
	data indexData
}

// New creates a landing page handler that posts to checkPath.
func New(checkPath string) *Handler {
	return &Handler{data: indexData{Title: "Misinformation Check", CheckPath: checkPath}}
}

// RegisterRoutes mounts the landing page.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.handleIndex)
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, h.data); err != nil {
		slog.ErrorContext(r.Context(), "render index", "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
