package handlers

import (
	"mime"
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"

	"github.com/fileflow/fileflow/internal/logger"
	"github.com/fileflow/fileflow/pkg/web"
)

// StaticHandler serves the embedded browser bundle.
type StaticHandler struct {
	fileServer http.Handler
}

// NewStaticHandler creates a static handler over the embedded bundle.
func NewStaticHandler() *StaticHandler {
	return &StaticHandler{
		fileServer: http.FileServerFS(web.Dist()),
	}
}

// Home handles GET /.
func (h *StaticHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.servePage(w, "index.html")
}

// Upload handles GET /upload.
func (h *StaticHandler) Upload(w http.ResponseWriter, r *http.Request) {
	h.servePage(w, "upload/index.html")
}

// Download handles GET /download and GET /{id}/file, both of which
// render the receive page; the client reads the ID from the URL.
func (h *StaticHandler) Download(w http.ResponseWriter, r *http.Request) {
	h.servePage(w, "download/index.html")
}

// Asset handles GET /assets/{path} with the MIME type inferred from
// the file extension.
func (h *StaticHandler) Asset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "*")

	data, err := web.Page(path.Join("assets", path.Clean("/"+name)))
	if err != nil {
		logger.Warn("asset not found", "path", name)
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	contentType := mime.TypeByExtension(path.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(data)
}

// Fallback serves any unmatched path from the bundle.
func (h *StaticHandler) Fallback(w http.ResponseWriter, r *http.Request) {
	h.fileServer.ServeHTTP(w, r)
}

func (h *StaticHandler) servePage(w http.ResponseWriter, page string) {
	data, err := web.Page(page)
	if err != nil {
		logger.Error("page not found in bundle", "page", page)
		http.Error(w, "Page not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(data)
}
