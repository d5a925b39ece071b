// Package site serves the embedded dashboard page.
package site

import (
	"context"
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static/*
var staticFS embed.FS

// Register mounts the dashboard page at / with its assets next to it.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("/", NewRootHandler())
}

// RootHandler serves the embedded page and assets.
type RootHandler struct {
	files http.Handler
}

// NewRootHandler creates a handler over the embedded static directory.
func NewRootHandler() *RootHandler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// static/* is embedded at build time, so Sub cannot fail here.
		panic(err)
	}
	return &RootHandler{files: http.FileServer(http.FS(sub))}
}

// ServeHTTP answers GET and HEAD only; assets are revalidated on every load.
func (h *RootHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Cache-Control", "no-cache")
	h.files.ServeHTTP(w, r)
}
