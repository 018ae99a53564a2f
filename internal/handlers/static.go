package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// HandleStatic serves the web front-end bundle. Unknown paths fall back to
// index.html so client-side routes resolve.
func (h *Handler) HandleStatic(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/")

	// Prevent directory traversal attacks
	if strings.Contains(name, "..") {
		http.Error(w, "Invalid file path", http.StatusBadRequest)
		return
	}
	if name == "" {
		name = "index.html"
	}

	fullPath := filepath.Join(h.staticDir, filepath.FromSlash(name))
	if info, err := os.Stat(fullPath); err != nil || info.IsDir() {
		fullPath = filepath.Join(h.staticDir, "index.html")
	}

	switch {
	case strings.HasSuffix(fullPath, ".css"):
		w.Header().Set("Content-Type", "text/css")
	case strings.HasSuffix(fullPath, ".js"):
		w.Header().Set("Content-Type", "application/javascript")
	case strings.HasSuffix(fullPath, ".html"):
		w.Header().Set("Content-Type", "text/html")
	}
	http.ServeFile(w, r, fullPath)
}
