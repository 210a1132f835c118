package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
)

// Renderer writes a named HTML page.
type Renderer interface {
	Render(w io.Writer, name string, data any) error
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func renderHTML(w http.ResponseWriter, renderer Renderer, page string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := renderer.Render(w, page, data); err != nil {
		slog.Error("render failed", "error", err, "page", page)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// pathID parses a positive integer path segment. Signs and other non-digit
// input are rejected.
func pathID(r *http.Request, name string) (int64, bool) {
	v, err := strconv.ParseUint(r.PathValue(name), 10, 63)
	if err != nil || v == 0 {
		return 0, false
	}
	return int64(v), true
}
