package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/contactportal/backend/internal/model"
	"github.com/contactportal/backend/internal/render"
	"github.com/contactportal/backend/internal/service"
)

// PortalHome builds the portal home page and its counters.
type PortalHome interface {
	HomeValues(user *model.User) *service.PortalHomeValues
	Counters(ctx context.Context, user *model.User, counters []string) (map[string]int, error)
}

// PortalHomeHandler serves /my and /my/counters.
type PortalHomeHandler struct {
	home     PortalHome
	renderer Renderer
}

// NewPortalHomeHandler creates a PortalHomeHandler.
func NewPortalHomeHandler(home PortalHome, renderer Renderer) *PortalHomeHandler {
	return &PortalHomeHandler{home: home, renderer: renderer}
}

// Home handles GET /my.
func (h *PortalHomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	renderHTML(w, h.renderer, render.PortalMyHome, h.home.HomeValues(CurrentUser(r.Context())))
}

type countersRequest struct {
	Counters []string `json:"counters"`
}

// Counters handles POST /my/counters.
func (h *PortalHomeHandler) Counters(w http.ResponseWriter, r *http.Request) {
	var req countersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	user := CurrentUser(r.Context())
	values, err := h.home.Counters(r.Context(), user, req.Counters)
	if err != nil {
		slog.Error("prepare counters failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error")
		return
	}
	writeJSON(w, http.StatusOK, values)
}
