package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/contactportal/backend/internal/access"
	"github.com/contactportal/backend/internal/model"
	"github.com/contactportal/backend/internal/service"
)

// ContactSharer issues token links to contact pages.
type ContactSharer interface {
	ShareURL(ctx context.Context, actor *model.User, contactID int64) (string, error)
}

// ContactShareHandler serves POST /api/contacts/{id}/share.
type ContactShareHandler struct {
	sharer ContactSharer
}

// NewContactShareHandler creates a ContactShareHandler.
func NewContactShareHandler(sharer ContactSharer) *ContactShareHandler {
	return &ContactShareHandler{sharer: sharer}
}

// Share returns the shareable URL of a contact.
func (h *ContactShareHandler) Share(w http.ResponseWriter, r *http.Request) {
	actor := CurrentUser(r.Context())
	if actor == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	contactID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}

	u, err := h.sharer.ShareURL(r.Context(), actor, contactID)
	var accessErr *access.Error
	switch {
	case errors.As(err, &accessErr):
		writeError(w, http.StatusForbidden, "forbidden")
		return
	case errors.Is(err, service.ErrMissing):
		writeError(w, http.StatusNotFound, "not_found")
		return
	case err != nil:
		slog.Error("share contact failed", "error", err, "contact_id", contactID, "user_id", actor.ID)
		writeError(w, http.StatusInternalServerError, "internal_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": u})
}
