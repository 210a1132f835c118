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

// PortalWizardHandler exposes the portal access wizard.
type PortalWizardHandler struct {
	wizard service.PortalWizardService
}

// NewPortalWizardHandler creates a PortalWizardHandler.
func NewPortalWizardHandler(wizard service.PortalWizardService) *PortalWizardHandler {
	return &PortalWizardHandler{wizard: wizard}
}

// Grant handles POST /api/portal-wizard/{partner_id}/grant.
func (h *PortalWizardHandler) Grant(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "grant", h.wizard.GrantAccess)
}

// Revoke handles POST /api/portal-wizard/{partner_id}/revoke.
func (h *PortalWizardHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "revoke", h.wizard.RevokeAccess)
}

type wizardOp func(ctx context.Context, actor *model.User, partnerID int64) (*model.PortalWizardUser, error)

func (h *PortalWizardHandler) run(w http.ResponseWriter, r *http.Request, name string, op wizardOp) {
	actor := CurrentUser(r.Context())
	if actor == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	partnerID, ok := pathID(r, "partner_id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_partner_id")
		return
	}

	line, err := op(r.Context(), actor, partnerID)
	var accessErr *access.Error
	var userErr *service.UserError
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, line)
	case errors.As(err, &accessErr):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.As(err, &userErr):
		writeError(w, http.StatusBadRequest, userErr.Message)
	case errors.Is(err, service.ErrMissing):
		writeError(w, http.StatusNotFound, "not_found")
	default:
		slog.Error("portal wizard failed", "error", err, "op", name, "partner_id", partnerID, "user_id", actor.ID)
		writeError(w, http.StatusInternalServerError, "internal_error")
	}
}
