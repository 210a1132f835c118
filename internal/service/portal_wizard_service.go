package service

import (
	"context"

	"github.com/contactportal/backend/internal/model"
)

// PortalWizardService grants and revokes portal access for a partner.
type PortalWizardService interface {
	// GrantAccess gives the partner a portal user, creating it when needed.
	// Returns ErrMissing for an unknown partner and *UserError on validation
	// failures.
	GrantAccess(ctx context.Context, actor *model.User, partnerID int64) (*model.PortalWizardUser, error)

	// RevokeAccess removes the portal group from the partner's user and
	// archives it.
	RevokeAccess(ctx context.Context, actor *model.User, partnerID int64) (*model.PortalWizardUser, error)
}
