package model

// PortalWizardUser is the state of one partner line in the portal access
// wizard after an operation.
type PortalWizardUser struct {
	PartnerID  int64  `json:"partner_id"`
	Email      string `json:"email"`
	UserID     int64  `json:"user_id,omitempty"`
	IsPortal   bool   `json:"is_portal"`
	IsInternal bool   `json:"is_internal"`
}
