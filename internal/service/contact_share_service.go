package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/contactportal/backend/internal/access"
	"github.com/contactportal/backend/internal/model"
	"github.com/contactportal/backend/internal/repository"
	"github.com/google/uuid"
)

// ContactShareService hands out token links to contact detail pages.
type ContactShareService struct {
	contacts repository.ContactRepository
	checker  AccessChecker
	newToken func() string
}

// NewContactShareService creates a ContactShareService issuing UUID v4 tokens.
func NewContactShareService(contacts repository.ContactRepository, checker AccessChecker) *ContactShareService {
	return &ContactShareService{contacts: contacts, checker: checker, newToken: uuid.NewString}
}

// ShareURL ensures the contact has an access token and returns the portal
// URL embedding it. The token is generated once and reused afterwards.
func (s *ContactShareService) ShareURL(ctx context.Context, actor *model.User, contactID int64) (string, error) {
	if err := s.checker.CheckAccessRights(actor, model.ContactModelName, access.Write); err != nil {
		return "", err
	}
	token, err := s.contacts.EnsureAccessToken(ctx, contactID, s.newToken())
	if errors.Is(err, repository.ErrNotFound) {
		return "", ErrMissing
	}
	if err != nil {
		return "", fmt.Errorf("ensure access token: %w", err)
	}
	return ContactURL(contactID) + "?" + url.Values{"access_token": {token}}.Encode(), nil
}
