package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"slices"
	"strings"

	"github.com/contactportal/backend/internal/access"
	"github.com/contactportal/backend/internal/model"
	"github.com/contactportal/backend/internal/repository"
)

type portalWizardServiceImpl struct {
	contacts repository.ContactRepository
	users    repository.UserRepository
	checker  AccessChecker
}

// NewPortalWizardService creates the base PortalWizardService.
func NewPortalWizardService(contacts repository.ContactRepository, users repository.UserRepository, checker AccessChecker) PortalWizardService {
	return &portalWizardServiceImpl{contacts: contacts, users: users, checker: checker}
}

func (s *portalWizardServiceImpl) GrantAccess(ctx context.Context, actor *model.User, partnerID int64) (*model.PortalWizardUser, error) {
	if err := s.checker.CheckAccessRights(actor, model.UserModelName, access.Create); err != nil {
		return nil, err
	}
	partner, user, err := s.load(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	if user != nil && user.IsInternal() {
		return nil, userErrorf("The partner %q is already an internal user.", partner.Name)
	}
	if user != nil && user.IsPortal() {
		return nil, userErrorf("The partner %q already has portal access.", partner.Name)
	}
	email, ok := normalizeEmail(partner.Email)
	if !ok {
		return nil, userErrorf("The contact %q does not have a valid email.", partner.Name)
	}
	if err := s.assertLoginAvailable(ctx, partner, email); err != nil {
		return nil, err
	}

	if user == nil {
		user = &model.User{
			Login:     email,
			PartnerID: partner.ID,
			Groups:    []string{model.GroupPortal},
			Active:    true,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("create portal user: %w", err)
		}
	} else {
		user.Groups = withGroup(withoutGroup(user.Groups, model.GroupPublic), model.GroupPortal)
		user.Active = true
		if err := s.users.UpdateAccess(ctx, user.ID, user.Groups, user.Active); err != nil {
			return nil, fmt.Errorf("update user access: %w", err)
		}
	}

	slog.Info("portal invitation sent", "partner_id", partner.ID, "user_id", user.ID, "email", email)
	return wizardLine(partner, user), nil
}

func (s *portalWizardServiceImpl) RevokeAccess(ctx context.Context, actor *model.User, partnerID int64) (*model.PortalWizardUser, error) {
	if err := s.checker.CheckAccessRights(actor, model.UserModelName, access.Write); err != nil {
		return nil, err
	}
	partner, user, err := s.load(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsPortal() {
		return nil, userErrorf("The partner %q has no portal access.", partner.Name)
	}

	user.Groups = withGroup(withoutGroup(user.Groups, model.GroupPortal), model.GroupPublic)
	user.Active = false
	if err := s.users.UpdateAccess(ctx, user.ID, user.Groups, user.Active); err != nil {
		return nil, fmt.Errorf("update user access: %w", err)
	}
	slog.Info("portal access revoked", "partner_id", partner.ID, "user_id", user.ID)
	return wizardLine(partner, user), nil
}

// load returns the partner and its user, or a nil user when none exists.
func (s *portalWizardServiceImpl) load(ctx context.Context, partnerID int64) (*model.Contact, *model.User, error) {
	partner, err := s.contacts.FindByID(ctx, partnerID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, ErrMissing
	}
	if err != nil {
		return nil, nil, err
	}
	user, err := s.users.FindByPartnerID(ctx, partnerID)
	if errors.Is(err, repository.ErrNotFound) {
		return partner, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return partner, user, nil
}

func (s *portalWizardServiceImpl) assertLoginAvailable(ctx context.Context, partner *model.Contact, login string) error {
	existing, err := s.users.FindByLogin(ctx, login)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.PartnerID != partner.ID {
		return userErrorf("The contact %q has the same email as an existing user (%s).", partner.Name, existing.Login)
	}
	return nil
}

// normalizeEmail returns the lower-cased bare address of raw.
func normalizeEmail(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	addr, err := mail.ParseAddress(raw)
	if err != nil {
		return "", false
	}
	return strings.ToLower(addr.Address), true
}

func withGroup(groups []string, group string) []string {
	if slices.Contains(groups, group) {
		return groups
	}
	return append(slices.Clone(groups), group)
}

func withoutGroup(groups []string, group string) []string {
	return slices.DeleteFunc(slices.Clone(groups), func(g string) bool { return g == group })
}

func wizardLine(partner *model.Contact, user *model.User) *model.PortalWizardUser {
	line := &model.PortalWizardUser{PartnerID: partner.ID, Email: partner.Email}
	if user != nil {
		line.UserID = user.ID
		line.IsPortal = user.IsPortal()
		line.IsInternal = user.IsInternal()
	}
	return line
}
