package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/contactportal/backend/internal/model"
	"github.com/contactportal/backend/internal/repository"
)

// selfFollowerWizard makes a partner follow its own record once portal
// access has been granted.
type selfFollowerWizard struct {
	PortalWizardService
	followers repository.FollowerRepository
}

// WithSelfFollower wraps next so that a successful GrantAccess leaves the
// partner subscribed to its own contact record exactly once. The result of
// next is returned unchanged.
func WithSelfFollower(next PortalWizardService, followers repository.FollowerRepository) PortalWizardService {
	return &selfFollowerWizard{PortalWizardService: next, followers: followers}
}

func (w *selfFollowerWizard) GrantAccess(ctx context.Context, actor *model.User, partnerID int64) (*model.PortalWizardUser, error) {
	res, err := w.PortalWizardService.GrantAccess(ctx, actor, partnerID)
	if err != nil {
		return nil, err
	}
	if err := w.ensureSelfFollower(ctx, partnerID); err != nil {
		return nil, err
	}
	return res, nil
}

func (w *selfFollowerWizard) ensureSelfFollower(ctx context.Context, partnerID int64) error {
	followers, err := w.followers.ListByRecord(ctx, model.ContactModelName, partnerID)
	if err != nil {
		return fmt.Errorf("list followers: %w", err)
	}
	if slices.ContainsFunc(followers, func(f *model.Follower) bool { return f.PartnerID == partnerID }) {
		return nil
	}
	err = w.followers.Create(ctx, &model.Follower{
		ResModel:  model.ContactModelName,
		ResID:     partnerID,
		PartnerID: partnerID,
	})
	if err != nil {
		return fmt.Errorf("add self follower: %w", err)
	}
	return nil
}

// transactionalWizard runs every wizard operation in one transaction.
type transactionalWizard struct {
	next PortalWizardService
	tx   Transactor
}

// WithTransaction wraps next so that each operation, including the work of
// decorators below it, commits or rolls back as a whole.
func WithTransaction(next PortalWizardService, tx Transactor) PortalWizardService {
	return &transactionalWizard{next: next, tx: tx}
}

func (w *transactionalWizard) GrantAccess(ctx context.Context, actor *model.User, partnerID int64) (res *model.PortalWizardUser, err error) {
	err = w.tx.WithinTx(ctx, func(ctx context.Context) error {
		res, err = w.next.GrantAccess(ctx, actor, partnerID)
		return err
	})
	return res, err
}

func (w *transactionalWizard) RevokeAccess(ctx context.Context, actor *model.User, partnerID int64) (res *model.PortalWizardUser, err error) {
	err = w.tx.WithinTx(ctx, func(ctx context.Context) error {
		res, err = w.next.RevokeAccess(ctx, actor, partnerID)
		return err
	})
	return res, err
}
