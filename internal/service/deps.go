package service

import (
	"context"

	"github.com/contactportal/backend/internal/access"
	"github.com/contactportal/backend/internal/model"
)

// AccessChecker answers capability questions. CheckAccessRights is the
// strict mode and returns *access.Error; HasAccessRights is the permissive
// mode.
type AccessChecker interface {
	HasAccessRights(user *model.User, modelName string, op access.Operation) bool
	CheckAccessRights(user *model.User, modelName string, op access.Operation) error
	IsInternal(user *model.User) bool
}

// SessionStore is the per-session key-value store.
type SessionStore interface {
	// Get decodes the value stored under key into dst and reports whether
	// the key was present.
	Get(ctx context.Context, token, key string, dst any) (bool, error)
	Set(ctx context.Context, token string, userID int64, key string, value any) error
}

// Transactor runs fn inside a database transaction carried by ctx.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// PortalLayout holds the values every portal page is rendered with.
type PortalLayout struct {
	User     *model.User
	Partner  *model.Contact
	PageName string
}

func portalLayout(user *model.User, pageName string) PortalLayout {
	l := PortalLayout{User: user, PageName: pageName}
	if user != nil {
		l.Partner = user.Partner
	}
	return l
}
