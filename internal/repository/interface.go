package repository

import (
	"context"
	"time"

	"github.com/contactportal/backend/internal/filter"
	"github.com/contactportal/backend/internal/model"
)

// DB checks that the database connection is alive.
type DB interface {
	Ping(ctx context.Context) error
}

// ContactRepository reads contacts with search domains.
type ContactRepository interface {
	Search(ctx context.Context, domain filter.Expr, opts model.SearchOptions) ([]*model.Contact, error)
	SearchCount(ctx context.Context, domain filter.Expr) (int, error)
	FindByID(ctx context.Context, id int64) (*model.Contact, error)
	// EnsureAccessToken stores token unless the contact already has one and
	// returns the token in effect.
	EnsureAccessToken(ctx context.Context, id int64, token string) (string, error)
}

// UserRepository persists portal and internal users.
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*model.User, error)
	FindByPartnerID(ctx context.Context, partnerID int64) (*model.User, error)
	FindByLogin(ctx context.Context, login string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	UpdateAccess(ctx context.Context, id int64, groups []string, active bool) error
}

// FollowerRepository persists record followers.
type FollowerRepository interface {
	ListByRecord(ctx context.Context, resModel string, resID int64) ([]*model.Follower, error)
	// Create inserts f; an identical subscription already present is not an error.
	Create(ctx context.Context, f *model.Follower) error
}

// SessionRepository handles persistence for user sessions.
type SessionRepository interface {
	FindByToken(ctx context.Context, token string) (*model.Session, error)
	// SetValue stores one key of the session data, creating the session
	// with expiresAt when it does not exist yet.
	SetValue(ctx context.Context, token string, userID int64, key string, value []byte, expiresAt time.Time) error
	DeleteByToken(ctx context.Context, token string) error
}
