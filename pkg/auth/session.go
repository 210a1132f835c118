package auth

import (
	"context"
	"errors"
)

const sessionCookieName = "portal_session"

// ErrInvalidSession is returned by validators for unknown or expired tokens.
var ErrInvalidSession = errors.New("invalid_session")

// SessionValidator resolves a session token to a user id.
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (int64, error)
}

// SessionCookieName is the name of the session cookie.
func SessionCookieName() string {
	return sessionCookieName
}
