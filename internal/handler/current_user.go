package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/contactportal/backend/internal/model"
	"github.com/contactportal/backend/internal/repository"
	"github.com/contactportal/backend/pkg/auth"
)

// UserFinder loads users by id.
type UserFinder interface {
	FindByID(ctx context.Context, id int64) (*model.User, error)
}

type userKey struct{}

// CurrentUser returns the user loaded by LoadUser. Anonymous requests yield
// nil.
func CurrentUser(ctx context.Context) *model.User {
	u, _ := ctx.Value(userKey{}).(*model.User)
	return u
}

// WithCurrentUser stores user in the context.
func WithCurrentUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// LoadUser resolves the authenticated user id to an active user. Unknown and
// archived users are treated as anonymous.
func LoadUser(users UserFinder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := auth.UserIDFromContext(r.Context())
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			user, err := users.FindByID(r.Context(), userID)
			switch {
			case errors.Is(err, repository.ErrNotFound):
				slog.Warn("session user not found", "user_id", userID)
			case err != nil:
				slog.Error("load user failed", "error", err, "user_id", userID)
				writeError(w, http.StatusInternalServerError, "internal_error")
				return
			case user.Active:
				r = r.WithContext(WithCurrentUser(r.Context(), user))
			}
			next.ServeHTTP(w, r)
		})
	}
}
