package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/contactportal/backend/internal/repository"
	"github.com/contactportal/backend/pkg/auth"
)

// SessionService manages DB-backed user sessions and their key-value data.
// Implements auth.SessionValidator and SessionStore.
type SessionService struct {
	repo     repository.SessionRepository
	duration time.Duration
	now      func() time.Time
}

// NewSessionService creates a SessionService. duration is the lifetime given
// to sessions first created by a write.
func NewSessionService(repo repository.SessionRepository, duration time.Duration) *SessionService {
	return &SessionService{repo: repo, duration: duration, now: time.Now}
}

var (
	_ auth.SessionValidator = (*SessionService)(nil)
	_ SessionStore          = (*SessionService)(nil)
)

// ValidateSession validates a session token and returns the user ID.
// Expired sessions are deleted.
func (s *SessionService) ValidateSession(ctx context.Context, token string) (int64, error) {
	session, err := s.repo.FindByToken(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return 0, auth.ErrInvalidSession
	}
	if err != nil {
		return 0, err
	}
	if session.IsExpired(s.now()) {
		slog.Debug("session expired", "user_id", session.UserID)
		_ = s.repo.DeleteByToken(ctx, token)
		return 0, auth.ErrInvalidSession
	}
	return session.UserID, nil
}

// Get decodes the value stored under key. A missing session or key yields
// false with no error.
func (s *SessionService) Get(ctx context.Context, token, key string, dst any) (bool, error) {
	session, err := s.repo.FindByToken(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	raw, ok := session.Data[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode session key %q: %w", key, err)
	}
	return true, nil
}

// Set stores value under key, replacing any previous value.
func (s *SessionService) Set(ctx context.Context, token string, userID int64, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode session key %q: %w", key, err)
	}
	return s.repo.SetValue(ctx, token, userID, key, raw, s.now().Add(s.duration))
}
