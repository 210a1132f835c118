package model

import (
	"encoding/json"
	"time"
)

// Session is a server-side login session with its key-value data.
type Session struct {
	Token     string
	UserID    int64
	Data      map[string]json.RawMessage
	CreatedAt time.Time
	ExpiresAt time.Time
}

// IsExpired reports whether the session is no longer valid at t.
func (s *Session) IsExpired(t time.Time) bool {
	return t.After(s.ExpiresAt)
}
