package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/contactportal/backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgSessionRepository struct {
	pool *pgxpool.Pool
}

// NewPgSessionRepository returns a PostgreSQL-backed SessionRepository.
func NewPgSessionRepository(pool *pgxpool.Pool) SessionRepository {
	return &pgSessionRepository{pool: pool}
}

func (r *pgSessionRepository) FindByToken(ctx context.Context, token string) (*model.Session, error) {
	s := &model.Session{}
	var data []byte
	err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT token, user_id, data, created_at, expires_at FROM sessions WHERE token = $1`,
		token).Scan(&s.Token, &s.UserID, &data, &s.CreatedAt, &s.ExpiresAt)
	if err != nil {
		return nil, notFound(err)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.Data); err != nil {
			return nil, fmt.Errorf("decode session data: %w", err)
		}
	}
	return s, nil
}

func (r *pgSessionRepository) SetValue(ctx context.Context, token string, userID int64, key string, value []byte, expiresAt time.Time) error {
	_, err := conn(ctx, r.pool).Exec(ctx,
		`INSERT INTO sessions (token, user_id, data, expires_at)
		 VALUES ($1, $2, jsonb_build_object($3::text, $4::jsonb), $5)
		 ON CONFLICT (token) DO UPDATE
		 SET data = sessions.data || jsonb_build_object($3::text, $4::jsonb)`,
		token, userID, key, string(value), expiresAt)
	return err
}

func (r *pgSessionRepository) DeleteByToken(ctx context.Context, token string) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	return err
}
