package repository

import (
	"context"
	"errors"

	"github.com/contactportal/backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgFollowerRepository is the PostgreSQL implementation of FollowerRepository.
type PgFollowerRepository struct {
	pool *pgxpool.Pool
}

// NewPgFollowerRepository creates a PgFollowerRepository.
func NewPgFollowerRepository(pool *pgxpool.Pool) *PgFollowerRepository {
	return &PgFollowerRepository{pool: pool}
}

var _ FollowerRepository = (*PgFollowerRepository)(nil)

// ListByRecord returns the followers of one record in creation order.
func (r *PgFollowerRepository) ListByRecord(ctx context.Context, resModel string, resID int64) ([]*model.Follower, error) {
	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT id, res_model, res_id, partner_id
		 FROM followers
		 WHERE res_model = $1 AND res_id = $2
		 ORDER BY id`,
		resModel, resID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var followers []*model.Follower
	for rows.Next() {
		var f model.Follower
		if err := rows.Scan(&f.ID, &f.ResModel, &f.ResID, &f.PartnerID); err != nil {
			return nil, err
		}
		followers = append(followers, &f)
	}
	return followers, rows.Err()
}

// Create subscribes a partner to a record (idempotent: an existing
// subscription is left untouched and f.ID stays zero).
func (r *PgFollowerRepository) Create(ctx context.Context, f *model.Follower) error {
	err := conn(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO followers (res_model, res_id, partner_id)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (res_model, res_id, partner_id) DO NOTHING
		 RETURNING id`,
		f.ResModel, f.ResID, f.PartnerID,
	).Scan(&f.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	return err
}
