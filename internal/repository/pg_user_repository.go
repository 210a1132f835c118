package repository

import (
	"context"

	"github.com/contactportal/backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgUserRepository is the PostgreSQL implementation of UserRepository.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

// NewPgUserRepository creates a PgUserRepository.
func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

var _ UserRepository = (*PgUserRepository)(nil)

// Ping checks the DB connection (implements DB).
func (r *PgUserRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

const userSelect = `SELECT u.id, u.login, u.partner_id, u.groups, u.active, u.create_date,
	p.id, p.name, COALESCE(p.email, ''), p.type, p.parent_id, p.is_company, COALESCE(p.access_token, ''), p.create_date
	FROM users u
	JOIN contacts p ON p.id = u.partner_id`

func scanUser(scan func(...any) error) (*model.User, error) {
	var u model.User
	var p model.Contact
	if err := scan(
		&u.ID, &u.Login, &u.PartnerID, &u.Groups, &u.Active, &u.CreateDate,
		&p.ID, &p.Name, &p.Email, &p.Type, &p.ParentID, &p.IsCompany, &p.AccessToken, &p.CreateDate,
	); err != nil {
		return nil, notFound(err)
	}
	u.Partner = &p
	return &u, nil
}

// FindByID returns the user with its partner loaded.
func (r *PgUserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	return scanUser(conn(ctx, r.pool).QueryRow(ctx, userSelect+` WHERE u.id = $1`, id).Scan)
}

// FindByPartnerID returns the user attached to a partner, archived or not.
func (r *PgUserRepository) FindByPartnerID(ctx context.Context, partnerID int64) (*model.User, error) {
	return scanUser(conn(ctx, r.pool).QueryRow(ctx, userSelect+` WHERE u.partner_id = $1 ORDER BY u.id LIMIT 1`, partnerID).Scan)
}

// FindByLogin looks a user up by case-insensitive login.
func (r *PgUserRepository) FindByLogin(ctx context.Context, login string) (*model.User, error) {
	return scanUser(conn(ctx, r.pool).QueryRow(ctx, userSelect+` WHERE lower(u.login) = lower($1)`, login).Scan)
}

// Create inserts a user and fills ID and CreateDate.
func (r *PgUserRepository) Create(ctx context.Context, user *model.User) error {
	return conn(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO users (login, partner_id, groups, active)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, create_date`,
		user.Login, user.PartnerID, user.Groups, user.Active,
	).Scan(&user.ID, &user.CreateDate)
}

// UpdateAccess replaces the user's groups and active flag.
func (r *PgUserRepository) UpdateAccess(ctx context.Context, id int64, groups []string, active bool) error {
	tag, err := conn(ctx, r.pool).Exec(ctx,
		`UPDATE users SET groups = $2, active = $3 WHERE id = $1`,
		id, groups, active,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
