package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/contactportal/backend/internal/filter"
	"github.com/contactportal/backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// contactColumns whitelists the fields a search domain or ordering may use.
var contactColumns = filter.Columns{
	"id":          "id",
	"name":        "name",
	"email":       "email",
	"type":        "type",
	"parent_id":   "parent_id",
	"is_company":  "is_company",
	"create_date": "create_date",
}

const contactSelectCols = `id, name, COALESCE(email, ''), type, parent_id, is_company, COALESCE(access_token, ''), create_date`

// PgContactRepository is the PostgreSQL implementation of ContactRepository.
type PgContactRepository struct {
	pool *pgxpool.Pool
}

// NewPgContactRepository creates a PgContactRepository backed by the given pool.
func NewPgContactRepository(pool *pgxpool.Pool) *PgContactRepository {
	return &PgContactRepository{pool: pool}
}

// Ensure PgContactRepository implements ContactRepository at compile time.
var _ ContactRepository = (*PgContactRepository)(nil)

func scanContact(scan func(...any) error) (*model.Contact, error) {
	var c model.Contact
	if err := scan(&c.ID, &c.Name, &c.Email, &c.Type, &c.ParentID, &c.IsCompany, &c.AccessToken, &c.CreateDate); err != nil {
		return nil, err
	}
	return &c, nil
}

// Search returns the contacts matching domain, ordered and paginated.
// Rows are always tie-broken by ascending id.
func (r *PgContactRepository) Search(ctx context.Context, domain filter.Expr, opts model.SearchOptions) ([]*model.Contact, error) {
	where, args, err := filter.ToSQL(domain, contactColumns, 1)
	if err != nil {
		return nil, err
	}
	order, err := orderClause(opts.Order)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + contactSelectCols + ` FROM contacts WHERE ` + where + ` ORDER BY ` + order
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if opts.Offset > 0 {
		args = append(args, opts.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []*model.Contact
	for rows.Next() {
		c, err := scanContact(rows.Scan)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// SearchCount returns the number of contacts matching domain.
func (r *PgContactRepository) SearchCount(ctx context.Context, domain filter.Expr) (int, error) {
	where, args, err := filter.ToSQL(domain, contactColumns, 1)
	if err != nil {
		return 0, err
	}
	var n int
	err = conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM contacts WHERE `+where, args...).Scan(&n)
	return n, err
}

// FindByID returns the contact with the given id or ErrNotFound.
func (r *PgContactRepository) FindByID(ctx context.Context, id int64) (*model.Contact, error) {
	row := conn(ctx, r.pool).QueryRow(ctx, `SELECT `+contactSelectCols+` FROM contacts WHERE id = $1`, id)
	c, err := scanContact(row.Scan)
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

// EnsureAccessToken sets the access token only when none is stored yet.
func (r *PgContactRepository) EnsureAccessToken(ctx context.Context, id int64, token string) (string, error) {
	var got string
	err := conn(ctx, r.pool).QueryRow(ctx,
		`UPDATE contacts SET access_token = COALESCE(access_token, $2)
		 WHERE id = $1
		 RETURNING access_token`,
		id, token,
	).Scan(&got)
	if err != nil {
		return "", notFound(err)
	}
	return got, nil
}

func orderClause(order []model.OrderBy) (string, error) {
	parts := make([]string, 0, len(order)+1)
	hasID := false
	for _, o := range order {
		col, ok := contactColumns[o.Field]
		if !ok {
			return "", fmt.Errorf("unknown order field %q", o.Field)
		}
		dir := "ASC"
		if o.Desc {
			dir = "DESC"
		}
		parts = append(parts, col+" "+dir)
		hasID = hasID || o.Field == "id"
	}
	if !hasID {
		parts = append(parts, "id ASC")
	}
	return strings.Join(parts, ", "), nil
}
