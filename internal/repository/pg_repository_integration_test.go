package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/contactportal/backend/internal/filter"
	"github.com/contactportal/backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testPool connects to TEST_DATABASE_URL, a migrated database. The
// integration tests are skipped without it.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	pool, err := NewPool(context.Background(), url, 4)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func insertContact(t *testing.T, pool *pgxpool.Pool, name, typ string, parentID *int64) *model.Contact {
	t.Helper()
	c := &model.Contact{Name: name, Type: typ, ParentID: parentID}
	err := pool.QueryRow(context.Background(),
		`INSERT INTO contacts (name, email, type, parent_id) VALUES ($1, $2, $3, $4) RETURNING id, create_date`,
		name, fmt.Sprintf("%s-%d@example.com", name, time.Now().UnixNano()), typ, parentID,
	).Scan(&c.ID, &c.CreateDate)
	require.NoError(t, err)
	return c
}

func TestPgContactRepository_SearchWithDomain(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewPgContactRepository(pool)

	company := insertContact(t, pool, "IntegrationCo", model.ContactTypeContact, nil)
	emp := insertContact(t, pool, "Employee", model.ContactTypeContact, &company.ID)
	insertContact(t, pool, "Invoice", model.ContactTypeInvoice, &company.ID)

	domain := filter.And(
		filter.In("type", model.ContactTypeContact, model.ContactTypeOther),
		filter.Or(filter.Eq("parent_id", company.ID), filter.Eq("id", company.ID)),
	)
	got, err := repo.Search(ctx, domain, model.SearchOptions{Order: []model.OrderBy{{Field: "name"}}, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []int64{emp.ID, company.ID}, model.ContactIDs(got))

	n, err := repo.SearchCount(ctx, domain)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	none, err := repo.SearchCount(ctx, filter.And(filter.Eq("parent_id", nil), filter.Ne("parent_id", nil)))
	require.NoError(t, err)
	assert.Zero(t, none)
}

func TestPgContactRepository_EnsureAccessToken(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewPgContactRepository(pool)
	c := insertContact(t, pool, "Tokened", model.ContactTypeContact, nil)

	first, err := repo.EnsureAccessToken(ctx, c.ID, "first")
	require.NoError(t, err)
	second, err := repo.EnsureAccessToken(ctx, c.ID, "second")
	require.NoError(t, err)

	assert.Equal(t, "first", first)
	assert.Equal(t, "first", second)

	_, err = repo.EnsureAccessToken(ctx, -1, "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPgUserAndFollowerRepositories(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	users := NewPgUserRepository(pool)
	followers := NewPgFollowerRepository(pool)
	partner := insertContact(t, pool, "Portal", model.ContactTypeContact, nil)

	user := &model.User{
		Login:     fmt.Sprintf("portal-%d@example.com", time.Now().UnixNano()),
		PartnerID: partner.ID,
		Groups:    []string{model.GroupPortal},
		Active:    true,
	}
	require.NoError(t, users.Create(ctx, user))
	require.NotZero(t, user.ID)

	found, err := users.FindByPartnerID(ctx, partner.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, partner.ID, found.Partner.ID)

	require.NoError(t, users.UpdateAccess(ctx, user.ID, []string{model.GroupPublic}, false))
	found, err = users.FindByLogin(ctx, user.Login)
	require.NoError(t, err)
	assert.False(t, found.Active)
	assert.Equal(t, []string{model.GroupPublic}, found.Groups)

	for i := 0; i < 2; i++ {
		require.NoError(t, followers.Create(ctx, &model.Follower{ResModel: model.ContactModelName, ResID: partner.ID, PartnerID: partner.ID}))
	}
	list, err := followers.ListByRecord(ctx, model.ContactModelName, partner.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestPgSessionRepository_SetValueMerges(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewPgSessionRepository(pool)
	token := fmt.Sprintf("it-%d", time.Now().UnixNano())
	expires := time.Now().Add(time.Hour)

	require.NoError(t, repo.SetValue(ctx, token, 1, "a", []byte(`[1,2]`), expires))
	require.NoError(t, repo.SetValue(ctx, token, 1, "b", []byte(`"x"`), expires))

	s, err := repo.FindByToken(ctx, token)
	require.NoError(t, err)
	assert.JSONEq(t, `[1,2]`, string(s.Data["a"]))
	assert.JSONEq(t, `"x"`, string(s.Data["b"]))

	require.NoError(t, repo.DeleteByToken(ctx, token))
	_, err = repo.FindByToken(ctx, token)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTxManager_RollsBackOnError(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	tx := NewTxManager(pool)
	followers := NewPgFollowerRepository(pool)
	partner := insertContact(t, pool, "Rollback", model.ContactTypeContact, nil)

	boom := errors.New("boom")
	err := tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := followers.Create(ctx, &model.Follower{ResModel: model.ContactModelName, ResID: partner.ID, PartnerID: partner.ID}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	list, err := followers.ListByRecord(ctx, model.ContactModelName, partner.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
