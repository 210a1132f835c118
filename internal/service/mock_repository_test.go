package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/contactportal/backend/internal/access"
	"github.com/contactportal/backend/internal/filter"
	"github.com/contactportal/backend/internal/model"
	"github.com/contactportal/backend/internal/repository"
)

// ---------------------------------------------------------------------------
// memContactRepository: ContactRepository evaluating domains in memory
// ---------------------------------------------------------------------------

type memContactRepository struct {
	contacts  []*model.Contact
	searchErr error
}

var _ repository.ContactRepository = (*memContactRepository)(nil)

func (m *memContactRepository) match(domain filter.Expr) []*model.Contact {
	var out []*model.Contact
	for _, c := range m.contacts {
		if domain.Match(c) {
			out = append(out, c)
		}
	}
	return out
}

func (m *memContactRepository) Search(_ context.Context, domain filter.Expr, opts model.SearchOptions) ([]*model.Contact, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	out := m.match(domain)
	slices.SortStableFunc(out, func(a, b *model.Contact) int {
		for _, o := range opts.Order {
			var c int
			switch o.Field {
			case "name":
				c = strings.Compare(a.Name, b.Name)
			case "create_date":
				c = a.CreateDate.Compare(b.CreateDate)
			case "id":
				c = cmp.Compare(a.ID, b.ID)
			}
			if o.Desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if opts.Offset >= len(out) {
		return nil, nil
	}
	out = out[opts.Offset:]
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (m *memContactRepository) SearchCount(_ context.Context, domain filter.Expr) (int, error) {
	if m.searchErr != nil {
		return 0, m.searchErr
	}
	return len(m.match(domain)), nil
}

func (m *memContactRepository) FindByID(_ context.Context, id int64) (*model.Contact, error) {
	for _, c := range m.contacts {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memContactRepository) EnsureAccessToken(_ context.Context, id int64, token string) (string, error) {
	for _, c := range m.contacts {
		if c.ID == id {
			if c.AccessToken == "" {
				c.AccessToken = token
			}
			return c.AccessToken, nil
		}
	}
	return "", repository.ErrNotFound
}

// ---------------------------------------------------------------------------
// memUserRepository / memFollowerRepository
// ---------------------------------------------------------------------------

type memUserRepository struct {
	users     []*model.User
	createErr error
}

var _ repository.UserRepository = (*memUserRepository)(nil)

func (m *memUserRepository) find(fn func(*model.User) bool) (*model.User, error) {
	for _, u := range m.users {
		if fn(u) {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUserRepository) FindByID(_ context.Context, id int64) (*model.User, error) {
	return m.find(func(u *model.User) bool { return u.ID == id })
}

func (m *memUserRepository) FindByPartnerID(_ context.Context, partnerID int64) (*model.User, error) {
	return m.find(func(u *model.User) bool { return u.PartnerID == partnerID })
}

func (m *memUserRepository) FindByLogin(_ context.Context, login string) (*model.User, error) {
	return m.find(func(u *model.User) bool { return strings.EqualFold(u.Login, login) })
}

func (m *memUserRepository) Create(_ context.Context, user *model.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = int64(len(m.users) + 100)
	user.CreateDate = time.Now()
	m.users = append(m.users, user)
	return nil
}

func (m *memUserRepository) UpdateAccess(_ context.Context, id int64, groups []string, active bool) error {
	for _, u := range m.users {
		if u.ID == id {
			u.Groups = slices.Clone(groups)
			u.Active = active
			return nil
		}
	}
	return repository.ErrNotFound
}

type memFollowerRepository struct {
	followers []*model.Follower
	listErr   error
}

var _ repository.FollowerRepository = (*memFollowerRepository)(nil)

func (m *memFollowerRepository) ListByRecord(_ context.Context, resModel string, resID int64) ([]*model.Follower, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*model.Follower
	for _, f := range m.followers {
		if f.ResModel == resModel && f.ResID == resID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *memFollowerRepository) Create(_ context.Context, f *model.Follower) error {
	f.ID = int64(len(m.followers) + 1)
	m.followers = append(m.followers, f)
	return nil
}

// ---------------------------------------------------------------------------
// mockSessionStore
// ---------------------------------------------------------------------------

type mockSessionStore struct {
	getFunc func(ctx context.Context, token, key string, dst any) (bool, error)
	setFunc func(ctx context.Context, token string, userID int64, key string, value any) error
}

func (m *mockSessionStore) Get(ctx context.Context, token, key string, dst any) (bool, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, token, key, dst)
	}
	return false, nil
}

func (m *mockSessionStore) Set(ctx context.Context, token string, userID int64, key string, value any) error {
	if m.setFunc != nil {
		return m.setFunc(ctx, token, userID, key, value)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

func ptr[T any](v T) *T { return &v }

func newChecker() *access.Checker {
	p, err := access.DefaultPolicy()
	if err != nil {
		panic(err)
	}
	return access.NewChecker(p)
}

var baseTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// directory returns two companies with employees and address records:
//
//	1 Acme (company)        5 Globex (company)
//	2 Alice   contact  @1   6 Gina     contact @5
//	3 Bob     other    @1   7 Admin    contact (no parent)
//	4 Billing invoice  @1   8 Dave     delivery @1
func directory() []*model.Contact {
	c := func(id int64, name, typ string, parent *int64, company bool) *model.Contact {
		return &model.Contact{
			ID:         id,
			Name:       name,
			Email:      strings.ToLower(name) + "@example.com",
			Type:       typ,
			ParentID:   parent,
			IsCompany:  company,
			CreateDate: baseTime.Add(time.Duration(id) * time.Hour),
		}
	}
	return []*model.Contact{
		c(1, "Acme", model.ContactTypeContact, nil, true),
		c(2, "Alice", model.ContactTypeContact, ptr[int64](1), false),
		c(3, "Bob", model.ContactTypeOther, ptr[int64](1), false),
		c(4, "Billing", model.ContactTypeInvoice, ptr[int64](1), false),
		c(5, "Globex", model.ContactTypeContact, nil, true),
		c(6, "Gina", model.ContactTypeContact, ptr[int64](5), false),
		c(7, "Admin", model.ContactTypeContact, nil, false),
		c(8, "Dave", model.ContactTypeDelivery, ptr[int64](1), false),
	}
}

func userFor(contacts []*model.Contact, id, partnerID int64, groups ...string) *model.User {
	u := &model.User{ID: id, Login: fmt.Sprintf("user%d", id), PartnerID: partnerID, Groups: groups, Active: true}
	for _, c := range contacts {
		if c.ID == partnerID {
			u.Partner = c
		}
	}
	return u
}
