package handler

import (
	"context"
	"fmt"
	"io"

	"github.com/contactportal/backend/internal/filter"
	"github.com/contactportal/backend/internal/model"
	"github.com/contactportal/backend/internal/service"
)

// ---------------------------------------------------------------------------
// mockContactPortalService
// ---------------------------------------------------------------------------

type mockContactPortalService struct {
	listContactsFunc func(ctx context.Context, user *model.User, params service.ContactListParams) (*service.ContactListValues, error)
	contactPageFunc  func(ctx context.Context, req service.ContactPageRequest) (*service.ContactPageValues, error)
}

var _ service.ContactPortalService = (*mockContactPortalService)(nil)

func (m *mockContactPortalService) ContactDomain(*model.User) filter.Expr { return filter.And() }

func (m *mockContactPortalService) SearchbarSortings() map[string]model.SortOption { return nil }

func (m *mockContactPortalService) ListContacts(ctx context.Context, user *model.User, params service.ContactListParams) (*service.ContactListValues, error) {
	if m.listContactsFunc != nil {
		return m.listContactsFunc(ctx, user, params)
	}
	return &service.ContactListValues{}, nil
}

func (m *mockContactPortalService) CheckContactAccess(context.Context, *model.User, int64, string) (*model.Contact, error) {
	return nil, service.ErrMissing
}

func (m *mockContactPortalService) ContactPage(ctx context.Context, req service.ContactPageRequest) (*service.ContactPageValues, error) {
	if m.contactPageFunc != nil {
		return m.contactPageFunc(ctx, req)
	}
	return &service.ContactPageValues{}, nil
}

func (m *mockContactPortalService) PrepareCounters(context.Context, *model.User, []string) (map[string]int, error) {
	return map[string]int{}, nil
}

func (m *mockContactPortalService) Counters() []string { return nil }

// ---------------------------------------------------------------------------
// mockSessionStore
// ---------------------------------------------------------------------------

type mockSessionStore struct {
	setFunc func(ctx context.Context, token string, userID int64, key string, value any) error
}

func (m *mockSessionStore) Get(context.Context, string, string, any) (bool, error) {
	return false, nil
}

func (m *mockSessionStore) Set(ctx context.Context, token string, userID int64, key string, value any) error {
	if m.setFunc != nil {
		return m.setFunc(ctx, token, userID, key, value)
	}
	return nil
}

// ---------------------------------------------------------------------------
// mockRenderer
// ---------------------------------------------------------------------------

type mockRenderer struct {
	page string
	data any
	err  error
}

func (m *mockRenderer) Render(w io.Writer, name string, data any) error {
	m.page, m.data = name, data
	if m.err != nil {
		return m.err
	}
	_, err := fmt.Fprintf(w, "page:%s", name)
	return err
}

// ---------------------------------------------------------------------------
// mockPortalWizardService / mockContactSharer / mockPortalHome
// ---------------------------------------------------------------------------

type mockPortalWizardService struct {
	grantFunc  func(ctx context.Context, actor *model.User, partnerID int64) (*model.PortalWizardUser, error)
	revokeFunc func(ctx context.Context, actor *model.User, partnerID int64) (*model.PortalWizardUser, error)
}

func (m *mockPortalWizardService) GrantAccess(ctx context.Context, actor *model.User, partnerID int64) (*model.PortalWizardUser, error) {
	return m.grantFunc(ctx, actor, partnerID)
}

func (m *mockPortalWizardService) RevokeAccess(ctx context.Context, actor *model.User, partnerID int64) (*model.PortalWizardUser, error) {
	return m.revokeFunc(ctx, actor, partnerID)
}

type mockContactSharer struct {
	shareURLFunc func(ctx context.Context, actor *model.User, contactID int64) (string, error)
}

func (m *mockContactSharer) ShareURL(ctx context.Context, actor *model.User, contactID int64) (string, error) {
	return m.shareURLFunc(ctx, actor, contactID)
}

type mockPortalHome struct {
	countersFunc func(ctx context.Context, user *model.User, counters []string) (map[string]int, error)
}

func (m *mockPortalHome) HomeValues(user *model.User) *service.PortalHomeValues {
	return &service.PortalHomeValues{PortalLayout: service.PortalLayout{User: user, PageName: "home"}}
}

func (m *mockPortalHome) Counters(ctx context.Context, user *model.User, counters []string) (map[string]int, error) {
	return m.countersFunc(ctx, user, counters)
}

// ---------------------------------------------------------------------------
// mockUserFinder
// ---------------------------------------------------------------------------

type mockUserFinder struct {
	findByIDFunc func(ctx context.Context, id int64) (*model.User, error)
}

func (m *mockUserFinder) FindByID(ctx context.Context, id int64) (*model.User, error) {
	return m.findByIDFunc(ctx, id)
}

var (
	portalUser   = &model.User{ID: 2, Login: "alice@example.com", PartnerID: 2, Groups: []string{model.GroupPortal}, Active: true}
	internalUser = &model.User{ID: 1, Login: "admin", PartnerID: 7, Groups: []string{model.GroupUser}, Active: true}
)
