package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"slices"

	"github.com/contactportal/backend/internal/access"
	"github.com/contactportal/backend/internal/filter"
	"github.com/contactportal/backend/internal/model"
	"github.com/contactportal/backend/internal/pager"
	"github.com/contactportal/backend/internal/repository"
)

type contactPortalServiceImpl struct {
	contacts     repository.ContactRepository
	checker      AccessChecker
	sessions     SessionStore
	itemsPerPage int
}

// NewContactPortalService creates a ContactPortalService. itemsPerPage is the
// portal page size.
func NewContactPortalService(contacts repository.ContactRepository, checker AccessChecker, sessions SessionStore, itemsPerPage int) ContactPortalService {
	return &contactPortalServiceImpl{
		contacts:     contacts,
		checker:      checker,
		sessions:     sessions,
		itemsPerPage: itemsPerPage,
	}
}

func (s *contactPortalServiceImpl) ContactDomain(user *model.User) filter.Expr {
	var partnerID int64
	if user != nil {
		partnerID = user.PartnerID
	}
	domain := filter.And(
		// invoice/delivery addresses are not people one can message
		filter.In("type", model.ContactTypeContact, model.ContactTypeOther),
		filter.Ne("id", partnerID),
	)
	if s.checker.IsInternal(user) {
		return domain
	}

	// A company-less user gets a clause that matches nothing.
	parentCompanyID := user.ParentCompanyID()
	return filter.And(
		domain,
		filter.Or(
			filter.And(
				filter.Eq("parent_id", parentCompanyID),
				filter.Ne("parent_id", nil),
			),
			filter.Eq("id", parentCompanyID),
		),
	)
}

func (s *contactPortalServiceImpl) SearchbarSortings() map[string]model.SortOption {
	return map[string]model.SortOption{
		"name": {Label: "Name", Order: []model.OrderBy{{Field: "name"}}},
		"date": {Label: "Creation Date", Order: []model.OrderBy{{Field: "create_date", Desc: true}}},
	}
}

func (s *contactPortalServiceImpl) ListContacts(ctx context.Context, user *model.User, params ContactListParams) (*ContactListValues, error) {
	sortBy := params.SortBy
	if sortBy == "" {
		sortBy = emptyContactSortBy
	}
	sortings := s.SearchbarSortings()
	sorting, ok := sortings[sortBy]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSort, sortBy)
	}

	domain := s.ContactDomain(user)
	total, err := s.contacts.SearchCount(ctx, domain)
	if err != nil {
		return nil, fmt.Errorf("count contacts: %w", err)
	}

	pg := pager.New(pager.Params{
		URL:     ContactsURL,
		Total:   total,
		Page:    params.Page,
		Step:    s.itemsPerPage,
		URLArgs: url.Values{"sortby": {sortBy}},
	})
	contacts, err := s.contacts.Search(ctx, domain, model.SearchOptions{
		Order:  sorting.Order,
		Limit:  s.itemsPerPage,
		Offset: pg.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("search contacts: %w", err)
	}

	return &ContactListValues{
		PortalLayout:      portalLayout(user, "contacts"),
		Contacts:          contacts,
		Pager:             pg,
		DefaultURL:        ContactsURL,
		SearchbarSortings: sortings,
		SortBy:            sortBy,
	}, nil
}

func (s *contactPortalServiceImpl) CheckContactAccess(ctx context.Context, user *model.User, contactID int64, accessToken string) (*model.Contact, error) {
	contact, err := s.contacts.FindByID(ctx, contactID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrMissing
	}
	if err != nil {
		return nil, err
	}

	accessErr := s.checkRead(user, contact)
	if accessErr == nil {
		return contact, nil
	}
	if accessToken == "" || contact.AccessToken == "" ||
		subtle.ConstantTimeCompare([]byte(accessToken), []byte(contact.AccessToken)) != 1 {
		return nil, accessErr
	}
	return contact, nil
}

// checkRead applies the model access rights and the record rule: portal
// users read their own partner and the contacts of their visibility domain.
func (s *contactPortalServiceImpl) checkRead(user *model.User, contact *model.Contact) error {
	if err := s.checker.CheckAccessRights(user, model.ContactModelName, access.Read); err != nil {
		return err
	}
	if s.checker.IsInternal(user) {
		return nil
	}
	rule := filter.Or(filter.Eq("id", user.PartnerID), s.ContactDomain(user))
	if !rule.Match(contact) {
		return &access.Error{Model: model.ContactModelName, Operation: access.Read, Login: user.Login}
	}
	return nil
}

func (s *contactPortalServiceImpl) ContactPage(ctx context.Context, req ContactPageRequest) (*ContactPageValues, error) {
	contact, err := s.CheckContactAccess(ctx, req.User, req.ContactID, req.AccessToken)
	if err != nil {
		return nil, err
	}

	var history []int64
	if req.SessionToken != "" {
		if _, err := s.sessions.Get(ctx, req.SessionToken, ContactPageHistorySessionKey, &history); err != nil {
			slog.Warn("read page history failed", "error", err, "contact_id", contact.ID)
			history = nil
		}
	}

	return &ContactPageValues{
		PortalLayout: portalLayout(req.User, "contact"),
		PageView:   pageViewValues(contact, req.AccessToken, false, history),
		Contact:    contact,
		Message:    req.Message,
		ReportType: "html",
		BackendURL: BackendURL(contact),
	}, nil
}

func (s *contactPortalServiceImpl) PrepareCounters(ctx context.Context, user *model.User, counters []string) (map[string]int, error) {
	values := map[string]int{}
	if !slices.Contains(counters, ContactCountCounter) {
		return values, nil
	}
	if !s.checker.HasAccessRights(user, model.ContactModelName, access.Read) {
		values[ContactCountCounter] = 0
		return values, nil
	}
	n, err := s.contacts.SearchCount(ctx, s.ContactDomain(user))
	if err != nil {
		return nil, fmt.Errorf("count contacts: %w", err)
	}
	values[ContactCountCounter] = n
	return values, nil
}

func (s *contactPortalServiceImpl) Counters() []string {
	return []string{ContactCountCounter}
}
