package service

import (
	"context"
	"fmt"

	"github.com/contactportal/backend/internal/filter"
	"github.com/contactportal/backend/internal/model"
	"github.com/contactportal/backend/internal/pager"
)

const (
	// ContactsURL is the base URL of the contact list.
	ContactsURL = "/my/contacts"

	// ContactHistorySessionKey holds the ids shown by the last list render.
	ContactHistorySessionKey = "my_contact_history"
	// ContactPageHistorySessionKey is the history read by the detail page
	// to compute previous/next links.
	ContactPageHistorySessionKey = "my_quest_history"
	// ContactHistoryLimit caps the number of ids kept in the list history.
	ContactHistoryLimit = 100

	// ContactCountCounter is the portal home counter for visible contacts.
	ContactCountCounter = "contact_count"

	// DefaultContactSortBy applies when no sortby parameter is given at all.
	DefaultContactSortBy = "name"
	// emptyContactSortBy applies when sortby is present but empty.
	emptyContactSortBy = "date"
)

// ContactListParams are the inputs of the contact list page.
type ContactListParams struct {
	Page   int
	SortBy string
}

// ContactListValues are the values the contact list template renders.
type ContactListValues struct {
	PortalLayout
	Contacts          []*model.Contact
	Pager             pager.Pager
	DefaultURL        string
	SearchbarSortings map[string]model.SortOption
	SortBy            string
}

// ContactPageRequest identifies the contact detail page being requested.
type ContactPageRequest struct {
	User         *model.User
	SessionToken string
	ContactID    int64
	AccessToken  string
	Message      string
}

// ContactPageValues are the values the contact detail template renders.
type ContactPageValues struct {
	PortalLayout
	PageView
	Contact    *model.Contact
	Message    string
	ReportType string
	BackendURL string
}

// ContactPortalService builds the "my contacts" portal pages.
type ContactPortalService interface {
	// ContactDomain returns the search domain of contacts visible to user.
	ContactDomain(user *model.User) filter.Expr

	// SearchbarSortings returns the orderings offered on the list page.
	SearchbarSortings() map[string]model.SortOption

	// ListContacts returns one page of visible contacts.
	ListContacts(ctx context.Context, user *model.User, params ContactListParams) (*ContactListValues, error)

	// CheckContactAccess loads a contact and authorizes it for user, falling
	// back to the access token. Returns ErrMissing or *access.Error.
	CheckContactAccess(ctx context.Context, user *model.User, contactID int64, accessToken string) (*model.Contact, error)

	// ContactPage authorizes and prepares the detail page of one contact.
	ContactPage(ctx context.Context, req ContactPageRequest) (*ContactPageValues, error)

	// PrepareCounters contributes contact_count to the portal home counters.
	PrepareCounters(ctx context.Context, user *model.User, counters []string) (map[string]int, error)

	// Counters lists the counters PrepareCounters can fill.
	Counters() []string
}

// ContactHistory returns the ids to remember after rendering contacts,
// truncated to ContactHistoryLimit.
func ContactHistory(contacts []*model.Contact) []int64 {
	ids := model.ContactIDs(contacts)
	if len(ids) > ContactHistoryLimit {
		ids = ids[:ContactHistoryLimit]
	}
	return ids
}

// ContactURL returns the portal URL of a contact detail page.
func ContactURL(id int64) string {
	return fmt.Sprintf("%s/%d", ContactsURL, id)
}

// BackendURL returns the back-office form deep link of a contact.
func BackendURL(c *model.Contact) string {
	return fmt.Sprintf("/web#model=%s&id=%d&view_type=form", model.ContactModelName, c.ID)
}
