package model

import "time"

// ContactModelName is the entity name used by access rules, followers and
// backend deep links.
const ContactModelName = "res.partner"

// Contact types. Only ContactTypeContact and ContactTypeOther are people a
// portal user can message; the rest are address records.
const (
	ContactTypeContact  = "contact"
	ContactTypeOther    = "other"
	ContactTypeInvoice  = "invoice"
	ContactTypeDelivery = "delivery"
	ContactTypePrivate  = "private"
)

// Contact is a company-directory record.
type Contact struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	Type        string    `json:"type"`
	ParentID    *int64    `json:"parent_id,omitempty"`
	IsCompany   bool      `json:"is_company"`
	AccessToken string    `json:"-"`
	CreateDate  time.Time `json:"create_date"`
}

// HasParent reports whether the contact belongs to a parent company.
func (c *Contact) HasParent() bool {
	return c.ParentID != nil
}

// Field returns the value of a searchable field by name. A missing parent is
// returned as a nil value so that it compares equal to a null operand.
func (c *Contact) Field(name string) (any, bool) {
	switch name {
	case "id":
		return c.ID, true
	case "name":
		return c.Name, true
	case "email":
		return c.Email, true
	case "type":
		return c.Type, true
	case "is_company":
		return c.IsCompany, true
	case "create_date":
		return c.CreateDate, true
	case "parent_id":
		if c.ParentID == nil {
			return nil, true
		}
		return *c.ParentID, true
	}
	return nil, false
}

// ContactIDs returns the ids of contacts in order.
func ContactIDs(contacts []*Contact) []int64 {
	ids := make([]int64, 0, len(contacts))
	for _, c := range contacts {
		ids = append(ids, c.ID)
	}
	return ids
}

// OrderBy is one column of a search ordering.
type OrderBy struct {
	Field string
	Desc  bool
}

// SortOption is a selectable ordering shown in the portal search bar.
type SortOption struct {
	Label string
	Order []OrderBy
}

// SearchOptions carries ordering and pagination for a contact search.
type SearchOptions struct {
	Order  []OrderBy
	Limit  int
	Offset int
}
