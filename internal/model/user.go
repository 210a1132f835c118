package model

import (
	"slices"
	"time"
)

// Capability groups.
const (
	GroupUser   = "base.group_user"
	GroupPortal = "base.group_portal"
	GroupPublic = "base.group_public"
)

// User is an account able to log into the portal. Every user is backed by a
// partner (Contact) record.
type User struct {
	ID         int64     `json:"id"`
	Login      string    `json:"login"`
	PartnerID  int64     `json:"partner_id"`
	Groups     []string  `json:"groups"`
	Active     bool      `json:"active"`
	CreateDate time.Time `json:"create_date"`

	// Partner is loaded alongside the user by the repository.
	Partner *Contact `json:"-"`
}

// HasGroup reports whether the user holds the given capability group.
func (u *User) HasGroup(group string) bool {
	if u == nil {
		return group == GroupPublic
	}
	return slices.Contains(u.Groups, group)
}

// IsInternal reports whether the user is an internal (back-office) user.
func (u *User) IsInternal() bool {
	return u.HasGroup(GroupUser)
}

// IsPortal reports whether the user is an active portal user.
func (u *User) IsPortal() bool {
	return u != nil && u.Active && u.HasGroup(GroupPortal)
}

// ParentCompanyID returns the parent company of the user's partner, or nil.
func (u *User) ParentCompanyID() *int64 {
	if u == nil || u.Partner == nil {
		return nil
	}
	return u.Partner.ParentID
}

// EffectiveGroups returns the groups used for access checks. Anonymous
// visitors are members of the public group only.
func (u *User) EffectiveGroups() []string {
	if u == nil {
		return []string{GroupPublic}
	}
	return u.Groups
}

// UserModelName is the entity name of users in access rules.
const UserModelName = "res.users"
