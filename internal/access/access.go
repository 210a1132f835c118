// Package access evaluates model-level access rights for users.
//
// Checks come in two modes: CheckAccessRights returns an *Error when the
// right is missing, HasAccessRights reports the same decision as a bool.
package access

import (
	_ "embed"
	"fmt"
	"slices"

	"github.com/contactportal/backend/internal/model"
	"gopkg.in/yaml.v3"
)

// Operation is an access right on a model.
type Operation string

const (
	Read   Operation = "read"
	Write  Operation = "write"
	Create Operation = "create"
	Unlink Operation = "unlink"
)

//go:embed policy.yaml
var defaultPolicy []byte

// Rule grants operations on a model to members of a group.
type Rule struct {
	Model string      `yaml:"model"`
	Group string      `yaml:"group"`
	Perms []Operation `yaml:"perms"`
}

// Policy is the full set of access rules.
type Policy struct {
	Rules []Rule `yaml:"rules"`
}

// ParsePolicy decodes a YAML policy document.
func ParsePolicy(data []byte) (*Policy, error) {
	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse access policy: %w", err)
	}
	for i, r := range p.Rules {
		if r.Model == "" || r.Group == "" {
			return nil, fmt.Errorf("parse access policy: rule %d needs model and group", i)
		}
	}
	return &p, nil
}

// DefaultPolicy returns the embedded policy.
func DefaultPolicy() (*Policy, error) {
	return ParsePolicy(defaultPolicy)
}

// Error is returned by strict checks when a right is missing.
type Error struct {
	Model     string
	Operation Operation
	Login     string
}

func (e *Error) Error() string {
	who := e.Login
	if who == "" {
		who = "public user"
	}
	return fmt.Sprintf("access denied: %s may not %s %s", who, e.Operation, e.Model)
}

// Checker answers access-right questions against a Policy.
type Checker struct {
	policy *Policy
}

// NewChecker creates a Checker for policy.
func NewChecker(policy *Policy) *Checker {
	return &Checker{policy: policy}
}

// HasAccessRights reports whether user may perform op on modelName.
// A nil user is the anonymous public visitor.
func (c *Checker) HasAccessRights(user *model.User, modelName string, op Operation) bool {
	if user != nil && !user.Active {
		return false
	}
	groups := user.EffectiveGroups()
	for _, r := range c.policy.Rules {
		if r.Model == modelName && slices.Contains(groups, r.Group) && slices.Contains(r.Perms, op) {
			return true
		}
	}
	return false
}

// CheckAccessRights returns an *Error when user may not perform op on
// modelName.
func (c *Checker) CheckAccessRights(user *model.User, modelName string, op Operation) error {
	if c.HasAccessRights(user, modelName, op) {
		return nil
	}
	e := &Error{Model: modelName, Operation: op}
	if user != nil {
		e.Login = user.Login
	}
	return e
}

// IsInternal reports whether user holds the internal-user capability.
func (c *Checker) IsInternal(user *model.User) bool {
	return user.IsInternal()
}
