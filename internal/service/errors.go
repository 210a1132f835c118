package service

import (
	"errors"
	"fmt"
)

// ErrMissing is returned when a requested record does not exist.
var ErrMissing = errors.New("record does not exist or has been deleted")

// ErrInvalidSort is returned for a sort key the search bar does not offer.
var ErrInvalidSort = errors.New("invalid sort key")

// UserError is a validation failure meant to be shown to the caller as is.
type UserError struct {
	Message string
}

func (e *UserError) Error() string {
	return e.Message
}

func userErrorf(format string, args ...any) error {
	return &UserError{Message: fmt.Sprintf(format, args...)}
}
