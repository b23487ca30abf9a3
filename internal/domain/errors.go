package domain

import "errors"

var (
	// ErrNotFound is returned by stores when a record does not exist or is
	// not visible to the requesting user.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail is returned when registering an email that is
	// already taken.
	ErrDuplicateEmail = errors.New("email already registered")
)
