package dao

import "errors"

var (
	// ErrConstraintViolation is returned when an insert or update would
	// collide with an existing record, such as a taken username or a reused
	// session id.
	ErrConstraintViolation = errors.New("a uniqueness constraint was violated")

	// ErrNotFound is returned when no user, session, or transcript entry
	// exists with the requested identifier.
	ErrNotFound = errors.New("the requested resource was not found")
)
