package repository

import "errors"

var (
	// ErrNotFound is the normal outcome of a lookup that matched nothing.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a unique constraint.
	// The constraint is the authority for races; callers must not rely on
	// check-then-insert alone.
	ErrDuplicate = errors.New("record already exists")
)
