package database

import "errors"

var (
	// ErrNotFound is returned when a row lookup matches nothing.
	ErrNotFound = errors.New("record not found")

	// ErrStaleStatus is returned by the compare-and-set status update
	// when the booking is no longer WAITING.
	ErrStaleStatus = errors.New("booking status already decided")

	// ErrDuplicateEmail is returned when the users unique index rejects
	// an insert or update.
	ErrDuplicateEmail = errors.New("email already registered")
)
