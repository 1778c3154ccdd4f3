package repository

import "errors"

var (
	// ErrNotFound is returned when a keyed record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrStatusMismatch is returned when a conditional transition finds the
	// record in a different state.
	ErrStatusMismatch = errors.New("record status changed")
	// ErrDuplicate is returned when creating a record whose key already exists.
	ErrDuplicate = errors.New("record already exists")
)
