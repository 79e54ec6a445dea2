package repository

import "errors"

// Sentinel errors shared by all repository implementations.
var (
	// ErrNotFound covers both a missing row and, for owner-scoped mutations,
	// a row owned by someone else. Implementations must not distinguish the two.
	ErrNotFound = errors.New("not found")
	// ErrConflict maps a storage unique-constraint violation.
	ErrConflict = errors.New("conflict")
)
