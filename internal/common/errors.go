// Package common defines sentinel errors and small constants shared across
// the transition engine and the item sync core. Callers should match these
// with errors.Is rather than string comparison.
package common

import "errors"

var (
	// ErrNotFound is returned by repositories when a lookup finds no row.
	ErrNotFound = errors.New("not found")

	// ErrConfiguration marks a missing or invalid collaborator (e.g. no
	// secondary repository configured) — surfaced immediately, never retried.
	ErrConfiguration = errors.New("configuration error")

	// ErrValidation marks a rejected client-submitted input. No state is
	// mutated when this error is returned.
	ErrValidation = errors.New("validation error")

	// ErrVersionConflict is returned by an upsert when a conditional write
	// did not affect the expected row.
	ErrVersionConflict = errors.New("version conflict")

	// ErrIntegrityMismatch marks a deterministic integrity-check failure.
	ErrIntegrityMismatch = errors.New("integrity mismatch")
)
