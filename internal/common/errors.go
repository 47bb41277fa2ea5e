// Package common defines shared constants and sentinel errors used across
// the client and server layers of StudyBuddy. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// Input that fails a check before any remote call or mutation happens.
	// Wrapped errors carry the user-facing description.
	ErrValidation = errors.New("validation error")

	// A mutating call made against state that does not satisfy its
	// contract, e.g. merging a profile into an empty identity cache.
	ErrPrecondition = errors.New("precondition failed")
)
