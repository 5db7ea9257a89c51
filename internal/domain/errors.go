package domain

import "errors"

// Sentinel errors shared by services and repositories. Handlers map them onto
// the HTTP error taxonomy: VALIDATION_ERROR, NOT_FOUND, AUTHORIZATION_ERROR
// and INTERNAL_ERROR for anything unrecognized.
var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")

	// ErrNoCapacity is returned by the conditional capacity reservation when a
	// day in the requested range has no open slot left.
	ErrNoCapacity = errors.New("no capacity available")
)
