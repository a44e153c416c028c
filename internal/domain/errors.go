package domain

import "errors"

var (
	// ErrNotFound is returned when an id matches no stored record.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidID is returned when an id cannot be translated to the
	// backend's native identifier type.
	ErrInvalidID = errors.New("invalid record id")

	// ErrInvalidQuery is returned for an unknown performance query template.
	ErrInvalidQuery = errors.New("unknown query template")

	// ErrUnknownBackend is returned for an unrecognized backend selector.
	ErrUnknownBackend = errors.New("unknown database backend")
)

// ValidationError carries the first failing reason from entity validation.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}
