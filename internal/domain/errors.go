package domain

import (
	"errors"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidID signals a malformed identifier.
	ErrInvalidID = errors.New("invalid id")
	// ErrValidation signals input that violates an entity constraint.
	ErrValidation = errors.New("validation failed")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("resource already exists")
	// ErrUnauthenticated signals a missing or invalid credential.
	ErrUnauthenticated = errors.New("not authorized to access this route")
	// ErrForbidden signals an authenticated caller lacking the capability.
	ErrForbidden = errors.New("forbidden")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("too many requests")

	// ErrMediaUpload signals the media host rejected or failed an upload.
	ErrMediaUpload = errors.New("media upload failed")
	// ErrMediaRelease signals the media host failed to release an asset.
	ErrMediaRelease = errors.New("media release failed")
	// ErrUpstream signals a failed fetch from the media host.
	ErrUpstream = errors.New("error fetching video")
)

// ValidationError wraps ErrValidation with the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a field-scoped validation error.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
