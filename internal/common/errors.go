// Package common defines shared constants and sentinel errors used across
// client and server layers of readlist. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Validation errors.
	ErrValidation   = errors.New("validation error")
	ErrWeakPassword = errors.New("password must be at least 8 characters long and contain an uppercase letter, a lowercase letter and a digit")

	// Conflicts.
	ErrEmailTaken        = errors.New("user with this email already exists")
	ErrEmailConflict     = errors.New("email is already in use")
	ErrBookAlreadyListed = errors.New("book is already in the list")

	// Authentication errors. ErrInvalidCredentials is the only login failure
	// ever shown to a caller.
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrWrongPassword      = errors.New("incorrect password")
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrCorruptCredential  = errors.New("stored credential is corrupt")

	// Token lifecycle errors.
	ErrTokenInvalid = errors.New("token is invalid")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenRevoked = errors.New("token revoked")

	// Authorization errors.
	ErrForbidden = errors.New("forbidden")

	// ErrUnsupported is returned for features disabled by configuration.
	ErrUnsupported = errors.New("operation not supported")
)

// IsAuthError reports whether err means the caller could not be
// authenticated from the presented token.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrUnauthenticated) ||
		errors.Is(err, ErrTokenInvalid) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrTokenRevoked)
}
