package domain

import "errors"

var (
	// ErrUnauthorized: the credential is missing or malformed.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUnauthenticated: the credential is well formed but does not resolve
	// to a live user.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden: the principal lacks the required role.
	ErrForbidden = errors.New("access forbidden")
	// ErrEntityNotFound covers both "absent" and "not owned by the requester"
	// for ownership-scoped writes. The two causes are never distinguished.
	ErrEntityNotFound = errors.New("entity not found")
	// ErrConflict: the book already has an active checkout.
	ErrConflict = errors.New("conflict")
	// ErrStorage wraps infrastructure failures.
	ErrStorage = errors.New("storage error")
	// ErrValidation: input rejected before reaching storage.
	ErrValidation = errors.New("validation failed")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
)
