package model

import "errors"

// Sentinel errors shared across services, repositories and handlers.
// Handlers map these to HTTP statuses; everything unrecognized becomes
// an internal server error with a generic body.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConflict indicates a uniqueness violation, e.g. a duplicate username.
	ErrConflict = errors.New("record already exists")

	// ErrInvalidCredentials covers every login failure: unknown username,
	// wrong password, account without a password. Deliberately a single
	// error so responses cannot be used for username enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTokenExpired indicates a validly signed token past its expiry.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid indicates a token no known secret verifies.
	ErrTokenInvalid = errors.New("token invalid")

	// ErrForbidden indicates an authenticated caller acting on a resource
	// they do not own.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation indicates malformed input. Safe to detail in
	// responses; it leaks nothing about account existence.
	ErrValidation = errors.New("validation failed")

	// ErrEmailNotVerified indicates an external identity whose email the
	// provider has not verified. Such identities never create or link
	// local accounts.
	ErrEmailNotVerified = errors.New("external email not verified")

	// ErrUsernameExhausted indicates username generation ran out of
	// collision-free candidates.
	ErrUsernameExhausted = errors.New("failed to generate unique username")
)
