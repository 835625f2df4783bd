package domain

import "errors"

// Authentication failures. Callers outside the core see all of these as a single
// "unauthorized" outcome; the distinct values exist for local diagnostics.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrMissingToken       = errors.New("missing bearer token")
	ErrSignatureMismatch  = errors.New("token signature mismatch")
	ErrTokenExpired       = errors.New("token expired")
	ErrUnknownSubject     = errors.New("token subject no longer exists")
	ErrInvalidHashFormat  = errors.New("invalid password hash format")
)

// ErrStoreUnavailable wraps any failure of a backing store that is not a plain miss.
var ErrStoreUnavailable = errors.New("store unavailable")

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUserExists       = errors.New("user already exists")
	ErrPasswordTooLong  = errors.New("password exceeds 72 bytes")
	ErrForbidden        = errors.New("access forbidden")
	ErrMovieNotFound    = errors.New("movie not found")
	ErrGenreNotFound    = errors.New("genre not found")
	ErrDirectorNotFound = errors.New("director not found")
	ErrImageNotFound    = errors.New("image not found")
)

// IsAuthFailure reports whether err is one of the authentication rejections.
func IsAuthFailure(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrMissingToken) ||
		errors.Is(err, ErrSignatureMismatch) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrUnknownSubject)
}

// RejectionReason returns a short label for an auth failure, used in metrics and logs.
func RejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrMissingToken):
		return "missing_token"
	case errors.Is(err, ErrSignatureMismatch):
		return "signature_mismatch"
	case errors.Is(err, ErrTokenExpired):
		return "expired"
	case errors.Is(err, ErrUnknownSubject):
		return "unknown_subject"
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, ErrStoreUnavailable):
		return "store_unavailable"
	default:
		return "other"
	}
}

// ErrInvalidUserInput is returned when a user mutation is missing required data.
var ErrInvalidUserInput = errors.New("invalid user input")
