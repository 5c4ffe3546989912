package apperr

import "errors"

var (
	// ErrNotFound is the sentinel for a missing user/content/consultation.
	ErrNotFound = errors.New("not found")
	// ErrInvalidProfile marks a user row that cannot produce an interest
	// profile (age absent or unusable).
	ErrInvalidProfile = errors.New("invalid profile")
	// ErrInvalidInput is the sentinel for rejected caller input.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthorized is the sentinel for auth failures.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUpstreamUnavailable marks an AI upstream transport or parse
	// failure. It never leaves the gateway: callers always receive the
	// fixed fallback value instead.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
