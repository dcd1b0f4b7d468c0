package domain

import "errors"

var (
	// ErrInvalidInput signals a malformed or incomplete client request.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidCredentials signals a failed sign-in attempt.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrSessionExpired signals a missing or expired session token.
	ErrSessionExpired = errors.New("session expired")

	// ErrUpstream signals a map-data or geocoding upstream failure.
	ErrUpstream = errors.New("upstream service error")
	// ErrUpstreamAuth signals that a caller-supplied AI key was rejected upstream.
	ErrUpstreamAuth = errors.New("upstream rejected API key")
)
