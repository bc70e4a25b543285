package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for backend and poster operations
var (
	// ErrSessionExpired indicates the backend rejected the bearer credential.
	// The request client clears the session before returning this; callers
	// treat it as a silent abort, never a user-facing error.
	ErrSessionExpired = errors.New("session has expired")

	// ErrServerOffline indicates the backend is unreachable
	ErrServerOffline = errors.New("server is unreachable")

	// ErrPosterUnavailable indicates no verifiable poster image exists for a
	// title; rendering degrades to the placeholder silently
	ErrPosterUnavailable = errors.New("poster image is unavailable")
)

// RequestError is a non-401 error response from the backend, carrying the
// human-readable detail message extracted from the response body.
type RequestError struct {
	StatusCode int
	Detail     string
}

func (e *RequestError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}
