// Package fault defines the error kinds shared by the classroom core.
// Handlers map them to HTTP statuses in one place; the core wraps them
// with %w so callers can test with errors.Is.
package fault

import (
	"errors"
	"net/http"
)

var (
	// ErrUnauthenticated: no learner identity in the call context.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrNotFound: course, article, progress or certificate lookup miss.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput: terminal, user-correctable bad input (blank student
	// name, empty question set, unknown test phase).
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotEligible: certificate requested before the course is completed.
	ErrNotEligible = errors.New("not eligible")
	// ErrUpstream: the backing store failed. Never retried here; callers
	// own retry policy.
	ErrUpstream = errors.New("upstream failure")
)

func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotEligible):
		return http.StatusConflict
	case errors.Is(err, ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
