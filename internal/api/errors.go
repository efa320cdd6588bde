// Package api implements the typed HTTP client for the Skill-Sphere REST backend.
package api

import (
	"errors"
	"fmt"
)

// Failure taxonomy shared by the client and the synchronizers. Remote responses
// and local guard checks both map onto these sentinels so callers can branch
// with errors.Is regardless of where the failure originated.
var (
	// ErrUnauthenticated means no usable credential was available, or the server
	// rejected the one presented.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrPermissionDenied means the caller is not allowed to perform the
	// operation (self-reaction, editing someone else's comment, ...).
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInvalidArgument means the input was rejected before or by the server.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConflict means the server refused the mutation because it would violate
	// a uniqueness constraint.
	ErrConflict = errors.New("conflict")

	// ErrNotFound means the referenced entity no longer exists server-side.
	ErrNotFound = errors.New("not found")

	// ErrNetwork covers transport-level failures where the client cannot tell
	// whether the request reached the server.
	ErrNetwork = errors.New("network error")
)

// StatusError carries the HTTP status and server-provided message alongside the
// taxonomy sentinel it unwraps to.
type StatusError struct {
	Status  int
	Message string
	kind    error
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("remote store: %s (status %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("remote store: status %d", e.Status)
}

func (e *StatusError) Unwrap() error { return e.kind }

// statusToError maps an HTTP response status onto the failure taxonomy.
func statusToError(status int, message string) error {
	var kind error
	switch status {
	case 400, 422:
		kind = ErrInvalidArgument
	case 401:
		kind = ErrUnauthenticated
	case 403:
		kind = ErrPermissionDenied
	case 404:
		kind = ErrNotFound
	case 409:
		kind = ErrConflict
	default:
		kind = fmt.Errorf("unexpected status %d", status)
	}
	return &StatusError{Status: status, Message: message, kind: kind}
}
