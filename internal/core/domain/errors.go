package domain

import (
	"errors"
	"fmt"
)

// Error kinds for failures crossing the upstream API boundary. Handlers match
// on these with errors.Is; UpstreamError carries the per-call detail.
var (
	ErrValidation = errors.New("invalid input")
	ErrAuth       = errors.New("authentication failed")
	ErrNotFound   = errors.New("not found")
	ErrTransport  = errors.New("upstream unreachable")
	ErrServer     = errors.New("upstream failure")
)

// ErrDuplicateSubmit is returned when a mutation is re-submitted while an
// identical one is still inside its guard window.
var ErrDuplicateSubmit = errors.New("duplicate submission")

// UpstreamError is a categorized failure from the upstream API. Kind is one of
// the sentinel errors above, Status the HTTP status (0 when no response was
// received), Detail the server-supplied human-readable message, if any.
type UpstreamError struct {
	Kind   error
	Status int
	Detail string
}

func (e *UpstreamError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%v: %s", e.Kind, e.Detail)
	}
	if e.Status != 0 {
		return fmt.Sprintf("%v (status %d)", e.Kind, e.Status)
	}
	return e.Kind.Error()
}

func (e *UpstreamError) Unwrap() error { return e.Kind }

// Message returns the text shown to the user: the server detail when present,
// otherwise a generic phrase per kind.
func (e *UpstreamError) Message() string {
	if e.Detail != "" {
		return e.Detail
	}
	switch e.Kind {
	case ErrValidation:
		return "Please check your input and try again."
	case ErrAuth:
		return "Session expired. Please log in again."
	case ErrNotFound:
		return "That task no longer exists."
	case ErrTransport:
		return "Could not reach the task service. Please retry."
	default:
		return "The task service reported an error. Please retry."
	}
}
