package syncro

import (
	"errors"
	"fmt"
)

// Error kinds form a closed taxonomy so callers can branch on policy
// instead of string-matching messages: transport failures surface to the
// caller, validation failures fail a single item, duplicates are a normal
// logged no-op.
var (
	// ErrTransport marks non-2xx responses and network-level failures.
	ErrTransport = errors.New("transport error")

	// ErrValidation marks a payload the service (or a precondition) rejected.
	ErrValidation = errors.New("validation error")

	// ErrDuplicate marks a detected duplicate. Not a failure: the item
	// already exists downstream and the write is skipped.
	ErrDuplicate = errors.New("duplicate")

	// ErrNotFound marks a lookup that returned no record.
	ErrNotFound = errors.New("not found")
)

// APIError carries the detail of a failed HTTP exchange. It matches
// ErrTransport under errors.Is.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

func (e *APIError) Is(target error) bool {
	return target == ErrTransport
}
