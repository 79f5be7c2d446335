package apperr

import "errors"

// Sentinel errors for the failure classes the API can surface. Handlers map
// these to HTTP statuses; everything else is treated as an internal failure.
var (
	ErrBadRequest      = errors.New("invalid request")
	ErrUnauthenticated = errors.New("authentication required")
	ErrConflict        = errors.New("resource already exists")
	ErrNoteNotFound    = errors.New("note not found")
	ErrUnconfigured    = errors.New("service not configured")
	ErrTransient       = errors.New("upstream request failed")
)

// With attaches a user-safe message to one of the sentinel kinds. errors.Is
// still matches the kind; Error() returns only the given message.
func With(kind error, message string) error {
	return &classified{kind: kind, message: message}
}

type classified struct {
	kind    error
	message string
}

func (e *classified) Error() string { return e.message }

func (e *classified) Unwrap() error { return e.kind }
