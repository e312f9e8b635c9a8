package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure so the HTTP layer can pick a status code
// without inspecting error strings.
type Kind string

const (
	Validation  Kind = "ValidationError"
	NotFound    Kind = "NotFoundError"
	Forbidden   Kind = "ForbiddenError"
	Upstream    Kind = "UpstreamError"
	Persistence Kind = "PersistenceError"
)

type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Err.Error())
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// Wrap attaches a kind to an existing error, keeping it unwrappable.
func Wrap(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// KindOf reports the kind of err, or an empty kind for unclassified errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// Status maps an error to the HTTP status code its kind calls for.
// Unclassified errors are treated as internal failures.
func Status(err error) int {
	switch KindOf(err) {
	case Validation:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Forbidden:
		return http.StatusForbidden
	case Upstream:
		return http.StatusBadGateway
	case Persistence:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
