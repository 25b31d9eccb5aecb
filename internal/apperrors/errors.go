package apperrors

import (
	"errors"
	"net/http"
)

// Sentinel errors for the whole backend. Handlers map them to HTTP statuses
// with HTTPStatus; everything else wraps one of these with fmt.Errorf and %w.
var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrMalformedRecord  = errors.New("malformed record")
	ErrNotFound         = errors.New("not found")
	ErrDataStore        = errors.New("data store error")
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotImplemented   = errors.New("not implemented")
)

// HTTPStatus returns the status code a handler should respond with for err.
// Unknown errors are treated as internal.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNotImplemented):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
