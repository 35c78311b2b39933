package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/tasker-api/internal/domain"
	"github.com/phrazzld/tasker-api/internal/service/auth"
	"github.com/phrazzld/tasker-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status
// codes based on the error type. This prevents leaking internal error
// types or messages to clients.
//
// The taxonomy is deliberately small: validation failures are 400,
// authentication failures are a uniform 401, anything a caller is not
// allowed to see collapses into 404, and everything else is a 500.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrBadCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	// Not found (including "exists but isn't yours")
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal
// details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "an unexpected error occurred"
	}

	switch {
	// Authentication failures all read identically
	case errors.Is(err, auth.ErrBadCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken):
		return "please authenticate"

	case errors.Is(err, store.ErrNotFound):
		return "not found"

	case errors.Is(err, store.ErrEmailExists):
		return "email is already in use"

	// Domain validation errors carry field-level detail that is safe to
	// surface.
	case errors.Is(err, domain.ErrValidation):
		return err.Error()

	case errors.Is(err, store.ErrInvalidEntity):
		return "invalid entity data"

	default:
		return "an unexpected error occurred"
	}
}

// RespondWithMappedError maps err through the taxonomy and writes the
// corresponding error response.
func RespondWithMappedError(w http.ResponseWriter, r *http.Request, err error) {
	RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
}
