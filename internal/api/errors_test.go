package api_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/tasker-api/internal/api"
	"github.com/phrazzld/tasker-api/internal/domain"
	"github.com/phrazzld/tasker-api/internal/service/auth"
	"github.com/phrazzld/tasker-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "bad credentials", err: auth.ErrBadCredentials, want: http.StatusUnauthorized},
		{name: "invalid token", err: auth.ErrInvalidToken, want: http.StatusUnauthorized},
		{name: "expired token", err: auth.ErrExpiredToken, want: http.StatusUnauthorized},
		{name: "generic not found", err: store.ErrNotFound, want: http.StatusNotFound},
		{name: "user not found", err: store.ErrUserNotFound, want: http.StatusNotFound},
		{name: "task not found", err: store.ErrTaskNotFound, want: http.StatusNotFound},
		{name: "validation", err: domain.ErrPasswordTooShort, want: http.StatusBadRequest},
		{name: "disallowed field", err: domain.ErrDisallowedField, want: http.StatusBadRequest},
		{name: "duplicate email", err: store.ErrEmailExists, want: http.StatusBadRequest},
		{name: "unknown", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, api.MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Run("auth errors read identically", func(t *testing.T) {
		for _, err := range []error{
			auth.ErrBadCredentials,
			auth.ErrInvalidToken,
			auth.ErrExpiredToken,
			auth.ErrMissingToken,
		} {
			assert.Equal(t, "please authenticate", api.GetSafeErrorMessage(err))
		}
	})

	t.Run("not found is terse", func(t *testing.T) {
		assert.Equal(t, "not found", api.GetSafeErrorMessage(store.ErrTaskNotFound))
	})

	t.Run("duplicate email", func(t *testing.T) {
		assert.Equal(t, "email is already in use", api.GetSafeErrorMessage(store.ErrEmailExists))
	})

	t.Run("validation detail is surfaced", func(t *testing.T) {
		msg := api.GetSafeErrorMessage(domain.ErrPasswordTooShort)
		assert.Contains(t, msg, "at least 7 characters")
	})

	t.Run("internal detail is hidden", func(t *testing.T) {
		msg := api.GetSafeErrorMessage(errors.New("pq: connection refused on 10.1.2.3"))
		assert.Equal(t, "an unexpected error occurred", msg)
		assert.NotContains(t, msg, "10.1.2.3")
	})
}
