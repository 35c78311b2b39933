package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/tasker-api/internal/api/middleware"
	"github.com/phrazzld/tasker-api/internal/api/shared"
	"github.com/phrazzld/tasker-api/internal/domain"
	"github.com/phrazzld/tasker-api/internal/mocks"
	"github.com/phrazzld/tasker-api/internal/service/auth"
)

const unauthorizedBody = `{"error":"please authenticate"}`

// newAuthFixture wires the middleware around a handler that records the
// authenticated user and token it received from the request context.
func newAuthFixture(t *testing.T) (*mocks.MockUserStore, *mocks.MockJWTService, *domain.User, http.Handler, *struct {
	user  *domain.User
	token string
}) {
	t.Helper()

	userStore := mocks.NewMockUserStore()
	user := &domain.User{
		ID:             uuid.New(),
		Name:           "Alice",
		Email:          "alice@example.com",
		HashedPassword: "hashed",
		Tokens:         []string{"live-token"},
	}
	userStore.AddUser(user)

	jwtService := &mocks.MockJWTService{
		ValidateTokenFn: func(ctx context.Context, tokenString string) (*auth.Claims, error) {
			if tokenString == "live-token" || tokenString == "revoked-token" {
				return &auth.Claims{UserID: user.ID}, nil
			}
			return nil, auth.ErrInvalidToken
		},
	}

	seen := &struct {
		user  *domain.User
		token string
	}{}

	m := middleware.NewAuthMiddleware(jwtService, userStore)
	handler := m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen.user, _ = shared.AuthenticatedUser(r.Context())
		seen.token, _ = shared.AuthenticatedToken(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	return userStore, jwtService, user, handler, seen
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	_, _, user, handler, seen := newAuthFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer live-token")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, seen.user)
	assert.Equal(t, user.ID, seen.user.ID)
	assert.Equal(t, "live-token", seen.token)
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "not a bearer scheme", header: "Basic live-token"},
		{name: "malformed header", header: "Bearer"},
		{name: "garbage token", header: "Bearer garbage"},
		{name: "revoked token", header: "Bearer revoked-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, handler, seen := newAuthFixture(t)

			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.JSONEq(t, unauthorizedBody, rr.Body.String(),
				"every rejection must read identically")
			assert.Nil(t, seen.user, "handler must not run on rejection")
		})
	}
}

func TestAuthMiddleware_RevokedButSignedToken(t *testing.T) {
	// "revoked-token" passes signature validation in the fixture but is
	// not in the user's live token set: the gate must still reject it.
	_, _, user, handler, _ := newAuthFixture(t)
	require.NotContains(t, user.Tokens, "revoked-token")

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer revoked-token")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, unauthorizedBody, rr.Body.String())
}

func TestAuthMiddleware_DeletedUser(t *testing.T) {
	userStore, _, user, handler, _ := newAuthFixture(t)
	require.NoError(t, userStore.Delete(context.Background(), user.ID))

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer live-token")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
