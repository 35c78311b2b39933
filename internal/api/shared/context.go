package shared

import (
	"context"

	"github.com/phrazzld/tasker-api/internal/domain"
)

// Key type for context values
type ContextKey string

// Context keys for various values
const (
	// UserContextKey is the context key under which the authentication
	// gate stores the resolved *domain.User.
	UserContextKey ContextKey = "user"

	// TokenContextKey is the context key for the raw bearer token the
	// current request authenticated with.
	TokenContextKey ContextKey = "token"
)

// WithAuthenticated returns a context carrying the resolved user and the
// raw session token the request presented.
func WithAuthenticated(ctx context.Context, user *domain.User, token string) context.Context {
	ctx = context.WithValue(ctx, UserContextKey, user)
	return context.WithValue(ctx, TokenContextKey, token)
}

// AuthenticatedUser retrieves the resolved user from the context.
// Returns false if the request did not pass the authentication gate.
func AuthenticatedUser(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(UserContextKey).(*domain.User)
	return user, ok && user != nil
}

// AuthenticatedToken retrieves the raw session token from the context.
func AuthenticatedToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(TokenContextKey).(string)
	return token, ok && token != ""
}
