package middleware

import (
	"net/http"
	"strings"

	"github.com/phrazzld/tasker-api/internal/api/shared"
	"github.com/phrazzld/tasker-api/internal/platform/logger"
	"github.com/phrazzld/tasker-api/internal/service/auth"
	"github.com/phrazzld/tasker-api/internal/store"
)

// authRejectionMessage is the single response body for every
// authentication failure. A missing header, a bad signature, an unknown
// user, and a revoked token are deliberately indistinguishable to the
// caller.
const authRejectionMessage = "please authenticate"

// AuthMiddleware is the authentication gate in front of every protected
// route. A request either resolves to an authenticated user plus the
// token it presented, or is rejected; there is no third outcome.
type AuthMiddleware struct {
	jwtService auth.JWTService
	userStore  store.UserStore
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService, userStore store.UserStore) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		userStore:  userStore,
	}
}

// Authenticate validates the bearer token from the Authorization header,
// requires it to still be in the user's live token set, and adds the
// resolved user and raw token to the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, authRejectionMessage)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, authRejectionMessage)
			return
		}
		token := parts[1]

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		if err != nil {
			log.Debug("token verification failed", "error", err)
			shared.RespondWithError(w, r, http.StatusUnauthorized, authRejectionMessage)
			return
		}

		// The signature alone is not enough: the token must still be a
		// member of the user's persisted token set, so a logout revokes
		// it even while it remains cryptographically valid.
		user, err := m.userStore.GetByIDWithToken(r.Context(), claims.UserID, token)
		if err != nil {
			if !store.IsNotFoundError(err) {
				log.Error("failed to resolve authenticated user", "error", err)
			}
			shared.RespondWithError(w, r, http.StatusUnauthorized, authRejectionMessage)
			return
		}

		ctx := shared.WithAuthenticated(r.Context(), user, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
