package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasker-api/internal/domain"
	"github.com/phrazzld/tasker-api/internal/store"
)

// SessionService defines the session lifecycle operations consumed by
// the HTTP layer.
type SessionService interface {
	// IssueToken signs a new token for the user and records it in the
	// user's live token set.
	IssueToken(ctx context.Context, user *domain.User) (string, error)

	// Revoke removes exactly the given token from the user's live set.
	Revoke(ctx context.Context, user *domain.User, token string) error

	// RevokeAll empties the user's live token set.
	RevokeAll(ctx context.Context, user *domain.User) error
}

// SessionManager issues and revokes session tokens against a user's
// persisted token set. Several tokens may be live for one user at a time
// (one per device); issuing a new token never disturbs existing ones.
type SessionManager struct {
	jwtService JWTService
	userStore  store.UserStore
	logger     *slog.Logger
}

// Ensure SessionManager implements SessionService.
var _ SessionService = (*SessionManager)(nil)

// NewSessionManager creates a new SessionManager with the given dependencies.
func NewSessionManager(
	jwtService JWTService,
	userStore store.UserStore,
	logger *slog.Logger,
) *SessionManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionManager{
		jwtService: jwtService,
		userStore:  userStore,
		logger:     logger.With("component", "session_manager"),
	}
}

// IssueToken signs a new token for the user, appends it to the user's
// persisted token set, and returns it. The append runs against the latest
// stored row so a token issued concurrently from another device survives.
func (m *SessionManager) IssueToken(ctx context.Context, user *domain.User) (string, error) {
	token, err := m.jwtService.GenerateToken(ctx, user.ID)
	if err != nil {
		return "", err
	}

	if err := m.userStore.AppendToken(ctx, user.ID, token); err != nil {
		m.logger.Error("failed to persist issued token",
			"error", err,
			"user_id", user.ID)
		return "", fmt.Errorf("failed to persist session token: %w", err)
	}

	user.Tokens = append(user.Tokens, token)

	m.logger.Debug("issued session token",
		"user_id", user.ID,
		"live_tokens", len(user.Tokens))
	return token, nil
}

// Revoke removes exactly the matching token from the user's persisted
// token set. Revoking a token that is not in the set is a no-op.
func (m *SessionManager) Revoke(ctx context.Context, user *domain.User, token string) error {
	if err := m.userStore.RemoveToken(ctx, user.ID, token); err != nil {
		m.logger.Error("failed to revoke token",
			"error", err,
			"user_id", user.ID)
		return fmt.Errorf("failed to revoke session token: %w", err)
	}

	kept := user.Tokens[:0]
	for _, t := range user.Tokens {
		if t != token {
			kept = append(kept, t)
		}
	}
	user.Tokens = kept

	m.logger.Debug("revoked session token", "user_id", user.ID)
	return nil
}

// RevokeAll clears the user's entire token set in one update, logging out
// every device at once.
func (m *SessionManager) RevokeAll(ctx context.Context, user *domain.User) error {
	if err := m.userStore.ClearTokens(ctx, user.ID); err != nil {
		m.logger.Error("failed to revoke all tokens",
			"error", err,
			"user_id", user.ID)
		return fmt.Errorf("failed to revoke all session tokens: %w", err)
	}

	user.Tokens = nil

	m.logger.Debug("revoked all session tokens", "user_id", user.ID)
	return nil
}
