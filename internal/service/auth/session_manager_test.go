package auth_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/tasker-api/internal/domain"
	"github.com/phrazzld/tasker-api/internal/mocks"
	"github.com/phrazzld/tasker-api/internal/service/auth"
)

func newSessionTestUser(store *mocks.MockUserStore, tokens ...string) *domain.User {
	user := &domain.User{
		ID:             uuid.New(),
		Name:           "Alice",
		Email:          "alice@example.com",
		HashedPassword: "hashed",
		Tokens:         append([]string{}, tokens...),
	}
	store.AddUser(user)
	return user
}

func TestSessionManager_IssueToken(t *testing.T) {
	ctx := context.Background()
	userStore := mocks.NewMockUserStore()
	user := newSessionTestUser(userStore, "existing-token")

	jwtService := &mocks.MockJWTService{Token: "new-token"}
	manager := auth.NewSessionManager(jwtService, userStore, nil)

	token, err := manager.IssueToken(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "new-token", token)

	// Persisted set and in-memory copy both gain the token, and existing
	// sessions survive.
	assert.Equal(t, []string{"existing-token", "new-token"}, user.Tokens)
	stored, err := userStore.GetByIDWithToken(ctx, user.ID, "new-token")
	require.NoError(t, err)
	assert.Contains(t, stored.Tokens, "existing-token")
}

func TestSessionManager_IssueToken_GenerateFails(t *testing.T) {
	ctx := context.Background()
	userStore := mocks.NewMockUserStore()
	user := newSessionTestUser(userStore)

	jwtService := &mocks.MockJWTService{Err: fmt.Errorf("signing failed")}
	manager := auth.NewSessionManager(jwtService, userStore, nil)

	_, err := manager.IssueToken(ctx, user)
	require.Error(t, err)
	assert.Empty(t, user.Tokens, "no token should be recorded when signing fails")
}

func TestSessionManager_Revoke(t *testing.T) {
	ctx := context.Background()
	userStore := mocks.NewMockUserStore()
	user := newSessionTestUser(userStore, "phone-token", "laptop-token")

	manager := auth.NewSessionManager(&mocks.MockJWTService{}, userStore, nil)

	err := manager.Revoke(ctx, user, "phone-token")
	require.NoError(t, err)

	// Only the revoked token disappears.
	assert.Equal(t, []string{"laptop-token"}, user.Tokens)

	_, err = userStore.GetByIDWithToken(ctx, user.ID, "phone-token")
	assert.Error(t, err, "revoked token must no longer authenticate")

	_, err = userStore.GetByIDWithToken(ctx, user.ID, "laptop-token")
	assert.NoError(t, err, "other sessions stay live")
}

func TestSessionManager_Revoke_MissingTokenIsNoOp(t *testing.T) {
	ctx := context.Background()
	userStore := mocks.NewMockUserStore()
	user := newSessionTestUser(userStore, "laptop-token")

	manager := auth.NewSessionManager(&mocks.MockJWTService{}, userStore, nil)

	err := manager.Revoke(ctx, user, "never-issued")
	require.NoError(t, err)
	assert.Equal(t, []string{"laptop-token"}, user.Tokens)
}

func TestSessionManager_RevokeAll(t *testing.T) {
	ctx := context.Background()
	userStore := mocks.NewMockUserStore()
	user := newSessionTestUser(userStore, "phone-token", "laptop-token", "tablet-token")

	manager := auth.NewSessionManager(&mocks.MockJWTService{}, userStore, nil)

	err := manager.RevokeAll(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, user.Tokens)

	for _, token := range []string{"phone-token", "laptop-token", "tablet-token"} {
		_, err := userStore.GetByIDWithToken(ctx, user.ID, token)
		assert.Error(t, err, "token %s should be revoked", token)
	}
}

func TestSessionManager_RevokeAll_StoreFailure(t *testing.T) {
	ctx := context.Background()
	userStore := mocks.NewMockUserStore()
	user := newSessionTestUser(userStore, "phone-token")

	userStore.ClearTokensFn = func(ctx context.Context, id uuid.UUID) error {
		return errors.New("connection reset")
	}
	manager := auth.NewSessionManager(&mocks.MockJWTService{}, userStore, nil)

	err := manager.RevokeAll(ctx, user)
	require.Error(t, err)
	assert.Equal(t, []string{"phone-token"}, user.Tokens,
		"in-memory set should be untouched when persistence fails")
}
