package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/tasker-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store. The user must already carry a
	// hashed password; plaintext never reaches the persistence layer.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their normalized email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByIDWithToken retrieves a user by ID, but only if the given
	// session token is still present in the user's live token set. The
	// token membership check is part of the lookup predicate: a revoked
	// token yields ErrUserNotFound exactly like an unknown user.
	GetByIDWithToken(ctx context.Context, id uuid.UUID, token string) (*domain.User, error)

	// Update modifies an existing user's profile fields and hashed
	// password. It does not touch the token set; token mutations go
	// through AppendToken/RemoveToken/ClearTokens so concurrent sessions
	// on other devices are not lost.
	// Returns ErrUserNotFound if the user does not exist.
	// Returns ErrEmailExists if updating to an email that already exists.
	Update(ctx context.Context, user *domain.User) error

	// UpdateAvatar replaces the user's stored avatar bytes. A nil avatar
	// clears it.
	UpdateAvatar(ctx context.Context, id uuid.UUID, avatar []byte) error

	// AppendToken adds a session token to the user's live token set in a
	// single statement against the latest persisted row.
	AppendToken(ctx context.Context, id uuid.UUID, token string) error

	// RemoveToken removes a matching token from the user's live token
	// set. Removing a token that is not present is a no-op.
	RemoveToken(ctx context.Context, id uuid.UUID, token string) error

	// ClearTokens empties the user's token set in one atomic update,
	// invalidating every outstanding session.
	ClearTokens(ctx context.Context, id uuid.UUID) error

	// Delete removes a user from the store by their ID.
	// Returns ErrUserNotFound if the user does not exist.
	// This operation is permanent and cannot be undone.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new UserStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller
	// (typically a service).
	WithTx(tx *sql.Tx) UserStore
}
