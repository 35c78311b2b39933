package postgres

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/tasker-api/internal/domain"
	"github.com/phrazzld/tasker-api/internal/store"
)

// isIntegrationTestEnvironment returns true if the environment is
// configured for running integration tests against a migrated database.
func isIntegrationTestEnvironment() bool {
	return os.Getenv("DATABASE_URL") != ""
}

// withTestTx runs fn inside a transaction that is always rolled back, so
// integration tests never leave rows behind.
func withTestTx(t *testing.T, fn func(tx *sql.Tx)) {
	t.Helper()

	db, err := sql.Open("pgx", os.Getenv("DATABASE_URL"))
	require.NoError(t, err, "Failed to open database connection")
	defer func() {
		if err := db.Close(); err != nil {
			t.Logf("Error closing database connection: %v", err)
		}
	}()

	tx, err := db.Begin()
	require.NoError(t, err, "Failed to begin transaction")
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			t.Logf("Error rolling back transaction: %v", err)
		}
	}()

	fn(tx)
}

func insertTestUser(t *testing.T, s *PostgresUserStore, email string) *domain.User {
	t.Helper()

	user, err := domain.NewUser("Test User", email, 30, "longenough")
	require.NoError(t, err)
	user.HashedPassword = "hashed:longenough"
	user.Password = ""

	require.NoError(t, s.Create(context.Background(), user))
	return user
}

func TestPostgresUserStore_Integration(t *testing.T) {
	if !isIntegrationTestEnvironment() {
		t.Skip("Skipping integration test - DATABASE_URL environment variable required")
	}

	ctx := context.Background()

	t.Run("create and read back", func(t *testing.T) {
		withTestTx(t, func(tx *sql.Tx) {
			s := NewPostgresUserStore(tx, nil)
			user := insertTestUser(t, s, "create@example.com")

			got, err := s.GetByID(ctx, user.ID)
			require.NoError(t, err)
			assert.Equal(t, user.Email, got.Email)
			assert.Equal(t, "hashed:longenough", got.HashedPassword)
			assert.Empty(t, got.Tokens, "a new user starts with no sessions")

			byEmail, err := s.GetByEmail(ctx, "create@example.com")
			require.NoError(t, err)
			assert.Equal(t, user.ID, byEmail.ID)
		})
	})

	t.Run("duplicate email", func(t *testing.T) {
		withTestTx(t, func(tx *sql.Tx) {
			s := NewPostgresUserStore(tx, nil)
			insertTestUser(t, s, "dup@example.com")

			second, err := domain.NewUser("Other", "dup@example.com", 20, "longenough")
			require.NoError(t, err)
			second.HashedPassword = "hashed:longenough"
			second.Password = ""

			err = s.Create(ctx, second)
			assert.ErrorIs(t, err, store.ErrEmailExists)
		})
	})

	t.Run("token set lifecycle", func(t *testing.T) {
		withTestTx(t, func(tx *sql.Tx) {
			s := NewPostgresUserStore(tx, nil)
			user := insertTestUser(t, s, "tokens@example.com")

			require.NoError(t, s.AppendToken(ctx, user.ID, "token-a"))
			require.NoError(t, s.AppendToken(ctx, user.ID, "token-b"))

			// Scoped lookup only matches live tokens.
			got, err := s.GetByIDWithToken(ctx, user.ID, "token-a")
			require.NoError(t, err)
			assert.ElementsMatch(t, []string{"token-a", "token-b"}, got.Tokens)

			_, err = s.GetByIDWithToken(ctx, user.ID, "token-c")
			assert.ErrorIs(t, err, store.ErrUserNotFound)

			// Removing one token keeps the rest.
			require.NoError(t, s.RemoveToken(ctx, user.ID, "token-a"))
			_, err = s.GetByIDWithToken(ctx, user.ID, "token-a")
			assert.ErrorIs(t, err, store.ErrUserNotFound)
			_, err = s.GetByIDWithToken(ctx, user.ID, "token-b")
			assert.NoError(t, err)

			// Clearing removes everything.
			require.NoError(t, s.ClearTokens(ctx, user.ID))
			_, err = s.GetByIDWithToken(ctx, user.ID, "token-b")
			assert.ErrorIs(t, err, store.ErrUserNotFound)
		})
	})

	t.Run("update leaves tokens alone", func(t *testing.T) {
		withTestTx(t, func(tx *sql.Tx) {
			s := NewPostgresUserStore(tx, nil)
			user := insertTestUser(t, s, "update@example.com")
			require.NoError(t, s.AppendToken(ctx, user.ID, "survivor"))

			user.Name = "Renamed"
			require.NoError(t, s.Update(ctx, user))

			got, err := s.GetByID(ctx, user.ID)
			require.NoError(t, err)
			assert.Equal(t, "Renamed", got.Name)
			assert.Equal(t, []string{"survivor"}, got.Tokens,
				"profile updates must not rewrite the token set")
		})
	})

	t.Run("avatar round trip", func(t *testing.T) {
		withTestTx(t, func(tx *sql.Tx) {
			s := NewPostgresUserStore(tx, nil)
			user := insertTestUser(t, s, "avatar@example.com")

			data := []byte{0x89, 0x50, 0x4e, 0x47}
			require.NoError(t, s.UpdateAvatar(ctx, user.ID, data))

			got, err := s.GetByID(ctx, user.ID)
			require.NoError(t, err)
			assert.Equal(t, data, got.Avatar)

			require.NoError(t, s.UpdateAvatar(ctx, user.ID, nil))
			got, err = s.GetByID(ctx, user.ID)
			require.NoError(t, err)
			assert.Empty(t, got.Avatar)
		})
	})

	t.Run("delete", func(t *testing.T) {
		withTestTx(t, func(tx *sql.Tx) {
			s := NewPostgresUserStore(tx, nil)
			user := insertTestUser(t, s, "delete@example.com")

			require.NoError(t, s.Delete(ctx, user.ID))
			_, err := s.GetByID(ctx, user.ID)
			assert.ErrorIs(t, err, store.ErrUserNotFound)

			assert.ErrorIs(t, s.Delete(ctx, uuid.New()), store.ErrUserNotFound)
		})
	})
}
