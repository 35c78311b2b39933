package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasker-api/internal/domain"
	"github.com/phrazzld/tasker-api/internal/platform/logger"
	"github.com/phrazzld/tasker-api/internal/store"
)

// userColumns is the select list shared by every user lookup so each
// query hydrates the same fields.
const userColumns = "id, name, email, age, hashed_password, tokens, avatar, created_at, updated_at"

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
//
// The tokens column is a jsonb array of signed token strings. Token
// mutations (append/remove/clear) run as single UPDATE statements against
// the latest persisted row, so a token issued concurrently from another
// device is never lost to a stale in-process copy. Competing updates to
// the same token set are last-writer-wins.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the
// UserStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// WithTx returns a new PostgresUserStore bound to the given transaction.
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.UserStore.Create
// It saves a new user, mapping a unique violation on the email column to
// store.ErrEmailExists.
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}
	if user.HashedPassword == "" {
		return fmt.Errorf("%w: user has no hashed password", store.ErrInvalidEntity)
	}

	tokens, err := marshalTokens(user.Tokens)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO users (id, name, email, age, hashed_password, tokens, avatar, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.Name,
		user.Email,
		user.Age,
		user.HashedPassword,
		tokens,
		nullableBytes(user.Avatar),
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("email already exists",
				slog.String("email", user.Email))
			return fmt.Errorf("%w: %v", store.ErrEmailExists, err)
		}

		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return MapError(err)
	}

	log.Info("user created successfully",
		slog.String("user_id", user.ID.String()))
	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE id = $1", userColumns)
	return s.getOne(ctx, query, id)
}

// GetByEmail implements store.UserStore.GetByEmail
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE email = $1", userColumns)
	return s.getOne(ctx, query, domain.NormalizeEmail(email))
}

// GetByIDWithToken implements store.UserStore.GetByIDWithToken
// The token membership check rides in the WHERE clause so that a revoked
// token and an unknown user produce the same ErrUserNotFound.
func (s *PostgresUserStore) GetByIDWithToken(
	ctx context.Context,
	id uuid.UUID,
	token string,
) (*domain.User, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM users WHERE id = $1 AND tokens @> to_jsonb($2::text)",
		userColumns,
	)
	return s.getOne(ctx, query, id, token)
}

// getOne runs a single-row user query and hydrates the domain.User.
func (s *PostgresUserStore) getOne(
	ctx context.Context,
	query string,
	args ...any,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var (
		user      domain.User
		tokensRaw []byte
		avatar    []byte
	)

	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Age,
		&user.HashedPassword,
		&tokensRaw,
		&avatar,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to query user", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	if err := json.Unmarshal(tokensRaw, &user.Tokens); err != nil {
		return nil, fmt.Errorf("failed to decode token set: %w", err)
	}
	user.Avatar = avatar

	return &user, nil
}

// Update implements store.UserStore.Update
// It persists profile fields and the hashed password, leaving the token
// set and avatar untouched.
func (s *PostgresUserStore) Update(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE users
		SET name = $2, email = $3, age = $4, hashed_password = $5, updated_at = $6
		WHERE id = $1
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.Name,
		user.Email,
		user.Age,
		user.HashedPassword,
		time.Now().UTC(),
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: %v", store.ErrEmailExists, err)
		}
		log.Error("failed to update user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrUserNotFound)
}

// UpdateAvatar implements store.UserStore.UpdateAvatar
func (s *PostgresUserStore) UpdateAvatar(ctx context.Context, id uuid.UUID, avatar []byte) error {
	query := `UPDATE users SET avatar = $2, updated_at = $3 WHERE id = $1`
	result, err := s.db.ExecContext(ctx, query, id, nullableBytes(avatar), time.Now().UTC())
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrUserNotFound)
}

// AppendToken implements store.UserStore.AppendToken
// The jsonb concatenation runs against the current row, so tokens issued
// from other devices between read and write are preserved.
func (s *PostgresUserStore) AppendToken(ctx context.Context, id uuid.UUID, token string) error {
	query := `
		UPDATE users
		SET tokens = tokens || to_jsonb($2::text), updated_at = $3
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query, id, token, time.Now().UTC())
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrUserNotFound)
}

// RemoveToken implements store.UserStore.RemoveToken
// Removing a token that is not in the set leaves the set unchanged.
func (s *PostgresUserStore) RemoveToken(ctx context.Context, id uuid.UUID, token string) error {
	query := `
		UPDATE users
		SET tokens = tokens - $2, updated_at = $3
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query, id, token, time.Now().UTC())
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrUserNotFound)
}

// ClearTokens implements store.UserStore.ClearTokens
func (s *PostgresUserStore) ClearTokens(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE users
		SET tokens = '[]'::jsonb, updated_at = $2
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query, id, time.Now().UTC())
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrUserNotFound)
}

// Delete implements store.UserStore.Delete
func (s *PostgresUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete user",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrUserNotFound); err != nil {
		return err
	}

	log.Info("user deleted", slog.String("user_id", id.String()))
	return nil
}

// marshalTokens encodes a token set for the jsonb column. A nil slice is
// stored as an empty array rather than JSON null so the jsonb set
// operators keep working.
func marshalTokens(tokens []string) ([]byte, error) {
	if tokens == nil {
		tokens = []string{}
	}
	data, err := json.Marshal(tokens)
	if err != nil {
		return nil, fmt.Errorf("failed to encode token set: %w", err)
	}
	return data, nil
}

// nullableBytes maps an empty byte slice to SQL NULL.
func nullableBytes(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}
