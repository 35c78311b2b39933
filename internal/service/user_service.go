package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/tasker-api/internal/domain"
	"github.com/phrazzld/tasker-api/internal/service/auth"
	"github.com/phrazzld/tasker-api/internal/store"
)

// ProfileUpdate carries the changed profile fields for UpdateProfile.
// Nil pointers mean "leave unchanged". The HTTP layer is responsible for
// rejecting update payloads containing any other field before building
// one of these.
type ProfileUpdate struct {
	Name     *string
	Email    *string
	Age      *int
	Password *string
}

// UserManager defines the user-facing service surface consumed by the
// HTTP layer: registration, credential checks, profile updates, avatar
// storage, and cascade deletion.
type UserManager interface {
	Register(ctx context.Context, name, email string, age int, password string) (*domain.User, error)
	FindByCredentials(ctx context.Context, email, password string) (*domain.User, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	UpdateProfile(ctx context.Context, user *domain.User, patch ProfileUpdate) (*domain.User, error)
	DeleteUser(ctx context.Context, user *domain.User) error
	UpdateAvatar(ctx context.Context, user *domain.User, avatar []byte) error
	GetAvatar(ctx context.Context, userID uuid.UUID) ([]byte, error)
}

// UserService implements the credential store: registration, credential
// checks, profile updates, avatar storage, and the cascade deletion of a
// user together with their tasks.
type UserService struct {
	userStore store.UserStore
	taskStore store.TaskStore
	hasher    auth.PasswordHasher
	verifier  auth.PasswordVerifier
	db        *sql.DB
	logger    *slog.Logger
}

// Ensure UserService implements UserManager.
var _ UserManager = (*UserService)(nil)

// NewUserService creates a new UserService.
func NewUserService(
	userStore store.UserStore,
	taskStore store.TaskStore,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	db *sql.DB,
	logger *slog.Logger,
) *UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{
		userStore: userStore,
		taskStore: taskStore,
		hasher:    hasher,
		verifier:  verifier,
		db:        db,
		logger:    logger.With("component", "user_service"),
	}
}

// Register validates the registration fields, hashes the password, and
// persists the new user. The plaintext password is dropped as soon as the
// hash is derived; only the hash ever reaches the store.
func (s *UserService) Register(
	ctx context.Context,
	name, email string,
	age int,
	password string,
) (*domain.User, error) {
	user, err := domain.NewUser(name, email, age, password)
	if err != nil {
		s.logger.Debug("registration rejected",
			"error", err,
			"email", email)
		return nil, err
	}

	hashed, err := s.hasher.Hash(user.Password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hashed
	user.Password = ""

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.userStore.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			s.logger.Debug("attempted to register an existing email", "email", user.Email)
		} else {
			s.logger.Error("failed to save user", "error", err)
		}
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return user, nil
}

// FindByCredentials resolves an email/password pair to a user. Both an
// unknown email and a wrong password yield auth.ErrBadCredentials; the
// caller learns nothing about which check failed.
func (s *UserService) FindByCredentials(
	ctx context.Context,
	email, password string,
) (*domain.User, error) {
	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, auth.ErrBadCredentials
		}
		s.logger.Error("failed to look up user by email", "error", err)
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		return nil, auth.ErrBadCredentials
	}

	return user, nil
}

// GetUser retrieves a user by their ID.
func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return user, nil
}

// UpdateProfile applies the changed fields to the user and persists the
// result. The password hash is recomputed only when the patch actually
// carries a password; a save without a password change keeps the stored
// hash byte-for-byte, so repeated saves are idempotent.
func (s *UserService) UpdateProfile(
	ctx context.Context,
	user *domain.User,
	patch ProfileUpdate,
) (*domain.User, error) {
	updated := *user

	if patch.Name != nil {
		updated.Name = *patch.Name
	}
	if patch.Email != nil {
		updated.Email = domain.NormalizeEmail(*patch.Email)
	}
	if patch.Age != nil {
		updated.Age = *patch.Age
	}
	if patch.Password != nil {
		if err := domain.ValidatePassword(*patch.Password); err != nil {
			return nil, err
		}
		hashed, err := s.hasher.Hash(*patch.Password)
		if err != nil {
			s.logger.Error("failed to hash password", "error", err)
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		updated.HashedPassword = hashed
	}

	if err := updated.Validate(); err != nil {
		return nil, err
	}

	if err := s.userStore.Update(ctx, &updated); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			s.logger.Debug("attempted to update to an existing email", "user_id", user.ID)
		} else {
			s.logger.Error("failed to update user", "error", err, "user_id", user.ID)
		}
		return nil, err
	}

	s.logger.Info("user profile updated", "user_id", user.ID)
	return &updated, nil
}

// DeleteUser removes every task owned by the user and then the user
// record itself. Tasks owned by other users are never touched.
//
// This is deliberately a best-effort two-step sequence rather than one
// transaction: a crash between the two deletes can leave a user with no
// tasks (or, were the order reversed, orphaned tasks). The window is an
// accepted limitation of the delete contract.
func (s *UserService) DeleteUser(ctx context.Context, user *domain.User) error {
	if err := s.taskStore.DeleteAllOwned(ctx, user.ID); err != nil {
		s.logger.Error("failed to cascade-delete tasks",
			"error", err,
			"user_id", user.ID)
		return fmt.Errorf("failed to delete user's tasks: %w", err)
	}

	if err := s.userStore.Delete(ctx, user.ID); err != nil {
		s.logger.Error("failed to delete user after task cascade",
			"error", err,
			"user_id", user.ID)
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.Info("user deleted with task cascade", "user_id", user.ID)
	return nil
}

// UpdateAvatar stores the raw avatar bytes for the user.
func (s *UserService) UpdateAvatar(ctx context.Context, user *domain.User, avatar []byte) error {
	if err := s.userStore.UpdateAvatar(ctx, user.ID, avatar); err != nil {
		s.logger.Error("failed to store avatar", "error", err, "user_id", user.ID)
		return fmt.Errorf("failed to store avatar: %w", err)
	}
	user.Avatar = avatar
	return nil
}

// GetAvatar returns the avatar bytes for the given user ID. A missing
// user and a user without an avatar both map to store.ErrNotFound.
func (s *UserService) GetAvatar(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(user.Avatar) == 0 {
		return nil, store.ErrNotFound
	}
	return user.Avatar, nil
}
