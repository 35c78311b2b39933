package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/phrazzld/tasker-api/internal/domain"
	"github.com/phrazzld/tasker-api/internal/service"
)

// MockUserService implements service.UserManager for testing
type MockUserService struct {
	// Function fields for customizable behavior
	RegisterFn          func(ctx context.Context, name, email string, age int, password string) (*domain.User, error)
	FindByCredentialsFn func(ctx context.Context, email, password string) (*domain.User, error)
	GetUserFn           func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	UpdateProfileFn     func(ctx context.Context, user *domain.User, patch service.ProfileUpdate) (*domain.User, error)
	DeleteUserFn        func(ctx context.Context, user *domain.User) error
	UpdateAvatarFn      func(ctx context.Context, user *domain.User, avatar []byte) error
	GetAvatarFn         func(ctx context.Context, userID uuid.UUID) ([]byte, error)

	// Default values used when functions aren't explicitly defined
	User   *domain.User
	Avatar []byte
	Err    error
}

// Register implements the service.UserManager interface
func (m *MockUserService) Register(
	ctx context.Context,
	name, email string,
	age int,
	password string,
) (*domain.User, error) {
	if m.RegisterFn != nil {
		return m.RegisterFn(ctx, name, email, age, password)
	}
	return m.User, m.Err
}

// FindByCredentials implements the service.UserManager interface
func (m *MockUserService) FindByCredentials(
	ctx context.Context,
	email, password string,
) (*domain.User, error) {
	if m.FindByCredentialsFn != nil {
		return m.FindByCredentialsFn(ctx, email, password)
	}
	return m.User, m.Err
}

// GetUser implements the service.UserManager interface
func (m *MockUserService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if m.GetUserFn != nil {
		return m.GetUserFn(ctx, userID)
	}
	return m.User, m.Err
}

// UpdateProfile implements the service.UserManager interface
func (m *MockUserService) UpdateProfile(
	ctx context.Context,
	user *domain.User,
	patch service.ProfileUpdate,
) (*domain.User, error) {
	if m.UpdateProfileFn != nil {
		return m.UpdateProfileFn(ctx, user, patch)
	}
	if m.User != nil {
		return m.User, m.Err
	}
	return user, m.Err
}

// DeleteUser implements the service.UserManager interface
func (m *MockUserService) DeleteUser(ctx context.Context, user *domain.User) error {
	if m.DeleteUserFn != nil {
		return m.DeleteUserFn(ctx, user)
	}
	return m.Err
}

// UpdateAvatar implements the service.UserManager interface
func (m *MockUserService) UpdateAvatar(
	ctx context.Context,
	user *domain.User,
	avatar []byte,
) error {
	if m.UpdateAvatarFn != nil {
		return m.UpdateAvatarFn(ctx, user, avatar)
	}
	return m.Err
}

// GetAvatar implements the service.UserManager interface
func (m *MockUserService) GetAvatar(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	if m.GetAvatarFn != nil {
		return m.GetAvatarFn(ctx, userID)
	}
	return m.Avatar, m.Err
}
