package mocks

import (
	"context"
	"database/sql"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/phrazzld/tasker-api/internal/domain"
	"github.com/phrazzld/tasker-api/internal/store"
)

// MockUserStore implements store.UserStore for testing
type MockUserStore struct {
	// Function fields for customizable behavior
	CreateFn           func(ctx context.Context, user *domain.User) error
	GetByIDFn          func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmailFn       func(ctx context.Context, email string) (*domain.User, error)
	GetByIDWithTokenFn func(ctx context.Context, id uuid.UUID, token string) (*domain.User, error)
	UpdateFn           func(ctx context.Context, user *domain.User) error
	UpdateAvatarFn     func(ctx context.Context, id uuid.UUID, avatar []byte) error
	AppendTokenFn      func(ctx context.Context, id uuid.UUID, token string) error
	RemoveTokenFn      func(ctx context.Context, id uuid.UUID, token string) error
	ClearTokensFn      func(ctx context.Context, id uuid.UUID) error
	DeleteFn           func(ctx context.Context, id uuid.UUID) error

	// Data for the default in-memory implementation, keyed by user ID.
	mu    sync.Mutex
	Users map[uuid.UUID]*domain.User

	// Call tracking for verification
	DeleteCalls      []uuid.UUID
	ClearTokensCalls []uuid.UUID
}

// NewMockUserStore creates a new mock store with initialized defaults
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{
		Users: make(map[uuid.UUID]*domain.User),
	}
}

// AddUser seeds the in-memory map. Intended for test setup.
func (m *MockUserStore) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Users[user.ID] = user
}

// Create implements the store.UserStore interface
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.Users {
		if existing.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	m.Users[user.ID] = user
	return nil
}

// GetByID implements the store.UserStore interface
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.Users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

// GetByEmail implements the store.UserStore interface
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.Users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// GetByIDWithToken implements the store.UserStore interface
func (m *MockUserStore) GetByIDWithToken(
	ctx context.Context,
	id uuid.UUID,
	token string,
) (*domain.User, error) {
	if m.GetByIDWithTokenFn != nil {
		return m.GetByIDWithTokenFn(ctx, id, token)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.Users[id]
	if !ok || !slices.Contains(user.Tokens, token) {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

// Update implements the store.UserStore interface
func (m *MockUserStore) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, user)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.Users[user.ID]
	if !ok {
		return store.ErrUserNotFound
	}
	// Token mutations go through the dedicated methods, matching the
	// real store's column list.
	tokens := existing.Tokens
	updated := *user
	updated.Tokens = tokens
	m.Users[user.ID] = &updated
	return nil
}

// UpdateAvatar implements the store.UserStore interface
func (m *MockUserStore) UpdateAvatar(ctx context.Context, id uuid.UUID, avatar []byte) error {
	if m.UpdateAvatarFn != nil {
		return m.UpdateAvatarFn(ctx, id, avatar)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.Users[id]
	if !ok {
		return store.ErrUserNotFound
	}
	user.Avatar = avatar
	return nil
}

// AppendToken implements the store.UserStore interface
func (m *MockUserStore) AppendToken(ctx context.Context, id uuid.UUID, token string) error {
	if m.AppendTokenFn != nil {
		return m.AppendTokenFn(ctx, id, token)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.Users[id]
	if !ok {
		return store.ErrUserNotFound
	}
	user.Tokens = append(user.Tokens, token)
	return nil
}

// RemoveToken implements the store.UserStore interface
func (m *MockUserStore) RemoveToken(ctx context.Context, id uuid.UUID, token string) error {
	if m.RemoveTokenFn != nil {
		return m.RemoveTokenFn(ctx, id, token)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.Users[id]
	if !ok {
		return store.ErrUserNotFound
	}
	user.Tokens = slices.DeleteFunc(user.Tokens, func(t string) bool { return t == token })
	return nil
}

// ClearTokens implements the store.UserStore interface
func (m *MockUserStore) ClearTokens(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	m.ClearTokensCalls = append(m.ClearTokensCalls, id)
	m.mu.Unlock()

	if m.ClearTokensFn != nil {
		return m.ClearTokensFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.Users[id]
	if !ok {
		return store.ErrUserNotFound
	}
	user.Tokens = []string{}
	return nil
}

// Delete implements the store.UserStore interface
func (m *MockUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	m.DeleteCalls = append(m.DeleteCalls, id)
	m.mu.Unlock()

	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(m.Users, id)
	return nil
}

// WithTx implements the store.UserStore interface. The mock has no real
// transaction, so it returns itself.
func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}
