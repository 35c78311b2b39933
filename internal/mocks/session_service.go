package mocks

import (
	"context"

	"github.com/phrazzld/tasker-api/internal/domain"
)

// MockSessionService implements auth.SessionService for testing
type MockSessionService struct {
	// Function fields for customizable behavior
	IssueTokenFn func(ctx context.Context, user *domain.User) (string, error)
	RevokeFn     func(ctx context.Context, user *domain.User, token string) error
	RevokeAllFn  func(ctx context.Context, user *domain.User) error

	// Default values used when functions aren't explicitly defined
	Token string
	Err   error

	// Call tracking for verification
	RevokedTokens  []string
	RevokeAllCount int
}

// IssueToken implements the auth.SessionService interface
func (m *MockSessionService) IssueToken(ctx context.Context, user *domain.User) (string, error) {
	if m.IssueTokenFn != nil {
		return m.IssueTokenFn(ctx, user)
	}
	return m.Token, m.Err
}

// Revoke implements the auth.SessionService interface
func (m *MockSessionService) Revoke(ctx context.Context, user *domain.User, token string) error {
	m.RevokedTokens = append(m.RevokedTokens, token)
	if m.RevokeFn != nil {
		return m.RevokeFn(ctx, user, token)
	}
	return m.Err
}

// RevokeAll implements the auth.SessionService interface
func (m *MockSessionService) RevokeAll(ctx context.Context, user *domain.User) error {
	m.RevokeAllCount++
	if m.RevokeAllFn != nil {
		return m.RevokeAllFn(ctx, user)
	}
	return m.Err
}
