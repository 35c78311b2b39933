package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JWTService defines operations for signing and verifying session tokens.
// Cryptographic validity alone does not make a token a live session; the
// authentication gate additionally requires membership in the user's
// persisted token set.
type JWTService interface {
	// GenerateToken creates a signed token binding the user's identifier.
	// Returns the token string or an error if signing fails.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken verifies the provided token string's signature and
	// extracts the claims. Returns ErrExpiredToken for an expired token
	// and ErrInvalidToken for anything else that fails verification.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the custom claims structure for the session tokens.
// It extends standard JWT registered claims with application-specific fields.
type Claims struct {
	// UserID is the unique identifier of the user the token was issued for.
	UserID uuid.UUID `json:"uid,omitempty"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
