package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the fixed work factor for password hashing. Raising it
// makes every hash (and login) proportionally more expensive.
const bcryptCost = 10

// PasswordHasher defines the interface for hashing plaintext passwords.
type PasswordHasher interface {
	// Hash derives a salted adaptive hash from the plaintext password.
	// The plaintext is not retained.
	Hash(password string) (string, error)
}

// PasswordVerifier defines the interface for comparing passwords.
type PasswordVerifier interface {
	// Compare compares a hashed password with its possible plaintext equivalent.
	// Returns nil on success, or an error on failure (e.g., mismatch).
	Compare(hashedPassword, password string) error
}

// BcryptPasswordService implements PasswordHasher and PasswordVerifier
// using bcrypt with a fixed cost.
type BcryptPasswordService struct {
	cost int
}

// NewBcryptPasswordService creates a new BcryptPasswordService with the
// standard work factor.
func NewBcryptPasswordService() *BcryptPasswordService {
	return &BcryptPasswordService{cost: bcryptCost}
}

// Hash implements the PasswordHasher interface using bcrypt.
func (s *BcryptPasswordService) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Compare implements the PasswordVerifier interface using bcrypt.
func (s *BcryptPasswordService) Compare(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
