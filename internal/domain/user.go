package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common validation errors. Each wraps ErrValidation so that callers can
// classify them with errors.Is.
var (
	ErrEmptyUserID         = fmt.Errorf("%w: user ID cannot be empty", ErrValidation)
	ErrEmptyName           = fmt.Errorf("%w: name cannot be empty", ErrValidation)
	ErrEmptyEmail          = fmt.Errorf("%w: email cannot be empty", ErrValidation)
	ErrInvalidEmail        = fmt.Errorf("%w: invalid email format", ErrValidation)
	ErrNegativeAge         = fmt.Errorf("%w: age must be a positive number", ErrValidation)
	ErrEmptyPassword       = fmt.Errorf("%w: password cannot be empty", ErrValidation)
	ErrPasswordTooShort    = fmt.Errorf("%w: password must be at least 7 characters long", ErrValidation)
	ErrPasswordForbidden   = fmt.Errorf("%w: password cannot contain the word %q", ErrValidation, "password")
	ErrEmptyHashedPassword = fmt.Errorf("%w: hashed password cannot be empty", ErrValidation)
)

// User represents a registered user of the task tracker.
// Tokens holds the user's live session token set: every signed token
// currently accepted by the authentication gate. Password carries the
// plaintext only transiently, between request decoding and hashing, and
// is never persisted or serialized.
type User struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Age            int       `json:"age"`
	Password       string    `json:"-"` // Plaintext, present only during registration/updates
	HashedPassword string    `json:"-"` // Never expose the hash in JSON
	Tokens         []string  `json:"-"` // Live session tokens, never serialized
	Avatar         []byte    `json:"-"` // Raw avatar bytes, served separately
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a new User with the given profile fields and plaintext
// password. It generates a new UUID, normalizes the email, and sets the
// creation/update timestamps. Returns an error if validation fails.
//
// NOTE: The caller is responsible for hashing the password before the
// user is stored; this function only validates it.
func NewUser(name, email string, age int, password string) (*User, error) {
	user := &User{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		Email:     NormalizeEmail(email),
		Age:       age,
		Password:  password,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// NormalizeEmail trims surrounding whitespace and lowercases an email
// address. All email comparisons and storage go through this form so that
// the uniqueness constraint is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Name == "" {
		return ErrEmptyName
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if !validEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	if u.Age < 0 {
		return ErrNegativeAge
	}

	// When a plaintext password is present it is about to be hashed, so
	// validate it; otherwise the user must already carry a hash (the case
	// for users loaded from the database).
	if u.Password != "" {
		return ValidatePassword(u.Password)
	}
	if u.HashedPassword == "" {
		return ErrEmptyHashedPassword
	}

	return nil
}

// ValidatePassword applies the password acceptance rules: at least 7
// characters and never containing the word "password" in any casing.
func ValidatePassword(password string) error {
	if password == "" {
		return ErrEmptyPassword
	}
	if len(password) < 7 {
		return ErrPasswordTooShort
	}
	if strings.Contains(strings.ToLower(password), "password") {
		return ErrPasswordForbidden
	}
	return nil
}

// validEmailFormat performs basic validation of email format.
// Returns true if the email appears to be in a valid format.
func validEmailFormat(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return false
	}
	if strings.ContainsAny(email, " \t") {
		return false
	}

	// The domain part needs an interior dot.
	domain := email[at+1:]
	dot := strings.IndexByte(domain, '.')
	return dot > 0 && dot < len(domain)-1
}
