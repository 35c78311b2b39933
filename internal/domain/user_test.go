package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewUser(t *testing.T) {
	user, err := NewUser("Alice", "Alice@Example.com ", 30, "longenough")

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if user.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if user.Email != "alice@example.com" {
		t.Errorf("Expected normalized email alice@example.com, got %s", user.Email)
	}

	if user.Name != "Alice" {
		t.Errorf("Expected name Alice, got %s", user.Name)
	}

	if user.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}

	if user.UpdatedAt.IsZero() {
		t.Error("Expected non-zero UpdatedAt time")
	}

	// Invalid inputs
	if _, err := NewUser("", "alice@example.com", 30, "longenough"); err != ErrEmptyName {
		t.Errorf("Expected error %v, got %v", ErrEmptyName, err)
	}

	if _, err := NewUser("Alice", "", 30, "longenough"); err != ErrEmptyEmail {
		t.Errorf("Expected error %v, got %v", ErrEmptyEmail, err)
	}

	if _, err := NewUser("Alice", "invalidemail", 30, "longenough"); err != ErrInvalidEmail {
		t.Errorf("Expected error %v, got %v", ErrInvalidEmail, err)
	}

	if _, err := NewUser("Alice", "alice@example.com", -1, "longenough"); err != ErrNegativeAge {
		t.Errorf("Expected error %v, got %v", ErrNegativeAge, err)
	}
}

func TestUserValidate(t *testing.T) {
	validUser := User{
		ID:             uuid.New(),
		Name:           "Alice",
		Email:          "alice@example.com",
		HashedPassword: "hashedpassword123",
	}

	if err := validUser.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	invalidUser := validUser
	invalidUser.ID = uuid.Nil
	if err := invalidUser.Validate(); err != ErrEmptyUserID {
		t.Errorf("Expected error %v, got %v", ErrEmptyUserID, err)
	}

	invalidUser = validUser
	invalidUser.Name = ""
	if err := invalidUser.Validate(); err != ErrEmptyName {
		t.Errorf("Expected error %v, got %v", ErrEmptyName, err)
	}

	invalidUser = validUser
	invalidUser.Email = "no-at-sign"
	if err := invalidUser.Validate(); err != ErrInvalidEmail {
		t.Errorf("Expected error %v, got %v", ErrInvalidEmail, err)
	}

	// Loaded users carry a hash and no plaintext; dropping both is invalid.
	invalidUser = validUser
	invalidUser.HashedPassword = ""
	if err := invalidUser.Validate(); err != ErrEmptyHashedPassword {
		t.Errorf("Expected error %v, got %v", ErrEmptyHashedPassword, err)
	}

	// A transient plaintext password is validated instead of the hash.
	plaintextUser := validUser
	plaintextUser.HashedPassword = ""
	plaintextUser.Password = "longenough"
	if err := plaintextUser.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{name: "valid", password: "1234567", wantErr: nil},
		{name: "empty", password: "", wantErr: ErrEmptyPassword},
		{name: "too short", password: "123456", wantErr: ErrPasswordTooShort},
		{name: "contains password", password: "mypassword1", wantErr: ErrPasswordForbidden},
		{name: "contains password mixed case", password: "myPassWord1", wantErr: ErrPasswordForbidden},
		{name: "long and clean", password: "correct horse battery staple", wantErr: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidatePassword(tt.password); err != tt.wantErr {
				t.Errorf("ValidatePassword(%q) = %v, want %v", tt.password, err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Alice@Example.COM", "alice@example.com"},
		{"  bob@example.com  ", "bob@example.com"},
		{"already@lower.case", "already@lower.case"},
	}

	for _, tt := range tests {
		if got := NormalizeEmail(tt.in); got != tt.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
