package mocks

import "fmt"

// MockPasswordService implements auth.PasswordHasher and
// auth.PasswordVerifier without paying bcrypt's cost. The default
// behavior prefixes the plaintext, so hashed values stay recognizable in
// test assertions.
type MockPasswordService struct {
	HashFn    func(password string) (string, error)
	CompareFn func(hashedPassword, password string) error

	HashErr    error
	CompareErr error
}

const mockHashPrefix = "hashed:"

// Hash implements the auth.PasswordHasher interface
func (m *MockPasswordService) Hash(password string) (string, error) {
	if m.HashFn != nil {
		return m.HashFn(password)
	}
	if m.HashErr != nil {
		return "", m.HashErr
	}
	return mockHashPrefix + password, nil
}

// Compare implements the auth.PasswordVerifier interface
func (m *MockPasswordService) Compare(hashedPassword, password string) error {
	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if m.CompareErr != nil {
		return m.CompareErr
	}
	if hashedPassword != mockHashPrefix+password {
		return fmt.Errorf("password mismatch")
	}
	return nil
}
