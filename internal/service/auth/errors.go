package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidToken indicates the token format is invalid or signature doesn't match
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrMissingToken indicates a token was expected but not provided
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrBadCredentials is the single undifferentiated failure for a
	// credential check. Unknown email and wrong password both map to it
	// so callers cannot enumerate accounts.
	ErrBadCredentials = errors.New("unable to login")
)
