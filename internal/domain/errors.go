// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is the root of every validation failure. Specific
	// validation errors wrap it so callers can classify them with
	// errors.Is without enumerating each one.
	ErrValidation = errors.New("validation failed")

	// ErrDisallowedField is returned when an update contains a field that
	// is not in the allowed set for the entity being updated.
	ErrDisallowedField = fmt.Errorf("%w: field is not allowed in this update", ErrValidation)
)
