package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/phrazzld/tasker-api/internal/api/shared"
	"github.com/phrazzld/tasker-api/internal/domain"
)

// RespondWithJSON forwards to shared.RespondWithJSON for use within this package.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	shared.RespondWithJSON(w, r, status, data)
}

// RespondWithError forwards to shared.RespondWithError for use within this package.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, message string) {
	shared.RespondWithError(w, r, status, message)
}

// DecodeJSON decodes the request body into the given struct.
func DecodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// DecodePatch decodes a PATCH body into its raw fields and rejects any
// field outside the allowed set. The whitelist check runs before any
// value is interpreted, so an update naming a forbidden field (such as a
// task's owner) fails fast without partial application.
func DecodePatch(r *http.Request, allowed map[string]bool) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		return nil, fmt.Errorf("%w: malformed JSON body", domain.ErrValidation)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: update body cannot be empty", domain.ErrValidation)
	}

	for field := range fields {
		if !allowed[field] {
			return nil, fmt.Errorf("%w: %q", domain.ErrDisallowedField, field)
		}
	}

	return fields, nil
}

// UnmarshalField decodes a single raw PATCH field into out, mapping a
// type mismatch to a validation error naming the field.
func UnmarshalField(fields map[string]json.RawMessage, name string, out interface{}) error {
	raw, ok := fields[name]
	if !ok {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: invalid value for %q", domain.ErrValidation, name)
	}
	return nil
}
