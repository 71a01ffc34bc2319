// Package validation holds the client-side input checks that run before any
// write reaches the remote store: required-field trimming and the password
// length floor.
package validation

import (
	"fmt"
	"strings"

	"github.com/sidworks/gp/internal/auth"
)

// ValidationError reports a rejected input. It names the field so callers
// can point the user at what to fix.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Required checks that value has non-whitespace content and returns the
// trimmed form. Whitespace-only input is rejected, not silently stored.
func Required(field, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", &ValidationError{Field: field, Reason: "is required"}
	}
	return trimmed, nil
}

// Optional trims value; empty is fine.
func Optional(value string) string {
	return strings.TrimSpace(value)
}

// Credential checks the password length floor shared with the auth
// collaborator so bad sign-ups fail before a network round trip.
func Credential(password string) error {
	if len(password) < auth.MinPasswordLen {
		return &ValidationError{
			Field:  "password",
			Reason: fmt.Sprintf("must be at least %d characters", auth.MinPasswordLen),
		}
	}
	return nil
}

// Email does a minimal shape check; the collaborator is the authority on
// deliverability.
func Email(value string) (string, error) {
	trimmed, err := Required("email", value)
	if err != nil {
		return "", err
	}
	at := strings.Index(trimmed, "@")
	if at <= 0 || at == len(trimmed)-1 {
		return "", &ValidationError{Field: "email", Reason: "is not a valid address"}
	}
	return trimmed, nil
}
