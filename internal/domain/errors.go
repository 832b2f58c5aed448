package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors. Handlers map these to HTTP status codes; everything
// else is treated as a storage failure and surfaced as a generic 500.
var (
	// ErrInvalidCredentials covers both "unknown email" and "wrong
	// password" so login failures cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrForbidden means authenticated but lacking the required role.
	ErrForbidden = errors.New("forbidden")

	// ErrDuplicateEmail means the email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrUserNotFound is returned by directory lookups.
	ErrUserNotFound = errors.New("user not found")

	// ErrTradeNotFound is returned by ledger lookups.
	ErrTradeNotFound = errors.New("trade not found")

	// ErrSessionNotFound covers absent, expired and tampered sessions.
	ErrSessionNotFound = errors.New("session not found")

	// ErrInsufficientCredit rejects a buy exceeding available credit.
	ErrInsufficientCredit = errors.New("insufficient available credit")
)

// ValidationError reports malformed or missing input. Its message is
// safe to return to the client.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a ValidationError for a field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
