package store

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a mutation targets a record that
	// does not exist in the store.
	ErrNotFound = errors.New("record not found")

	// ErrEmailTaken is returned when a sign-up uses an email that
	// already belongs to a registered user.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned when a sign-in fails. The
	// message is deliberately the same for unknown email and wrong
	// password.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationError reports the fields of a draft record that failed
// validation. It is returned by Create and Update before anything is
// persisted.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid record"
	}
	return fmt.Sprintf("invalid record: %s", strings.Join(e.Fields, ", "))
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
