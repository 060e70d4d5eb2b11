package customerr

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("already exists")
)

// ValidationError describes a rejected input field.
type ValidationError struct {
	Field   string
	Message string
	Allowed []string
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	if len(e.Allowed) > 0 {
		msg += ". Valid values are: " + strings.Join(e.Allowed, ", ")
	}
	return msg
}

func Invalid(field, message string, allowed ...string) error {
	return &ValidationError{Field: field, Message: message, Allowed: allowed}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
