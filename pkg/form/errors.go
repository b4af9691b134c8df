package form

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-h5f/pkg/rules"
)

var (
	// ErrDuplicateField is returned when a name is registered twice; the
	// first registration is kept.
	ErrDuplicateField = errors.New("form: duplicate field")
	// ErrUnknownField is returned when a name was never registered.
	ErrUnknownField = errors.New("form: unknown field")
	// ErrForeignField is returned when a FieldState belongs to another
	// aggregate.
	ErrForeignField = errors.New("form: field belongs to another aggregate")
)

// FieldError is one invalid field in a ValidationError.
type FieldError struct {
	Field   string            `json:"field"`
	Message string            `json:"message"`
	Kind    rules.MessageKind `json:"kind,omitempty"`
}

// ValidationError lists the invalid fields of a vetoed submission in
// declaration order.
type ValidationError []FieldError

// Error implements the error interface.
func (e ValidationError) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return fmt.Sprintf("validation error: %s", strings.Join(parts, ", "))
}

// Get returns the message for field, or "".
func (e ValidationError) Get(field string) string {
	for _, fe := range e {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

// Has reports whether field is listed.
func (e ValidationError) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}
