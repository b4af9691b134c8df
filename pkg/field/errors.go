package field

import "errors"

var (
	// ErrEmptyName is returned when a descriptor has no name.
	ErrEmptyName = errors.New("field: name is required")
	// ErrInvalidPattern wraps regular expression compile failures.
	ErrInvalidPattern = errors.New("field: invalid pattern")
	// ErrUnknownRule is returned when a {{NAME}} pattern references a rule
	// that is not registered.
	ErrUnknownRule = errors.New("field: unknown rule reference")
	// ErrInvalidBounds is returned for negative lengths.
	ErrInvalidBounds = errors.New("field: invalid bounds")
)
