package prompt

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("prompt: aborted")
	// ErrNilForm is returned when a session is created without an aggregate.
	ErrNilForm = errors.New("prompt: form aggregate is nil")
	// ErrTooManyAttempts is returned when a field stays invalid after the
	// configured number of attempts.
	ErrTooManyAttempts = errors.New("prompt: too many invalid attempts")
)
