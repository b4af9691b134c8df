package engine

import "github.com/goliatone/go-h5f/pkg/rules"

// Event names carried by an Outcome.
const (
	EventValid   = "valid"
	EventInvalid = "invalid"
)

// Result is the outcome of evaluating one field.
type Result struct {
	Valid   bool              `json:"valid"`
	Message string            `json:"message,omitempty"`
	Kind    rules.MessageKind `json:"kind,omitempty"`
}

// Pass is the default, valid result.
func Pass() Result {
	return Result{Valid: true}
}

// Outcome is the typed notification emitted after a field is evaluated. It
// is how a presentation layer learns about results.
type Outcome struct {
	Field  string `json:"field"`
	Result Result `json:"result"`
}

// Event returns EventValid or EventInvalid.
func (o Outcome) Event() string {
	if o.Result.Valid {
		return EventValid
	}
	return EventInvalid
}
