package form

import (
	"github.com/goliatone/go-h5f/pkg/engine"
	"github.com/goliatone/go-h5f/pkg/field"
)

// ValueFunc reads the current raw value of a field. For grouped fields it
// returns the checked member's value or "".
type ValueFunc func() string

// FieldState is the mutable validation state of one registered field.
type FieldState struct {
	owner          *Aggregate
	desc           field.Descriptor
	source         ValueFunc
	value          string
	result         engine.Result
	validatedOnce  bool
	countedInvalid bool
}

func newFieldState(owner *Aggregate, desc field.Descriptor, source ValueFunc) *FieldState {
	return &FieldState{
		owner:  owner,
		desc:   desc,
		source: source,
		result: engine.Pass(),
	}
}

// Name returns the field name.
func (s *FieldState) Name() string {
	return s.desc.Name
}

// Descriptor returns the field's declared constraints.
func (s *FieldState) Descriptor() field.Descriptor {
	return s.desc
}

// Result returns the latest validation result.
func (s *FieldState) Result() engine.Result {
	return s.result
}

// Valid reports whether the latest validation passed.
func (s *FieldState) Valid() bool {
	return s.result.Valid
}

// Message returns the message of the latest validation, "" when valid.
func (s *FieldState) Message() string {
	return s.result.Message
}

// Validated reports whether the field has been validated since it was last
// invalidated by a deferred-mode submission.
func (s *FieldState) Validated() bool {
	return s.validatedOnce
}

// Counted reports whether the field currently contributes to the aggregate's
// invalid count.
func (s *FieldState) Counted() bool {
	return s.countedInvalid
}

// Value reads the field's current value, from its source when one was
// registered and from SetValue otherwise.
func (s *FieldState) Value() string {
	if s.source != nil {
		return s.source()
	}
	return s.value
}

// SetValue stores a value for fields registered without a source.
func (s *FieldState) SetValue(value string) {
	s.value = value
}

func (s *FieldState) reset() {
	s.result = engine.Pass()
}
