package form

import (
	"fmt"
	"log/slog"

	"github.com/goliatone/go-h5f/pkg/engine"
	"github.com/goliatone/go-h5f/pkg/field"
)

// Aggregate is an ordered collection of field states with an incrementally
// maintained invalid count.
type Aggregate struct {
	name      string
	engine    *engine.Engine
	immediate bool
	notifier  Notifier
	logger    *slog.Logger

	sequence     []string
	fields       map[string]*FieldState
	invalidCount int
}

// Decision is the verdict of the submission gate.
type Decision struct {
	Allowed      bool
	InvalidCount int
	// Invalid lists the invalid field names in declaration order.
	Invalid []string
}

// New creates an empty aggregate.
func New(options ...Option) *Aggregate {
	a := &Aggregate{
		fields: make(map[string]*FieldState),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range options {
		if opt != nil {
			opt(a)
		}
	}
	if a.engine == nil {
		a.engine = engine.New(nil)
	}
	return a
}

// Name returns the aggregate label.
func (a *Aggregate) Name() string { return a.name }

// Immediate reports whether immediate mode is enabled.
func (a *Aggregate) Immediate() bool { return a.immediate }

// Engine returns the engine used for evaluation.
func (a *Aggregate) Engine() *engine.Engine { return a.engine }

// InvalidCount returns the number of fields currently flagged invalid.
func (a *Aggregate) InvalidCount() int { return a.invalidCount }

// Register adds a field. source may be nil, in which case values are supplied
// through FieldState.SetValue. Registering an existing name keeps the first
// registration and returns it along with ErrDuplicateField. A pattern that
// references an unregistered rule is rejected.
func (a *Aggregate) Register(desc field.Descriptor, source ValueFunc) (*FieldState, error) {
	if desc.Name == "" {
		return nil, field.ErrEmptyName
	}
	if existing, ok := a.fields[desc.Name]; ok {
		return existing, fmt.Errorf("%w: %s", ErrDuplicateField, desc.Name)
	}
	if err := desc.Check(a.engine.Rules()); err != nil {
		return nil, err
	}

	state := newFieldState(a, desc, source)
	a.fields[desc.Name] = state
	a.sequence = append(a.sequence, desc.Name)
	return state, nil
}

// Field returns the state registered under name.
func (a *Aggregate) Field(name string) (*FieldState, bool) {
	state, ok := a.fields[name]
	return state, ok
}

// Names returns field names in declaration order.
func (a *Aggregate) Names() []string {
	return append([]string(nil), a.sequence...)
}

// Fields returns field states in declaration order.
func (a *Aggregate) Fields() []*FieldState {
	out := make([]*FieldState, 0, len(a.sequence))
	for _, name := range a.sequence {
		out = append(out, a.fields[name])
	}
	return out
}

// Validate runs a validation pass for the named field and reports whether
// it is valid.
func (a *Aggregate) Validate(name string) (bool, error) {
	state, ok := a.fields[name]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	return a.ValidateField(state)
}

// ValidateField runs a validation pass for state: reset, mark validated,
// evaluate, adjust the invalid count and notify.
func (a *Aggregate) ValidateField(state *FieldState) (bool, error) {
	if state == nil || state.owner != a {
		return false, ErrForeignField
	}

	state.reset()
	state.validatedOnce = true
	state.result = a.engine.Evaluate(state.desc, state.Value())

	switch {
	case state.result.Valid && state.countedInvalid:
		a.invalidCount--
		state.countedInvalid = false
	case !state.result.Valid && !state.countedInvalid:
		a.invalidCount++
		state.countedInvalid = true
	}

	a.logger.Debug("field validated",
		"form", a.name,
		"field", state.desc.Name,
		"valid", state.result.Valid,
		"message", state.result.Message,
		"invalid_count", a.invalidCount,
	)

	if a.notifier != nil {
		a.notifier.Notify(state, engine.Outcome{Field: state.desc.Name, Result: state.result})
	}
	return state.result.Valid, nil
}

// Changed is called by bindings when a field's value was edited (change for
// grouped controls, blur for the others). It validates only in immediate
// mode and otherwise reports the last known validity.
func (a *Aggregate) Changed(name string) (bool, error) {
	state, ok := a.fields[name]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	if !a.immediate {
		return state.result.Valid, nil
	}
	return a.ValidateField(state)
}

// Submit runs the submission gate. Every field is revalidated in declaration
// order, except that in immediate mode fields already validated by earlier
// edits are left alone. The submission is allowed only when no field is
// invalid afterwards.
func (a *Aggregate) Submit() Decision {
	for _, name := range a.sequence {
		state := a.fields[name]
		if !a.immediate {
			state.validatedOnce = false
		}
		if !state.validatedOnce {
			_, _ = a.ValidateField(state)
		}
	}

	decision := Decision{
		Allowed:      a.invalidCount == 0,
		InvalidCount: a.invalidCount,
	}
	for _, name := range a.sequence {
		if a.fields[name].countedInvalid {
			decision.Invalid = append(decision.Invalid, name)
		}
	}

	a.logger.Debug("submission gated",
		"form", a.name,
		"allowed", decision.Allowed,
		"invalid_count", decision.InvalidCount,
	)
	return decision
}

// Errors returns the current message of every invalid field keyed by name.
func (a *Aggregate) Errors() map[string]string {
	if a.invalidCount == 0 {
		return nil
	}
	out := make(map[string]string, a.invalidCount)
	for _, name := range a.sequence {
		if state := a.fields[name]; state.countedInvalid {
			out[name] = state.result.Message
		}
	}
	return out
}

// Err returns a ValidationError describing the invalid fields, or nil.
func (a *Aggregate) Err() error {
	if a.invalidCount == 0 {
		return nil
	}
	var out ValidationError
	for _, name := range a.sequence {
		state := a.fields[name]
		if !state.countedInvalid {
			continue
		}
		out = append(out, FieldError{
			Field:   name,
			Message: state.result.Message,
			Kind:    state.result.Kind,
		})
	}
	return out
}
