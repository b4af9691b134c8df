package form

import (
	"log/slog"

	"github.com/goliatone/go-h5f/pkg/engine"
	"github.com/goliatone/go-h5f/pkg/rules"
)

// Notifier receives the outcome of every validation pass together with the
// field state it concerns. It is the hook a presentation layer listens on.
type Notifier interface {
	Notify(state *FieldState, outcome engine.Outcome)
}

// NotifierFunc adapts a function into a Notifier.
type NotifierFunc func(state *FieldState, outcome engine.Outcome)

// Notify implements Notifier.
func (fn NotifierFunc) Notify(state *FieldState, outcome engine.Outcome) {
	fn(state, outcome)
}

// Option configures an Aggregate.
type Option func(*Aggregate)

// WithImmediate toggles immediate mode. When enabled, fields are validated
// as they are edited and submission only revalidates fields that were never
// validated; otherwise every field is revalidated at submission.
func WithImmediate(immediate bool) Option {
	return func(a *Aggregate) {
		a.immediate = immediate
	}
}

// WithRules selects the rule table. Defaults to rules.Default().
func WithRules(table *rules.Table) Option {
	return func(a *Aggregate) {
		if table != nil {
			a.engine = engine.New(table)
		}
	}
}

// WithEngine shares an existing engine between aggregates.
func WithEngine(eng *engine.Engine) Option {
	return func(a *Aggregate) {
		if eng != nil {
			a.engine = eng
		}
	}
}

// WithNotifier registers the outcome listener.
func WithNotifier(n Notifier) Option {
	return func(a *Aggregate) {
		a.notifier = n
	}
}

// WithLogger routes debug traces of validation passes to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregate) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithName labels the aggregate in logs.
func WithName(name string) Option {
	return func(a *Aggregate) {
		a.name = name
	}
}
