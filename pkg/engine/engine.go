package engine

import (
	"errors"
	"strconv"
	"strings"

	"github.com/goliatone/go-h5f/pkg/field"
	"github.com/goliatone/go-h5f/pkg/rules"
)

type evaluator func(e *Engine, d field.Descriptor, value string) Result

// Engine evaluates descriptors against a shared rule table. It holds no
// per-field state.
type Engine struct {
	rules    *rules.Table
	dispatch map[field.Kind]evaluator
}

// New returns an engine reading rules and messages from table. A nil table
// means rules.Default().
func New(table *rules.Table) *Engine {
	if table == nil {
		table = rules.Default()
	}
	e := &Engine{rules: table}
	e.dispatch = map[field.Kind]evaluator{
		field.KindText:     evaluateText,
		field.KindSearch:   evaluateText,
		field.KindTel:      evaluateText,
		field.KindURL:      evaluateText,
		field.KindEmail:    evaluateText,
		field.KindPassword: evaluateText,
		field.KindTextarea: evaluateText,
		field.KindNumber:   evaluateNumber,
		field.KindGrouped:  evaluateGrouped,
		field.KindUnknown:  evaluateUnknown,
	}
	return e
}

// Rules exposes the table the engine reads from.
func (e *Engine) Rules() *rules.Table {
	return e.rules
}

// Evaluate runs every applicable check for d against value. For grouped
// fields value is the checked member's value, or "" when none is checked.
func (e *Engine) Evaluate(d field.Descriptor, value string) Result {
	if d.Required && strings.TrimSpace(value) == "" {
		return e.fail(rules.CouldNotBeEmpty, nil)
	}
	eval, ok := e.dispatch[d.Kind]
	if !ok {
		eval = evaluateUnknown
	}
	return eval(e, d, value)
}

func (e *Engine) fail(kind rules.MessageKind, param any) Result {
	return Result{
		Valid:   false,
		Message: e.rules.Render(kind, param),
		Kind:    kind,
	}
}

func (e *Engine) matches(rule, value string) bool {
	matcher, ok := e.rules.Rule(rule)
	if !ok || matcher == nil {
		return false
	}
	return matcher.MatchString(value)
}

func evaluateText(e *Engine, d field.Descriptor, value string) Result {
	length := Length(value)
	if d.MinLength != nil && length < *d.MinLength {
		return e.fail(rules.LengthSmallerThanMinimum, *d.MinLength)
	}
	if d.MaxLength != nil && length > *d.MaxLength {
		return e.fail(rules.LengthBiggerThanMaximum, *d.MaxLength)
	}

	switch d.Kind {
	case field.KindURL:
		if !e.matches(rules.RuleAbsoluteURL, value) {
			return e.fail(rules.NotAnAbsoluteURL, nil)
		}
	case field.KindEmail:
		if !e.matches(rules.RuleEmail, value) {
			return e.fail(rules.NotAnEmail, nil)
		}
	}

	if d.Pattern == "" {
		return Pass()
	}
	matcher, ok := d.PatternMatcher(e.rules)
	if !ok || matcher == nil || !matcher.MatchString(value) {
		return e.fail(rules.InvalidValue, nil)
	}
	return Pass()
}

func evaluateNumber(e *Engine, d field.Descriptor, value string) Result {
	if !e.matches(rules.RuleNumber, value) {
		return e.fail(rules.NotANumber, nil)
	}
	// Out of range values parse to ±Inf and still meet the bounds.
	n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		// A host supplied NUMBER rule accepted it; no bound can apply.
		return Pass()
	}
	if d.Min != nil && n < *d.Min {
		return e.fail(rules.Underflow, *d.Min)
	}
	if d.Max != nil && n > *d.Max {
		return e.fail(rules.Overflow, *d.Max)
	}
	return Pass()
}

func evaluateGrouped(_ *Engine, _ field.Descriptor, _ string) Result {
	return Pass()
}

// Unknown kinds fail closed so unsupported controls never pass silently.
func evaluateUnknown(e *Engine, _ field.Descriptor, _ string) Result {
	return e.fail(rules.UnknownInputType, nil)
}

// Length counts value in UTF-16 code units, the unit document models use
// for minlength and maxlength.
func Length(value string) int {
	n := 0
	for _, r := range value {
		if r >= 0x10000 {
			n += 2
			continue
		}
		n++
	}
	return n
}
