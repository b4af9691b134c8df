package document

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/goliatone/go-h5f/pkg/engine"
	"github.com/goliatone/go-h5f/pkg/field"
	"github.com/goliatone/go-h5f/pkg/form"
	"github.com/goliatone/go-h5f/pkg/rules"
)

// Markers read from, or written to, the bound root element.
const (
	AttrImmediate  = "data-h5f-immediate"
	AttrNoValidate = "data-h5f-novalidate"
	AttrBound      = "data-h5f-bound"
	AttrNative     = "novalidate"
)

// ErrAlreadyBound is returned when Bind is called twice for the same root.
var ErrAlreadyBound = errors.New("document: root already bound")

// Config holds binding defaults.
type Config struct {
	Immediate bool
	Rules     *rules.Table
	Logger    *slog.Logger
}

// Option configures Bind.
type Option func(*Config)

// WithImmediate sets the immediate mode default; roots may override it with
// data-h5f-immediate.
func WithImmediate(immediate bool) Option {
	return func(c *Config) {
		c.Immediate = immediate
	}
}

// WithRules selects the rule table shared by bound aggregates.
func WithRules(table *rules.Table) Option {
	return func(c *Config) {
		c.Rules = table
	}
}

// WithLogger sets the logger handed to bound aggregates.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// Payload accompanies h5f:valid and h5f:invalid notifications.
type Payload struct {
	State   *form.FieldState
	Outcome engine.Outcome
}

// Bound is the result of binding one root.
type Bound struct {
	Root Element
	Form *form.Aggregate
	// Listening is false when the root opted out with data-h5f-novalidate.
	Listening bool
	// Elements maps field names to their elements in document order.
	Elements map[string][]Element
}

type entry struct {
	name    string
	grouped bool
	members []Element
}

// Bind discovers the named inputs below root, registers a field for each and
// installs the validation listeners. Descriptor configuration errors are
// returned together, before any listener is installed.
func Bind(b Binding, root Element, options ...Option) (*Bound, error) {
	if b == nil {
		return nil, errors.New("document: binding is nil")
	}
	cfg := Config{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	if _, ok := b.Attribute(root, AttrBound); ok {
		return nil, ErrAlreadyBound
	}

	immediate := resolveImmediate(b, root, cfg.Immediate)
	entries := collect(b, root)

	bound := &Bound{
		Root:     root,
		Elements: make(map[string][]Element, len(entries)),
	}
	agg := form.New(
		form.WithImmediate(immediate),
		form.WithRules(cfg.Rules),
		form.WithLogger(cfg.Logger),
		form.WithNotifier(form.NotifierFunc(func(state *form.FieldState, outcome engine.Outcome) {
			members := bound.Elements[state.Name()]
			if len(members) == 0 {
				return
			}
			event := NotifyInvalid
			if outcome.Result.Valid {
				event = NotifyValid
			}
			b.Notify(members[0], event, Payload{State: state, Outcome: outcome})
		})),
	)
	bound.Form = agg

	var errs []error
	for _, e := range entries {
		desc, err := describe(b, e)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if _, err := agg.Register(desc, valueSource(b, e)); err != nil {
			errs = append(errs, err)
			continue
		}
		bound.Elements[e.name] = e.members
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("document: bind: %w", err)
	}
	b.SetAttribute(root, AttrBound, "true")
	b.SetAttribute(root, AttrNative, "")

	if _, ok := b.Attribute(root, AttrNoValidate); ok {
		cfg.Logger.Debug("validation disabled by markup", "fields", len(entries))
		return bound, nil
	}

	if immediate {
		for _, e := range entries {
			name := e.name
			event := EventBlur
			if e.grouped {
				event = EventChange
			}
			for _, el := range e.members {
				b.Subscribe(el, event, func(*Event) {
					_, _ = agg.Validate(name)
				})
			}
		}
	}

	b.Subscribe(root, EventSubmit, func(ev *Event) {
		if decision := agg.Submit(); !decision.Allowed {
			ev.PreventDefault()
			ev.StopImmediatePropagation()
		}
	})
	bound.Listening = true
	return bound, nil
}

// BindAll binds every root, skipping roots that are already bound.
func BindAll(b Binding, roots []Element, options ...Option) ([]*Bound, error) {
	out := make([]*Bound, 0, len(roots))
	for _, root := range roots {
		bound, err := Bind(b, root, options...)
		if errors.Is(err, ErrAlreadyBound) {
			continue
		}
		if err != nil {
			return out, err
		}
		out = append(out, bound)
	}
	return out, nil
}

func resolveImmediate(b Binding, root Element, fallback bool) bool {
	raw, ok := b.Attribute(root, AttrImmediate)
	if !ok {
		return fallback
	}
	switch strings.TrimSpace(raw) {
	case "true":
		return true
	case "false":
		return false
	default:
		return fallback
	}
}

// collect groups discovered elements by name in document order. Group
// controls gather every same-named group control; for other controls the
// first element wins.
func collect(b Binding, root Element) []*entry {
	var ordered []*entry
	byName := make(map[string]*entry)
	for _, el := range b.Discover(root) {
		if !eligible(b, el) {
			continue
		}
		name, _ := b.Attribute(el, field.AttrName)
		if name == "" {
			continue
		}
		typ, _ := b.Attribute(el, field.AttrType)
		grouped := b.Tag(el) == "input" && field.IsGroupControl(typ)

		if existing, ok := byName[name]; ok {
			if existing.grouped && grouped {
				existing.members = append(existing.members, el)
			}
			continue
		}
		e := &entry{name: name, grouped: grouped, members: []Element{el}}
		byName[name] = e
		ordered = append(ordered, e)
	}
	return ordered
}

// Selects, hidden inputs and buttons carry no user input to validate.
func eligible(b Binding, el Element) bool {
	switch b.Tag(el) {
	case "select", "button":
		return false
	case "input":
		typ, _ := b.Attribute(el, field.AttrType)
		switch strings.ToLower(strings.TrimSpace(typ)) {
		case "hidden", "submit", "reset", "button", "image":
			return false
		}
	}
	return true
}

func describe(b Binding, e *entry) (field.Descriptor, error) {
	if e.grouped {
		members := make([]field.Attributes, 0, len(e.members))
		for _, el := range e.members {
			members = append(members, elementAttributes{b: b, el: el})
		}
		return field.FromGroup(e.name, members)
	}
	el := e.members[0]
	return field.FromAttributes(b.Tag(el), elementAttributes{b: b, el: el})
}

func valueSource(b Binding, e *entry) form.ValueFunc {
	if !e.grouped {
		el := e.members[0]
		return func() string { return b.Value(el) }
	}
	members := e.members
	return func() string {
		for _, el := range members {
			if b.Checked(el) {
				return b.Value(el)
			}
		}
		return ""
	}
}

type elementAttributes struct {
	b  Binding
	el Element
}

func (a elementAttributes) Attribute(name string) (string, bool) {
	return a.b.Attribute(a.el, name)
}
