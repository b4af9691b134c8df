package field

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/goliatone/go-h5f/pkg/rules"
)

// rulePattern matches a pattern that refers to a named rule, e.g. "{{ZIP}}".
var rulePattern = regexp.MustCompile(`^\s*\{\{\s*([A-Z_]+)\s*\}\}\s*$`)

// Descriptor is the declared constraint set of one logical field. Build it
// with New (or the attribute helpers) so patterns are checked up front.
type Descriptor struct {
	Name string
	Kind Kind
	// Control is the raw type attribute ("radio", "date", ...) kept for
	// diagnostics.
	Control   string
	Required  bool
	MinLength *int
	MaxLength *int
	Min       *float64
	Max       *float64
	// Pattern is either a regular expression source matched against the
	// whole value or a {{RULE}} reference into the rule table.
	Pattern string
	// Members counts the elements behind a grouped field.
	Members int

	literal *regexp.Regexp
	ruleRef string
}

// Option configures a Descriptor during New.
type Option func(*Descriptor)

// Required marks the field as required.
func Required() Option {
	return WithRequired(true)
}

// WithRequired sets the required flag explicitly.
func WithRequired(required bool) Option {
	return func(d *Descriptor) {
		d.Required = required
	}
}

// MinLength declares a minimum value length.
func MinLength(n int) Option {
	return func(d *Descriptor) {
		d.MinLength = &n
	}
}

// MaxLength declares a maximum value length.
func MaxLength(n int) Option {
	return func(d *Descriptor) {
		d.MaxLength = &n
	}
}

// Min declares a numeric lower bound.
func Min(v float64) Option {
	return func(d *Descriptor) {
		d.Min = &v
	}
}

// Max declares a numeric upper bound.
func Max(v float64) Option {
	return func(d *Descriptor) {
		d.Max = &v
	}
}

// Pattern declares a pattern source or {{RULE}} reference.
func Pattern(expr string) Option {
	return func(d *Descriptor) {
		d.Pattern = expr
	}
}

// Control records the raw control type.
func Control(typ string) Option {
	return func(d *Descriptor) {
		d.Control = strings.ToLower(strings.TrimSpace(typ))
	}
}

// Members records how many elements share a grouped field.
func Members(n int) Option {
	return func(d *Descriptor) {
		d.Members = n
	}
}

// New builds a descriptor and compiles its pattern. Malformed patterns and
// negative lengths fail here rather than during evaluation.
func New(name string, kind Kind, options ...Option) (Descriptor, error) {
	d := Descriptor{
		Name: strings.TrimSpace(name),
		Kind: kind,
	}
	for _, opt := range options {
		if opt != nil {
			opt(&d)
		}
	}
	if d.Kind == "" {
		d.Kind = KindUnknown
	}
	if err := d.compile(); err != nil {
		return Descriptor{}, err
	}
	return d, nil
}

// MustNew is like New but panics on error. Intended for static declarations
// and tests.
func MustNew(name string, kind Kind, options ...Option) Descriptor {
	d, err := New(name, kind, options...)
	if err != nil {
		panic(err)
	}
	return d
}

func (d *Descriptor) compile() error {
	if d.Name == "" {
		return ErrEmptyName
	}
	if d.MinLength != nil && *d.MinLength < 0 {
		return fmt.Errorf("field: %s minlength %d: %w", d.Name, *d.MinLength, ErrInvalidBounds)
	}
	if d.MaxLength != nil && *d.MaxLength < 0 {
		return fmt.Errorf("field: %s maxlength %d: %w", d.Name, *d.MaxLength, ErrInvalidBounds)
	}

	ref, re, err := compilePattern(d.Pattern)
	if err != nil {
		return fmt.Errorf("field: %s pattern %q: %w: %v", d.Name, d.Pattern, ErrInvalidPattern, err)
	}
	d.ruleRef, d.literal = ref, re
	return nil
}

func compilePattern(expr string) (string, *regexp.Regexp, error) {
	if expr == "" {
		return "", nil, nil
	}
	if match := rulePattern.FindStringSubmatch(expr); match != nil {
		return match[1], nil, nil
	}
	re, err := regexp.Compile(`^(?:` + expr + `)$`)
	if err != nil {
		return "", nil, err
	}
	return "", re, nil
}

// Check verifies the pattern compiles and that a {{RULE}} reference resolves
// in table.
func (d Descriptor) Check(table *rules.Table) error {
	ref := d.ruleRef
	if ref == "" && d.literal == nil && d.Pattern != "" {
		var err error
		if ref, _, err = compilePattern(d.Pattern); err != nil {
			return fmt.Errorf("field: %s pattern %q: %w: %v", d.Name, d.Pattern, ErrInvalidPattern, err)
		}
	}
	if ref == "" {
		return nil
	}
	if _, ok := table.Rule(ref); !ok {
		return fmt.Errorf("field: %s pattern %q: %w", d.Name, d.Pattern, ErrUnknownRule)
	}
	return nil
}

// RuleRef returns the rule name referenced by the pattern, if any.
func (d Descriptor) RuleRef() string {
	if d.ruleRef != "" {
		return d.ruleRef
	}
	if match := rulePattern.FindStringSubmatch(d.Pattern); match != nil {
		return match[1]
	}
	return ""
}

// PatternMatcher resolves the pattern against table. Rule references are
// looked up on every call so later registrations take effect. The boolean is
// false when no pattern applies. Descriptors built without New are compiled
// on demand; a pattern that does not compile never matches.
func (d Descriptor) PatternMatcher(table *rules.Table) (rules.Matcher, bool) {
	if d.Pattern == "" {
		return nil, false
	}
	ref, re := d.ruleRef, d.literal
	if ref == "" && re == nil {
		var err error
		ref, re, err = compilePattern(d.Pattern)
		if err != nil {
			return neverMatch, true
		}
	}
	if ref != "" {
		return table.Rule(ref)
	}
	return re, true
}

var neverMatch = rules.MatcherFunc(func(string) bool { return false })
