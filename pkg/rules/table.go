package rules

import (
	"regexp"
	"sort"
	"strings"
	"sync"
)

// Built-in rule names.
const (
	RuleAbsoluteURL = "ABSOLUTE_URL"
	RuleEmail       = "EMAIL"
	RuleNumber      = "NUMBER"
)

// Matcher reports whether a value satisfies a format rule. *regexp.Regexp
// implements it.
type Matcher interface {
	MatchString(value string) bool
}

// MatcherFunc adapts a plain function into a Matcher.
type MatcherFunc func(value string) bool

// MatchString implements Matcher.
func (fn MatcherFunc) MatchString(value string) bool {
	return fn(value)
}

var (
	// ABSOLUTE_URL accepts anything. It is a hook for hosts that want a real
	// URL check, not a check in itself.
	absoluteURLRule = regexp.MustCompile(`^.*$`)
	emailRule       = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$")
	// Digits with an optional all-zero fraction; "1.5" is deliberately rejected.
	numberRule = regexp.MustCompile(`^\d+(\.0+)?$`)
)

// Table maps rule names to matchers and message kinds to templates. The zero
// value is not usable; construct with New or Default.
type Table struct {
	mu       sync.RWMutex
	rules    map[string]Matcher
	messages map[MessageKind]string
}

// New returns an empty table.
func New() *Table {
	return &Table{
		rules:    make(map[string]Matcher),
		messages: make(map[MessageKind]string),
	}
}

// Default returns a table seeded with the built-in rules and English
// messages. Every call returns an independent copy.
func Default() *Table {
	t := New()
	t.rules[RuleAbsoluteURL] = absoluteURLRule
	t.rules[RuleEmail] = emailRule
	t.rules[RuleNumber] = numberRule
	for kind, tpl := range defaultMessages {
		t.messages[kind] = tpl
	}
	return t
}

// RegisterRule inserts or overwrites the matcher stored under name. Empty
// names and nil matchers are ignored.
func (t *Table) RegisterRule(name string, matcher Matcher) {
	if t == nil || matcher == nil {
		return
	}
	key := strings.TrimSpace(name)
	if key == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rules[key] = matcher
}

// RegisterMessage inserts or overwrites the template for kind.
func (t *Table) RegisterMessage(kind MessageKind, template string) {
	if t == nil {
		return
	}
	key := MessageKind(strings.TrimSpace(string(kind)))
	if key == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages[key] = template
}

// Rules registers every entry of the supplied map.
func (t *Table) Rules(rules map[string]Matcher) {
	for name, matcher := range rules {
		t.RegisterRule(name, matcher)
	}
}

// Messages registers every entry of the supplied map.
func (t *Table) Messages(messages map[MessageKind]string) {
	for kind, tpl := range messages {
		t.RegisterMessage(kind, tpl)
	}
}

// Rule looks up a matcher by name.
func (t *Table) Rule(name string) (Matcher, bool) {
	if t == nil {
		return nil, false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	m, ok := t.rules[name]
	return m, ok
}

// Message looks up a template by kind.
func (t *Table) Message(kind MessageKind) (string, bool) {
	if t == nil {
		return "", false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	tpl, ok := t.messages[kind]
	return tpl, ok
}

// RuleNames returns the registered rule names sorted alphabetically.
func (t *Table) RuleNames() []string {
	if t == nil {
		return nil
	}
	t.mu.RLock()
	names := make([]string, 0, len(t.rules))
	for name := range t.rules {
		names = append(names, name)
	}
	t.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Clone returns an independent copy of the table.
func (t *Table) Clone() *Table {
	out := New()
	if t == nil {
		return out
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	for name, m := range t.rules {
		out.rules[name] = m
	}
	for kind, tpl := range t.messages {
		out.messages[kind] = tpl
	}
	return out
}

// Merge copies every entry of other into t; entries from other win.
func (t *Table) Merge(other *Table) {
	if t == nil || other == nil || t == other {
		return
	}
	snapshot := other.Clone()
	t.mu.Lock()
	defer t.mu.Unlock()
	for name, m := range snapshot.rules {
		t.rules[name] = m
	}
	for kind, tpl := range snapshot.messages {
		t.messages[kind] = tpl
	}
}
