// Package htmldoc is an in-memory document.Binding over an HTML tree parsed
// with golang.org/x/net/html. Values and checked states start from the markup
// and can be changed through Fill, SetChecked and SetValue. Fill also dispatches
// the blur and change events a browser would.
package htmldoc

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/goliatone/go-h5f/pkg/document"
)

// Notification records a Notify call.
type Notification struct {
	Target  *html.Node
	Event   string
	Payload any
}

// Document implements document.Binding.
type Document struct {
	root      *html.Node
	values    map[*html.Node]string
	checked   map[*html.Node]bool
	listeners map[*html.Node]map[string][]document.Handler
	notified  []Notification
	onNotify  func(Notification)
}

var _ document.Binding = (*Document)(nil)

// ErrNotElement is returned when a handle is not an element of the document.
var ErrNotElement = errors.New("htmldoc: not an element")

// Parse reads an HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return &Document{
		root:      root,
		values:    make(map[*html.Node]string),
		checked:   make(map[*html.Node]bool),
		listeners: make(map[*html.Node]map[string][]document.Handler),
	}, nil
}

// ParseString reads an HTML document from a string.
func ParseString(markup string) (*Document, error) {
	return Parse(strings.NewReader(markup))
}

// OnNotify registers a callback invoked for every notification.
func (d *Document) OnNotify(fn func(Notification)) {
	d.onNotify = fn
}

// Notifications returns the notifications recorded so far.
func (d *Document) Notifications() []Notification {
	return append([]Notification(nil), d.notified...)
}

// Forms returns every form element in document order.
func (d *Document) Forms() []document.Element {
	var out []document.Element
	walk(d.root, func(n *html.Node) {
		if n.DataAtom == atom.Form {
			out = append(out, n)
		}
	})
	return out
}

// Form returns the form with the given id or name attribute.
func (d *Document) Form(key string) (document.Element, bool) {
	for _, el := range d.Forms() {
		n := el.(*html.Node)
		if attr(n, "id") == key || attr(n, "name") == key {
			return n, true
		}
	}
	return nil, false
}

// Named returns the elements below root whose name attribute equals name.
func (d *Document) Named(root document.Element, name string) []*html.Node {
	var out []*html.Node
	for _, el := range d.Discover(root) {
		n := el.(*html.Node)
		if attr(n, "name") == name {
			out = append(out, n)
		}
	}
	return out
}

// Discover implements document.Binding.
func (d *Document) Discover(root document.Element) []document.Element {
	start := node(root)
	if start == nil {
		return nil
	}
	var out []document.Element
	for c := start.FirstChild; c != nil; c = c.NextSibling {
		walk(c, func(n *html.Node) {
			if _, ok := lookup(n, "name"); ok {
				out = append(out, n)
			}
		})
	}
	return out
}

// Tag implements document.Binding.
func (d *Document) Tag(el document.Element) string {
	n := node(el)
	if n == nil {
		return ""
	}
	return strings.ToLower(n.Data)
}

// Attribute implements document.Binding.
func (d *Document) Attribute(el document.Element, name string) (string, bool) {
	n := node(el)
	if n == nil {
		return "", false
	}
	return lookup(n, name)
}

// SetAttribute implements document.Binding.
func (d *Document) SetAttribute(el document.Element, name, value string) {
	n := node(el)
	if n == nil {
		return
	}
	key := strings.ToLower(name)
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: value})
}

// Value implements document.Binding. Without an explicit value, textareas
// read their text content and checkable inputs default to "on".
func (d *Document) Value(el document.Element) string {
	n := node(el)
	if n == nil {
		return ""
	}
	if v, ok := d.values[n]; ok {
		return v
	}
	if n.DataAtom == atom.Textarea {
		return textContent(n)
	}
	if v, ok := lookup(n, "value"); ok {
		return v
	}
	if isCheckable(n) {
		return "on"
	}
	return ""
}

// Checked implements document.Binding.
func (d *Document) Checked(el document.Element) bool {
	n := node(el)
	if n == nil {
		return false
	}
	if v, ok := d.checked[n]; ok {
		return v
	}
	_, ok := lookup(n, "checked")
	return ok
}

// Subscribe implements document.Binding.
func (d *Document) Subscribe(el document.Element, event string, handler document.Handler) {
	n := node(el)
	if n == nil || handler == nil {
		return
	}
	if d.listeners[n] == nil {
		d.listeners[n] = make(map[string][]document.Handler)
	}
	d.listeners[n][event] = append(d.listeners[n][event], handler)
}

// Notify implements document.Binding.
func (d *Document) Notify(el document.Element, event string, payload any) {
	n := node(el)
	note := Notification{Target: n, Event: event, Payload: payload}
	d.notified = append(d.notified, note)
	if d.onNotify != nil {
		d.onNotify(note)
	}
}

// Dispatch delivers an event to the handlers subscribed on el.
func (d *Document) Dispatch(el document.Element, kind string) *document.Event {
	ev := &document.Event{Kind: kind, Target: el}
	n := node(el)
	if n == nil {
		return ev
	}
	for _, handler := range d.listeners[n][kind] {
		handler(ev)
		if ev.Stopped() {
			break
		}
	}
	return ev
}

// SetValue stores a value without dispatching events.
func (d *Document) SetValue(el document.Element, value string) error {
	n := node(el)
	if n == nil {
		return ErrNotElement
	}
	d.values[n] = value
	return nil
}

// SetChecked changes the checked state. Checking a radio unchecks the other
// radios sharing its name inside the same form.
func (d *Document) SetChecked(el document.Element, checked bool) error {
	n := node(el)
	if n == nil {
		return ErrNotElement
	}
	if checked && strings.EqualFold(attr(n, "type"), "radio") {
		if owner := closestForm(n); owner != nil {
			for _, other := range d.Named(owner, attr(n, "name")) {
				if other != n && strings.EqualFold(attr(other, "type"), "radio") {
					d.checked[other] = false
				}
			}
		}
	}
	d.checked[n] = checked
	return nil
}

// Fill sets the value of the named field below root the way a user would.
// Text-like inputs get the value followed by a blur event; for radio and
// checkbox groups the member whose value matches is checked and a change
// event is dispatched ("" unchecks every member).
func (d *Document) Fill(root document.Element, name, value string) error {
	members := d.Named(root, name)
	if len(members) == 0 {
		return errors.New("htmldoc: no element named " + name)
	}
	first := members[0]
	if !isCheckable(first) {
		if err := d.SetValue(first, value); err != nil {
			return err
		}
		d.Dispatch(first, document.EventBlur)
		return nil
	}

	var target *html.Node
	for _, m := range members {
		if value != "" && isCheckable(m) && d.Value(m) == value {
			target = m
			break
		}
	}
	if value != "" && target == nil {
		return errors.New("htmldoc: no option " + value + " for " + name)
	}
	for _, m := range members {
		if isCheckable(m) {
			_ = d.SetChecked(m, false)
		}
	}
	if target == nil {
		d.Dispatch(first, document.EventChange)
		return nil
	}
	_ = d.SetChecked(target, true)
	d.Dispatch(target, document.EventChange)
	return nil
}

// Choices returns the member values of a radio or checkbox group.
func (d *Document) Choices(root document.Element, name string) []string {
	var out []string
	for _, m := range d.Named(root, name) {
		if isCheckable(m) {
			out = append(out, d.Value(m))
		}
	}
	return out
}

// Submit dispatches a submit event on the form and reports whether the
// submission went through.
func (d *Document) Submit(formEl document.Element) bool {
	return !d.Dispatch(formEl, document.EventSubmit).DefaultPrevented()
}

func node(el document.Element) *html.Node {
	n, ok := el.(*html.Node)
	if !ok || n == nil || (n.Type != html.ElementNode && n.Type != html.DocumentNode) {
		return nil
	}
	return n
}

func walk(n *html.Node, fn func(*html.Node)) {
	if n.Type == html.ElementNode {
		fn(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func lookup(n *html.Node, name string) (string, bool) {
	key := strings.ToLower(name)
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func attr(n *html.Node, name string) string {
	v, _ := lookup(n, name)
	return v
}

func isCheckable(n *html.Node) bool {
	if n.DataAtom != atom.Input {
		return false
	}
	switch strings.ToLower(attr(n, "type")) {
	case "radio", "checkbox":
		return true
	default:
		return false
	}
}

func closestForm(n *html.Node) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.DataAtom == atom.Form {
			return p
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}
