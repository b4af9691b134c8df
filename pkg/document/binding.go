package document

// Element is an opaque handle owned by a Binding.
type Element any

// Event kinds a Binding must be able to deliver.
const (
	EventChange = "change"
	EventBlur   = "blur"
	EventSubmit = "submit"
)

// Notification event names emitted after each validation pass.
const (
	NotifyValid   = "h5f:valid"
	NotifyInvalid = "h5f:invalid"
)

// Event is delivered to subscribed handlers.
type Event struct {
	Kind   string
	Target Element

	defaultPrevented bool
	stopped          bool
}

// PreventDefault vetoes the default action (for submit, the submission).
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// StopImmediatePropagation stops delivery to the remaining handlers.
func (e *Event) StopImmediatePropagation() { e.stopped = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// Stopped reports whether StopImmediatePropagation was called.
func (e *Event) Stopped() bool { return e.stopped }

// Handler reacts to a delivered event.
type Handler func(ev *Event)

// Binding is the document collaborator consumed by Bind.
type Binding interface {
	// Discover returns every descendant of root carrying a name attribute,
	// in document order.
	Discover(root Element) []Element
	// Tag returns the lower-case element tag name.
	Tag(el Element) string
	Attribute(el Element, name string) (string, bool)
	SetAttribute(el Element, name, value string)
	Value(el Element) string
	Checked(el Element) bool
	Subscribe(el Element, event string, handler Handler)
	Notify(el Element, event string, payload any)
}
