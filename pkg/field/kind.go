package field

import "strings"

// Kind is the closed set of input kinds the engine knows how to evaluate.
type Kind string

const (
	KindText     Kind = "text"
	KindSearch   Kind = "search"
	KindTel      Kind = "tel"
	KindURL      Kind = "url"
	KindEmail    Kind = "email"
	KindPassword Kind = "password"
	KindTextarea Kind = "textarea"
	KindNumber   Kind = "number"
	// KindGrouped covers radio and checkbox sets sharing one name.
	KindGrouped Kind = "grouped"
	KindUnknown Kind = "unknown"
)

// TextLike reports whether the kind is subject to length, format and pattern
// checks.
func (k Kind) TextLike() bool {
	switch k {
	case KindText, KindSearch, KindTel, KindURL, KindEmail, KindPassword, KindTextarea:
		return true
	default:
		return false
	}
}

// KindFor maps an element tag and its type attribute to a Kind. An input
// without a type attribute is a text input.
func KindFor(tag, typ string) Kind {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "textarea":
		return KindTextarea
	case "input":
	default:
		return KindUnknown
	}

	control := strings.ToLower(strings.TrimSpace(typ))
	if control == "" {
		return KindText
	}
	if IsGroupControl(control) {
		return KindGrouped
	}
	switch kind := Kind(control); kind {
	case KindText, KindSearch, KindTel, KindURL, KindEmail, KindPassword, KindNumber:
		return kind
	default:
		return KindUnknown
	}
}

// IsGroupControl reports whether the input type shares its value across all
// same-named elements.
func IsGroupControl(typ string) bool {
	switch strings.ToLower(strings.TrimSpace(typ)) {
	case "radio", "checkbox":
		return true
	default:
		return false
	}
}
