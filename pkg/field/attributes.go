package field

import (
	"math"
	"strconv"
	"strings"
)

// Attribute names read from markup.
const (
	AttrName      = "name"
	AttrType      = "type"
	AttrRequired  = "required"
	AttrMinLength = "minlength"
	AttrMaxLength = "maxlength"
	AttrMin       = "min"
	AttrMax       = "max"
	AttrPattern   = "pattern"
)

// Attributes reads element attributes. The boolean reports presence.
type Attributes interface {
	Attribute(name string) (string, bool)
}

// AttributeMap is a map backed Attributes implementation.
type AttributeMap map[string]string

// Attribute implements Attributes.
func (m AttributeMap) Attribute(name string) (string, bool) {
	value, ok := m[name]
	return value, ok
}

// FromAttributes derives a descriptor from a single element. Group controls
// are treated as a group of one; use FromGroup when all members are known.
func FromAttributes(tag string, attrs Attributes) (Descriptor, error) {
	name, _ := attrs.Attribute(AttrName)
	typ, _ := attrs.Attribute(AttrType)
	kind := KindFor(tag, typ)
	if kind == KindGrouped {
		return FromGroup(name, []Attributes{attrs})
	}

	options := []Option{Control(typ)}
	if _, ok := attrs.Attribute(AttrRequired); ok {
		options = append(options, Required())
	}
	if n, ok := lengthAttr(attrs, AttrMinLength); ok {
		options = append(options, MinLength(n))
	}
	if n, ok := lengthAttr(attrs, AttrMaxLength); ok {
		options = append(options, MaxLength(n))
	}
	if v, ok := numberAttr(attrs, AttrMin); ok {
		options = append(options, Min(v))
	}
	if v, ok := numberAttr(attrs, AttrMax); ok {
		options = append(options, Max(v))
	}
	if pattern, ok := attrs.Attribute(AttrPattern); ok {
		options = append(options, Pattern(pattern))
	}
	return New(name, kind, options...)
}

// FromGroup derives a grouped descriptor from every element sharing name. The
// group is required when any member is.
func FromGroup(name string, members []Attributes) (Descriptor, error) {
	required := false
	control := ""
	for _, member := range members {
		if _, ok := member.Attribute(AttrRequired); ok {
			required = true
		}
		if control == "" {
			control, _ = member.Attribute(AttrType)
		}
	}
	return New(name, KindGrouped, WithRequired(required), Control(control), Members(len(members)))
}

// Invalid length attributes are ignored, as a document would.
func lengthAttr(attrs Attributes, name string) (int, bool) {
	raw, ok := attrs.Attribute(name)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func numberAttr(attrs Attributes, name string) (float64, bool) {
	raw, ok := attrs.Attribute(name)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
