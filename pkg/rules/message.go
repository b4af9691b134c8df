package rules

import (
	"fmt"
	"regexp"
	"strconv"
)

// MessageKind identifies a validation failure and keys its template.
type MessageKind string

const (
	CouldNotBeEmpty          MessageKind = "COULD_NOT_BE_EMPTY"
	UnknownInputType         MessageKind = "UNKNOWN_INPUT_TYPE"
	LengthSmallerThanMinimum MessageKind = "LENGTH_SMALLER_THAN_MINIMUM"
	LengthBiggerThanMaximum  MessageKind = "LENGTH_BIGGER_THAN_MAXIMUM"
	InvalidValue             MessageKind = "INVALID_VALUE"
	NotAnAbsoluteURL         MessageKind = "NOT_AN_ABSOLUTE_URL"
	NotAnEmail               MessageKind = "NOT_AN_EMAIL"
	NotANumber               MessageKind = "NOT_A_NUMBER"
	Underflow                MessageKind = "UNDERFLOW"
	Overflow                 MessageKind = "OVERFLOW"
)

var defaultMessages = map[MessageKind]string{
	CouldNotBeEmpty:          "Could not be empty.",
	UnknownInputType:         "Unknown input type",
	LengthSmallerThanMinimum: "The length is smaller than {{MINLENGTH}}.",
	LengthBiggerThanMaximum:  "The length is bigger than {{MAXLENGTH}}.",
	InvalidValue:             "Invalid value",
	NotAnAbsoluteURL:         "Not an absolute URL",
	NotAnEmail:               "Not an E-mail",
	NotANumber:               "Not a number",
	Underflow:                "The number is smaller than {{MIN}}.",
	Overflow:                 "The number is bigger than {{MAX}}.",
}

var placeholders = func() map[MessageKind]*regexp.Regexp {
	out := make(map[MessageKind]*regexp.Regexp, 4)
	for _, kind := range []MessageKind{LengthSmallerThanMinimum, LengthBiggerThanMaximum, Underflow, Overflow} {
		out[kind] = placeholderPattern(Placeholder(kind))
	}
	return out
}()

func placeholderPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`\{\{\s*` + regexp.QuoteMeta(name) + `\s*\}\}`)
}

// Placeholder returns the placeholder name substituted for kind, or "" when
// the kind carries no parameter.
func Placeholder(kind MessageKind) string {
	switch kind {
	case LengthSmallerThanMinimum:
		return "MINLENGTH"
	case LengthBiggerThanMaximum:
		return "MAXLENGTH"
	case Underflow:
		return "MIN"
	case Overflow:
		return "MAX"
	default:
		return ""
	}
}

// Render returns the template registered for kind with its placeholder
// replaced by param. Kinds without a placeholder return the template as is;
// unknown kinds return "".
func (t *Table) Render(kind MessageKind, param any) string {
	tpl, _ := t.Message(kind)
	re, ok := placeholders[kind]
	if !ok || tpl == "" {
		return tpl
	}
	return re.ReplaceAllLiteralString(tpl, formatParam(param))
}

func formatParam(param any) string {
	switch v := param.(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case *int:
		if v == nil {
			return ""
		}
		return strconv.Itoa(*v)
	case *float64:
		if v == nil {
			return ""
		}
		return strconv.FormatFloat(*v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
