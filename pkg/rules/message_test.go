package rules

import (
	"strings"
	"testing"
)

func TestRender_SubstitutesPlaceholder(t *testing.T) {
	table := Default()

	cases := []struct {
		kind  MessageKind
		param any
		want  string
	}{
		{LengthSmallerThanMinimum, 5, "The length is smaller than 5."},
		{LengthBiggerThanMaximum, 10, "The length is bigger than 10."},
		{Underflow, 10.0, "The number is smaller than 10."},
		{Overflow, 20.5, "The number is bigger than 20.5."},
		{CouldNotBeEmpty, 3, "Could not be empty."},
		{NotAnEmail, nil, "Not an E-mail"},
	}

	for _, tc := range cases {
		if got := table.Render(tc.kind, tc.param); got != tc.want {
			t.Fatalf("Render(%s): expected %q, got %q", tc.kind, tc.want, got)
		}
	}
}

func TestRender_ReplacesEveryOccurrence(t *testing.T) {
	table := Default()
	table.RegisterMessage(LengthSmallerThanMinimum, "min {{MINLENGTH}} / {{ MINLENGTH }} / {{MAX}}")

	got := table.Render(LengthSmallerThanMinimum, 5)
	if got != "min 5 / 5 / {{MAX}}" {
		t.Fatalf("unexpected render %q", got)
	}
}

func TestRender_ParamSubstitutedOnce(t *testing.T) {
	got := Default().Render(LengthSmallerThanMinimum, 5)
	if strings.Count(got, "5") != 1 {
		t.Fatalf("expected parameter exactly once, got %q", got)
	}
}

func TestRender_UnknownKindIsSilent(t *testing.T) {
	if got := Default().Render("NOPE", 1); got != "" {
		t.Fatalf("expected empty render for unknown kind, got %q", got)
	}
}

func TestPlaceholder(t *testing.T) {
	if Placeholder(Underflow) != "MIN" || Placeholder(InvalidValue) != "" {
		t.Fatalf("unexpected placeholder mapping")
	}
}
