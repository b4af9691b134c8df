package form

import (
	"errors"
	"math/rand"
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-h5f/pkg/engine"
	"github.com/goliatone/go-h5f/pkg/field"
	"github.com/goliatone/go-h5f/pkg/rules"
)

func TestRegister_FirstRegistrationWins(t *testing.T) {
	agg := New()
	first, err := agg.Register(field.MustNew("email", field.KindEmail), nil)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	second, err := agg.Register(field.MustNew("email", field.KindText), nil)
	if !errors.Is(err, ErrDuplicateField) {
		t.Fatalf("expected ErrDuplicateField, got %v", err)
	}
	if second != first || second.Descriptor().Kind != field.KindEmail {
		t.Fatalf("expected first registration to be kept")
	}
	if diff := cmp.Diff([]string{"email"}, agg.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestRegister_RejectsUnknownRuleReference(t *testing.T) {
	agg := New()
	if _, err := agg.Register(field.MustNew("zip", field.KindText, field.Pattern("{{ZIP}}")), nil); !errors.Is(err, field.ErrUnknownRule) {
		t.Fatalf("expected ErrUnknownRule, got %v", err)
	}

	table := rules.Default()
	table.RegisterRule("ZIP", regexp.MustCompile(`^\d{5}$`))
	agg = New(WithRules(table))
	if _, err := agg.Register(field.MustNew("zip", field.KindText, field.Pattern("{{ZIP}}")), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFieldState_Defaults(t *testing.T) {
	agg := New()
	state, _ := agg.Register(field.MustNew("name", field.KindText), nil)
	if !state.Valid() || state.Message() != "" || state.Validated() || state.Counted() {
		t.Fatalf("unexpected default state %+v", state)
	}
	if agg.InvalidCount() != 0 {
		t.Fatalf("expected zero invalid count")
	}
}

func TestValidate_GroupedRequiredRadio(t *testing.T) {
	checked := ""
	agg := New(WithImmediate(true))
	_, err := agg.Register(field.MustNew("color", field.KindGrouped, field.Required(), field.Control("radio")), func() string {
		return checked
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	valid, err := agg.Validate("color")
	if err != nil || valid {
		t.Fatalf("expected invalid without selection (err=%v)", err)
	}
	state, _ := agg.Field("color")
	if state.Message() != "Could not be empty." || agg.InvalidCount() != 1 {
		t.Fatalf("unexpected state message=%q count=%d", state.Message(), agg.InvalidCount())
	}

	checked = "blue"
	valid, _ = agg.Changed("color")
	if !valid || agg.InvalidCount() != 0 {
		t.Fatalf("expected valid after checking a member, count=%d", agg.InvalidCount())
	}
}

func TestValidate_RepeatedFailuresCountOnce(t *testing.T) {
	agg := New()
	state, _ := agg.Register(field.MustNew("email", field.KindEmail), nil)
	state.SetValue("nope")
	for i := 0; i < 3; i++ {
		_, _ = agg.Validate("email")
	}
	if agg.InvalidCount() != 1 {
		t.Fatalf("expected invalid count 1, got %d", agg.InvalidCount())
	}
}

func TestValidate_UnknownAndForeignFields(t *testing.T) {
	agg := New()
	if _, err := agg.Validate("missing"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	other := New()
	state, _ := other.Register(field.MustNew("x", field.KindText), nil)
	if _, err := agg.ValidateField(state); !errors.Is(err, ErrForeignField) {
		t.Fatalf("expected ErrForeignField, got %v", err)
	}
}

func TestSubmit_VetoAndRecovery(t *testing.T) {
	values := map[string]string{
		"name":  "Jane",
		"email": "not-an-email",
		"age":   "250",
		"site":  "https://example.com",
		"bio":   "hello",
	}
	agg := New()
	register := func(d field.Descriptor) {
		t.Helper()
		name := d.Name
		if _, err := agg.Register(d, func() string { return values[name] }); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}
	register(field.MustNew("name", field.KindText, field.Required()))
	register(field.MustNew("email", field.KindEmail, field.Required()))
	register(field.MustNew("age", field.KindNumber, field.Min(0), field.Max(130)))
	register(field.MustNew("site", field.KindURL))
	register(field.MustNew("bio", field.KindTextarea, field.MaxLength(140)))

	decision := agg.Submit()
	if decision.Allowed || decision.InvalidCount != 2 || agg.InvalidCount() != 2 {
		t.Fatalf("expected veto with two invalid fields, got %+v", decision)
	}
	if diff := cmp.Diff([]string{"email", "age"}, decision.Invalid); diff != "" {
		t.Fatalf("invalid fields mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]string{
		"email": "Not an E-mail",
		"age":   "The number is bigger than 130.",
	}, agg.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	var verr ValidationError
	if !errors.As(agg.Err(), &verr) || !verr.Has("age") || verr.Get("email") != "Not an E-mail" {
		t.Fatalf("expected ValidationError, got %v", agg.Err())
	}

	values["email"] = "jane@example.com"
	values["age"] = "42"
	decision = agg.Submit()
	if !decision.Allowed || decision.InvalidCount != 0 || len(decision.Invalid) != 0 {
		t.Fatalf("expected submission to proceed, got %+v", decision)
	}
	if agg.Errors() != nil || agg.Err() != nil {
		t.Fatalf("expected no errors after recovery")
	}
}

func TestSubmit_ImmediateModeSkipsValidatedFields(t *testing.T) {
	evaluations := map[string]int{}
	agg := New(WithImmediate(true), WithNotifier(NotifierFunc(func(state *FieldState, _ engine.Outcome) {
		evaluations[state.Name()]++
	})))
	a, _ := agg.Register(field.MustNew("a", field.KindText), nil)
	_, _ = agg.Register(field.MustNew("b", field.KindText), nil)
	a.SetValue("x")

	if _, err := agg.Changed("a"); err != nil {
		t.Fatalf("changed: %v", err)
	}
	agg.Submit()
	agg.Submit()

	if diff := cmp.Diff(map[string]int{"a": 1, "b": 1}, evaluations); diff != "" {
		t.Fatalf("evaluation counts mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmit_DeferredModeRevalidatesEverything(t *testing.T) {
	evaluations := 0
	agg := New(WithNotifier(NotifierFunc(func(*FieldState, engine.Outcome) {
		evaluations++
	})))
	_, _ = agg.Register(field.MustNew("a", field.KindText), nil)
	_, _ = agg.Register(field.MustNew("b", field.KindText), nil)

	if valid, _ := agg.Changed("a"); !valid || evaluations != 0 {
		t.Fatalf("expected Changed to be a no-op in deferred mode")
	}
	agg.Submit()
	agg.Submit()
	if evaluations != 4 {
		t.Fatalf("expected 4 evaluations, got %d", evaluations)
	}
}

func TestNotifier_ReceivesOutcome(t *testing.T) {
	var got []engine.Outcome
	agg := New(WithNotifier(NotifierFunc(func(_ *FieldState, o engine.Outcome) {
		got = append(got, o)
	})))
	state, _ := agg.Register(field.MustNew("n", field.KindNumber), nil)
	state.SetValue("x")
	_, _ = agg.Validate("n")
	state.SetValue("1")
	_, _ = agg.Validate("n")

	want := []engine.Outcome{
		{Field: "n", Result: engine.Result{Message: "Not a number", Kind: rules.NotANumber}},
		{Field: "n", Result: engine.Result{Valid: true}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("outcomes mismatch (-want +got):\n%s", diff)
	}
	if got[0].Event() != engine.EventInvalid || got[1].Event() != engine.EventValid {
		t.Fatalf("unexpected event names")
	}
}

func TestInvalidCount_MatchesLatestResults(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	const fields = 8
	values := make([]string, fields)
	agg := New(WithImmediate(rng.Intn(2) == 0))
	for i := 0; i < fields; i++ {
		idx := i
		name := string(rune('a' + i))
		if _, err := agg.Register(field.MustNew(name, field.KindNumber), func() string { return values[idx] }); err != nil {
			t.Fatalf("register: %v", err)
		}
	}

	for step := 0; step < 2000; step++ {
		idx := rng.Intn(fields)
		if rng.Intn(2) == 0 {
			values[idx] = "7"
		} else {
			values[idx] = "seven"
		}
		if rng.Intn(10) == 0 {
			agg.Submit()
		} else {
			_, _ = agg.Validate(string(rune('a' + idx)))
		}

		invalid := 0
		for _, state := range agg.Fields() {
			if state.Validated() && !state.Valid() {
				invalid++
			}
		}
		if invalid != agg.InvalidCount() {
			t.Fatalf("step %d: invalid count %d, expected %d", step, agg.InvalidCount(), invalid)
		}
	}
}
