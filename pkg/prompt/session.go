package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-h5f/pkg/field"
	"github.com/goliatone/go-h5f/pkg/form"
)

// noneOption is offered first when an optional grouped field may be left
// unselected.
const noneOption = "(none)"

// WriterFunc stores an answer for a field. The default writer calls
// FieldState.SetValue; document backed sessions write into the document.
type WriterFunc func(state *form.FieldState, value string) error

// ChoicesFunc lists the member values of a grouped field.
type ChoicesFunc func(name string) []string

// Option configures a Session.
type Option func(*Session)

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithWriter overrides how answers reach the field.
func WithWriter(fn WriterFunc) Option {
	return func(s *Session) {
		if fn != nil {
			s.write = fn
		}
	}
}

// WithChoices supplies the options of grouped fields.
func WithChoices(fn ChoicesFunc) Option {
	return func(s *Session) {
		s.choices = fn
	}
}

// WithMaxAttempts bounds how often an invalid field is asked again. Zero
// means no bound.
func WithMaxAttempts(n int) Option {
	return func(s *Session) {
		if n >= 0 {
			s.maxAttempts = n
		}
	}
}

// Session walks the fields of an aggregate through a prompt driver.
type Session struct {
	form        *form.Aggregate
	driver      PromptDriver
	write       WriterFunc
	choices     ChoicesFunc
	maxAttempts int
}

// Result is the outcome of a completed session.
type Result struct {
	Values   map[string]string
	Decision form.Decision
}

// New creates a session over agg. Without WithPromptDriver it talks to the
// terminal through survey.
func New(agg *form.Aggregate, options ...Option) (*Session, error) {
	if agg == nil {
		return nil, ErrNilForm
	}
	s := &Session{
		form: agg,
		write: func(state *form.FieldState, value string) error {
			state.SetValue(value)
			return nil
		},
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(nil)
	}
	return s, nil
}

// Run asks every field in declaration order and then runs the submission
// gate. A field is asked again, after an info line with its message, until
// it validates.
func (s *Session) Run(ctx context.Context) (Result, error) {
	values := make(map[string]string)
	for _, state := range s.form.Fields() {
		value, err := s.askUntilValid(ctx, state)
		if err != nil {
			return Result{Values: values}, err
		}
		values[state.Name()] = value
	}
	return Result{Values: values, Decision: s.form.Submit()}, nil
}

func (s *Session) askUntilValid(ctx context.Context, state *form.FieldState) (string, error) {
	for attempt := 1; ; attempt++ {
		value, err := s.ask(ctx, state)
		if err != nil {
			return "", fmt.Errorf("prompt: field %s: %w", state.Name(), err)
		}
		if err := s.write(state, value); err != nil {
			return "", fmt.Errorf("prompt: write %s: %w", state.Name(), err)
		}
		ok, err := s.form.ValidateField(state)
		if err != nil {
			return "", err
		}
		if ok {
			return value, nil
		}
		if err := s.driver.Info(ctx, fmt.Sprintf("Invalid %s: %s", state.Name(), state.Message())); err != nil {
			return "", err
		}
		if s.maxAttempts > 0 && attempt >= s.maxAttempts {
			return "", fmt.Errorf("%w: %s", ErrTooManyAttempts, state.Name())
		}
	}
}

func (s *Session) ask(ctx context.Context, state *form.FieldState) (string, error) {
	desc := state.Descriptor()
	message := label(desc)
	help := helpText(desc)

	switch desc.Kind {
	case field.KindGrouped:
		return s.askGrouped(ctx, desc, message, help)
	case field.KindPassword:
		return s.driver.Password(ctx, InputConfig{
			Message:   message,
			Help:      help,
			Validator: s.validator(desc),
		})
	case field.KindTextarea:
		return s.driver.TextArea(ctx, TextAreaConfig{
			Message: message,
			Default: state.Value(),
			Help:    help,
		})
	default:
		return s.driver.Input(ctx, InputConfig{
			Message:   message,
			Default:   state.Value(),
			Help:      help,
			Validator: s.validator(desc),
		})
	}
}

func (s *Session) askGrouped(ctx context.Context, desc field.Descriptor, message, help string) (string, error) {
	var options []string
	if s.choices != nil {
		options = s.choices(desc.Name)
	}

	if desc.Control == "checkbox" && len(options) <= 1 {
		on := "on"
		if len(options) == 1 {
			on = options[0]
		}
		yes, err := s.driver.Confirm(ctx, ConfirmConfig{Message: message, Help: help})
		if err != nil || !yes {
			return "", err
		}
		return on, nil
	}
	if len(options) == 0 {
		return s.driver.Input(ctx, InputConfig{Message: message, Help: help})
	}

	if !desc.Required {
		options = append([]string{noneOption}, options...)
	}
	idx, err := s.driver.Select(ctx, SelectConfig{
		Message:      message,
		Options:      options,
		DefaultIndex: -1,
		Help:         help,
	})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(options) || (!desc.Required && idx == 0) {
		return "", nil
	}
	return options[idx], nil
}

// validator lets the interactive driver reject an answer inline with the
// same message the aggregate would record.
func (s *Session) validator(desc field.Descriptor) func(string) error {
	eng := s.form.Engine()
	return func(value string) error {
		if res := eng.Evaluate(desc, value); !res.Valid {
			return errors.New(res.Message)
		}
		return nil
	}
}

func label(desc field.Descriptor) string {
	if desc.Required {
		return desc.Name + " *"
	}
	return desc.Name
}

func helpText(desc field.Descriptor) string {
	var parts []string
	if desc.Required {
		parts = append(parts, "required")
	}
	switch {
	case desc.MinLength != nil && desc.MaxLength != nil:
		parts = append(parts, fmt.Sprintf("%d-%d characters", *desc.MinLength, *desc.MaxLength))
	case desc.MinLength != nil:
		parts = append(parts, fmt.Sprintf("at least %d characters", *desc.MinLength))
	case desc.MaxLength != nil:
		parts = append(parts, fmt.Sprintf("at most %d characters", *desc.MaxLength))
	}
	if desc.Min != nil {
		parts = append(parts, fmt.Sprintf("min %g", *desc.Min))
	}
	if desc.Max != nil {
		parts = append(parts, fmt.Sprintf("max %g", *desc.Max))
	}
	if desc.Pattern != "" {
		parts = append(parts, "pattern "+desc.Pattern)
	}
	return strings.Join(parts, ", ")
}
