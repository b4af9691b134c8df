package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-h5f/pkg/prompt"
	"github.com/goliatone/go-h5f/pkg/testsupport"
)

const signupHTML = `<!doctype html>
<html><body>
<form id="signup">
  <input name="email" type="email" required>
  <input name="zip" pattern="{{ZIP}}">
  <input type="checkbox" name="terms" value="yes" required>
</form>
</body></html>`

const zipPack = `rules:
  ZIP: '^\d{5}$'
messages:
  INVALID_VALUE: "<b>Check</b> this field"
`

func run(t *testing.T, a *app, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return a.out.(*bytes.Buffer).String(), err
}

func TestValidate_Vetoed(t *testing.T) {
	dir := t.TempDir()
	page := testsupport.WriteFile(t, dir, "signup.html", signupHTML)
	pack := testsupport.WriteFile(t, dir, "rules.yaml", zipPack)

	a := newApp(&bytes.Buffer{}, &bytes.Buffer{})
	out, err := run(t, a, "validate", page, "--rules", pack, "--set", "email=jane@example.com", "--set", "zip=123")

	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 1 {
		t.Fatalf("expected exit code 1, got %v", err)
	}
	want := "email: ok\nzip: Check this field\nterms: Could not be empty.\n"
	if out != want {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestValidate_AllowedWithConfigAndValuesFile(t *testing.T) {
	dir := t.TempDir()
	page := testsupport.WriteFile(t, dir, "signup.html", signupHTML)
	pack := testsupport.WriteFile(t, dir, "rules.yaml", zipPack)
	cfg := testsupport.WriteFile(t, dir, "h5f.yaml", "form: signup\nimmediate: true\nrules: "+pack+"\n")
	values := testsupport.WriteFile(t, dir, "values.yaml", "email: jane@example.com\nzip: \"12345\"\nterms: \"no\"\n")

	a := newApp(&bytes.Buffer{}, &bytes.Buffer{})
	out, err := run(t, a, "--config", cfg, "validate", page, "--values", values, "--set", "terms=yes")
	if err != nil {
		t.Fatalf("validate: %v\n%s", err, out)
	}
	if !strings.HasSuffix(out, "submission allowed\n") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestValidate_Errors(t *testing.T) {
	dir := t.TempDir()
	page := testsupport.WriteFile(t, dir, "signup.html", signupHTML)

	a := newApp(&bytes.Buffer{}, &bytes.Buffer{})
	if _, err := run(t, a, "validate", page); err == nil || !strings.Contains(err.Error(), "ZIP") {
		t.Fatalf("expected unknown rule error, got %v", err)
	}

	a = newApp(&bytes.Buffer{}, &bytes.Buffer{})
	if _, err := run(t, a, "validate", page, "--set", "novalue"); err == nil || !strings.Contains(err.Error(), "name=value") {
		t.Fatalf("expected --set error, got %v", err)
	}
}

type scriptedDriver struct {
	inputs  []string
	confirm []bool
	info    []string
}

func (s *scriptedDriver) Input(context.Context, prompt.InputConfig) (string, error) {
	if len(s.inputs) == 0 {
		return "", errors.New("no input scripted")
	}
	v := s.inputs[0]
	s.inputs = s.inputs[1:]
	return v, nil
}

func (s *scriptedDriver) Password(ctx context.Context, cfg prompt.InputConfig) (string, error) {
	return s.Input(ctx, cfg)
}

func (s *scriptedDriver) Confirm(context.Context, prompt.ConfirmConfig) (bool, error) {
	if len(s.confirm) == 0 {
		return false, errors.New("no confirm scripted")
	}
	v := s.confirm[0]
	s.confirm = s.confirm[1:]
	return v, nil
}

func (s *scriptedDriver) Select(context.Context, prompt.SelectConfig) (int, error) {
	return -1, errors.New("no select scripted")
}

func (s *scriptedDriver) TextArea(context.Context, prompt.TextAreaConfig) (string, error) {
	return "", errors.New("no textarea scripted")
}

func (s *scriptedDriver) Info(_ context.Context, msg string) error {
	s.info = append(s.info, msg)
	return nil
}

func TestPrompt_FillsDocument(t *testing.T) {
	dir := t.TempDir()
	page := testsupport.WriteFile(t, dir, "signup.html", signupHTML)
	pack := testsupport.WriteFile(t, dir, "rules.yaml", zipPack)

	driver := &scriptedDriver{
		inputs:  []string{"jane", "jane@example.com", "12345"},
		confirm: []bool{true},
	}
	a := newApp(&bytes.Buffer{}, &bytes.Buffer{})
	a.driver = driver

	out, err := run(t, a, "prompt", page, "--rules", pack, "--immediate")
	if err != nil {
		t.Fatalf("prompt: %v\n%s", err, out)
	}
	if len(driver.info) != 1 || driver.info[0] != "Invalid email: Not an E-mail" {
		t.Fatalf("unexpected info messages %v", driver.info)
	}
	want := "email: ok\nzip: ok\nterms: ok\nsubmission allowed\n"
	if out != want {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

const usersAPI = `openapi: 3.0.3
info:
  title: Users
  version: "1.0"
paths:
  /users:
    post:
      operationId: createUser
      requestBody:
        content:
          application/json:
            schema:
              type: object
              required: [email, username]
              properties:
                email:
                  type: string
                  format: email
                username:
                  type: string
                  minLength: 3
`

func TestValidate_OpenAPIOperation(t *testing.T) {
	dir := t.TempDir()
	api := testsupport.WriteFile(t, dir, "api.yaml", usersAPI)

	a := newApp(&bytes.Buffer{}, &bytes.Buffer{})
	out, err := run(t, a, "validate", "--openapi", api, "--operation", "createUser",
		"--set", "email=jane@example.com", "--set", "username=jo")
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 1 {
		t.Fatalf("expected exit code 1, got %v", err)
	}
	if want := "email: ok\nusername: The length is smaller than 3.\n"; out != want {
		t.Fatalf("unexpected output:\n%s", out)
	}

	a = newApp(&bytes.Buffer{}, &bytes.Buffer{})
	out, err = run(t, a, "validate", "--openapi", api, "--operation", "createUser",
		"--set", "email=jane@example.com", "--set", "username=jane")
	if err != nil {
		t.Fatalf("validate: %v\n%s", err, out)
	}
	if want := "email: ok\nusername: ok\nsubmission allowed\n"; out != want {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestValidate_OpenAPIErrors(t *testing.T) {
	dir := t.TempDir()
	api := testsupport.WriteFile(t, dir, "api.yaml", usersAPI)
	page := testsupport.WriteFile(t, dir, "signup.html", signupHTML)

	cases := []struct {
		name string
		args []string
		want string
	}{
		{"missing operation", []string{"validate", "--openapi", api}, "--operation"},
		{"html and openapi", []string{"validate", page, "--openapi", api, "--operation", "createUser"}, "not both"},
		{"no source", []string{"validate"}, "required"},
		{"unknown field", []string{"validate", "--openapi", api, "--operation", "createUser", "--set", "nope=1"}, "nope"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := newApp(&bytes.Buffer{}, &bytes.Buffer{})
			if _, err := run(t, a, tc.args...); err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestValidate_NoValidateFormIsAllowed(t *testing.T) {
	dir := t.TempDir()
	page := testsupport.WriteFile(t, dir, "optout.html",
		`<form data-h5f-novalidate><input name="email" type="email" required></form>`)

	a := newApp(&bytes.Buffer{}, &bytes.Buffer{})
	out, err := run(t, a, "validate", page)
	if err != nil {
		t.Fatalf("validate: %v\n%s", err, out)
	}
	if want := "email: ok\nsubmission allowed\n"; out != want {
		t.Fatalf("unexpected output:\n%s", out)
	}
}
