package rules

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"
)

func TestLoadYAML_RegistersRulesAndMessages(t *testing.T) {
	table := Default()
	err := table.LoadYAML([]byte(`
rules:
  ZIP: '^\d{5}$'
messages:
  INVALID_VALUE: "<b>Please</b> check this field"
  UNDERFLOW: "Too small, at least {{MIN}}"
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	zip, ok := table.Rule("ZIP")
	if !ok || !zip.MatchString("12345") || zip.MatchString("1234") {
		t.Fatalf("expected ZIP rule to be registered and anchored")
	}
	if got, _ := table.Message(InvalidValue); got != "Please check this field" {
		t.Fatalf("expected markup to be stripped, got %q", got)
	}
	if got := table.Render(Underflow, 3); got != "Too small, at least 3" {
		t.Fatalf("unexpected rendered underflow %q", got)
	}
}

func TestLoadYAML_InvalidRuleLeavesTableUntouched(t *testing.T) {
	table := Default()
	err := table.LoadYAML([]byte(`
rules:
  BROKEN: '(['
messages:
  NOT_A_NUMBER: "changed"
`))
	if err == nil || !strings.Contains(err.Error(), `"BROKEN"`) {
		t.Fatalf("expected compile error naming the rule, got %v", err)
	}
	if got, _ := table.Message(NotANumber); got != "Not a number" {
		t.Fatalf("expected pack not to be applied, got %q", got)
	}
}

func TestLoadYAML_EmptyPack(t *testing.T) {
	if err := Default().LoadYAML([]byte("{}")); !errors.Is(err, ErrEmptyPack) {
		t.Fatalf("expected ErrEmptyPack, got %v", err)
	}
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"packs/zip.yaml": &fstest.MapFile{Data: []byte("rules:\n  ZIP: '^\\d{5}$'\n")},
	}
	table := New()
	if err := table.LoadFS(fsys, "packs/zip.yaml"); err != nil {
		t.Fatalf("load fs: %v", err)
	}
	if _, ok := table.Rule("ZIP"); !ok {
		t.Fatalf("expected ZIP rule from fs")
	}
	if err := table.LoadFS(fsys, "packs/missing.yaml"); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
