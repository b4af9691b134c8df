package htmldoc

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-h5f/pkg/document"
)

const page = `<!doctype html>
<html><body>
<form id="signup">
  <input name="user" value="jane">
  <textarea name="bio">hello</textarea>
  <input type="radio" name="color" value="red">
  <input type="radio" name="color" value="blue" checked>
  <input type="checkbox" name="tos">
  <span>no name</span>
</form>
<form name="other"></form>
</body></html>`

func TestDocument_Reads(t *testing.T) {
	doc, err := ParseString(page)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	forms := doc.Forms()
	if len(forms) != 2 {
		t.Fatalf("expected 2 forms, got %d", len(forms))
	}
	signup, ok := doc.Form("signup")
	if !ok {
		t.Fatalf("expected signup form")
	}
	if _, ok := doc.Form("other"); !ok {
		t.Fatalf("expected form lookup by name")
	}

	var names []string
	for _, el := range doc.Discover(signup) {
		name, _ := doc.Attribute(el, "name")
		names = append(names, doc.Tag(el)+":"+name)
	}
	want := []string{"input:user", "textarea:bio", "input:color", "input:color", "input:tos"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("discovery mismatch (-want +got):\n%s", diff)
	}

	user := doc.Named(signup, "user")[0]
	if doc.Value(user) != "jane" {
		t.Fatalf("unexpected user value %q", doc.Value(user))
	}
	if doc.Value(doc.Named(signup, "bio")[0]) != "hello" {
		t.Fatalf("expected textarea content")
	}
	tos := doc.Named(signup, "tos")[0]
	if doc.Value(tos) != "on" || doc.Checked(tos) {
		t.Fatalf("unexpected checkbox defaults")
	}
	if diff := cmp.Diff([]string{"red", "blue"}, doc.Choices(signup, "color")); diff != "" {
		t.Fatalf("choices mismatch (-want +got):\n%s", diff)
	}
}

func TestDocument_RadioExclusivityAndEvents(t *testing.T) {
	doc, _ := ParseString(page)
	signup, _ := doc.Form("signup")
	colors := doc.Named(signup, "color")

	var events []string
	for _, el := range colors {
		doc.Subscribe(el, document.EventChange, func(ev *document.Event) {
			v := doc.Value(ev.Target)
			events = append(events, ev.Kind+":"+v)
		})
	}

	if err := doc.Fill(signup, "color", "red"); err != nil {
		t.Fatalf("fill: %v", err)
	}
	if !doc.Checked(colors[0]) || doc.Checked(colors[1]) {
		t.Fatalf("expected only red to be checked")
	}
	if err := doc.Fill(signup, "color", "green"); err == nil {
		t.Fatalf("expected error for unknown option")
	}
	if diff := cmp.Diff([]string{"change:red"}, events); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestDocument_DispatchStopsPropagation(t *testing.T) {
	doc, _ := ParseString(page)
	signup, _ := doc.Form("signup")
	calls := 0
	doc.Subscribe(signup, document.EventSubmit, func(ev *document.Event) {
		calls++
		ev.PreventDefault()
		ev.StopImmediatePropagation()
	})
	doc.Subscribe(signup, document.EventSubmit, func(*document.Event) {
		calls++
	})
	if doc.Submit(signup) {
		t.Fatalf("expected submission to be prevented")
	}
	if calls != 1 {
		t.Fatalf("expected propagation to stop after first handler, got %d calls", calls)
	}
}

func TestDocument_SetAttribute(t *testing.T) {
	doc, _ := ParseString(page)
	signup, _ := doc.Form("signup")
	doc.SetAttribute(signup, "novalidate", "")
	doc.SetAttribute(signup, "ID", "renamed")
	if _, ok := doc.Attribute(signup, "novalidate"); !ok {
		t.Fatalf("expected novalidate attribute")
	}
	if v, _ := doc.Attribute(signup, "id"); v != "renamed" {
		t.Fatalf("expected id to be overwritten, got %q", v)
	}
}
