// Package h5f validates forms from the constraints declared on their inputs
// (required, length and numeric bounds, type formats and patterns). The
// top-level package offers shortcuts over pkg/form and pkg/document.
package h5f

import (
	"errors"
	"fmt"
	"io"

	"github.com/goliatone/go-h5f/pkg/document"
	"github.com/goliatone/go-h5f/pkg/document/htmldoc"
	"github.com/goliatone/go-h5f/pkg/form"
	"github.com/goliatone/go-h5f/pkg/rules"
)

// Form aliases form.Aggregate so callers can stay on the top-level package.
type Form = form.Aggregate

// Decision aliases form.Decision.
type Decision = form.Decision

// Option aliases form.Option.
type Option = form.Option

// ErrFormNotFound is returned by BindHTML when no form matches the key.
var ErrFormNotFound = errors.New("h5f: form not found")

// Page is a parsed HTML document with one bound form.
type Page struct {
	Document *htmldoc.Document
	*document.Bound
}

// New creates an empty form aggregate, mirroring form.New.
func New(options ...Option) *Form {
	return form.New(options...)
}

// Rules returns a fresh table holding the built-in rules and messages.
func Rules() *rules.Table {
	return rules.Default()
}

// BindHTML parses r and binds the form whose id or name equals key. An empty
// key selects the first form in the document.
func BindHTML(r io.Reader, key string, options ...document.Option) (*Page, error) {
	doc, err := htmldoc.Parse(r)
	if err != nil {
		return nil, err
	}
	root, err := selectForm(doc, key)
	if err != nil {
		return nil, err
	}
	bound, err := document.Bind(doc, root, options...)
	if err != nil {
		return nil, err
	}
	return &Page{Document: doc, Bound: bound}, nil
}

// Fill sets each named value the way a user would, in declaration order.
// Names that are not fields of the form are rejected before anything is set.
func (p *Page) Fill(values map[string]string) error {
	for name := range values {
		if _, ok := p.Form.Field(name); !ok {
			return fmt.Errorf("%w: %s", form.ErrUnknownField, name)
		}
	}
	for _, name := range p.Form.Names() {
		value, ok := values[name]
		if !ok {
			continue
		}
		if err := p.Document.Fill(p.Root, name, value); err != nil {
			return err
		}
	}
	return nil
}

// Submit dispatches a submit event on the bound form and returns the gate's
// verdict. The event is vetoed when the decision is not allowed. A form that
// opted out with data-h5f-novalidate submits without validation.
func (p *Page) Submit() Decision {
	if !p.Listening {
		return Decision{
			Allowed:      p.Document.Submit(p.Root),
			InvalidCount: p.Form.InvalidCount(),
		}
	}
	p.Document.Submit(p.Root)
	return decisionOf(p.Form)
}

func decisionOf(agg *form.Aggregate) Decision {
	d := Decision{InvalidCount: agg.InvalidCount()}
	for _, state := range agg.Fields() {
		if state.Counted() {
			d.Invalid = append(d.Invalid, state.Name())
		}
	}
	d.Allowed = d.InvalidCount == 0
	return d
}

func selectForm(doc *htmldoc.Document, key string) (document.Element, error) {
	if key == "" {
		forms := doc.Forms()
		if len(forms) == 0 {
			return nil, ErrFormNotFound
		}
		return forms[0], nil
	}
	root, ok := doc.Form(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFormNotFound, key)
	}
	return root, nil
}
