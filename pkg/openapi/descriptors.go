package openapi

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-h5f/pkg/field"
)

// KindExtension lets a schema pick the field kind explicitly, e.g.
// `x-h5f-kind: textarea`.
const KindExtension = "x-h5f-kind"

var (
	// ErrOperationNotFound is returned when no operation has the requested id.
	ErrOperationNotFound = errors.New("openapi: operation not found")
	// ErrNoRequestSchema is returned when the operation has no usable body.
	ErrNoRequestSchema = errors.New("openapi: operation has no request schema")
)

var preferredMediaTypes = []string{
	"application/x-www-form-urlencoded",
	"multipart/form-data",
	"application/json",
}

// LoadOperation parses an OpenAPI document and returns descriptors for the
// request body of operationID.
func LoadOperation(ctx context.Context, raw []byte, operationID string) ([]field.Descriptor, error) {
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	op := findOperation(doc, operationID)
	if op == nil {
		return nil, fmt.Errorf("%w: %s", ErrOperationNotFound, operationID)
	}
	schema := requestSchema(op)
	if schema == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoRequestSchema, operationID)
	}
	return Descriptors(schema)
}

// Descriptors builds a descriptor per scalar property of an object schema,
// sorted by property name. Arrays and nested objects are skipped.
func Descriptors(schema *openapi3.Schema) ([]field.Descriptor, error) {
	if schema == nil {
		return nil, nil
	}
	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	var (
		out  []field.Descriptor
		errs []error
	)
	for _, name := range names {
		ref := schema.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		desc, ok, err := Descriptor(name, ref.Value, required[name])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			out = append(out, desc)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return out, nil
}

// Descriptor maps one property schema. ok is false for properties that have
// no input representation.
func Descriptor(name string, prop *openapi3.Schema, required bool) (field.Descriptor, bool, error) {
	kind, ok := kindOf(prop)
	if !ok {
		return field.Descriptor{}, false, nil
	}

	options := []field.Option{field.WithRequired(required)}
	switch {
	case kind.TextLike():
		if prop.MinLength > 0 {
			options = append(options, field.MinLength(clampLength(prop.MinLength)))
		}
		if prop.MaxLength != nil {
			options = append(options, field.MaxLength(clampLength(*prop.MaxLength)))
		}
		if prop.Pattern != "" {
			options = append(options, field.Pattern(prop.Pattern))
		}
	case kind == field.KindNumber:
		if prop.Min != nil {
			options = append(options, field.Min(*prop.Min))
		}
		if prop.Max != nil {
			options = append(options, field.Max(*prop.Max))
		}
	case kind == field.KindGrouped:
		control := "radio"
		if prop.Type.Is(openapi3.TypeBoolean) {
			control = "checkbox"
		}
		options = append(options, field.Control(control), field.Members(len(prop.Enum)))
	}

	desc, err := field.New(name, kind, options...)
	if err != nil {
		return field.Descriptor{}, false, fmt.Errorf("openapi: property %s: %w", name, err)
	}
	return desc, true, nil
}

// clampLength keeps schema lengths above MaxInt from wrapping negative.
func clampLength(n uint64) int {
	if n > math.MaxInt {
		return math.MaxInt
	}
	return int(n)
}

func kindOf(prop *openapi3.Schema) (field.Kind, bool) {
	if raw, ok := prop.Extensions[KindExtension].(string); ok && strings.TrimSpace(raw) != "" {
		return field.Kind(strings.ToLower(strings.TrimSpace(raw))), true
	}
	switch {
	case prop.Type.Is(openapi3.TypeBoolean):
		return field.KindGrouped, true
	case prop.Type.Is(openapi3.TypeInteger), prop.Type.Is(openapi3.TypeNumber):
		return field.KindNumber, true
	case prop.Type.Is(openapi3.TypeString):
		if len(prop.Enum) > 0 {
			return field.KindGrouped, true
		}
		switch strings.ToLower(prop.Format) {
		case "email", "idn-email":
			return field.KindEmail, true
		case "uri", "url", "iri":
			return field.KindURL, true
		case "password":
			return field.KindPassword, true
		case "textarea":
			return field.KindTextarea, true
		default:
			return field.KindText, true
		}
	default:
		return "", false
	}
}

func findOperation(doc *openapi3.T, operationID string) *openapi3.Operation {
	if doc == nil || doc.Paths == nil {
		return nil
	}
	for _, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for _, op := range item.Operations() {
			if op != nil && op.OperationID == operationID {
				return op
			}
		}
	}
	return nil
}

func requestSchema(op *openapi3.Operation) *openapi3.Schema {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	content := op.RequestBody.Value.Content
	for _, mediaType := range preferredMediaTypes {
		if mt := content.Get(mediaType); mt != nil && mt.Schema != nil && mt.Schema.Value != nil {
			return mt.Schema.Value
		}
	}
	keys := make([]string, 0, len(content))
	for key := range content {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if mt := content[key]; mt != nil && mt.Schema != nil && mt.Schema.Value != nil {
			return mt.Schema.Value
		}
	}
	return nil
}
