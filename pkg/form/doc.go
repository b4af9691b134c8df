// Package form tracks the validation state of a collection of fields and
// gates submission on it.
//
// An Aggregate owns one FieldState per registered descriptor, in declaration
// order, and keeps a running count of fields currently flagged invalid. The
// count is adjusted incrementally on every validation pass, so the submission
// gate never rescans the collection:
//
//	agg := form.New(form.WithImmediate(true))
//	agg.Register(field.MustNew("email", field.KindEmail, field.Required()), read("email"))
//	if !agg.Submit().Allowed {
//		// render agg.Errors()
//	}
//
// An Aggregate is not safe for concurrent use; validation passes are expected
// to run one at a time, driven by discrete document events.
package form
