// Package engine evaluates a field descriptor against its current value.
//
// Evaluation is a pure function of the descriptor, the value and the rule
// table: checks run in a fixed order and the first failure decides the
// message. Required comes first, then a single dispatch on the field kind:
//
//	text-like: minlength, maxlength, url/email format, pattern
//	number:    NUMBER rule, min, max
//	grouped:   nothing beyond required
//	unknown:   always invalid
package engine
