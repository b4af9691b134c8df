// Package field describes the inputs the validation engine evaluates. A
// Descriptor is derived once from markup attributes (or built directly with
// New) and stays static afterwards; configuration mistakes such as a broken
// pattern are reported while building it.
package field
