// Package document wires a form aggregate to a document object model.
//
// The validation core never touches a document directly. A Binding supplies
// element discovery, attribute and value reads and event subscription; Bind
// uses it to derive descriptors from markup, register them, and install the
// change, blur and submit listeners that drive validation passes. Outcomes
// are reported back through Binding.Notify as "h5f:valid" and "h5f:invalid"
// events addressed to the field's (first) element.
package document
