// Package openapi derives field descriptors from OpenAPI request schemas so
// the same constraints can drive validation of a generated form. Property
// constraints map onto descriptor options:
//
//	minLength/maxLength -> MinLength/MaxLength
//	minimum/maximum     -> Min/Max (number and integer)
//	pattern             -> Pattern
//	format email|uri    -> KindEmail/KindURL
//	boolean, enum       -> KindGrouped
package openapi
