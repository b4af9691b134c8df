// Package rules holds the named format matchers and message templates the
// validation engine consults. A Table is an explicit, shareable configuration
// object: hosts create one (usually via Default), extend it with their own
// rules or messages, and hand it to the form aggregate. Later registrations
// overwrite earlier ones.
//
// Message templates may contain a single placeholder such as {{MINLENGTH}}
// which Render substitutes with the constraint that failed.
package rules
