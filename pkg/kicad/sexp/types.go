// Package sexp provides navigation helpers over parsed KiCad S-expressions.
// This package contains types and utilities shared by the symbol library
// reader and the footprint helpers.
package sexp

// Property represents a key-value property (used in symbols, footprints, etc.)
type Property struct {
	Key   string
	Value string
}
