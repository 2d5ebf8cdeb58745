// Package fuzztests houses Go fuzz harnesses for the query-file parser and
// the type-expression parser. They guard against panics, hangs and span
// invariant violations on arbitrary input.
package fuzztests
