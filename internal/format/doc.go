// Package format prints query files in canonical layout: lower-case verbs,
// single spaces between tokens, ", " between type arguments, trailing
// comments separated by two spaces, no trailing whitespace and at most one
// consecutive blank line.
//
// Lines that do not parse are kept as written (minus trailing whitespace)
// so formatting never loses text.
package format
