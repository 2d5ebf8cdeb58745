// Package query reads .ntq files: one promotion, assignability, boxing or
// classification question per line, optionally followed by "=> expected".
//
//	# comment
//	promote java.lang.Integer java.lang.Double => java.lang.Double
//	promote Integer % Long => none
//	assign @jdk java.lang.Number int => true
//	classify java.util.List<String> => other-class
package query

import (
	"strings"

	"numtype/internal/source"
)

// Ext is the file extension recognised by the driver.
const Ext = ".ntq"

// Verb selects the operation a query runs.
type Verb uint8

const (
	VerbInvalid Verb = iota
	VerbPromote
	VerbAssign
	VerbBox
	VerbUnbox
	VerbClassify
)

var verbNames = [...]string{
	VerbInvalid:  "invalid",
	VerbPromote:  "promote",
	VerbAssign:   "assign",
	VerbBox:      "box",
	VerbUnbox:    "unbox",
	VerbClassify: "classify",
}

func (v Verb) String() string {
	if int(v) < len(verbNames) {
		return verbNames[v]
	}
	return "invalid"
}

// Arity is the number of type operands the verb takes.
func (v Verb) Arity() int {
	switch v {
	case VerbPromote, VerbAssign:
		return 2
	case VerbBox, VerbUnbox, VerbClassify:
		return 1
	default:
		return 0
	}
}

// ParseVerb maps a keyword to a Verb.
func ParseVerb(s string) (Verb, bool) {
	for v, name := range verbNames {
		if v != int(VerbInvalid) && strings.EqualFold(name, s) {
			return Verb(v), true
		}
	}
	return VerbInvalid, false
}

// Flag modifies how a verb runs.
type Flag uint8

const (
	FlagKeepGenerics  Flag = 1 << iota // unbox: leave non-wrappers untouched
	FlagEraseGenerics                  // box: erase non-primitives
)

var flagNames = map[string]Flag{
	"keep-generics":  FlagKeepGenerics,
	"erase-generics": FlagEraseGenerics,
}

// Allows reports whether f is valid for the verb.
func (v Verb) Allows(f Flag) bool {
	switch v {
	case VerbUnbox:
		return f == FlagKeepGenerics
	case VerbBox:
		return f == FlagEraseGenerics
	}
	return false
}

// Has reports whether every bit of f is set.
func (f Flag) Has(bit Flag) bool { return f&bit == bit }

// Names lists the set flags in a stable order, nil when none are set.
func (f Flag) Names() []string {
	var out []string
	if f.Has(FlagKeepGenerics) {
		out = append(out, "keep-generics")
	}
	if f.Has(FlagEraseGenerics) {
		out = append(out, "erase-generics")
	}
	return out
}

// Token is a piece of query text with its location.
type Token struct {
	Text string
	Span source.Span
}

// Query is one parsed line.
type Query struct {
	Verb     Verb
	Scope    *Token // from "@name", nil when absent
	Flags    Flag   // from "--name" tokens after the verb
	Operands []Token
	Op       *Token // promote only: operator between the operands, nil when absent
	Expect   *Token // right-hand side of "=>", nil when absent
	Span     source.Span
	Line     uint32
}

// NoneExpect is the promote expectation for "no result type".
const NoneExpect = "none"

// File is a parsed query file.
type File struct {
	ID      source.FileID
	Path    string
	Queries []Query
}
