// Package testkit holds structural checks shared by parser tests and fuzz
// harnesses.
package testkit

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"numtype/internal/diag"
	"numtype/internal/query"
	"numtype/internal/source"
)

// CheckQuerySpans verifies a parsed query file against its source:
//  1. every query span is non-empty, inside the file and on its own line
//  2. scope, operand, operator and expectation spans are non-empty,
//     ordered and contained in their query span
//  3. token text is non-empty and free of whitespace
func CheckQuerySpans(fs *source.FileSet, qf *query.File) error {
	if fs == nil || qf == nil {
		return fmt.Errorf("nil file set or query file")
	}
	sf := fs.Get(qf.ID)
	if sf == nil {
		return fmt.Errorf("file %d not found", qf.ID)
	}
	size, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var prevLine uint32
	for i, q := range qf.Queries {
		if err := checkSpan(q.Span, sf.ID, size); err != nil {
			return fmt.Errorf("query %d: %w", i, err)
		}
		if q.Line <= prevLine {
			return fmt.Errorf("query %d: line %d does not follow line %d", i, q.Line, prevLine)
		}
		prevLine = q.Line
		if start, _ := fs.Resolve(q.Span); start.Line != q.Line {
			return fmt.Errorf("query %d: span starts on line %d, recorded line %d", i, start.Line, q.Line)
		}

		var toks []query.Token
		if q.Scope != nil {
			toks = append(toks, *q.Scope)
		}
		for j, op := range q.Operands {
			if j == 1 && q.Op != nil {
				toks = append(toks, *q.Op)
			}
			toks = append(toks, op)
		}
		if q.Expect != nil {
			toks = append(toks, *q.Expect)
		}
		if len(q.Operands) != q.Verb.Arity() {
			return fmt.Errorf("query %d: %s has %d operands", i, q.Verb, len(q.Operands))
		}
		var prevEnd uint32
		for _, tok := range toks {
			if err := checkSpan(tok.Span, sf.ID, size); err != nil {
				return fmt.Errorf("query %d token %q: %w", i, tok.Text, err)
			}
			if tok.Span.Start < q.Span.Start || tok.Span.End > q.Span.End {
				return fmt.Errorf("query %d token %q: span %v outside query span %v", i, tok.Text, tok.Span, q.Span)
			}
			if tok.Span.Start < prevEnd {
				return fmt.Errorf("query %d token %q: overlaps previous token", i, tok.Text)
			}
			prevEnd = tok.Span.End
			if tok.Text == "" || strings.ContainsAny(tok.Text, " \t") {
				return fmt.Errorf("query %d: bad token text %q at %v", i, tok.Text, tok.Span)
			}
		}
	}
	return nil
}

// CheckDiagnosticSpans verifies that every primary and note span of bag
// resolves inside a file of fs.
func CheckDiagnosticSpans(fs *source.FileSet, bag *diag.Bag) error {
	for _, d := range bag.Items() {
		if _, ok := diag.Resolve(fs, d.Primary); !ok {
			return fmt.Errorf("%s: primary span %v does not resolve", d.Code.ID(), d.Primary)
		}
		for _, n := range d.Notes {
			if _, ok := diag.Resolve(fs, n.Span); !ok {
				return fmt.Errorf("%s: note span %v does not resolve", d.Code.ID(), n.Span)
			}
		}
	}
	return nil
}

func checkSpan(sp source.Span, file source.FileID, size uint32) error {
	switch {
	case sp.File != file:
		return fmt.Errorf("span file mismatch: got=%d want=%d", sp.File, file)
	case sp.End <= sp.Start:
		return fmt.Errorf("empty span %v", sp)
	case sp.End > size:
		return fmt.Errorf("span end beyond content: %d > %d", sp.End, size)
	}
	return nil
}
