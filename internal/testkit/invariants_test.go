package testkit

import (
	"strings"
	"testing"

	"numtype/internal/diag"
	"numtype/internal/query"
	"numtype/internal/source"
)

func TestCheckQuerySpansOnParsedFile(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("q.ntq", []byte("# header\npromote @default Integer Long => Long\n\nbox --erase-generics Map<String, Long>\nassign\npromote Byte * Short\n"))
	bag := diag.NewBag(8)
	qf := query.Parse(fs, id, diag.BagReporter{Bag: bag})
	if len(qf.Queries) != 3 {
		t.Fatalf("expected three queries, got %d", len(qf.Queries))
	}
	if err := CheckQuerySpans(fs, qf); err != nil {
		t.Fatalf("parsed file must satisfy span invariants: %v", err)
	}
	if err := CheckDiagnosticSpans(fs, bag); err != nil || bag.Len() != 1 {
		t.Fatalf("expected one resolvable diagnostic, got %d (%v)", bag.Len(), err)
	}
}

func TestCheckQuerySpansDetectsBrokenFiles(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("q.ntq", []byte("box int\n"))
	good := query.Parse(fs, id, diag.BagReporter{Bag: diag.NewBag(4)})

	outside := *good
	outside.Queries = append([]query.Query(nil), good.Queries...)
	outside.Queries[0].Operands = []query.Token{{Text: "int", Span: source.Span{File: id, Start: 0, End: 40}}}
	if err := CheckQuerySpans(fs, &outside); err == nil || !strings.Contains(err.Error(), "beyond content") {
		t.Fatalf("expected an out-of-bounds error, got %v", err)
	}

	spaced := *good
	spaced.Queries = append([]query.Query(nil), good.Queries...)
	spaced.Queries[0].Operands = []query.Token{{Text: "in t", Span: good.Queries[0].Operands[0].Span}}
	if err := CheckQuerySpans(fs, &spaced); err == nil {
		t.Fatalf("whitespace inside a token must be rejected")
	}

	dup := *good
	dup.Queries = append(append([]query.Query(nil), good.Queries...), good.Queries...)
	if err := CheckQuerySpans(fs, &dup); err == nil {
		t.Fatalf("repeated lines must be rejected")
	}
}
