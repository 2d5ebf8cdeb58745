package diag

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"numtype/internal/source"
)

func TestCodeID(t *testing.T) {
	cases := map[Code]string{
		QuerySyntax:          "NTQ1001",
		ExpectMismatch:       "NTQ2001",
		ResolveIndeterminate: "NTQ3003",
		UnknownCode:          "E0000",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Fatalf("%d: expected %s, got %s", code, want, got)
		}
	}
	if got := Code(1999).Title(); got != "Unknown error" {
		t.Fatalf("unregistered code must fall back to the unknown title, got %q", got)
	}
}

func TestBagLimit(t *testing.T) {
	b := NewBag(2)
	if !b.Add(New(SevError, QuerySyntax, source.Span{}, "a")) {
		t.Fatalf("first add must succeed")
	}
	b.Add(New(SevInfo, ResolveUnknownOperand, source.Span{}, "b"))
	if b.Add(New(SevError, QuerySyntax, source.Span{}, "c")) {
		t.Fatalf("add beyond the limit must fail")
	}
	if b.Len() != 2 || !b.HasErrors() || b.Count(SevInfo) != 1 {
		t.Fatalf("unexpected bag state: len=%d errors=%v infos=%d", b.Len(), b.HasErrors(), b.Count(SevInfo))
	}
	if NewBag(-1).Add(New(SevInfo, ResolveUnknownOperand, source.Span{}, "d")) {
		t.Fatalf("negative limits must clamp to zero")
	}
}

func TestBagSort(t *testing.T) {
	b := NewBag(8)
	b.Add(New(SevInfo, ResolveUnrankedOperand, source.Span{File: 0, Start: 5, End: 9}, "x"))
	b.Add(New(SevError, ExpectMismatch, source.Span{File: 0, Start: 5, End: 9}, "y"))
	b.Add(New(SevError, QuerySyntax, source.Span{File: 1, Start: 0, End: 3}, "z"))
	b.Add(New(SevError, QuerySyntax, source.Span{File: 0, Start: 0, End: 3}, "w"))
	b.Sort()
	var got []string
	for _, d := range b.Items() {
		got = append(got, d.Message)
	}
	if diff := cmp.Diff([]string{"w", "y", "x", "z"}, got); diff != "" {
		t.Fatalf("order (-want +got):\n%s", diff)
	}
}

func TestReportersAndBuilder(t *testing.T) {
	bag := NewBag(8)
	r := NewDedupReporter(BagReporter{Bag: bag})
	sp := source.Span{File: 0, Start: 1, End: 2}
	ReportError(r, ExpectMismatch, sp, "expected int").WithNote(sp, "got long").Emit()
	b := ReportError(r, ExpectMismatch, sp, "expected int")
	b.Emit()
	b.Emit()
	ReportInfo(r, ResolveIndeterminate, sp, "oracle undecided").Emit()
	if bag.Len() != 2 {
		t.Fatalf("expected 2 diagnostics after dedup, got %d", bag.Len())
	}
	if len(bag.Items()[0].Notes) != 1 {
		t.Fatalf("note lost")
	}
}

func TestFormatShort(t *testing.T) {
	fs := source.NewFileSet()
	f := fs.AddVirtual("q/a.ntq", []byte("promote int\nassign x\n"))
	diags := []Diagnostic{
		New(SevInfo, ResolveUnrankedOperand, source.Span{File: f, Start: 12, End: 20}, "operand\nunranked"),
		New(SevError, QuerySyntax, source.Span{File: f, Start: 0, End: 11}, "missing operand").
			WithNote(source.Span{File: f, Start: 8, End: 11}, "only one type given"),
	}
	want := "error NTQ1001 q/a.ntq:1:1 missing operand\n" +
		"note NTQ1001 q/a.ntq:1:9 only one type given\n" +
		"info NTQ3002 q/a.ntq:2:1 operand unranked"
	if got := FormatShort(diags, fs, true); got != want {
		t.Fatalf("unexpected output:\nwant:\n%s\n\ngot:\n%s", want, got)
	}
}
