package format

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"numtype/internal/diag"
	"numtype/internal/query"
	"numtype/internal/source"
)

func render(t *testing.T, src string) string {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("q.ntq", []byte(src))
	qf := query.Parse(fs, id, diag.BagReporter{Bag: diag.NewBag(16)})
	return string(File(fs.Get(id), qf, Options{}))
}

func TestFileCanonicalLayout(t *testing.T) {
	src := "\n\n# header   \nPROMOTE   Integer\tLong=>Long   # widen\n\n\n\nunbox   --keep-generics Map< String ,List<Long> >\nassign\nbox   @jdk int   \npromote Byte\t%   Long=>none\n\n"
	want := "# header\npromote Integer Long => Long  # widen\n\nunbox --keep-generics Map<String, List<Long>>\nassign\nbox @jdk int\npromote Byte % Long => none\n"
	if diff := cmp.Diff(want, render(t, src)); diff != "" {
		t.Fatalf("formatted output (-want +got):\n%s", diff)
	}
}

func TestFileIsIdempotent(t *testing.T) {
	src := "promote  Byte Short =>Integer\n#c\n\nclassify @default   Object => other-class  # tag\n"
	once := render(t, src)
	if twice := render(t, once); twice != once {
		t.Fatalf("formatting must be idempotent:\n%q\n%q", once, twice)
	}
}

func TestTypeText(t *testing.T) {
	cases := map[string]string{
		"int":                     "int",
		"Map<String,Long>":        "Map<String, Long>",
		"A<B<C,D>,E>":             "A<B<C, D>, E>",
		"java.util.List<Integer>": "java.util.List<Integer>",
	}
	for in, want := range cases {
		if got := TypeText(in); got != want {
			t.Fatalf("%q: expected %q, got %q", in, want, got)
		}
	}
}
