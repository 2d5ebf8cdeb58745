package fuzztests

import (
	"bytes"
	"testing"

	"numtype/internal/diag"
	"numtype/internal/query"
	"numtype/internal/source"
	"numtype/internal/testkit"
)

func TestEdgeSeedsKeepInvariants(t *testing.T) {
	for _, seed := range edgeSeeds {
		fs := source.NewFileSet()
		id := fs.AddVirtual("seed.ntq", []byte(seed))
		bag := diag.NewBag(16)
		qf := query.Parse(fs, id, diag.BagReporter{Bag: bag})
		if err := testkit.CheckQuerySpans(fs, qf); err != nil {
			t.Fatalf("%q: %v", seed, err)
		}
		if err := testkit.CheckDiagnosticSpans(fs, bag); err != nil {
			t.Fatalf("%q: %v", seed, err)
		}
	}
}

func TestByteOrderMarkSeed(t *testing.T) {
	bom := []byte{0xEF, 0xBB, 0xBF}
	var found bool
	for _, seed := range edgeSeeds {
		if bytes.HasPrefix([]byte(seed), bom) {
			found = true
			if seed[len(bom):] != "box int" {
				t.Fatalf("unexpected text after the byte order mark: %q", seed[len(bom):])
			}
		}
	}
	if !found {
		t.Fatalf("no seed starts with a byte order mark")
	}
}
