package types

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultLadderRanks(t *testing.T) {
	want := map[string]Rank{
		"java.lang.Byte":       1,
		"java.lang.Short":      2,
		"java.lang.Character":  2,
		"java.lang.Integer":    3,
		"java.lang.Long":       4,
		"java.math.BigInteger": 5,
		"java.math.BigDecimal": 6,
		"java.lang.Float":      7,
		"java.lang.Double":     8,
	}
	got := make(map[string]Rank)
	for _, e := range DefaultRanks().Entries() {
		got[e.Name] = e.Rank
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ladder mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultFoldIsPreservedVerbatim(t *testing.T) {
	want := map[Rank]string{
		1: "java.lang.Integer",
		2: "java.lang.Integer",
		3: "java.lang.Integer",
		4: "java.lang.Long",
		5: "java.lang.BigInteger",
		6: "java.math.BigDecimal",
		7: "java.math.Double",
		8: "java.lang.Double",
	}
	for r, name := range want {
		got, ok := DefaultRanks().ResultNameOf(r)
		if !ok || got != name {
			t.Fatalf("rank %d: expected %q, got %q (ok=%v)", r, name, got, ok)
		}
	}
}

func TestResultNameTotalOnProducedRanks(t *testing.T) {
	table := DefaultRanks()
	for _, e := range table.Entries() {
		r, ok := table.RankOf(e.Name)
		if !ok {
			t.Fatalf("%s: missing rank", e.Name)
		}
		if _, ok := table.ResultNameOf(r); !ok {
			t.Fatalf("rank %d has no result name", r)
		}
	}
}

func TestRankOfUnknownName(t *testing.T) {
	for _, name := range []string{"java.lang.Boolean", "java.lang.String", "int", ""} {
		if _, ok := DefaultRanks().RankOf(name); ok {
			t.Fatalf("%q should be unranked", name)
		}
	}
}

func TestNewRankTableRejectsMissingFold(t *testing.T) {
	_, err := NewRankTable([]RankEntry{{Name: "a", Rank: 1}, {Name: "b", Rank: 2}}, map[Rank]string{1: "a"})
	if !errors.Is(err, errMissingFold) {
		t.Fatalf("expected missing fold error, got %v", err)
	}
}

func TestNewRankTableRejectsDanglingFold(t *testing.T) {
	_, err := NewRankTable([]RankEntry{{Name: "a", Rank: 1}}, map[Rank]string{1: "a", 9: "z"})
	if !errors.Is(err, errDanglingFold) {
		t.Fatalf("expected dangling fold error, got %v", err)
	}
}

func TestNewRankTableRejectsDuplicatesAndZero(t *testing.T) {
	if _, err := NewRankTable([]RankEntry{{Name: "a", Rank: 1}, {Name: "a", Rank: 2}}, map[Rank]string{1: "a", 2: "a"}); err == nil {
		t.Fatalf("expected duplicate name error")
	}
	if _, err := NewRankTable([]RankEntry{{Name: "a", Rank: 0}}, nil); !errors.Is(err, errZeroRank) {
		t.Fatalf("expected zero rank error, got %v", err)
	}
}

func TestRanksAscending(t *testing.T) {
	want := []Rank{1, 2, 3, 4, 5, 6, 7, 8}
	if diff := cmp.Diff(want, DefaultRanks().Ranks()); diff != "" {
		t.Fatalf("ranks (-want +got):\n%s", diff)
	}
}
