package types

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Rank is a position on the numeric promotion ladder. Higher ranks are wider.
type Rank uint8

// NoRank marks the absence of a rank.
const NoRank Rank = 0

// RankEntry binds a canonical class name to its rank.
type RankEntry struct {
	Name string
	Rank Rank
}

// RankTable maps canonical names to ranks and ranks back to the canonical
// name of the promoted result. It is never mutated after construction.
type RankTable struct {
	byName  map[string]Rank
	results map[Rank]string
	entries []RankEntry
}

var (
	errEmptyName    = errors.New("empty type name")
	errZeroRank     = errors.New("rank 0 is reserved")
	errMissingFold  = errors.New("rank has no result name")
	errDanglingFold = errors.New("result name for a rank no type uses")
)

// NewRankTable validates and freezes a ladder. Several names may share a
// rank; results must name exactly the ranks used by the ladder.
func NewRankTable(ranks []RankEntry, results map[Rank]string) (*RankTable, error) {
	t := &RankTable{
		byName:  make(map[string]Rank, len(ranks)),
		results: make(map[Rank]string, len(results)),
		entries: make([]RankEntry, 0, len(ranks)),
	}
	for _, e := range ranks {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return nil, errEmptyName
		}
		if e.Rank == NoRank {
			return nil, fmt.Errorf("%s: %w", name, errZeroRank)
		}
		if prev, dup := t.byName[name]; dup {
			return nil, fmt.Errorf("%s: ranked twice (%d and %d)", name, prev, e.Rank)
		}
		t.byName[name] = e.Rank
		t.entries = append(t.entries, RankEntry{Name: name, Rank: e.Rank})
	}
	for r, name := range results {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("rank %d: %w", r, errEmptyName)
		}
		t.results[r] = name
	}
	for _, e := range t.entries {
		if _, ok := t.results[e.Rank]; !ok {
			return nil, fmt.Errorf("rank %d (%s): %w", e.Rank, e.Name, errMissingFold)
		}
	}
	for r := range t.results {
		if !t.used(r) {
			return nil, fmt.Errorf("rank %d: %w", r, errDanglingFold)
		}
	}
	sort.SliceStable(t.entries, func(i, j int) bool {
		if t.entries[i].Rank != t.entries[j].Rank {
			return t.entries[i].Rank < t.entries[j].Rank
		}
		return t.entries[i].Name < t.entries[j].Name
	})
	return t, nil
}

func (t *RankTable) used(r Rank) bool {
	for _, e := range t.entries {
		if e.Rank == r {
			return true
		}
	}
	return false
}

// RankOf returns the rank of a canonical name.
func (t *RankTable) RankOf(name string) (Rank, bool) {
	if t == nil {
		return NoRank, false
	}
	r, ok := t.byName[name]
	return r, ok
}

// ResultNameOf returns the canonical result name for a rank. It is total on
// every rank RankOf can return.
func (t *RankTable) ResultNameOf(r Rank) (string, bool) {
	if t == nil {
		return "", false
	}
	name, ok := t.results[r]
	return name, ok
}

// Entries returns the ladder ordered by rank, then name.
func (t *RankTable) Entries() []RankEntry {
	if t == nil {
		return nil
	}
	out := make([]RankEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Ranks returns the distinct ranks in ascending order.
func (t *RankTable) Ranks() []Rank {
	if t == nil {
		return nil
	}
	out := make([]Rank, 0, len(t.results))
	for r := range t.results {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Len reports the number of ranked names.
func (t *RankTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Result names below are data and must match the source language's wrapper
// classes. 5 and 7 do not name the classes ranked at 5 and 7
// (java.math.BigInteger, java.lang.Float); they are kept as recorded and can
// be overridden through configuration.
var defaultLadder = []RankEntry{
	{Name: "java.lang.Byte", Rank: 1},
	{Name: "java.lang.Short", Rank: 2},
	{Name: "java.lang.Character", Rank: 2},
	{Name: "java.lang.Integer", Rank: 3},
	{Name: "java.lang.Long", Rank: 4},
	{Name: "java.math.BigInteger", Rank: 5},
	{Name: "java.math.BigDecimal", Rank: 6},
	{Name: "java.lang.Float", Rank: 7},
	{Name: "java.lang.Double", Rank: 8},
}

var defaultResults = map[Rank]string{
	1: "java.lang.Integer",
	2: "java.lang.Integer",
	3: "java.lang.Integer",
	4: "java.lang.Long",
	5: "java.lang.BigInteger",
	6: "java.math.BigDecimal",
	7: "java.math.Double",
	8: "java.lang.Double",
}

var defaultRanks = mustRankTable(defaultLadder, defaultResults)

func mustRankTable(ranks []RankEntry, results map[Rank]string) *RankTable {
	t, err := NewRankTable(ranks, results)
	if err != nil {
		panic(fmt.Errorf("types: default rank table: %w", err))
	}
	return t
}

// DefaultRanks returns the built-in promotion ladder.
func DefaultRanks() *RankTable {
	return defaultRanks
}
