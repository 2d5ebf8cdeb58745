package driver

import (
	"context"
	"strings"

	"numtype/internal/diag"
	"numtype/internal/query"
	"numtype/internal/source"
)

// Answer is the outcome of a single query line.
type Answer struct {
	FileSet *source.FileSet
	Result  *Result // nil when the line did not parse
	Bag     *diag.Bag
}

// BuildLine joins a verb, flags and operands into a query line, the form
// Ask and query files share.
func BuildLine(verb query.Verb, flags query.Flag, scope string, operands ...string) string {
	parts := []string{verb.String()}
	if scope != "" {
		parts = append(parts, "@"+scope)
	}
	for _, f := range flags.Names() {
		parts = append(parts, "--"+f)
	}
	parts = append(parts, operands...)
	return strings.Join(parts, " ")
}

// Ask parses and evaluates one query line the same way Check evaluates a
// file.
func (s *Session) Ask(ctx context.Context, line string) Answer {
	fs := source.NewFileSet()
	id := fs.AddVirtual("<query>", []byte(line))
	bag := diag.NewBag(DefaultMaxDiagnostics)
	r := diag.BagReporter{Bag: bag}
	ans := Answer{FileSet: fs, Bag: bag}

	qf := query.Parse(fs, id, r)
	if len(qf.Queries) == 1 {
		res := s.Evaluate(ctx, qf.Queries[0], r)
		ans.Result = &res
	}
	bag.Sort()
	return ans
}
