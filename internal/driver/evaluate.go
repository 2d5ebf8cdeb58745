package driver

import (
	"context"
	"fmt"
	"strconv"

	"numtype/internal/diag"
	"numtype/internal/query"
	"numtype/internal/source"
	"numtype/internal/trace"
	"numtype/internal/types"
	"numtype/internal/universe"
)

// Mark records whether a query's expectation held.
type Mark uint8

const (
	MarkNone  Mark = iota // no expectation given
	MarkPass
	MarkFail
	MarkError // the query could not be evaluated
)

func (m Mark) String() string {
	switch m {
	case MarkPass:
		return "pass"
	case MarkFail:
		return "fail"
	case MarkError:
		return "error"
	default:
		return "none"
	}
}

// Result is the evaluated form of one query.
type Result struct {
	Line     uint32     `msgpack:"line"`
	Verb     query.Verb `msgpack:"verb"`
	Flags    query.Flag `msgpack:"flags"`
	Scope    string     `msgpack:"scope"`
	Operands []string   `msgpack:"operands"`
	Op       string     `msgpack:"op,omitempty"`
	Value    string     `msgpack:"value"`
	Detail   string     `msgpack:"detail"`
	Expect   string     `msgpack:"expect"`
	Mark     Mark       `msgpack:"mark"`
}

// Evaluate runs one query. Problems are reported to r; the returned Result
// is always filled as far as evaluation got.
func (s *Session) Evaluate(ctx context.Context, q query.Query, r diag.Reporter) Result {
	res := Result{Line: q.Line, Verb: q.Verb, Flags: q.Flags}
	if q.Expect != nil {
		res.Expect = q.Expect.Text
	}
	_, span := trace.Start(ctx, trace.ScopeQuery, q.Verb.String())
	defer func() {
		span.WithExtra("line", strconv.FormatUint(uint64(q.Line), 10)).
			WithExtra("mark", res.Mark.String()).
			End(res.Value)
	}()

	scopeName := ""
	if q.Scope != nil {
		scopeName = q.Scope.Text
	}
	scope, err := s.Scope(scopeName)
	if err != nil {
		diag.ReportError(r, diag.QueryUnknownScope, q.Scope.Span, err.Error()).Emit()
		res.Mark = MarkError
		return res
	}
	res.Scope = scope.ScopeName()

	refs := make([]types.TypeRef, 0, len(q.Operands))
	for _, op := range q.Operands {
		ref, ok := s.parseType(op, scope, r)
		if !ok {
			res.Mark = MarkError
			return res
		}
		refs = append(refs, ref)
		res.Operands = append(res.Operands, ref.CanonicalText())
	}

	norm := s.resolver.Normalizer()
	switch q.Verb {
	case query.VerbPromote:
		s.promote(&res, q, refs, scope, r)
	case query.VerbAssign:
		s.assign(&res, q, refs, scope, r)
	case query.VerbBox:
		if q.Flags.Has(query.FlagEraseGenerics) {
			res.Value = textOf(norm.BoxEraseGenerics(refs[0], scope))
		} else {
			res.Value = textOf(norm.Box(refs[0], scope))
		}
	case query.VerbUnbox:
		if q.Flags.Has(query.FlagKeepGenerics) {
			res.Value = textOf(norm.UnboxKeepGenerics(refs[0]))
		} else {
			res.Value = textOf(norm.Unbox(refs[0]))
		}
	case query.VerbClassify:
		res.Value = s.resolver.Classify(refs[0]).String()
	default:
		res.Mark = MarkError
		return res
	}

	if q.Expect != nil {
		s.expect(&res, q, scope, r)
	}
	return res
}

func (s *Session) parseType(tok query.Token, scope *universe.Scope, r diag.Reporter) (types.TypeRef, bool) {
	ref, err := s.setup.Universe.Parse(tok.Text, scope)
	if err != nil {
		diag.ReportError(r, diag.QueryBadType, tok.Span, err.Error()).Emit()
		return nil, false
	}
	return ref, true
}

func (s *Session) promote(res *Result, q query.Query, refs []types.TypeRef, scope *universe.Scope, r diag.Reporter) {
	var p types.Promotion
	if q.Op != nil {
		op, _ := types.ParseBinaryOp(q.Op.Text)
		res.Op = op.String()
		p = s.resolver.ResolveBinary(types.BinaryExpr{Op: op, Left: refs[0], Right: refs[1], Scope: scope})
	} else {
		p = s.resolver.PromoteArithmetic(refs[0], refs[1], scope)
	}
	res.Detail = p.Outcome.String()
	switch p.Outcome {
	case types.OutcomeResolved:
		res.Value = p.Type.CanonicalText()
		res.Detail = fmt.Sprintf("rank %d", p.Rank)
		return
	case types.OutcomeNotArithmetic:
		diag.ReportInfo(r, diag.ResolveNotArithmetic, q.Op.Span,
			fmt.Sprintf("%s does not take its result type from numeric promotion", res.Op)).Emit()
	case types.OutcomeUnknownOperand:
		diag.ReportInfo(r, diag.ResolveUnknownOperand, q.Span, "an operand has no type").Emit()
	case types.OutcomeUnrankedOperand:
		ranks := [2]types.Rank{p.LeftRank, p.RightRank}
		for i, ref := range refs {
			if ranks[i] != types.NoRank {
				continue
			}
			reportUnranked(r, q.Operands[i].Span, ref, scope)
		}
	}
	res.Value = query.NoneExpect
}

func reportUnranked(r diag.Reporter, sp source.Span, ref types.TypeRef, scope *universe.Scope) {
	if c, ok := ref.(*universe.ClassType); ok && !c.Resolved() {
		diag.ReportInfo(r, diag.ResolveUnknownOperand, sp,
			fmt.Sprintf("%s is not declared in scope %s", c.CanonicalText(), scope.ScopeName())).Emit()
		return
	}
	b := diag.ReportInfo(r, diag.ResolveUnrankedOperand, sp,
		fmt.Sprintf("%s has no arithmetic rank", ref.CanonicalText()))
	if k, ok := ref.Primitive(); ok && k.BoxedName() != "" {
		b.WithNote(sp, fmt.Sprintf("primitive operands are not ranked; use %s", k.BoxedName()))
	}
	b.Emit()
}

func (s *Session) assign(res *Result, q query.Query, refs []types.TypeRef, scope *universe.Scope, r diag.Reporter) {
	a := s.resolver.CheckAssignable(refs[0], refs[1], scope)
	res.Value = strconv.FormatBool(a.Assignable)
	res.Detail = a.Rule.String()
	if a.Rule == types.RuleStructural {
		res.Detail += "/" + a.Verdict.String()
		if a.Verdict == types.VerdictUnknown {
			diag.ReportInfo(r, diag.ResolveIndeterminate, q.Span,
				fmt.Sprintf("cannot decide whether %s accepts %s; treated as not assignable", res.Operands[0], res.Operands[1])).Emit()
		}
	}
}

func (s *Session) expect(res *Result, q query.Query, scope *universe.Scope, r diag.Reporter) {
	want := q.Expect.Text
	switch q.Verb {
	case query.VerbPromote, query.VerbBox, query.VerbUnbox:
		if !(q.Verb == query.VerbPromote && want == query.NoneExpect) {
			ref, ok := s.parseType(*q.Expect, scope, r)
			if !ok {
				res.Mark = MarkError
				return
			}
			want = ref.CanonicalText()
		}
	}
	if want == res.Value {
		res.Mark = MarkPass
		return
	}
	res.Mark = MarkFail
	diag.ReportError(r, diag.ExpectMismatch, q.Expect.Span,
		fmt.Sprintf("%s: expected %s, got %s", q.Verb, want, res.Value)).
		WithNote(q.Span, res.Detail).
		Emit()
}

func textOf(ref types.TypeRef) string {
	if ref == nil {
		return query.NoneExpect
	}
	return ref.CanonicalText()
}
