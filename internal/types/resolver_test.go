package types

import "testing"

func newTestResolver() (*Resolver, *testHost) {
	host := newTestHost()
	return NewResolver(host, host), host
}

func numericClasses() []string {
	out := make([]string, 0, DefaultRanks().Len())
	for _, e := range DefaultRanks().Entries() {
		out = append(out, e.Name)
	}
	return out
}

func numericRefs() []TypeRef {
	var out []TypeRef
	for _, name := range numericClasses() {
		out = append(out, class(name))
	}
	for _, k := range PrimitiveKinds {
		if k.Numeric() {
			out = append(out, Primitive(k))
		}
	}
	return out
}

func TestResolveArithmeticCommutativeAndMax(t *testing.T) {
	r, _ := newTestResolver()
	ranks := DefaultRanks()
	scope := testScope("all")
	for _, a := range numericClasses() {
		for _, b := range numericClasses() {
			ab, ok := r.ResolveArithmetic(class(a), class(b), scope)
			if !ok {
				t.Fatalf("%s + %s: no result", a, b)
			}
			ba, ok := r.ResolveArithmetic(class(b), class(a), scope)
			if !ok || ab.CanonicalText() != ba.CanonicalText() {
				t.Fatalf("%s + %s not commutative: %v vs %v", a, b, ab, ba)
			}
			ra, _ := ranks.RankOf(a)
			rb, _ := ranks.RankOf(b)
			want, _ := ranks.ResultNameOf(max(ra, rb))
			if ab.CanonicalText() != want {
				t.Fatalf("%s + %s: expected %s, got %s", a, b, want, ab.CanonicalText())
			}
		}
	}
}

func TestResolveArithmeticScenarios(t *testing.T) {
	r, _ := newTestResolver()
	scope := testScope("all")
	cases := []struct {
		left, right string
		want        string
		ok          bool
	}{
		{"java.lang.Integer", "java.lang.Double", "java.lang.Double", true},
		{"java.lang.Byte", "java.lang.Short", "java.lang.Integer", true},
		{"java.lang.Character", "java.lang.Byte", "java.lang.Integer", true},
		{"java.lang.Long", "java.lang.Integer", "java.lang.Long", true},
		{"java.math.BigInteger", "java.lang.Long", "java.lang.BigInteger", true},
		{"java.lang.Float", "java.math.BigDecimal", "java.math.Double", true},
		{"java.lang.Boolean", "java.lang.Integer", "", false},
		{"java.lang.Integer", "java.util.List", "", false},
		{"java.lang.String", "java.lang.String", "", false},
	}
	for _, tc := range cases {
		got, ok := r.ResolveArithmetic(class(tc.left), class(tc.right), scope)
		if ok != tc.ok {
			t.Fatalf("%s + %s: expected ok=%v, got %v", tc.left, tc.right, tc.ok, ok)
		}
		if ok && got.CanonicalText() != tc.want {
			t.Fatalf("%s + %s: expected %s, got %s", tc.left, tc.right, tc.want, got.CanonicalText())
		}
	}
}

func TestResolveArithmeticUnknownOperand(t *testing.T) {
	r, host := newTestResolver()
	p := r.PromoteArithmetic(nil, class("java.lang.Integer"), testScope("all"))
	if p.Outcome != OutcomeUnknownOperand || p.Type != nil {
		t.Fatalf("expected unknown operand, got %+v", p)
	}
	if _, ok := r.ResolveArithmetic(class("java.lang.Integer"), nil, testScope("all")); ok {
		t.Fatalf("nil right operand must not resolve")
	}
	if len(host.created) != 0 {
		t.Fatalf("factory called for unknown operands: %v", host.created)
	}
}

func TestResolveArithmeticPrimitivesAreUnranked(t *testing.T) {
	r, _ := newTestResolver()
	p := r.PromoteArithmetic(Primitive(PrimInt), Primitive(PrimDouble), testScope("all"))
	if p.Outcome != OutcomeUnrankedOperand {
		t.Fatalf("expected unranked outcome for primitives, got %v", p.Outcome)
	}
}

func TestResolveBinaryOnlyPromotesArithmetic(t *testing.T) {
	r, _ := newTestResolver()
	expr := BinaryExpr{Left: class("java.lang.Integer"), Right: class("java.lang.Long"), Scope: testScope("all")}
	for _, op := range []BinaryOp{OpAdd, OpSub, OpMul, OpDiv} {
		expr.Op = op
		p := r.ResolveBinary(expr)
		if p.Outcome != OutcomeResolved || p.Type.CanonicalText() != "java.lang.Long" {
			t.Fatalf("%s: expected java.lang.Long, got %+v", op, p)
		}
	}
	for _, op := range []BinaryOp{OpMod, OpEq, OpNotEq, OpLogicalAnd, OpInvalid} {
		expr.Op = op
		if p := r.ResolveBinary(expr); p.Outcome != OutcomeNotArithmetic {
			t.Fatalf("%s: expected not-arithmetic, got %v", op, p.Outcome)
		}
	}
}

func TestClassify(t *testing.T) {
	r, _ := newTestResolver()
	cases := []struct {
		ref  TypeRef
		want Tag
	}{
		{Primitive(PrimInt), TagPrimitiveNumeric},
		{Primitive(PrimChar), TagPrimitiveNumeric},
		{Primitive(PrimBoolean), TagPrimitiveOther},
		{class("java.lang.Integer"), TagBoxedNumeric},
		{class("java.math.BigDecimal"), TagBoxedNumeric},
		{class("java.lang.Boolean"), TagOtherClass},
		{class("java.lang.String"), TagTextual},
		{generic("java.util.List", "java.lang.String"), TagOtherClass},
		{nil, TagInvalid},
	}
	for _, tc := range cases {
		if got := r.Classify(tc.ref); got != tc.want {
			t.Fatalf("%v: expected %s, got %s", tc.ref, tc.want, got)
		}
	}
}

func TestAssignableTextAndNumbers(t *testing.T) {
	r, _ := newTestResolver()
	scope := testScope("all")
	text := class("java.lang.String")
	for _, n := range numericRefs() {
		if !r.Assignable(text, n, scope) {
			t.Fatalf("String <- %s should be assignable", n.CanonicalText())
		}
		if !r.Assignable(n, text, scope) {
			t.Fatalf("%s <- String should be assignable", n.CanonicalText())
		}
	}
}

func TestAssignableNumericBothDirections(t *testing.T) {
	r, _ := newTestResolver()
	scope := testScope("all")
	for _, a := range numericRefs() {
		for _, b := range numericRefs() {
			if !r.Assignable(a, b, scope) {
				t.Fatalf("%s <- %s should be assignable", a.CanonicalText(), b.CanonicalText())
			}
		}
	}
}

func TestAssignableNumericTargetRejectsOtherClasses(t *testing.T) {
	r, _ := newTestResolver()
	a := r.CheckAssignable(class("java.lang.Integer"), class("java.util.List"), testScope("all"))
	if a.Assignable || a.Rule != RuleNumericTarget {
		t.Fatalf("expected numeric-target rejection, got %+v", a)
	}
}

func TestAssignableStructuralFallback(t *testing.T) {
	r, _ := newTestResolver()
	scope := testScope("all")
	a := r.CheckAssignable(generic("java.util.List", "java.lang.String"), generic("java.util.ArrayList", "java.lang.Integer"), scope)
	if !a.Assignable || a.Rule != RuleStructural || a.Verdict != VerdictYes {
		t.Fatalf("expected erased structural success, got %+v", a)
	}
	if r.Assignable(class("java.util.List"), class("java.lang.String"), scope) {
		t.Fatalf("List <- String must be rejected")
	}
	if !r.Assignable(class("java.lang.Object"), Primitive(PrimBoolean), scope) {
		t.Fatalf("Object <- boolean must box the source")
	}
	if !r.Assignable(Primitive(PrimBoolean), class("java.lang.Boolean"), scope) {
		t.Fatalf("boolean <- Boolean must reach the oracle")
	}
}

func TestAssignableFailsClosedOnUnknownVerdict(t *testing.T) {
	r, host := newTestResolver()
	host.unknown["com.acme.Missing"] = true
	a := r.CheckAssignable(class("java.lang.Object"), class("com.acme.Missing"), testScope("all"))
	if a.Assignable || a.Verdict != VerdictUnknown {
		t.Fatalf("expected fail-closed unknown verdict, got %+v", a)
	}
	if r.Assignable(nil, class("java.lang.Integer"), nil) {
		t.Fatalf("nil target must not be assignable")
	}
}

func TestCustomTextual(t *testing.T) {
	host := newTestHost()
	r := NewResolver(host, host, WithTextual("groovy.lang.GString"))
	if r.Classify(class("groovy.lang.GString")) != TagTextual {
		t.Fatalf("custom textual class not recognized")
	}
	if !r.Assignable(class("groovy.lang.GString"), class("java.lang.Long"), nil) {
		t.Fatalf("custom textual class must accept numbers")
	}
}
