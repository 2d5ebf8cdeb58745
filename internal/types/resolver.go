package types

// TextualName is the canonical name of the textual class.
const TextualName = "java.lang.String"

// Resolver classifies references, promotes arithmetic operands and decides
// assignability. A Resolver holds no mutable state and may be shared.
type Resolver struct {
	ranks   *RankTable
	norm    *Normalizer
	factory Factory
	oracle  Oracle
	textual string
}

type resolverConfig struct {
	ranks   *RankTable
	boxes   *BoxTable
	textual string
}

// Option customizes a Resolver.
type Option func(*resolverConfig)

// WithRanks replaces the promotion ladder.
func WithRanks(t *RankTable) Option {
	return func(c *resolverConfig) {
		if t != nil {
			c.ranks = t
		}
	}
}

// WithBoxes replaces the wrapper table.
func WithBoxes(t *BoxTable) Option {
	return func(c *resolverConfig) {
		if t != nil {
			c.boxes = t
		}
	}
}

// WithTextual replaces the textual class name.
func WithTextual(name string) Option {
	return func(c *resolverConfig) {
		if name != "" {
			c.textual = name
		}
	}
}

// NewResolver builds a resolver over the host collaborators.
func NewResolver(factory Factory, oracle Oracle, opts ...Option) *Resolver {
	cfg := resolverConfig{
		ranks:   defaultRanks,
		boxes:   defaultBoxes,
		textual: TextualName,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Resolver{
		ranks:   cfg.ranks,
		norm:    NewNormalizer(cfg.boxes, factory, oracle),
		factory: factory,
		oracle:  oracle,
		textual: cfg.textual,
	}
}

// Ranks returns the promotion ladder in use.
func (r *Resolver) Ranks() *RankTable { return r.ranks }

// Normalizer returns the boxing normalizer in use.
func (r *Resolver) Normalizer() *Normalizer { return r.norm }

// Textual returns the textual class name in use.
func (r *Resolver) Textual() string { return r.textual }

// Classify derives the coercion tag of ref.
func (r *Resolver) Classify(ref TypeRef) Tag {
	if ref == nil {
		return TagInvalid
	}
	if kind, ok := ref.Primitive(); ok {
		if kind.Numeric() {
			return TagPrimitiveNumeric
		}
		return TagPrimitiveOther
	}
	name := ref.CanonicalText()
	if _, ok := r.ranks.RankOf(name); ok {
		return TagBoxedNumeric
	}
	if name == r.textual {
		return TagTextual
	}
	return TagOtherClass
}

// Outcome explains the result of an arithmetic promotion.
type Outcome uint8

const (
	OutcomeResolved Outcome = iota
	OutcomeUnknownOperand
	OutcomeUnrankedOperand
	OutcomeNotArithmetic
)

func (o Outcome) String() string {
	switch o {
	case OutcomeResolved:
		return "resolved"
	case OutcomeUnknownOperand:
		return "unknown-operand"
	case OutcomeUnrankedOperand:
		return "unranked-operand"
	case OutcomeNotArithmetic:
		return "not-arithmetic"
	default:
		return "unknown"
	}
}

// Promotion is the detailed result of PromoteArithmetic.
type Promotion struct {
	Type      TypeRef
	Outcome   Outcome
	LeftRank  Rank
	RightRank Rank
	Rank      Rank
}

// ResolveArithmetic returns the promoted result type of left op right, or
// false when either operand is unknown or unranked. scope is the resolution
// scope of the left operand's expression.
func (r *Resolver) ResolveArithmetic(left, right TypeRef, scope Scope) (TypeRef, bool) {
	p := r.PromoteArithmetic(left, right, scope)
	return p.Type, p.Outcome == OutcomeResolved
}

// PromoteArithmetic is ResolveArithmetic with the reason attached.
func (r *Resolver) PromoteArithmetic(left, right TypeRef, scope Scope) Promotion {
	if left == nil || right == nil {
		return Promotion{Outcome: OutcomeUnknownOperand}
	}
	lr, lok := r.ranks.RankOf(left.CanonicalText())
	rr, rok := r.ranks.RankOf(right.CanonicalText())
	if !lok || !rok {
		return Promotion{Outcome: OutcomeUnrankedOperand, LeftRank: lr, RightRank: rr}
	}
	rank := max(lr, rr)
	name, ok := r.ranks.ResultNameOf(rank)
	if !ok || r.factory == nil {
		// unreachable with a validated table
		return Promotion{Outcome: OutcomeUnrankedOperand, LeftRank: lr, RightRank: rr}
	}
	res := r.factory.TypeByName(name, scope)
	if res == nil {
		return Promotion{Outcome: OutcomeUnknownOperand, LeftRank: lr, RightRank: rr}
	}
	return Promotion{
		Type:      res,
		Outcome:   OutcomeResolved,
		LeftRank:  lr,
		RightRank: rr,
		Rank:      rank,
	}
}

// BinaryExpr is the operand view of a binary expression.
type BinaryExpr struct {
	Op    BinaryOp
	Left  TypeRef
	Right TypeRef
	// Scope is the resolution scope of the left operand.
	Scope Scope
}

// ResolveBinary promotes arithmetic expressions and reports
// OutcomeNotArithmetic for every other operator.
func (r *Resolver) ResolveBinary(expr BinaryExpr) Promotion {
	if !expr.Op.Promotes() {
		return Promotion{Outcome: OutcomeNotArithmetic}
	}
	return r.PromoteArithmetic(expr.Left, expr.Right, expr.Scope)
}

// Rule names the assignability rule that decided a check.
type Rule uint8

const (
	RuleNone Rule = iota
	RuleNumericTarget
	RuleTextualTarget
	RuleStructural
)

func (r Rule) String() string {
	switch r {
	case RuleNumericTarget:
		return "numeric-target"
	case RuleTextualTarget:
		return "textual-target"
	case RuleStructural:
		return "structural"
	default:
		return "none"
	}
}

// Assignability is the detailed result of CheckAssignable.
type Assignability struct {
	Assignable bool
	Rule       Rule
	// Verdict is the oracle answer; set only for RuleStructural.
	Verdict Verdict
}

// Assignable reports whether a value of source type may be assigned to a
// variable of target type. Undecidable cases are false.
func (r *Resolver) Assignable(target, source TypeRef, scope Scope) bool {
	return r.CheckAssignable(target, source, scope).Assignable
}

// CheckAssignable applies the rules in order: numeric target, textual
// target, then the oracle on erased forms.
func (r *Resolver) CheckAssignable(target, source TypeRef, scope Scope) Assignability {
	if target == nil || source == nil {
		return Assignability{Rule: RuleNone, Verdict: VerdictUnknown}
	}
	tt := r.Classify(target)
	st := r.Classify(source)

	if tt.Numeric() {
		return Assignability{
			Assignable: st.Numeric() || source.CanonicalText() == r.textual,
			Rule:       RuleNumericTarget,
		}
	}
	if tt == TagTextual && st.Numeric() {
		return Assignability{Assignable: true, Rule: RuleTextualTarget}
	}

	source = r.norm.BoxEraseGenerics(source, scope)
	if r.oracle == nil || source == nil {
		return Assignability{Rule: RuleStructural, Verdict: VerdictUnknown}
	}
	v := r.oracle.Assignable(r.oracle.Erase(target), r.oracle.Erase(source))
	return Assignability{Assignable: v.Bool(), Rule: RuleStructural, Verdict: v}
}
