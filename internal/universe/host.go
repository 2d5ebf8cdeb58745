package universe

import "numtype/internal/types"

var (
	_ types.Factory = (*Universe)(nil)
	_ types.Oracle  = (*Universe)(nil)
	_ types.Scope   = (*Scope)(nil)
)

// scopeOf falls back to the default scope for foreign or nil scopes.
func (u *Universe) scopeOf(scope types.Scope) *Scope {
	if s, ok := scope.(*Scope); ok && s != nil {
		return s
	}
	return u.DefaultScope()
}

// TypeByName implements types.Factory. Names not visible in scope produce
// unresolved references rather than failing.
func (u *Universe) TypeByName(name string, scope types.Scope) types.TypeRef {
	s := u.scopeOf(scope)
	_, ok := u.visible(name, s)
	return u.types.Intern(s, name, nil, ok)
}

// ClassType interns name<args> in scope.
func (u *Universe) ClassType(name string, args []types.TypeRef, scope *Scope) *ClassType {
	if scope == nil {
		scope = u.DefaultScope()
	}
	_, ok := u.visible(name, scope)
	return u.types.Intern(scope, name, args, ok)
}

// Erase implements types.Oracle.
func (u *Universe) Erase(ref types.TypeRef) types.TypeRef {
	c, ok := ref.(*ClassType)
	if !ok || len(c.args) == 0 {
		return ref
	}
	return u.types.Intern(c.scope, c.name, nil, c.resolved)
}

// Assignable implements types.Oracle. Unresolved or foreign references
// yield VerdictUnknown.
func (u *Universe) Assignable(target, source types.TypeRef) types.Verdict {
	if target == nil || source == nil {
		return types.VerdictUnknown
	}
	tk, tprim := target.Primitive()
	sk, sprim := source.Primitive()
	switch {
	case tprim && sprim:
		return verdict(widens(sk, tk))
	case tprim:
		sc, ok := source.(*ClassType)
		if !ok || !sc.resolved {
			return types.VerdictUnknown
		}
		k, ok := types.DefaultBoxes().Unboxed(sc.name)
		return verdict(ok && widens(k, tk))
	case sprim:
		tc, ok := target.(*ClassType)
		if !ok || !tc.resolved {
			return types.VerdictUnknown
		}
		boxed := sk.BoxedName()
		return verdict(boxed != "" && u.subclass(boxed, tc.name, tc.scope))
	default:
		tc, tok := target.(*ClassType)
		sc, sok := source.(*ClassType)
		if !tok || !sok || !tc.resolved || !sc.resolved {
			return types.VerdictUnknown
		}
		if tc.name == ObjectName {
			return types.VerdictYes
		}
		return verdict(u.subclass(sc.name, tc.name, sc.scope))
	}
}

func verdict(ok bool) types.Verdict {
	if ok {
		return types.VerdictYes
	}
	return types.VerdictNo
}

// widening primitive conversions
var wideningTable = map[types.PrimitiveKind][]types.PrimitiveKind{
	types.PrimByte:  {types.PrimShort, types.PrimInt, types.PrimLong, types.PrimFloat, types.PrimDouble},
	types.PrimShort: {types.PrimInt, types.PrimLong, types.PrimFloat, types.PrimDouble},
	types.PrimChar:  {types.PrimInt, types.PrimLong, types.PrimFloat, types.PrimDouble},
	types.PrimInt:   {types.PrimLong, types.PrimFloat, types.PrimDouble},
	types.PrimLong:  {types.PrimFloat, types.PrimDouble},
	types.PrimFloat: {types.PrimDouble},
}

func widens(from, to types.PrimitiveKind) bool {
	if from == to {
		return true
	}
	for _, k := range wideningTable[from] {
		if k == to {
			return true
		}
	}
	return false
}
