package types

// Factory materializes class references by fully-qualified name. It must be
// deterministic for a given (name, scope) pair within one session.
type Factory interface {
	TypeByName(name string, scope Scope) TypeRef
}

// Verdict is the answer of a structural assignability check.
type Verdict uint8

const (
	VerdictUnknown Verdict = iota
	VerdictNo
	VerdictYes
)

func (v Verdict) String() string {
	switch v {
	case VerdictNo:
		return "no"
	case VerdictYes:
		return "yes"
	default:
		return "unknown"
	}
}

// Bool fails closed: only VerdictYes is true.
func (v Verdict) Bool() bool {
	return v == VerdictYes
}

// Oracle decides structural assignability for references the numeric and
// textual rules do not cover.
type Oracle interface {
	// Erase strips generic parameters, returning the raw form of ref.
	Erase(ref TypeRef) TypeRef
	// Assignable reports whether a value of erased source type can be
	// stored in a variable of erased target type.
	Assignable(target, source TypeRef) Verdict
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func(name string, scope Scope) TypeRef

// TypeByName calls f.
func (f FactoryFunc) TypeByName(name string, scope Scope) TypeRef {
	return f(name, scope)
}
