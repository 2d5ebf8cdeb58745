package types

import "fmt"

// TypeRef is an opaque handle to a type owned by the host front end.
// Implementations must be comparable by CanonicalText.
type TypeRef interface {
	// CanonicalText returns the fully-qualified name, including type
	// arguments when the reference carries them.
	CanonicalText() string
	// Primitive reports the primitive kind for primitive references.
	Primitive() (PrimitiveKind, bool)
}

// Scope is the resolution context handed to the factory and the oracle.
type Scope interface {
	ScopeName() string
}

// Tag classifies a TypeRef for numeric/textual coercion purposes.
type Tag uint8

const (
	TagInvalid Tag = iota
	TagPrimitiveNumeric
	TagPrimitiveOther
	TagBoxedNumeric
	TagTextual
	TagOtherClass
)

func (t Tag) String() string {
	switch t {
	case TagInvalid:
		return "invalid"
	case TagPrimitiveNumeric:
		return "primitive-numeric"
	case TagPrimitiveOther:
		return "primitive-other"
	case TagBoxedNumeric:
		return "boxed-numeric"
	case TagTextual:
		return "textual"
	case TagOtherClass:
		return "other-class"
	default:
		return fmt.Sprintf("Tag(%d)", t)
	}
}

// ParseTag converts the String form back to a Tag.
func ParseTag(s string) (Tag, bool) {
	for t := TagPrimitiveNumeric; t <= TagOtherClass; t++ {
		if t.String() == s {
			return t, true
		}
	}
	return TagInvalid, false
}

// Numeric reports whether the tag takes part in arithmetic coercion.
func (t Tag) Numeric() bool {
	return t == TagPrimitiveNumeric || t == TagBoxedNumeric
}

// PrimitiveKind enumerates primitive kinds that have a boxed counterpart.
type PrimitiveKind uint8

const (
	PrimInvalid PrimitiveKind = iota
	PrimBoolean
	PrimByte
	PrimChar
	PrimShort
	PrimInt
	PrimLong
	PrimFloat
	PrimDouble
)

// PrimitiveKinds lists every valid kind in declaration order.
var PrimitiveKinds = [...]PrimitiveKind{
	PrimBoolean, PrimByte, PrimChar, PrimShort, PrimInt, PrimLong, PrimFloat, PrimDouble,
}

func (k PrimitiveKind) String() string {
	switch k {
	case PrimBoolean:
		return "boolean"
	case PrimByte:
		return "byte"
	case PrimChar:
		return "char"
	case PrimShort:
		return "short"
	case PrimInt:
		return "int"
	case PrimLong:
		return "long"
	case PrimFloat:
		return "float"
	case PrimDouble:
		return "double"
	default:
		return fmt.Sprintf("PrimitiveKind(%d)", k)
	}
}

// BoxedName returns the wrapper class of the kind, or "" for PrimInvalid.
func (k PrimitiveKind) BoxedName() string {
	switch k {
	case PrimBoolean:
		return "java.lang.Boolean"
	case PrimByte:
		return "java.lang.Byte"
	case PrimChar:
		return "java.lang.Character"
	case PrimShort:
		return "java.lang.Short"
	case PrimInt:
		return "java.lang.Integer"
	case PrimLong:
		return "java.lang.Long"
	case PrimFloat:
		return "java.lang.Float"
	case PrimDouble:
		return "java.lang.Double"
	default:
		return ""
	}
}

// Numeric reports whether the kind is numeric. char counts as numeric.
func (k PrimitiveKind) Numeric() bool {
	return k >= PrimByte && k <= PrimDouble
}

// ParsePrimitiveKind looks a kind up by keyword.
func ParsePrimitiveKind(s string) (PrimitiveKind, bool) {
	for _, k := range PrimitiveKinds {
		if k.String() == s {
			return k, true
		}
	}
	return PrimInvalid, false
}

// PrimitiveType is the core-owned reference for a primitive kind.
type PrimitiveType struct {
	kind PrimitiveKind
}

var primitives = func() [len(PrimitiveKinds) + 1]*PrimitiveType {
	var out [len(PrimitiveKinds) + 1]*PrimitiveType
	for _, k := range PrimitiveKinds {
		out[k] = &PrimitiveType{kind: k}
	}
	return out
}()

// Primitive returns the shared reference for kind, or nil for invalid kinds.
func Primitive(kind PrimitiveKind) *PrimitiveType {
	if int(kind) >= len(primitives) {
		return nil
	}
	return primitives[kind]
}

// CanonicalText returns the keyword of the kind.
func (p *PrimitiveType) CanonicalText() string {
	return p.kind.String()
}

// Primitive returns the kind.
func (p *PrimitiveType) Primitive() (PrimitiveKind, bool) {
	return p.kind, true
}

func (p *PrimitiveType) String() string {
	return p.kind.String()
}

// IsPrimitive reports whether ref is a primitive reference.
func IsPrimitive(ref TypeRef) bool {
	if ref == nil {
		return false
	}
	_, ok := ref.Primitive()
	return ok
}
