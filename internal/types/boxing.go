package types

import (
	"fmt"
	"sort"
	"strings"
)

// BoxTable maps wrapper class names to their primitive kinds.
type BoxTable struct {
	unboxed map[string]PrimitiveKind
}

// NewBoxTable validates that every primitive kind appears exactly once.
func NewBoxTable(boxed map[string]PrimitiveKind) (*BoxTable, error) {
	t := &BoxTable{unboxed: make(map[string]PrimitiveKind, len(boxed))}
	seen := make(map[PrimitiveKind]string, len(boxed))
	for name, kind := range boxed {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, errEmptyName
		}
		if kind == PrimInvalid || int(kind) > len(PrimitiveKinds) {
			return nil, fmt.Errorf("%s: invalid primitive kind %d", name, kind)
		}
		if other, dup := seen[kind]; dup {
			return nil, fmt.Errorf("%s and %s both unbox to %s", other, name, kind)
		}
		seen[kind] = name
		t.unboxed[name] = kind
	}
	for _, kind := range PrimitiveKinds {
		if _, ok := seen[kind]; !ok {
			return nil, fmt.Errorf("no wrapper class for %s", kind)
		}
	}
	return t, nil
}

// Unboxed returns the primitive kind for a wrapper class name.
func (t *BoxTable) Unboxed(name string) (PrimitiveKind, bool) {
	if t == nil {
		return PrimInvalid, false
	}
	k, ok := t.unboxed[name]
	return k, ok
}

// Names returns the wrapper class names in primitive-kind order.
func (t *BoxTable) Names() []string {
	if t == nil {
		return nil
	}
	out := make([]string, 0, len(t.unboxed))
	for name := range t.unboxed {
		out = append(out, name)
	}
	sort.Slice(out, func(i, j int) bool {
		return t.unboxed[out[i]] < t.unboxed[out[j]]
	})
	return out
}

var defaultBoxes = func() *BoxTable {
	boxed := make(map[string]PrimitiveKind, len(PrimitiveKinds))
	for _, k := range PrimitiveKinds {
		boxed[k.BoxedName()] = k
	}
	t, err := NewBoxTable(boxed)
	if err != nil {
		panic(fmt.Errorf("types: default box table: %w", err))
	}
	return t
}()

// DefaultBoxes returns the built-in wrapper table.
func DefaultBoxes() *BoxTable {
	return defaultBoxes
}

// Normalizer converts between primitive kinds and wrapper classes.
type Normalizer struct {
	boxes   *BoxTable
	factory Factory
	oracle  Oracle
}

// NewNormalizer binds a box table to the host collaborators.
func NewNormalizer(boxes *BoxTable, factory Factory, oracle Oracle) *Normalizer {
	if boxes == nil {
		boxes = defaultBoxes
	}
	return &Normalizer{boxes: boxes, factory: factory, oracle: oracle}
}

// Unbox returns the primitive for a wrapper class; any other reference is
// returned erased.
func (n *Normalizer) Unbox(ref TypeRef) TypeRef {
	if ref == nil {
		return nil
	}
	if p := n.unboxed(ref); p != nil {
		return p
	}
	return n.erase(ref)
}

// UnboxKeepGenerics is Unbox without erasure on the fallback path.
func (n *Normalizer) UnboxKeepGenerics(ref TypeRef) TypeRef {
	if ref == nil {
		return nil
	}
	if p := n.unboxed(ref); p != nil {
		return p
	}
	return ref
}

// Box materializes the wrapper class of a primitive in scope. Non-primitive
// references are returned as is, generics included.
func (n *Normalizer) Box(ref TypeRef, scope Scope) TypeRef {
	if boxed := n.boxed(ref, scope); boxed != nil {
		return boxed
	}
	return ref
}

// BoxEraseGenerics is Box with erasure on the non-primitive path.
func (n *Normalizer) BoxEraseGenerics(ref TypeRef, scope Scope) TypeRef {
	if ref == nil {
		return nil
	}
	if boxed := n.boxed(ref, scope); boxed != nil {
		return boxed
	}
	return n.erase(ref)
}

func (n *Normalizer) unboxed(ref TypeRef) TypeRef {
	if IsPrimitive(ref) {
		return nil
	}
	kind, ok := n.boxes.Unboxed(ref.CanonicalText())
	if !ok {
		return nil
	}
	p := Primitive(kind)
	if p == nil {
		return nil
	}
	return p
}

func (n *Normalizer) boxed(ref TypeRef, scope Scope) TypeRef {
	if ref == nil || n.factory == nil {
		return nil
	}
	kind, ok := ref.Primitive()
	if !ok {
		return nil
	}
	name := kind.BoxedName()
	if name == "" {
		return nil
	}
	return n.factory.TypeByName(name, scope)
}

func (n *Normalizer) erase(ref TypeRef) TypeRef {
	if n.oracle == nil {
		return ref
	}
	return n.oracle.Erase(ref)
}
