package universe

import (
	"fmt"
	"strings"
	"sync"

	"fortio.org/safecast"
	"github.com/cespare/xxhash/v2"

	"numtype/internal/types"
)

// ClassType is a class-shaped types.TypeRef, optionally parameterized.
type ClassType struct {
	name     string
	args     []types.TypeRef
	scope    *Scope
	resolved bool
	text     string
}

// CanonicalText implements types.TypeRef.
func (c *ClassType) CanonicalText() string { return c.text }

// Primitive implements types.TypeRef.
func (c *ClassType) Primitive() (types.PrimitiveKind, bool) { return types.PrimInvalid, false }

// Name returns the fully-qualified class name without arguments.
func (c *ClassType) Name() string { return c.name }

// Args returns the type arguments.
func (c *ClassType) Args() []types.TypeRef { return c.args }

// Scope returns the scope the reference was created in.
func (c *ClassType) Scope() *Scope { return c.scope }

// Resolved reports whether the class was visible in its scope.
func (c *ClassType) Resolved() bool { return c.resolved }

func (c *ClassType) String() string { return c.text }

func classText(name string, args []types.TypeRef) string {
	if len(args) == 0 {
		return name
	}
	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteByte('<')
	for i, a := range args {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(a.CanonicalText())
	}
	sb.WriteByte('>')
	return sb.String()
}

// Interner provides stable class references per (scope, canonical text).
// References are compared by pointer, so a reference is never replaced once
// handed out.
type Interner struct {
	mu    sync.RWMutex
	count uint32
	index map[uint64][]*ClassType // xxhash of scope and text; collisions chain
}

// NewInterner constructs an empty interner.
func NewInterner() *Interner {
	return &Interner{index: make(map[uint64][]*ClassType, 64)}
}

func internKey(scope *Scope, text string) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(scope.ScopeName())
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(text)
	return d.Sum64()
}

// Intern returns the reference for name<args> in scope, creating it once.
func (in *Interner) Intern(scope *Scope, name string, args []types.TypeRef, resolved bool) *ClassType {
	text := classText(name, args)
	key := internKey(scope, text)

	in.mu.RLock()
	if c := in.find(key, scope, text); c != nil {
		in.mu.RUnlock()
		return c
	}
	in.mu.RUnlock()

	in.mu.Lock()
	defer in.mu.Unlock()
	if c := in.find(key, scope, text); c != nil {
		return c
	}
	next, err := safecast.Conv[uint32](uint64(in.count) + 1)
	if err != nil {
		panic(fmt.Errorf("interned reference count overflow: %w", err))
	}
	c := &ClassType{
		name:     name,
		args:     append([]types.TypeRef(nil), args...),
		scope:    scope,
		resolved: resolved,
		text:     text,
	}
	in.count = next
	in.index[key] = append(in.index[key], c)
	return c
}

// find must be called with the lock held.
func (in *Interner) find(key uint64, scope *Scope, text string) *ClassType {
	for _, c := range in.index[key] {
		if c.scope == scope && c.text == text {
			return c
		}
	}
	return nil
}

// Len reports the number of interned references.
func (in *Interner) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return int(in.count)
}
