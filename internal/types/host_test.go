package types

import "strings"

// testClass is a minimal class reference: name plus optional arguments.
type testClass struct {
	name string
	args string
}

func (c *testClass) CanonicalText() string {
	if c.args == "" {
		return c.name
	}
	return c.name + "<" + c.args + ">"
}

func (c *testClass) Primitive() (PrimitiveKind, bool) { return PrimInvalid, false }

type testScope string

func (s testScope) ScopeName() string { return string(s) }

// testHost implements Factory and Oracle over a fixed supertype relation.
type testHost struct {
	supers  map[string][]string
	unknown map[string]bool
	created []string
}

func newTestHost() *testHost {
	return &testHost{
		supers: map[string][]string{
			"java.lang.Integer":   {"java.lang.Number"},
			"java.lang.Double":    {"java.lang.Number"},
			"java.lang.Number":    {"java.lang.Object"},
			"java.lang.String":    {"java.lang.Object", "java.lang.CharSequence"},
			"java.util.ArrayList": {"java.util.List"},
			"java.util.List":      {"java.lang.Object"},
			"java.lang.Boolean":   {"java.lang.Object"},
		},
		unknown: map[string]bool{},
	}
}

func (h *testHost) TypeByName(name string, _ Scope) TypeRef {
	h.created = append(h.created, name)
	return &testClass{name: name}
}

func (h *testHost) Erase(ref TypeRef) TypeRef {
	if c, ok := ref.(*testClass); ok && c.args != "" {
		return &testClass{name: c.name}
	}
	return ref
}

func (h *testHost) Assignable(target, source TypeRef) Verdict {
	if strings.Contains(target.CanonicalText(), "<") || strings.Contains(source.CanonicalText(), "<") {
		panic("oracle received a parameterized type")
	}
	if h.unknown[target.CanonicalText()] || h.unknown[source.CanonicalText()] {
		return VerdictUnknown
	}
	if tk, ok := target.Primitive(); ok {
		sk, sok := source.Primitive()
		if sok && sk == tk {
			return VerdictYes
		}
		if !sok && source.CanonicalText() == tk.BoxedName() {
			return VerdictYes
		}
		return VerdictNo
	}
	if h.subtype(source.CanonicalText(), target.CanonicalText()) {
		return VerdictYes
	}
	return VerdictNo
}

func (h *testHost) subtype(from, to string) bool {
	if from == to {
		return true
	}
	for _, s := range h.supers[from] {
		if h.subtype(s, to) {
			return true
		}
	}
	return false
}

func class(name string) TypeRef { return &testClass{name: name} }

func generic(name, args string) TypeRef { return &testClass{name: name, args: args} }
