// Package universe is a small host type system: class declarations grouped
// into modules, resolution scopes over those modules, a type-expression
// parser and the factory/oracle pair the resolver in internal/types needs.
//
// A Universe is immutable after Build; the only mutable part is the interner
// of class references, which is guarded and deterministic per (name, scope).
package universe

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// DefaultScopeName names the scope used when none is requested.
const DefaultScopeName = "default"

// ClassDecl declares one class or interface.
type ClassDecl struct {
	Name       string
	Super      string
	Interfaces []string
	Params     int
	Module     string
	Interface  bool
}

// Universe holds class declarations and named scopes.
type Universe struct {
	classes map[string]*ClassDecl
	scopes  map[string]*Scope
	modules map[string]struct{}
	imports []string
	types   *Interner
}

// Scope restricts which modules' classes are visible.
type Scope struct {
	name    string
	modules map[string]struct{}
}

// ScopeName implements types.Scope.
func (s *Scope) ScopeName() string {
	if s == nil {
		return ""
	}
	return s.name
}

// Modules returns the visible modules, sorted.
func (s *Scope) Modules() []string {
	out := make([]string, 0, len(s.modules))
	for m := range s.modules {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

func (s *Scope) sees(module string) bool {
	if s == nil {
		return false
	}
	_, ok := s.modules[module]
	return ok
}

var (
	// ErrDuplicateClass reports a class declared twice.
	ErrDuplicateClass = errors.New("duplicate class")
	// ErrUnknownClass reports a reference to an undeclared class.
	ErrUnknownClass = errors.New("unknown class")
	// ErrCyclicHierarchy reports a class that is its own supertype.
	ErrCyclicHierarchy = errors.New("cyclic class hierarchy")
	// ErrUnknownModule reports a scope naming an undeclared module.
	ErrUnknownModule = errors.New("unknown module")
	// ErrUnknownScope reports a lookup of an undeclared scope.
	ErrUnknownScope = errors.New("unknown scope")
)

// Build validates declarations and scopes. Every scope lists modules; the
// scope named DefaultScopeName sees every module unless declared explicitly.
func Build(decls []ClassDecl, scopes map[string][]string) (*Universe, error) {
	u := &Universe{
		classes: make(map[string]*ClassDecl, len(decls)),
		scopes:  make(map[string]*Scope, len(scopes)+1),
		modules: make(map[string]struct{}),
		imports: defaultImports,
		types:   NewInterner(),
	}
	for i := range decls {
		d := decls[i]
		d.Name = strings.TrimSpace(d.Name)
		if d.Name == "" {
			return nil, fmt.Errorf("class #%d: empty name", i)
		}
		if d.Module == "" {
			d.Module = ModuleJDK
		}
		if d.Params < 0 {
			return nil, fmt.Errorf("%s: negative type parameter count", d.Name)
		}
		if _, dup := u.classes[d.Name]; dup {
			return nil, fmt.Errorf("%s: %w", d.Name, ErrDuplicateClass)
		}
		d.Interfaces = append([]string(nil), d.Interfaces...)
		u.classes[d.Name] = &d
		u.modules[d.Module] = struct{}{}
	}
	for _, d := range u.classes {
		for _, s := range d.supertypes() {
			if _, ok := u.classes[s]; !ok {
				return nil, fmt.Errorf("%s: supertype %s: %w", d.Name, s, ErrUnknownClass)
			}
		}
	}
	for name := range u.classes {
		if u.cyclic(name) {
			return nil, fmt.Errorf("%s: %w", name, ErrCyclicHierarchy)
		}
	}
	for name, mods := range scopes {
		s := &Scope{name: name, modules: make(map[string]struct{}, len(mods))}
		for _, m := range mods {
			if _, ok := u.modules[m]; !ok {
				return nil, fmt.Errorf("scope %s: %s: %w", name, m, ErrUnknownModule)
			}
			s.modules[m] = struct{}{}
		}
		u.scopes[name] = s
	}
	if _, ok := u.scopes[DefaultScopeName]; !ok {
		all := &Scope{name: DefaultScopeName, modules: make(map[string]struct{}, len(u.modules))}
		for m := range u.modules {
			all.modules[m] = struct{}{}
		}
		u.scopes[DefaultScopeName] = all
	}
	return u, nil
}

// Default builds the universe of built-in classes with the default scope.
func Default() *Universe {
	u, err := Build(Builtins(), nil)
	if err != nil {
		panic(fmt.Errorf("universe: builtins: %w", err))
	}
	return u
}

func (d *ClassDecl) supertypes() []string {
	out := make([]string, 0, len(d.Interfaces)+1)
	if d.Super != "" {
		out = append(out, d.Super)
	}
	return append(out, d.Interfaces...)
}

func (u *Universe) cyclic(start string) bool {
	seen := make(map[string]bool)
	var walk func(name string) bool
	walk = func(name string) bool {
		d := u.classes[name]
		for _, s := range d.supertypes() {
			if s == start {
				return true
			}
			if seen[s] {
				continue
			}
			seen[s] = true
			if walk(s) {
				return true
			}
		}
		return false
	}
	return walk(start)
}

// Class returns a declaration by fully-qualified name.
func (u *Universe) Class(name string) (*ClassDecl, bool) {
	d, ok := u.classes[name]
	return d, ok
}

// Classes returns every declaration sorted by name.
func (u *Universe) Classes() []ClassDecl {
	out := make([]ClassDecl, 0, len(u.classes))
	for _, d := range u.classes {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Scope returns a scope by name.
func (u *Universe) Scope(name string) (*Scope, error) {
	if name == "" {
		name = DefaultScopeName
	}
	s, ok := u.scopes[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownScope)
	}
	return s, nil
}

// DefaultScope returns the scope named DefaultScopeName.
func (u *Universe) DefaultScope() *Scope {
	return u.scopes[DefaultScopeName]
}

// ScopeNames returns every scope name, sorted.
func (u *Universe) ScopeNames() []string {
	out := make([]string, 0, len(u.scopes))
	for name := range u.scopes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// visible reports whether name is declared and its module is in scope.
func (u *Universe) visible(name string, scope *Scope) (*ClassDecl, bool) {
	d, ok := u.classes[name]
	if !ok || !scope.sees(d.Module) {
		return nil, false
	}
	return d, true
}

// subclass walks the supertype graph of from looking for to.
func (u *Universe) subclass(from, to string, scope *Scope) bool {
	if from == to {
		return true
	}
	d, ok := u.visible(from, scope)
	if !ok {
		return false
	}
	for _, s := range d.supertypes() {
		if u.subclass(s, to, scope) {
			return true
		}
	}
	return false
}
