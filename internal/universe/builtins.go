package universe

// Built-in modules.
const (
	ModuleJDK    = "jdk"
	ModuleGroovy = "groovy"
)

// ObjectName is the root of the class hierarchy.
const ObjectName = "java.lang.Object"

// Packages searched, in order, for simple (unqualified) class names.
var defaultImports = []string{"java.lang", "java.util", "java.io", "java.math", "groovy.lang"}

var builtinDecls = []ClassDecl{
	{Name: ObjectName},
	{Name: "java.io.Serializable", Interface: true},
	{Name: "java.lang.Comparable", Interface: true, Params: 1},
	{Name: "java.lang.CharSequence", Interface: true},
	{Name: "java.lang.Iterable", Interface: true, Params: 1},
	{Name: "java.lang.String", Super: ObjectName, Interfaces: []string{"java.lang.CharSequence", "java.lang.Comparable", "java.io.Serializable"}},
	{Name: "java.lang.Number", Super: ObjectName, Interfaces: []string{"java.io.Serializable"}},
	{Name: "java.lang.Byte", Super: "java.lang.Number", Interfaces: []string{"java.lang.Comparable"}},
	{Name: "java.lang.Short", Super: "java.lang.Number", Interfaces: []string{"java.lang.Comparable"}},
	{Name: "java.lang.Integer", Super: "java.lang.Number", Interfaces: []string{"java.lang.Comparable"}},
	{Name: "java.lang.Long", Super: "java.lang.Number", Interfaces: []string{"java.lang.Comparable"}},
	{Name: "java.lang.Float", Super: "java.lang.Number", Interfaces: []string{"java.lang.Comparable"}},
	{Name: "java.lang.Double", Super: "java.lang.Number", Interfaces: []string{"java.lang.Comparable"}},
	{Name: "java.lang.Character", Super: ObjectName, Interfaces: []string{"java.lang.Comparable", "java.io.Serializable"}},
	{Name: "java.lang.Boolean", Super: ObjectName, Interfaces: []string{"java.lang.Comparable", "java.io.Serializable"}},
	{Name: "java.math.BigInteger", Super: "java.lang.Number", Interfaces: []string{"java.lang.Comparable"}},
	{Name: "java.math.BigDecimal", Super: "java.lang.Number", Interfaces: []string{"java.lang.Comparable"}},
	{Name: "java.util.Collection", Interface: true, Params: 1, Interfaces: []string{"java.lang.Iterable"}},
	{Name: "java.util.List", Interface: true, Params: 1, Interfaces: []string{"java.util.Collection"}},
	{Name: "java.util.Set", Interface: true, Params: 1, Interfaces: []string{"java.util.Collection"}},
	{Name: "java.util.Map", Interface: true, Params: 2},
	{Name: "java.util.ArrayList", Super: ObjectName, Params: 1, Interfaces: []string{"java.util.List", "java.io.Serializable"}},
	{Name: "java.util.LinkedList", Super: ObjectName, Params: 1, Interfaces: []string{"java.util.List", "java.io.Serializable"}},
	{Name: "java.util.HashSet", Super: ObjectName, Params: 1, Interfaces: []string{"java.util.Set", "java.io.Serializable"}},
	{Name: "java.util.HashMap", Super: ObjectName, Params: 2, Interfaces: []string{"java.util.Map", "java.io.Serializable"}},
	{Name: "groovy.lang.GString", Super: ObjectName, Module: ModuleGroovy, Interfaces: []string{"java.lang.CharSequence", "java.lang.Comparable", "java.io.Serializable"}},
}

// Builtins returns a copy of the built-in declarations.
func Builtins() []ClassDecl {
	out := make([]ClassDecl, len(builtinDecls))
	copy(out, builtinDecls)
	return out
}
