/*
Package value implements the Language's runtime Value: a tagged variant
(Null, Int, Float, Bool, String, Array, Map, Function, NativeFunction),
grounded on the reference go-mix `objects.GoMixObject` interface shape
(GetType/ToString) but narrowed to exactly the closed set the data model
names — no Set/List/Tuple/Struct, since neither the spec nor the original
Rust source grounds those as part of this language.

Array and Map share storage via a reference-counted handle (a pointer to a
slice/map header) so clones stay cheap, per the design notes on avoiding
quadratic blow-up; method calls that mutate (push/pop/sort/reverse) mutate
the receiver in place; push/sort/reverse return the receiver and pop
returns the removed element, a design ambiguity the notes leave to
implementers — documented in DESIGN.md.
*/
package value

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/quillscript/quill/ast"
)

// Type tags the concrete kind of a Value.
type Type string

const (
	NullType           Type = "Null"
	IntType            Type = "Int"
	FloatType          Type = "Float"
	BoolType           Type = "Bool"
	StringType         Type = "String"
	ArrayType          Type = "Array"
	MapType            Type = "Map"
	FunctionType       Type = "Function"
	NativeFunctionType Type = "NativeFunction"
)

// Value is the common interface every runtime datum implements.
type Value interface {
	Type() Type
	String() string
}

// Null is the Null value. It is an empty struct, so every Null{} compares
// equal to NullValue and referential comparisons (not just structural
// ones) work.
type Null struct{}

func (Null) Type() Type     { return NullType }
func (Null) String() string { return "nil" }

var NullValue Value = Null{}

type Int int64

func (Int) Type() Type        { return IntType }
func (i Int) String() string  { return strconv.FormatInt(int64(i), 10) }

type Float float64

func (Float) Type() Type { return FloatType }
func (f Float) String() string {
	return strconv.FormatFloat(float64(f), 'g', -1, 64)
}

type Bool bool

func (Bool) Type() Type       { return BoolType }
func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

type String string

func (String) Type() Type      { return StringType }
func (s String) String() string { return string(s) }

// Array wraps a pointer to a slice so copies of the Array value share
// storage, matching the "cheaply cloned, reference-counted" requirement.
type Array struct {
	Elems *[]Value
}

func NewArray(elems []Value) Array {
	return Array{Elems: &elems}
}

func (Array) Type() Type { return ArrayType }
func (a Array) String() string {
	parts := make([]string, len(*a.Elems))
	for i, v := range *a.Elems {
		parts[i] = displayElem(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Map wraps a pointer to an ordered-keys slice plus the backing map, since
// the data model requires string keys with last-write-wins on duplicates
// and the notes flag display ordering as an open ambiguity (we preserve
// insertion order, the most common choice in the pack's own map types).
type Map struct {
	Keys   *[]string
	Values *map[string]Value
}

func NewMap() Map {
	keys := []string{}
	vals := map[string]Value{}
	return Map{Keys: &keys, Values: &vals}
}

func (m Map) Set(key string, v Value) {
	if _, exists := (*m.Values)[key]; !exists {
		*m.Keys = append(*m.Keys, key)
	}
	(*m.Values)[key] = v
}

func (m Map) Get(key string) (Value, bool) {
	v, ok := (*m.Values)[key]
	return v, ok
}

func (Map) Type() Type { return MapType }
func (m Map) String() string {
	parts := make([]string, 0, len(*m.Keys))
	for _, k := range *m.Keys {
		parts = append(parts, fmt.Sprintf("%q: %s", k, displayElem((*m.Values)[k])))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func displayElem(v Value) string {
	if s, ok := v.(String); ok {
		return strconv.Quote(string(s))
	}
	return v.String()
}

// Function is a user-defined function value: captured parameter names and
// body only — no defining-scope capture, per the Non-goals and §9's
// explicit "Closures" note. Equality is by body/param identity (pointer
// equality on Body suffices since AST nodes are immutable and unique).
type Function struct {
	Params []string
	Body   ast.Expr
}

func (Function) Type() Type { return FunctionType }
func (f Function) String() string {
	return fmt.Sprintf("fn(%s) { ... }", strings.Join(f.Params, ", "))
}

// NativeFunc is the Go-implemented callable signature every stdlib method
// and builtin conforms to: a value vector in, a Value or an error out.
type NativeFunc func(args []Value) (Value, error)

// NativeFunction wraps a NativeFunc with a Name for display and an Ident
// used for referential-identity equality (two NativeFunction values are
// equal iff they share the same Ident, i.e. the same registry entry),
// satisfying §9's "NativeFunction identity" requirement.
type NativeFunction struct {
	Name string
	Fn   NativeFunc
	Ident *int
}

func (NativeFunction) Type() Type { return NativeFunctionType }
func (n NativeFunction) String() string { return "<native fn " + n.Name + ">" }

// Truthy implements the truthiness coercion rules from §4.3.
func Truthy(v Value) bool {
	switch x := v.(type) {
	case Null:
		return false
	case Bool:
		return bool(x)
	case Int:
		return x != 0
	case Float:
		return x != 0.0
	case String:
		return len(x) > 0
	case Array:
		return len(*x.Elems) > 0
	case Map:
		return len(*x.Keys) > 0
	case Function, NativeFunction:
		return true
	}
	return false
}

// Equal implements the structural/identity equality rules from §3's
// Invariants: Int/Float never equal each other, compound values compare
// structurally, functions by body identity, native functions by the
// referential Ident they were registered with.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Int:
		y, ok := b.(Int)
		return ok && x == y
	case Float:
		y, ok := b.(Float)
		return ok && x == y
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case String:
		y, ok := b.(String)
		return ok && x == y
	case Array:
		y, ok := b.(Array)
		if !ok || len(*x.Elems) != len(*y.Elems) {
			return false
		}
		for i := range *x.Elems {
			if !Equal((*x.Elems)[i], (*y.Elems)[i]) {
				return false
			}
		}
		return true
	case Map:
		y, ok := b.(Map)
		if !ok || len(*x.Keys) != len(*y.Keys) {
			return false
		}
		for _, k := range *x.Keys {
			yv, ok := y.Get(k)
			if !ok {
				return false
			}
			xv, _ := x.Get(k)
			if !Equal(xv, yv) {
				return false
			}
		}
		return true
	case Function:
		y, ok := b.(Function)
		return ok && sameBody(x.Body, y.Body) && strings.Join(x.Params, ",") == strings.Join(y.Params, ",")
	case NativeFunction:
		y, ok := b.(NativeFunction)
		return ok && x.Ident == y.Ident
	}
	return false
}

func sameBody(a, b ast.Expr) bool {
	return fmt.Sprintf("%p", a) == fmt.Sprintf("%p", b)
}

// Less implements the ascending comparator named in §4.3's Method
// dispatch: numeric first, then string-lex, then debug-string tie-break.
func Less(a, b Value) bool {
	an, aIsNum := numeric(a)
	bn, bIsNum := numeric(b)
	if aIsNum && bIsNum {
		return an < bn
	}
	if aIsNum != bIsNum {
		return aIsNum // numeric-first
	}
	as, aIsStr := a.(String)
	bs, bIsStr := b.(String)
	if aIsStr && bIsStr {
		return as < bs
	}
	if aIsStr != bIsStr {
		return aIsStr
	}
	return a.String() < b.String()
}

func numeric(v Value) (float64, bool) {
	switch x := v.(type) {
	case Int:
		return float64(x), true
	case Float:
		return float64(x), true
	}
	return 0, false
}

// SortValues sorts a slice in place using Less, the comparator §8 requires
// to be idempotent and monotone non-decreasing.
func SortValues(vs []Value) {
	sort.SliceStable(vs, func(i, j int) bool { return Less(vs[i], vs[j]) })
}
