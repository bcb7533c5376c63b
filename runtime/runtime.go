/*
Package runtime is the support library transpiled Quill programs import: a
thin, standalone wrapper around value.Value's arithmetic, comparison, index,
and method-dispatch operations, mirroring `rustx_core::value::Value`'s boxed
API (add/lt/call/get_index/call_method) per §4.4. It deliberately does not
depend on eval: the Transpiler-produced path can only call NativeFunction
values (§4.3's "Method dispatch" note), so there is no tree-walking
interpreter inside a compiled binary, only direct Go calls plus this
package's value-level helpers.
*/
package runtime

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/quillscript/quill/value"
)

// Value re-exports the boxed runtime value so generated code only imports
// this package, not value directly.
type Value = value.Value

var (
	Null = value.NullValue
)

func Int(n int64) Value       { return value.Int(n) }
func Float(f float64) Value   { return value.Float(f) }
func Bool(b bool) Value       { return value.Bool(b) }
func Str(s string) Value      { return value.String(s) }
func Array(vs []Value) Value  { return value.NewArray(vs) }

func Print(args ...Value) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	fmt.Println(strings.Join(parts, " "))
}

func Add(a, b Value) (Value, error) {
	if as, ok := a.(value.String); ok {
		if bs, ok := b.(value.String); ok {
			return value.String(string(as) + string(bs)), nil
		}
	}
	return arith("+", a, b)
}
func Sub(a, b Value) (Value, error) { return arith("-", a, b) }
func Mul(a, b Value) (Value, error) { return arith("*", a, b) }
func Div(a, b Value) (Value, error) { return arith("/", a, b) }
func Mod(a, b Value) (Value, error) { return arith("%", a, b) }

func arith(op string, a, b Value) (Value, error) {
	ai, aIsInt := a.(value.Int)
	bi, bIsInt := b.(value.Int)
	if aIsInt && bIsInt {
		switch op {
		case "+":
			return value.Int(ai + bi), nil
		case "-":
			return value.Int(ai - bi), nil
		case "*":
			return value.Int(ai * bi), nil
		case "/":
			if bi == 0 {
				return nil, fmt.Errorf("division by zero")
			}
			return value.Int(ai / bi), nil
		case "%":
			if bi == 0 {
				return nil, fmt.Errorf("modulo by zero")
			}
			return value.Int(ai % bi), nil
		}
	}
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if !aok || !bok {
		return nil, fmt.Errorf("operator %s is not defined for %s and %s", op, a.Type(), b.Type())
	}
	switch op {
	case "+":
		return value.Float(af + bf), nil
	case "-":
		return value.Float(af - bf), nil
	case "*":
		return value.Float(af * bf), nil
	case "/":
		// Float division by zero yields IEEE infinity/NaN, not an error;
		// only the integer/integer path above is a domain error.
		return value.Float(af / bf), nil
	case "%":
		return value.Float(math.Mod(af, bf)), nil
	}
	return nil, fmt.Errorf("unknown operator %q", op)
}

func toFloat(v Value) (float64, bool) {
	switch n := v.(type) {
	case value.Int:
		return float64(n), true
	case value.Float:
		return float64(n), true
	}
	return 0, false
}

func Neg(a Value) (Value, error) {
	switch n := a.(type) {
	case value.Int:
		return value.Int(-n), nil
	case value.Float:
		return value.Float(-n), nil
	}
	return nil, fmt.Errorf("unary - requires a numeric operand, got %s", a.Type())
}

func Not(a Value) Value { return value.Bool(!value.Truthy(a)) }

func Truthy(a Value) bool  { return value.Truthy(a) }
func Eq(a, b Value) Value  { return value.Bool(value.Equal(a, b)) }
func Neq(a, b Value) Value { return value.Bool(!value.Equal(a, b)) }
func Lt(a, b Value) Value  { return value.Bool(value.Less(a, b)) }
func Gt(a, b Value) Value  { return value.Bool(value.Less(b, a)) }
func Le(a, b Value) Value  { return value.Bool(!value.Less(b, a)) }
func Ge(a, b Value) Value  { return value.Bool(!value.Less(a, b)) }

func Index(recv, idx Value) (Value, error) {
	switch r := recv.(type) {
	case value.Array:
		i, ok := idx.(value.Int)
		if !ok {
			return nil, fmt.Errorf("array index must be an Int")
		}
		n := int64(len(*r.Elems))
		pos := int64(i)
		if pos < 0 {
			pos += n
		}
		if pos < 0 || pos >= n {
			return nil, fmt.Errorf("Index out of bounds")
		}
		return (*r.Elems)[pos], nil
	case value.Map:
		k, ok := idx.(value.String)
		if !ok {
			return nil, fmt.Errorf("map index must be a String")
		}
		v, ok := r.Get(string(k))
		if !ok {
			return nil, fmt.Errorf("key %q not found", string(k))
		}
		return v, nil
	case value.String:
		i, ok := idx.(value.Int)
		if !ok {
			return nil, fmt.Errorf("string index must be an Int")
		}
		runes := []rune(string(r))
		n := int64(len(runes))
		pos := int64(i)
		if pos < 0 {
			pos += n
		}
		if pos < 0 || pos >= n {
			return nil, fmt.Errorf("Index out of bounds")
		}
		return value.String(string(runes[pos])), nil
	}
	return nil, fmt.Errorf("value of type %s is not indexable", recv.Type())
}

// Range mirrors the interpreter's builtin range(a, b, s).
func Range(a, b, step int64) (Value, error) {
	if step == 0 {
		return nil, fmt.Errorf("range step must not be zero")
	}
	var out []Value
	if step > 0 {
		for i := a; i < b; i += step {
			out = append(out, value.Int(i))
		}
	} else {
		for i := a; i > b; i += step {
			out = append(out, value.Int(i))
		}
	}
	if out == nil {
		out = []Value{}
	}
	return value.NewArray(out), nil
}

// CallNative applies a NativeFunction Value. Transpiled code can only call
// NativeFunction values (user fn declarations are lowered to native Go
// functions wrapped the same way), per §4.3/§4.4's AST-function restriction.
func CallNative(fn Value, args ...Value) (Value, error) {
	nf, ok := fn.(value.NativeFunction)
	if !ok {
		return nil, fmt.Errorf("value of type %s is not callable", fn.Type())
	}
	return nf.Fn(args)
}

func Native(name string, fn value.NativeFunc) Value {
	id := new(int)
	return value.NativeFunction{Name: name, Fn: fn, Ident: id}
}

// Method dispatches the name-based method set of §4.3 for generated code
// that cannot statically resolve which Go helper to call.
func Method(recv Value, name string, args ...Value) (Value, error) {
	switch name {
	case "len":
		switch r := recv.(type) {
		case value.String:
			return value.Int(len([]rune(string(r)))), nil
		case value.Array:
			return value.Int(len(*r.Elems)), nil
		case value.Map:
			return value.Int(len(*r.Keys)), nil
		}
	case "upper":
		if s, ok := recv.(value.String); ok {
			return value.String(strings.ToUpper(string(s))), nil
		}
	case "lower":
		if s, ok := recv.(value.String); ok {
			return value.String(strings.ToLower(string(s))), nil
		}
	case "trim":
		if s, ok := recv.(value.String); ok {
			return value.String(strings.TrimSpace(string(s))), nil
		}
	case "split":
		if s, ok := recv.(value.String); ok {
			sep := ""
			if len(args) > 0 {
				if ss, ok := args[0].(value.String); ok {
					sep = string(ss)
				}
			}
			var parts []string
			if sep == "" {
				parts = strings.Split(string(s), "")
			} else {
				parts = strings.Split(string(s), sep)
			}
			out := make([]Value, len(parts))
			for i, p := range parts {
				out[i] = value.String(p)
			}
			return value.NewArray(out), nil
		}
	case "abs", "floor", "ceil", "round":
		return numericMethod(name, recv)
	case "push":
		arr, ok := recv.(value.Array)
		if !ok || len(args) != 1 {
			return nil, fmt.Errorf("push requires an Array and 1 argument")
		}
		*arr.Elems = append(*arr.Elems, args[0])
		return arr, nil
	case "pop":
		arr, ok := recv.(value.Array)
		if !ok {
			return nil, fmt.Errorf("pop requires an Array")
		}
		if len(*arr.Elems) == 0 {
			return nil, fmt.Errorf("pop from empty array")
		}
		last := (*arr.Elems)[len(*arr.Elems)-1]
		*arr.Elems = (*arr.Elems)[:len(*arr.Elems)-1]
		return last, nil
	case "reverse":
		arr, ok := recv.(value.Array)
		if !ok {
			return nil, fmt.Errorf("reverse requires an Array")
		}
		elems := *arr.Elems
		for i, j := 0, len(elems)-1; i < j; i, j = i+1, j-1 {
			elems[i], elems[j] = elems[j], elems[i]
		}
		return arr, nil
	case "sort":
		arr, ok := recv.(value.Array)
		if !ok {
			return nil, fmt.Errorf("sort requires an Array")
		}
		value.SortValues(*arr.Elems)
		return arr, nil
	case "map", "filter", "reduce":
		return nativeFold(name, recv, args)
	}
	if m, ok := recv.(value.Map); ok {
		if v, ok := m.Get(name); ok {
			if len(args) > 0 {
				return CallNative(v, args...)
			}
			return v, nil
		}
	}
	return nil, fmt.Errorf("unknown method %q", name)
}

func numericMethod(name string, v Value) (Value, error) {
	var f float64
	isFloat := false
	switch n := v.(type) {
	case value.Int:
		f = float64(n)
	case value.Float:
		f = float64(n)
		isFloat = true
	default:
		return nil, fmt.Errorf("%s requires a numeric value", name)
	}
	switch name {
	case "abs":
		r := math.Abs(f)
		if isFloat {
			return value.Float(r), nil
		}
		return value.Int(int64(r)), nil
	case "floor":
		return value.Int(int64(math.Floor(f))), nil
	case "ceil":
		return value.Int(int64(math.Ceil(f))), nil
	case "round":
		return value.Int(int64(math.Round(f))), nil
	}
	return nil, fmt.Errorf("unknown numeric method %q", name)
}

func nativeFold(name string, recv Value, args []Value) (Value, error) {
	arr, ok := recv.(value.Array)
	if !ok {
		return nil, fmt.Errorf("%s requires an Array", name)
	}
	elems := *arr.Elems
	switch name {
	case "map":
		if len(args) != 1 {
			return nil, fmt.Errorf("map expects 1 argument")
		}
		out := make([]Value, len(elems))
		for i, el := range elems {
			v, err := CallNative(args[0], el)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return value.NewArray(out), nil
	case "filter":
		if len(args) != 1 {
			return nil, fmt.Errorf("filter expects 1 argument")
		}
		out := []Value{}
		for _, el := range elems {
			v, err := CallNative(args[0], el)
			if err != nil {
				return nil, err
			}
			if value.Truthy(v) {
				out = append(out, el)
			}
		}
		return value.NewArray(out), nil
	case "reduce":
		if len(args) < 1 || len(args) > 2 {
			return nil, fmt.Errorf("reduce expects (callback, [initial])")
		}
		var acc Value
		start := 0
		if len(args) == 2 {
			acc = args[1]
		} else {
			if len(elems) == 0 {
				return nil, fmt.Errorf("reduce on empty array requires an initial value")
			}
			acc = elems[0]
			start = 1
		}
		for _, el := range elems[start:] {
			v, err := CallNative(args[0], acc, el)
			if err != nil {
				return nil, err
			}
			acc = v
		}
		return acc, nil
	}
	return nil, fmt.Errorf("unknown array method %q", name)
}

// Input reads one line from stdin for the `input` builtin.
func Input(r *bufio.Reader) Value {
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return value.String("")
	}
	return value.String(strings.TrimRight(line, "\r\n"))
}

var Stdin = bufio.NewReader(os.Stdin)

func Fail(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

func Itoa(n int64) string { return strconv.FormatInt(n, 10) }

// MapT is the concrete Map value generated map-literal code builds via
// NewMap()/Set before returning it through the boxed Value interface.
type MapT = value.Map

func NewMap() MapT { return value.NewMap() }

// PrintV is print()'s expression form: performs the side effect and
// yields Null, the value print() evaluates to in the Interpreter.
func PrintV(args ...Value) Value {
	Print(args...)
	return Null
}

func TypeOf(v Value) Value { return value.String(v.Type()) }

func MinOf(args ...Value) Value { return minMax(args, true) }
func MaxOf(args ...Value) Value { return minMax(args, false) }

func minMax(args []Value, wantMin bool) Value {
	vals := args
	if len(args) == 1 {
		if elems, ok := AsElems(args[0]); ok {
			vals = elems
		}
	}
	if len(vals) == 0 {
		panic(panicErr{fmt.Errorf("min/max requires at least 1 value")})
	}
	best := vals[0]
	for _, v := range vals[1:] {
		if wantMin == value.Less(v, best) {
			best = v
		}
	}
	return best
}

// MustJoin implements join(array[, sep]).
func MustJoin(args ...Value) Value {
	if len(args) < 1 {
		panic(panicErr{fmt.Errorf("join expects an Array")})
	}
	elems, ok := AsElems(args[0])
	if !ok {
		panic(panicErr{fmt.Errorf("join requires an Array")})
	}
	sep := ""
	if len(args) > 1 {
		if s, ok := args[1].(value.String); ok {
			sep = string(s)
		}
	}
	parts := make([]string, len(elems))
	for i, el := range elems {
		parts[i] = el.String()
	}
	return value.String(strings.Join(parts, sep))
}

// AsInt unwraps a boxed Int (or Float, truncated) to a native int64, used
// by transpiled range-loop bounds that aren't literal constants.
func AsInt(v Value) int64 {
	switch n := v.(type) {
	case value.Int:
		return int64(n)
	case value.Float:
		return int64(n)
	}
	return 0
}

// AsElems returns the backing slice of an Array Value for a transpiled
// for-loop to range over directly; ok is false for any other Value.
func AsElems(v Value) (elems []Value, ok bool) {
	arr, ok := v.(value.Array)
	if !ok {
		return nil, false
	}
	return *arr.Elems, true
}

// panicErr is the payload Must* helpers panic with; Recover (deferred at
// the top of every transpiled function body) turns it back into a
// returned error, since Go expressions — unlike Quill's tree-walking
// Evaluator — cannot short-circuit a multi-value (Value, error) pair
// mid-expression. This mirrors the Evaluator's own error propagation
// observably (the first runtime error aborts the rest of the expression)
// without needing a CPS rewrite of every operator.
type panicErr struct{ err error }

func must(v Value, err error) Value {
	if err != nil {
		panic(panicErr{err})
	}
	return v
}

func MustAdd(a, b Value) Value        { return must(Add(a, b)) }
func MustSub(a, b Value) Value        { return must(Sub(a, b)) }
func MustMul(a, b Value) Value        { return must(Mul(a, b)) }
func MustDiv(a, b Value) Value        { return must(Div(a, b)) }
func MustMod(a, b Value) Value        { return must(Mod(a, b)) }
func MustNeg(a Value) Value           { return must(Neg(a)) }
func MustIndex(r, i Value) Value      { return must(Index(r, i)) }
func MustRange(a, b, s int64) Value   { return must(Range(a, b, s)) }
func MustCallNative(fn Value, args ...Value) Value {
	return must(CallNative(fn, args...))
}
func MustMethod(recv Value, name string, args ...Value) Value {
	return must(Method(recv, name, args...))
}

// Recover, deferred at the top of run() and every transpiled fn_* body,
// converts a Must* panic into the function's returned error.
func Recover(errp *error) {
	if r := recover(); r != nil {
		if pe, ok := r.(panicErr); ok {
			*errp = pe.err
			return
		}
		panic(r)
	}
}
