package eval

import (
	"math"

	"github.com/quillscript/quill/ast"
	"github.com/quillscript/quill/env"
	"github.com/quillscript/quill/quillerr"
	"github.com/quillscript/quill/value"
)

// builtinNames names the bare-identifier built-ins of §4.3's Calls rule.
var builtinNames = map[string]bool{
	"print": true, "range": true, "len": true, "type": true,
	"push": true, "pop": true, "split": true, "join": true, "trim": true,
	"upper": true, "lower": true, "abs": true, "min": true, "max": true,
	"floor": true, "ceil": true, "round": true, "map": true, "filter": true,
	"reduce": true, "reverse": true, "sort": true, "input": true,
}

func (e *Evaluator) evalCall(x *ast.CallExpr) (value.Value, error) {
	line, col := x.Pos()

	if ident, ok := x.Callee.(*ast.Identifier); ok && builtinNames[ident.Name] {
		if _, shadowed := e.Env.Lookup(ident.Name); !shadowed {
			args, err := e.evalArgs(x.Args)
			if err != nil {
				return nil, err
			}
			return e.callBuiltin(ident.Name, args, line, col)
		}
	}

	callee, err := e.evalExpr(x.Callee)
	if err != nil {
		return nil, err
	}
	args, err := e.evalArgs(x.Args)
	if err != nil {
		return nil, err
	}
	return e.CallValue(callee, args, line, col)
}

func (e *Evaluator) evalArgs(exprs []ast.Expr) ([]value.Value, error) {
	args := make([]value.Value, len(exprs))
	for i, a := range exprs {
		v, err := e.evalExpr(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

// CallValue applies a Function or NativeFunction Value to args, the shared
// apply path used by call expressions, method-dispatch callbacks, and
// stdlib.Caller (wired in New so stdlib modules like `web` can invoke
// user-supplied handlers without stdlib importing eval).
func (e *Evaluator) CallValue(callee value.Value, args []value.Value, line, col int) (value.Value, error) {
	switch fn := callee.(type) {
	case value.Function:
		if len(args) != len(fn.Params) {
			return nil, quillerr.At(quillerr.Arity, line, col,
				"function expects %d argument(s), got %d", len(fn.Params), len(args))
		}
		saved := e.Env
		e.Env = env.NewCallEnv(fn.Params, args)
		savedReturning, savedValue := e.isReturning, e.returnValue
		e.isReturning = false

		var result value.Value
		var err error
		switch body := fn.Body.(type) {
		case *ast.BlockExpr:
			result, err = e.evalBlockExpr(body)
			if err == nil && e.isReturning {
				result = e.returnValue
			}
		default:
			result, err = e.evalExpr(body)
		}

		e.Env = saved
		e.isReturning, e.returnValue = savedReturning, savedValue
		return result, err
	case value.NativeFunction:
		v, err := fn.Fn(args)
		if err != nil {
			return nil, quillerr.At(quillerr.Domain, line, col, "%s", err.Error())
		}
		return v, nil
	}
	return nil, quillerr.At(quillerr.Type, line, col, "value of type %s is not callable", callee.Type())
}

func (e *Evaluator) evalMethodCall(x *ast.MethodCallExpr) (value.Value, error) {
	line, col := x.Pos()

	if ident, ok := x.Receiver.(*ast.Identifier); ok {
		if _, shadowed := e.Env.Lookup(ident.Name); !shadowed {
			if mod, ok := e.modules[ident.Name]; ok {
				fn, ok := mod.Functions[x.Name]
				if !ok {
					return nil, quillerr.At(quillerr.Name, line, col, "unknown method %s.%s", ident.Name, x.Name)
				}
				args, err := e.evalArgs(x.Args)
				if err != nil {
					return nil, err
				}
				return e.CallValue(fn, args, line, col)
			}
		}
	}

	recv, err := e.evalExpr(x.Receiver)
	if err != nil {
		return nil, err
	}
	args, err := e.evalArgs(x.Args)
	if err != nil {
		return nil, err
	}
	return e.dispatchMethod(recv, x.Name, args, line, col)
}

func (e *Evaluator) dispatchMethod(recv value.Value, name string, args []value.Value, line, col int) (value.Value, error) {
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
		return nil, quillerr.At(quillerr.Type, line, col, "%s has no len method", recv.Type())
	case "upper", "lower", "trim", "split":
		s, ok := recv.(value.String)
		if !ok {
			return nil, quillerr.At(quillerr.Type, line, col, "%s is not a String", name)
		}
		return stringMethod(name, s, args, line, col)
	case "abs", "floor", "ceil", "round":
		return numericMethod(name, recv, line, col)
	case "map", "filter", "reduce", "reverse", "sort", "push", "pop":
		arr, ok := recv.(value.Array)
		if !ok {
			return nil, quillerr.At(quillerr.Domain, line, col, "%s requires an Array", name)
		}
		return e.arrayMethod(name, arr, args, line, col)
	}

	if m, ok := recv.(value.Map); ok {
		if v, ok := m.Get(name); ok {
			if len(args) > 0 {
				return e.CallValue(v, args, line, col)
			}
			return v, nil
		}
	}
	return nil, quillerr.At(quillerr.Name, line, col, "unknown method %q", name)
}

func stringMethod(name string, s value.String, args []value.Value, line, col int) (value.Value, error) {
	str := string(s)
	switch name {
	case "upper":
		return value.String(upperASCII(str)), nil
	case "lower":
		return value.String(lowerASCII(str)), nil
	case "trim":
		return value.String(trimSpace(str)), nil
	case "split":
		sep := ""
		if len(args) > 0 {
			sepStr, ok := args[0].(value.String)
			if !ok {
				return nil, quillerr.At(quillerr.Type, line, col, "split separator must be a String")
			}
			sep = string(sepStr)
		}
		return value.NewArray(splitString(str, sep)), nil
	}
	return nil, quillerr.At(quillerr.Name, line, col, "unknown string method %q", name)
}

func numericMethod(name string, v value.Value, line, col int) (value.Value, error) {
	var f float64
	isFloat := false
	switch n := v.(type) {
	case value.Int:
		f = float64(n)
	case value.Float:
		f = float64(n)
		isFloat = true
	default:
		return nil, quillerr.At(quillerr.Type, line, col, "%s requires a numeric value", name)
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
	return nil, quillerr.At(quillerr.Name, line, col, "unknown numeric method %q", name)
}

func (e *Evaluator) arrayMethod(name string, arr value.Array, args []value.Value, line, col int) (value.Value, error) {
	switch name {
	case "push":
		if len(args) != 1 {
			return nil, quillerr.At(quillerr.Arity, line, col, "push expects 1 argument")
		}
		*arr.Elems = append(*arr.Elems, args[0])
		return arr, nil
	case "pop":
		if len(*arr.Elems) == 0 {
			return nil, quillerr.At(quillerr.Domain, line, col, "pop from empty array")
		}
		last := (*arr.Elems)[len(*arr.Elems)-1]
		*arr.Elems = (*arr.Elems)[:len(*arr.Elems)-1]
		return last, nil
	case "reverse":
		elems := *arr.Elems
		for i, j := 0, len(elems)-1; i < j; i, j = i+1, j-1 {
			elems[i], elems[j] = elems[j], elems[i]
		}
		return arr, nil
	case "sort":
		value.SortValues(*arr.Elems)
		return arr, nil
	case "map":
		if len(args) != 1 {
			return nil, quillerr.At(quillerr.Arity, line, col, "map expects 1 argument")
		}
		out := make([]value.Value, len(*arr.Elems))
		for i, el := range *arr.Elems {
			v, err := e.CallValue(args[0], []value.Value{el}, line, col)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return value.NewArray(out), nil
	case "filter":
		if len(args) != 1 {
			return nil, quillerr.At(quillerr.Arity, line, col, "filter expects 1 argument")
		}
		out := []value.Value{}
		for _, el := range *arr.Elems {
			v, err := e.CallValue(args[0], []value.Value{el}, line, col)
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
			return nil, quillerr.At(quillerr.Arity, line, col, "reduce expects (callback, [initial])")
		}
		elems := *arr.Elems
		var acc value.Value
		start := 0
		if len(args) == 2 {
			acc = args[1]
		} else {
			if len(elems) == 0 {
				return nil, quillerr.At(quillerr.Domain, line, col, "reduce on empty array requires an initial value")
			}
			acc = elems[0]
			start = 1
		}
		for _, el := range elems[start:] {
			v, err := e.CallValue(args[0], []value.Value{acc, el}, line, col)
			if err != nil {
				return nil, err
			}
			acc = v
		}
		return acc, nil
	}
	return nil, quillerr.At(quillerr.Name, line, col, "unknown array method %q", name)
}

func upperASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}

func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

func trimSpace(s string) string {
	i, j := 0, len(s)
	for i < j && isSpace(s[i]) {
		i++
	}
	for j > i && isSpace(s[j-1]) {
		j--
	}
	return s[i:j]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func splitString(s, sep string) []value.Value {
	var parts []string
	if sep == "" {
		for _, r := range s {
			parts = append(parts, string(r))
		}
	} else {
		parts = splitOn(s, sep)
	}
	out := make([]value.Value, len(parts))
	for i, p := range parts {
		out[i] = value.String(p)
	}
	return out
}

func splitOn(s, sep string) []string {
	var out []string
	for {
		i := indexOf(s, sep)
		if i < 0 {
			out = append(out, s)
			return out
		}
		out = append(out, s[:i])
		s = s[i+len(sep):]
	}
}

func indexOf(s, sub string) int {
	n, m := len(s), len(sub)
	if m == 0 {
		return -1
	}
	for i := 0; i+m <= n; i++ {
		if s[i:i+m] == sub {
			return i
		}
	}
	return -1
}
