package eval

import (
	"fmt"
	"strings"

	"github.com/quillscript/quill/quillerr"
	"github.com/quillscript/quill/value"
)

// callBuiltin dispatches the bare-identifier built-ins named in §4.3's
// Calls rule. Built-ins that also exist as methods (len/push/pop/split/
// trim/upper/lower/abs/floor/ceil/round/map/filter/reduce/reverse/sort)
// reuse dispatchMethod/arrayMethod so the two call forms share one
// implementation and can never drift apart.
func (e *Evaluator) callBuiltin(name string, args []value.Value, line, col int) (value.Value, error) {
	switch name {
	case "print":
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = a.String()
		}
		fmt.Fprintln(e.Out, strings.Join(parts, " "))
		return value.NullValue, nil
	case "range":
		return builtinRange(args, line, col)
	case "type":
		if len(args) != 1 {
			return nil, quillerr.At(quillerr.Arity, line, col, "type expects 1 argument")
		}
		return value.String(args[0].Type()), nil
	case "min":
		return minMax(args, true, line, col)
	case "max":
		return minMax(args, false, line, col)
	case "join":
		return builtinJoin(args, line, col)
	case "input":
		return e.builtinInput()
	case "len", "upper", "lower", "trim", "split", "abs", "floor", "ceil", "round":
		if len(args) == 0 {
			return nil, quillerr.At(quillerr.Arity, line, col, "%s expects at least 1 argument", name)
		}
		return e.dispatchMethod(args[0], name, args[1:], line, col)
	case "push", "pop", "map", "filter", "reduce", "reverse", "sort":
		if len(args) == 0 {
			return nil, quillerr.At(quillerr.Arity, line, col, "%s expects at least 1 argument", name)
		}
		arr, ok := args[0].(value.Array)
		if !ok {
			return nil, quillerr.At(quillerr.Domain, line, col, "%s requires an Array", name)
		}
		return e.arrayMethod(name, arr, args[1:], line, col)
	}
	return nil, quillerr.At(quillerr.Name, line, col, "unknown built-in %q", name)
}

// builtinRange implements §8's property 4: range(a, b, s) produces exactly
// ceil(max(0, (b-a)/s)) integers for s > 0, symmetric for s < 0, and s = 0
// is a DomainError. A 1-argument call is range(0, b, 1); 2-argument is
// range(a, b, 1).
func builtinRange(args []value.Value, line, col int) (value.Value, error) {
	toInt := func(v value.Value) (int64, bool) {
		switch n := v.(type) {
		case value.Int:
			return int64(n), true
		case value.Float:
			return int64(n), true
		}
		return 0, false
	}
	var a, b, step int64 = 0, 0, 1
	switch len(args) {
	case 1:
		n, ok := toInt(args[0])
		if !ok {
			return nil, quillerr.At(quillerr.Type, line, col, "range expects numeric arguments")
		}
		b = n
	case 2:
		an, ok1 := toInt(args[0])
		bn, ok2 := toInt(args[1])
		if !ok1 || !ok2 {
			return nil, quillerr.At(quillerr.Type, line, col, "range expects numeric arguments")
		}
		a, b = an, bn
	case 3:
		an, ok1 := toInt(args[0])
		bn, ok2 := toInt(args[1])
		sn, ok3 := toInt(args[2])
		if !ok1 || !ok2 || !ok3 {
			return nil, quillerr.At(quillerr.Type, line, col, "range expects numeric arguments")
		}
		a, b, step = an, bn, sn
	default:
		return nil, quillerr.At(quillerr.Arity, line, col, "range expects 1 to 3 arguments")
	}
	if step == 0 {
		return nil, quillerr.At(quillerr.Domain, line, col, "range step must not be zero")
	}
	var out []value.Value
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
		out = []value.Value{}
	}
	return value.NewArray(out), nil
}

func minMax(args []value.Value, wantMin bool, line, col int) (value.Value, error) {
	vals := args
	if len(args) == 1 {
		if arr, ok := args[0].(value.Array); ok {
			vals = *arr.Elems
		}
	}
	if len(vals) == 0 {
		return nil, quillerr.At(quillerr.Arity, line, col, "min/max requires at least 1 value")
	}
	best := vals[0]
	for _, v := range vals[1:] {
		if wantMin == value.Less(v, best) {
			best = v
		}
	}
	return best, nil
}

func builtinJoin(args []value.Value, line, col int) (value.Value, error) {
	if len(args) < 1 {
		return nil, quillerr.At(quillerr.Arity, line, col, "join expects an Array")
	}
	arr, ok := args[0].(value.Array)
	if !ok {
		return nil, quillerr.At(quillerr.Domain, line, col, "join requires an Array")
	}
	sep := ""
	if len(args) > 1 {
		s, ok := args[1].(value.String)
		if !ok {
			return nil, quillerr.At(quillerr.Type, line, col, "join separator must be a String")
		}
		sep = string(s)
	}
	parts := make([]string, len(*arr.Elems))
	for i, el := range *arr.Elems {
		parts[i] = el.String()
	}
	return value.String(strings.Join(parts, sep)), nil
}

func (e *Evaluator) builtinInput() (value.Value, error) {
	if e.In == nil {
		return value.String(""), nil
	}
	line, err := e.In.ReadString('\n')
	if err != nil && line == "" {
		return value.String(""), nil
	}
	return value.String(trimSpace(line)), nil
}
