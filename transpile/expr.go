package transpile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/quillscript/quill/ast"
)

// builtinNames mirrors eval's bare-identifier built-in set (§4.3's Calls
// rule); the Transpiler resolves the same names statically instead of at
// call time, since generated code has no environment to shadow them with.
var builtinNames = map[string]bool{
	"print": true, "range": true, "len": true, "type": true,
	"push": true, "pop": true, "split": true, "join": true, "trim": true,
	"upper": true, "lower": true, "abs": true, "min": true, "max": true,
	"floor": true, "ceil": true, "round": true, "map": true, "filter": true,
	"reduce": true, "reverse": true, "sort": true, "input": true,
}

func (em *emitter) emitExpr(e ast.Expr, depth int) (string, error) {
	switch x := e.(type) {
	case *ast.IntLit:
		return fmt.Sprintf("runtime.Int(%d)", x.Value), nil
	case *ast.FloatLit:
		return fmt.Sprintf("runtime.Float(%s)", strconv.FormatFloat(x.Value, 'g', -1, 64)), nil
	case *ast.StringLit:
		return fmt.Sprintf("runtime.Str(%s)", strconv.Quote(x.Value)), nil
	case *ast.TemplateLit:
		return em.emitTemplate(x), nil
	case *ast.BoolLit:
		return fmt.Sprintf("runtime.Bool(%t)", x.Value), nil
	case *ast.NullLit:
		return "runtime.Null", nil
	case *ast.Identifier:
		if em.fnNames[x.Name] {
			return fmt.Sprintf("quillFns[%q]", x.Name), nil
		}
		return goName(x.Name), nil
	case *ast.BinaryExpr:
		return em.emitBinary(x, depth)
	case *ast.UnaryExpr:
		operand, err := em.emitExpr(x.Operand, depth)
		if err != nil {
			return "", err
		}
		switch x.Op {
		case ast.OpNot:
			return fmt.Sprintf("runtime.Not(%s)", operand), nil
		case ast.OpNegate:
			return fmt.Sprintf("runtime.MustNeg(%s)", operand), nil
		}
		return "", fmt.Errorf("transpile: unknown unary operator %q", x.Op)
	case *ast.CallExpr:
		return em.emitCall(x, depth)
	case *ast.MethodCallExpr:
		return em.emitMethodCall(x, depth)
	case *ast.ArrayLit:
		elems, err := em.emitExprList(x.Elements, depth)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("runtime.Array([]runtime.Value{%s})", strings.Join(elems, ", ")), nil
	case *ast.MapLit:
		return em.emitMapLit(x, depth)
	case *ast.IndexExpr:
		recv, err := em.emitExpr(x.Receiver, depth)
		if err != nil {
			return "", err
		}
		idx, err := em.emitExpr(x.Index, depth)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("runtime.MustIndex(%s, %s)", recv, idx), nil
	case *ast.IfExpr:
		return em.emitIfExpr(x, depth)
	case *ast.BlockExpr:
		return em.emitBlockAsExpr(x, depth)
	case *ast.AssignExpr:
		val, err := em.emitExpr(x.Value, depth)
		if err != nil {
			return "", err
		}
		name := goName(x.Name)
		return fmt.Sprintf("func() runtime.Value { %s = %s; return %s }()", name, val, name), nil
	}
	return "", fmt.Errorf("transpile: unhandled expression %T", e)
}

func (em *emitter) emitExprList(exprs []ast.Expr, depth int) ([]string, error) {
	out := make([]string, len(exprs))
	for i, e := range exprs {
		v, err := em.emitExpr(e, depth)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (em *emitter) emitBinary(x *ast.BinaryExpr, depth int) (string, error) {
	left, err := em.emitExpr(x.Left, depth)
	if err != nil {
		return "", err
	}
	right, err := em.emitExpr(x.Right, depth)
	if err != nil {
		return "", err
	}
	switch x.Op {
	case ast.OpAnd:
		return fmt.Sprintf("runtime.Bool(runtime.Truthy(%s) && runtime.Truthy(%s))", left, right), nil
	case ast.OpOr:
		return fmt.Sprintf("runtime.Bool(runtime.Truthy(%s) || runtime.Truthy(%s))", left, right), nil
	case ast.OpEq:
		return fmt.Sprintf("runtime.Eq(%s, %s)", left, right), nil
	case ast.OpNeq:
		return fmt.Sprintf("runtime.Neq(%s, %s)", left, right), nil
	case ast.OpLt:
		return fmt.Sprintf("runtime.Lt(%s, %s)", left, right), nil
	case ast.OpGt:
		return fmt.Sprintf("runtime.Gt(%s, %s)", left, right), nil
	case ast.OpLe:
		return fmt.Sprintf("runtime.Le(%s, %s)", left, right), nil
	case ast.OpGe:
		return fmt.Sprintf("runtime.Ge(%s, %s)", left, right), nil
	case ast.OpAdd:
		return fmt.Sprintf("runtime.MustAdd(%s, %s)", left, right), nil
	case ast.OpSub:
		return fmt.Sprintf("runtime.MustSub(%s, %s)", left, right), nil
	case ast.OpMul:
		return fmt.Sprintf("runtime.MustMul(%s, %s)", left, right), nil
	case ast.OpDiv:
		return fmt.Sprintf("runtime.MustDiv(%s, %s)", left, right), nil
	case ast.OpMod:
		return fmt.Sprintf("runtime.MustMod(%s, %s)", left, right), nil
	}
	return "", fmt.Errorf("transpile: unknown binary operator %q", x.Op)
}

func (em *emitter) emitCall(x *ast.CallExpr, depth int) (string, error) {
	if ident, ok := x.Callee.(*ast.Identifier); ok && builtinNames[ident.Name] && !em.fnNames[ident.Name] {
		return em.emitBuiltinCall(ident.Name, x.Args, depth)
	}
	callee, err := em.emitExpr(x.Callee, depth)
	if err != nil {
		return "", err
	}
	args, err := em.emitExprList(x.Args, depth)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("runtime.MustCallNative(%s%s)", callee, prefixedArgs(args)), nil
}

func prefixedArgs(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return ", " + strings.Join(args, ", ")
}

func (em *emitter) emitBuiltinCall(name string, argExprs []ast.Expr, depth int) (string, error) {
	args, err := em.emitExprList(argExprs, depth)
	if err != nil {
		return "", err
	}
	switch name {
	case "print":
		return fmt.Sprintf("runtime.PrintV(%s)", strings.Join(args, ", ")), nil
	case "range":
		a, b, step, err := em.rangeArgs(argExprs, depth)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("runtime.MustRange(%s, %s, %s)", a, b, step), nil
	case "type":
		if len(args) != 1 {
			return "", fmt.Errorf("transpile: type expects 1 argument")
		}
		return fmt.Sprintf("runtime.TypeOf(%s)", args[0]), nil
	case "min":
		return fmt.Sprintf("runtime.MinOf(%s)", strings.Join(args, ", ")), nil
	case "max":
		return fmt.Sprintf("runtime.MaxOf(%s)", strings.Join(args, ", ")), nil
	case "join":
		return fmt.Sprintf("runtime.MustJoin(%s)", strings.Join(args, ", ")), nil
	case "input":
		return "runtime.Input(runtime.Stdin)", nil
	case "len", "upper", "lower", "trim", "split", "abs", "floor", "ceil", "round",
		"push", "pop", "map", "filter", "reduce", "reverse", "sort":
		if len(args) == 0 {
			return "", fmt.Errorf("transpile: %s expects at least 1 argument", name)
		}
		return fmt.Sprintf("runtime.MustMethod(%s, %q%s)", args[0], name, prefixedArgs(args[1:])), nil
	}
	return "", fmt.Errorf("transpile: unknown built-in %q", name)
}

func (em *emitter) emitMethodCall(x *ast.MethodCallExpr, depth int) (string, error) {
	if ident, ok := x.Receiver.(*ast.Identifier); ok && em.modules[ident.Name] {
		args, err := em.emitExprList(x.Args, depth)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("runtime.MustCallNative(quillModules[%q].Functions[%q]%s)", ident.Name, x.Name, prefixedArgs(args)), nil
	}
	recv, err := em.emitExpr(x.Receiver, depth)
	if err != nil {
		return "", err
	}
	args, err := em.emitExprList(x.Args, depth)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("runtime.MustMethod(%s, %q%s)", recv, x.Name, prefixedArgs(args)), nil
}

func (em *emitter) emitMapLit(x *ast.MapLit, depth int) (string, error) {
	var b strings.Builder
	b.WriteString("func() runtime.Value { __m := runtime.NewMap(); ")
	for _, entry := range x.Entries {
		v, err := em.emitExpr(entry.Value, depth)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "__m.Set(%s, %s); ", strconv.Quote(entry.Key), v)
	}
	b.WriteString("return __m }()")
	return b.String(), nil
}

func (em *emitter) emitIfExpr(x *ast.IfExpr, depth int) (string, error) {
	cond, err := em.emitExpr(x.Cond, depth)
	if err != nil {
		return "", err
	}
	thenExpr, err := em.emitBlockAsExpr(x.Then, depth)
	if err != nil {
		return "", err
	}
	elseExpr := "runtime.Null"
	if x.Else != nil {
		elseExpr, err = em.emitExpr(x.Else, depth)
		if err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("func() runtime.Value { if runtime.Truthy(%s) { return %s }; return %s }()", cond, thenExpr, elseExpr), nil
}

// emitBlockAsExpr lowers a block expression into an immediately-invoked Go
// closure returning its last statement's value, since Go has no block
// expressions of its own. Must*-panics raised inside propagate through the
// closure to the enclosing function's deferred runtime.Recover unchanged.
func (em *emitter) emitBlockAsExpr(b *ast.BlockExpr, depth int) (string, error) {
	var body strings.Builder
	body.WriteString("var __last runtime.Value = runtime.Null\n")
	for _, st := range b.Statements {
		if err := em.emitStmt(&body, st, depth+1); err != nil {
			return "", err
		}
	}
	body.WriteString("return __last\n")
	return "func() runtime.Value {\n" + body.String() + "}()", nil
}

// emitTemplate resolves `{name}` placeholders at transpile time (rather
// than via a runtime environment lookup, which generated code has no
// equivalent of): known variable names become %s format arguments,
// unrecognised names are left literally in the output string, matching
// the Evaluator's "unknown names left literal" rule (§4.3).
func (em *emitter) emitTemplate(t *ast.TemplateLit) string {
	var format strings.Builder
	var args []string
	raw := t.Raw
	i := 0
	for i < len(raw) {
		ch := raw[i]
		if ch == '{' {
			if i+1 < len(raw) && raw[i+1] == '{' {
				format.WriteByte('{')
				i += 2
				continue
			}
			end := strings.IndexByte(raw[i:], '}')
			if end < 0 {
				format.WriteString(escapePercent(raw[i:]))
				break
			}
			name := raw[i+1 : i+end]
			if _, known := em.hints.vars[name]; known {
				format.WriteString("%s")
				args = append(args, goName(name)+".String()")
			} else {
				format.WriteString(escapePercent(raw[i : i+end+1]))
			}
			i += end + 1
			continue
		}
		if ch == '%' {
			format.WriteString("%%")
		} else {
			format.WriteByte(ch)
		}
		i++
	}
	call := fmt.Sprintf("fmt.Sprintf(%s%s)", strconv.Quote(format.String()), prefixedArgs(args))
	return fmt.Sprintf("runtime.Str(%s)", call)
}

func escapePercent(s string) string {
	return strings.ReplaceAll(s, "%", "%%")
}
