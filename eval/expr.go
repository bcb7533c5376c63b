package eval

import (
	"fmt"
	"strings"

	"github.com/quillscript/quill/ast"
	"github.com/quillscript/quill/quillerr"
	"github.com/quillscript/quill/value"
)

func (e *Evaluator) evalExpr(expr ast.Expr) (value.Value, error) {
	switch x := expr.(type) {
	case *ast.IntLit:
		return value.Int(x.Value), nil
	case *ast.FloatLit:
		return value.Float(x.Value), nil
	case *ast.StringLit:
		return value.String(x.Value), nil
	case *ast.TemplateLit:
		return e.evalTemplate(x)
	case *ast.BoolLit:
		return value.Bool(x.Value), nil
	case *ast.NullLit:
		return value.NullValue, nil
	case *ast.Identifier:
		if v, ok := e.Env.Lookup(x.Name); ok {
			return v, nil
		}
		line, col := x.Pos()
		return nil, quillerr.At(quillerr.Name, line, col, "undefined variable %q", x.Name)
	case *ast.BinaryExpr:
		return e.evalBinary(x)
	case *ast.UnaryExpr:
		return e.evalUnary(x)
	case *ast.CallExpr:
		return e.evalCall(x)
	case *ast.MethodCallExpr:
		return e.evalMethodCall(x)
	case *ast.ArrayLit:
		elems := make([]value.Value, len(x.Elements))
		for i, el := range x.Elements {
			v, err := e.evalExpr(el)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return value.NewArray(elems), nil
	case *ast.MapLit:
		m := value.NewMap()
		for _, entry := range x.Entries {
			v, err := e.evalExpr(entry.Value)
			if err != nil {
				return nil, err
			}
			m.Set(entry.Key, v) // last-write-wins on duplicate keys
		}
		return m, nil
	case *ast.IndexExpr:
		return e.evalIndex(x)
	case *ast.IfExpr:
		return e.evalIf(x)
	case *ast.BlockExpr:
		return e.evalBlockExpr(x)
	case *ast.AssignExpr:
		v, err := e.evalExpr(x.Value)
		if err != nil {
			return nil, err
		}
		e.Env.AssignOrDefine(x.Name, v)
		return v, nil
	}
	return nil, fmt.Errorf("eval: unhandled expression %T", expr)
}

func (e *Evaluator) evalIf(x *ast.IfExpr) (value.Value, error) {
	cond, err := e.evalExpr(x.Cond)
	if err != nil {
		return nil, err
	}
	if value.Truthy(cond) {
		return e.evalBlockExpr(x.Then)
	}
	if x.Else == nil {
		return value.NullValue, nil
	}
	return e.evalExpr(x.Else)
}

func (e *Evaluator) evalIndex(x *ast.IndexExpr) (value.Value, error) {
	recv, err := e.evalExpr(x.Receiver)
	if err != nil {
		return nil, err
	}
	idx, err := e.evalExpr(x.Index)
	if err != nil {
		return nil, err
	}
	line, col := x.Pos()
	switch r := recv.(type) {
	case value.Array:
		i, ok := idx.(value.Int)
		if !ok {
			return nil, quillerr.At(quillerr.Type, line, col, "array index must be an Int")
		}
		n := int64(len(*r.Elems))
		pos := int64(i)
		if pos < 0 {
			pos += n
		}
		if pos < 0 || pos >= n {
			return nil, quillerr.At(quillerr.Domain, line, col, "Index out of bounds")
		}
		return (*r.Elems)[pos], nil
	case value.Map:
		k, ok := idx.(value.String)
		if !ok {
			return nil, quillerr.At(quillerr.Type, line, col, "map index must be a String")
		}
		v, ok := r.Get(string(k))
		if !ok {
			return nil, quillerr.At(quillerr.Domain, line, col, "key %q not found", string(k))
		}
		return v, nil
	case value.String:
		i, ok := idx.(value.Int)
		if !ok {
			return nil, quillerr.At(quillerr.Type, line, col, "string index must be an Int")
		}
		runes := []rune(string(r))
		n := int64(len(runes))
		pos := int64(i)
		if pos < 0 {
			pos += n
		}
		if pos < 0 || pos >= n {
			return nil, quillerr.At(quillerr.Domain, line, col, "Index out of bounds")
		}
		return value.String(string(runes[pos])), nil
	}
	return nil, quillerr.At(quillerr.Type, line, col, "value of type %s is not indexable", recv.Type())
}

// evalTemplate walks the raw template text replacing `{name}` with the
// Display rendering of name in the current environment, leaving unknown
// names literally in place, per §4.3. `{{` escapes a literal `{`.
func (e *Evaluator) evalTemplate(t *ast.TemplateLit) (value.Value, error) {
	var sb strings.Builder
	raw := t.Raw
	i := 0
	for i < len(raw) {
		ch := raw[i]
		if ch == '{' {
			if i+1 < len(raw) && raw[i+1] == '{' {
				sb.WriteByte('{')
				i += 2
				continue
			}
			end := strings.IndexByte(raw[i:], '}')
			if end < 0 {
				sb.WriteString(raw[i:])
				break
			}
			name := raw[i+1 : i+end]
			if v, ok := e.Env.Lookup(name); ok {
				sb.WriteString(v.String())
			} else {
				sb.WriteString(raw[i : i+end+1])
			}
			i += end + 1
			continue
		}
		sb.WriteByte(ch)
		i++
	}
	return value.String(sb.String()), nil
}
