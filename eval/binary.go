package eval

import (
	"math"

	"github.com/quillscript/quill/ast"
	"github.com/quillscript/quill/quillerr"
	"github.com/quillscript/quill/value"
)

func (e *Evaluator) evalUnary(x *ast.UnaryExpr) (value.Value, error) {
	v, err := e.evalExpr(x.Operand)
	if err != nil {
		return nil, err
	}
	line, col := x.Pos()
	switch x.Op {
	case ast.OpNot:
		return value.Bool(!value.Truthy(v)), nil
	case ast.OpNegate:
		switch n := v.(type) {
		case value.Int:
			return value.Int(-n), nil
		case value.Float:
			return value.Float(-n), nil
		}
		return nil, quillerr.At(quillerr.Type, line, col, "unary - requires a numeric operand, got %s", v.Type())
	}
	return nil, quillerr.At(quillerr.Type, line, col, "unknown unary operator %q", x.Op)
}

// evalBinary implements §4.3's arithmetic/comparison/logical semantics.
// && and || are eager (both operands always evaluated) and always yield
// Bool, per the data model's invariant that logical operators never
// short-circuit to an operand value.
func (e *Evaluator) evalBinary(x *ast.BinaryExpr) (value.Value, error) {
	left, err := e.evalExpr(x.Left)
	if err != nil {
		return nil, err
	}
	right, err := e.evalExpr(x.Right)
	if err != nil {
		return nil, err
	}
	line, col := x.Pos()

	switch x.Op {
	case ast.OpAnd:
		return value.Bool(value.Truthy(left) && value.Truthy(right)), nil
	case ast.OpOr:
		return value.Bool(value.Truthy(left) || value.Truthy(right)), nil
	case ast.OpEq:
		return value.Bool(value.Equal(left, right)), nil
	case ast.OpNeq:
		return value.Bool(!value.Equal(left, right)), nil
	case ast.OpLt:
		return value.Bool(value.Less(left, right)), nil
	case ast.OpGt:
		return value.Bool(value.Less(right, left)), nil
	case ast.OpLe:
		return value.Bool(!value.Less(right, left)), nil
	case ast.OpGe:
		return value.Bool(!value.Less(left, right)), nil
	}

	// String concatenation: + on two Strings.
	if x.Op == ast.OpAdd {
		if ls, ok := left.(value.String); ok {
			if rs, ok := right.(value.String); ok {
				return value.String(string(ls) + string(rs)), nil
			}
		}
	}

	return arith(x.Op, left, right, line, col)
}

// arith implements numeric promotion: Int op Int stays Int (except that
// division by zero and mod by zero are DomainErrors); any Float operand
// promotes the result to Float.
func arith(op ast.BinOp, left, right value.Value, line, col int) (value.Value, error) {
	li, lIsInt := left.(value.Int)
	ri, rIsInt := right.(value.Int)
	if lIsInt && rIsInt {
		switch op {
		case ast.OpAdd:
			return value.Int(li + ri), nil
		case ast.OpSub:
			return value.Int(li - ri), nil
		case ast.OpMul:
			return value.Int(li * ri), nil
		case ast.OpDiv:
			if ri == 0 {
				return nil, quillerr.At(quillerr.Domain, line, col, "division by zero")
			}
			return value.Int(li / ri), nil
		case ast.OpMod:
			if ri == 0 {
				return nil, quillerr.At(quillerr.Domain, line, col, "modulo by zero")
			}
			return value.Int(li % ri), nil
		}
	}

	lf, lok := toFloat(left)
	rf, rok := toFloat(right)
	if !lok || !rok {
		return nil, quillerr.At(quillerr.Type, line, col,
			"operator %s is not defined for %s and %s", op, left.Type(), right.Type())
	}
	switch op {
	case ast.OpAdd:
		return value.Float(lf + rf), nil
	case ast.OpSub:
		return value.Float(lf - rf), nil
	case ast.OpMul:
		return value.Float(lf * rf), nil
	case ast.OpDiv:
		// Float division by zero yields IEEE infinity/NaN, not an error
		// (§4.3); only the integer/integer path above is a DomainError.
		return value.Float(lf / rf), nil
	case ast.OpMod:
		return value.Float(math.Mod(lf, rf)), nil
	}
	return nil, quillerr.At(quillerr.Type, line, col, "unknown binary operator %q", op)
}

func toFloat(v value.Value) (float64, bool) {
	switch n := v.(type) {
	case value.Int:
		return float64(n), true
	case value.Float:
		return float64(n), true
	}
	return 0, false
}
