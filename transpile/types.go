package transpile

import "github.com/quillscript/quill/ast"

// typeHint mirrors the Rust Optimizer's TypeHint enum (§4.4's Inference
// pass): Unknown or Int. Only two hints are named by the spec; everything
// that isn't provably Int collapses to Unknown.
type typeHint int

const (
	hintUnknown typeHint = iota
	hintInt
)

// inferrer runs the single pre-walk §4.4 names: record a TypeHint per let
// binding, collapsing to Unknown on a rebind with a different hint. The
// emitter does not read the hints themselves: it uses the recorded names as
// the known-identifier set for template-string interpolation, and picks the
// native Go int64 loop for `for x in range(...)` syntactically (isRangeFor).
type inferrer struct {
	vars map[string]typeHint
}

func newInferrer() *inferrer {
	return &inferrer{vars: map[string]typeHint{}}
}

func (in *inferrer) analyze(stmts []ast.Stmt) {
	for _, s := range stmts {
		in.analyzeStmt(s)
	}
}

func (in *inferrer) analyzeStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		hint := in.infer(s.Value)
		if existing, ok := in.vars[s.Name]; ok && existing != hint {
			in.vars[s.Name] = hintUnknown
		} else if !ok {
			in.vars[s.Name] = hint
		}
	case *ast.WhileStmt:
		in.analyze(s.Body.Statements)
	case *ast.ForStmt:
		in.vars[s.Iter] = iterableHint(s.Iterable)
		in.analyze(s.Body.Statements)
	case *ast.FuncDeclStmt:
		for _, p := range s.Params {
			in.vars[p] = hintUnknown
		}
	case *ast.ExprStmt:
		in.analyzeExpr(s.X)
	case *ast.ReturnStmt:
		if s.Value != nil {
			in.analyzeExpr(s.Value)
		}
	}
}

func (in *inferrer) analyzeExpr(e ast.Expr) {
	switch x := e.(type) {
	case *ast.BlockExpr:
		in.analyze(x.Statements)
	case *ast.IfExpr:
		in.analyzeExpr(x.Cond)
		in.analyze(x.Then.Statements)
		if x.Else != nil {
			in.analyzeExpr(x.Else)
		}
	}
}

// iterableHint tags a `for x in <iterable>` binding Int when the iterable
// is a bare call to the `range` builtin, Unknown otherwise.
func iterableHint(iterable ast.Expr) typeHint {
	call, ok := iterable.(*ast.CallExpr)
	if !ok {
		return hintUnknown
	}
	ident, ok := call.Callee.(*ast.Identifier)
	if ok && ident.Name == "range" {
		return hintInt
	}
	return hintUnknown
}

// infer computes the TypeHint of an expression: Int literals are Int,
// identifiers look up their recorded hint, (Int,Int) arithmetic is Int,
// everything else is Unknown.
func (in *inferrer) infer(e ast.Expr) typeHint {
	switch x := e.(type) {
	case *ast.IntLit:
		return hintInt
	case *ast.Identifier:
		return in.vars[x.Name]
	case *ast.BinaryExpr:
		switch x.Op {
		case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod:
			if in.infer(x.Left) == hintInt && in.infer(x.Right) == hintInt {
				return hintInt
			}
		}
	}
	return hintUnknown
}

// isRangeFor reports whether s iterates directly over a range(...) call,
// the one pattern the emitter lowers to a native Go integer loop.
func isRangeFor(s *ast.ForStmt) (*ast.CallExpr, bool) {
	call, ok := s.Iterable.(*ast.CallExpr)
	if !ok {
		return nil, false
	}
	ident, ok := call.Callee.(*ast.Identifier)
	if !ok || ident.Name != "range" {
		return nil, false
	}
	return call, true
}
