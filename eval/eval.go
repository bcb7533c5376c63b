/*
Package eval implements the tree-walking Interpreter (§4.3): AST nodes plus
the runtime Value model plus a lexical environment with a scope stack.
Grounded on the reference go-mix `eval.Evaluator` (NewEvaluator/CallFunction/
RegisterFunction/CreateError shape) but re-specified for this language's
closed Value set and no-closures Function model (see env.NewCallEnv).
*/
package eval

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/quillscript/quill/ast"
	"github.com/quillscript/quill/env"
	"github.com/quillscript/quill/parser"
	"github.com/quillscript/quill/quillerr"
	"github.com/quillscript/quill/stdlib"
	"github.com/quillscript/quill/value"
)

// Evaluator walks an AST and produces Values, mirroring the reference
// Evaluator's Set Writer/Reader + scope-stack shape.
type Evaluator struct {
	Env         *env.Env
	isReturning bool
	returnValue value.Value

	Out io.Writer
	In  *bufio.Reader

	modules map[string]stdlib.Module // modules brought into scope via `use`
}

// New creates an Evaluator with a fresh global scope and stdout/stdin
// wired, per the reference REPL/CLI driver's default construction.
func New() *Evaluator {
	e := &Evaluator{
		Env:     env.New(),
		Out:     os.Stdout,
		In:      bufio.NewReader(os.Stdin),
		modules: map[string]stdlib.Module{},
	}
	// Let stdlib modules (e.g. web's route handlers) invoke Function/
	// NativeFunction Values without stdlib importing eval.
	stdlib.Caller = func(fn value.Value, args []value.Value) (value.Value, error) {
		return e.CallValue(fn, args, 0, 0)
	}
	return e
}

// EvalProgram evaluates every statement of prog in order and returns the
// value of the final statement (Null if prog is empty or the final
// statement isn't value-bearing), the behaviour `run <path>` and the REPL
// both rely on.
func (e *Evaluator) EvalProgram(prog *ast.Program) (value.Value, error) {
	var last value.Value = value.NullValue
	for _, stmt := range prog.Statements {
		v, err := e.execStmt(stmt)
		if err != nil {
			return nil, err
		}
		if e.isReturning {
			return e.returnValue, nil
		}
		if v != nil {
			last = v
		} else {
			last = value.NullValue
		}
	}
	return last, nil
}

// execStmt evaluates one statement, returning its value when the statement
// is value-bearing (an expression statement) and nil for every other
// statement, so block/program "value of last statement" semantics compose
// uniformly.
func (e *Evaluator) execStmt(stmt ast.Stmt) (value.Value, error) {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		return e.evalExpr(s.X)
	case *ast.LetStmt:
		v, err := e.evalExpr(s.Value)
		if err != nil {
			return nil, err
		}
		e.Env.AssignOrDefine(s.Name, v)
		return nil, nil
	case *ast.FuncDeclStmt:
		fn := value.Function{Params: s.Params, Body: s.Body}
		e.Env.Define(s.Name, fn)
		return nil, nil
	case *ast.ReturnStmt:
		var v value.Value = value.NullValue
		if s.Value != nil {
			rv, err := e.evalExpr(s.Value)
			if err != nil {
				return nil, err
			}
			v = rv
		}
		e.isReturning = true
		e.returnValue = v
		return nil, nil
	case *ast.WhileStmt:
		return nil, e.execWhile(s)
	case *ast.ForStmt:
		return nil, e.execFor(s)
	case *ast.UseStmt:
		mod, ok := stdlib.Lookup(s.Module)
		if !ok {
			line, col := s.Pos()
			return nil, quillerr.At(quillerr.Name, line, col, "unknown stdlib module %q", s.Module)
		}
		e.modules[s.Module] = mod
		return nil, nil
	case *ast.ImportStmt:
		return nil, e.execImport(s)
	case *ast.ForeignImportStmt:
		// The Evaluator has no target-language toolchain to satisfy a
		// foreign crate; it is a Transpiler-only construct (§4.4) and is a
		// silent no-op here, matching the Non-goals' "no module import
		// resolution beyond reading a file" for anything outside Quill.
		return nil, nil
	case *ast.ForeignCodeBlock:
		line, col := s.Pos()
		return nil, quillerr.At(quillerr.Type, line, col, "foreign code blocks cannot run under the interpreter")
	}
	return nil, fmt.Errorf("eval: unhandled statement %T", stmt)
}

func (e *Evaluator) execWhile(s *ast.WhileStmt) error {
	// while does NOT push a scope per iteration (§4.3): assignments in the
	// body must persist across iterations.
	for {
		cond, err := e.evalExpr(s.Cond)
		if err != nil {
			return err
		}
		if !value.Truthy(cond) {
			return nil
		}
		if err := e.execBlockNoScope(s.Body); err != nil {
			return err
		}
		if e.isReturning {
			return nil
		}
	}
}

func (e *Evaluator) execFor(s *ast.ForStmt) error {
	iterable, err := e.evalExpr(s.Iterable)
	if err != nil {
		return err
	}
	arr, ok := iterable.(value.Array)
	if !ok {
		line, col := s.Pos()
		return quillerr.At(quillerr.Type, line, col, "for: iterable must be an Array")
	}
	for _, elem := range *arr.Elems {
		e.Env.PushScope()
		e.Env.Define(s.Iter, elem)
		err := e.execBlockNoScope(s.Body)
		e.Env.PopScope()
		if err != nil {
			return err
		}
		if e.isReturning {
			return nil
		}
	}
	return nil
}

// execBlockNoScope runs a block's statements in the current scope, used by
// while/for where the scope push/pop is managed by the caller (for) or
// deliberately skipped (while).
func (e *Evaluator) execBlockNoScope(b *ast.BlockExpr) error {
	for _, stmt := range b.Statements {
		if _, err := e.execStmt(stmt); err != nil {
			return err
		}
		if e.isReturning {
			return nil
		}
	}
	return nil
}

func (e *Evaluator) execImport(s *ast.ImportStmt) error {
	src, err := os.ReadFile(s.Path)
	if err != nil {
		line, col := s.Pos()
		return quillerr.At(quillerr.IO, line, col, "import %q: %v", s.Path, err)
	}
	line, col := s.Pos()
	prog, perr := parser.Parse(string(src))
	if perr != nil {
		return quillerr.At(quillerr.IO, line, col, "import %q: %v", s.Path, perr)
	}
	// "reading a file and evaluating it in a fresh interpreter" (§1
	// Non-goals) — no shared scope with the importer.
	sub := New()
	if _, err := sub.EvalProgram(prog); err != nil {
		return quillerr.At(quillerr.IO, line, col, "import %q: %v", s.Path, err)
	}
	return nil
}

// evalBlockExpr evaluates a block expression in a fresh child scope
// (pushed on entry, popped on exit, including on return-propagation),
// yielding the value of its last expression-statement, or Null.
func (e *Evaluator) evalBlockExpr(b *ast.BlockExpr) (value.Value, error) {
	e.Env.PushScope()
	defer e.Env.PopScope()

	var last value.Value = value.NullValue
	for _, stmt := range b.Statements {
		v, err := e.execStmt(stmt)
		if err != nil {
			return nil, err
		}
		if e.isReturning {
			return e.returnValue, nil
		}
		if v != nil {
			last = v
		} else {
			last = value.NullValue
		}
	}
	return last, nil
}
