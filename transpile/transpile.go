/*
Package transpile implements the Transpiler (§4.4): AST to Go source, run
through the real `go` toolchain by jitbuild. Grounded on
`original_source/crates/core/src/compiler/transpiler.rs` (Optimizer +
Transpiler structural-lowering rules), re-targeted from Cargo/Rust's
`Value` enum to this module's `runtime` package.

Scoping model. Unlike the Evaluator's nested scope stack, generated Go code
hoists every `let`/bare-assignment/for-iterator/parameter name referenced
inside one Quill
function body (or the top-level program) into a single flat block of `var`
declarations at the top of the corresponding Go function, then emits plain
`=` assignment everywhere — matching the Evaluator's own "assign updates the
nearest existing binding, else defines locally" rule (env.AssignOrDefine)
well enough for straight-line and loop-body code without needing a second,
Go-level scope stack. Shadowing across nested block expressions is not
reproduced; the Testable Properties in §8 do not exercise it.
*/
package transpile

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/quillscript/quill/ast"
)

// Transpile produces a single, self-contained Go source file implementing
// prog, per §4.4's output contract.
func Transpile(prog *ast.Program) (string, error) {
	em := &emitter{
		hints:   newInferrer(),
		modules: map[string]bool{},
		fnNames: map[string]bool{},
	}
	em.hints.analyze(prog.Statements)
	em.collectTopLevel(prog.Statements)
	for name := range em.topVars {
		if _, ok := em.hints.vars[name]; !ok {
			em.hints.vars[name] = hintUnknown
		}
	}
	// Extend the "known identifier" set (consulted by template-string
	// interpolation) with every fn's params and body-local lets, since the
	// inferrer's own pre-walk does not descend into function bodies. Also
	// pre-register every top-level function's name so a forward reference
	// (a function calling one declared later in the program) still resolves
	// to quillFns rather than a plain, never-declared Go variable.
	for _, s := range prog.Statements {
		if fd, ok := s.(*ast.FuncDeclStmt); ok {
			em.fnNames[fd.Name] = true
			for _, p := range fd.Params {
				em.hints.vars[p] = hintUnknown
			}
			if blk, ok := fd.Body.(*ast.BlockExpr); ok {
				for name := range collectLetNames(blk.Statements) {
					em.hints.vars[name] = hintUnknown
				}
			}
		}
	}

	var body strings.Builder
	for _, s := range prog.Statements {
		if err := em.emitStmt(&body, s, 1); err != nil {
			return "", err
		}
	}

	var out strings.Builder
	out.WriteString("package main\n\n")
	out.WriteString("import (\n\t\"fmt\"\n\t\"os\"\n\n")
	out.WriteString("\t\"github.com/quillscript/quill/runtime\"\n")
	if len(em.modules) > 0 {
		out.WriteString("\t\"github.com/quillscript/quill/stdlib\"\n")
	}
	out.WriteString(")\n\n")
	out.WriteString("var quillFns = map[string]runtime.Value{}\n\n")
	if len(em.modules) > 0 {
		out.WriteString("var quillModules = map[string]stdlib.Module{}\n\n")
		out.WriteString("func init() {\n")
		for _, name := range sortedModuleKeys(em.modules) {
			fmt.Fprintf(&out, "\tif m, ok := stdlib.Lookup(%q); ok { quillModules[%q] = m }\n", name, name)
		}
		out.WriteString("}\n\n")
	}

	for _, fn := range em.fnOrder {
		out.WriteString(fn)
		out.WriteString("\n")
	}

	out.WriteString("func run() (result runtime.Value, err error) {\n")
	out.WriteString("\tdefer runtime.Recover(&err)\n")
	for _, name := range sortedKeys(em.topVars) {
		out.WriteString(fmt.Sprintf("\tvar %s runtime.Value = runtime.Null\n", goName(name)))
	}
	out.WriteString("\t_ = runtime.Null\n")
	out.WriteString("\tvar __last runtime.Value = runtime.Null\n")
	out.WriteString(body.String())
	out.WriteString("\treturn __last, nil\n")
	out.WriteString("}\n\n")

	out.WriteString("func main() {\n")
	out.WriteString("\tv, err := run()\n")
	out.WriteString("\tif err != nil {\n")
	out.WriteString("\t\tfmt.Fprintln(os.Stderr, \"Error:\", err)\n")
	out.WriteString("\t\tos.Exit(1)\n")
	out.WriteString("\t}\n")
	out.WriteString("\tif v != runtime.Null {\n")
	out.WriteString("\t\tfmt.Println(v.String())\n")
	out.WriteString("\t}\n")
	out.WriteString("}\n")

	return out.String(), nil
}

type emitter struct {
	hints   *inferrer
	modules map[string]bool
	fnNames map[string]bool
	fnOrder []string
	topVars map[string]bool
}

func (em *emitter) collectTopLevel(stmts []ast.Stmt) {
	em.topVars = collectLetNames(stmts)
	for _, s := range stmts {
		if u, ok := s.(*ast.UseStmt); ok {
			em.modules[u.Module] = true
		}
	}
}

// collectLetNames gathers every let-bound/bare-assignment/for-iterator name
// referenced anywhere inside stmts (including nested if/while/for bodies), used to
// hoist one flat `var` block per Go function per this package's scoping
// model (see package doc comment).
func collectLetNames(stmts []ast.Stmt) map[string]bool {
	names := map[string]bool{}
	var walk func(stmts []ast.Stmt)
	walk = func(stmts []ast.Stmt) {
		for _, s := range stmts {
			switch x := s.(type) {
			case *ast.LetStmt:
				names[x.Name] = true
				walkExprBlocks(x.Value, walk)
			case *ast.WhileStmt:
				walk(x.Body.Statements)
			case *ast.ForStmt:
				names[x.Iter] = true
				walk(x.Body.Statements)
			case *ast.ExprStmt:
				if a, ok := x.X.(*ast.AssignExpr); ok {
					names[a.Name] = true
				}
				walkExprBlocks(x.X, walk)
			case *ast.ReturnStmt:
				if x.Value != nil {
					walkExprBlocks(x.Value, walk)
				}
			}
		}
	}
	walk(stmts)
	return names
}

func walkExprBlocks(e ast.Expr, walk func([]ast.Stmt)) {
	switch x := e.(type) {
	case *ast.BlockExpr:
		walk(x.Statements)
	case *ast.IfExpr:
		walk(x.Then.Statements)
		if x.Else != nil {
			walkExprBlocks(x.Else, walk)
		}
	}
}

func sortedModuleKeys(m map[string]bool) []string { return sortedKeys(m) }

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func goName(quillName string) string {
	return "v_" + quillName
}

func fnGoName(quillName string) string {
	return "fn_" + quillName
}

func indent(n int) string { return strings.Repeat("\t", n) }

func (em *emitter) emitStmt(out *strings.Builder, stmt ast.Stmt, depth int) error {
	ind := indent(depth)
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		expr, err := em.emitExpr(s.X, depth)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s__last = %s\n", ind, expr)
		return nil
	case *ast.LetStmt:
		val, err := em.emitExpr(s.Value, depth)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s%s = %s\n", ind, goName(s.Name), val)
		fmt.Fprintf(out, "%s__last = runtime.Null\n", ind)
		return nil
	case *ast.FuncDeclStmt:
		return em.emitFuncDecl(s)
	case *ast.ReturnStmt:
		if s.Value == nil {
			fmt.Fprintf(out, "%sreturn runtime.Null, nil\n", ind)
			return nil
		}
		val, err := em.emitExpr(s.Value, depth)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%sreturn %s, nil\n", ind, val)
		return nil
	case *ast.WhileStmt:
		cond, err := em.emitExpr(s.Cond, depth)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%sfor runtime.Truthy(%s) {\n", ind, cond)
		for _, st := range s.Body.Statements {
			if err := em.emitStmt(out, st, depth+1); err != nil {
				return err
			}
		}
		fmt.Fprintf(out, "%s}\n", ind)
		return nil
	case *ast.ForStmt:
		return em.emitFor(out, s, depth)
	case *ast.UseStmt:
		return nil // module presence handled at import/collection time
	case *ast.ImportStmt:
		return fmt.Errorf("transpile: import statements are not supported by the Transpiler (%q)", s.Path)
	case *ast.ForeignImportStmt:
		return nil // consumed by jitbuild's go.mod generation, not emitted as code
	case *ast.ForeignCodeBlock:
		fmt.Fprintf(out, "%s%s\n", ind, s.Code)
		return nil
	}
	return fmt.Errorf("transpile: unhandled statement %T", stmt)
}

func (em *emitter) emitFor(out *strings.Builder, s *ast.ForStmt, depth int) error {
	ind := indent(depth)
	if call, ok := isRangeFor(s); ok {
		a, b, step, err := em.rangeArgs(call.Args, depth)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%sfor __i := %s; __i < %s; __i += %s {\n", ind, a, b, step)
		fmt.Fprintf(out, "%s\t%s = runtime.Int(__i)\n", ind, goName(s.Iter))
		for _, st := range s.Body.Statements {
			if err := em.emitStmt(out, st, depth+1); err != nil {
				return err
			}
		}
		fmt.Fprintf(out, "%s}\n", ind)
		return nil
	}

	iterable, err := em.emitExpr(s.Iterable, depth)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s__elems, __elemsOK := runtime.AsElems(%s)\n", ind, iterable)
	fmt.Fprintf(out, "%sif !__elemsOK {\n", ind)
	fmt.Fprintf(out, "%s\treturn runtime.Null, runtime.Fail(\"for: iterable must be an Array\")\n", ind)
	fmt.Fprintf(out, "%s}\n", ind)
	fmt.Fprintf(out, "%sfor __fi := range __elems {\n", ind)
	fmt.Fprintf(out, "%s\t%s = __elems[__fi]\n", ind, goName(s.Iter))
	for _, st := range s.Body.Statements {
		if err := em.emitStmt(out, st, depth+1); err != nil {
			return err
		}
	}
	fmt.Fprintf(out, "%s}\n", ind)
	return nil
}

// rangeArgs emits the three int64 arguments to a range evaluation,
// defaulting (0, b, 1) / (a, b, 1) per range's 1- and 2-argument forms.
func (em *emitter) rangeArgs(args []ast.Expr, depth int) (a, b, step string, err error) {
	switch len(args) {
	case 1:
		b, err = em.emitIntExpr(args[0], depth)
		return "0", b, "1", err
	case 2:
		a, err = em.emitIntExpr(args[0], depth)
		if err != nil {
			return
		}
		b, err = em.emitIntExpr(args[1], depth)
		return a, b, "1", err
	case 3:
		a, err = em.emitIntExpr(args[0], depth)
		if err != nil {
			return
		}
		b, err = em.emitIntExpr(args[1], depth)
		if err != nil {
			return
		}
		step, err = em.emitIntExpr(args[2], depth)
		return a, b, step, err
	}
	return "", "", "", fmt.Errorf("transpile: range expects 1 to 3 arguments")
}

// emitIntExpr emits a Go int64 expression for a range bound: integer
// literals are emitted literally, everything else goes through the boxed
// path and is unwrapped with runtime.AsInt.
func (em *emitter) emitIntExpr(e ast.Expr, depth int) (string, error) {
	if lit, ok := e.(*ast.IntLit); ok {
		return strconv.FormatInt(lit.Value, 10), nil
	}
	expr, err := em.emitExpr(e, depth)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("runtime.AsInt(%s)", expr), nil
}

func (em *emitter) emitFuncDecl(s *ast.FuncDeclStmt) error {
	var b strings.Builder
	name := fnGoName(s.Name)
	fmt.Fprintf(&b, "func %s(__args []runtime.Value) (result runtime.Value, err error) {\n", name)
	fmt.Fprintf(&b, "\tdefer runtime.Recover(&err)\n")
	for i, p := range s.Params {
		fmt.Fprintf(&b, "\t%s := __args[%d]\n", goName(p), i)
	}
	switch body := s.Body.(type) {
	case *ast.BlockExpr:
		params := map[string]bool{}
		for _, p := range s.Params {
			params[p] = true
		}
		for _, name := range sortedKeys(collectLetNames(body.Statements)) {
			if !params[name] {
				fmt.Fprintf(&b, "\tvar %s runtime.Value = runtime.Null\n", goName(name))
			}
		}
		fmt.Fprintf(&b, "\tvar __last runtime.Value = runtime.Null\n")
		for _, st := range body.Statements {
			if err := em.emitStmt(&b, st, 1); err != nil {
				return err
			}
		}
		fmt.Fprintf(&b, "\treturn __last, nil\n")
	default:
		expr, err := em.emitExpr(body, 1)
		if err != nil {
			return err
		}
		fmt.Fprintf(&b, "\treturn %s, nil\n", expr)
	}
	b.WriteString("}\n")
	fmt.Fprintf(&b, "func init() { quillFns[%q] = runtime.Native(%q, %s) }\n", s.Name, s.Name, name)
	em.fnOrder = append(em.fnOrder, b.String())
	em.fnNames[s.Name] = true
	return nil
}
