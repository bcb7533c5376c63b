/*
Package env implements the Evaluator's environment: a stack of scopes, each
a mapping from identifier to value.Value, grounded on the reference go-mix
`scope.Scope` parent-chain shape but deliberately dropping its closure-copy
mechanism (`Scope.Copy()`): the Non-goals forbid functions from capturing
their defining environment, so a Function value here carries no scope
reference at all (see value.Function) and a call begins from a fresh,
single-scope chain rather than one parented on a captured scope.
*/
package env

import "github.com/quillscript/quill/value"

// scope is one frame: a flat name-to-value map plus its parent link.
type scope struct {
	vars   map[string]value.Value
	parent *scope
}

// Env is the scope stack. The bottom-most scope is the module/global scope.
type Env struct {
	top *scope
}

// New creates an Env with a single, empty global scope.
func New() *Env {
	return &Env{top: &scope{vars: map[string]value.Value{}}}
}

// PushScope enters a new nested scope, as on block/function entry and each
// iteration of a for loop.
func (e *Env) PushScope() {
	e.top = &scope{vars: map[string]value.Value{}, parent: e.top}
}

// PopScope leaves the current scope, as on block/function exit, including
// on return-propagation.
func (e *Env) PopScope() {
	if e.top.parent != nil {
		e.top = e.top.parent
	}
}

// Lookup walks scopes inner-to-outer looking for name.
func (e *Env) Lookup(name string) (value.Value, bool) {
	for s := e.top; s != nil; s = s.parent {
		if v, ok := s.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Define binds name in the innermost scope, shadowing any outer binding.
// Used for `fn` declarations, which always define locally (per §4.3) so a
// function name never overwrites an outer binding it's nested inside.
func (e *Env) Define(name string, v value.Value) {
	e.top.vars[name] = v
}

// AssignOrDefine implements the "update-or-define" semantics for bare
// `name = expr` and `let name = expr`: rebind the first scope (walking
// inner-to-outer) that already defines name, otherwise define it in the
// innermost scope.
func (e *Env) AssignOrDefine(name string, v value.Value) {
	for s := e.top; s != nil; s = s.parent {
		if _, ok := s.vars[name]; ok {
			s.vars[name] = v
			return
		}
	}
	e.top.vars[name] = v
}

// NewCallEnv builds a fresh environment for a function call: a single
// scope binding only the given parameters, with no parent chain back to
// the caller's scope — the concrete expression of "no closures".
func NewCallEnv(params []string, args []value.Value) *Env {
	vars := make(map[string]value.Value, len(params))
	for i, p := range params {
		vars[p] = args[i]
	}
	return &Env{top: &scope{vars: vars}}
}
