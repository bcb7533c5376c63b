/*
Package stdlib implements the registration contract of §6: each module
presents a mapping from method name to NativeFunction, each NativeFunction
consuming a slice of Values and returning a Value or an error. Grounded on
the reference go-mix `std.Builtin`/`Builtins` registry shape, but with its
package-registration pairing implemented consistently and actually
defined, here as `Module`/`Register` (the retrieved go-mix snapshot calls
`RegisterPackage` from every
stdlib file's `init()` without ever declaring it or the `Package` type —
see DESIGN.md).

The Evaluator and the Transpiler both see modules through this uniform
contract (§6); handles are process-wide and, once initialised, read-only
(§5), matching the package-level `init()` + global registry pattern used
throughout.
*/
package stdlib

import "github.com/quillscript/quill/value"

// Module is one stdlib module's read-only table of NativeFunction methods.
type Module struct {
	Name      string
	Functions map[string]value.NativeFunction
}

var registry = map[string]Module{}

// Register adds a module to the process-wide registry. Called only from
// package-level init() functions, before any program runs, so the
// registry is effectively immutable once main() begins — the "initialised
// once before first use, and from then on read-only" shared-state rule in
// §5.
func Register(m Module) {
	registry[m.Name] = m
}

// Lookup resolves a module by the name used in a `use` statement.
func Lookup(name string) (Module, bool) {
	m, ok := registry[name]
	return m, ok
}

// Names returns every registered module name, used by `cmd/quill`'s
// --list-modules diagnostic and by tests.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	return names
}

// identSeq hands out unique identity pointers for NativeFunction.Ident so
// that no two calls to Native() ever share an identity, even for the same
// name. Each module registers once from init() and Lookup returns the
// stored values, so every registered method keeps one stable handle across
// calls — §9's "NativeFunction identity" rule.
type identSeq struct{ n int }

var seq = &identSeq{}

// Caller lets a stdlib module invoke a user-defined Function or
// NativeFunction Value (e.g. the web module's route handlers) without
// stdlib importing eval, which would create an import cycle (eval already
// imports stdlib to implement `use`). eval.New wires this once, matching
// the single-threaded, single-Evaluator execution model of §5.
var Caller func(fn value.Value, args []value.Value) (value.Value, error)

// Native wraps a Go function as a NativeFunction with a fresh, stable
// identity handle.
func Native(name string, fn value.NativeFunc) value.NativeFunction {
	seq.n++
	id := seq.n
	return value.NativeFunction{Name: name, Fn: fn, Ident: &id}
}
