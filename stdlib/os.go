/*
os.go implements the `os` stdlib module, grounded on
`original_source/crates/core/src/stdlib/os.rs` (env/args), here built on
Go's os package.
*/
package stdlib

import (
	"fmt"
	"os"
	"strings"

	"github.com/quillscript/quill/value"
)

func init() {
	Register(Module{
		Name: "os",
		Functions: map[string]value.NativeFunction{
			"env":  Native("os.env", osEnv),
			"args": Native("os.args", osArgs),
		},
	})
}

func osEnv(args []value.Value) (value.Value, error) {
	if len(args) == 0 {
		m := value.NewMap()
		for _, kv := range os.Environ() {
			parts := strings.SplitN(kv, "=", 2)
			if len(parts) == 2 {
				m.Set(parts[0], value.String(parts[1]))
			}
		}
		return m, nil
	}
	key, ok := args[0].(value.String)
	if !ok {
		return nil, fmt.Errorf("os.env expects a string key")
	}
	if v, ok := os.LookupEnv(string(key)); ok {
		return value.String(v), nil
	}
	return value.NullValue, nil
}

func osArgs(args []value.Value) (value.Value, error) {
	elems := make([]value.Value, len(os.Args))
	for i, a := range os.Args {
		elems[i] = value.String(a)
	}
	return value.NewArray(elems), nil
}
