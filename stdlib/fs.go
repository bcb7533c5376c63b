/*
fs.go implements the `fs` stdlib module, grounded directly on
`original_source/crates/core/src/stdlib/fs.rs` (read/write/append/exists/
remove over std::fs), here built on Go's os package.
*/
package stdlib

import (
	"fmt"
	"os"

	"github.com/quillscript/quill/value"
)

func init() {
	Register(Module{
		Name: "fs",
		Functions: map[string]value.NativeFunction{
			"read":   Native("fs.read", fsRead),
			"write":  Native("fs.write", fsWrite),
			"append": Native("fs.append", fsAppend),
			"exists": Native("fs.exists", fsExists),
			"remove": Native("fs.remove", fsRemove),
		},
	})
}

func stringArg(args []value.Value, i int, fname, what string) (string, error) {
	if i >= len(args) {
		return "", fmt.Errorf("%s expects %s", fname, what)
	}
	s, ok := args[i].(value.String)
	if !ok {
		return "", fmt.Errorf("%s expects a string %s", fname, what)
	}
	return string(s), nil
}

func fsRead(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("fs.read expects 1 argument (path)")
	}
	path, err := stringArg(args, 0, "fs.read", "path")
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file '%s': %v", path, err)
	}
	return value.String(b), nil
}

func fsWrite(args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("fs.write expects 2 arguments (path, content)")
	}
	path, err := stringArg(args, 0, "fs.write", "path")
	if err != nil {
		return nil, err
	}
	content, err := stringArg(args, 1, "fs.write", "content")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return nil, fmt.Errorf("failed to write file '%s': %v", path, err)
	}
	return value.NullValue, nil
}

func fsAppend(args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("fs.append expects 2 arguments (path, content)")
	}
	path, err := stringArg(args, 0, "fs.append", "path")
	if err != nil {
		return nil, err
	}
	content, err := stringArg(args, 1, "fs.append", "content")
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open file '%s': %v", path, err)
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		return nil, fmt.Errorf("failed to append to file '%s': %v", path, err)
	}
	return value.NullValue, nil
}

func fsExists(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("fs.exists expects 1 argument (path)")
	}
	path, err := stringArg(args, 0, "fs.exists", "path")
	if err != nil {
		return nil, err
	}
	_, statErr := os.Stat(path)
	return value.Bool(statErr == nil), nil
}

func fsRemove(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("fs.remove expects 1 argument (path)")
	}
	path, err := stringArg(args, 0, "fs.remove", "path")
	if err != nil {
		return nil, err
	}
	if err := os.Remove(path); err != nil {
		return nil, fmt.Errorf("failed to remove file '%s': %v", path, err)
	}
	return value.NullValue, nil
}
