/*
term.go implements the `term` stdlib module, grounded on
`original_source/crates/core/src/stdlib/term.rs` (per-colour/style
wrapping functions plus `clear`), here built on
github.com/fatih/color — the same third-party package the reference REPL
uses for its banner and result colouring (§2 AMBIENT STACK), rather than
hand-rolling the ANSI escape codes the Rust original writes by hand.
*/
package stdlib

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/quillscript/quill/value"
)

func init() {
	Register(Module{
		Name: "term",
		Functions: map[string]value.NativeFunction{
			"red":       Native("term.red", colorFn(color.FgRed)),
			"green":     Native("term.green", colorFn(color.FgGreen)),
			"yellow":    Native("term.yellow", colorFn(color.FgYellow)),
			"blue":      Native("term.blue", colorFn(color.FgBlue)),
			"magenta":   Native("term.magenta", colorFn(color.FgMagenta)),
			"cyan":      Native("term.cyan", colorFn(color.FgCyan)),
			"white":     Native("term.white", colorFn(color.FgWhite)),
			"bg_red":    Native("term.bg_red", colorFn(color.BgRed)),
			"bg_green":  Native("term.bg_green", colorFn(color.BgGreen)),
			"bg_yellow": Native("term.bg_yellow", colorFn(color.BgYellow)),
			"bg_blue":   Native("term.bg_blue", colorFn(color.BgBlue)),
			"bold":      Native("term.bold", colorFn(color.Bold)),
			"italic":    Native("term.italic", colorFn(color.Italic)),
			"underline": Native("term.underline", colorFn(color.Underline)),
			"clear":     Native("term.clear", termClear),
		},
	})
}

func colorFn(attr color.Attribute) value.NativeFunc {
	return func(args []value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("color function expects 1 argument (text)")
		}
		c := color.New(attr)
		return value.String(c.Sprint(args[0].String())), nil
	}
}

func termClear(args []value.Value) (value.Value, error) {
	if len(args) != 0 {
		return nil, fmt.Errorf("term.clear expects 0 arguments")
	}
	fmt.Print("\x1b[2J\x1b[1;1H")
	return value.NullValue, nil
}
