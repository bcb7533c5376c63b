/*
Package repl implements the interactive Read-Eval-Print Loop: readline-based
line editing plus colored feedback, grounded on the reference go-mix
repl.Repl (NewRepl/PrintBannerInfo/Start/executeWithRecovery shape), adapted
to this language's Evaluator and to the incomplete-input handling §6
requires (a trailing "Unexpected token: Eof" parse error buffers the line
and keeps reading instead of reporting an error).
*/
package repl

import (
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/quillscript/quill/ast"
	"github.com/quillscript/quill/eval"
	"github.com/quillscript/quill/parser"
	"github.com/quillscript/quill/quillerr"
	"github.com/quillscript/quill/value"
)

var (
	blueColor   = color.New(color.FgBlue)
	yellowColor = color.New(color.FgYellow)
	redColor    = color.New(color.FgRed)
	greenColor  = color.New(color.FgGreen)
	cyanColor   = color.New(color.FgCyan)
)

// Repl holds the cosmetic configuration for one interactive session.
type Repl struct {
	Banner  string
	Version string
	Author  string
	Line    string
	License string
	Prompt  string
}

func New(banner, version, author, line, license, prompt string) *Repl {
	return &Repl{Banner: banner, Version: version, Author: author, Line: line, License: license, Prompt: prompt}
}

func (r *Repl) PrintBannerInfo(w io.Writer) {
	blueColor.Fprintf(w, "%s\n", r.Line)
	greenColor.Fprintf(w, "%s\n", r.Banner)
	blueColor.Fprintf(w, "%s\n", r.Line)
	yellowColor.Fprintln(w, "Version: "+r.Version+" | Author: "+r.Author+" | License: "+r.License)
	blueColor.Fprintf(w, "%s\n", r.Line)
	cyanColor.Fprintf(w, "%s\n", "Welcome to Quill!")
	cyanColor.Fprintf(w, "%s\n", "Type your code and press enter")
	cyanColor.Fprintf(w, "%s\n", "Type '.exit' to quit")
	cyanColor.Fprintf(w, "%s\n", "Use up/down arrows to navigate command history")
	blueColor.Fprintf(w, "%s\n", r.Line)
}

// Start runs the main loop until '.exit', EOF, or a readline error. Input
// that parses incompletely (a trailing Unexpected-token-Eof) is buffered
// and merged with the next line rather than reported as an error, letting
// multi-line constructs (fn bodies, while/for blocks) span several prompts.
func (r *Repl) Start(w io.Writer) {
	r.PrintBannerInfo(w)

	rl, err := readline.New(r.Prompt)
	if err != nil {
		panic(err)
	}
	defer rl.Close()

	evaluator := eval.New()
	evaluator.Out = w

	var pending strings.Builder

	for {
		prompt := r.Prompt
		if pending.Len() > 0 {
			prompt = strings.Repeat(".", len(r.Prompt)-1) + " "
		}
		rl.SetPrompt(prompt)

		line, err := rl.Readline()
		if err != nil {
			w.Write([]byte("Good Bye!\n"))
			return
		}

		trimmed := strings.Trim(line, " \t\r")
		if trimmed == "" && pending.Len() == 0 {
			continue
		}
		if trimmed == ".exit" {
			w.Write([]byte("Good Bye!\n"))
			return
		}
		rl.SaveHistory(line)

		pending.WriteString(line)
		pending.WriteString("\n")

		source := pending.String()
		prog, perr := parser.Parse(source)
		if perr != nil {
			if quillerr.IsEOF(perr) {
				continue // wait for more input
			}
			redColor.Fprintf(w, "%s\n", perr)
			pending.Reset()
			continue
		}
		pending.Reset()

		r.evalAndPrint(w, evaluator, prog)
	}
}

func (r *Repl) evalAndPrint(w io.Writer, evaluator *eval.Evaluator, prog *ast.Program) {
	defer func() {
		if rec := recover(); rec != nil {
			redColor.Fprintf(w, "[RUNTIME ERROR] %v\n", rec)
		}
	}()

	result, err := evaluator.EvalProgram(prog)
	if err != nil {
		redColor.Fprintf(w, "%s\n", err)
		return
	}
	if result != nil && result != value.NullValue {
		yellowColor.Fprintf(w, "%s\n", result.String())
	}
}
