/*
Package jitbuild implements the JIT build pipeline named in §5/§6: transpile
to Go source, scaffold a scratch module, write a manifest, and shell out to
the real `go` toolchain. Grounded on
`original_source/crates/cli/src/project_builder.rs`'s ProjectBuilder::build
(cargo init -> Cargo.toml -> write src/main.rs -> cargo build/run), with
Cargo's release-profile concepts kept on Manifest for spec parity and
best-effort mapped to `go build` flags (see Manifest.BuildArgs) — panic=abort
has no Go equivalent and is recorded but never mapped, per DESIGN.md.
*/
package jitbuild

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/quillscript/quill/ast"
	"github.com/quillscript/quill/quillerr"
	"github.com/quillscript/quill/transpile"
)

// Manifest records the release-profile fields spec.md's build model names,
// even though several have no literal `go build` counterpart.
type Manifest struct {
	LTO          bool
	CodegenUnits int
	PanicAbort   bool
	OptLevel     int
	ForeignDeps  []ForeignDep
}

// ForeignDep is one `use crate NAME "version"` foreign-import statement
// collected from the program, lowered into a `go.mod` require line.
type ForeignDep struct {
	Name    string
	Version string
}

func defaultManifest() Manifest {
	return Manifest{LTO: true, CodegenUnits: 1, PanicAbort: true, OptLevel: 3}
}

// BuildArgs maps the manifest's release-profile fields to the closest real
// `go build` flags: -trimpath and aggressive-inlining gcflags stand in for
// "maximum optimization"; there is deliberately no flag for PanicAbort.
func (m Manifest) BuildArgs() []string {
	args := []string{"-trimpath"}
	if m.OptLevel >= 3 {
		args = append(args, "-gcflags=all=-l=4")
	}
	return args
}

// Result describes where the JIT build's scratch module and (if built)
// binary ended up.
type Result struct {
	ScratchDir string
	BinaryPath string
}

// Build transpiles prog, scaffolds a scratch Go module under the system
// temp directory (named with a timestamp prefix plus a uuid, so concurrent
// JIT invocations within one clock tick do not collide), writes go.mod
// (which carries the manifest's foreign deps) and main.go, and either runs the
// program (`go run`) or compiles it (`go build`), optionally copying the
// resulting binary to outputPath.
func Build(prog *ast.Program, outputPath string, run bool, verbose bool) (*Result, error) {
	manifest := defaultManifest()
	if err := collectForeignDeps(prog, &manifest); err != nil {
		return nil, err
	}

	code, err := transpile.Transpile(prog)
	if err != nil {
		return nil, quillerr.New(quillerr.Build, "transpile: %v", err)
	}

	scratch := filepath.Join(os.TempDir(), "quill_jit_"+time.Now().Format("20060102_150405")+"_"+uuid.NewString())
	if err := os.MkdirAll(filepath.Join(scratch), 0o755); err != nil {
		return nil, quillerr.New(quillerr.Build, "creating scratch dir: %v", err)
	}
	if verbose {
		fmt.Printf("Build setup: %s\n", scratch)
	}

	goMod := buildGoMod(manifest)
	if err := os.WriteFile(filepath.Join(scratch, "go.mod"), []byte(goMod), 0o644); err != nil {
		return nil, quillerr.New(quillerr.Build, "writing go.mod: %v", err)
	}
	if err := os.WriteFile(filepath.Join(scratch, "main.go"), []byte(code), 0o644); err != nil {
		return nil, quillerr.New(quillerr.Build, "writing main.go: %v", err)
	}

	result := &Result{ScratchDir: scratch}

	if run {
		cmd := exec.Command("go", append(append([]string{"run"}, manifest.BuildArgs()...), ".")...)
		cmd.Dir = scratch
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		cmd.Stdin = os.Stdin
		if err := cmd.Run(); err != nil {
			return result, quillerr.New(quillerr.Build, "go run failed: %v", err)
		}
		return result, nil
	}

	binary := filepath.Join(scratch, "app")
	args := append([]string{"build", "-o", binary}, manifest.BuildArgs()...)
	args = append(args, ".")
	cmd := exec.Command("go", args...)
	cmd.Dir = scratch
	out, err := cmd.CombinedOutput()
	if err != nil {
		return result, quillerr.New(quillerr.Build, "go build failed: %v\n%s", err, out)
	}
	result.BinaryPath = binary

	if outputPath != "" {
		data, err := os.ReadFile(binary)
		if err != nil {
			return result, quillerr.New(quillerr.Build, "reading built binary: %v", err)
		}
		if err := os.WriteFile(outputPath, data, 0o755); err != nil {
			return result, quillerr.New(quillerr.Build, "writing output binary: %v", err)
		}
		if verbose {
			fmt.Printf("Successfully built: %s\n", outputPath)
		}
		result.BinaryPath = outputPath
	}
	return result, nil
}

// collectForeignDeps lowers each `use crate NAME "version"` into a go.mod
// require line. A version is mandatory: go.mod has no "latest" placeholder,
// so a foreign import without one is rejected up front rather than emitting
// a go.mod the toolchain would refuse anyway.
func collectForeignDeps(prog *ast.Program, m *Manifest) error {
	for _, stmt := range prog.Statements {
		if fi, ok := stmt.(*ast.ForeignImportStmt); ok {
			if fi.Version == "" {
				line, col := fi.Pos()
				return quillerr.At(quillerr.Build, line, col, "foreign import %q needs an explicit version", fi.Name)
			}
			m.ForeignDeps = append(m.ForeignDeps, ForeignDep{Name: fi.Name, Version: fi.Version})
		}
	}
	return nil
}

func buildGoMod(m Manifest) string {
	mod := "module quilljit\n\ngo 1.24.4\n"
	for _, dep := range m.ForeignDeps {
		mod += fmt.Sprintf("\nrequire %s %s\n", dep.Name, dep.Version)
	}
	return mod
}
