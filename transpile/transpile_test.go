package transpile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillscript/quill/parser"
)

func mustTranspile(t *testing.T, src string) string {
	t.Helper()
	prog, err := parser.Parse(src)
	require.NoError(t, err)
	code, err := Transpile(prog)
	require.NoError(t, err)
	return code
}

func TestTranspile_EmitsPackageMainAndRuntimeImport(t *testing.T) {
	code := mustTranspile(t, "1 + 1")
	assert.True(t, strings.Contains(code, "package main"))
	assert.True(t, strings.Contains(code, `"github.com/quillscript/quill/runtime"`))
}

func TestTranspile_HoistsLetNameAsFlatVar(t *testing.T) {
	code := mustTranspile(t, "let x = 1\nx = x + 1")
	assert.True(t, strings.Contains(code, "var v_x runtime.Value = runtime.Null"))
	assert.True(t, strings.Contains(code, "v_x = "))
}

func TestTranspile_FuncDeclEmitsNamedGoFunction(t *testing.T) {
	code := mustTranspile(t, "fn add(a, b) => a + b\nadd(1, 2)")
	assert.True(t, strings.Contains(code, "func fn_add(__args []runtime.Value)"))
	assert.True(t, strings.Contains(code, `quillFns["add"] = runtime.Native("add", fn_add)`))
}

func TestTranspile_ForwardFunctionReferenceResolvesToQuillFns(t *testing.T) {
	code := mustTranspile(t, `
fn caller() => callee()
fn callee() => 1
caller()
`)
	assert.True(t, strings.Contains(code, `runtime.MustCallNative(quillFns["callee"]`))
}

func TestTranspile_RangeForUsesNativeIntLoop(t *testing.T) {
	code := mustTranspile(t, `
let sum = 0
for i in range(5) {
	sum = sum + i
}
sum
`)
	assert.True(t, strings.Contains(code, "for __i := 0; __i < 5; __i += 1 {"))
}

func TestTranspile_NonRangeForUsesAsElems(t *testing.T) {
	code := mustTranspile(t, `
let a = [1, 2, 3]
for x in a {
	x
}
`)
	assert.True(t, strings.Contains(code, "runtime.AsElems("))
}

func TestTranspile_UseStatementRegistersModuleLookup(t *testing.T) {
	code := mustTranspile(t, `use json`)
	assert.True(t, strings.Contains(code, `stdlib.Lookup("json")`))
}

func TestTranspile_ForeignImportIsConsumedNotEmitted(t *testing.T) {
	code := mustTranspile(t, `use crate somepkg "v1.0.0"`)
	assert.False(t, strings.Contains(code, "somepkg"))
}

func TestTranspile_ImportStatementIsUnsupported(t *testing.T) {
	prog, err := parser.Parse(`import "other.quill"`)
	require.NoError(t, err)
	_, err = Transpile(prog)
	assert.Error(t, err)
}

func TestTranspile_TemplateStringWithKnownNameInlinesInterpolation(t *testing.T) {
	code := mustTranspile(t, "let name = \"world\"\n`hello {name}`")
	assert.True(t, strings.Contains(code, "v_name"))
}

func TestTranspile_FunctionBodyLetNameHoistedInsideFunc(t *testing.T) {
	code := mustTranspile(t, `
fn f() {
	let y = 1
	return y
}
f()
`)
	assert.True(t, strings.Contains(code, "var v_y runtime.Value = runtime.Null"))
}

func TestCollectLetNames_DescendsIntoNestedIfAndWhile(t *testing.T) {
	prog, err := parser.Parse(`
if true {
	let a = 1
} else {
	let b = 2
}
while false {
	let c = 3
}
`)
	require.NoError(t, err)
	names := collectLetNames(prog.Statements)
	assert.True(t, names["a"])
	assert.True(t, names["b"])
	assert.True(t, names["c"])
}
