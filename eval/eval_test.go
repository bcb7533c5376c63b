package eval

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillscript/quill/parser"
	"github.com/quillscript/quill/value"
)

func evalSrc(t *testing.T, src string) value.Value {
	t.Helper()
	prog, err := parser.Parse(src)
	require.NoError(t, err)
	ev := New()
	var out bytes.Buffer
	ev.Out = &out
	result, err := ev.EvalProgram(prog)
	require.NoError(t, err)
	return result
}

func TestEval_Arithmetic(t *testing.T) {
	v := evalSrc(t, "1 + 2 * 3")
	assert.Equal(t, value.Int(7), v)
}

func TestEval_IntDivisionByZero(t *testing.T) {
	prog, err := parser.Parse("1 / 0")
	require.NoError(t, err)
	_, err = New().EvalProgram(prog)
	require.Error(t, err)
}

func TestEval_FloatDivisionByZeroYieldsInfinity(t *testing.T) {
	v := evalSrc(t, "1.0 / 0.0")
	assert.Equal(t, value.Float(math.Inf(1)), v)
}

func TestEval_MixedIntFloatDivisionByZeroPromotesAndYieldsInfinity(t *testing.T) {
	v := evalSrc(t, "5 / 0.0")
	assert.Equal(t, value.Float(math.Inf(1)), v)
}

func TestEval_LetAndReassign(t *testing.T) {
	v := evalSrc(t, "let x = 5\nx = x + 1\nx")
	assert.Equal(t, value.Int(6), v)
}

func TestEval_FuncDeclArrowBody(t *testing.T) {
	v := evalSrc(t, "fn add(a, b) => a + b\nadd(2, 3)")
	assert.Equal(t, value.Int(5), v)
}

func TestEval_FuncDeclBlockBodyRecursive(t *testing.T) {
	v := evalSrc(t, `
fn fact(n, f) {
	if n <= 1 {
		return 1
	}
	return n * f(n - 1, f)
}
fact(5, fact)
`)
	assert.Equal(t, value.Int(120), v)
}

func TestEval_NoClosureCapture(t *testing.T) {
	prog, err := parser.Parse(`
let x = 1
fn f() => x
f()
`)
	require.NoError(t, err)
	_, err = New().EvalProgram(prog)
	require.Error(t, err, "a function body should not see names from its defining scope")
}

func TestEval_IfElse(t *testing.T) {
	v := evalSrc(t, `
let x = 10
if x > 5 {
	"big"
} else {
	"small"
}
`)
	assert.Equal(t, value.String("big"), v)
}

func TestEval_WhileLoop(t *testing.T) {
	v := evalSrc(t, `
let i = 0
let sum = 0
while i < 5 {
	sum = sum + i
	i = i + 1
}
sum
`)
	assert.Equal(t, value.Int(10), v)
}

func TestEval_ForOverRange(t *testing.T) {
	v := evalSrc(t, `
let sum = 0
for i in range(5) {
	sum = sum + i
}
sum
`)
	assert.Equal(t, value.Int(10), v)
}

func TestEval_ArrayIndexAndPush(t *testing.T) {
	v := evalSrc(t, `
let a = [1, 2, 3]
a.push(4)
a[3]
`)
	assert.Equal(t, value.Int(4), v)
}

func TestEval_NegativeArrayIndex(t *testing.T) {
	v := evalSrc(t, `
let a = [1, 2, 3]
a[-1]
`)
	assert.Equal(t, value.Int(3), v)
}

func TestEval_ArrayIndexOutOfBounds(t *testing.T) {
	prog, err := parser.Parse("[1, 2][5]")
	require.NoError(t, err)
	_, err = New().EvalProgram(prog)
	require.Error(t, err)
}

func TestEval_MapLiteralAndLookup(t *testing.T) {
	v := evalSrc(t, `
let m = {"a": 1, "b": 2}
m["a"]
`)
	assert.Equal(t, value.Int(1), v)
}

func TestEval_StringMethods(t *testing.T) {
	assert.Equal(t, value.String("HI"), evalSrc(t, `"hi".upper()`))
	assert.Equal(t, value.String("hi"), evalSrc(t, `"  hi  ".trim()`))
}

func TestEval_ArrayMapFilterReduce(t *testing.T) {
	v := evalSrc(t, `
fn double(x) => x * 2
fn isMultipleOf4(x) => x % 4 == 0
fn addAcc(acc, x) => acc + x

let a = [1, 2, 3, 4]
let doubled = a.map(double)
let evens = doubled.filter(isMultipleOf4)
evens.reduce(addAcc, 0)
`)
	assert.Equal(t, value.Int(12), v)
}

func TestEval_TemplateString(t *testing.T) {
	v := evalSrc(t, "let name = \"world\"\n`hello {name}`")
	assert.Equal(t, value.String("hello world"), v)
}

func TestEval_TemplateUnknownNameLeftLiteral(t *testing.T) {
	v := evalSrc(t, "`hello {missing}`")
	assert.Equal(t, value.String("hello {missing}"), v)
}

func TestEval_UndefinedVariableIsNameError(t *testing.T) {
	prog, err := parser.Parse("nope")
	require.NoError(t, err)
	_, err = New().EvalProgram(prog)
	require.Error(t, err)
}

func TestEval_UseStatementDispatchesModuleMethodCall(t *testing.T) {
	v := evalSrc(t, `
use json
json.stringify({"a": 1})
`)
	assert.Equal(t, value.String(`{"a":1}`), v)
}

func TestEval_UseUnknownModuleIsNameError(t *testing.T) {
	prog, err := parser.Parse("use nope_module")
	require.NoError(t, err)
	_, err = New().EvalProgram(prog)
	require.Error(t, err)
}

func TestEval_ForeignImportIsNoopUnderInterpreter(t *testing.T) {
	prog, err := parser.Parse("use crate somepkg \"1.0.0\"\n1")
	require.NoError(t, err)
	_, err = New().EvalProgram(prog)
	require.NoError(t, err, "a foreign import is a silent no-op under the Interpreter")
}
