package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillscript/quill/ast"
	"github.com/quillscript/quill/quillerr"
)

func TestParse_LetStatement(t *testing.T) {
	prog, err := Parse("let x = 5")
	require.NoError(t, err)
	require.Len(t, prog.Statements, 1)
	let, ok := prog.Statements[0].(*ast.LetStmt)
	require.True(t, ok)
	assert.Equal(t, "x", let.Name)
	assert.IsType(t, &ast.IntLit{}, let.Value)
}

func TestParse_BinaryPrecedence(t *testing.T) {
	prog, err := Parse("1 + 2 * 3")
	require.NoError(t, err)
	stmt := prog.Statements[0].(*ast.ExprStmt)
	bin := stmt.X.(*ast.BinaryExpr)
	assert.Equal(t, ast.OpAdd, bin.Op)
	assert.IsType(t, &ast.IntLit{}, bin.Left)
	mul, ok := bin.Right.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.OpMul, mul.Op)
}

func TestParse_FuncDeclArrowBody(t *testing.T) {
	prog, err := Parse("fn add(a, b) => a + b")
	require.NoError(t, err)
	fn := prog.Statements[0].(*ast.FuncDeclStmt)
	assert.Equal(t, "add", fn.Name)
	assert.Equal(t, []string{"a", "b"}, fn.Params)
	assert.IsType(t, &ast.BinaryExpr{}, fn.Body)
}

func TestParse_MapVsBlockDisambiguation(t *testing.T) {
	prog, err := Parse(`{"a": 1}`)
	require.NoError(t, err)
	stmt := prog.Statements[0].(*ast.ExprStmt)
	assert.IsType(t, &ast.MapLit{}, stmt.X)

	prog2, err := Parse(`{ 1 }`)
	require.NoError(t, err)
	stmt2 := prog2.Statements[0].(*ast.ExprStmt)
	assert.IsType(t, &ast.BlockExpr{}, stmt2.X)
}

func TestParse_IfElseChain(t *testing.T) {
	prog, err := Parse(`
if x > 0 {
	1
} else if x < 0 {
	-1
} else {
	0
}
`)
	require.NoError(t, err)
	stmt := prog.Statements[0].(*ast.ExprStmt)
	ifExpr := stmt.X.(*ast.IfExpr)
	require.NotNil(t, ifExpr.Else)
	assert.IsType(t, &ast.IfExpr{}, ifExpr.Else)
}

func TestParse_MethodCallChaining(t *testing.T) {
	prog, err := Parse(`a.push(1).len()`)
	require.NoError(t, err)
	stmt := prog.Statements[0].(*ast.ExprStmt)
	outer := stmt.X.(*ast.MethodCallExpr)
	assert.Equal(t, "len", outer.Name)
	inner, ok := outer.Receiver.(*ast.MethodCallExpr)
	require.True(t, ok)
	assert.Equal(t, "push", inner.Name)
}

func TestParse_ForeignImportWithAlias(t *testing.T) {
	prog, err := Parse(`use crate somepkg "1.2.3" as sp`)
	require.NoError(t, err)
	fi := prog.Statements[0].(*ast.ForeignImportStmt)
	assert.Equal(t, "somepkg", fi.Name)
	assert.Equal(t, "1.2.3", fi.Version)
	assert.Equal(t, "sp", fi.Alias)
}

func TestParse_UnterminatedExprIsEOFError(t *testing.T) {
	_, err := Parse("1 +")
	require.Error(t, err)
	assert.True(t, quillerr.IsEOF(err))
}

func TestParse_AssignStatement(t *testing.T) {
	prog, err := Parse("let x = 1\nx = 2")
	require.NoError(t, err)
	require.Len(t, prog.Statements, 2)
	stmt := prog.Statements[1].(*ast.ExprStmt)
	assign, ok := stmt.X.(*ast.AssignExpr)
	require.True(t, ok)
	assert.Equal(t, "x", assign.Name)
}
