package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quillscript/quill/token"
)

func TestBase_PosReturnsLineAndColumn(t *testing.T) {
	b := At(token.Token{Line: 4, Column: 9})
	line, col := b.Pos()
	assert.Equal(t, 4, line)
	assert.Equal(t, 9, col)
}

func TestNodes_ImplementExprAndStmtInterfaces(t *testing.T) {
	var _ Expr = &IntLit{}
	var _ Expr = &BinaryExpr{}
	var _ Expr = &IfExpr{}
	var _ Stmt = &LetStmt{}
	var _ Stmt = &FuncDeclStmt{}
	var _ Stmt = &ForeignImportStmt{}
}
