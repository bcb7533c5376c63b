package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillscript/quill/token"
)

func typesOf(toks []token.Token) []token.Type {
	out := make([]token.Type, len(toks))
	for i, t := range toks {
		out[i] = t.Type
	}
	return out
}

func TestConsumeTokens_Arithmetic(t *testing.T) {
	toks, err := ConsumeTokens("1 + 2 * 3")
	require.NoError(t, err)
	assert.Equal(t, []token.Type{
		token.INT, token.PLUS, token.INT, token.STAR, token.INT, token.EOF,
	}, typesOf(toks))
}

func TestConsumeTokens_KeywordsAndIdents(t *testing.T) {
	toks, err := ConsumeTokens("let x = fn in for while")
	require.NoError(t, err)
	assert.Equal(t, []token.Type{
		token.LET, token.IDENT, token.ASSIGN, token.FN, token.IN, token.FOR,
		token.WHILE, token.EOF,
	}, typesOf(toks))
}

func TestConsumeTokens_StringAndTemplate(t *testing.T) {
	toks, err := ConsumeTokens(`"hi" ` + "`{name}`")
	require.NoError(t, err)
	require.Len(t, toks, 3)
	assert.Equal(t, token.STRING, toks[0].Type)
	assert.Equal(t, "hi", toks[0].Literal)
	assert.Equal(t, token.TEMPLATE, toks[1].Type)
	assert.Equal(t, token.EOF, toks[2].Type)
}

func TestConsumeTokens_NewlineIsSignificant(t *testing.T) {
	toks, err := ConsumeTokens("1\n2")
	require.NoError(t, err)
	assert.Equal(t, []token.Type{
		token.INT, token.NEWLINE, token.INT, token.EOF,
	}, typesOf(toks))
}

func TestConsumeTokens_Comments(t *testing.T) {
	toks, err := ConsumeTokens("1 // comment\n/* block */ 2")
	require.NoError(t, err)
	assert.Equal(t, []token.Type{
		token.INT, token.NEWLINE, token.INT, token.EOF,
	}, typesOf(toks))
}

func TestConsumeTokens_Operators(t *testing.T) {
	toks, err := ConsumeTokens("== != <= >= && || => -> ::")
	require.NoError(t, err)
	assert.Equal(t, []token.Type{
		token.EQ, token.NEQ, token.LE, token.GE, token.AND, token.OR,
		token.ARROW, token.THINARR, token.DCOLON, token.EOF,
	}, typesOf(toks))
}

func TestConsumeTokens_FloatLiteral(t *testing.T) {
	toks, err := ConsumeTokens("3.14")
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, token.FLOAT, toks[0].Type)
	assert.Equal(t, "3.14", toks[0].Literal)
}

func TestConsumeTokens_PositionTracking(t *testing.T) {
	toks, err := ConsumeTokens("1\n  22")
	require.NoError(t, err)
	require.Len(t, toks, 4)
	assert.Equal(t, 1, toks[0].Line)
	assert.Equal(t, 2, toks[2].Line)
	assert.Equal(t, 3, toks[2].Column)
}
