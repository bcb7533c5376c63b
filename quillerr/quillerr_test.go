package quillerr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_FormatsWithPosition(t *testing.T) {
	e := At(Parse, 3, 7, "unexpected token: %s", "Eof")
	assert.Equal(t, "[3:7] ParseError: unexpected token: Eof", e.Error())
}

func TestError_FormatsWithoutPositionWhenZero(t *testing.T) {
	e := New(Build, "foreign import %q needs an explicit version", "pkg")
	assert.Equal(t, `BuildError: foreign import "pkg" needs an explicit version`, e.Error())
}

func TestIsEOF_MatchesExactParseEOFMessage(t *testing.T) {
	e := At(Parse, 1, 1, "Unexpected token: Eof")
	assert.True(t, IsEOF(e))
}

func TestIsEOF_FalseForOtherParseErrors(t *testing.T) {
	e := At(Parse, 1, 1, "unexpected token: Int")
	assert.False(t, IsEOF(e))
}

func TestIsEOF_FalseForNonParseKind(t *testing.T) {
	e := At(Name, 1, 1, "Unexpected token: Eof")
	assert.False(t, IsEOF(e))
}

func TestIsEOF_FalseForNonQuillError(t *testing.T) {
	assert.False(t, IsEOF(assertErrorStub{}))
}

type assertErrorStub struct{}

func (assertErrorStub) Error() string { return "Unexpected token: Eof" }
