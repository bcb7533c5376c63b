package repl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillscript/quill/eval"
	"github.com/quillscript/quill/parser"
)

func TestPrintBannerInfo_IncludesConfiguredFields(t *testing.T) {
	r := New("Quill", "0.1.0", "Quill Authors", "----", "MIT", "quill> ")
	var out bytes.Buffer
	r.PrintBannerInfo(&out)
	s := out.String()
	assert.True(t, strings.Contains(s, "Quill"))
	assert.True(t, strings.Contains(s, "0.1.0"))
	assert.True(t, strings.Contains(s, "Quill Authors"))
	assert.True(t, strings.Contains(s, "MIT"))
}

func TestEvalAndPrint_PrintsNonNullResult(t *testing.T) {
	r := New("Quill", "0.1.0", "Quill Authors", "----", "MIT", "quill> ")
	evaluator := eval.New()
	prog, err := parser.Parse("1 + 2")
	require.NoError(t, err)

	var out bytes.Buffer
	r.evalAndPrint(&out, evaluator, prog)
	assert.True(t, strings.Contains(out.String(), "3"))
}

func TestEvalAndPrint_SuppressesNullResult(t *testing.T) {
	r := New("Quill", "0.1.0", "Quill Authors", "----", "MIT", "quill> ")
	evaluator := eval.New()
	prog, err := parser.Parse(`let x = 1`)
	require.NoError(t, err)

	var out bytes.Buffer
	r.evalAndPrint(&out, evaluator, prog)
	assert.Equal(t, "", out.String())
}

func TestEvalAndPrint_ReportsEvalError(t *testing.T) {
	r := New("Quill", "0.1.0", "Quill Authors", "----", "MIT", "quill> ")
	evaluator := eval.New()
	prog, err := parser.Parse("nope")
	require.NoError(t, err)

	var out bytes.Buffer
	r.evalAndPrint(&out, evaluator, prog)
	assert.NotEqual(t, "", out.String())
}
