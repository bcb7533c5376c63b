package stdlib

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillscript/quill/value"
)

func TestOs_EnvLookupByKey(t *testing.T) {
	t.Setenv("QUILL_TEST_VAR", "xyz")
	v, err := osEnv([]value.Value{value.String("QUILL_TEST_VAR")})
	require.NoError(t, err)
	assert.Equal(t, value.String("xyz"), v)
}

func TestOs_EnvLookupMissingReturnsNull(t *testing.T) {
	os.Unsetenv("QUILL_TEST_MISSING_VAR")
	v, err := osEnv([]value.Value{value.String("QUILL_TEST_MISSING_VAR")})
	require.NoError(t, err)
	assert.Equal(t, value.NullValue, v)
}

func TestOs_EnvNoArgsReturnsMap(t *testing.T) {
	t.Setenv("QUILL_TEST_VAR2", "abc")
	v, err := osEnv(nil)
	require.NoError(t, err)
	m, ok := v.(value.Map)
	require.True(t, ok)
	got, ok := m.Get("QUILL_TEST_VAR2")
	require.True(t, ok)
	assert.Equal(t, value.String("abc"), got)
}

func TestOs_ArgsReturnsArray(t *testing.T) {
	v, err := osArgs(nil)
	require.NoError(t, err)
	arr, ok := v.(value.Array)
	require.True(t, ok)
	assert.Equal(t, len(os.Args), len(*arr.Elems))
}
