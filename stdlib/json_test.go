package stdlib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillscript/quill/value"
)

func TestJson_ParsePrimitives(t *testing.T) {
	v, err := jsonParse([]value.Value{value.String(`{"a": 1, "b": "x", "c": [1, 2], "d": null, "e": 1.5}`)})
	require.NoError(t, err)
	m, ok := v.(value.Map)
	require.True(t, ok)

	a, _ := m.Get("a")
	assert.Equal(t, value.Int(1), a)

	b, _ := m.Get("b")
	assert.Equal(t, value.String("x"), b)

	c, _ := m.Get("c")
	arr, ok := c.(value.Array)
	require.True(t, ok)
	assert.Equal(t, []value.Value{value.Int(1), value.Int(2)}, *arr.Elems)

	d, _ := m.Get("d")
	assert.Equal(t, value.NullValue, d)

	e, _ := m.Get("e")
	assert.Equal(t, value.Float(1.5), e)
}

func TestJson_StringifyRoundTrip(t *testing.T) {
	m := value.NewMap()
	m.Set("x", value.Int(5))
	out, err := jsonStringify([]value.Value{m})
	require.NoError(t, err)
	s, ok := out.(value.String)
	require.True(t, ok)

	reparsed, err := jsonParse([]value.Value{s})
	require.NoError(t, err)
	reparsedMap := reparsed.(value.Map)
	x, ok := reparsedMap.Get("x")
	require.True(t, ok)
	assert.Equal(t, value.Int(5), x)
}

func TestJson_ParseInvalidJSONErrors(t *testing.T) {
	_, err := jsonParse([]value.Value{value.String("{not json")})
	assert.Error(t, err)
}
