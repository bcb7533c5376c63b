package stdlib

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillscript/quill/value"
)

func TestFs_WriteReadAppendExistsRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")

	_, err := fsWrite([]value.Value{value.String(path), value.String("hello")})
	require.NoError(t, err)

	exists, err := fsExists([]value.Value{value.String(path)})
	require.NoError(t, err)
	assert.Equal(t, value.Bool(true), exists)

	content, err := fsRead([]value.Value{value.String(path)})
	require.NoError(t, err)
	assert.Equal(t, value.String("hello"), content)

	_, err = fsAppend([]value.Value{value.String(path), value.String(" world")})
	require.NoError(t, err)

	content, err = fsRead([]value.Value{value.String(path)})
	require.NoError(t, err)
	assert.Equal(t, value.String("hello world"), content)

	_, err = fsRemove([]value.Value{value.String(path)})
	require.NoError(t, err)

	exists, err = fsExists([]value.Value{value.String(path)})
	require.NoError(t, err)
	assert.Equal(t, value.Bool(false), exists)
}

func TestFs_ReadMissingFileErrors(t *testing.T) {
	_, err := fsRead([]value.Value{value.String(filepath.Join(t.TempDir(), "nope.txt"))})
	assert.Error(t, err)
}

func TestFs_WrongArgCountErrors(t *testing.T) {
	_, err := fsRead([]value.Value{})
	assert.Error(t, err)
	_, err = fsWrite([]value.Value{value.String("a")})
	assert.Error(t, err)
}
