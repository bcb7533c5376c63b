package stdlib

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quillscript/quill/value"
)

func TestRegister_ModulesDiscoverableByName(t *testing.T) {
	for _, name := range []string{"fs", "os", "term", "time", "json", "http", "web"} {
		_, ok := Lookup(name)
		assert.True(t, ok, "module %q should be registered by its package init()", name)
	}
}

func TestLookup_UnknownModuleNotFound(t *testing.T) {
	_, ok := Lookup("does-not-exist")
	assert.False(t, ok)
}

func TestNames_IncludesAllRegisteredModules(t *testing.T) {
	names := Names()
	assert.Contains(t, names, "fs")
	assert.Contains(t, names, "json")
}

func TestNative_GivesEachCallADistinctIdentity(t *testing.T) {
	f1 := Native("a", func([]value.Value) (value.Value, error) { return value.NullValue, nil })
	f2 := Native("b", func([]value.Value) (value.Value, error) { return value.NullValue, nil })
	assert.NotEqual(t, f1.Ident, f2.Ident)
}
