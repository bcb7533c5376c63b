package env

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quillscript/quill/value"
)

func TestEnv_DefineAndLookup(t *testing.T) {
	e := New()
	e.Define("x", value.Int(1))
	v, ok := e.Lookup("x")
	assert.True(t, ok)
	assert.Equal(t, value.Int(1), v)
}

func TestEnv_LookupMissingReturnsFalse(t *testing.T) {
	e := New()
	_, ok := e.Lookup("missing")
	assert.False(t, ok)
}

func TestEnv_PushScopeShadowsOuter(t *testing.T) {
	e := New()
	e.Define("x", value.Int(1))
	e.PushScope()
	e.Define("x", value.Int(2))
	v, _ := e.Lookup("x")
	assert.Equal(t, value.Int(2), v)
	e.PopScope()
	v, _ = e.Lookup("x")
	assert.Equal(t, value.Int(1), v)
}

func TestEnv_PopScopeAtGlobalIsNoop(t *testing.T) {
	e := New()
	e.Define("x", value.Int(1))
	e.PopScope()
	v, ok := e.Lookup("x")
	assert.True(t, ok)
	assert.Equal(t, value.Int(1), v)
}

func TestEnv_AssignOrDefineUpdatesOuterScope(t *testing.T) {
	e := New()
	e.Define("x", value.Int(1))
	e.PushScope()
	e.AssignOrDefine("x", value.Int(99))
	e.PopScope()
	v, _ := e.Lookup("x")
	assert.Equal(t, value.Int(99), v, "AssignOrDefine should rebind the outer scope that already defines x")
}

func TestEnv_AssignOrDefineDefinesLocallyWhenUnbound(t *testing.T) {
	e := New()
	e.PushScope()
	e.AssignOrDefine("y", value.Int(5))
	e.PopScope()
	_, ok := e.Lookup("y")
	assert.False(t, ok, "a name never previously defined should be defined in the innermost scope, not leak outward")
}

func TestNewCallEnv_NoParentChain(t *testing.T) {
	caller := New()
	caller.Define("secret", value.Int(42))

	callEnv := NewCallEnv([]string{"a"}, []value.Value{value.Int(1)})
	_, ok := callEnv.Lookup("secret")
	assert.False(t, ok, "a call env must not see the caller's bindings")

	v, ok := callEnv.Lookup("a")
	assert.True(t, ok)
	assert.Equal(t, value.Int(1), v)
}
