package stdlib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillscript/quill/value"
)

func TestWebApp_ReturnsGetPostListenHandlers(t *testing.T) {
	v, err := webApp(nil)
	require.NoError(t, err)
	m, ok := v.(value.Map)
	require.True(t, ok)

	for _, name := range []string{"get", "post", "listen"} {
		fn, ok := m.Get(name)
		require.True(t, ok, "app should expose %q", name)
		_, ok = fn.(value.NativeFunction)
		assert.True(t, ok)
	}
}

func TestRegisterRoute_AppendsToTable(t *testing.T) {
	table := &routeTable{}
	register := registerRoute(table, "GET")

	handler := value.NativeFunction{Name: "h", Fn: func([]value.Value) (value.Value, error) { return value.NullValue, nil }, Ident: newIdent()}
	_, err := register([]value.Value{value.String("/ping"), handler})
	require.NoError(t, err)

	require.Len(t, table.routes, 1)
	assert.Equal(t, "GET", table.routes[0].method)
	assert.Equal(t, "/ping", table.routes[0].path)
}

func TestRegisterRoute_WrongArgCountErrors(t *testing.T) {
	table := &routeTable{}
	register := registerRoute(table, "POST")
	_, err := register([]value.Value{value.String("/x")})
	assert.Error(t, err)
}

func TestCallHandler_NoCallerRegisteredErrors(t *testing.T) {
	saved := Caller
	Caller = nil
	defer func() { Caller = saved }()

	_, err := callHandler(value.NullValue, nil)
	assert.Error(t, err)
}
