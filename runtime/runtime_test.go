package runtime

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillscript/quill/value"
)

func TestAdd_StringConcatenation(t *testing.T) {
	v, err := Add(Str("foo"), Str("bar"))
	require.NoError(t, err)
	assert.Equal(t, Str("foobar"), v)
}

func TestAdd_IntStaysInt(t *testing.T) {
	v, err := Add(Int(1), Int(2))
	require.NoError(t, err)
	assert.Equal(t, Int(3), v)
}

func TestAdd_MixedIntFloatPromotesToFloat(t *testing.T) {
	v, err := Add(Int(1), Float(0.5))
	require.NoError(t, err)
	assert.Equal(t, Float(1.5), v)
}

func TestDiv_IntByZeroErrors(t *testing.T) {
	_, err := Div(Int(1), Int(0))
	assert.Error(t, err)
}

func TestDiv_FloatByZeroYieldsInfinity(t *testing.T) {
	v, err := Div(Float(1), Float(0))
	require.NoError(t, err)
	assert.Equal(t, Float(math.Inf(1)), v)
}

func TestNeg_Numeric(t *testing.T) {
	v, err := Neg(Int(5))
	require.NoError(t, err)
	assert.Equal(t, Int(-5), v)
}

func TestNeg_NonNumericErrors(t *testing.T) {
	_, err := Neg(Str("x"))
	assert.Error(t, err)
}

func TestComparisons(t *testing.T) {
	assert.Equal(t, Bool(true), Lt(Int(1), Int(2)))
	assert.Equal(t, Bool(true), Gt(Int(2), Int(1)))
	assert.Equal(t, Bool(true), Le(Int(1), Int(1)))
	assert.Equal(t, Bool(true), Ge(Int(1), Int(1)))
	assert.Equal(t, Bool(true), Eq(Int(1), Int(1)))
	assert.Equal(t, Bool(true), Neq(Int(1), Int(2)))
}

func TestIndex_ArrayNegativeWraps(t *testing.T) {
	arr := Array([]Value{Int(1), Int(2), Int(3)})
	v, err := Index(arr, Int(-1))
	require.NoError(t, err)
	assert.Equal(t, Int(3), v)
}

func TestIndex_ArrayOutOfBoundsErrors(t *testing.T) {
	arr := Array([]Value{Int(1)})
	_, err := Index(arr, Int(5))
	assert.Error(t, err)
}

func TestIndex_MapMissingKeyErrors(t *testing.T) {
	m := NewMap()
	_, err := Index(m, Str("missing"))
	assert.Error(t, err)
}

func TestRange_PositiveStep(t *testing.T) {
	v, err := Range(0, 5, 1)
	require.NoError(t, err)
	elems, ok := AsElems(v)
	require.True(t, ok)
	assert.Equal(t, []Value{Int(0), Int(1), Int(2), Int(3), Int(4)}, elems)
}

func TestRange_ZeroStepErrors(t *testing.T) {
	_, err := Range(0, 5, 0)
	assert.Error(t, err)
}

func TestMethod_LenDispatchesByType(t *testing.T) {
	v, err := Method(Str("hello"), "len")
	require.NoError(t, err)
	assert.Equal(t, Int(5), v)

	v, err = Method(Array([]Value{Int(1), Int(2)}), "len")
	require.NoError(t, err)
	assert.Equal(t, Int(2), v)
}

func TestMethod_PushMutatesInPlaceAndReturnsReceiver(t *testing.T) {
	arr := Array([]Value{Int(1)})
	v, err := Method(arr, "push", Int(2))
	require.NoError(t, err)
	elems, _ := AsElems(v)
	assert.Equal(t, []Value{Int(1), Int(2)}, elems)
}

func TestMethod_MapAppliesNativeCallback(t *testing.T) {
	double := Native("double", func(args []value.Value) (value.Value, error) {
		n := args[0].(value.Int)
		return value.Int(n * 2), nil
	})
	arr := Array([]Value{Int(1), Int(2), Int(3)})
	v, err := Method(arr, "map", double)
	require.NoError(t, err)
	elems, _ := AsElems(v)
	assert.Equal(t, []Value{Int(2), Int(4), Int(6)}, elems)
}

func TestMethod_UnknownFallsBackToMapKeyLookup(t *testing.T) {
	m := NewMap()
	m.Set("greeting", Str("hi"))
	v, err := Method(m, "greeting")
	require.NoError(t, err)
	assert.Equal(t, Str("hi"), v)
}

func TestMustAdd_PanicsOnError(t *testing.T) {
	assert.Panics(t, func() {
		MustAdd(Str("x"), Int(1))
	})
}

func TestRecover_ConvertsPanicErrToReturnedError(t *testing.T) {
	fn := func() (result Value, err error) {
		defer Recover(&err)
		result = MustDiv(Int(1), Int(0))
		return
	}
	_, err := fn()
	assert.Error(t, err)
}

func TestRecover_RepanicsOnNonPanicErr(t *testing.T) {
	fn := func() (err error) {
		defer Recover(&err)
		panic("not a panicErr")
	}
	assert.Panics(t, func() { fn() })
}

func TestMinOfMaxOf_ExpandSingleArrayArg(t *testing.T) {
	arr := Array([]Value{Int(3), Int(1), Int(2)})
	assert.Equal(t, Int(1), MinOf(arr))
	assert.Equal(t, Int(3), MaxOf(arr))
}

func TestMustJoin_DefaultNoSeparator(t *testing.T) {
	arr := Array([]Value{Str("a"), Str("b")})
	assert.Equal(t, Str("ab"), MustJoin(arr))
}

func TestMustJoin_WithSeparator(t *testing.T) {
	arr := Array([]Value{Str("a"), Str("b")})
	assert.Equal(t, Str("a,b"), MustJoin(arr, Str(",")))
}

func TestItoa(t *testing.T) {
	assert.Equal(t, "42", Itoa(42))
}

func TestAsInt_TruncatesFloat(t *testing.T) {
	assert.Equal(t, int64(3), AsInt(Float(3.9)))
	assert.Equal(t, int64(3), AsInt(Int(3)))
}
