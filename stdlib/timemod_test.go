package stdlib

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillscript/quill/value"
)

func TestTime_NowReturnsSecondsSinceEpoch(t *testing.T) {
	before := float64(time.Now().Unix())
	v, err := timeNow(nil)
	require.NoError(t, err)
	f, ok := v.(value.Float)
	require.True(t, ok)
	assert.InDelta(t, before, float64(f), 5)
}

func TestTime_SleepBlocksForDuration(t *testing.T) {
	start := time.Now()
	_, err := timeSleep([]value.Value{value.Int(10)})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}

func TestTime_SleepRejectsNonNumber(t *testing.T) {
	_, err := timeSleep([]value.Value{value.String("x")})
	assert.Error(t, err)
}
