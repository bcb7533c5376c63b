/*
timemod.go implements the `time` stdlib module (file named timemod.go, not
time.go, to avoid shadowing the imported standard "time" package), grounded
on `original_source/crates/core/src/stdlib/time.rs` (now/sleep over chrono
and std::thread), here built on Go's time package.
*/
package stdlib

import (
	"fmt"
	stdtime "time"

	"github.com/quillscript/quill/value"
)

func init() {
	Register(Module{
		Name: "time",
		Functions: map[string]value.NativeFunction{
			"now":   Native("time.now", timeNow),
			"sleep": Native("time.sleep", timeSleep),
		},
	})
}

func timeNow(args []value.Value) (value.Value, error) {
	now := stdtime.Now()
	ts := float64(now.UnixNano()) / 1e9
	return value.Float(ts), nil
}

func timeSleep(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("time.sleep expects 1 argument (ms)")
	}
	var ms float64
	switch v := args[0].(type) {
	case value.Int:
		ms = float64(v)
	case value.Float:
		ms = float64(v)
	default:
		return nil, fmt.Errorf("time.sleep expects a number")
	}
	stdtime.Sleep(stdtime.Duration(ms) * stdtime.Millisecond)
	return value.NullValue, nil
}
