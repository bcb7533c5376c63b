/*
json.go implements the `json` stdlib module named in §1/§6 and supplied
concrete content from `original_source/crates/core/src/stdlib/json.rs`
(parse/stringify over serde_json). Here it is grounded on Go's own
encoding/json, decoding into interface{} with UseNumber so integer and
floating literals round-trip to Int/Float the way the Rust original's
as_i64()/as_f64() branch does.
*/
package stdlib

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/quillscript/quill/value"
)

func init() {
	Register(Module{
		Name: "json",
		Functions: map[string]value.NativeFunction{
			"parse":     Native("json.parse", jsonParse),
			"stringify": Native("json.stringify", jsonStringify),
		},
	})
}

func jsonParse(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("json.parse expects 1 argument")
	}
	s, ok := args[0].(value.String)
	if !ok {
		return nil, fmt.Errorf("json.parse expects a string")
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("json.parse: %v", err)
	}
	return goToValue(raw), nil
}

func jsonStringify(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("json.stringify expects 1 argument")
	}
	raw := valueToGo(args[0])
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("json.stringify: %v", err)
	}
	return value.String(b), nil
}

func goToValue(raw interface{}) value.Value {
	switch v := raw.(type) {
	case nil:
		return value.NullValue
	case bool:
		return value.Bool(v)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return value.Int(i)
		}
		f, _ := v.Float64()
		return value.Float(f)
	case string:
		return value.String(v)
	case []interface{}:
		elems := make([]value.Value, len(v))
		for i, e := range v {
			elems[i] = goToValue(e)
		}
		return value.NewArray(elems)
	case map[string]interface{}:
		m := value.NewMap()
		for k, e := range v {
			m.Set(k, goToValue(e))
		}
		return m
	}
	return value.NullValue
}

// valueToGo is the inverse of goToValue, used before marshalling; functions
// cannot be serialised and become null, matching value_to_json's fallback.
func valueToGo(v value.Value) interface{} {
	switch x := v.(type) {
	case value.Null:
		return nil
	case value.Bool:
		return bool(x)
	case value.Int:
		return int64(x)
	case value.Float:
		return float64(x)
	case value.String:
		return string(x)
	case value.Array:
		out := make([]interface{}, len(*x.Elems))
		for i, e := range *x.Elems {
			out[i] = valueToGo(e)
		}
		return out
	case value.Map:
		out := map[string]interface{}{}
		for _, k := range *x.Keys {
			val, _ := x.Get(k)
			out[k] = valueToGo(val)
		}
		return out
	}
	return nil
}
