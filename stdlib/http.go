/*
http.go implements the `http` stdlib module, grounded on
`original_source/crates/core/src/stdlib/http.rs` (get/post over
reqwest::blocking), here built on Go's net/http — the pack's own
stdlib modules (teacher's std/http.go) are likewise plain net/http, so no
third-party HTTP client is grounded for this concern anywhere in the
corpus (documented in DESIGN.md as the standard-library justification).
*/
package stdlib

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/quillscript/quill/value"
)

func init() {
	Register(Module{
		Name: "http",
		Functions: map[string]value.NativeFunction{
			"get":  Native("http.get", httpGet),
			"post": Native("http.post", httpPost),
		},
	})
}

func httpGet(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("http.get expects 1 argument (url)")
	}
	url, ok := args[0].(value.String)
	if !ok {
		return nil, fmt.Errorf("http.get expects a URL string")
	}
	resp, err := http.Get(string(url))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	m := value.NewMap()
	m.Set("body", value.String(body))
	m.Set("status", value.Int(resp.StatusCode))
	return m, nil
}

func httpPost(args []value.Value) (value.Value, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("http.post expects at least 2 arguments (url, body)")
	}
	url, ok := args[0].(value.String)
	if !ok {
		return nil, fmt.Errorf("http.post expects a URL string")
	}

	var reader io.Reader
	var contentType string
	switch b := args[1].(type) {
	case value.String:
		reader = strings.NewReader(string(b))
		contentType = "text/plain"
	case value.Map:
		encoded, err := jsonStringify([]value.Value{b})
		if err != nil {
			return nil, err
		}
		reader = strings.NewReader(string(encoded.(value.String)))
		contentType = "application/json"
	default:
		return nil, fmt.Errorf("http.post body must be string or map")
	}

	resp, err := http.Post(string(url), contentType, reader)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	m := value.NewMap()
	m.Set("body", value.String(body))
	m.Set("status", value.Int(resp.StatusCode))
	return m, nil
}
