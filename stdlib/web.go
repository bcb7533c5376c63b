/*
web.go implements the `web` stdlib module's minimal HTTP server builtin,
grounded on `original_source/crates/core/src/stdlib/web.rs` (an
actix-web-backed `app()` returning get/post/listen NativeFunctions closed
over a shared, Mutex-guarded route table). Built here on Go's net/http,
whose ServeMux plays the same "route table" role actix's App does.

Per §5's Shared-state rule, `app.get`/`app.post` register into a
lock-guarded table during setup; `app.listen` takes one cloned, immutable
snapshot of the table and hands that snapshot — not the live, lockable one
— to the underlying server, so the server itself never contends on the
registration lock while serving requests.
*/
package stdlib

import (
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/quillscript/quill/value"
)

func init() {
	Register(Module{
		Name: "web",
		Functions: map[string]value.NativeFunction{
			"app": Native("web.app", webApp),
		},
	})
}

type route struct {
	method  string
	path    string
	handler value.Value
}

type routeTable struct {
	mu     sync.Mutex
	routes []route
}

func webApp(args []value.Value) (value.Value, error) {
	table := &routeTable{}

	m := value.NewMap()
	m.Set("get", value.NativeFunction{Name: "app.get", Fn: registerRoute(table, "GET"), Ident: newIdent()})
	m.Set("post", value.NativeFunction{Name: "app.post", Fn: registerRoute(table, "POST"), Ident: newIdent()})
	m.Set("listen", value.NativeFunction{Name: "app.listen", Fn: listenFn(table), Ident: newIdent()})
	return m, nil
}

func newIdent() *int {
	seq.n++
	id := seq.n
	return &id
}

func registerRoute(table *routeTable, method string) value.NativeFunc {
	return func(args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("app.%s expects 2 arguments: path, handler", method)
		}
		path, ok := args[0].(value.String)
		if !ok {
			return nil, fmt.Errorf("app.%s expects a string path", method)
		}
		table.mu.Lock()
		table.routes = append(table.routes, route{method: method, path: string(path), handler: args[1]})
		table.mu.Unlock()
		return value.NullValue, nil
	}
}

func listenFn(table *routeTable) value.NativeFunc {
	return func(args []value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("app.listen expects 1 argument: port")
		}
		port, ok := args[0].(value.Int)
		if !ok {
			return nil, fmt.Errorf("app.listen expects an integer port")
		}

		table.mu.Lock()
		snapshot := make([]route, len(table.routes))
		copy(snapshot, table.routes)
		table.mu.Unlock()

		mux := http.NewServeMux()
		for _, r := range snapshot {
			r := r
			mux.HandleFunc(r.path, func(w http.ResponseWriter, req *http.Request) {
				if req.Method != r.method {
					http.NotFound(w, req)
					return
				}
				body, _ := io.ReadAll(req.Body)
				result, err := callHandler(r.handler, []value.Value{value.String(body)})
				if err != nil {
					http.Error(w, err.Error(), http.StatusInternalServerError)
					return
				}
				writeResult(w, result)
			})
		}

		fmt.Printf("Server starting on port %d\n", port)
		return value.NullValue, http.ListenAndServe(fmt.Sprintf(":%d", port), mux)
	}
}

func callHandler(handler value.Value, args []value.Value) (value.Value, error) {
	if Caller == nil {
		return nil, fmt.Errorf("web: no evaluator registered to invoke handlers")
	}
	return Caller(handler, args)
}

func writeResult(w http.ResponseWriter, result value.Value) {
	switch v := result.(type) {
	case value.String:
		w.Write([]byte(v))
	default:
		encoded, err := jsonStringify([]value.Value{result})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(encoded.(value.String)))
	}
}
