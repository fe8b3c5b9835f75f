// Package js exposes the collection library to JavaScript. It uses the goja
// JavaScript engine (pure Go ES5.1+ implementation) and installs the global
// $ function, a minimal document object and console.
package js

import (
	"fmt"
	"strings"
	"sync"

	"github.com/dop251/goja"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/chrisuehlinger/jqalt/dom"
	"github.com/chrisuehlinger/jqalt/jq"
)

// Runtime wraps a goja JavaScript runtime bound to one document.
type Runtime struct {
	vm    *goja.Runtime
	doc   *dom.Document
	query *jq.Query
	log   *zap.Logger

	// node wrappers, so the same node is always the same JS object
	nodes      map[*html.Node]*goja.Object
	stopForget func()

	mu      sync.Mutex
	errors  []error
	onError func(error)
}

// NewRuntime creates a runtime over query's document. A nil logger
// discards output.
func NewRuntime(query *jq.Query, log *zap.Logger) *Runtime {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Runtime{
		vm:    goja.New(),
		doc:   query.Document(),
		query: query,
		log:   log.Named("js"),
		nodes: make(map[*html.Node]*goja.Object),
	}
	r.stopForget = r.doc.OnRemove(r.forgetNode)

	r.setupConsole()
	r.setupDocument()
	r.setupQuery()
	return r
}

// Close detaches the runtime from its document. Node wrappers are no longer
// dropped on removal afterwards.
func (r *Runtime) Close() {
	if r.stopForget != nil {
		r.stopForget()
		r.stopForget = nil
	}
}

// Query returns the collection factory scripts use through $.
func (r *Runtime) Query() *jq.Query {
	return r.query
}

// SetOnError sets a callback for JavaScript errors, including errors
// thrown by event handlers.
func (r *Runtime) SetOnError(handler func(error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onError = handler
}

// Execute runs JavaScript code and returns the result.
func (r *Runtime) Execute(code string) (result goja.Value, err error) {
	// recover from panics in the goja parser/runtime
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("script execution panic: %v", p)
			r.recordError(err)
		}
	}()

	result, err = r.vm.RunString(code)
	if err != nil {
		r.recordError(err)
	}
	return result, err
}

// ExecuteScript compiles and runs code, using src as the file name in
// stack traces.
func (r *Runtime) ExecuteScript(code, src string) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("script compilation panic in %s: %v", src, p)
			r.recordError(err)
		}
	}()

	program, err := goja.Compile(src, code, false)
	if err != nil {
		r.recordError(err)
		return err
	}
	if _, err = r.vm.RunProgram(program); err != nil {
		r.recordError(err)
	}
	return err
}

// Errors returns all errors that occurred during execution.
func (r *Runtime) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error{}, r.errors...)
}

func (r *Runtime) recordError(err error) {
	r.mu.Lock()
	r.errors = append(r.errors, err)
	onError := r.onError
	r.mu.Unlock()

	r.log.Debug("Script error", zap.Error(err))
	if onError != nil {
		onError(err)
	}
}

func (r *Runtime) setupConsole() {
	console := r.vm.NewObject()
	logger := func(level func(string, ...zap.Field)) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			parts := make([]string, len(call.Arguments))
			for i, arg := range call.Arguments {
				parts[i] = arg.String()
			}
			level(strings.Join(parts, " "))
			return goja.Undefined()
		}
	}
	console.Set("log", logger(r.log.Info))
	console.Set("info", logger(r.log.Info))
	console.Set("debug", logger(r.log.Debug))
	console.Set("warn", logger(r.log.Warn))
	console.Set("error", logger(r.log.Error))
	r.vm.Set("console", console)
}

func (r *Runtime) setupDocument() {
	vm := r.vm
	document := vm.NewObject()

	document.Set("querySelector", func(call goja.FunctionCall) goja.Value {
		n, err := r.doc.QuerySelector(call.Argument(0).String())
		if err != nil {
			panic(vm.NewGoError(fmt.Errorf("invalid selector: %w", err)))
		}
		return r.wrapNodeValue(n)
	})
	document.Set("querySelectorAll", func(call goja.FunctionCall) goja.Value {
		nodes, err := r.doc.QuerySelectorAll(call.Argument(0).String())
		if err != nil {
			panic(vm.NewGoError(fmt.Errorf("invalid selector: %w", err)))
		}
		return r.wrapNodes(nodes)
	})
	document.Set("getElementById", func(call goja.FunctionCall) goja.Value {
		return r.wrapNodeValue(r.doc.GetElementByID(call.Argument(0).String()))
	})
	document.Set("createElement", func(call goja.FunctionCall) goja.Value {
		return r.wrapNode(r.doc.CreateElement(call.Argument(0).String()))
	})
	document.Set("body", r.wrapNodeValue(r.doc.Body()))
	document.Set("documentElement", r.wrapNodeValue(r.doc.DocumentElement()))
	r.nodes[r.doc.Root()] = document
	document.SetSymbol(nodeSymbol, r.doc.Root())

	r.vm.Set("document", document)
}
