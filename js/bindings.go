package js

import (
	"strconv"
	"strings"

	"github.com/dop251/goja"
	"golang.org/x/net/html"

	"github.com/chrisuehlinger/jqalt/dom"
	"github.com/chrisuehlinger/jqalt/jq"
)

// Symbols under which wrapper objects carry their Go value. Symbol keys
// stay out of Object.keys and for-in.
var (
	nodeSymbol       = goja.NewSymbol("jqalt.node")
	collectionSymbol = goja.NewSymbol("jqalt.collection")
	eventSymbol      = goja.NewSymbol("jqalt.event")
)

func (r *Runtime) forgetNode(n *html.Node) {
	delete(r.nodes, n)
}

// wrapNode returns the JS object for n, creating it on first use.
func (r *Runtime) wrapNode(n *html.Node) *goja.Object {
	if obj, ok := r.nodes[n]; ok {
		return obj
	}
	vm := r.vm
	obj := vm.NewObject()
	obj.SetSymbol(nodeSymbol, n)

	obj.Set("nodeName", nodeName(n))
	if n.Type == html.ElementNode {
		obj.Set("tagName", nodeName(n))
	}
	r.accessor(obj, "textContent", func() goja.Value {
		return vm.ToValue(dom.TextContent(n))
	}, func(v goja.Value) {
		dom.SetTextContent(n, v.String())
	})
	r.accessor(obj, "innerHTML", func() goja.Value {
		return vm.ToValue(dom.InnerHTML(n))
	}, nil)
	r.accessor(obj, "parentNode", func() goja.Value {
		return r.wrapNodeValue(dom.ParentNode(n))
	}, nil)
	r.accessor(obj, "className", func() goja.Value {
		return vm.ToValue(dom.Classes(n).Value())
	}, func(v goja.Value) {
		dom.SetAttribute(n, "class", v.String())
	})
	obj.Set("getAttribute", func(call goja.FunctionCall) goja.Value {
		if v, ok := dom.GetAttribute(n, call.Argument(0).String()); ok {
			return vm.ToValue(v)
		}
		return goja.Null()
	})
	obj.Set("setAttribute", func(call goja.FunctionCall) goja.Value {
		dom.SetAttribute(n, call.Argument(0).String(), call.Argument(1).String())
		return goja.Undefined()
	})
	obj.Set("appendChild", func(call goja.FunctionCall) goja.Value {
		child, ok := r.unwrapNode(call.Argument(0))
		if !ok {
			panic(vm.NewTypeError("appendChild: argument is not a node"))
		}
		if err := dom.AppendChild(n, child); err != nil {
			panic(vm.NewGoError(err))
		}
		return call.Argument(0)
	})

	r.nodes[n] = obj
	return obj
}

func (r *Runtime) wrapNodeValue(n *html.Node) goja.Value {
	if n == nil {
		return goja.Null()
	}
	return r.wrapNode(n)
}

func (r *Runtime) wrapNodes(nodes []*html.Node) goja.Value {
	items := make([]any, len(nodes))
	for i, n := range nodes {
		items[i] = r.wrapNode(n)
	}
	return r.vm.NewArray(items...)
}

func (r *Runtime) unwrapNode(v goja.Value) (*html.Node, bool) {
	obj, ok := v.(*goja.Object)
	if !ok {
		return nil, false
	}
	n, ok := exportSymbol(obj, nodeSymbol).(*html.Node)
	return n, ok && n != nil
}

func (r *Runtime) unwrapCollection(v goja.Value) (*jq.Collection, bool) {
	obj, ok := v.(*goja.Object)
	if !ok {
		return nil, false
	}
	c, ok := exportSymbol(obj, collectionSymbol).(*jq.Collection)
	return c, ok && c != nil
}

func (r *Runtime) unwrapEvent(v goja.Value) (*jq.Event, bool) {
	obj, ok := v.(*goja.Object)
	if !ok {
		return nil, false
	}
	e, ok := exportSymbol(obj, eventSymbol).(*jq.Event)
	return e, ok && e != nil
}

func exportSymbol(obj *goja.Object, sym *goja.Symbol) any {
	v := obj.GetSymbol(sym)
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	return v.Export()
}

// selectArg converts a JS value into something Query.Select accepts.
func (r *Runtime) selectArg(v goja.Value) any {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	if c, ok := r.unwrapCollection(v); ok {
		return c
	}
	if n, ok := r.unwrapNode(v); ok {
		return n
	}
	obj, ok := v.(*goja.Object)
	if !ok {
		return v.String()
	}
	if obj.ClassName() == "Array" || obj.Get("length") != nil {
		var nodes []*html.Node
		length := int(obj.Get("length").ToInteger())
		for i := 0; i < length; i++ {
			if n, ok := r.unwrapNode(obj.Get(strconv.Itoa(i))); ok {
				nodes = append(nodes, n)
			}
		}
		return nodes
	}
	return nil
}

// accessor defines a getter (and optional setter) property on obj.
func (r *Runtime) accessor(obj *goja.Object, name string, get func() goja.Value, set func(goja.Value)) {
	getter := r.vm.ToValue(func(goja.FunctionCall) goja.Value {
		return get()
	})
	var setter goja.Value
	if set != nil {
		setter = r.vm.ToValue(func(call goja.FunctionCall) goja.Value {
			set(call.Argument(0))
			return goja.Undefined()
		})
	}
	obj.DefineAccessorProperty(name, getter, setter, goja.FLAG_TRUE, goja.FLAG_TRUE)
}

func nodeName(n *html.Node) string {
	switch n.Type {
	case html.DocumentNode:
		return "#document"
	case html.TextNode:
		return "#text"
	case html.CommentNode:
		return "#comment"
	}
	return strings.ToUpper(n.Data)
}
