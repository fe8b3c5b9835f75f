package js

import (
	"strconv"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	"github.com/chrisuehlinger/jqalt/jq"
)

// setupQuery installs the global $ function and its static helpers.
func (r *Runtime) setupQuery() {
	vm := r.vm
	dollar := vm.ToValue(func(call goja.FunctionCall) goja.Value {
		var attrs []jq.Attrs
		if opts, ok := exportMap(call.Argument(1)); ok {
			attrs = append(attrs, jq.Attrs(opts))
		}
		return r.wrapCollection(r.query.Select(r.selectArg(call.Argument(0)), attrs...))
	}).(*goja.Object)

	dollar.Set("extend", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return goja.Undefined()
		}
		target, ok := call.Arguments[0].(*goja.Object)
		if !ok {
			return call.Arguments[0]
		}
		for _, src := range call.Arguments[1:] {
			if obj, ok := src.(*goja.Object); ok && !isArrayLike(obj) {
				extendObject(vm, target, obj)
			}
		}
		return target
	})
	dollar.Set("parseHTML", func(call goja.FunctionCall) goja.Value {
		nodes, err := jq.ParseHTML(call.Argument(0).String())
		if err != nil {
			panic(vm.NewGoError(err))
		}
		return r.wrapNodes(nodes)
	})
	dollar.Set("inArray", func(call goja.FunctionCall) goja.Value {
		value := call.Argument(0)
		list, ok := call.Argument(1).(*goja.Object)
		if !ok {
			return vm.ToValue(-1)
		}
		length := int(list.Get("length").ToInteger())
		for i := 0; i < length; i++ {
			if list.Get(strconv.Itoa(i)).StrictEquals(value) {
				return vm.ToValue(i)
			}
		}
		return vm.ToValue(-1)
	})
	dollar.Set("proxy", func(call goja.FunctionCall) goja.Value {
		fn, ok := goja.AssertFunction(call.Argument(0))
		if !ok {
			panic(vm.NewTypeError("proxy: not a function"))
		}
		ctx := call.Argument(1)
		return vm.ToValue(func(inner goja.FunctionCall) goja.Value {
			v, err := fn(ctx, inner.Arguments...)
			if err != nil {
				panic(err)
			}
			return v
		})
	})
	dollar.Set("Event", func(call goja.FunctionCall) goja.Value {
		return r.wrapEvent(jq.NewEvent(call.Argument(0).String()))
	})

	vm.Set("$", dollar)
	vm.Set("jqalt", dollar)
}

// wrapCollection exposes c as an array-like object with chainable methods.
func (r *Runtime) wrapCollection(c *jq.Collection) *goja.Object {
	vm := r.vm
	obj := vm.NewObject()
	obj.SetSymbol(collectionSymbol, c)
	obj.Set("length", c.Len())
	for i, n := range c.All() {
		obj.Set(strconv.Itoa(i), r.wrapNode(n))
	}
	self := func(call goja.FunctionCall) goja.Value {
		return call.This
	}

	obj.Set("get", func(call goja.FunctionCall) goja.Value {
		return r.wrapNodeValue(c.Get(int(call.Argument(0).ToInteger())))
	})
	obj.Set("each", func(call goja.FunctionCall) goja.Value {
		fn, ok := goja.AssertFunction(call.Argument(0))
		if !ok {
			return call.This
		}
		for i, n := range c.All() {
			if _, err := fn(r.wrapNode(n), vm.ToValue(i), r.wrapNode(n)); err != nil {
				panic(err)
			}
		}
		return call.This
	})

	obj.Set("attr", func(call goja.FunctionCall) goja.Value {
		if opts, ok := exportMap(call.Argument(0)); ok {
			c.SetAttrs(jq.Attrs(opts))
			return call.This
		}
		name := call.Argument(0)
		if goja.IsUndefined(name) || goja.IsNull(name) {
			return goja.Undefined()
		}
		if value := call.Argument(1); value.ToBoolean() {
			c.SetAttr(name.String(), value.Export())
			return call.This
		}
		if v, ok := c.Attr(name.String()); ok {
			return vm.ToValue(v)
		}
		return goja.Undefined()
	})
	obj.Set("css", func(call goja.FunctionCall) goja.Value {
		if c.Len() == 0 {
			return goja.Undefined()
		}
		if styles, ok := exportMap(call.Argument(0)); ok {
			c.SetCSS(styles)
			return call.This
		}
		v := c.CSS(call.Argument(0).String())
		if px, ok := jq.PxToInt(v); ok {
			return vm.ToValue(px)
		}
		return vm.ToValue(v)
	})
	obj.Set("width", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return vm.ToValue(c.Width())
		}
		c.SetWidth(call.Arguments[0].Export())
		return call.This
	})
	obj.Set("height", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return vm.ToValue(c.Height())
		}
		c.SetHeight(call.Arguments[0].Export())
		return call.This
	})
	obj.Set("hide", func(call goja.FunctionCall) goja.Value {
		c.Hide()
		return self(call)
	})
	obj.Set("show", func(call goja.FunctionCall) goja.Value {
		c.Show()
		return self(call)
	})
	obj.Set("addClass", func(call goja.FunctionCall) goja.Value {
		c.AddClass(call.Argument(0).String())
		return self(call)
	})
	obj.Set("removeClass", func(call goja.FunctionCall) goja.Value {
		c.RemoveClass(call.Argument(0).String())
		return self(call)
	})
	obj.Set("hasClass", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(c.HasClass(call.Argument(0).String()))
	})

	obj.Set("append", func(call goja.FunctionCall) goja.Value {
		c.Append(r.selectArg(call.Argument(0)))
		return self(call)
	})
	obj.Set("appendTo", func(call goja.FunctionCall) goja.Value {
		c.AppendTo(r.selectArg(call.Argument(0)))
		return self(call)
	})
	obj.Set("prepend", func(call goja.FunctionCall) goja.Value {
		c.Prepend(r.selectArg(call.Argument(0)))
		return self(call)
	})
	obj.Set("parent", func(call goja.FunctionCall) goja.Value {
		return r.wrapCollection(c.Parent())
	})
	obj.Set("children", func(call goja.FunctionCall) goja.Value {
		if sel := call.Argument(0); !goja.IsUndefined(sel) && !goja.IsNull(sel) {
			return r.wrapCollection(c.Children(sel.String()))
		}
		return r.wrapCollection(c.Children())
	})
	obj.Set("remove", func(call goja.FunctionCall) goja.Value {
		c.Remove()
		return self(call)
	})
	obj.Set("is", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(c.Is(call.Argument(0).String()))
	})
	obj.Set("offset", func(call goja.FunctionCall) goja.Value {
		off := c.Offset()
		res := vm.NewObject()
		res.Set("top", off.Top)
		res.Set("left", off.Left)
		return res
	})
	obj.Set("html", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(c.HTML())
	})
	obj.Set("text", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(c.Text())
	})

	obj.Set("data", func(call goja.FunctionCall) goja.Value {
		switch {
		case len(call.Arguments) == 0:
			if data := c.DataAll(); data != nil {
				return vm.ToValue(data)
			}
			return goja.Null()
		case len(call.Arguments) > 1:
			c.SetData(call.Arguments[0].String(), call.Arguments[1].Export())
			return call.This
		}
		if m, ok := exportMap(call.Arguments[0]); ok {
			c.ReplaceData(m)
			return call.This
		}
		if v, ok := c.Data(call.Arguments[0].String()); ok {
			return vm.ToValue(v)
		}
		return goja.Undefined()
	})
	obj.Set("removeData", func(call goja.FunctionCall) goja.Value {
		arg := call.Argument(0)
		if list, ok := arg.(*goja.Object); ok && list.ClassName() == "Array" {
			var path []string
			if err := vm.ExportTo(list, &path); err == nil {
				c.RemoveData(path...)
			}
			return call.This
		}
		c.RemoveData(arg.String())
		return call.This
	})

	obj.Set("bind", func(call goja.FunctionCall) goja.Value {
		fn, ok := goja.AssertFunction(call.Argument(1))
		if !ok {
			return call.This
		}
		c.Bind(call.Argument(0).String(), r.handler(fn))
		return call.This
	})
	obj.Set("trigger", func(call goja.FunctionCall) goja.Value {
		var event any = call.Argument(0).String()
		if e, ok := r.unwrapEvent(call.Argument(0)); ok {
			event = e
		}
		var args []any
		if len(call.Arguments) > 1 {
			for _, a := range call.Arguments[1:] {
				args = append(args, a.Export())
			}
		}
		c.Trigger(event, args...)
		return call.This
	})

	return obj
}

// handler adapts a JS function to a jq.Handler. The function is called
// with the current node as this, the event and the extra arguments.
// Exceptions are recorded and do not stop the dispatch.
func (r *Runtime) handler(fn goja.Callable) jq.Handler {
	return func(e *jq.Event, args ...any) {
		jsArgs := make([]goja.Value, 0, len(args)+1)
		jsArgs = append(jsArgs, r.wrapEvent(e))
		for _, a := range args {
			jsArgs = append(jsArgs, r.vm.ToValue(a))
		}
		if _, err := fn(r.wrapNodeValue(e.CurrentTarget), jsArgs...); err != nil {
			r.log.Debug("Event handler failed", zap.String("event", e.Type), zap.Error(err))
			r.recordError(err)
		}
	}
}

// wrapEvent exposes e. Target and currentTarget are read live, so a shared
// event shows the node of the walk in progress.
func (r *Runtime) wrapEvent(e *jq.Event) *goja.Object {
	vm := r.vm
	obj := vm.NewObject()
	obj.SetSymbol(eventSymbol, e)
	obj.Set("type", e.Type)
	r.accessor(obj, "target", func() goja.Value {
		return r.wrapNodeValue(e.Target)
	}, nil)
	r.accessor(obj, "currentTarget", func() goja.Value {
		return r.wrapNodeValue(e.CurrentTarget)
	}, nil)
	obj.Set("pageX", e.PageX)
	obj.Set("pageY", e.PageY)
	obj.Set("preventDefault", func(goja.FunctionCall) goja.Value {
		e.PreventDefault()
		return goja.Undefined()
	})
	obj.Set("isDefaultPrevented", func(goja.FunctionCall) goja.Value {
		return vm.ToValue(e.IsDefaultPrevented())
	})
	obj.Set("stopPropagation", func(goja.FunctionCall) goja.Value {
		e.StopPropagation()
		return goja.Undefined()
	})
	obj.Set("isPropagationStopped", func(goja.FunctionCall) goja.Value {
		return vm.ToValue(e.IsPropagationStopped())
	})
	return obj
}

// exportMap returns v as a map when it is a plain object.
func exportMap(v goja.Value) (map[string]any, bool) {
	obj, ok := v.(*goja.Object)
	if !ok || obj.ClassName() != "Object" {
		return nil, false
	}
	if _, isFunc := goja.AssertFunction(v); isFunc {
		return nil, false
	}
	m, ok := obj.Export().(map[string]any)
	return m, ok
}

func isArrayLike(obj *goja.Object) bool {
	return obj.ClassName() == "Array" || obj.Get("length") != nil
}

// extendObject deep-merges src into target in place, the JS counterpart of
// jq.Extend.
func extendObject(vm *goja.Runtime, target, src *goja.Object) {
	for _, key := range src.Keys() {
		v := src.Get(key)
		nested, ok := v.(*goja.Object)
		if !ok || nested.ClassName() != "Object" || isArrayLike(nested) {
			target.Set(key, v)
			continue
		}
		dst, ok := target.Get(key).(*goja.Object)
		if !ok || dst.ClassName() != "Object" {
			dst = vm.NewObject()
			target.Set(key, dst)
		}
		extendObject(vm, dst, nested)
	}
}
