package jq

import (
	"reflect"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/chrisuehlinger/jqalt/dom"
)

// Bind registers handler for eventName on every member.
//
// When the host exposes a native on<eventname> handler for a member, the
// handler is registered with the document and receives an Event built from
// the native one. Any other name is custom: the handler goes into the
// member's EventMap and runs only through Trigger.
func (c *Collection) Bind(eventName string, handler Handler) *Collection {
	if handler == nil {
		return c
	}
	doc := c.q.doc
	for _, n := range c.nodes {
		if doc.HasNativeEvent(n, eventName) {
			doc.AddEventListener(n, eventName, func(ne *dom.NativeEvent) {
				e := NewEvent(eventName)
				e.fromNative(ne)
				handler(e)
			})
			continue
		}
		c.q.store.AddHandler(n, eventName, handler)
	}
	return c
}

// Trigger runs the custom handlers for an event on every member and its
// ancestors.
//
// event is either an event type name or an *Event. A name yields a fresh
// Event per member, so stopping propagation during one member's walk does
// not affect the next; an *Event is shared by all walks. For each member
// the walk goes from the member up to the document node and stops once
// propagation is stopped. When exactly one extra argument is passed and it
// is a slice or array, its elements are passed as separate arguments.
func (c *Collection) Trigger(event any, args ...any) *Collection {
	var (
		name   string
		shared *Event
	)
	switch v := event.(type) {
	case string:
		name = v
	case *Event:
		if v == nil {
			return c
		}
		shared = v
	default:
		c.q.log.Debug("Trigger ignored", zap.Any("event", event))
		return c
	}
	extra := spreadArgs(args)
	for _, n := range c.nodes {
		e := shared
		if e == nil {
			e = NewEvent(name)
		}
		e.Target = n
		c.q.dispatch(n, e, extra)
	}
	return c
}

func (q *Query) dispatch(start *html.Node, e *Event, args []any) {
	for cur := start; cur != nil && !e.IsPropagationStopped(); cur = dom.ParentNode(cur) {
		handlers := q.store.Handlers(cur, e.Type)
		if len(handlers) == 0 {
			continue
		}
		e.CurrentTarget = cur
		for _, h := range handlers {
			h(e, args...)
		}
	}
}

// Simulate dispatches a native event of type eventName at every member
// through the document, reaching handlers bound for native names.
func (c *Collection) Simulate(eventName string, init dom.NativeEventInit) *Collection {
	for _, n := range c.nodes {
		c.q.doc.Dispatch(n, dom.NewNativeEvent(eventName, init))
	}
	return c
}

func spreadArgs(args []any) []any {
	if len(args) != 1 || args[0] == nil {
		return args
	}
	v := reflect.ValueOf(args[0])
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return args
	}
	out := make([]any, v.Len())
	for i := range out {
		out[i] = v.Index(i).Interface()
	}
	return out
}
