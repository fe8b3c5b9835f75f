package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func eventTree(t *testing.T) (*Document, *html.Node, *html.Node) {
	t.Helper()
	doc, err := Parse(`<div id="outer"><button id="btn">go</button></div>`)
	require.NoError(t, err)
	return doc, doc.GetElementByID("outer"), doc.GetElementByID("btn")
}

func TestDispatchBubbles(t *testing.T) {
	doc, outer, btn := eventTree(t)

	var order []string
	doc.AddEventListener(btn, "click", func(e *NativeEvent) {
		order = append(order, "btn")
		assert.Equal(t, btn, e.Target)
		assert.Equal(t, btn, e.CurrentTarget)
		assert.Equal(t, EventPhaseAtTarget, e.EventPhase)
	})
	doc.AddEventListener(outer, "click", func(e *NativeEvent) {
		order = append(order, "outer")
		assert.Equal(t, btn, e.Target)
		assert.Equal(t, outer, e.CurrentTarget)
		assert.Equal(t, EventPhaseBubbling, e.EventPhase)
	})
	doc.AddEventListener(doc.Root(), "click", func(e *NativeEvent) {
		order = append(order, "document")
	})

	e := NewNativeEvent("click", NativeEventInit{Bubbles: true})
	assert.True(t, doc.Dispatch(btn, e))
	assert.Equal(t, []string{"btn", "outer", "document"}, order)
	assert.Nil(t, e.CurrentTarget)
}

func TestDispatchNonBubbling(t *testing.T) {
	doc, outer, btn := eventTree(t)

	called := 0
	doc.AddEventListener(outer, "focus", func(*NativeEvent) { called++ })
	doc.Dispatch(btn, NewNativeEvent("focus", NativeEventInit{}))
	assert.Zero(t, called)
}

func TestDispatchStopPropagation(t *testing.T) {
	doc, outer, btn := eventTree(t)

	var order []string
	doc.AddEventListener(btn, "click", func(e *NativeEvent) {
		order = append(order, "first")
		e.StopPropagation()
	})
	doc.AddEventListener(btn, "click", func(*NativeEvent) {
		order = append(order, "second")
	})
	doc.AddEventListener(outer, "click", func(*NativeEvent) {
		order = append(order, "outer")
	})

	doc.Dispatch(btn, NewNativeEvent("click", NativeEventInit{Bubbles: true}))
	assert.Equal(t, []string{"first", "second"}, order)

	order = nil
	doc.RemoveEventListeners(btn, "click")
	doc.AddEventListener(btn, "click", func(e *NativeEvent) {
		order = append(order, "immediate")
		e.StopImmediatePropagation()
	})
	doc.AddEventListener(btn, "click", func(*NativeEvent) {
		order = append(order, "never")
	})
	doc.Dispatch(btn, NewNativeEvent("click", NativeEventInit{Bubbles: true}))
	assert.Equal(t, []string{"immediate"}, order)
}

func TestDispatchPreventDefault(t *testing.T) {
	doc, _, btn := eventTree(t)
	doc.AddEventListener(btn, "click", func(e *NativeEvent) { e.PreventDefault() })

	assert.True(t, doc.Dispatch(btn, NewNativeEvent("click", NativeEventInit{})))
	e := NewNativeEvent("click", NativeEventInit{Cancelable: true})
	assert.False(t, doc.Dispatch(btn, e))
	assert.True(t, e.DefaultPrevented())
}

func TestHasNativeEvent(t *testing.T) {
	doc, _, btn := eventTree(t)

	assert.True(t, doc.HasNativeEvent(btn, "click"))
	assert.True(t, doc.HasNativeEvent(btn, "TouchStart"))
	assert.False(t, doc.HasNativeEvent(btn, "customClick"))
	assert.False(t, doc.HasNativeEvent(btn.FirstChild, "click"))

	doc.RegisterNativeEvents("customClick")
	assert.True(t, doc.HasNativeEvent(btn, "customclick"))
}

func TestRemoveEventListeners(t *testing.T) {
	doc, _, btn := eventTree(t)
	doc.AddEventListener(btn, "click", func(*NativeEvent) {})
	doc.AddEventListener(btn, "keyup", func(*NativeEvent) {})

	doc.RemoveEventListeners(btn, "click")
	assert.Equal(t, 0, doc.ListenerCount(btn, "click"))
	assert.Equal(t, 1, doc.ListenerCount(btn, "keyup"))

	doc.RemoveEventListeners(btn, "")
	assert.Equal(t, 0, doc.ListenerCount(btn, "keyup"))
}
