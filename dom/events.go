package dom

import (
	"strings"
	"time"

	"golang.org/x/net/html"
)

// EventPhase represents the phase of native event dispatch.
type EventPhase int

const (
	EventPhaseNone     EventPhase = 0
	EventPhaseAtTarget EventPhase = 2
	EventPhaseBubbling EventPhase = 3
)

// Touch is a single point of contact of a touch event.
type Touch struct {
	Identifier int
	Target     *html.Node
	PageX      float64
	PageY      float64
}

// NativeEventInit carries the optional fields of a native event.
type NativeEventInit struct {
	Bubbles    bool
	Cancelable bool
	Touches    []Touch
	PageX      float64
	PageY      float64
}

// NativeEvent is an event dispatched by the host document.
type NativeEvent struct {
	Type          string
	Target        *html.Node
	CurrentTarget *html.Node
	EventPhase    EventPhase
	Bubbles       bool
	Cancelable    bool
	Touches       []Touch
	PageX         float64
	PageY         float64
	TimeStamp     time.Time

	defaultPrevented bool
	stopPropagation  bool
	stopImmediate    bool
}

// NewNativeEvent creates a native event of the given type.
func NewNativeEvent(eventType string, init NativeEventInit) *NativeEvent {
	return &NativeEvent{
		Type:       eventType,
		Bubbles:    init.Bubbles,
		Cancelable: init.Cancelable,
		Touches:    init.Touches,
		PageX:      init.PageX,
		PageY:      init.PageY,
		TimeStamp:  time.Now(),
	}
}

// PreventDefault marks a cancelable event as default-prevented.
func (e *NativeEvent) PreventDefault() {
	if e.Cancelable {
		e.defaultPrevented = true
	}
}

// DefaultPrevented reports whether PreventDefault took effect.
func (e *NativeEvent) DefaultPrevented() bool {
	return e.defaultPrevented
}

// StopPropagation stops dispatch after the current target.
func (e *NativeEvent) StopPropagation() {
	e.stopPropagation = true
}

// StopImmediatePropagation stops dispatch after the current listener.
func (e *NativeEvent) StopImmediatePropagation() {
	e.stopPropagation = true
	e.stopImmediate = true
}

// PropagationStopped reports whether StopPropagation was called.
func (e *NativeEvent) PropagationStopped() bool {
	return e.stopPropagation
}

// Listener receives native events.
type Listener func(e *NativeEvent)

type eventListener struct {
	callback Listener
}

// eventTarget holds the native listeners of one node.
type eventTarget struct {
	listeners map[string][]eventListener
}

// globalEventHandlers are the event names for which an element exposes an
// on<name> handler property.
var globalEventHandlers = map[string]bool{
	"abort": true, "animationend": true, "animationiteration": true, "animationstart": true,
	"auxclick": true, "beforeinput": true, "blur": true, "cancel": true, "canplay": true,
	"change": true, "click": true, "close": true, "contextmenu": true, "copy": true,
	"cut": true, "dblclick": true, "drag": true, "dragend": true, "dragenter": true,
	"dragleave": true, "dragover": true, "dragstart": true, "drop": true, "ended": true,
	"error": true, "focus": true, "focusin": true, "focusout": true, "input": true,
	"invalid": true, "keydown": true, "keypress": true, "keyup": true, "load": true,
	"mousedown": true, "mouseenter": true, "mouseleave": true, "mousemove": true,
	"mouseout": true, "mouseover": true, "mouseup": true, "paste": true, "pause": true,
	"play": true, "pointercancel": true, "pointerdown": true, "pointerenter": true,
	"pointerleave": true, "pointermove": true, "pointerout": true, "pointerover": true,
	"pointerup": true, "reset": true, "resize": true, "scroll": true, "select": true,
	"submit": true, "toggle": true, "touchcancel": true, "touchend": true,
	"touchmove": true, "touchstart": true, "transitionend": true, "wheel": true,
}

// RegisterNativeEvents adds event names the document treats as native on
// top of the HTML global event handlers.
func (d *Document) RegisterNativeEvents(names ...string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.extraNative == nil {
		d.extraNative = make(map[string]bool)
	}
	for _, name := range names {
		d.extraNative[strings.ToLower(name)] = true
	}
}

// HasNativeEvent reports whether n exposes an on<eventName> handler, where
// the name is matched lowercased.
func (d *Document) HasNativeEvent(n *html.Node, eventName string) bool {
	if !IsElement(n) {
		return false
	}
	name := strings.ToLower(eventName)
	if globalEventHandlers[name] {
		return true
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.extraNative[name]
}

// AddEventListener registers a native listener on n.
func (d *Document) AddEventListener(n *html.Node, eventType string, fn Listener) {
	if n == nil || fn == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	et, ok := d.targets[n]
	if !ok {
		et = &eventTarget{listeners: make(map[string][]eventListener)}
		d.targets[n] = et
	}
	et.listeners[eventType] = append(et.listeners[eventType], eventListener{callback: fn})
}

// RemoveEventListeners drops all native listeners of eventType on n, or
// all of them when eventType is empty.
func (d *Document) RemoveEventListeners(n *html.Node, eventType string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	et, ok := d.targets[n]
	if !ok {
		return
	}
	if eventType == "" {
		delete(d.targets, n)
		return
	}
	delete(et.listeners, eventType)
}

// ListenerCount returns the number of native listeners of eventType on n.
func (d *Document) ListenerCount(n *html.Node, eventType string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if et, ok := d.targets[n]; ok {
		return len(et.listeners[eventType])
	}
	return 0
}

func (d *Document) snapshot(n *html.Node, eventType string) []eventListener {
	d.mu.RLock()
	defer d.mu.RUnlock()
	et, ok := d.targets[n]
	if !ok {
		return nil
	}
	return append([]eventListener(nil), et.listeners[eventType]...)
}

// Dispatch fires e at target: listeners of the target first, then, when the
// event bubbles, those of each ancestor up to the document node. It returns
// false if a listener prevented the default action.
func (d *Document) Dispatch(target *html.Node, e *NativeEvent) bool {
	e.Target = target
	for cur := target; cur != nil; cur = cur.Parent {
		if cur == target {
			e.EventPhase = EventPhaseAtTarget
		} else {
			e.EventPhase = EventPhaseBubbling
		}
		e.CurrentTarget = cur
		for _, l := range d.snapshot(cur, e.Type) {
			l.callback(e)
			if e.stopImmediate {
				break
			}
		}
		if e.stopPropagation || !e.Bubbles {
			break
		}
	}
	e.CurrentTarget = nil
	e.EventPhase = EventPhaseNone
	return !e.defaultPrevented
}
