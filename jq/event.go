package jq

import (
	"golang.org/x/net/html"

	"github.com/chrisuehlinger/jqalt/dom"
)

// Event is the normalized event handed to handlers. Both flags only ever go
// from false to true.
type Event struct {
	Type          string
	Target        *html.Node
	CurrentTarget *html.Node

	// Copied from the native event when the handler was bound for a
	// native event name.
	Touches       []dom.Touch
	PageX         float64
	PageY         float64
	OriginalEvent *dom.NativeEvent

	defaultPrevented   bool
	propagationStopped bool
}

// NewEvent creates an event of the given type.
func NewEvent(eventType string) *Event {
	return &Event{Type: eventType}
}

// PreventDefault marks the event as default-prevented. It has no effect on
// propagation.
func (e *Event) PreventDefault() {
	e.defaultPrevented = true
	if e.OriginalEvent != nil {
		e.OriginalEvent.PreventDefault()
	}
}

// IsDefaultPrevented reports whether PreventDefault was called.
func (e *Event) IsDefaultPrevented() bool {
	return e.defaultPrevented
}

// StopPropagation keeps the event from reaching ancestors of the current
// node. Remaining handlers of the current node still run.
func (e *Event) StopPropagation() {
	e.propagationStopped = true
	if e.OriginalEvent != nil {
		e.OriginalEvent.StopPropagation()
	}
}

// IsPropagationStopped reports whether StopPropagation was called.
func (e *Event) IsPropagationStopped() bool {
	return e.propagationStopped
}

func (e *Event) fromNative(ne *dom.NativeEvent) {
	e.Target = ne.Target
	e.CurrentTarget = ne.CurrentTarget
	e.Touches = ne.Touches
	e.PageX = ne.PageX
	e.PageY = ne.PageY
	e.OriginalEvent = ne
}
