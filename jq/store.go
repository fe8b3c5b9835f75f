package jq

import (
	"sync"

	"golang.org/x/net/html"
)

// Handler receives a triggered or native event plus any extra trigger
// arguments. The node the handler was bound on is e.CurrentTarget.
type Handler func(e *Event, args ...any)

// EventMap maps an event type to its handlers in registration order.
type EventMap map[string][]Handler

// nodeState is what a browser would keep as hidden properties on the node.
type nodeState struct {
	events EventMap
	data   map[string]any
}

// Store is a side table from node identity to its event map and data. A
// document has one Store, shared by all its Queries.
//
// Entries live until Forget is called, which happens when the node is
// removed through Document.Remove. Nodes that never enter the document,
// such as literal text or fragment elements that are dropped without being
// appended, keep their entry as long as the document lives.
type Store struct {
	mu    sync.Mutex
	nodes map[*html.Node]*nodeState
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{nodes: make(map[*html.Node]*nodeState)}
}

// state returns the entry for n, creating it with an empty event map on
// first contact. Callers hold s.mu.
func (s *Store) state(n *html.Node) *nodeState {
	st, ok := s.nodes[n]
	if !ok {
		st = &nodeState{events: make(EventMap)}
		s.nodes[n] = st
	}
	return st
}

// Ensure attaches an event map to n unless it already has one.
func (s *Store) Ensure(n *html.Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state(n)
}

// Has reports whether n has an entry.
func (s *Store) Has(n *html.Node) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.nodes[n]
	return ok
}

// AddHandler appends h to the handlers of eventType on n.
func (s *Store) AddHandler(n *html.Node, eventType string, h Handler) {
	if h == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state(n)
	st.events[eventType] = append(st.events[eventType], h)
}

// Handlers returns a snapshot of the handlers of eventType on n. Handlers
// bound while a dispatch is running do not join that dispatch.
func (s *Store) Handlers(n *html.Node, eventType string) []Handler {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.nodes[n]
	if !ok {
		return nil
	}
	return append([]Handler(nil), st.events[eventType]...)
}

// Data returns the data map of n, creating it when create is set.
func (s *Store) Data(n *html.Node, create bool) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !create {
		if st, ok := s.nodes[n]; ok {
			return st.data
		}
		return nil
	}
	st := s.state(n)
	if st.data == nil {
		st.data = make(map[string]any)
	}
	return st.data
}

// SetData replaces the data map of n.
func (s *Store) SetData(n *html.Node, data map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state(n).data = data
}

// Forget drops the entry of n.
func (s *Store) Forget(n *html.Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.nodes, n)
}

// Len returns the number of nodes with an entry.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.nodes)
}
