package jq

import (
	"iter"
	"slices"

	"github.com/andybalholm/cascadia"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/chrisuehlinger/jqalt/dom"
)

// Collection is an ordered set of element (or document) nodes. Members are
// unique; operations on an empty collection are no-ops and getters return
// zero values.
type Collection struct {
	q          *Query
	nodes      []*html.Node
	resolution Resolution
}

// Resolution returns how the selector string was interpreted, or
// ResolvedNone when the collection was not built from a string.
func (c *Collection) Resolution() Resolution {
	return c.resolution
}

// Len returns the number of members.
func (c *Collection) Len() int {
	return len(c.nodes)
}

// Item returns member i, or nil when out of range.
func (c *Collection) Item(i int) *html.Node {
	if i < 0 || i >= len(c.nodes) {
		return nil
	}
	return c.nodes[i]
}

// Get is Item with negative indexes counting from the end.
func (c *Collection) Get(i int) *html.Node {
	if i < 0 {
		i += len(c.nodes)
	}
	return c.Item(i)
}

// First returns the first member or nil.
func (c *Collection) First() *html.Node {
	return c.Item(0)
}

// Nodes returns a copy of the members.
func (c *Collection) Nodes() []*html.Node {
	return slices.Clone(c.nodes)
}

// All iterates over index and member.
func (c *Collection) All() iter.Seq2[int, *html.Node] {
	return func(yield func(int, *html.Node) bool) {
		for i, n := range c.nodes {
			if !yield(i, n) {
				return
			}
		}
	}
}

// Each calls fn for every member.
func (c *Collection) Each(fn func(i int, n *html.Node)) *Collection {
	for i, n := range c.nodes {
		fn(i, n)
	}
	return c
}

// Push appends nodes that are elements (or the document) and not members
// yet, and gives each an event map.
func (c *Collection) Push(nodes ...*html.Node) *Collection {
	for _, n := range nodes {
		if !dom.IsElement(n) || slices.Contains(c.nodes, n) {
			continue
		}
		c.nodes = append(c.nodes, n)
		c.q.store.Ensure(n)
	}
	return c
}

// Parent returns the distinct parent elements of the members.
func (c *Collection) Parent() *Collection {
	parents := make([]*html.Node, 0, len(c.nodes))
	for _, n := range c.nodes {
		if p := dom.ParentElement(n); p != nil {
			parents = append(parents, p)
		}
	}
	return c.q.Select(parents)
}

// Children returns the element children of every member. With a selector
// only matching children are kept; an invalid selector yields an empty
// collection.
func (c *Collection) Children(selector ...string) *Collection {
	var match func(*html.Node) bool
	if len(selector) > 0 && selector[0] != "" {
		sel, err := cascadia.Compile(selector[0])
		if err != nil {
			c.q.log.Debug("Invalid children selector", zap.String("selector", selector[0]), zap.Error(err))
			return c.q.Select(nil)
		}
		match = sel.Match
	}
	var children []*html.Node
	for _, n := range c.nodes {
		for _, ch := range dom.Children(n) {
			if match == nil || match(ch) {
				children = append(children, ch)
			}
		}
	}
	return c.q.Select(children)
}

// Append moves the nodes arg resolves to (see Query.Select) to the end of
// the first member.
func (c *Collection) Append(arg any) *Collection {
	first := c.First()
	if first == nil {
		return c
	}
	for _, n := range c.q.Select(arg).nodes {
		if err := dom.AppendChild(first, n); err != nil {
			c.q.log.Debug("Append failed", zap.Error(err))
		}
	}
	return c
}

// AppendTo appends every member to target: a node, a collection (its
// first member) or anything Select accepts.
func (c *Collection) AppendTo(target any) *Collection {
	switch t := target.(type) {
	case *html.Node:
		if !dom.IsElement(t) {
			return c
		}
		for _, n := range c.nodes {
			if err := dom.AppendChild(t, n); err != nil {
				c.q.log.Debug("AppendTo failed", zap.Error(err))
			}
		}
	case *Collection:
		t.Append(c)
	default:
		c.q.Select(target).Append(c)
	}
	return c
}

// Prepend moves the nodes arg resolves to before the first child of the
// first member, keeping their order.
func (c *Collection) Prepend(arg any) *Collection {
	first := c.First()
	if first == nil {
		return c
	}
	if err := dom.Prepend(first, c.q.Select(arg).nodes...); err != nil {
		c.q.log.Debug("Prepend failed", zap.Error(err))
	}
	return c
}

// Remove detaches every member from the document. Event maps and data of
// the members and their descendants are dropped.
func (c *Collection) Remove() *Collection {
	for _, n := range c.nodes {
		c.q.doc.Remove(n)
	}
	return c
}

// Is tests the collection. ":visible" holds when the first member has a
// non-empty box, ":hidden" is its negation. Any other selector holds when
// a member matches it; a selector that does not compile always holds.
func (c *Collection) Is(selector string) bool {
	switch selector {
	case ":visible":
		return c.visible()
	case ":hidden":
		return !c.visible()
	}
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return true
	}
	return slices.ContainsFunc(c.nodes, sel.Match)
}

func (c *Collection) visible() bool {
	first := c.First()
	return first != nil && dom.ClientWidth(first) != 0 && dom.ClientHeight(first) != 0
}

// Offset is a position relative to the document body.
type Offset struct {
	Top  float64
	Left float64
}

// Offset returns the position of the first member relative to the body.
func (c *Collection) Offset() Offset {
	first := c.First()
	if first == nil {
		return Offset{}
	}
	world := dom.Rect{}
	if body := c.q.doc.Body(); body != nil {
		world = dom.BoundingClientRect(body)
	}
	obj := dom.BoundingClientRect(first)
	return Offset{
		Top:  obj.Top() - world.Top(),
		Left: obj.Left() - world.Left(),
	}
}

// HTML returns the inner markup of the first member.
func (c *Collection) HTML() string {
	return dom.InnerHTML(c.First())
}

// Text returns the text content of the first member.
func (c *Collection) Text() string {
	if first := c.First(); first != nil {
		return dom.TextContent(first)
	}
	return ""
}
