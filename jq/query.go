// Package jq is a jQuery-style collection layer over a dom.Document.
//
// A Query is bound to one document, the way the global $ function is bound to
// window.document. Select normalizes a selector, node or node list into a
// Collection of unique element nodes; collections expose chainable attribute,
// style, class, traversal, data and event operations.
//
// Custom events never touch the host: handlers bound for names without a
// native on<name> handler live in a per-node EventMap held by the Query's
// Store, and Trigger walks from each member up to the document node invoking
// them. Native names are registered with the document instead and fire when
// the document dispatches the native event.
package jq

import (
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/chrisuehlinger/jqalt/dom"
)

const (
	defaultLiteralTag      = "span"
	defaultFragmentContext = "div"
)

// Query creates collections over one document.
type Query struct {
	doc        *dom.Document
	store      *Store
	log        *zap.Logger
	literalTag string
	fragment   string
	xpath      bool
}

// Option configures a Query.
type Option func(*Query)

// WithLogger sets the logger. Resolution fallbacks and swallowed host
// errors are reported at debug level.
func WithLogger(log *zap.Logger) Option {
	return func(q *Query) {
		if log != nil {
			q.log = log
		}
	}
}

// WithLiteralTag sets the element that wraps strings which are neither a
// selector nor markup. The default is span.
func WithLiteralTag(tag string) Option {
	return func(q *Query) {
		if tag != "" {
			q.literalTag = tag
		}
	}
}

// WithFragmentContext sets the element markup strings are parsed inside.
// The default is div.
func WithFragmentContext(tag string) Option {
	return func(q *Query) {
		if tag != "" {
			q.fragment = tag
		}
	}
}

// WithXPath enables or disables XPath resolution of strings starting with
// "/", "./" or "(". It is enabled by default.
func WithXPath(enabled bool) Option {
	return func(q *Query) {
		q.xpath = enabled
	}
}

type storeKey struct{}

// documentStore returns the store of doc, creating it on first use. The
// store forgets the event map and data of every node removed through
// doc.Remove.
func documentStore(doc *dom.Document) *Store {
	return doc.Attach(storeKey{}, func() any {
		s := NewStore()
		doc.OnRemove(s.Forget)
		return s
	}).(*Store)
}

// New returns a Query bound to doc. All Queries of one document share its
// store, so handlers and data attached through one are seen by the others.
func New(doc *dom.Document, opts ...Option) *Query {
	q := &Query{
		doc:        doc,
		store:      documentStore(doc),
		log:        zap.NewNop(),
		literalTag: defaultLiteralTag,
		fragment:   defaultFragmentContext,
		xpath:      true,
	}
	for _, opt := range opts {
		opt(q)
	}
	q.log = q.log.Named("jq")
	return q
}

// Document returns the bound document.
func (q *Query) Document() *dom.Document {
	return q.doc
}

// Store returns the side table of the document holding event maps and data.
func (q *Query) Store() *Store {
	return q.store
}

// NodeList is implemented by ordered node sequences that Select spreads.
// *Collection implements it.
type NodeList interface {
	Len() int
	Item(i int) *html.Node
}

type inputKind int

const (
	inputNone inputKind = iota
	inputSelector
	inputNode
	inputList
)

// input is a constructor argument resolved to its kind once.
type input struct {
	kind     inputKind
	selector string
	nodes    []*html.Node
}

func classify(arg any) input {
	switch v := arg.(type) {
	case nil:
		return input{kind: inputNone}
	case string:
		return input{kind: inputSelector, selector: v}
	case *html.Node:
		if v == nil {
			return input{kind: inputNone}
		}
		return input{kind: inputNode, nodes: []*html.Node{v}}
	case []*html.Node:
		return input{kind: inputList, nodes: v}
	case []any:
		nodes := make([]*html.Node, 0, len(v))
		for _, item := range v {
			if n, ok := item.(*html.Node); ok {
				nodes = append(nodes, n)
			}
		}
		return input{kind: inputList, nodes: nodes}
	case *Collection:
		if v == nil {
			return input{kind: inputNone}
		}
		return input{kind: inputList, nodes: v.nodes}
	case NodeList:
		nodes := make([]*html.Node, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			nodes = append(nodes, v.Item(i))
		}
		return input{kind: inputList, nodes: nodes}
	}
	return input{kind: inputNone}
}

// Select builds a collection from a selector string, a node, a node list
// or a collection. Attributes, if given, are applied to every member.
func (q *Query) Select(arg any, attrs ...Attrs) *Collection {
	in := classify(arg)
	c := &Collection{q: q}
	nodes := in.nodes
	if in.kind == inputSelector {
		nodes, c.resolution = q.resolve(in.selector)
	}
	c.Push(nodes...)
	for _, a := range attrs {
		c.SetAttrs(a)
	}
	return c
}
