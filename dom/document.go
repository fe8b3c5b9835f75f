// Package dom provides the host document the collection layer binds against.
//
// The tree itself is golang.org/x/net/html. This package adds the capabilities a
// browser document exposes on top of it: selector and XPath queries, inline style,
// class lists, a simple geometry model, native event targets and removal
// notifications for side tables keyed by node identity.
package dom

import (
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	jqhtml "github.com/chrisuehlinger/jqalt/html"
)

// RemoveFunc is notified for every node detached through Document.Remove,
// the removed node first, then its descendants in document order.
type RemoveFunc func(n *html.Node)

// Document wraps a parsed HTML tree.
type Document struct {
	root *html.Node

	// native event listeners, keyed by node identity
	targets map[*html.Node]*eventTarget
	mu      sync.RWMutex

	removeObservers []*removeObserver
	extraNative     map[string]bool

	// per-document values of other packages, see Attach
	attachMu sync.Mutex
	attached map[any]any
}

type removeObserver struct {
	fn RemoveFunc
}

// NewDocument creates an empty document with html, head and body elements.
func NewDocument() *Document {
	doc, err := Parse("")
	if err != nil {
		// parsing an empty string cannot fail
		panic(err)
	}
	return doc
}

// Parse parses a complete HTML document.
func Parse(content string) (*Document, error) {
	return ParseReader(strings.NewReader(content))
}

// ParseReader parses a complete HTML document from r.
func ParseReader(r io.Reader) (*Document, error) {
	root, err := jqhtml.ParseReader(r)
	if err != nil {
		return nil, err
	}
	return Wrap(root), nil
}

// Wrap creates a Document over an existing tree. root should be the
// html.DocumentNode returned by html.Parse.
func Wrap(root *html.Node) *Document {
	return &Document{
		root:    root,
		targets: make(map[*html.Node]*eventTarget),
	}
}

// Root returns the document node.
func (d *Document) Root() *html.Node {
	return d.root
}

// DocumentElement returns the <html> element.
func (d *Document) DocumentElement() *html.Node {
	for c := d.root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return c
		}
	}
	return nil
}

// Body returns the <body> element, or nil if the document has none.
func (d *Document) Body() *html.Node {
	return findElement(d.root, atom.Body)
}

// Head returns the <head> element, or nil if the document has none.
func (d *Document) Head() *html.Node {
	return findElement(d.root, atom.Head)
}

// QuerySelectorAll returns all elements matching a CSS selector, in
// document order. An error means the selector did not compile.
func (d *Document) QuerySelectorAll(selector string) ([]*html.Node, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, err
	}
	return sel.MatchAll(d.root), nil
}

// QuerySelector returns the first element matching a CSS selector.
func (d *Document) QuerySelector(selector string) (*html.Node, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, err
	}
	return sel.MatchFirst(d.root), nil
}

// QueryXPath evaluates an XPath expression against the document. Only
// element nodes are returned.
func (d *Document) QueryXPath(expr string) ([]*html.Node, error) {
	nodes, err := htmlquery.QueryAll(d.root, expr)
	if err != nil {
		return nil, err
	}
	out := nodes[:0]
	for _, n := range nodes {
		if IsElement(n) {
			out = append(out, n)
		}
	}
	return out, nil
}

// GetElementByID returns the first element with the given id attribute.
func (d *Document) GetElementByID(id string) *html.Node {
	var found *html.Node
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode {
			if v, ok := GetAttribute(n, "id"); ok && v == id {
				found = n
				return false
			}
		}
		return true
	})
	return found
}

// CreateElement creates a detached element.
func (d *Document) CreateElement(tag string) *html.Node {
	tag = strings.ToLower(tag)
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
}

// ParseFragment parses markup in the context of a contextTag element, the
// way assigning innerHTML does, and returns the resulting top-level nodes,
// detached.
func ParseFragment(markup, contextTag string) ([]*html.Node, error) {
	tag := strings.ToLower(contextTag)
	ctx := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	return jqhtml.ParseFragment(markup, ctx)
}

// OnRemove registers fn to be called for nodes removed through Remove. The
// returned func unregisters it.
func (d *Document) OnRemove(fn RemoveFunc) (cancel func()) {
	obs := &removeObserver{fn: fn}
	d.mu.Lock()
	d.removeObservers = append(d.removeObservers, obs)
	d.mu.Unlock()
	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.removeObservers = slices.DeleteFunc(d.removeObservers, func(o *removeObserver) bool {
			return o == obs
		})
	}
}

// Attach returns the value stored under key, calling create to make it on
// first use. It lets packages layered on top of the document keep exactly
// one value per document, such as a side table keyed by node identity.
func (d *Document) Attach(key any, create func() any) any {
	d.attachMu.Lock()
	defer d.attachMu.Unlock()
	if v, ok := d.attached[key]; ok {
		return v
	}
	if d.attached == nil {
		d.attached = make(map[any]any)
	}
	v := create()
	d.attached[key] = v
	return v
}

// Remove detaches n from its parent. Native listeners of n and its
// descendants are dropped and removal observers are notified.
func (d *Document) Remove(n *html.Node) {
	if n == nil {
		return
	}
	Detach(n)

	d.mu.Lock()
	observers := slices.Clone(d.removeObservers)
	walk(n, func(c *html.Node) bool {
		delete(d.targets, c)
		return true
	})
	d.mu.Unlock()

	walk(n, func(c *html.Node) bool {
		for _, o := range observers {
			o.fn(c)
		}
		return true
	})
}

// Render writes the whole document as HTML.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// String renders the whole document.
func (d *Document) String() string {
	var sb strings.Builder
	if err := d.Render(&sb); err != nil {
		return ""
	}
	return sb.String()
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	var found *html.Node
	walk(n, func(c *html.Node) bool {
		if c.Type == html.ElementNode && c.DataAtom == a {
			found = c
			return false
		}
		return true
	})
	return found
}

// walk visits n and its descendants in document order until fn returns false.
func walk(n *html.Node, fn func(*html.Node) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}
