package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// IsElement reports whether n can be a collection member: an element or
// the document node itself.
func IsElement(n *html.Node) bool {
	return n != nil && (n.Type == html.ElementNode || n.Type == html.DocumentNode)
}

// ParentNode returns the parent of n, or nil for a detached node or the
// document node.
func ParentNode(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	return n.Parent
}

// ParentElement returns the parent of n if it is an element.
func ParentElement(n *html.Node) *html.Node {
	p := ParentNode(n)
	if p == nil || p.Type != html.ElementNode {
		return nil
	}
	return p
}

// Children returns the element children of n.
func Children(n *html.Node) []*html.Node {
	if n == nil {
		return nil
	}
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// Detach removes n from its parent, if any. Unlike Document.Remove no
// observers are notified, so this is the primitive used for moves.
func Detach(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// AppendChild moves child to the end of parent's children.
func AppendChild(parent, child *html.Node) error {
	if err := checkInsertion(parent, child); err != nil {
		return err
	}
	Detach(child)
	parent.AppendChild(child)
	return nil
}

// Prepend inserts nodes before the first child of parent, keeping their order.
func Prepend(parent *html.Node, nodes ...*html.Node) error {
	ref := parent.FirstChild
	for _, child := range nodes {
		if err := checkInsertion(parent, child); err != nil {
			return err
		}
		if child == ref {
			ref = ref.NextSibling
			continue
		}
		Detach(child)
		if ref == nil {
			parent.AppendChild(child)
		} else {
			parent.InsertBefore(child, ref)
		}
	}
	return nil
}

func checkInsertion(parent, child *html.Node) error {
	if parent == nil || child == nil {
		return ErrHierarchyRequest("missing parent or child")
	}
	if !IsElement(parent) {
		return ErrNotElement
	}
	if child.Type == html.DocumentNode {
		return ErrHierarchyRequest("a document cannot be inserted")
	}
	for p := parent; p != nil; p = p.Parent {
		if p == child {
			return ErrHierarchyRequest("the new child is an ancestor of the parent")
		}
	}
	return nil
}

// GetAttribute returns the value of attribute key and whether it is present.
func GetAttribute(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	key = strings.ToLower(key)
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// HasAttribute reports whether n carries attribute key.
func HasAttribute(n *html.Node, key string) bool {
	_, ok := GetAttribute(n, key)
	return ok
}

// SetAttribute sets attribute key, creating it if needed. Attribute names
// are not validated.
func SetAttribute(n *html.Node, key, value string) {
	if n == nil || n.Type != html.ElementNode {
		return
	}
	key = strings.ToLower(key)
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: value})
}

// RemoveAttribute removes attribute key.
func RemoveAttribute(n *html.Node, key string) {
	if n == nil {
		return
	}
	key = strings.ToLower(key)
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

// TextContent returns the concatenated text of n and its descendants.
func TextContent(n *html.Node) string {
	var sb strings.Builder
	walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
		return true
	})
	return sb.String()
}

// SetTextContent replaces the children of n with a single text node.
func SetTextContent(n *html.Node, text string) {
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
	}
	if text != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
}

// InnerHTML renders the children of n.
func InnerHTML(n *html.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&sb, c); err != nil {
			return sb.String()
		}
	}
	return sb.String()
}

// OuterHTML renders n itself.
func OuterHTML(n *html.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	if err := html.Render(&sb, n); err != nil {
		return ""
	}
	return sb.String()
}
