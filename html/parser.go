// Package html provides HTML parsing functionality using golang.org/x/net/html
// as the underlying parser implementation.
package html

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse parses HTML from a string and returns the document node.
func Parse(content string) (*html.Node, error) {
	return ParseReader(strings.NewReader(content))
}

// ParseReader parses HTML from an io.Reader and returns the document node.
func ParseReader(r io.Reader) (*html.Node, error) {
	return html.Parse(r)
}

// ParseFragment parses an HTML fragment in the context of a parent element.
// A nil context parses as if inside <body>. The returned nodes are detached.
func ParseFragment(fragment string, context *html.Node) ([]*html.Node, error) {
	return ParseFragmentReader(strings.NewReader(fragment), context)
}

// ParseFragmentReader parses an HTML fragment from a reader.
func ParseFragmentReader(r io.Reader, context *html.Node) ([]*html.Node, error) {
	// the parser only reads the context's name; a copy keeps a live
	// context node out of its reach
	ctx := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	if context != nil && context.Type == html.ElementNode {
		ctx = &html.Node{
			Type:      html.ElementNode,
			DataAtom:  context.DataAtom,
			Data:      context.Data,
			Namespace: context.Namespace,
		}
	}
	nodes, err := html.ParseFragment(r, ctx)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
	return nodes, nil
}

// Elements filters nodes down to element nodes, the way an element's
// children collection hides text and comments.
func Elements(nodes []*html.Node) []*html.Node {
	var out []*html.Node
	for _, n := range nodes {
		if n.Type == html.ElementNode {
			out = append(out, n)
		}
	}
	return out
}
