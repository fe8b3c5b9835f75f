package html

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func TestParse_BasicDocument(t *testing.T) {
	doc, err := Parse(`<!DOCTYPE html><html><head><title>Test</title></head><body><p>Hello</p></body></html>`)
	require.NoError(t, err)
	assert.Equal(t, html.DocumentNode, doc.Type)

	var htmlNode *html.Node
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Html {
			htmlNode = c
		}
	}
	require.NotNil(t, htmlNode)
	assert.Equal(t, atom.Head, htmlNode.FirstChild.DataAtom)
	assert.Equal(t, atom.Body, htmlNode.LastChild.DataAtom)
}

func TestParseReader(t *testing.T) {
	doc, err := ParseReader(strings.NewReader(`<p>x</p>`))
	require.NoError(t, err)
	assert.NotNil(t, doc.FirstChild)
}

func TestParseFragment_DetachedNodes(t *testing.T) {
	nodes, err := ParseFragment(`<li>a</li><li>b</li>`, &html.Node{Type: html.ElementNode, DataAtom: atom.Ul, Data: "ul"})
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	for _, n := range nodes {
		assert.Nil(t, n.Parent)
		assert.Equal(t, atom.Li, n.DataAtom)
	}
}

func TestParseFragment_DefaultContext(t *testing.T) {
	nodes, err := ParseFragment(`text <b>bold</b>`, nil)
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, html.TextNode, nodes[0].Type)

	elements := Elements(nodes)
	require.Len(t, elements, 1)
	assert.Equal(t, "b", elements[0].Data)
}

func TestParseFragment_ContextIsNotModified(t *testing.T) {
	ctx := &html.Node{Type: html.ElementNode, DataAtom: atom.Div, Data: "div"}
	_, err := ParseFragment(`<span>x</span>`, ctx)
	require.NoError(t, err)
	assert.Nil(t, ctx.FirstChild)
}

func TestElements_NoElements(t *testing.T) {
	nodes, err := ParseFragment(`just text`, nil)
	require.NoError(t, err)
	assert.Empty(t, Elements(nodes))
}
