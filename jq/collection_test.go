package jq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/chrisuehlinger/jqalt/dom"
)

func TestCollectionAccess(t *testing.T) {
	q := newQuery(t)
	c := q.Select(".child")

	assert.Equal(t, byID(q, "c1"), c.First())
	assert.Equal(t, byID(q, "c3"), c.Get(-1))
	assert.Nil(t, c.Item(3))
	assert.Nil(t, c.Get(-4))

	var ids []string
	c.Each(func(i int, n *html.Node) {
		id, _ := dom.GetAttribute(n, "id")
		ids = append(ids, id)
	})
	assert.Equal(t, []string{"c1", "c2", "c3"}, ids)

	seen := 0
	for i := range c.All() {
		seen++
		if i == 1 {
			break
		}
	}
	assert.Equal(t, 2, seen)
}

func TestEmptyCollectionIsNoOp(t *testing.T) {
	q := newQuery(t)
	c := q.Select("#missing")
	require.Equal(t, 0, c.Len())

	assert.NotPanics(t, func() {
		c.Append("<b>x</b>").Prepend("<b>y</b>").SetAttr("a", 1).SetWidth(3).Hide().
			AddClass("x").Remove().Bind("x", func(*Event, ...any) {}).Trigger("x").ReplaceData(nil)
	})
	assert.Nil(t, c.First())
	assert.Equal(t, "", c.HTML())
	assert.Equal(t, "", c.Text())
	assert.Equal(t, Offset{}, c.Offset())
	assert.Nil(t, c.DataAll())
	assert.False(t, c.Is(":visible"))
	assert.Equal(t, 0, c.Parent().Len())
	assert.Equal(t, 0, c.Children().Len())
}

func TestParentAndChildren(t *testing.T) {
	q := newQuery(t)

	parents := q.Select(".child").Parent()
	require.Equal(t, 1, parents.Len())
	assert.Equal(t, byID(q, "parent"), parents.First())

	children := q.Select("#parent").Children()
	assert.Equal(t, 3, children.Len())

	assert.Equal(t, 1, q.Select("#parent").Children("#c2").Len())
	assert.Equal(t, 0, q.Select("#parent").Children("[[").Len())

	// <html> has the document as parent, which is no element
	assert.Equal(t, 0, q.Select("html").Parent().Len())
}

func TestAppendMovesAllNodes(t *testing.T) {
	q := newQuery(t)
	target := q.Select("#para")

	target.Append("<b>1</b><i>2</i>")
	assert.Equal(t, "text<b>1</b><i>2</i>", target.HTML())

	target.Append(".child")
	assert.Equal(t, 3, target.Children("a").Len())
	assert.Equal(t, 0, q.Select("#parent").Children().Len())
}

func TestAppendTo(t *testing.T) {
	q := newQuery(t)

	q.Select("<em>a</em>").AppendTo("#parent")
	assert.Equal(t, 1, q.Select("#parent").Children("em").Len())

	q.Select("<em>b</em>").AppendTo(q.Select("#para"))
	assert.Equal(t, 1, q.Select("#para").Children("em").Len())

	q.Select("<em>c</em>").AppendTo(byID(q, "c1"))
	assert.Equal(t, "one<em>c</em>", q.Select("#c1").HTML())
}

func TestPrepend(t *testing.T) {
	q := newQuery(t)
	q.Select("#parent").Prepend("<hr><br>")

	children := q.Select("#parent").Children()
	require.Equal(t, 5, children.Len())
	assert.Equal(t, "hr", children.Item(0).Data)
	assert.Equal(t, "br", children.Item(1).Data)
}

func TestIs(t *testing.T) {
	q := newQuery(t)
	c := q.Select(".child")

	assert.True(t, c.Is("a"))
	assert.True(t, c.Is("#c3"))
	assert.False(t, c.Is("p"))
	assert.True(t, c.Is("[[not a selector"))

	// no inline size means no box
	assert.True(t, c.Is(":hidden"))
}

func TestOffset(t *testing.T) {
	q := newQuery(t)
	q.Select("body").SetCSS(map[string]any{"left": 8, "top": 8})
	q.Select("#parent").SetCSS(map[string]any{"left": 10, "top": 20})
	q.Select("#c1").SetCSS(map[string]any{"left": 1, "top": 2})

	assert.Equal(t, Offset{Top: 22, Left: 11}, q.Select("#c1").Offset())
}

func TestHTMLAndText(t *testing.T) {
	q := newQuery(t)
	assert.Equal(t, "one", q.Select("#c1").HTML())
	assert.Equal(t, "text", q.Select("#para").Text())
}
