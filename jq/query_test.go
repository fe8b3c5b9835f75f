package jq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/net/html"

	"github.com/chrisuehlinger/jqalt/dom"
)

const page = `<!DOCTYPE html><html><body>
<div id="parent">
  <a id="c1" class="child">one</a>
  <a id="c2" class="child">two</a>
  <a id="c3" class="child">three</a>
</div>
<p id="para" style="width: 40px; height: 10px">text</p>
</body></html>`

func newQuery(t *testing.T, opts ...Option) *Query {
	t.Helper()
	doc, err := dom.Parse(page)
	require.NoError(t, err)
	return New(doc, append([]Option{WithLogger(zaptest.NewLogger(t))}, opts...)...)
}

func byID(q *Query, id string) *html.Node {
	return q.Document().GetElementByID(id)
}

func TestSelectNilCollection(t *testing.T) {
	q := newQuery(t)
	var c *Collection
	assert.Zero(t, q.Select(c).Len())
	assert.Equal(t, 3, q.Select(q.Select(".child")).Len())
}

func TestSelectDeduplicates(t *testing.T) {
	q := newQuery(t)
	c1, c2 := byID(q, "c1"), byID(q, "c2")

	c := q.Select([]*html.Node{c1, c2, c1, c2, c1})
	require.Equal(t, 2, c.Len())
	assert.Equal(t, []*html.Node{c1, c2}, c.Nodes())

	c = q.Select([]any{c1, "junk", c1, nil})
	assert.Equal(t, 1, c.Len())

	// collections are node lists
	assert.Equal(t, 3, q.Select(q.Select(".child").Push(c1)).Len())
}

func TestSelectFiltersNonElements(t *testing.T) {
	q := newQuery(t)
	text := byID(q, "c1").FirstChild

	c := q.Select([]*html.Node{text, byID(q, "c1"), nil})
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 0, q.Select(text).Len())
	assert.Equal(t, 1, q.Select(q.Document().Root()).Len())
}

func TestSelectGivesEventMaps(t *testing.T) {
	q := newQuery(t)
	c1 := byID(q, "c1")
	assert.False(t, q.Store().Has(c1))
	q.Select(c1)
	assert.True(t, q.Store().Has(c1))
}

func TestResolutionTiers(t *testing.T) {
	q := newQuery(t)

	c := q.Select("#parent .child")
	assert.Equal(t, ResolvedAsQuery, c.Resolution())
	assert.Equal(t, 3, c.Len())

	c = q.Select("//a[@class='child']")
	assert.Equal(t, ResolvedAsQuery, c.Resolution())
	assert.Equal(t, 3, c.Len())

	c = q.Select(`<b>new</b><i>x</i>`)
	assert.Equal(t, ResolvedAsFragment, c.Resolution())
	require.Equal(t, 2, c.Len())
	assert.Nil(t, c.First().Parent)

	c = q.Select("hello world!")
	assert.Equal(t, ResolvedAsLiteralText, c.Resolution())
	require.Equal(t, 1, c.Len())
	assert.Equal(t, "span", c.First().Data)
	assert.Equal(t, "hello world!", c.Text())

	c = q.Select("   ")
	assert.Equal(t, ResolvedNone, c.Resolution())
	assert.Equal(t, 0, c.Len())

	assert.Equal(t, ResolvedNone, q.Select(byID(q, "c1")).Resolution())
}

func TestResolutionValidSelectorWithoutMatches(t *testing.T) {
	q := newQuery(t)
	c := q.Select("table")
	assert.Equal(t, ResolvedAsQuery, c.Resolution())
	assert.Equal(t, 0, c.Len())
}

func TestResolutionOptions(t *testing.T) {
	q := newQuery(t, WithLiteralTag("em"), WithXPath(false), WithFragmentContext("ul"))

	c := q.Select("not a selector!")
	require.Equal(t, ResolvedAsLiteralText, c.Resolution())
	assert.Equal(t, "em", c.First().Data)

	// without XPath the expression is no selector and no markup
	c = q.Select("//a")
	assert.Equal(t, ResolvedAsLiteralText, c.Resolution())

	c = q.Select("<li>x</li>")
	require.Equal(t, ResolvedAsFragment, c.Resolution())
	assert.Equal(t, "li", c.First().Data)
}

func TestResolutionString(t *testing.T) {
	assert.Equal(t, "Query", ResolvedAsQuery.String())
	assert.Equal(t, "LiteralText", ResolvedAsLiteralText.String())
	assert.Equal(t, "Resolution(9)", Resolution(9).String())
}

func TestLooksLikeXPath(t *testing.T) {
	assert.True(t, looksLikeXPath("//div"))
	assert.True(t, looksLikeXPath(" (//a)[1]"))
	assert.True(t, looksLikeXPath("./p"))
	assert.False(t, looksLikeXPath("div > p"))
}
