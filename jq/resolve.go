package jq

import (
	"errors"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/chrisuehlinger/jqalt/dom"
)

// Resolution tells how a selector string was turned into members.
type Resolution int

const (
	// ResolvedNone: the collection was not built from a string, or the
	// string was empty.
	ResolvedNone Resolution = iota
	// ResolvedAsQuery: the string was a valid CSS selector or XPath
	// expression and was evaluated against the document.
	ResolvedAsQuery
	// ResolvedAsFragment: the string parsed as markup into one or more
	// elements.
	ResolvedAsFragment
	// ResolvedAsLiteralText: the string became the text of a new element.
	ResolvedAsLiteralText
)

var resolutionNames = [...]string{"None", "Query", "Fragment", "LiteralText"}

func (r Resolution) String() string {
	if r < 0 || int(r) >= len(resolutionNames) {
		return "Resolution(" + strconv.Itoa(int(r)) + ")"
	}
	return resolutionNames[r]
}

var errNoElements = errors.New("markup produced no elements")

// resolver is one attempt at interpreting a string. An error passes the
// string on to the next resolver.
type resolver struct {
	result  Resolution
	resolve func(q *Query, s string) ([]*html.Node, error)
}

// resolvers are tried in order; the literal text resolver never fails.
var resolvers = []resolver{
	{ResolvedAsQuery, (*Query).resolveQuery},
	{ResolvedAsFragment, (*Query).resolveFragment},
	{ResolvedAsLiteralText, (*Query).resolveLiteral},
}

func (q *Query) resolve(s string) ([]*html.Node, Resolution) {
	if strings.TrimSpace(s) == "" {
		return nil, ResolvedNone
	}
	for _, r := range resolvers {
		nodes, err := r.resolve(q, s)
		if err == nil {
			return nodes, r.result
		}
		q.log.Debug("Selector fallback", zap.String("input", s), zap.Stringer("attempt", r.result), zap.Error(err))
	}
	return nil, ResolvedNone
}

func (q *Query) resolveQuery(s string) ([]*html.Node, error) {
	if q.xpath && looksLikeXPath(s) {
		return q.doc.QueryXPath(s)
	}
	return q.doc.QuerySelectorAll(s)
}

func (q *Query) resolveFragment(s string) ([]*html.Node, error) {
	nodes, err := parseFragment(s, q.fragment)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, errNoElements
	}
	return nodes, nil
}

func (q *Query) resolveLiteral(s string) ([]*html.Node, error) {
	el := q.doc.CreateElement(q.literalTag)
	dom.SetTextContent(el, s)
	return []*html.Node{el}, nil
}

func looksLikeXPath(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "/") || strings.HasPrefix(s, "(") || strings.HasPrefix(s, "./")
}
