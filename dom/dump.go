package dom

import (
	"fmt"
	"strings"

	"github.com/xlab/treeprint"
	"golang.org/x/net/html"
)

// Dump returns an indented outline of n and its descendants. Whitespace-only
// text nodes are skipped, other text is shortened.
func Dump(n *html.Node) string {
	if n == nil {
		return ""
	}
	tree := treeprint.NewWithRoot(label(n))
	dumpChildren(tree, n)
	return tree.String()
}

func dumpChildren(branch treeprint.Tree, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode && strings.TrimSpace(c.Data) == "" {
			continue
		}
		if c.FirstChild == nil {
			branch.AddNode(label(c))
			continue
		}
		dumpChildren(branch.AddBranch(label(c)), c)
	}
}

func label(n *html.Node) string {
	switch n.Type {
	case html.DocumentNode:
		return "#document"
	case html.TextNode:
		return fmt.Sprintf("#text %q", shorten(strings.TrimSpace(n.Data), 32))
	case html.CommentNode:
		return "#comment"
	case html.DoctypeNode:
		return "<!DOCTYPE " + n.Data + ">"
	case html.ElementNode:
		var sb strings.Builder
		sb.WriteString(n.Data)
		if id, ok := GetAttribute(n, "id"); ok {
			sb.WriteString("#" + id)
		}
		for _, c := range Classes(n).Tokens() {
			sb.WriteString("." + c)
		}
		return sb.String()
	}
	return "?"
}

func shorten(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}
