package dom

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// Rect is a rectangle in document coordinates.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Top returns the top edge (y for positive height, y + height for negative).
func (r Rect) Top() float64 {
	if r.Height < 0 {
		return r.Y + r.Height
	}
	return r.Y
}

// Left returns the left edge (x for positive width, x + width for negative).
func (r Rect) Left() float64 {
	if r.Width < 0 {
		return r.X + r.Width
	}
	return r.X
}

// Right returns the right edge.
func (r Rect) Right() float64 {
	if r.Width < 0 {
		return r.X
	}
	return r.X + r.Width
}

// Bottom returns the bottom edge.
func (r Rect) Bottom() float64 {
	if r.Height < 0 {
		return r.Y
	}
	return r.Y + r.Height
}

// There is no layout engine: boxes come from inline styles alone. An element is offset by
// the left/top of itself and every ancestor, sized by its own width/height,
// and collapses to an empty box when it or an ancestor has display:none.

// ComputedStyle resolves a property for n: the inline value when set,
// the initial value for a handful of properties otherwise.
func ComputedStyle(n *html.Node, property string) string {
	property = normalizePropertyName(property)
	if v := Style(n).GetPropertyValue(property); v != "" {
		return v
	}
	switch property {
	case "display":
		if n != nil && n.Type == html.ElementNode && isInline(n.Data) {
			return "inline"
		}
		return "block"
	case "width", "height", "left", "top":
		return "auto"
	}
	return ""
}

// IsRendered reports whether neither n nor an ancestor has display:none.
func IsRendered(n *html.Node) bool {
	for c := n; c != nil; c = c.Parent {
		if c.Type != html.ElementNode {
			continue
		}
		if v := Style(c).GetPropertyValue("display"); strings.EqualFold(v, "none") {
			return false
		}
	}
	return n != nil
}

// BoundingClientRect returns the box of n.
func BoundingClientRect(n *html.Node) Rect {
	if n == nil || !IsRendered(n) {
		return Rect{}
	}
	r := Rect{
		Width:  pixels(Style(n).GetPropertyValue("width")),
		Height: pixels(Style(n).GetPropertyValue("height")),
	}
	for c := n; c != nil; c = c.Parent {
		if c.Type != html.ElementNode {
			continue
		}
		sd := Style(c)
		r.X += pixels(sd.GetPropertyValue("left"))
		r.Y += pixels(sd.GetPropertyValue("top"))
	}
	return r
}

// ClientWidth returns the rendered width of n, 0 when not rendered.
func ClientWidth(n *html.Node) float64 {
	return BoundingClientRect(n).Width
}

// ClientHeight returns the rendered height of n, 0 when not rendered.
func ClientHeight(n *html.Node) float64 {
	return BoundingClientRect(n).Height
}

var leadingNumber = regexp.MustCompile(`^\s*[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?`)

// Pixels reads the leading number of a CSS length such as "12px" or "12",
// ignoring the unit. It reports false when v does not start with a number.
func Pixels(v string) (float64, bool) {
	m := leadingNumber.FindString(v)
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(m), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// pixels is Pixels with unknown lengths read as 0.
func pixels(v string) float64 {
	f, _ := Pixels(v)
	return f
}

var inlineElements = map[string]bool{
	"a": true, "abbr": true, "b": true, "bdi": true, "bdo": true, "br": true,
	"cite": true, "code": true, "em": true, "i": true, "img": true, "kbd": true,
	"label": true, "mark": true, "q": true, "s": true, "small": true, "span": true,
	"strong": true, "sub": true, "sup": true, "time": true, "u": true, "var": true,
}

func isInline(tag string) bool {
	return inlineElements[tag]
}
