package jq

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/chrisuehlinger/jqalt/dom"
)

// Attrs configures members: every key becomes an attribute, except "css"
// whose value (a map of property names to values) is applied as inline
// style.
type Attrs map[string]any

const cssKey = "css"

// pxProperties get a px unit appended to numeric values.
var pxProperties = []string{"width", "height", "left", "top"}

// SetAttrs applies attrs to every member. Keys are applied in sorted order.
// Names and values are not validated.
func (c *Collection) SetAttrs(attrs Attrs) *Collection {
	keys := slices.Sorted(maps.Keys(attrs))
	for _, n := range c.nodes {
		for _, key := range keys {
			if key == cssKey {
				applyStyles(n, attrs[key])
				continue
			}
			dom.SetAttribute(n, key, formatValue(attrs[key]))
		}
	}
	return c
}

// SetAttr sets a single attribute on every member.
func (c *Collection) SetAttr(name string, value any) *Collection {
	return c.SetAttrs(Attrs{name: value})
}

// Attr returns an attribute of the first member.
func (c *Collection) Attr(name string) (string, bool) {
	return dom.GetAttribute(c.First(), name)
}

// RemoveAttr removes an attribute from every member.
func (c *Collection) RemoveAttr(name string) *Collection {
	for _, n := range c.nodes {
		dom.RemoveAttribute(n, name)
	}
	return c
}

func applyStyles(n *html.Node, styles any) {
	var m map[string]any
	switch v := styles.(type) {
	case map[string]any:
		m = v
	case Attrs:
		m = v
	case map[string]string:
		m = make(map[string]any, len(v))
		for k, s := range v {
			m[k] = s
		}
	default:
		return
	}
	sd := dom.Style(n)
	for _, name := range slices.Sorted(maps.Keys(m)) {
		if slices.Contains(pxProperties, name) {
			sd.SetProperty(name, IntToPx(m[name]))
		} else {
			sd.SetProperty(name, formatValue(m[name]))
		}
	}
}

// SetCSS applies inline styles to every member.
func (c *Collection) SetCSS(styles map[string]any) *Collection {
	return c.SetAttrs(Attrs{cssKey: styles})
}

// CSS returns an inline style property of the first member.
func (c *Collection) CSS(name string) string {
	first := c.First()
	if first == nil {
		return ""
	}
	return dom.Style(first).GetPropertyValue(name)
}

// Width returns the width of the first member in pixels, 0 when unknown.
func (c *Collection) Width() float64 {
	return c.dimension("width")
}

// SetWidth sets the width of every member. Numbers are taken as pixels.
func (c *Collection) SetWidth(v any) *Collection {
	return c.setStyle("width", IntToPx(v))
}

// Height returns the height of the first member in pixels, 0 when unknown.
func (c *Collection) Height() float64 {
	return c.dimension("height")
}

// SetHeight sets the height of every member. Numbers are taken as pixels.
func (c *Collection) SetHeight(v any) *Collection {
	return c.setStyle("height", IntToPx(v))
}

// Hide sets display:none on every member.
func (c *Collection) Hide() *Collection {
	return c.SetCSS(map[string]any{"display": "none"})
}

// Show sets display:block on every member.
func (c *Collection) Show() *Collection {
	return c.SetCSS(map[string]any{"display": "block"})
}

func (c *Collection) setStyle(name, value string) *Collection {
	for _, n := range c.nodes {
		dom.Style(n).SetProperty(name, value)
	}
	return c
}

func (c *Collection) dimension(name string) float64 {
	first := c.First()
	if first == nil {
		return 0
	}
	v, ok := dom.Pixels(dom.ComputedStyle(first, name))
	if !ok {
		return 0
	}
	return v
}

// AddClass adds the space separated class names to every member.
func (c *Collection) AddClass(className string) *Collection {
	tokens := splitClasses(className)
	if len(tokens) == 0 {
		return c
	}
	for _, n := range c.nodes {
		if err := dom.Classes(n).Add(tokens...); err != nil {
			c.q.log.Debug("AddClass failed", zap.String("class", className), zap.Error(err))
		}
	}
	return c
}

// RemoveClass removes the space separated class names from every member.
func (c *Collection) RemoveClass(className string) *Collection {
	tokens := splitClasses(className)
	if len(tokens) == 0 {
		return c
	}
	for _, n := range c.nodes {
		if err := dom.Classes(n).Remove(tokens...); err != nil {
			c.q.log.Debug("RemoveClass failed", zap.String("class", className), zap.Error(err))
		}
	}
	return c
}

// HasClass reports whether the first member has the class.
func (c *Collection) HasClass(className string) bool {
	first := c.First()
	return first != nil && dom.Classes(first).Contains(className)
}

func splitClasses(s string) []string {
	var out []string
	for _, t := range strings.Split(s, " ") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// IntToPx appends "px" to numbers; other values are formatted as is.
func IntToPx(v any) string {
	if f, ok := toFloat(v); ok && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'f', -1, 64) + "px"
	}
	return formatValue(v)
}

// PxToInt parses a value with a "px" suffix into its number.
func PxToInt(v string) (float64, bool) {
	if !strings.HasSuffix(v, "px") {
		return 0, false
	}
	return dom.Pixels(v)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func formatValue(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	}
	if f, ok := toFloat(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}
