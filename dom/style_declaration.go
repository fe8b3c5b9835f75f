package dom

import (
	"strings"

	"github.com/aymerick/douceur/parser"
	"golang.org/x/net/html"
)

// StyleDeclaration is the inline style of an element. It is a view over the
// element's style attribute: every read re-parses it and every write
// serializes back, so attribute and declaration can never drift apart.
type StyleDeclaration struct {
	element *html.Node

	// property name -> declaration
	declarations map[string]*styleProperty

	// order in which properties were set, for serialization
	propertyOrder []string
}

type styleProperty struct {
	value     string
	important bool
}

// Style returns the inline style declaration of n.
func Style(n *html.Node) *StyleDeclaration {
	sd := &StyleDeclaration{
		element:      n,
		declarations: make(map[string]*styleProperty),
	}
	if v, ok := GetAttribute(n, "style"); ok {
		sd.parse(v)
	}
	return sd
}

// CSSText returns the textual representation of the declaration block.
func (sd *StyleDeclaration) CSSText() string {
	parts := make([]string, 0, len(sd.propertyOrder))
	for _, prop := range sd.propertyOrder {
		sp, ok := sd.declarations[prop]
		if !ok {
			continue
		}
		part := prop + ": " + sp.value
		if sp.important {
			part += " !important"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, "; ")
}

// Length returns the number of properties set.
func (sd *StyleDeclaration) Length() int {
	return len(sd.declarations)
}

// PropertyNames returns all property names in declaration order.
func (sd *StyleDeclaration) PropertyNames() []string {
	return append([]string(nil), sd.propertyOrder...)
}

// GetPropertyValue returns the value of a property. Both kebab-case and
// camelCase names are accepted.
func (sd *StyleDeclaration) GetPropertyValue(property string) string {
	if sp, ok := sd.declarations[normalizePropertyName(property)]; ok {
		return sp.value
	}
	return ""
}

// IsImportant reports whether a property carries !important.
func (sd *StyleDeclaration) IsImportant(property string) bool {
	sp, ok := sd.declarations[normalizePropertyName(property)]
	return ok && sp.important
}

// SetProperty sets a property. An empty value removes it.
func (sd *StyleDeclaration) SetProperty(property, value string) {
	property = normalizePropertyName(property)
	if property == "" {
		return
	}
	value = strings.TrimSpace(value)
	if value == "" {
		sd.RemoveProperty(property)
		return
	}
	important := false
	if v, ok := strings.CutSuffix(value, "!important"); ok {
		value, important = strings.TrimSpace(v), true
	}
	if _, exists := sd.declarations[property]; !exists {
		sd.propertyOrder = append(sd.propertyOrder, property)
	}
	sd.declarations[property] = &styleProperty{value: value, important: important}
	sd.sync()
}

// RemoveProperty removes a property and returns its old value.
func (sd *StyleDeclaration) RemoveProperty(property string) string {
	property = normalizePropertyName(property)
	sp, ok := sd.declarations[property]
	if !ok {
		return ""
	}
	delete(sd.declarations, property)
	for i, p := range sd.propertyOrder {
		if p == property {
			sd.propertyOrder = append(sd.propertyOrder[:i], sd.propertyOrder[i+1:]...)
			break
		}
	}
	sd.sync()
	return sp.value
}

func (sd *StyleDeclaration) parse(text string) {
	decls, err := parser.ParseDeclarations(text)
	if err != nil {
		// unparseable inline styles are ignored, as browsers do
		return
	}
	for _, d := range decls {
		property := normalizePropertyName(strings.TrimSpace(d.Property))
		value := strings.TrimSpace(d.Value)
		if property == "" || value == "" {
			continue
		}
		if _, exists := sd.declarations[property]; !exists {
			sd.propertyOrder = append(sd.propertyOrder, property)
		}
		sd.declarations[property] = &styleProperty{value: value, important: d.Important}
	}
}

func (sd *StyleDeclaration) sync() {
	if sd.element == nil || sd.element.Type != html.ElementNode {
		return
	}
	if text := sd.CSSText(); text == "" {
		RemoveAttribute(sd.element, "style")
	} else {
		SetAttribute(sd.element, "style", text)
	}
}

// normalizePropertyName converts camelCase to kebab-case and lowercases.
// "backgroundColor" -> "background-color", "WebkitTransform" -> "-webkit-transform"
func normalizePropertyName(name string) string {
	if name == "" || strings.Contains(name, "-") {
		return strings.ToLower(name)
	}
	var sb strings.Builder
	for _, r := range name {
		if r >= 'A' && r <= 'Z' {
			sb.WriteByte('-')
			sb.WriteRune(r - 'A' + 'a')
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
