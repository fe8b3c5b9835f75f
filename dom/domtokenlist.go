package dom

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/net/html"
)

func validateToken(token string) error {
	if token == "" {
		return ErrSyntax("the token provided must not be empty")
	}
	if strings.ContainsAny(token, " \t\n\r\f") {
		return ErrInvalidCharacter(fmt.Sprintf("the token provided (%q) contains HTML space characters, which are not valid in tokens", token))
	}
	return nil
}

// ClassList is the set of space separated tokens of an element's class
// attribute.
type ClassList struct {
	element *html.Node
}

// Classes returns the class list of n.
func Classes(n *html.Node) *ClassList {
	return &ClassList{element: n}
}

// Tokens returns the current tokens, deduplicated, in attribute order.
func (cl *ClassList) Tokens() []string {
	value, _ := GetAttribute(cl.element, "class")
	seen := make(map[string]bool)
	var out []string
	for _, t := range strings.Fields(value) {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// Len returns the number of distinct tokens.
func (cl *ClassList) Len() int {
	return len(cl.Tokens())
}

// Contains reports whether token is present.
func (cl *ClassList) Contains(token string) bool {
	return slices.Contains(cl.Tokens(), token)
}

// Add adds tokens that are not present yet. Nothing changes if any token
// is invalid.
func (cl *ClassList) Add(tokens ...string) error {
	for _, t := range tokens {
		if err := validateToken(t); err != nil {
			return err
		}
	}
	current := cl.Tokens()
	for _, t := range tokens {
		if !slices.Contains(current, t) {
			current = append(current, t)
		}
	}
	cl.set(current)
	return nil
}

// Remove removes tokens. Nothing changes if any token is invalid.
func (cl *ClassList) Remove(tokens ...string) error {
	for _, t := range tokens {
		if err := validateToken(t); err != nil {
			return err
		}
	}
	if !HasAttribute(cl.element, "class") {
		return nil
	}
	current := slices.DeleteFunc(cl.Tokens(), func(t string) bool {
		return slices.Contains(tokens, t)
	})
	cl.set(current)
	return nil
}

// Toggle removes token if present and adds it otherwise. It reports
// whether the token is present afterwards.
func (cl *ClassList) Toggle(token string) (bool, error) {
	if err := validateToken(token); err != nil {
		return false, err
	}
	if cl.Contains(token) {
		return false, cl.Remove(token)
	}
	return true, cl.Add(token)
}

// Value returns the serialized token set.
func (cl *ClassList) Value() string {
	return strings.Join(cl.Tokens(), " ")
}

func (cl *ClassList) set(tokens []string) {
	if cl.element == nil || cl.element.Type != html.ElementNode {
		return
	}
	SetAttribute(cl.element, "class", strings.Join(tokens, " "))
}
