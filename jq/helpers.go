package jq

import (
	"slices"

	"golang.org/x/net/html"

	"github.com/chrisuehlinger/jqalt/dom"
	jqhtml "github.com/chrisuehlinger/jqalt/html"
)

// Extend deep-merges sources into target and returns target. Nested
// map[string]any values are merged key by key, replacing non-map values in
// target; any other value, nil included, overwrites. Nil sources are
// skipped; a nil target is returned as is.
func Extend(target map[string]any, sources ...map[string]any) map[string]any {
	if target == nil {
		return nil
	}
	for _, src := range sources {
		for key, value := range src {
			nested, ok := value.(map[string]any)
			if !ok || nested == nil {
				target[key] = value
				continue
			}
			dst, ok := target[key].(map[string]any)
			if !ok || dst == nil {
				dst = make(map[string]any)
				target[key] = dst
			}
			Extend(dst, nested)
		}
	}
	return target
}

// ParseHTML parses markup as the content of a <div> and returns the
// resulting elements, detached.
func ParseHTML(markup string) ([]*html.Node, error) {
	return parseFragment(markup, defaultFragmentContext)
}

func parseFragment(markup, tag string) ([]*html.Node, error) {
	nodes, err := dom.ParseFragment(markup, tag)
	if err != nil {
		return nil, err
	}
	return jqhtml.Elements(nodes), nil
}

// InArray returns the index of value in list, or -1.
func InArray[T comparable](value T, list []T) int {
	return slices.Index(list, value)
}

// Proxy binds ctx as the first argument of fn, turning it into a Handler.
func Proxy[C any](fn func(ctx C, e *Event, args ...any), ctx C) Handler {
	return func(e *Event, args ...any) {
		fn(ctx, e, args...)
	}
}
