package jq

// DataAll returns the data map of the first member, attaching an empty one
// if it has none. It returns nil for an empty collection.
func (c *Collection) DataAll() map[string]any {
	first := c.First()
	if first == nil {
		return nil
	}
	return c.q.store.Data(first, true)
}

// Data returns one value of the first member's data.
func (c *Collection) Data(key string) (any, bool) {
	data := c.DataAll()
	if data == nil {
		return nil, false
	}
	v, ok := data[key]
	return v, ok
}

// SetData stores value under key in the first member's data map and makes
// that map the data of every member.
func (c *Collection) SetData(key string, value any) *Collection {
	data := c.DataAll()
	if data == nil {
		return c
	}
	data[key] = value
	return c.ReplaceData(data)
}

// ReplaceData makes data the data map of every member.
func (c *Collection) ReplaceData(data map[string]any) *Collection {
	for _, n := range c.nodes {
		c.q.store.SetData(n, data)
	}
	return c
}

// RemoveData deletes a value from the first member's data. A single key
// names a top level entry; a longer path walks nested maps and deletes the
// last key from the innermost one.
func (c *Collection) RemoveData(path ...string) *Collection {
	if len(path) == 0 {
		return c
	}
	data := c.DataAll()
	for _, key := range path[:len(path)-1] {
		next, ok := data[key].(map[string]any)
		if !ok {
			return c
		}
		data = next
	}
	delete(data, path[len(path)-1])
	return c
}
