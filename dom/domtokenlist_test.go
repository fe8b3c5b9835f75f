package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassList(t *testing.T) {
	el := NewDocument().CreateElement("div")
	SetAttribute(el, "class", "a  b a")

	cl := Classes(el)
	assert.Equal(t, []string{"a", "b"}, cl.Tokens())
	assert.Equal(t, 2, cl.Len())
	assert.True(t, cl.Contains("b"))

	require.NoError(t, cl.Add("c", "a"))
	assert.Equal(t, "a b c", cl.Value())

	require.NoError(t, cl.Remove("a"))
	v, _ := GetAttribute(el, "class")
	assert.Equal(t, "b c", v)

	on, err := cl.Toggle("d")
	require.NoError(t, err)
	assert.True(t, on)
	on, err = cl.Toggle("d")
	require.NoError(t, err)
	assert.False(t, on)
	assert.Equal(t, "b c", cl.Value())
}

func TestClassListInvalidTokens(t *testing.T) {
	el := NewDocument().CreateElement("div")
	cl := Classes(el)

	var domErr *DOMError
	require.ErrorAs(t, cl.Add(""), &domErr)
	assert.Equal(t, "SyntaxError", domErr.Name)

	require.ErrorAs(t, cl.Add("ok", "not ok"), &domErr)
	assert.Equal(t, "InvalidCharacterError", domErr.Name)

	// nothing was added
	assert.False(t, HasAttribute(el, "class"))
}

func TestClassListRemoveWithoutAttribute(t *testing.T) {
	el := NewDocument().CreateElement("div")
	require.NoError(t, Classes(el).Remove("x"))
	assert.False(t, HasAttribute(el, "class"))
}
