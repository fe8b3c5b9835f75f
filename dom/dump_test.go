package dom

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDump(t *testing.T) {
	doc, err := Parse(`<div id="main" class="a b">
  <p>hello</p>
  <br>
</div>`)
	require.NoError(t, err)

	out := Dump(doc.GetElementByID("main"))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "div#main.a.b", lines[0])
	assert.Contains(t, lines[1], "p")
	assert.Contains(t, lines[2], `#text "hello"`)
	assert.Contains(t, lines[3], "br")
	assert.Equal(t, "", Dump(nil))
}

func TestShorten(t *testing.T) {
	assert.Equal(t, "abc", shorten("abc", 3))
	assert.Equal(t, "ab…", shorten("abcd", 3))
}
