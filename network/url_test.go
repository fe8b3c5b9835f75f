package network

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveURL(t *testing.T) {
	tests := []struct {
		base, ref, want string
	}{
		{"http://example.com/a/page.html", "app.js", "http://example.com/a/app.js"},
		{"http://example.com/a/page.html", "/app.js", "http://example.com/app.js"},
		{"http://example.com/a/page.html", "../x.js", "http://example.com/x.js"},
		{"http://example.com/a/page.html", "https://cdn.example.org/lib.js", "https://cdn.example.org/lib.js"},
		{"http://example.com/a/page.html", "", "http://example.com/a/page.html"},
		{"file:///srv/site/index.html", "js/app.js", "file:///srv/site/js/app.js"},
		{"http://example.com/", "data:text/plain,hi", "data:text/plain,hi"},
	}
	for _, tt := range tests {
		got, err := ResolveURL(tt.base, tt.ref)
		require.NoError(t, err, tt.ref)
		assert.Equal(t, tt.want, got, tt.ref)
	}

	_, err := ResolveURL("http://example.com/", "http://[::1")
	assert.Error(t, err)
}

func TestURLKinds(t *testing.T) {
	assert.True(t, IsAbsoluteURL("http://example.com"))
	assert.True(t, IsAbsoluteURL("file:///tmp/x"))
	assert.False(t, IsAbsoluteURL("page.html"))

	assert.True(t, IsDataURL("DATA:text/plain,x"))
	assert.False(t, IsDataURL("http://example.com"))

	assert.True(t, IsHTTPURL("HTTPS://example.com"))
	assert.False(t, IsHTTPURL("file:///tmp"))
}

func TestParseDataURL(t *testing.T) {
	d, err := ParseDataURL("data:,Hello%2C%20World")
	require.NoError(t, err)
	assert.Equal(t, "text/plain", d.MediaType)
	assert.Equal(t, "US-ASCII", d.Charset)
	assert.False(t, d.Base64)
	assert.Equal(t, "Hello, World", string(d.Data))

	d, err = ParseDataURL("data:text/html;charset=utf-8;base64,PHA+aGk8L3A+")
	require.NoError(t, err)
	assert.Equal(t, "text/html", d.MediaType)
	assert.Equal(t, "utf-8", d.Charset)
	assert.True(t, d.Base64)
	assert.Equal(t, "<p>hi</p>", string(d.Data))

	_, err = ParseDataURL("data:text/plain")
	assert.Error(t, err)
	_, err = ParseDataURL("data:;base64,@@@")
	assert.Error(t, err)
	_, err = ParseDataURL("http://example.com")
	assert.Error(t, err)
}

func TestFileURL(t *testing.T) {
	dir := t.TempDir()
	u, err := FileURL(filepath.Join(dir, "index.html"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, "file://"))
	assert.True(t, strings.HasSuffix(u, "/index.html"))

	path, ok := localPath(u)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "index.html"), path)
}

func TestLocalPath(t *testing.T) {
	path, ok := localPath("pages/index.html")
	assert.True(t, ok)
	assert.Equal(t, "pages/index.html", path)

	_, ok = localPath("http://example.com/")
	assert.False(t, ok)
	_, ok = localPath("data:,x")
	assert.False(t, ok)
	_, ok = localPath("ftp://example.com/file")
	assert.False(t, ok)
}
