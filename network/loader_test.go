package network

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap/zaptest"

	"github.com/chrisuehlinger/jqalt/dom"
)

const sitePage = `<!DOCTYPE html><html><head>
<script>var inline = 1;</script>
<script src="js/app.js"></script>
<script type="text/template">not code</script>
<script src="missing.js"></script>
</head><body><p id="p">hello</p></body></html>`

func newLoader(t *testing.T) *Loader {
	t.Helper()
	log := zaptest.NewLogger(t)
	c, err := NewClient(WithClientLogger(log))
	require.NoError(t, err)
	return NewLoader(c, log)
}

func siteServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/site/index.html", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(sitePage))
	})
	mux.HandleFunc("/site/js/app.js", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/javascript")
		w.Write([]byte("var external = 2;"))
	})
	mux.HandleFunc("/latin.html", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		w.Write([]byte("<p id=\"p\">caf\xe9</p>"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestLoadDataURL(t *testing.T) {
	l := newLoader(t)
	res, err := l.Load(context.Background(), "data:text/javascript,var%20x%3D1", "")
	require.NoError(t, err)
	assert.Equal(t, "text/javascript", res.ContentType)
	assert.Equal(t, "var x=1", string(res.Content))
}

func TestLoadLocalFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("content"), 0o644))

	l := newLoader(t)
	res, err := l.Load(context.Background(), path, "")
	require.NoError(t, err)
	assert.Equal(t, "content", string(res.Content))

	base, err := FileURL(filepath.Join(dir, "index.html"))
	require.NoError(t, err)
	res, err = l.Load(context.Background(), "a.txt", base)
	require.NoError(t, err)
	assert.Equal(t, "content", string(res.Content))

	_, err = l.Load(context.Background(), filepath.Join(dir, "nope.txt"), "")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadHTTPError(t *testing.T) {
	srv := siteServer(t)
	_, err := newLoader(t).Load(context.Background(), srv.URL+"/absent", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestLoadWithoutClient(t *testing.T) {
	srv := siteServer(t)
	l := NewLoader(nil, nil)
	res, err := l.Load(context.Background(), "js/app.js", srv.URL+"/site/index.html")
	require.NoError(t, err)
	assert.Equal(t, "var external = 2;", string(res.Content))
	assert.Equal(t, "text/javascript", res.ContentType)
}

func TestLoadDocumentHTTP(t *testing.T) {
	srv := siteServer(t)
	l := newLoader(t)

	page, err := l.LoadDocument(context.Background(), srv.URL+"/site/index.html")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/site/index.html", page.URL)
	assert.Equal(t, "hello", dom.TextContent(page.Doc.GetElementByID("p")))

	scripts, err := l.PageScripts(context.Background(), page)
	require.Len(t, scripts, 2)
	assert.Equal(t, "inline #0", scripts[0].Source)
	assert.Equal(t, "var inline = 1;", scripts[0].Code)
	assert.Equal(t, srv.URL+"/site/js/app.js", scripts[1].Source)
	assert.Equal(t, "var external = 2;", scripts[1].Code)

	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 1)
	assert.Contains(t, err.Error(), "missing.js")
}

func TestLoadDocumentCharset(t *testing.T) {
	srv := siteServer(t)
	page, err := newLoader(t).LoadDocument(context.Background(), srv.URL+"/latin.html")
	require.NoError(t, err)
	assert.Equal(t, "café", dom.TextContent(page.Doc.GetElementByID("p")))
}

func TestLoadDocumentLocal(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "js"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte(sitePage), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "js", "app.js"), []byte("var local = 3;"), 0o644))

	l := newLoader(t)
	page, err := l.LoadDocument(context.Background(), filepath.Join(dir, "index.html"))
	require.NoError(t, err)

	want, err := FileURL(filepath.Join(dir, "index.html"))
	require.NoError(t, err)
	assert.Equal(t, want, page.URL)

	scripts, err := l.PageScripts(context.Background(), page)
	assert.Error(t, err)
	require.Len(t, scripts, 2)
	assert.Equal(t, "var local = 3;", scripts[1].Code)
}

func TestLoadDocumentDataURL(t *testing.T) {
	page, err := newLoader(t).LoadDocument(context.Background(), "data:text/html,%3Cb%20id%3Db%3Edata%3C%2Fb%3E")
	require.NoError(t, err)
	assert.Equal(t, "data", dom.TextContent(page.Doc.GetElementByID("b")))
}
