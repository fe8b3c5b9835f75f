package network

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strconv"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"

	"github.com/chrisuehlinger/jqalt/dom"
)

// Resource is loaded content.
type Resource struct {
	URL         string
	Content     []byte
	ContentType string
	Charset     string
}

// Loader reads resources from data URLs, the local filesystem and HTTP.
type Loader struct {
	client *Client
	log    *zap.Logger
}

// NewLoader creates a loader. A nil client is created with defaults the
// first time an HTTP resource is requested.
func NewLoader(client *Client, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{client: client, log: log.Named("network")}
}

// Load loads ref, resolving it against base first when ref is relative and
// base is not empty.
func (l *Loader) Load(ctx context.Context, ref, base string) (*Resource, error) {
	if base != "" && !IsAbsoluteURL(ref) {
		resolved, err := ResolveURL(base, ref)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve URL: %w", err)
		}
		ref = resolved
	}

	switch {
	case IsDataURL(ref):
		d, err := ParseDataURL(ref)
		if err != nil {
			return nil, err
		}
		return &Resource{URL: ref, Content: d.Data, ContentType: d.MediaType, Charset: d.Charset}, nil
	case IsHTTPURL(ref):
		return l.loadFromHTTP(ctx, ref)
	}

	path, ok := localPath(ref)
	if !ok {
		return nil, fmt.Errorf("unsupported URL scheme: %s", ref)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	l.log.Debug("Read", zap.String("path", path), zap.Int("bytes", len(content)))
	return &Resource{URL: ref, Content: content}, nil
}

func (l *Loader) loadFromHTTP(ctx context.Context, ref string) (*Resource, error) {
	if l.client == nil {
		client, err := NewClient(WithClientLogger(l.log))
		if err != nil {
			return nil, err
		}
		l.client = client
	}
	resp, err := l.client.Get(ctx, ref)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("unable to load %s: %s", ref, resp.Status)
	}
	mediaType, cs := ParseContentType(resp.ContentType)
	return &Resource{
		URL:         resp.URL.String(),
		Content:     resp.Body,
		ContentType: mediaType,
		Charset:     cs,
	}, nil
}

// Page is a loaded document together with the URL relative references in
// it resolve against.
type Page struct {
	Doc *dom.Document
	URL string
}

// LoadDocument loads and parses an HTML document. Content is decoded to
// UTF-8 using the declared or sniffed charset.
func (l *Loader) LoadDocument(ctx context.Context, ref string) (*Page, error) {
	base := ""
	if path, ok := localPath(ref); ok {
		var err error
		if base, err = FileURL(path); err != nil {
			return nil, err
		}
		ref = base
	}
	res, err := l.Load(ctx, ref, "")
	if err != nil {
		return nil, err
	}
	contentType := res.ContentType
	if res.Charset != "" {
		contentType += "; charset=" + res.Charset
	}
	r, err := charset.NewReader(bytes.NewReader(res.Content), contentType)
	if err != nil {
		return nil, fmt.Errorf("unable to decode %s: %w", res.URL, err)
	}
	doc, err := dom.ParseReader(r)
	if err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", res.URL, err)
	}
	return &Page{Doc: doc, URL: res.URL}, nil
}

// Script is the code of one script element.
type Script struct {
	// Source is the resolved src URL, or "inline #N" for inline scripts.
	Source string
	Code   string
}

// PageScripts collects the classic scripts of p in document order, loading
// external ones. Scripts that fail to load are skipped and their errors
// returned together with the scripts that did load.
func (l *Loader) PageScripts(ctx context.Context, p *Page) ([]Script, error) {
	nodes, err := p.Doc.QuerySelectorAll("script")
	if err != nil {
		return nil, err
	}
	var (
		scripts []Script
		errs    error
	)
	for i, n := range nodes {
		if t, _ := dom.GetAttribute(n, "type"); !IsJavaScriptType(t) {
			continue
		}
		src, ok := dom.GetAttribute(n, "src")
		if !ok || src == "" {
			scripts = append(scripts, Script{Source: "inline #" + strconv.Itoa(i), Code: dom.TextContent(n)})
			continue
		}
		res, err := l.Load(ctx, src, p.URL)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("script %s: %w", src, err))
			continue
		}
		scripts = append(scripts, Script{Source: res.URL, Code: string(res.Content)})
	}
	return scripts, errs
}
