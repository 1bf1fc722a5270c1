// Package templates loads the blank PDF form of each document type from disk
// or over HTTP.
package templates

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/jonathan/dossier-builder/internal/rendering"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; DossierAgent/1.0)"

// MaxTemplateSize bounds the size of a template download.
const MaxTemplateSize = 20 << 20

var pdfMagic = []byte("%PDF-")

// Source loads a template by its relative path.
type Source interface {
	Load(ctx context.Context, documentType, path string) ([]byte, error)
}

// DirSource reads templates below a root directory.
type DirSource struct {
	Root string
}

// Load reads Root/path.
func (s DirSource) Load(ctx context.Context, documentType, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &rendering.TemplateLoadError{DocumentType: documentType, Path: path, Message: "canceled", Cause: err}
	}
	clean := filepath.Clean(filepath.FromSlash(path))
	if filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return nil, &rendering.TemplateLoadError{DocumentType: documentType, Path: path, Message: "path escapes template root"}
	}
	data, err := os.ReadFile(filepath.Join(s.Root, clean))
	if err != nil {
		return nil, &rendering.TemplateLoadError{DocumentType: documentType, Path: path, Message: "failed to read template", Cause: err}
	}
	return checkPDF(documentType, path, data)
}

// Options configures HTTP template fetching.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// HTTPSource fetches templates relative to a base URL.
type HTTPSource struct {
	BaseURL string
	Options *Options
	Client  *http.Client
}

// NewHTTPSource creates an HTTP source. A nil opts uses DefaultOptions.
func NewHTTPSource(baseURL string, opts *Options) *HTTPSource {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTTPSource{
		BaseURL: baseURL,
		Options: opts,
		Client:  &http.Client{Timeout: opts.Timeout},
	}
}

// Load fetches BaseURL/path.
func (s *HTTPSource) Load(ctx context.Context, documentType, path string) ([]byte, error) {
	base, err := url.Parse(s.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, &rendering.TemplateLoadError{DocumentType: documentType, Path: path, Message: "invalid base URL", Cause: err}
	}
	target := base.JoinPath(path).String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &rendering.TemplateLoadError{DocumentType: documentType, Path: target, Message: "failed to create request", Cause: err}
	}
	opts := s.Options
	if opts == nil {
		opts = DefaultOptions()
	}
	req.Header.Set("User-Agent", opts.UserAgent)
	req.Header.Set("Accept", "application/pdf")
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &rendering.TemplateLoadError{DocumentType: documentType, Path: target, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &rendering.TemplateLoadError{DocumentType: documentType, Path: target, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxTemplateSize+1))
	if err != nil {
		return nil, &rendering.TemplateLoadError{DocumentType: documentType, Path: target, Message: "failed to read response body", Cause: err}
	}
	if len(data) > MaxTemplateSize {
		return nil, &rendering.TemplateLoadError{DocumentType: documentType, Path: target, Message: "template too large"}
	}
	return checkPDF(documentType, target, data)
}

func checkPDF(documentType, path string, data []byte) ([]byte, error) {
	if !bytes.HasPrefix(bytes.TrimLeft(data, "\x00\t\r\n "), pdfMagic) {
		return nil, &rendering.TemplateLoadError{DocumentType: documentType, Path: path, Message: "not a PDF document"}
	}
	return data, nil
}

// CachedSource keeps loaded templates in memory. Failed loads are not cached.
type CachedSource struct {
	src   Source
	mu    sync.Mutex
	cache map[string][]byte
}

// NewCachedSource wraps src with an in-memory cache keyed by path.
func NewCachedSource(src Source) *CachedSource {
	return &CachedSource{src: src, cache: make(map[string][]byte)}
}

// Load returns a copy of the cached template, loading it on first use.
func (c *CachedSource) Load(ctx context.Context, documentType, path string) ([]byte, error) {
	c.mu.Lock()
	data, ok := c.cache[path]
	c.mu.Unlock()
	if ok {
		return bytes.Clone(data), nil
	}

	data, err := c.src.Load(ctx, documentType, path)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.cache[path] = data
	c.mu.Unlock()
	return bytes.Clone(data), nil
}

// New picks the source for a configuration: an HTTP source when baseURL is
// set, otherwise a directory source. Both are cached.
func New(dir, baseURL string) Source {
	if baseURL != "" {
		return NewCachedSource(NewHTTPSource(baseURL, nil))
	}
	return NewCachedSource(DirSource{Root: dir})
}
