package templates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/dossier-builder/internal/rendering"
)

var fakePDF = []byte("%PDF-1.7\n%%EOF\n")

func TestDirSource_Load(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "2021"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2021", "bilaga-9.pdf"), fakePDF, 0o600))

	data, err := DirSource{Root: dir}.Load(context.Background(), "2021-bilaga-9", "2021/bilaga-9.pdf")
	require.NoError(t, err)
	assert.Equal(t, fakePDF, data)
}

func TestDirSource_Missing(t *testing.T) {
	_, err := DirSource{Root: t.TempDir()}.Load(context.Background(), "2021-bilaga-9", "missing.pdf")
	require.Error(t, err)

	var loadErr *rendering.TemplateLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "2021-bilaga-9", loadErr.DocumentType)
	assert.Equal(t, "missing.pdf", loadErr.Path)
}

func TestDirSource_RejectsEscape(t *testing.T) {
	_, err := DirSource{Root: t.TempDir()}.Load(context.Background(), "x", "../secret.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path escapes template root")
}

func TestDirSource_NotPDF(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.pdf"), []byte("<html>"), 0o600))

	_, err := DirSource{Root: dir}.Load(context.Background(), "x", "a.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a PDF document")
}

func TestHTTPSource_Load(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pdf/2021/bilaga-9.pdf", r.URL.Path)
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write(fakePDF)
	}))
	defer server.Close()

	data, err := NewHTTPSource(server.URL+"/pdf", nil).Load(context.Background(), "2021-bilaga-9", "2021/bilaga-9.pdf")
	require.NoError(t, err)
	assert.Equal(t, fakePDF, data)
}

func TestHTTPSource_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewHTTPSource(server.URL, nil).Load(context.Background(), "2021-bilaga-9", "a.pdf")
	require.Error(t, err)

	var loadErr *rendering.TemplateLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, err.Error(), "404")
}

func TestHTTPSource_InvalidBaseURL(t *testing.T) {
	_, err := NewHTTPSource("not-a-url", nil).Load(context.Background(), "x", "a.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid base URL")
}

func TestHTTPSource_CanceledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(fakePDF)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewHTTPSource(server.URL, nil).Load(ctx, "x", "a.pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

type countingSource struct {
	calls atomic.Int32
	fail  bool
}

func (c *countingSource) Load(_ context.Context, documentType, path string) ([]byte, error) {
	c.calls.Add(1)
	if c.fail {
		return nil, &rendering.TemplateLoadError{DocumentType: documentType, Path: path, Message: "boom"}
	}
	return append([]byte(nil), fakePDF...), nil
}

func TestCachedSource_LoadsOnce(t *testing.T) {
	inner := &countingSource{}
	cached := NewCachedSource(inner)

	first, err := cached.Load(context.Background(), "x", "a.pdf")
	require.NoError(t, err)
	first[0] = 'X'

	second, err := cached.Load(context.Background(), "x", "a.pdf")
	require.NoError(t, err)
	assert.Equal(t, fakePDF, second)
	assert.Equal(t, int32(1), inner.calls.Load())
}

func TestCachedSource_DoesNotCacheFailures(t *testing.T) {
	inner := &countingSource{fail: true}
	cached := NewCachedSource(inner)

	_, err := cached.Load(context.Background(), "x", "a.pdf")
	require.Error(t, err)
	_, err = cached.Load(context.Background(), "x", "a.pdf")
	require.Error(t, err)
	assert.Equal(t, int32(2), inner.calls.Load())
}

func TestNew_PicksSource(t *testing.T) {
	dirSrc := New("/tmp", "").(*CachedSource)
	assert.IsType(t, DirSource{}, dirSrc.src)

	httpSrc := New("/tmp", "https://example.org/pdf").(*CachedSource)
	assert.IsType(t, &HTTPSource{}, httpSrc.src)
}
