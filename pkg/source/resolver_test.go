package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confctl/confctl/pkg/document"
	"github.com/confctl/confctl/pkg/errors"

	_ "github.com/confctl/confctl/pkg/source/backend/httpsrc"
	_ "github.com/confctl/confctl/pkg/source/backend/local"
)

func TestDetectReferenceType(t *testing.T) {
	tests := []struct {
		ref  string
		want ReferenceType
	}{
		{`{"a": 1}`, ReferenceTypeInline},
		{` {"a": 1} `, ReferenceTypeInline},
		{"config.yml", ReferenceTypeLocal},
		{"./relative/path.json", ReferenceTypeLocal},
		{"/abs/path.yaml", ReferenceTypeLocal},
		{"https://example.com/config.json", ReferenceTypeRemote},
		{"file:///etc/config.yml", ReferenceTypeRemote},
		{"weird://example.com/config.json", ReferenceTypeLocal}, // unregistered scheme
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectReferenceType(tt.ref), tt.ref)
	}
}

func TestResolver_Inline(t *testing.T) {
	r := NewResolver(Options{})

	doc, err := r.Resolve(context.Background(), `{"name": "api", "port": 8080}`)
	require.NoError(t, err)
	assert.Equal(t, document.FormatJSON, doc.Format)

	port, ok := doc.Value.AsMapping().Get("port")
	require.True(t, ok)
	assert.Equal(t, int64(8080), port.AsInt())
}

func TestResolver_InlineInvalidJSON(t *testing.T) {
	r := NewResolver(Options{})

	_, err := r.Resolve(context.Background(), `{"name": }`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeParse))
}

func TestResolver_LocalFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("name: api\nreplicas: 3\n"), 0o644))

	r := NewResolver(Options{})
	doc, err := r.Resolve(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, document.FormatYAML, doc.Format)

	replicas, ok := doc.Value.AsMapping().Get("replicas")
	require.True(t, ok)
	assert.Equal(t, int64(3), replicas.AsInt())
}

func TestResolver_LocalFileMissing(t *testing.T) {
	r := NewResolver(Options{})

	_, err := r.Resolve(context.Background(), filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
}

func TestResolver_FormatOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.txt")
	require.NoError(t, os.WriteFile(path, []byte(`{"a": 1}`), 0o644))

	r := NewResolver(Options{Format: document.FormatJSON})
	doc, err := r.Resolve(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, document.FormatJSON, doc.Format)
}

func TestResolver_LocalUnknownExtension(t *testing.T) {
	r := NewResolver(Options{})

	_, err := r.Resolve(context.Background(), "config.toml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeParse))
}

func TestResolver_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		switch req.URL.Path {
		case "/config.yml":
			w.Write([]byte("env: production\n"))
		case "/settings":
			// No extension: the resolver should assume JSON.
			w.Write([]byte(`{"ttl": 60}`))
		default:
			http.NotFound(w, req)
		}
	}))
	defer srv.Close()

	r := NewResolver(Options{})

	doc, err := r.Resolve(context.Background(), srv.URL+"/config.yml")
	require.NoError(t, err)
	assert.Equal(t, document.FormatYAML, doc.Format)
	env, _ := doc.Value.AsMapping().Get("env")
	assert.Equal(t, "production", env.AsString())

	doc, err = r.Resolve(context.Background(), srv.URL+"/settings")
	require.NoError(t, err)
	assert.Equal(t, document.FormatJSON, doc.Format)

	_, err = r.Resolve(context.Background(), srv.URL+"/missing.yml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
}

func TestResolver_FileScheme(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"a": 1}`), 0o644))

	r := NewResolver(Options{})
	doc, err := r.Resolve(context.Background(), "file://"+path)
	require.NoError(t, err)

	a, ok := doc.Value.AsMapping().Get("a")
	require.True(t, ok)
	assert.Equal(t, int64(1), a.AsInt())
}

func TestResolver_ResolveAll(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "base.yml"), []byte("a: 1\n"), 0o644))

	r := NewResolver(Options{})
	docs, err := r.ResolveAll(context.Background(), []string{
		filepath.Join(dir, "base.yml"),
		`{"b": 2}`,
	})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, document.FormatYAML, docs[0].Format)
	assert.Equal(t, document.FormatJSON, docs[1].Format)
}

func TestResolver_ResolveAllFailsFast(t *testing.T) {
	r := NewResolver(Options{})

	_, err := r.ResolveAll(context.Background(), []string{`{"ok": 1}`, "missing.yml"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
}
