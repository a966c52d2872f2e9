// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package devserver

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/ManuGH/devfront/internal/buildcfg"
	"github.com/ManuGH/devfront/internal/control/http/problem"
	"github.com/ManuGH/devfront/internal/control/middleware"
	"github.com/ManuGH/devfront/internal/health"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingBackend answers every proxied request and remembers the last one.
type recordingBackend struct {
	mu   sync.Mutex
	last *http.Request
}

func (b *recordingBackend) RoundTrip(r *http.Request) (*http.Response, error) {
	b.mu.Lock()
	b.last = r
	b.mu.Unlock()
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(`{"from":"backend"}`)),
		Request:    r,
	}, nil
}

func (b *recordingBackend) Last() *http.Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last
}

func newTestServer(t *testing.T, variant buildcfg.Variant) (*Server, *recordingBackend) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "VERSION"), []byte("1.2.3\n"), 0o600))
	static := filepath.Join(root, "build")
	writeSite(t, static)

	build, err := buildcfg.Assemble(buildcfg.Options{Variant: variant, Root: root})
	require.NoError(t, err)

	backend := &recordingBackend{}
	s, err := New(Config{
		Build:          build,
		StaticDir:      static,
		AssetCacheSize: 16,
		Proxy:          ProxyOptions{Transport: backend},
		Stack:          middleware.StackConfig{EnableSecurityHeaders: true, EnableLogging: true},
		Version:        "test",
	})
	require.NoError(t, err)
	return s, backend
}

func TestServer_ProxiesAPI(t *testing.T) {
	s, backend := newTestServer(t, buildcfg.VariantVersioned)

	rec := get(s, "/api/tracks?limit=5")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"from":"backend"}`, rec.Body.String())

	out := backend.Last()
	require.NotNil(t, out)
	assert.Equal(t, "localhost:5000", out.URL.Host)
	assert.Equal(t, "/api/tracks", out.URL.Path)
	assert.Equal(t, "limit=5", out.URL.RawQuery)
	assert.NotEmpty(t, out.Header.Get(problem.HeaderRequestID), "request ID is forwarded")
}

func TestServer_ProxyPrefixSemantics(t *testing.T) {
	s, backend := newTestServer(t, buildcfg.VariantVersioned)

	for _, target := range []string{"/api", "/api/", "/apiary/v1"} {
		rec := get(s, target)
		assert.Equal(t, http.StatusOK, rec.Code, target)
		require.NotNil(t, backend.Last())
		assert.Equal(t, strings.SplitN(target, "?", 2)[0], backend.Last().URL.Path)
	}

	// Other methods go through as well.
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/tracks/9", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.MethodDelete, backend.Last().Method)
}

func TestServer_ServesAssetsWithVersion(t *testing.T) {
	s, _ := newTestServer(t, buildcfg.VariantVersioned)

	rec := get(s, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `<script>window.v = "1.2.3";</script>`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))

	// sveltekit is active by default: client routes fall back to the document.
	rec = get(s, "/library/albums")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `<script>window.v = "1.2.3";</script>`, rec.Body.String())

	assert.Equal(t, http.StatusNotFound, get(s, "/favicon.png").Code)
}

func TestServer_ProxyVariantLeavesConstantsAlone(t *testing.T) {
	s, _ := newTestServer(t, buildcfg.VariantProxy)

	rec := get(s, "/app.js")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `console.log(__APP_VERSION__);`, rec.Body.String())

	rec = get(s, IntrospectionPrefix+"/defines.js")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestServer_Introspection(t *testing.T) {
	s, _ := newTestServer(t, buildcfg.VariantVersioned)

	rec := get(s, IntrospectionPrefix+"/config")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var record buildcfg.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	assert.Equal(t, buildcfg.VariantVersioned, record.Variant)
	require.NotNil(t, record.Version)
	assert.Equal(t, "1.2.3", *record.Version)
	assert.Equal(t, buildcfg.DefaultProxyTable(), record.Proxy)
	assert.Equal(t, buildcfg.DefaultPlugins(), record.Plugins)

	rec = get(s, IntrospectionPrefix+"/defines.js")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, javascriptContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, "export const __APP_VERSION__ = \"1.2.3\";\n", rec.Body.String())
}

func TestServer_Health(t *testing.T) {
	s, _ := newTestServer(t, buildcfg.VariantVersioned)

	rec := get(s, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp health.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "test", resp.Version)
	assert.Equal(t, "1.2.3", resp.Details["app_version"])
	assert.Equal(t, "versioned", resp.Details["variant"])

	// The asset directory is present; the backend is informational only.
	rec = get(s, "/readyz?verbose=true")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_ReadyFailsWithoutAssets(t *testing.T) {
	s, _ := newTestServer(t, buildcfg.VariantProxy)
	require.NoError(t, os.RemoveAll(s.Assets().Dir()))

	rec := get(s, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestServer_MethodNotAllowedOnOwnRoutes(t *testing.T) {
	s, _ := newTestServer(t, buildcfg.VariantVersioned)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/healthz", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, problem.ContentType, rec.Header().Get("Content-Type"))
}

func TestServer_Accessors(t *testing.T) {
	s, _ := newTestServer(t, buildcfg.VariantVersioned)

	assert.Equal(t, []string{buildcfg.PluginTailwindCSS, buildcfg.PluginSvelteKit}, s.ActivePlugins())
	require.Len(t, s.Proxies(), 1)
	assert.Equal(t, "/api", s.Proxies()[0].Prefix)
	assert.NotNil(t, s.Health())
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{StaticDir: "build"})
	assert.ErrorIs(t, err, ErrMissingBuildConfig)

	build, err := buildcfg.Assemble(buildcfg.Options{Variant: buildcfg.VariantProxy})
	require.NoError(t, err)
	_, err = New(Config{Build: build, StaticDir: "  "})
	assert.ErrorIs(t, err, ErrMissingStaticDir)
}
