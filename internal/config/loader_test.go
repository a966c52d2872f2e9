// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ManuGH/devfront/internal/buildcfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "devfront.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := NewLoader("", "v0.1.0").Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultListenAddr, cfg.ListenAddr)
	assert.Equal(t, DefaultStaticDir, cfg.StaticDir)
	assert.Equal(t, buildcfg.DefaultVersionFile, cfg.VersionFile)
	assert.Equal(t, string(buildcfg.VariantVersioned), cfg.Variant)
	assert.True(t, cfg.Watch)
	assert.Equal(t, DefaultAssetCacheSize, cfg.AssetCacheSize)
	assert.Equal(t, "v0.1.0", cfg.Version)
	assert.True(t, filepath.IsAbs(cfg.Root), "root must be absolute")
	assert.False(t, cfg.Tracing.Enabled)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
listen: ":8080"
staticDir: dist
variant: proxy
watch: false
assetCacheSize: 0
log:
  level: debug
metrics:
  listen: ":9090"
proxy:
  rateLimit:
    requests: 100
    window: 30s
  dialTimeout: 2s
server:
  shutdownTimeout: 20s
  writeTimeout: 0s
`)
	cfg, err := NewLoader(path, "").Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "dist", cfg.StaticDir)
	assert.Equal(t, "proxy", cfg.Variant)
	assert.False(t, cfg.Watch)
	assert.Equal(t, 0, cfg.AssetCacheSize)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":9090", cfg.MetricsAddr)
	assert.Equal(t, 100, cfg.Proxy.RateLimitRequests)
	assert.Equal(t, 30*time.Second, cfg.Proxy.RateLimitWindow)
	assert.Equal(t, 2*time.Second, cfg.Proxy.DialTimeout)
	assert.Equal(t, 20*time.Second, cfg.Server.ShutdownTimeout)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "listen: \":8080\"\nvariant: proxy\n")
	t.Setenv(EnvListen, ":9999")
	t.Setenv(EnvVariant, "versioned")
	t.Setenv(EnvWatch, "no")

	loader := NewLoader(path, "")
	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.ListenAddr)
	assert.Equal(t, "versioned", cfg.Variant)
	assert.False(t, cfg.Watch)
	assert.Equal(t, SourceEnv, loader.EnvSources[EnvListen])
	assert.Equal(t, SourceDefault, loader.EnvSources[EnvLogLevel])
}

func TestLoad_TrustedProxies(t *testing.T) {
	path := writeConfig(t, "trustedProxies:\n  - 10.0.0.1\n")
	cfg, err := NewLoader(path, "").Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.1"}, cfg.TrustedProxies)

	t.Setenv(EnvTrustedProxies, " 127.0.0.1, ,192.168.0.0/16")
	cfg, err = NewLoader(path, "").Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"127.0.0.1", "192.168.0.0/16"}, cfg.TrustedProxies)
}

func TestLoad_UnknownField(t *testing.T) {
	path := writeConfig(t, "listen: \":8080\"\nproxyTarget: http://localhost:5000\n")
	_, err := NewLoader(path, "").Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownConfigField)
}

func TestLoad_EmptyFile(t *testing.T) {
	path := writeConfig(t, "")
	cfg, err := NewLoader(path, "").Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultListenAddr, cfg.ListenAddr)
}

func TestLoad_MultipleDocuments(t *testing.T) {
	path := writeConfig(t, "listen: \":1\"\n---\nlisten: \":2\"\n")
	_, err := NewLoader(path, "").Load()
	assert.Error(t, err)
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devfront.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))
	_, err := NewLoader(path, "").Load()
	assert.Error(t, err)
}

func TestLoad_InvalidVariant(t *testing.T) {
	t.Setenv(EnvVariant, "sometimes")
	_, err := NewLoader("", "").Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorIs(t, err, buildcfg.ErrInvalidVariant)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*AppConfig) {}},
		{name: "negative cache", mutate: func(c *AppConfig) { c.AssetCacheSize = -1 }, wantErr: true},
		{name: "bad log level", mutate: func(c *AppConfig) { c.LogLevel = "loud" }, wantErr: true},
		{name: "rate limit without window", mutate: func(c *AppConfig) {
			c.Proxy.RateLimitRequests = 10
			c.Proxy.RateLimitWindow = 0
		}, wantErr: true},
		{name: "tracing bad exporter", mutate: func(c *AppConfig) {
			c.Tracing.Enabled = true
			c.Tracing.Exporter = "zipkin"
		}, wantErr: true},
		{name: "tracing http", mutate: func(c *AppConfig) {
			c.Tracing.Enabled = true
			c.Tracing.Exporter = "http"
			c.Tracing.Endpoint = "localhost:4318"
		}},
		{name: "sampling out of range", mutate: func(c *AppConfig) { c.Tracing.SamplingRate = 1.5 }, wantErr: true},
		{name: "empty listen", mutate: func(c *AppConfig) { c.ListenAddr = " " }, wantErr: true},
		{name: "trusted proxies", mutate: func(c *AppConfig) { c.TrustedProxies = []string{"10.0.0.0/8", "::1"} }},
		{name: "bad trusted proxy", mutate: func(c *AppConfig) { c.TrustedProxies = []string{"10.0.0.0/40"} }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := Validate(cfg)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAppConfig_Paths(t *testing.T) {
	cfg := Defaults()
	cfg.Root = "/srv/web"
	assert.Equal(t, "/srv/web/build", cfg.StaticPath())

	cfg.StaticDir = "/var/www"
	assert.Equal(t, "/var/www", cfg.StaticPath())

	opts, err := cfg.BuildOptions()
	require.NoError(t, err)
	assert.Equal(t, "/srv/web/VERSION", opts.VersionPath())
	assert.Equal(t, buildcfg.VariantVersioned, opts.Variant)
}

func TestServerConfigFor(t *testing.T) {
	cfg := Defaults()
	cfg.Server.ShutdownTimeout = time.Second
	sc := ServerConfigFor(cfg)
	assert.Equal(t, 3*time.Second, sc.ShutdownTimeout, "shutdown timeout has a floor")
	assert.Equal(t, DefaultListenAddr, sc.ListenAddr)
	assert.Equal(t, time.Duration(0), sc.WriteTimeout)
}
