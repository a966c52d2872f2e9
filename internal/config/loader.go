// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ManuGH/devfront/internal/buildcfg"
	"github.com/ManuGH/devfront/internal/log"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Environment keys.
const (
	EnvListen          = "DEVFRONT_LISTEN"
	EnvMetricsListen   = "DEVFRONT_METRICS_LISTEN"
	EnvTrustedProxies  = "DEVFRONT_TRUSTED_PROXIES"
	EnvRoot            = "DEVFRONT_ROOT"
	EnvStaticDir       = "DEVFRONT_STATIC_DIR"
	EnvVersionFile     = "DEVFRONT_VERSION_FILE"
	EnvVariant         = "DEVFRONT_VARIANT"
	EnvWatch           = "DEVFRONT_WATCH"
	EnvAssetCacheSize  = "DEVFRONT_ASSET_CACHE_SIZE"
	EnvLogLevel        = "DEVFRONT_LOG_LEVEL"
	EnvLogService      = "DEVFRONT_LOG_SERVICE"
	EnvProxyRequests   = "DEVFRONT_PROXY_RATE_LIMIT"
	EnvProxyWindow     = "DEVFRONT_PROXY_RATE_WINDOW"
	EnvProxyDial       = "DEVFRONT_PROXY_DIAL_TIMEOUT"
	EnvTracingEnabled  = "DEVFRONT_TRACING_ENABLED"
	EnvTracingExporter = "DEVFRONT_TRACING_EXPORTER"
	EnvTracingEndpoint = "DEVFRONT_TRACING_ENDPOINT"
	EnvTracingSampling = "DEVFRONT_TRACING_SAMPLING"
)

// Defaults.
const (
	DefaultListenAddr     = ":5173"
	DefaultStaticDir      = "build"
	DefaultAssetCacheSize = 256
	DefaultLogLevel       = "info"
	DefaultLogService     = "devfront"
	DefaultProxyWindow    = time.Minute
	DefaultDialTimeout    = 5 * time.Second
	DefaultTracingExport  = "grpc"
	DefaultTracingTarget  = "localhost:4317"
)

// Loader handles configuration loading with precedence.
type Loader struct {
	configPath string
	version    string
	logger     zerolog.Logger

	// EnvSources maps every DEVFRONT_* key consulted by Load to its source.
	EnvSources map[string]EnvSource
}

// NewLoader creates a new configuration loader.
func NewLoader(configPath, version string) *Loader {
	return &Loader{
		configPath: configPath,
		version:    version,
		logger:     log.WithComponent("config"),
		EnvSources: make(map[string]EnvSource),
	}
}

// Load loads configuration with precedence: ENV > File > Defaults,
// then validates the result.
func (l *Loader) Load() (AppConfig, error) {
	cfg := Defaults()

	if l.configPath != "" {
		fileCfg, err := l.loadFile(l.configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
		mergeFileConfig(&cfg, fileCfg)
	}

	l.mergeEnvConfig(&cfg)

	if abs, err := filepath.Abs(cfg.Root); err == nil {
		cfg.Root = abs
	}
	cfg.Version = l.version

	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Defaults returns the configuration used when neither file nor env set a value.
func Defaults() AppConfig {
	return AppConfig{
		LogLevel:       DefaultLogLevel,
		LogService:     DefaultLogService,
		ListenAddr:     DefaultListenAddr,
		Root:           ".",
		StaticDir:      DefaultStaticDir,
		VersionFile:    buildcfg.DefaultVersionFile,
		Variant:        string(buildcfg.DefaultVariant),
		Watch:          true,
		AssetCacheSize: DefaultAssetCacheSize,
		Proxy: ProxyConfig{
			RateLimitWindow: DefaultProxyWindow,
			DialTimeout:     DefaultDialTimeout,
		},
		Tracing: TracingConfig{
			Exporter:     DefaultTracingExport,
			Endpoint:     DefaultTracingTarget,
			SamplingRate: 1.0,
		},
		Server: defaultServerRuntimeConfig(),
	}
}

// LoadFileConfig loads a YAML config file without applying defaults or env overrides.
func LoadFileConfig(path string) (*FileConfig, error) {
	return NewLoader(path, "").loadFile(path)
}

// loadFile loads configuration from a YAML file with STRICT parsing.
// Unknown fields cause an error to prevent silent misconfiguration.
func (l *Loader) loadFile(path string) (*FileConfig, error) {
	path = filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("unsupported config format: %s (only YAML supported)", ext)
	}

	// #nosec G304 -- configuration file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var fileCfg FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&fileCfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &FileConfig{}, nil
		}
		if strings.Contains(err.Error(), "field") && strings.Contains(err.Error(), "not found") {
			return nil, fmt.Errorf("strict config parse error: %w: %w", ErrUnknownConfigField, err)
		}
		return nil, fmt.Errorf("strict config parse error: %w", err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config file contains multiple documents or trailing content")
	}

	return &fileCfg, nil
}

func mergeFileConfig(cfg *AppConfig, f *FileConfig) {
	if f == nil {
		return
	}
	setString(&cfg.ListenAddr, f.Listen)
	if len(f.TrustedProxies) > 0 {
		cfg.TrustedProxies = append([]string(nil), f.TrustedProxies...)
	}
	setString(&cfg.Root, f.Root)
	setString(&cfg.StaticDir, f.StaticDir)
	setString(&cfg.VersionFile, f.VersionFile)
	setString(&cfg.Variant, f.Variant)
	if f.Watch != nil {
		cfg.Watch = *f.Watch
	}
	if f.AssetCacheSize != nil {
		cfg.AssetCacheSize = *f.AssetCacheSize
	}
	setString(&cfg.LogLevel, f.Log.Level)
	setString(&cfg.LogService, f.Log.Service)
	setString(&cfg.MetricsAddr, f.Metrics.Listen)

	if f.Proxy.RateLimit.Requests != nil {
		cfg.Proxy.RateLimitRequests = *f.Proxy.RateLimit.Requests
	}
	if f.Proxy.RateLimit.Window > 0 {
		cfg.Proxy.RateLimitWindow = f.Proxy.RateLimit.Window
	}
	if f.Proxy.DialTimeout > 0 {
		cfg.Proxy.DialTimeout = f.Proxy.DialTimeout
	}

	if f.Tracing.Enabled != nil {
		cfg.Tracing.Enabled = *f.Tracing.Enabled
	}
	setString(&cfg.Tracing.Exporter, f.Tracing.Exporter)
	setString(&cfg.Tracing.Endpoint, f.Tracing.Endpoint)
	if f.Tracing.SamplingRate != nil {
		cfg.Tracing.SamplingRate = *f.Tracing.SamplingRate
	}

	if f.Server.ReadTimeout > 0 {
		cfg.Server.ReadTimeout = f.Server.ReadTimeout
	}
	if f.Server.WriteTimeout != nil {
		cfg.Server.WriteTimeout = *f.Server.WriteTimeout
	}
	if f.Server.IdleTimeout > 0 {
		cfg.Server.IdleTimeout = f.Server.IdleTimeout
	}
	if f.Server.MaxHeaderBytes > 0 {
		cfg.Server.MaxHeaderBytes = f.Server.MaxHeaderBytes
	}
	if f.Server.ShutdownTimeout > 0 {
		cfg.Server.ShutdownTimeout = f.Server.ShutdownTimeout
	}
}

func (l *Loader) mergeEnvConfig(cfg *AppConfig) {
	cfg.ListenAddr = l.envString(EnvListen, cfg.ListenAddr)
	cfg.MetricsAddr = l.envString(EnvMetricsListen, cfg.MetricsAddr)
	if raw := l.envString(EnvTrustedProxies, ""); raw != "" {
		cfg.TrustedProxies = splitList(raw)
	}
	cfg.Root = l.envString(EnvRoot, cfg.Root)
	cfg.StaticDir = l.envString(EnvStaticDir, cfg.StaticDir)
	cfg.VersionFile = l.envString(EnvVersionFile, cfg.VersionFile)
	cfg.Variant = l.envString(EnvVariant, cfg.Variant)
	cfg.Watch = l.envBool(EnvWatch, cfg.Watch)
	cfg.AssetCacheSize = l.envInt(EnvAssetCacheSize, cfg.AssetCacheSize)
	cfg.LogLevel = l.envString(EnvLogLevel, cfg.LogLevel)
	cfg.LogService = l.envString(EnvLogService, cfg.LogService)

	cfg.Proxy.RateLimitRequests = l.envInt(EnvProxyRequests, cfg.Proxy.RateLimitRequests)
	cfg.Proxy.RateLimitWindow = l.envDuration(EnvProxyWindow, cfg.Proxy.RateLimitWindow)
	cfg.Proxy.DialTimeout = l.envDuration(EnvProxyDial, cfg.Proxy.DialTimeout)

	cfg.Tracing.Enabled = l.envBool(EnvTracingEnabled, cfg.Tracing.Enabled)
	cfg.Tracing.Exporter = l.envString(EnvTracingExporter, cfg.Tracing.Exporter)
	cfg.Tracing.Endpoint = l.envString(EnvTracingEndpoint, cfg.Tracing.Endpoint)
	cfg.Tracing.SamplingRate = l.envFloat(EnvTracingSampling, cfg.Tracing.SamplingRate)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func setString(dst *string, v string) {
	if strings.TrimSpace(v) != "" {
		*dst = v
	}
}

// StaticPath returns the asset directory resolved against Root.
func (c AppConfig) StaticPath() string {
	if filepath.IsAbs(c.StaticDir) {
		return c.StaticDir
	}
	return filepath.Join(c.Root, c.StaticDir)
}

// BuildOptions maps the process configuration onto build assembly options.
func (c AppConfig) BuildOptions() (buildcfg.Options, error) {
	variant, err := buildcfg.ParseVariant(c.Variant)
	if err != nil {
		return buildcfg.Options{}, err
	}
	return buildcfg.Options{
		Variant:     variant,
		Root:        c.Root,
		VersionFile: c.VersionFile,
	}, nil
}
