// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import "time"

// AppConfig is the fully merged process configuration (defaults < file < env).
type AppConfig struct {
	// Version is the devfront binary version, not the front-end VERSION file.
	Version string

	LogLevel   string
	LogService string

	ListenAddr  string
	MetricsAddr string
	// TrustedProxies may set X-Forwarded-Proto (CIDR or bare IP).
	TrustedProxies []string

	// Root is the project directory. StaticDir and VersionFile are resolved against it.
	Root        string
	StaticDir   string
	VersionFile string
	Variant     string

	// Watch enables the asset directory watcher that purges the transform cache.
	Watch bool
	// AssetCacheSize bounds the transformed asset cache. 0 disables caching.
	AssetCacheSize int

	Proxy   ProxyConfig
	Tracing TracingConfig
	Server  ServerRuntimeConfig
}

// ProxyConfig tunes the dev proxy transport. The proxy table itself is part
// of the build configuration and is not configurable here.
type ProxyConfig struct {
	// RateLimitRequests per RateLimitWindow per client IP. 0 disables limiting.
	RateLimitRequests int
	RateLimitWindow   time.Duration
	// DialTimeout bounds connecting to the backend.
	DialTimeout time.Duration
}

// TracingConfig configures OpenTelemetry export.
type TracingConfig struct {
	Enabled      bool
	Exporter     string // "grpc" or "http"
	Endpoint     string
	SamplingRate float64
}

// ServerRuntimeConfig holds HTTP server tuning read from file/defaults.
type ServerRuntimeConfig struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	MaxHeaderBytes  int
	ShutdownTimeout time.Duration
}

// FileConfig is the YAML representation. Pointer fields distinguish
// "absent" from zero values so the file only overrides what it sets.
type FileConfig struct {
	Listen         string          `yaml:"listen,omitempty"`
	TrustedProxies []string        `yaml:"trustedProxies,omitempty"`
	Root           string          `yaml:"root,omitempty"`
	StaticDir      string          `yaml:"staticDir,omitempty"`
	VersionFile    string          `yaml:"versionFile,omitempty"`
	Variant        string          `yaml:"variant,omitempty"`
	Watch          *bool           `yaml:"watch,omitempty"`
	AssetCacheSize *int            `yaml:"assetCacheSize,omitempty"`
	Log            LogFileConfig   `yaml:"log,omitempty"`
	Metrics        MetricsFile     `yaml:"metrics,omitempty"`
	Proxy          ProxyFileConfig `yaml:"proxy,omitempty"`
	Tracing        TracingFile     `yaml:"tracing,omitempty"`
	Server         ServerFile      `yaml:"server,omitempty"`
}

// LogFileConfig is the log section of the YAML file.
type LogFileConfig struct {
	Level   string `yaml:"level,omitempty"`
	Service string `yaml:"service,omitempty"`
}

// MetricsFile is the metrics section of the YAML file.
type MetricsFile struct {
	Listen string `yaml:"listen,omitempty"`
}

// ProxyFileConfig is the proxy section of the YAML file.
type ProxyFileConfig struct {
	RateLimit struct {
		Requests *int          `yaml:"requests,omitempty"`
		Window   time.Duration `yaml:"window,omitempty"`
	} `yaml:"rateLimit,omitempty"`
	DialTimeout time.Duration `yaml:"dialTimeout,omitempty"`
}

// TracingFile is the tracing section of the YAML file.
type TracingFile struct {
	Enabled      *bool    `yaml:"enabled,omitempty"`
	Exporter     string   `yaml:"exporter,omitempty"`
	Endpoint     string   `yaml:"endpoint,omitempty"`
	SamplingRate *float64 `yaml:"samplingRate,omitempty"`
}

// ServerFile is the server section of the YAML file.
type ServerFile struct {
	ReadTimeout     time.Duration  `yaml:"readTimeout,omitempty"`
	WriteTimeout    *time.Duration `yaml:"writeTimeout,omitempty"`
	IdleTimeout     time.Duration  `yaml:"idleTimeout,omitempty"`
	MaxHeaderBytes  int            `yaml:"maxHeaderBytes,omitempty"`
	ShutdownTimeout time.Duration  `yaml:"shutdownTimeout,omitempty"`
}
