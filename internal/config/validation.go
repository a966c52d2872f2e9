// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ManuGH/devfront/internal/buildcfg"
	"github.com/ManuGH/devfront/internal/control/middleware"
	"github.com/rs/zerolog"
)

// Validate checks the merged configuration. All problems are reported together.
func Validate(cfg AppConfig) error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if strings.TrimSpace(cfg.ListenAddr) == "" {
		add("listen address must not be empty")
	}
	if strings.TrimSpace(cfg.StaticDir) == "" {
		add("static dir must not be empty")
	}
	if _, err := middleware.ParseCIDRs(cfg.TrustedProxies); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidConfig, err))
	}
	if _, err := buildcfg.ParseVariant(cfg.Variant); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidConfig, err))
	}
	if cfg.LogLevel != "" {
		if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
			add("log level %q: %v", cfg.LogLevel, err)
		}
	}
	if cfg.AssetCacheSize < 0 {
		add("asset cache size must be >= 0, got %d", cfg.AssetCacheSize)
	}

	if cfg.Proxy.RateLimitRequests < 0 {
		add("proxy rate limit must be >= 0, got %d", cfg.Proxy.RateLimitRequests)
	}
	if cfg.Proxy.RateLimitRequests > 0 && cfg.Proxy.RateLimitWindow <= 0 {
		add("proxy rate window must be > 0 when rate limiting is enabled")
	}
	if cfg.Proxy.DialTimeout < 0 {
		add("proxy dial timeout must be >= 0")
	}

	if cfg.Tracing.Enabled {
		switch cfg.Tracing.Exporter {
		case "grpc", "http":
		default:
			add("tracing exporter %q (supported: grpc, http)", cfg.Tracing.Exporter)
		}
		if strings.TrimSpace(cfg.Tracing.Endpoint) == "" {
			add("tracing endpoint must be set when tracing is enabled")
		}
	}
	if cfg.Tracing.SamplingRate < 0 || cfg.Tracing.SamplingRate > 1 {
		add("tracing sampling rate must be within [0,1], got %v", cfg.Tracing.SamplingRate)
	}

	if cfg.Server.WriteTimeout < 0 {
		add("server write timeout must be >= 0")
	}

	return errors.Join(errs...)
}
