// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package daemon provides the core daemon bootstrapping and lifecycle management.
package daemon

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ManuGH/devfront/internal/buildcfg"
	"github.com/ManuGH/devfront/internal/config"
	"github.com/ManuGH/devfront/internal/control/middleware"
	"github.com/ManuGH/devfront/internal/devserver"
	"github.com/ManuGH/devfront/internal/health"
	"github.com/ManuGH/devfront/internal/log"
	"github.com/ManuGH/devfront/internal/metrics"
	"github.com/ManuGH/devfront/internal/telemetry"
)

// ServiceName identifies devfront in traces and logs.
const ServiceName = "devfront"

// Runtime is the fully wired process.
type Runtime struct {
	Build  *buildcfg.BuildConfig
	Server *devserver.Server
	App    *App
}

// Bootstrap assembles the build configuration and wires every component.
// Assembly runs first and synchronously: when the version file cannot be
// read, its error is returned unchanged and nothing is started.
func Bootstrap(ctx context.Context, cfg config.AppConfig) (*Runtime, error) {
	logger := log.WithComponent("daemon")

	opts, err := cfg.BuildOptions()
	if err != nil {
		return nil, err
	}
	build, err := buildcfg.Assemble(opts)
	if err != nil {
		return nil, err
	}

	appVersion, _ := build.Version()
	metrics.SetBuildInfo(string(build.Variant()), appVersion, cfg.Version)

	logger.Info().
		Str(log.FieldEvent, "buildcfg.ready").
		Str(log.FieldVariant, string(build.Variant())).
		Str("app_version", appVersion).
		Msg("build configuration assembled")

	provider, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.Tracing.Enabled,
		ServiceName:    ServiceName,
		ServiceVersion: cfg.Version,
		ExporterType:   cfg.Tracing.Exporter,
		Endpoint:       cfg.Tracing.Endpoint,
		SamplingRate:   cfg.Tracing.SamplingRate,
	})
	if err != nil {
		logger.Warn().Err(err).Str(log.FieldEvent, "telemetry.init_failed").Msg("telemetry initialization failed, continuing without tracing")
		provider = nil
	}

	hm := health.NewManager(cfg.Version)
	if build.Variant() == buildcfg.VariantVersioned {
		// Read once at startup; reported so a broken file is noticed before the next restart.
		hm.RegisterChecker(health.NewFileChecker("version_file", opts.VersionPath()))
	}

	trusted, err := middleware.ParseCIDRs(cfg.TrustedProxies)
	if err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}

	stack := middleware.StackConfig{
		EnableSecurityHeaders: true,
		TrustedProxies:        trusted,
		EnableMetrics:         true,
		EnableLogging:         true,
	}
	if provider.Enabled() {
		stack.TracingService = ServiceName
	}

	srv, err := devserver.New(devserver.Config{
		Build:          build,
		StaticDir:      cfg.StaticPath(),
		AssetCacheSize: cfg.AssetCacheSize,
		Proxy: devserver.ProxyOptions{
			RateLimitRequests: cfg.Proxy.RateLimitRequests,
			RateLimitWindow:   cfg.Proxy.RateLimitWindow,
			DialTimeout:       cfg.Proxy.DialTimeout,
		},
		Stack:   stack,
		Health:  hm,
		Version: cfg.Version,
	})
	if err != nil {
		return nil, fmt.Errorf("dev server: %w", err)
	}

	mgr, err := NewManager(config.ServerConfigFor(cfg), Deps{
		Logger:         logger,
		Handler:        srv,
		MetricsAddr:    cfg.MetricsAddr,
		MetricsHandler: promhttp.Handler(),
	})
	if err != nil {
		return nil, err
	}
	if provider != nil {
		mgr.RegisterShutdownHook("telemetry", provider.Shutdown)
	}

	var watcher Runner
	if cfg.Watch {
		assets := srv.Assets()
		watcher = devserver.NewWatcher(assets.Dir(), devserver.DefaultWatchDebounce, func() {
			n := assets.Purge("watch")
			logger.Debug().
				Str(log.FieldEvent, "assets.purged").
				Int("entries", n).
				Msg("asset directory changed, transform cache purged")
		})
	}

	return &Runtime{
		Build:  build,
		Server: srv,
		App:    NewApp(logger, mgr, watcher),
	}, nil
}
