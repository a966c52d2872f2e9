// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package devserver is the HTTP surface of devfront: it forwards proxy rules
// to the backend and serves the compiled front-end with compile-time
// constants substituted in.
package devserver

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/ManuGH/devfront/internal/buildcfg"
	"github.com/ManuGH/devfront/internal/control/http/problem"
	"github.com/ManuGH/devfront/internal/control/middleware"
	"github.com/ManuGH/devfront/internal/define"
	"github.com/ManuGH/devfront/internal/health"
	"github.com/ManuGH/devfront/internal/log"
)

var (
	// ErrMissingBuildConfig is returned when no assembled build configuration is supplied.
	ErrMissingBuildConfig = errors.New("build config is required")
	// ErrMissingStaticDir is returned when no asset directory is configured.
	ErrMissingStaticDir = errors.New("static directory is required")
)

// Config wires the dev server.
type Config struct {
	// Build is the assembled, immutable build configuration.
	Build *buildcfg.BuildConfig
	// StaticDir is the compiled front-end directory.
	StaticDir string
	// AssetCacheSize bounds the transformed asset cache; 0 disables it.
	AssetCacheSize int
	// Proxy tunes the forwarding transport of every proxy rule.
	Proxy ProxyOptions
	// Stack configures the ingress middleware.
	Stack middleware.StackConfig
	// Health receives the server's readiness checks. Created when nil.
	Health *health.Manager
	// Version is the devfront binary version reported by /healthz.
	Version string
}

// Server is the assembled dev HTTP handler.
type Server struct {
	router  *chi.Mux
	assets  *Assets
	proxies []*Proxy
	health  *health.Manager
	plugins []string
	logger  zerolog.Logger
}

// New builds the router for cfg.
func New(cfg Config) (*Server, error) {
	if cfg.Build == nil {
		return nil, ErrMissingBuildConfig
	}
	if strings.TrimSpace(cfg.StaticDir) == "" {
		return nil, ErrMissingStaticDir
	}

	logger := log.WithComponent("devserver")

	var site siteOptions
	active, err := applyPlugins(cfg.Build.Plugins(), &site, logger)
	if err != nil {
		return nil, err
	}

	cache, err := newAssetCache(cfg.AssetCacheSize)
	if err != nil {
		return nil, fmt.Errorf("asset cache: %w", err)
	}

	s := &Server{
		assets:  newAssets(cfg.StaticDir, define.NewReplacer(cfg.Build.Define()), cache, site),
		health:  cfg.Health,
		plugins: active,
		logger:  logger,
	}
	if s.health == nil {
		s.health = health.NewManager(cfg.Version)
	}

	table := cfg.Build.Proxy()
	for _, prefix := range table.Prefixes() {
		p, err := NewProxy(prefix, table[prefix], cfg.Proxy)
		if err != nil {
			return nil, err
		}
		s.proxies = append(s.proxies, p)
	}

	s.registerHealth(cfg.Build, site)
	s.router = s.routes(cfg)

	event := logger.Info().
		Str(log.FieldEvent, "devserver.configured").
		Str(log.FieldVariant, string(cfg.Build.Variant())).
		Str(log.FieldStaticDir, cfg.StaticDir).
		Strs("plugins", active).
		Int("asset_cache_size", cfg.AssetCacheSize)
	if v, ok := cfg.Build.Version(); ok {
		event = event.Str("app_version", v)
	}
	event.Msg("dev server configured")

	return s, nil
}

func (s *Server) routes(cfg Config) *chi.Mux {
	r := middleware.NewRouter(cfg.Stack)

	r.Get("/healthz", s.health.ServeHealth)
	r.Get("/readyz", s.health.ServeReady)

	r.Route(IntrospectionPrefix, func(r chi.Router) {
		r.Get("/config", configHandler(cfg.Build))
		r.Get("/defines.js", definesHandler(cfg.Build))
	})

	// Prefix semantics: "/api" also covers "/api/..." and "/apiv2".
	for _, p := range s.proxies {
		r.Handle(p.Prefix, p)
		r.Handle(p.Prefix+"*", p)
		s.logger.Info().
			Str(log.FieldEvent, "proxy.registered").
			Str(log.FieldPrefix, p.Prefix).
			Str(log.FieldTarget, p.Target.String()).
			Msg("proxy rule registered")
	}

	r.NotFound(s.assets.ServeHTTP)
	r.MethodNotAllowed(problem.MethodNotAllowed)
	return r
}

func (s *Server) registerHealth(build *buildcfg.BuildConfig, site siteOptions) {
	index := site.spaFallback
	if index == "" {
		index = DefaultSPAFallback
	}
	s.health.RegisterChecker(health.NewDirChecker("assets", s.assets.Dir(), index))
	for _, p := range s.proxies {
		s.health.RegisterChecker(health.NewBackendChecker("backend "+p.Prefix, p.Target.String(), 0))
	}
	s.health.SetDetail("variant", string(build.Variant()))
	if v, ok := build.Version(); ok {
		s.health.SetDetail("app_version", v)
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Assets returns the static asset handler.
func (s *Server) Assets() *Assets { return s.assets }

// Proxies returns the proxy handlers, longest prefix first.
func (s *Server) Proxies() []*Proxy { return s.proxies }

// ActivePlugins returns the plugins that took effect, in list order.
func (s *Server) ActivePlugins() []string { return append([]string(nil), s.plugins...) }

// Health returns the health manager serving /healthz and /readyz.
func (s *Server) Health() *health.Manager { return s.health }
