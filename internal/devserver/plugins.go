// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package devserver

import (
	"fmt"
	"path"
	"strings"

	"github.com/ManuGH/devfront/internal/buildcfg"
	"github.com/ManuGH/devfront/internal/log"
	"github.com/rs/zerolog"
)

// DefaultSPAFallback is the document served for client-side routes.
const DefaultSPAFallback = "index.html"

// siteOptions is the serving behaviour plugins may switch on.
type siteOptions struct {
	// spaFallback, when set, is served for extensionless paths that match
	// no file, so the client router can resolve them.
	spaFallback string
}

// pluginActivator applies one plugin's server-side behaviour.
type pluginActivator func(opts map[string]any, site *siteOptions) error

var pluginRegistry = map[string]pluginActivator{
	buildcfg.PluginSvelteKit:   activateSvelteKit,
	buildcfg.PluginTailwindCSS: activateTailwindCSS,
}

// activateSvelteKit enables SPA fallback. The "fallback" option mirrors the
// static adapter setting of the same name.
func activateSvelteKit(opts map[string]any, site *siteOptions) error {
	fallback := DefaultSPAFallback
	if raw, ok := opts["fallback"]; ok {
		s, ok := raw.(string)
		if !ok {
			return fmt.Errorf("option fallback: expected string, got %T", raw)
		}
		s = strings.TrimPrefix(path.Clean("/"+s), "/")
		if s == "" || s == "." {
			return fmt.Errorf("option fallback: empty document name")
		}
		fallback = s
	}
	site.spaFallback = fallback
	return nil
}

// activateTailwindCSS has nothing to do at serve time; stylesheets are
// produced by the external toolchain and served as ordinary assets.
func activateTailwindCSS(map[string]any, *siteOptions) error {
	return nil
}

// applyPlugins activates plugins in list order and returns the names that
// took effect. Unknown plugins are logged and skipped.
func applyPlugins(plugins []buildcfg.Plugin, site *siteOptions, logger zerolog.Logger) ([]string, error) {
	active := make([]string, 0, len(plugins))
	for _, p := range plugins {
		activate, ok := pluginRegistry[p.Name]
		if !ok {
			logger.Warn().
				Str(log.FieldEvent, "plugin.unknown").
				Str(log.FieldPlugin, p.Name).
				Msg("plugin has no server-side implementation, ignoring")
			continue
		}
		if err := activate(p.Options, site); err != nil {
			return nil, fmt.Errorf("plugin %s: %w", p.Name, err)
		}
		logger.Debug().
			Str(log.FieldEvent, "plugin.activated").
			Str(log.FieldPlugin, p.Name).
			Msg("plugin activated")
		active = append(active, p.Name)
	}
	return active, nil
}
