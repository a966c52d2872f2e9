// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package devserver

import (
	"bytes"
	"testing"

	"github.com/ManuGH/devfront/internal/buildcfg"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyPlugins_Defaults(t *testing.T) {
	var site siteOptions
	active, err := applyPlugins(buildcfg.DefaultPlugins(), &site, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, []string{buildcfg.PluginTailwindCSS, buildcfg.PluginSvelteKit}, active)
	assert.Equal(t, DefaultSPAFallback, site.spaFallback)
}

func TestApplyPlugins_TailwindOnly(t *testing.T) {
	var site siteOptions
	active, err := applyPlugins([]buildcfg.Plugin{{Name: buildcfg.PluginTailwindCSS}}, &site, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, []string{buildcfg.PluginTailwindCSS}, active)
	assert.Empty(t, site.spaFallback)
}

func TestApplyPlugins_UnknownIsSkipped(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	var site siteOptions
	active, err := applyPlugins([]buildcfg.Plugin{{Name: "mdsvex"}, {Name: buildcfg.PluginSvelteKit}}, &site, logger)
	require.NoError(t, err)

	assert.Equal(t, []string{buildcfg.PluginSvelteKit}, active)
	assert.Contains(t, buf.String(), `"event":"plugin.unknown"`)
	assert.Contains(t, buf.String(), `"plugin":"mdsvex"`)
}

func TestActivateSvelteKit_FallbackOption(t *testing.T) {
	tests := []struct {
		name    string
		opts    map[string]any
		want    string
		wantErr bool
	}{
		{name: "default", opts: nil, want: "index.html"},
		{name: "custom", opts: map[string]any{"fallback": "200.html"}, want: "200.html"},
		{name: "leading slash", opts: map[string]any{"fallback": "/app/shell.html"}, want: "app/shell.html"},
		{name: "escape is clamped", opts: map[string]any{"fallback": "../../etc/passwd"}, want: "etc/passwd"},
		{name: "wrong type", opts: map[string]any{"fallback": 200}, wantErr: true},
		{name: "empty", opts: map[string]any{"fallback": ""}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var site siteOptions
			err := activateSvelteKit(tt.opts, &site)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, site.spaFallback)
		})
	}
}

func TestApplyPlugins_OptionErrorNamesPlugin(t *testing.T) {
	var site siteOptions
	_, err := applyPlugins([]buildcfg.Plugin{{
		Name:    buildcfg.PluginSvelteKit,
		Options: map[string]any{"fallback": true},
	}}, &site, zerolog.Nop())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "plugin sveltekit")
}
