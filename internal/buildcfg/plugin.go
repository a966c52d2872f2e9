// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package buildcfg

import "maps"

// Plugin names activated by default, in pipeline order.
const (
	PluginTailwindCSS = "tailwindcss"
	PluginSvelteKit   = "sveltekit"
)

// Plugin is an opaque plugin activation value. Only its position in the
// plugin list and its name carry meaning here; Options are passed through.
type Plugin struct {
	Name    string         `json:"name" yaml:"name"`
	Options map[string]any `json:"options,omitempty" yaml:"options,omitempty"`
}

// DefaultPlugins returns the fixed plugin list.
func DefaultPlugins() []Plugin {
	return []Plugin{
		{Name: PluginTailwindCSS},
		{Name: PluginSvelteKit},
	}
}

func clonePlugins(in []Plugin) []Plugin {
	if in == nil {
		return nil
	}
	out := make([]Plugin, len(in))
	for i, p := range in {
		out[i] = Plugin{Name: p.Name, Options: maps.Clone(p.Options)}
	}
	return out
}
