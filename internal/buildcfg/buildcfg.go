// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package buildcfg assembles the Build Configuration: the plugin list, the
// dev proxy table and the compile-time constants handed to the front-end.
//
// A BuildConfig is assembled once at startup and is read-only afterwards.
// Accessors return copies so no caller can mutate the shared record.
package buildcfg

import (
	"fmt"
	"path/filepath"
	"strings"

	xglog "github.com/ManuGH/devfront/internal/log"
)

// VersionConstant is the compile-time symbol bound to the version string.
const VersionConstant = "__APP_VERSION__"

// Variant selects whether the version constant is read and exported.
type Variant string

const (
	// VariantProxy carries plugins and the proxy table only.
	VariantProxy Variant = "proxy"
	// VariantVersioned additionally reads VERSION into VersionConstant.
	VariantVersioned Variant = "versioned"
)

// DefaultVariant keeps both the proxy rule and the version constant.
const DefaultVariant = VariantVersioned

// ParseVariant converts a configuration string into a Variant.
// The empty string yields DefaultVariant.
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(strings.ToLower(strings.TrimSpace(s))); v {
	case "":
		return DefaultVariant, nil
	case VariantProxy, VariantVersioned:
		return v, nil
	default:
		return "", fmt.Errorf("%w: %q (want %q or %q)", ErrInvalidVariant, s, VariantProxy, VariantVersioned)
	}
}

// Options controls assembly.
type Options struct {
	Variant Variant
	// Root is the directory relative version file paths are resolved against.
	Root string
	// VersionFile defaults to DefaultVersionFile.
	VersionFile string
}

// VersionPath returns the resolved path of the version file.
func (o Options) VersionPath() string {
	name := o.VersionFile
	if name == "" {
		name = DefaultVersionFile
	}
	if filepath.IsAbs(name) || o.Root == "" {
		return name
	}
	return filepath.Join(o.Root, name)
}

// BuildConfig is the immutable Build Configuration record.
type BuildConfig struct {
	variant    Variant
	plugins    []Plugin
	proxy      ProxyTable
	version    string
	hasVersion bool
}

// Assemble builds the configuration record. In the versioned variant the
// version file is read exactly once; any failure aborts assembly and no
// record is returned.
func Assemble(opts Options) (*BuildConfig, error) {
	variant, err := ParseVariant(string(opts.Variant))
	if err != nil {
		return nil, err
	}

	cfg := &BuildConfig{
		variant: variant,
		plugins: DefaultPlugins(),
		proxy:   DefaultProxyTable(),
	}
	if err := cfg.proxy.Validate(); err != nil {
		return nil, err
	}

	if variant == VariantVersioned {
		path := opts.VersionPath()
		v, err := LoadVersion(path)
		if err != nil {
			return nil, fmt.Errorf("assemble build config: %w", err)
		}
		cfg.version = v
		cfg.hasVersion = true
	}

	logger := xglog.WithComponent("buildcfg")
	logger.Debug().
		Str(xglog.FieldEvent, "buildcfg.assembled").
		Str(xglog.FieldVariant, string(variant)).
		Int("plugins", len(cfg.plugins)).
		Int("proxy_rules", len(cfg.proxy)).
		Bool("versioned", cfg.hasVersion).
		Msg("build configuration assembled")

	return cfg, nil
}

// Variant reports which variant produced the record.
func (c *BuildConfig) Variant() Variant {
	return c.variant
}

// Plugins returns a copy of the ordered plugin list.
func (c *BuildConfig) Plugins() []Plugin {
	return clonePlugins(c.plugins)
}

// Proxy returns a copy of the proxy table.
func (c *BuildConfig) Proxy() ProxyTable {
	return c.proxy.Clone()
}

// Version returns the captured version string. ok is false when the
// variant does not export a version.
func (c *BuildConfig) Version() (version string, ok bool) {
	return c.version, c.hasVersion
}

// Define returns the compile-time constants. It is empty in the proxy variant.
func (c *BuildConfig) Define() map[string]string {
	out := make(map[string]string, 1)
	if c.hasVersion {
		out[VersionConstant] = c.version
	}
	return out
}

// Record is the serialisable view of a BuildConfig.
type Record struct {
	Variant Variant           `json:"variant" yaml:"variant"`
	Plugins []Plugin          `json:"plugins" yaml:"plugins"`
	Proxy   ProxyTable        `json:"proxy" yaml:"proxy"`
	Version *string           `json:"version,omitempty" yaml:"version,omitempty"`
	Define  map[string]string `json:"define,omitempty" yaml:"define,omitempty"`
}

// Record returns a serialisable copy of the configuration.
func (c *BuildConfig) Record() Record {
	r := Record{
		Variant: c.variant,
		Plugins: c.Plugins(),
		Proxy:   c.Proxy(),
	}
	if c.hasVersion {
		v := c.version
		r.Version = &v
		r.Define = c.Define()
	}
	return r
}
