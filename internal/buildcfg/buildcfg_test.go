// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package buildcfg

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeVersion(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, DefaultVersionFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadVersion_Trims(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "trailing newline", content: "1.2.3\n", want: "1.2.3"},
		{name: "surrounding spaces", content: "  0.0.1-beta  ", want: "0.0.1-beta"},
		{name: "crlf and tabs", content: "\t2.0.0\r\n", want: "2.0.0"},
		{name: "internal whitespace kept", content: " 1.0 build  7 \n", want: "1.0 build  7"},
		{name: "whitespace only", content: " \n\t ", want: ""},
		{name: "byte order mark", content: "\ufeff1.2.3\n", want: "1.2.3"},
		{name: "no-break space", content: "\u00a01.2.3\u00a0", want: "1.2.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeVersion(t, t.TempDir(), tt.content)
			got, err := LoadVersion(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadVersion_Idempotent(t *testing.T) {
	path := writeVersion(t, t.TempDir(), "3.1.4\n")
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	first, err := LoadVersion(path)
	require.NoError(t, err)
	second, err := LoadVersion(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after, "loading must not modify the file")
}

func TestLoadVersion_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultVersionFile)

	_, err := LoadVersion(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrVersionNotFound)
	assert.ErrorIs(t, err, ErrVersionIO)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	var verr *VersionError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, path, verr.Path)
}

func TestLoadVersion_Unreadable(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for this user")
	}
	path := writeVersion(t, t.TempDir(), "1.0.0")
	require.NoError(t, os.Chmod(path, 0o000))

	_, err := LoadVersion(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrVersionIO)
	assert.NotErrorIs(t, err, ErrVersionNotFound)
	assert.ErrorIs(t, err, fs.ErrPermission)
}

func TestLoadVersion_Directory(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadVersion(dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrVersionIO)
}

func TestLoadVersion_InvalidUTF8(t *testing.T) {
	path := writeVersion(t, t.TempDir(), "1.0\xff\xfe")
	_, err := LoadVersion(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrVersionIO)
	assert.NotErrorIs(t, err, ErrVersionNotFound)
}

func TestAssemble_Versioned(t *testing.T) {
	dir := t.TempDir()
	writeVersion(t, dir, "1.2.3\n")

	cfg, err := Assemble(Options{Variant: VariantVersioned, Root: dir})
	require.NoError(t, err)

	v, ok := cfg.Version()
	assert.True(t, ok)
	assert.Equal(t, "1.2.3", v)
	assert.Equal(t, map[string]string{VersionConstant: "1.2.3"}, cfg.Define())
	assert.Equal(t, ProxyTable{"/api": "http://localhost:5000"}, cfg.Proxy())
	assert.Equal(t, VariantVersioned, cfg.Variant())
}

func TestAssemble_VersionedSpaces(t *testing.T) {
	dir := t.TempDir()
	writeVersion(t, dir, "  0.0.1-beta  ")

	cfg, err := Assemble(Options{Variant: VariantVersioned, Root: dir})
	require.NoError(t, err)
	assert.Equal(t, "0.0.1-beta", cfg.Define()[VersionConstant])
}

func TestAssemble_MissingVersionFails(t *testing.T) {
	cfg, err := Assemble(Options{Variant: VariantVersioned, Root: t.TempDir()})
	require.Error(t, err)
	assert.Nil(t, cfg, "no record may be produced on failure")
	assert.ErrorIs(t, err, ErrVersionNotFound)
	assert.ErrorIs(t, err, ErrVersionIO)
}

func TestAssemble_ProxyVariant(t *testing.T) {
	// No VERSION file exists; the proxy variant never looks for one.
	cfg, err := Assemble(Options{Variant: VariantProxy, Root: t.TempDir()})
	require.NoError(t, err)

	assert.Equal(t, ProxyTable{"/api": "http://localhost:5000"}, cfg.Proxy())
	_, ok := cfg.Version()
	assert.False(t, ok)
	assert.Empty(t, cfg.Define())

	raw, err := json.Marshal(cfg.Record())
	require.NoError(t, err)
	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.NotContains(t, fields, "version")
	assert.NotContains(t, fields, "define")
}

func TestAssemble_DefaultVariantIsVersioned(t *testing.T) {
	dir := t.TempDir()
	writeVersion(t, dir, "9.9.9")

	cfg, err := Assemble(Options{Root: dir})
	require.NoError(t, err)
	assert.Equal(t, VariantVersioned, cfg.Variant())
}

func TestAssemble_CustomVersionFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "release.txt")
	require.NoError(t, os.WriteFile(path, []byte("4.5.6\n"), 0o600))

	cfg, err := Assemble(Options{Variant: VariantVersioned, VersionFile: path})
	require.NoError(t, err)
	v, _ := cfg.Version()
	assert.Equal(t, "4.5.6", v)
}

func TestAssemble_InvalidVariant(t *testing.T) {
	_, err := Assemble(Options{Variant: "legacy"})
	assert.ErrorIs(t, err, ErrInvalidVariant)
}

func TestAssemble_PluginOrder(t *testing.T) {
	cfg, err := Assemble(Options{Variant: VariantProxy})
	require.NoError(t, err)

	want := []Plugin{{Name: PluginTailwindCSS}, {Name: PluginSvelteKit}}
	if diff := cmp.Diff(want, cfg.Plugins()); diff != "" {
		t.Errorf("plugins mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildConfig_Immutable(t *testing.T) {
	dir := t.TempDir()
	writeVersion(t, dir, "1.0.0")
	cfg, err := Assemble(Options{Root: dir})
	require.NoError(t, err)

	proxy := cfg.Proxy()
	proxy["/other"] = "http://localhost:9999"
	delete(proxy, "/api")

	plugins := cfg.Plugins()
	plugins[0].Name = "mutated"

	define := cfg.Define()
	define[VersionConstant] = "tampered"

	assert.Equal(t, DefaultProxyTable(), cfg.Proxy())
	assert.Equal(t, PluginTailwindCSS, cfg.Plugins()[0].Name)
	assert.Equal(t, "1.0.0", cfg.Define()[VersionConstant])
}

func TestBuildConfig_VersionNotReread(t *testing.T) {
	dir := t.TempDir()
	path := writeVersion(t, dir, "1.0.0\n")
	cfg, err := Assemble(Options{Root: dir})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("2.0.0\n"), 0o600))

	v, _ := cfg.Version()
	assert.Equal(t, "1.0.0", v)
}

func TestParseVariant(t *testing.T) {
	tests := []struct {
		in      string
		want    Variant
		wantErr bool
	}{
		{in: "", want: VariantVersioned},
		{in: "proxy", want: VariantProxy},
		{in: " Versioned ", want: VariantVersioned},
		{in: "both", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseVariant(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidVariant)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
