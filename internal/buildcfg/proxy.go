// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package buildcfg

import (
	"fmt"
	"maps"
	"net/url"
	"sort"
	"strings"
)

// Default dev proxy rule: API calls go to the backend on port 5000.
const (
	DefaultAPIPrefix = "/api"
	DefaultAPITarget = "http://localhost:5000"
)

// ProxyTable maps a URL path prefix to a target origin. Map keys make the
// prefixes unique.
type ProxyTable map[string]string

// DefaultProxyTable returns the single-entry table {"/api": "http://localhost:5000"}.
func DefaultProxyTable() ProxyTable {
	return ProxyTable{DefaultAPIPrefix: DefaultAPITarget}
}

// Validate checks that every prefix is an absolute path and every target is
// an http(s) origin.
func (t ProxyTable) Validate() error {
	for prefix, target := range t {
		if !strings.HasPrefix(prefix, "/") {
			return fmt.Errorf("%w: prefix %q must start with /", ErrInvalidProxyRule, prefix)
		}
		u, err := url.Parse(target)
		if err != nil {
			return fmt.Errorf("%w: target %q for %s: %v", ErrInvalidProxyRule, target, prefix, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("%w: target %q for %s must use http or https", ErrInvalidProxyRule, target, prefix)
		}
		if u.Host == "" {
			return fmt.Errorf("%w: target %q for %s has no host", ErrInvalidProxyRule, target, prefix)
		}
	}
	return nil
}

// Prefixes returns the prefixes longest first, ties broken lexically, so the
// most specific rule wins when rules overlap.
func (t ProxyTable) Prefixes() []string {
	out := make([]string, 0, len(t))
	for p := range t {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}

// Match returns the rule for a request path. A rule matches any path that
// begins with its prefix.
func (t ProxyTable) Match(path string) (prefix, target string, ok bool) {
	for _, p := range t.Prefixes() {
		if strings.HasPrefix(path, p) {
			return p, t[p], true
		}
	}
	return "", "", false
}

// Clone returns an independent copy of the table.
func (t ProxyTable) Clone() ProxyTable {
	if t == nil {
		return ProxyTable{}
	}
	return maps.Clone(t)
}
