// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// EnvSource records where the final value of a DEVFRONT_* setting came from.
type EnvSource string

const (
	// SourceEnv means the environment variable was set and parsed.
	SourceEnv EnvSource = "environment"
	// SourceDefault means the variable was unset or empty; the file/default value stands.
	SourceDefault EnvSource = "default"
	// SourceInvalid means the variable was set but rejected; the file/default value stands.
	SourceInvalid EnvSource = "invalid"
)

// envValue resolves key against the process environment and records its
// source on the loader. fallback is the value from the file or defaults.
func envValue[T any](l *Loader, key string, fallback T, parse func(string) (T, error)) T {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		l.EnvSources[key] = SourceDefault
		return fallback
	}

	v, err := parse(raw)
	if err != nil {
		l.EnvSources[key] = SourceInvalid
		l.logger.Warn().
			Err(err).
			Str("key", key).
			Str("value", raw).
			Msg("ignoring invalid environment value")
		return fallback
	}

	l.EnvSources[key] = SourceEnv
	l.logger.Debug().
		Str("key", key).
		Str("source", string(SourceEnv)).
		Msg("config value overridden")
	return v
}

func (l *Loader) envString(key, fallback string) string {
	return envValue(l, key, fallback, func(s string) (string, error) { return s, nil })
}

func (l *Loader) envBool(key string, fallback bool) bool {
	return envValue(l, key, fallback, parseBool)
}

func (l *Loader) envInt(key string, fallback int) int {
	return envValue(l, key, fallback, strconv.Atoi)
}

func (l *Loader) envDuration(key string, fallback time.Duration) time.Duration {
	return envValue(l, key, fallback, time.ParseDuration)
}

func (l *Loader) envFloat(key string, fallback float64) float64 {
	return envValue(l, key, fallback, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

// parseBool accepts true/false, 1/0, yes/no and on/off in any case.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean: %q", s)
}
