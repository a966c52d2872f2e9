// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoaderEnvHelpers(t *testing.T) {
	t.Setenv("DEVFRONT_TEST_STR", "value")
	t.Setenv("DEVFRONT_TEST_EMPTY", "")
	t.Setenv("DEVFRONT_TEST_INT", "42")
	t.Setenv("DEVFRONT_TEST_BADINT", "forty-two")
	t.Setenv("DEVFRONT_TEST_BOOL", "YES")
	t.Setenv("DEVFRONT_TEST_BADBOOL", "maybe")
	t.Setenv("DEVFRONT_TEST_DUR", "1500ms")
	t.Setenv("DEVFRONT_TEST_FLOAT", "0.25")

	l := NewLoader("", "")

	assert.Equal(t, "value", l.envString("DEVFRONT_TEST_STR", "def"))
	assert.Equal(t, "def", l.envString("DEVFRONT_TEST_EMPTY", "def"))
	assert.Equal(t, "def", l.envString("DEVFRONT_TEST_UNSET", "def"))
	assert.Equal(t, 42, l.envInt("DEVFRONT_TEST_INT", 1))
	assert.Equal(t, 1, l.envInt("DEVFRONT_TEST_BADINT", 1))
	assert.True(t, l.envBool("DEVFRONT_TEST_BOOL", false))
	assert.True(t, l.envBool("DEVFRONT_TEST_BADBOOL", true))
	assert.Equal(t, 1500*time.Millisecond, l.envDuration("DEVFRONT_TEST_DUR", time.Second))
	assert.InDelta(t, 0.25, l.envFloat("DEVFRONT_TEST_FLOAT", 1), 1e-9)

	assert.Equal(t, map[string]EnvSource{
		"DEVFRONT_TEST_STR":     SourceEnv,
		"DEVFRONT_TEST_EMPTY":   SourceDefault,
		"DEVFRONT_TEST_UNSET":   SourceDefault,
		"DEVFRONT_TEST_INT":     SourceEnv,
		"DEVFRONT_TEST_BADINT":  SourceInvalid,
		"DEVFRONT_TEST_BOOL":    SourceEnv,
		"DEVFRONT_TEST_BADBOOL": SourceInvalid,
		"DEVFRONT_TEST_DUR":     SourceEnv,
		"DEVFRONT_TEST_FLOAT":   SourceEnv,
	}, l.EnvSources)
}

func TestParseBool(t *testing.T) {
	for _, in := range []string{"true", "1", "Yes", " on "} {
		got, err := parseBool(in)
		assert.NoError(t, err, in)
		assert.True(t, got, in)
	}
	for _, in := range []string{"false", "0", "NO", "off"} {
		got, err := parseBool(in)
		assert.NoError(t, err, in)
		assert.False(t, got, in)
	}
	_, err := parseBool("sometimes")
	assert.Error(t, err)
}
