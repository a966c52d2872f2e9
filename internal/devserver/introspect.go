// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package devserver

import (
	"encoding/json"
	"net/http"

	"github.com/ManuGH/devfront/internal/buildcfg"
	"github.com/ManuGH/devfront/internal/define"
	"github.com/ManuGH/devfront/internal/log"
)

// IntrospectionPrefix is the reserved path namespace of devfront itself.
const IntrospectionPrefix = "/__devfront"

// configHandler serves the assembled build configuration as JSON.
func configHandler(build *buildcfg.BuildConfig) http.HandlerFunc {
	// The record never changes after assembly.
	body, err := json.MarshalIndent(build.Record(), "", "  ")
	return func(w http.ResponseWriter, r *http.Request) {
		if err != nil {
			logger := log.WithComponentFromContext(r.Context(), "introspect")
			logger.Error().
				Err(err).
				Str(log.FieldEvent, "introspect.encode_failed").
				Msg("failed to encode build configuration")
			http.Error(w, "encode build configuration", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(append(body, '\n'))
	}
}

// definesHandler serves the compile-time constants as an ES module so code
// that is not bundled can import them.
func definesHandler(build *buildcfg.BuildConfig) http.HandlerFunc {
	body := define.Module(build.Define())
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", javascriptContentType)
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(body)
	}
}
