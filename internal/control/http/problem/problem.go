// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package problem writes RFC 7807 problem responses for the dev server.
package problem

import (
	"encoding/json"
	"net/http"

	"github.com/ManuGH/devfront/internal/log"
)

const (
	// HeaderRequestID is the canonical header for request correlation.
	HeaderRequestID = "X-Request-ID"

	// JSONKeyRequestID is the JSON key carrying the request ID in problem bodies.
	JSONKeyRequestID = "requestId"

	// ContentType is the media type of problem responses.
	ContentType = "application/problem+json"
)

// Problem types emitted by devfront.
const (
	TypeUpstreamUnavailable = "devfront/upstream_unavailable"
	TypeRateLimited         = "devfront/rate_limited"
	TypeNotFound            = "devfront/not_found"
	TypeMethodNotAllowed    = "devfront/method_not_allowed"
	TypeInternal            = "devfront/internal"
)

// Write writes an RFC 7807 problem details response.
//
// Semantics:
//   - type: machine identifier (e.g. "devfront/upstream_unavailable").
//   - title: short human label (e.g. "Bad Gateway").
//   - code: stable short code (e.g. "UPSTREAM_UNAVAILABLE").
//   - detail: explanation of this specific failure.
func Write(w http.ResponseWriter, r *http.Request, status int, problemType, title, code, detail string, extra map[string]any) {
	if r == nil {
		log.L().Error().Str("type", problemType).Int("status", status).Msg("problem.Write called with nil request")
	}

	instance := ""
	reqID := ""
	if r != nil {
		instance = r.URL.EscapedPath()
		reqID = log.RequestIDFromContext(r.Context())
	}
	if reqID == "" {
		reqID = w.Header().Get(HeaderRequestID)
	}

	res := map[string]any{
		"type":   problemType,
		"title":  title,
		"status": status,
		"code":   code,
	}
	if reqID != "" {
		res[JSONKeyRequestID] = reqID
	}
	if detail != "" {
		res["detail"] = detail
	}
	if instance != "" {
		res["instance"] = instance
	}

	for k, v := range extra {
		switch k {
		case "type", "title", "status", "detail", "instance", "code", JSONKeyRequestID:
			log.L().Warn().Str("key", k).Str("problem_type", problemType).Msg("ignoring reserved key in problem extras")
			continue
		}
		res[k] = v
	}

	if reqID != "" {
		w.Header().Set(HeaderRequestID, reqID)
	}
	w.Header().Set("Content-Type", ContentType)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(res); err != nil {
		log.L().Error().
			Err(err).
			Str("type", problemType).
			Int("status", status).
			Msg("failed to encode problem response")
	}
}

// NotFound writes a 404 problem.
func NotFound(w http.ResponseWriter, r *http.Request) {
	Write(w, r, http.StatusNotFound, TypeNotFound, "Not Found", "NOT_FOUND", "", nil)
}

// MethodNotAllowed writes a 405 problem.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	Write(w, r, http.StatusMethodNotAllowed, TypeMethodNotAllowed, "Method Not Allowed", "METHOD_NOT_ALLOWED", "", nil)
}
