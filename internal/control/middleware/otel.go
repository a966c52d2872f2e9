// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package middleware

import (
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// untracedPaths are probe and scrape endpoints that would drown real spans.
var untracedPaths = map[string]struct{}{
	"/healthz": {},
	"/readyz":  {},
	"/livez":   {},
	"/metrics": {},
}

func shouldTrace(r *http.Request) bool {
	_, skip := untracedPaths[r.URL.Path]
	return !skip
}

// spanNameFormatter names spans after the path without query values.
func spanNameFormatter(operation string, r *http.Request) string {
	name := operation + " " + r.URL.Path
	if r.URL.RawQuery != "" {
		name += "?"
	}
	return name
}

// SpanFromContext returns the span carried by the request context.
func SpanFromContext(r *http.Request) trace.Span {
	return trace.SpanFromContext(r.Context())
}

// ExtractTraceContext returns the trace and span IDs of the request span.
// Both are empty when the request is not traced.
func ExtractTraceContext(r *http.Request) (traceID, spanID string) {
	sc := trace.SpanContextFromContext(r.Context())
	if !sc.IsValid() {
		return "", ""
	}
	return sc.TraceID().String(), sc.SpanID().String()
}

// AddSpanAttributes attaches attributes to the request span, if any.
func AddSpanAttributes(r *http.Request, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(r.Context())
	if span.IsRecording() {
		span.SetAttributes(attrs...)
	}
}
