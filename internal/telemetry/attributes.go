// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Common attribute keys for consistent tracing across the dev server.
const (
	// HTTP attributes
	HTTPMethodKey     = "http.method"
	HTTPStatusCodeKey = "http.status_code"
	HTTPRouteKey      = "http.route"
	HTTPURLKey        = "http.url"
	HTTPRequestIDKey  = "http.request_id"

	// Proxy attributes
	ProxyPrefixKey = "devfront.proxy.prefix"
	ProxyTargetKey = "devfront.proxy.target"

	// Asset attributes
	AssetPathKey        = "devfront.asset.path"
	AssetTransformedKey = "devfront.asset.transformed"
	AssetCacheHitKey    = "devfront.asset.cache_hit"

	// Error attributes
	ErrorKey     = "error"
	ErrorTypeKey = "error.type"
)

// HTTPAttributes creates common HTTP span attributes.
func HTTPAttributes(method, route, url string, statusCode int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(HTTPMethodKey, method),
		attribute.String(HTTPRouteKey, route),
		attribute.String(HTTPURLKey, url),
		attribute.Int(HTTPStatusCodeKey, statusCode),
	}
}

// ProxyAttributes describes the proxy rule a request was routed through.
func ProxyAttributes(prefix, target string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(ProxyPrefixKey, prefix),
		attribute.String(ProxyTargetKey, target),
	}
}

// AssetAttributes describes a served static asset.
func AssetAttributes(path string, transformed, cacheHit bool) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AssetPathKey, path),
		attribute.Bool(AssetTransformedKey, transformed),
		attribute.Bool(AssetCacheHitKey, cacheHit),
	}
}

// ErrorAttributes creates error-related span attributes.
func ErrorAttributes(_ error, errorType string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool(ErrorKey, true),
		attribute.String(ErrorTypeKey, errorType),
	}
}
