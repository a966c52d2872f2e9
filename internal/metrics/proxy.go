// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package metrics holds the Prometheus collectors of the dev server.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	proxyRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devfront_proxy_requests_total",
		Help: "Proxied requests by rule prefix and upstream status code",
	}, []string{"prefix", "status"})

	proxyUpstreamErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devfront_proxy_upstream_errors_total",
		Help: "Proxied requests that failed before the backend answered",
	}, []string{"prefix", "reason"}) // reason=refused|timeout|dns|canceled|other

	proxyRateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devfront_proxy_rate_limited_total",
		Help: "Proxied requests rejected by the per-client rate limit",
	}, []string{"prefix"})

	proxyUpstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "devfront_proxy_upstream_duration_seconds",
		Help:    "Round-trip latency to the backend",
		Buckets: prometheus.DefBuckets,
	}, []string{"prefix"})
)

// RecordProxyResponse counts a response received from the backend.
func RecordProxyResponse(prefix string, status int) {
	proxyRequestsTotal.WithLabelValues(prefix, strconv.Itoa(status)).Inc()
}

// RecordProxyError counts a failed upstream round trip.
func RecordProxyError(prefix, reason string) {
	proxyUpstreamErrors.WithLabelValues(prefix, reason).Inc()
}

// RecordProxyRateLimited counts a request rejected before reaching the backend.
func RecordProxyRateLimited(prefix string) {
	proxyRateLimited.WithLabelValues(prefix).Inc()
}

// ObserveProxyLatency records the upstream round-trip time in seconds.
func ObserveProxyLatency(prefix string, seconds float64) {
	proxyUpstreamDuration.WithLabelValues(prefix).Observe(seconds)
}
