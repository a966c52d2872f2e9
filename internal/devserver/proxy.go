// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package devserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"syscall"
	"time"

	"github.com/ManuGH/devfront/internal/control/http/problem"
	"github.com/ManuGH/devfront/internal/control/middleware"
	"github.com/ManuGH/devfront/internal/log"
	"github.com/ManuGH/devfront/internal/metrics"
	"github.com/ManuGH/devfront/internal/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultDialTimeout bounds connecting to a proxy target.
const DefaultDialTimeout = 5 * time.Second

// ProxyOptions tunes every proxy rule.
type ProxyOptions struct {
	// RateLimitRequests per RateLimitWindow per client IP. 0 disables limiting.
	RateLimitRequests int
	RateLimitWindow   time.Duration
	DialTimeout       time.Duration

	// Transport overrides the base round tripper. It is still wrapped with
	// otelhttp instrumentation.
	Transport http.RoundTripper
}

// Proxy forwards requests whose path starts with Prefix to Target. The
// request path and query are kept as-is and the Host header is rewritten
// to the target origin.
type Proxy struct {
	Prefix string
	Target *url.URL

	rp      *httputil.ReverseProxy
	handler http.Handler
}

// NewProxy builds the forwarding handler for one proxy rule.
func NewProxy(prefix, target string, opts ProxyOptions) (*Proxy, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("proxy %s: parse target %q: %w", prefix, target, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("proxy %s: target %q must be an absolute origin", prefix, target)
	}

	p := &Proxy{Prefix: prefix, Target: u}

	base := opts.Transport
	if base == nil {
		base = newTransport(opts.DialTimeout)
	}

	p.rp = &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(u)
			pr.SetXForwarded()
		},
		Transport: otelhttp.NewTransport(base,
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return "proxy " + r.Method + " " + prefix
			}),
		),
		// Flush immediately so server-sent events and streamed bodies are not buffered.
		FlushInterval: -1,
		ModifyResponse: func(resp *http.Response) error {
			metrics.RecordProxyResponse(prefix, resp.StatusCode)
			return nil
		},
		ErrorHandler: p.handleError,
	}

	var h http.Handler = http.HandlerFunc(p.serve)
	h = middleware.RateLimit(middleware.RateLimitConfig{
		RequestLimit: opts.RateLimitRequests,
		WindowSize:   opts.RateLimitWindow,
		OnLimited: func(*http.Request) {
			metrics.RecordProxyRateLimited(prefix)
		},
	})(h)
	p.handler = h

	return p, nil
}

func newTransport(dialTimeout time.Duration) *http.Transport {
	if dialTimeout <= 0 {
		dialTimeout = DefaultDialTimeout
	}
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.DialContext = (&net.Dialer{
		Timeout:   dialTimeout,
		KeepAlive: 30 * time.Second,
	}).DialContext
	t.ResponseHeaderTimeout = 0 // long-polling endpoints are legitimate in dev
	return t
}

func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.handler.ServeHTTP(w, r)
}

func (p *Proxy) serve(w http.ResponseWriter, r *http.Request) {
	middleware.AddSpanAttributes(r, telemetry.ProxyAttributes(p.Prefix, p.Target.String())...)

	start := time.Now()
	p.rp.ServeHTTP(w, r)
	metrics.ObserveProxyLatency(p.Prefix, time.Since(start).Seconds())
}

func (p *Proxy) handleError(w http.ResponseWriter, r *http.Request, err error) {
	reason := classifyUpstreamError(err)
	metrics.RecordProxyError(p.Prefix, reason)

	logger := log.WithComponentFromContext(r.Context(), "proxy")
	traceID, _ := middleware.ExtractTraceContext(r)

	if reason == "canceled" {
		// The client went away; nobody is left to read a response.
		logger.Debug().
			Str(log.FieldEvent, "proxy.client_canceled").
			Str(log.FieldPrefix, p.Prefix).
			Str(log.FieldPath, r.URL.Path).
			Msg("client canceled proxied request")
		return
	}

	logger.Warn().
		Err(err).
		Str(log.FieldEvent, "proxy.upstream_error").
		Str(log.FieldPrefix, p.Prefix).
		Str(log.FieldTarget, p.Target.String()).
		Str(log.FieldPath, r.URL.Path).
		Str("reason", reason).
		Str("trace_id", traceID).
		Msg("backend request failed")

	middleware.AddSpanAttributes(r, telemetry.ErrorAttributes(err, "upstream_"+reason)...)

	problem.Write(w, r, http.StatusBadGateway, problem.TypeUpstreamUnavailable,
		"Bad Gateway", "UPSTREAM_UNAVAILABLE",
		fmt.Sprintf("backend %s did not answer (%s)", p.Target.String(), reason),
		map[string]any{"target": p.Target.String(), "prefix": p.Prefix})
}

// classifyUpstreamError maps transport errors onto a small label set.
func classifyUpstreamError(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, syscall.ECONNREFUSED):
		return "refused"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timeout"
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return "dns"
	}
	return "other"
}
