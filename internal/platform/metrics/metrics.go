// Copyright (c) 2026 GymFusion. All rights reserved.
// Author: dev@gymfusion.app

/*
Package metrics provides Prometheus instrumentation for the API server.

It exposes a [Collector] that middleware and services record into, and an
HTTP handler for the /metrics scrape endpoint.
*/
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector gathers HTTP and authentication metrics.
type Collector struct {
	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
	authLogins   *prometheus.CounterVec
	mailSends    *prometheus.CounterVec
}

// NewCollector creates a new Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gymfusion_http_requests_total",
			Help: "Total HTTP requests by method, route, and status code.",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gymfusion_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		authLogins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gymfusion_auth_logins_total",
			Help: "Login attempts by outcome (success/failure).",
		}, []string{"outcome"}),
		mailSends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gymfusion_mail_sends_total",
			Help: "Outbound mail attempts by outcome (success/failure).",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpLatency,
		c.authLogins,
		c.mailSends,
	)

	return c
}

// RecordHTTPRequest records a finished HTTP request.
func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpLatency.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordLogin records a login attempt outcome.
func (c *Collector) RecordLogin(success bool) {
	c.authLogins.WithLabelValues(outcome(success)).Inc()
}

// RecordMailSend records an outbound mail attempt outcome.
func (c *Collector) RecordMailSend(success bool) {
	c.mailSends.WithLabelValues(outcome(success)).Inc()
}

func outcome(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

// Handler returns the Prometheus scrape handler for the given gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// # HTTP Middleware

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Middleware instruments every request with the request counter and latency
// histogram. It uses the chi route pattern (not the raw path) as the label
// to keep metric cardinality bounded.
func Middleware(collector *Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			start := time.Now()
			wrapped := &statusWriter{ResponseWriter: writer, status: http.StatusOK}

			next.ServeHTTP(wrapped, request)

			route := chi.RouteContext(request.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}

			collector.RecordHTTPRequest(request.Method, route, wrapped.status, time.Since(start))
		})
	}
}
