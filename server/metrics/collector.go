// Copyright 2025, the dog-api contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package metrics exposes Prometheus metrics for HTTP traffic, catalog scans and
CORS decisions.
*/
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dogapi"

// Collector owns a Prometheus registry and the metrics recorded into it.
//
// All methods are safe on a nil *Collector, which records nothing.
type Collector struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	scanDuration    *prometheus.HistogramVec
	corsDecisions   *prometheus.CounterVec
}

// NewCollector registers every metric with registry. A nil registry is
// replaced by a fresh one that also carries the Go runtime and process
// collectors.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	c := &Collector{
		registry: registry,

		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests served",
			},
			[]string{"route", "method", "status"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
			[]string{"route", "method"},
		),

		scanDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "catalog",
				Name:      "scan_duration_seconds",
				Help:      "Duration of asset directory scans in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms to ~1s
			},
			[]string{"operation"},
		),

		corsDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cors",
				Name:      "decisions_total",
				Help:      "CORS decisions by request kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
	}

	registry.MustRegister(
		c.requestsTotal,
		c.requestDuration,
		c.scanDuration,
		c.corsDecisions,
	)

	return c
}

// ObserveRequest records a completed HTTP request.
func (c *Collector) ObserveRequest(route, method string, statusCode int, duration time.Duration) {
	if c == nil {
		return
	}

	c.requestsTotal.WithLabelValues(route, method, strconv.Itoa(statusCode)).Inc()
	c.requestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// ObserveScan records the duration of a catalog operation.
func (c *Collector) ObserveScan(operation string, duration time.Duration) {
	if c == nil {
		return
	}

	c.scanDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// ObserveCORS records one CORS decision. kind is "preflight" or "simple";
// outcome is "allowed", "denied" or "absent".
func (c *Collector) ObserveCORS(kind, outcome string) {
	if c == nil {
		return
	}

	c.corsDecisions.WithLabelValues(kind, outcome).Inc()
}

// Handler returns an HTTP handler for the Prometheus metrics endpoint.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(
		c.registry,
		promhttp.HandlerOpts{
			EnableOpenMetrics: true,
			ErrorHandling:     promhttp.ContinueOnError,
		},
	)
}
