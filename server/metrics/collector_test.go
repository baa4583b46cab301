// Copyright 2025, the dog-api contributors
// SPDX-License-Identifier: AGPL-3.0-only

package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/dogapi/dogapi/server/metrics"
)

func TestCollector(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	c := metrics.NewCollector(registry)

	c.ObserveRequest("GET /breeds/list/all", http.MethodGet, http.StatusOK, 3*time.Millisecond)
	c.ObserveRequest("GET /breeds/list/all", http.MethodGet, http.StatusOK, 5*time.Millisecond)
	c.ObserveScan("ListBreeds", time.Millisecond)
	c.ObserveCORS("preflight", "denied")

	families, err := registry.Gather()
	require.NoError(t, err)

	series := make(map[string]int)
	for _, family := range families {
		series[family.GetName()] = len(family.GetMetric())
	}

	assert.Equal(t, 1, series["dogapi_http_requests_total"])
	assert.Equal(t, 1, series["dogapi_http_request_duration_seconds"])
	assert.Equal(t, 1, series["dogapi_catalog_scan_duration_seconds"])
	assert.Equal(t, 1, series["dogapi_cors_decisions_total"])

	for _, family := range families {
		if family.GetName() == "dogapi_http_requests_total" {
			assert.InDelta(t, 2, family.GetMetric()[0].GetCounter().GetValue(), 0)
		}
	}
}

func TestCollector_Nil(t *testing.T) {
	t.Parallel()

	var c *metrics.Collector

	assert.NotPanics(t, func() {
		c.ObserveRequest("unmatched", http.MethodGet, http.StatusNotFound, time.Millisecond)
		c.ObserveScan("ListBreeds", time.Millisecond)
		c.ObserveCORS("simple", "absent")
	})
}

func TestHandler(t *testing.T) {
	t.Parallel()

	c := metrics.NewCollector(nil)
	c.ObserveCORS("simple", "allowed")

	rr := httptest.NewRecorder()
	c.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `dogapi_cors_decisions_total{kind="simple",outcome="allowed"} 1`)
	assert.Contains(t, rr.Body.String(), "go_goroutines")
}
