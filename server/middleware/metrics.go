// Copyright 2025, the dog-api contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"net/http"
	"time"

	"github.com/felixge/httpsnoop"

	"codeberg.org/dogapi/dogapi/server/request_context"
)

// RequestObserver receives the outcome of every request.
type RequestObserver interface {
	ObserveRequest(route, method string, statusCode int, duration time.Duration)
}

// unmatchedRoute labels requests no route pattern matched, keeping label
// cardinality bounded.
const unmatchedRoute = "unmatched"

// Metrics returns a middleware reporting each request to observer.
//
// It must run after WithRequestContext so the matched route is visible once
// next returns.
func Metrics(observer RequestObserver) Middleware {
	return func(w http.ResponseWriter, r *http.Request, next http.Handler) {
		m := httpsnoop.CaptureMetrics(next, w, r)

		route := unmatchedRoute
		if ctx := request_context.FromRequest(r); ctx.Route != "" {
			route = ctx.Route
		}

		observer.ObserveRequest(route, r.Method, m.Code, m.Duration)
	}
}
