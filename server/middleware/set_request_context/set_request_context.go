// Copyright 2025, the dog-api contributors
// SPDX-License-Identifier: AGPL-3.0-only

package set_request_context

import (
	"net/http"

	"codeberg.org/dogapi/dogapi/config"
	"codeberg.org/dogapi/dogapi/server/middleware"
	"codeberg.org/dogapi/dogapi/server/request_context"
)

// WithRequestContext returns a middleware that attaches a RequestContext to
// each HTTP request and echoes its ID in the X-Request-ID response header.
func WithRequestContext(cfg *config.ServerConfig) middleware.Middleware {
	return func(w http.ResponseWriter, r *http.Request, next http.Handler) {
		ctx := request_context.WithRequestContext(r.Context(), r)

		rc := request_context.FromContext(ctx)
		rc.SkipLogging = cfg.ShouldSkipServerLogging(r.URL.Path)

		w.Header().Set("X-Request-ID", rc.RequestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}
