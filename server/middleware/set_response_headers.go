// Copyright 2025, the dog-api contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"maps"
	"net/http"
	"strings"
	"sync/atomic"

	"codeberg.org/dogapi/dogapi/config"
)

// baseHeaders defines the default headers to be set in responses.
//
// Dogapi-Version and Dogapi-Revision are added dynamically in SetResponseHeaders.
//
// NOTE: we intentionally don't set CORP or HSTS headers; CORS decides cross-origin access.
var baseHeaders = http.Header{
	"Referrer-Policy":        {"no-referrer"},
	"X-Content-Type-Options": {"nosniff"},
	"X-Frame-Options":        {"DENY"},
}

const (
	// cacheAPI applies to JSON routes, whose answers change with the asset tree.
	cacheAPI = "no-store"

	// cacheImages applies to image bytes (1 day).
	cacheImages = "public, max-age=86400"
)

// SetResponseHeaders returns a middleware adding default headers to HTTP responses.
//
// Handlers run after it and may override any header it sets.
func SetResponseHeaders(cfg *config.ServerConfig) Middleware {
	revision := cfg.Build.Revision()

	// clear the browser cache once per process in development
	var cacheCleared atomic.Bool

	return func(w http.ResponseWriter, r *http.Request, next http.Handler) {
		headers := w.Header()

		maps.Insert(headers, maps.All(baseHeaders))

		headers.Set("Cache-Control", cacheControl(r.URL.Path))

		if cfg.Development.InDevelopment {
			headers.Set("Cache-Control", cacheAPI)

			if cacheCleared.CompareAndSwap(false, true) {
				headers.Set("Clear-Site-Data", `"cache"`)
			}
		}

		headers.Set("Dogapi-Version", config.BuildVersion)
		headers.Set("Dogapi-Revision", revision)

		next.ServeHTTP(w, r)
	}
}

// cacheControl picks the Cache-Control value for path, relative to the root path.
func cacheControl(path string) string {
	if strings.HasPrefix(path, "/images/") {
		return cacheImages
	}

	return cacheAPI
}
