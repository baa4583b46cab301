// Copyright 2025, the dog-api contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"net/http"
	"net/url"
	"strings"

	"codeberg.org/dogapi/dogapi/server/middleware"
)

// StripRootPath returns a middleware that removes prefix, the path a reverse
// proxy mounts the API under, from request paths. Requests without the prefix
// are served unchanged, so the API answers both at "/" and below prefix.
func StripRootPath(prefix string) middleware.Middleware {
	return func(w http.ResponseWriter, r *http.Request, next http.Handler) {
		if prefix == "" {
			next.ServeHTTP(w, r)

			return
		}

		p := strings.TrimPrefix(r.URL.Path, prefix)
		rp := strings.TrimPrefix(r.URL.RawPath, prefix)

		// "/dog-apix" shares the prefix but is not below it
		if len(p) < len(r.URL.Path) && (p == "" || p[0] == '/') && (r.URL.RawPath == "" || len(rp) < len(r.URL.RawPath)) {
			if p == "" {
				p = "/"
			}

			r2 := new(http.Request)

			*r2 = *r
			r2.URL = new(url.URL)
			*r2.URL = *r.URL
			r2.URL.Path = p
			r2.URL.RawPath = rp

			next.ServeHTTP(w, r2)
		} else {
			next.ServeHTTP(w, r)
		}
	}
}
