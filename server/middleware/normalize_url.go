// Copyright 2025, the dog-api contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"net/http"
	"strings"
)

// NormalizeURL is a middleware that permanently redirects paths with a
// trailing slash (except root) to the same path without it. The query string
// is preserved.
func NormalizeURL(w http.ResponseWriter, r *http.Request, next http.Handler) {
	if hasTrailingSlash(r) {
		removeTrailingSlash(w, r)

		return
	}

	next.ServeHTTP(w, r)
}

// hasTrailingSlash checks if a request path has a trailing slash (except root).
func hasTrailingSlash(r *http.Request) bool {
	return r.URL.Path != "/" && strings.HasSuffix(r.URL.Path, "/")
}

// removeTrailingSlash removes trailing slashes and redirects.
func removeTrailingSlash(w http.ResponseWriter, r *http.Request) {
	target := *r.URL

	// Leading slashes are collapsed so "//host/" cannot become a
	// scheme-relative redirect to another host.
	target.Path = "/" + strings.Trim(target.Path, "/")
	target.RawPath = ""
	target.Scheme = ""
	target.Host = ""

	http.Redirect(w, r, target.String(), http.StatusPermanentRedirect)
}
