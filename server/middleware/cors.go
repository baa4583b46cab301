// Copyright 2025, the dog-api contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"codeberg.org/dogapi/dogapi/core/cors"
)

// CORSObserver receives every CORS decision.
//
// kind is "preflight" or "simple"; outcome is "allowed", "denied" or "absent".
type CORSObserver interface {
	ObserveCORS(kind, outcome string)
}

const (
	corsPreflight = "preflight"
	corsSimple    = "simple"

	corsAllowed = "allowed"
	corsDenied  = "denied"
	corsAbsent  = "absent"
)

// CORS returns a middleware that applies policy to every request.
//
// OPTIONS requests are answered here and never reach next: 200 with the full
// header set for an allowed origin, 403 without CORS headers otherwise.
// Other requests always reach next; the CORS headers are added to its
// response only when the origin is allowed.
func CORS(policy *cors.Policy, observer CORSObserver) Middleware {
	return func(w http.ResponseWriter, r *http.Request, next http.Handler) {
		origin := r.Header.Get("Origin")
		pattern, allowed := policy.Match(origin)

		kind := corsSimple
		if r.Method == http.MethodOptions {
			kind = corsPreflight
		}

		outcome := corsAllowed

		switch {
		case origin == "":
			outcome = corsAbsent
		case !allowed:
			outcome = corsDenied
		}

		event := log.Debug().
			Str("origin", origin).
			Str("kind", kind).
			Str("outcome", outcome)
		if allowed {
			event = event.Stringer("pattern", pattern)
		}

		event.Msg("CORS decision")

		if observer != nil {
			observer.ObserveCORS(kind, outcome)
		}

		if kind == corsPreflight {
			if !allowed {
				w.WriteHeader(http.StatusForbidden)

				return
			}

			setCORSHeaders(w.Header(), origin)
			w.Header().Set("Access-Control-Max-Age", cors.MaxAge)
			w.WriteHeader(http.StatusOK)

			return
		}

		if !allowed {
			next.ServeHTTP(w, r)

			return
		}

		cw := &corsWriter{ResponseWriter: w, origin: origin}
		next.ServeHTTP(cw, r)

		// handlers that never write still get a 200 from net/http
		cw.inject()
	}
}

// setCORSHeaders sets the headers shared by preflight and simple responses.
func setCORSHeaders(headers http.Header, origin string) {
	headers.Set("Access-Control-Allow-Origin", origin)
	headers.Set("Access-Control-Allow-Credentials", "true")
	headers.Set("Access-Control-Allow-Methods", cors.AllowMethods)
	headers.Set("Access-Control-Allow-Headers", cors.AllowHeaders)
}

// corsWriter adds the CORS headers right before the response headers are
// sent, overriding whatever the downstream handler set for them.
type corsWriter struct {
	http.ResponseWriter

	origin   string
	injected bool
}

func (cw *corsWriter) inject() {
	if cw.injected {
		return
	}

	cw.injected = true

	headers := cw.Header()
	setCORSHeaders(headers, cw.origin)
	headers.Add("Vary", "Origin")
}

func (cw *corsWriter) WriteHeader(statusCode int) {
	cw.inject()
	cw.ResponseWriter.WriteHeader(statusCode)
}

func (cw *corsWriter) Write(b []byte) (int, error) {
	cw.inject()

	return cw.ResponseWriter.Write(b)
}

func (cw *corsWriter) Flush() {
	cw.inject()

	if f, ok := cw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (cw *corsWriter) Unwrap() http.ResponseWriter {
	return cw.ResponseWriter
}
