// Copyright 2025, the dog-api contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"codeberg.org/dogapi/dogapi/server/routes"
)

// Rate limiting header names.
//
// ref: https://www.ietf.org/archive/id/draft-polli-ratelimit-headers-02.html
const (
	HeaderRateLimitLimit     string = "RateLimit-Limit"
	HeaderRateLimitRemaining string = "RateLimit-Remaining"
)

// excludedPaths won't have traffic filtered by the limiter middleware.
var excludedPaths = map[string]struct{}{
	"/healthz": {},
}

// Evaluate is the entrypoint to the limiter middleware.
//
// Requests whose client address cannot be determined, such as those arriving
// over a unix socket without proxy headers, are let through.
func (l *Limiter) Evaluate(w http.ResponseWriter, r *http.Request, next http.Handler) {
	defer l.doCleanup()

	if _, ok := excludedPaths[r.URL.Path]; ok || r.Method == http.MethodOptions {
		next.ServeHTTP(w, r)

		return
	}

	addr, err := clientAddr(r)
	if err != nil {
		log.Debug().
			Err(err).
			Str("remote_addr", r.RemoteAddr).
			Msg("Skipping rate limit")
		next.ServeHTTP(w, r)

		return
	}

	if addrInList(addr, l.passIPs) {
		next.ServeHTTP(w, r)

		return
	}

	network := networkOf(addr, l.ipv4Prefix, l.ipv6Prefix).String()

	allowed, remaining := l.allow(network)

	w.Header().Set(HeaderRateLimitLimit, strconv.Itoa(l.burst))
	w.Header().Set(HeaderRateLimitRemaining, strconv.Itoa(remaining))

	if !allowed {
		w.Header().Set("Retry-After", strconv.Itoa(l.retryAfterSeconds()))
		routes.WriteError(w, http.StatusTooManyRequests, "Rate limit exceeded")

		return
	}

	next.ServeHTTP(w, r)
}

// retryAfterSeconds is the time, rounded up, one token takes to refill.
func (l *Limiter) retryAfterSeconds() int {
	if l.rate <= 0 {
		return 1
	}

	return max(int(1/float64(l.rate)+0.999), 1)
}
