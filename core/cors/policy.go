// Copyright 2025, the dog-api contributors
// SPDX-License-Identifier: AGPL-3.0-only

package cors

import (
	"strings"

	"github.com/rs/zerolog/log"
)

// Header values sent to allowed origins.
const (
	AllowMethods = "GET, POST, PUT, DELETE, OPTIONS, PATCH"
	AllowHeaders = "*"
	MaxAge       = "3600"
)

// Policy is an ordered list of origin patterns. It is immutable once built
// and safe for concurrent use.
type Policy struct {
	patterns []Pattern
}

// Compile builds a Policy from a comma-separated list of origin tokens.
//
// Blank tokens are ignored. Invalid regular expressions are logged and
// skipped, so a bad entry never prevents startup.
func Compile(origins string) *Policy {
	policy := &Policy{}

	for token := range strings.SplitSeq(origins, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		pattern, ok := compilePattern(token)
		if !ok {
			continue
		}

		log.Info().
			Str("pattern", token).
			Stringer("kind", pattern.Kind()).
			Msg("Allowing CORS origin")

		policy.patterns = append(policy.patterns, pattern)
	}

	return policy
}

// Patterns returns a copy of the compiled patterns in match order.
func (p *Policy) Patterns() []Pattern {
	return append([]Pattern(nil), p.patterns...)
}

// Allowed reports whether origin may make cross-origin requests. An empty
// origin is never allowed.
func (p *Policy) Allowed(origin string) bool {
	_, ok := p.Match(origin)

	return ok
}

// Match returns the first pattern that accepts origin.
func (p *Policy) Match(origin string) (Pattern, bool) {
	if origin == "" {
		return Pattern{}, false
	}

	for _, pattern := range p.patterns {
		if pattern.Match(origin) {
			return pattern, true
		}
	}

	return Pattern{}, false
}
