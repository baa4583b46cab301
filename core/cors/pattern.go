// Copyright 2025, the dog-api contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package cors decides which browser origins may call the API.

Origins are configured as one comma-separated string. Each token is one of:

	/regular expression/   matched from the start of the origin
	https://*.example.com  a glob where '*' matches any run of characters
	https://example.com    an exact origin

Tokens are tried in configuration order and the first match wins.
*/
package cors

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
)

// Kind tells how a Pattern matches.
type Kind int

const (
	KindExact Kind = iota
	KindWildcard
	KindRegex
)

func (k Kind) String() string {
	switch k {
	case KindExact:
		return "exact"
	case KindWildcard:
		return "wildcard"
	case KindRegex:
		return "regex"
	default:
		return "unknown"
	}
}

// Pattern is a single compiled origin token.
type Pattern struct {
	kind  Kind
	token string
	re    *regexp.Regexp
}

// Kind returns how p matches.
func (p Pattern) Kind() Kind {
	return p.kind
}

// String returns the token p was compiled from.
func (p Pattern) String() string {
	return p.token
}

// Match reports whether origin satisfies p.
//
// Regex patterns only need to match a prefix of origin unless they anchor the
// end themselves.
func (p Pattern) Match(origin string) bool {
	if p.kind == KindExact {
		return origin == p.token
	}

	return p.re.MatchString(origin)
}

// compilePattern classifies token. It returns false when token is an invalid
// regular expression.
func compilePattern(token string) (Pattern, bool) {
	if len(token) > 2 && strings.HasPrefix(token, "/") && strings.HasSuffix(token, "/") {
		expr := token[1 : len(token)-1]

		if _, err := regexp.Compile(expr); err != nil {
			log.Warn().
				Err(err).
				Str("pattern", token).
				Msg("Skipping invalid CORS origin regex")

			return Pattern{}, false
		}

		return Pattern{
			kind:  KindRegex,
			token: token,
			re:    regexp.MustCompile(`^(?:` + expr + `)`),
		}, true
	}

	if strings.Contains(token, "*") {
		expr := strings.ReplaceAll(regexp.QuoteMeta(token), `\*`, `.*`)

		return Pattern{
			kind:  KindWildcard,
			token: token,
			re:    regexp.MustCompile(`^` + expr + `$`),
		}, true
	}

	return Pattern{kind: KindExact, token: token}, true
}
