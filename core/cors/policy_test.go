// Copyright 2025, the dog-api contributors
// SPDX-License-Identifier: AGPL-3.0-only

package cors_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/dogapi/dogapi/core/cors"
)

func TestCompile(t *testing.T) {
	t.Parallel()

	policy := cors.Compile(` https://a.com , ,*.b.com,/^c-\d+\.com$/,/(unclosed/,//`)
	patterns := policy.Patterns()

	require.Len(t, patterns, 4)

	assert.Equal(t, cors.KindExact, patterns[0].Kind())
	assert.Equal(t, "https://a.com", patterns[0].String())
	assert.Equal(t, cors.KindWildcard, patterns[1].Kind())
	assert.Equal(t, cors.KindRegex, patterns[2].Kind())
	// "//" is too short to be a regex and falls through to exact matching
	assert.Equal(t, cors.KindExact, patterns[3].Kind())
	assert.Equal(t, "//", patterns[3].String())
}

func TestAllowed(t *testing.T) {
	t.Parallel()

	policy := cors.Compile(`https://a.com,*.b.com,/^c-\d+\.com$/,/https://pre/`)

	tests := []struct {
		name    string
		origin  string
		allowed bool
	}{
		{"Exact match", "https://a.com", true},
		{"Exact requires equality", "https://a.com.evil.com", false},
		{"Wildcard subdomain", "https://foo.b.com", true},
		{"Wildcard is anchored at the end", "https://foo.b.com.evil.com", false},
		{"Wildcard escapes dots", "https://fooxbxcom", false},
		{"Raw regex", "c-42.com", true},
		{"Raw regex with own anchor", "c-42.com.evil", false},
		{"Regex matches a prefix", "https://prefixed.example", true},
		{"Regex is anchored at the start", "evil-https://pre", false},
		{"Unknown origin", "https://evil.com", false},
		{"Empty origin", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.allowed, policy.Allowed(tt.origin))
		})
	}
}

func TestMatch_FirstWins(t *testing.T) {
	t.Parallel()

	policy := cors.Compile(`https://*.example.com,https://api.example.com`)

	pattern, ok := policy.Match("https://api.example.com")
	require.True(t, ok)
	assert.Equal(t, cors.KindWildcard, pattern.Kind())
}

func TestCompile_Defaults(t *testing.T) {
	t.Parallel()

	policy := cors.Compile("http://localhost:5173,https://woof-app-ff670*.web.app")

	assert.True(t, policy.Allowed("http://localhost:5173"))
	assert.True(t, policy.Allowed("https://woof-app-ff670--preview-1a2b.web.app"))
	assert.False(t, policy.Allowed("http://localhost:8080"))
}

func TestCompile_Empty(t *testing.T) {
	t.Parallel()

	policy := cors.Compile("")

	assert.Empty(t, policy.Patterns())
	assert.False(t, policy.Allowed("https://a.com"))
}
