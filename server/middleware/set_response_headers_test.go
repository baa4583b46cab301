// Copyright 2025, the dog-api contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"codeberg.org/dogapi/dogapi/config"
)

func TestSetResponseHeaders(t *testing.T) {
	t.Parallel()

	cfg := &config.ServerConfig{}
	handler := Wrap(SetResponseHeaders(cfg), http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		path         string
		cacheControl string
	}{
		{"/breeds/list/all", "no-store"},
		{"/breed/akita/images/random", "no-store"},
		{"/images/akita/a.jpg", "public, max-age=86400"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.cacheControl, rr.Header().Get("Cache-Control"))
			assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
			assert.Equal(t, "no-referrer", rr.Header().Get("Referrer-Policy"))
			assert.Equal(t, config.BuildVersion, rr.Header().Get("Dogapi-Version"))
			assert.Equal(t, "unknown", rr.Header().Get("Dogapi-Revision"))
		})
	}
}

func TestSetResponseHeaders_Development(t *testing.T) {
	t.Parallel()

	cfg := &config.ServerConfig{}
	cfg.Development.InDevelopment = true

	handler := Wrap(SetResponseHeaders(cfg), http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/images/akita/a.jpg", nil))

	assert.Equal(t, "no-store", first.Header().Get("Cache-Control"))
	assert.Equal(t, `"cache"`, first.Header().Get("Clear-Site-Data"))

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/images/akita/a.jpg", nil))

	assert.Empty(t, second.Header().Get("Clear-Site-Data"))
}

func TestSetResponseHeaders_HandlerOverrides(t *testing.T) {
	t.Parallel()

	handler := Wrap(SetResponseHeaders(&config.ServerConfig{}), http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Cache-Control", "private")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/breeds/list/all", nil))

	assert.Equal(t, "private", rr.Header().Get("Cache-Control"))
}
