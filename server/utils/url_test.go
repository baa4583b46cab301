// Copyright 2025, the dog-api contributors
// SPDX-License-Identifier: AGPL-3.0-only

package utils_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"codeberg.org/dogapi/dogapi/server/utils"
)

func TestParseURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		urlStr   string
		urlType  string
		wantErr  bool
		expected string
	}{
		{"Valid URL", "https://example.com", "Test", false, "https://example.com"},
		{"Valid URL with path", "https://example.com/path", "Test", false, "https://example.com/path"},
		{"Missing scheme", "example.com", "Test", true, ""},
		{"Missing host", "https://", "Test", true, ""},
		{"Trailing slash", "https://example.com/", "Test", false, "https://example.com"},
		{"Path with trailing slash", "https://example.com/path/", "Test", false, "https://example.com/path"},
		{"Empty URL", "", "Test", true, ""},
		{"Localhost with port", "http://localhost:8000", "Test", false, "http://localhost:8000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := utils.ParseURL(tt.urlStr, tt.urlType)
			if (err != nil) != tt.wantErr {
				t.Errorf("utils.ParseURL() error = %v, wantErr %v", err, tt.wantErr)

				return
			}

			if !tt.wantErr {
				if got.String() != tt.expected {
					t.Errorf("utils.ParseURL() got = %v, want %v", got, tt.expected)
				}
			}
		})
	}
}

func TestGetPathVar(t *testing.T) {
	t.Parallel()

	var breed, subBreed string

	mux := http.NewServeMux()
	mux.HandleFunc("GET /breed/{breed}/images", func(_ http.ResponseWriter, r *http.Request) {
		breed = utils.GetPathVar(r, "breed")
		subBreed = utils.GetPathVar(r, "subbreed", "none")
	})

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/breed/akita/images", nil))

	if breed != "akita" {
		t.Errorf("utils.GetPathVar() breed = %q, want %q", breed, "akita")
	}

	if subBreed != "none" {
		t.Errorf("utils.GetPathVar() default = %q, want %q", subBreed, "none")
	}
}

func TestJoinURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		base, path, expected string
	}{
		{"http://localhost:8000/dog-api", "/openapi.json", "http://localhost:8000/dog-api/openapi.json"},
		{"http://localhost:8000/", "docs", "http://localhost:8000/docs"},
	}

	for _, tt := range tests {
		if got := utils.JoinURL(tt.base, tt.path); got != tt.expected {
			t.Errorf("utils.JoinURL(%q, %q) = %q, want %q", tt.base, tt.path, got, tt.expected)
		}
	}
}
