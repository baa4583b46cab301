// Copyright 2025, the dog-api contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

const (
	// DefaultCORSOrigins are the origins allowed when CORS_ORIGINS is unset:
	// three local dev servers, the production site and its preview deployments.
	DefaultCORSOrigins = "http://localhost:5173,http://localhost:3000,http://localhost:5174,https://mgrzmil.dev,https://woof-app-ff670*.web.app"

	// Default per-network limiter settings.
	defaultLimiterRate  = 10.0
	defaultLimiterBurst = 60
)

// SetDefaults populates the configuration with default values.
func (cfg *ServerConfig) SetDefaults() {
	cfg.Basic.Host = "localhost"
	cfg.Basic.Port = "8000"

	cfg.API.RootPath = "/dog-api"
	cfg.API.BaseURLAPI = "http://localhost:8000"
	cfg.API.BaseURLImg = "https://mgrzmil.dev"

	cfg.Assets.Dir = "dog-assets"

	cfg.CORS.Origins = DefaultCORSOrigins

	cfg.Compression.Enabled = true

	cfg.Metrics.Enabled = false
	cfg.Metrics.Path = "/metrics"

	cfg.Log.Level = "info"
	cfg.Log.Outputs = []string{"/dev/stderr"}
	cfg.Log.Format = "console"

	cfg.Limiter.Enabled = false
	cfg.Limiter.Rate = defaultLimiterRate
	cfg.Limiter.Burst = defaultLimiterBurst
	cfg.Limiter.IPv4Prefix = 24
	cfg.Limiter.IPv6Prefix = 48
}
