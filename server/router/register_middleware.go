// Copyright 2025, the dog-api contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"fmt"

	"codeberg.org/dogapi/dogapi/config"
	"codeberg.org/dogapi/dogapi/core/cors"
	"codeberg.org/dogapi/dogapi/server/metrics"
	"codeberg.org/dogapi/dogapi/server/middleware"
	"codeberg.org/dogapi/dogapi/server/middleware/limiter"
	"codeberg.org/dogapi/dogapi/server/middleware/set_request_context"
)

// RegisterMiddleware installs the middleware chain.
//
// collector may be nil when metrics are disabled.
func (router *Router) RegisterMiddleware(cfg *config.ServerConfig, policy *cors.Policy, collector *metrics.Collector) error {
	// the first middleware is the most outer / first executed one
	router.Use(middleware.WithServerTiming)

	// CORS must see every request, redirects included.
	// A nil *Collector still satisfies the interface and ignores observations.
	router.Use(middleware.CORS(policy, collector))

	router.Use(middleware.NormalizeURL)                     // before StripRootPath so redirects keep the prefix
	router.Use(StripRootPath(cfg.API.RootPath))             // routes are defined relative to the root path
	router.Use(set_request_context.WithRequestContext(cfg)) // needed for everything else

	if collector != nil {
		router.Use(middleware.Metrics(collector))
	}

	router.Use(middleware.SetResponseHeaders(cfg)) // all responses need this

	if cfg.Compression.Enabled {
		compress, err := middleware.Compress()
		if err != nil {
			return fmt.Errorf("failed to set up compression: %w", err)
		}

		router.Use(compress)
	}

	if cfg.Limiter.Enabled {
		router.Use(limiter.New(cfg).Evaluate)
	}

	return nil
}
