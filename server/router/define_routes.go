// Copyright 2025, the dog-api contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"net/http"
	"net/http/pprof"
	"runtime/trace"
	"time"

	"codeberg.org/dogapi/dogapi/config"
	"codeberg.org/dogapi/dogapi/server/metrics"
	"codeberg.org/dogapi/dogapi/server/middleware"
	"codeberg.org/dogapi/dogapi/server/routes"
)

// DefineRoutes registers every API route on the router.
//
// collector may be nil, in which case no metrics route is registered.
func (router *Router) DefineRoutes(cfg *config.ServerConfig, h *routes.Handlers, collector *metrics.Collector) {
	// Breed routes
	router.HandleFunc("GET /breeds/list/all", middleware.CatchError(h.ListAllBreeds))
	router.HandleFunc("GET /breed/{breed}/list", middleware.CatchError(h.ListSubBreeds))

	// Image routes
	router.HandleFunc("GET /breeds/image/random", middleware.CatchError(h.RandomImage))
	router.HandleFunc("GET /breed/{breed}/images", middleware.CatchError(h.BreedImages))
	router.HandleFunc("GET /breed/{breed}/images/random", middleware.CatchError(h.RandomBreedImage))
	router.HandleFunc("GET /breed/{breed}/{subbreed}/images", middleware.CatchError(h.SubBreedImages))
	router.HandleFunc("GET /breed/{breed}/{subbreed}/images/random", middleware.CatchError(h.RandomSubBreedImage))

	// Image bytes; {file_path...} spans the breed and sub-breed segments
	router.HandleFunc("GET /images/{file_path...}", middleware.CatchError(h.ServeImage))

	// Service routes
	router.HandleFunc("GET /openapi.json", middleware.CatchError(h.OpenAPI))
	router.HandleFunc("GET /healthz", middleware.CatchError(routes.Health))

	if collector != nil {
		router.HandleFunc("GET "+cfg.Metrics.Path, middleware.CatchError(serveHandler(collector.Handler())))
	}

	if cfg.Development.InDevelopment {
		registerDebugRoutes(router)
	}
}

// serveHandler adapts a plain handler so it can be registered through CatchError.
func serveHandler(h http.Handler) middleware.FallibleHandler {
	return func(w http.ResponseWriter, r *http.Request) error {
		h.ServeHTTP(w, r)

		return nil
	}
}

var flightRecorder = trace.NewFlightRecorder(trace.FlightRecorderConfig{MinAge: time.Minute})

func registerDebugRoutes(router *Router) {
	err := flightRecorder.Start()
	if err != nil {
		panic(err)
	}

	router.HandleFunc("GET /debug/pprof/", pprof.Index)
	router.HandleFunc("GET /debug/pprof/cmdline", pprof.Cmdline)
	router.HandleFunc("GET /debug/pprof/profile", pprof.Profile)
	router.HandleFunc("GET /debug/pprof/symbol", pprof.Symbol)
	router.HandleFunc("GET /debug/pprof/trace", pprof.Trace)
	router.HandleFunc("GET /debug/flight", func(w http.ResponseWriter, r *http.Request) {
		_, _ = flightRecorder.WriteTo(w)
	})
}
