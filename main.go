// Copyright 2025, the dog-api contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
dog-api serves dog breed listings and images from a directory tree as a JSON API.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"codeberg.org/dogapi/dogapi/config"
	"codeberg.org/dogapi/dogapi/core/audit"
	"codeberg.org/dogapi/dogapi/core/catalog"
	"codeberg.org/dogapi/dogapi/core/cors"
	"codeberg.org/dogapi/dogapi/server/metrics"
	"codeberg.org/dogapi/dogapi/server/router"
	"codeberg.org/dogapi/dogapi/server/routes"
	"codeberg.org/dogapi/dogapi/server/utils"
)

const (
	// Values for http.Server timeouts.
	// ref: gosec: G112
	readHeaderTimeout time.Duration = 15 * time.Second
	readTimeout       time.Duration = 15 * time.Second
	writeTimeout      time.Duration = 30 * time.Second
	idleTimeout       time.Duration = 30 * time.Second

	serverShutdownDeadline time.Duration = 5 * time.Second
)

var errChmodSocket = errors.New("failed to change unix socket permissions")

// main is the entry point of the application.
func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Application failed")
	}
}

// run orchestrates the application startup and graceful shutdown.
func run() error {
	audit.SetDefaultLogger()

	cfg := &config.ServerConfig{}
	if err := cfg.LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	handler, err := newHandler(cfg)
	if err != nil {
		return err
	}

	// Create http.Server instance
	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	// Channel to listen for server errors
	serverErrors := make(chan error, 1)

	// Start main server in a goroutine
	go func() {
		listener, err := chooseListener(cfg)
		if err != nil {
			serverErrors <- fmt.Errorf("failed to create listener: %w", err)

			return
		}

		serverErrors <- server.Serve(listener)
	}()

	// Set up graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Block until a shutdown signal or a server error is received
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case s := <-quit:
		log.Info().Str("signal", s.String()).Msg("Shutdown signal received")
		log.Info().Msg("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), serverShutdownDeadline)

		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
	}

	log.Info().Msg("Server exited gracefully")

	return nil
}

// newHandler wires the catalog, CORS policy and metrics into the router.
func newHandler(cfg *config.ServerConfig) (http.Handler, error) {
	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector(nil)

		log.Info().
			Str("url", utils.JoinURL(cfg.API.PublicAPIURL, cfg.Metrics.Path)).
			Msg("Serving Prometheus metrics")
	}

	catalogOpts := []catalog.Option{}
	if collector != nil {
		catalogOpts = append(catalogOpts, catalog.WithObserver(collector))
	}

	c := catalog.New(cfg.Assets.Root, catalogOpts...)
	urls := catalog.NewURLMapper(cfg.Assets.Root, cfg.API.PublicImageURL)
	handlers := routes.NewHandlers(c, urls, cfg.API.PublicAPIURL)

	policy := cors.Compile(cfg.CORS.Origins)

	router := router.NewRouter()
	router.DefineRoutes(cfg, handlers, collector)

	if err := router.RegisterMiddleware(cfg, policy, collector); err != nil {
		return nil, fmt.Errorf("failed to register middleware: %w", err)
	}

	log.Info().
		Str("assets", c.Root()).
		Str("url", utils.JoinURL(cfg.API.PublicAPIURL, "/openapi.json")).
		Msg("Serving OpenAPI document")

	return router, nil
}

func chooseListener(cfg *config.ServerConfig) (net.Listener, error) {
	// Check if we should use a Unix domain socket
	if cfg.Basic.UnixSocket != "" {
		unixAddr := cfg.Basic.UnixSocket

		unixListener, err := (&net.ListenConfig{}).Listen(context.Background(), "unix", unixAddr)
		if err != nil {
			return nil, fmt.Errorf("failed to start Unix socket listener on %v: %w", unixAddr, err)
		}

		if err := os.Chmod(unixAddr, cfg.Basic.UnixSocketPermissions); err != nil {
			_ = unixListener.Close()

			return nil, fmt.Errorf("%w: %w", errChmodSocket, err)
		}

		// Assign the listener and log where we are listening
		log.Info().
			Str("address", unixAddr).
			Msg("Listening on Unix domain socket")

		return unixListener, nil
	}

	// Otherwise, fall back to TCP listener
	addr := net.JoinHostPort(cfg.Basic.Host, cfg.Basic.Port)

	tcpListener, err := (&net.ListenConfig{}).Listen(context.Background(), "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to start TCP listener on %v: %w", addr, err)
	}

	addr = tcpListener.Addr().String()

	// Extract the port for logging
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		_ = tcpListener.Close()

		return nil, fmt.Errorf("failed to parse listener address %q: %w", addr, err)
	}

	log.Info().
		Str("address", addr).
		Str("port", port).
		Str("url", cfg.API.PublicAPIURL+"/breeds/list/all").
		Msg("Listening on address")

	return tcpListener, nil
}
