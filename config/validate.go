// Copyright 2025, the dog-api contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"codeberg.org/dogapi/dogapi/server/utils"
)

// validation errors.
var (
	errUnixSocketInvalidPermissions = errors.New("invalid Basic.UnixSocketPermissions value")
	errInvalidPort                  = errors.New("port must be a number between 1 and 65535")
	errInvalidRootPath              = errors.New("root path must not contain a query or fragment")
	errEmptyAssetsDir               = errors.New("assets directory cannot be empty")
	errInvalidLogLevel              = errors.New("invalid Log.Level")
	errInvalidLogFormat             = errors.New("invalid Log.Format")
	errInvalidMetricsPath           = errors.New("metrics path must start with '/'")
	errInvalidLimiterRate           = errors.New("limiter rate must be positive")
	errInvalidLimiterBurst          = errors.New("limiter burst must be positive")
	errInvalidIPv4Prefix            = errors.New("IPv4 prefix must be between 0 and 32")
	errInvalidIPv6Prefix            = errors.New("IPv6 prefix must be between 0 and 128")
)

var fileModeOctalRegexp = regexp.MustCompile(`^0?[0-7]{3}$`)

const maxPort = 65535

// validateAndSet validates the server configuration and populates derived fields.
func (cfg *ServerConfig) validateAndSet() error {
	if err := cfg.validateListener(); err != nil {
		return err
	}

	rootPath, err := normalizeRootPath(cfg.API.RootPath)
	if err != nil {
		return err
	}

	cfg.API.RootPath = rootPath

	apiURL, err := utils.ParseURL(cfg.API.BaseURLAPI, "API base")
	if err != nil {
		return fmt.Errorf("invalid API base URL: %w", err)
	}

	imgURL, err := utils.ParseURL(cfg.API.BaseURLImg, "image base")
	if err != nil {
		return fmt.Errorf("invalid image base URL: %w", err)
	}

	cfg.API.PublicAPIURL = strings.TrimRight(apiURL.String(), "/") + rootPath
	cfg.API.PublicImageURL = strings.TrimRight(imgURL.String(), "/") + rootPath

	if strings.TrimSpace(cfg.Assets.Dir) == "" {
		return errEmptyAssetsDir
	}

	assetsRoot, err := filepath.Abs(cfg.Assets.Dir)
	if err != nil {
		return fmt.Errorf("failed to resolve assets directory %q: %w", cfg.Assets.Dir, err)
	}

	cfg.Assets.Root = assetsRoot

	// A missing tree is served as an empty catalog, so only warn here.
	if info, err := os.Stat(assetsRoot); err != nil || !info.IsDir() {
		log.Warn().
			Str("path", assetsRoot).
			Msg("Assets directory does not exist; the catalog will be empty")
	}

	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("%w: %q", errInvalidLogLevel, cfg.Log.Level)
	}

	switch cfg.Log.Format {
	case "console", "json":
		// valid
	default:
		return fmt.Errorf("%w: %q", errInvalidLogFormat, cfg.Log.Format)
	}

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		return errInvalidMetricsPath
	}

	// Skip validating Limiter configuration if it's not enabled
	if !cfg.Limiter.Enabled {
		return nil
	}

	if cfg.Limiter.Rate <= 0 {
		return errInvalidLimiterRate
	}

	if cfg.Limiter.Burst <= 0 {
		return errInvalidLimiterBurst
	}

	if cfg.Limiter.IPv4Prefix < 0 || cfg.Limiter.IPv4Prefix > 32 {
		return errInvalidIPv4Prefix
	}

	if cfg.Limiter.IPv6Prefix < 0 || cfg.Limiter.IPv6Prefix > 128 {
		return errInvalidIPv6Prefix
	}

	return nil
}

func (cfg *ServerConfig) validateListener() error {
	if cfg.Basic.UnixSocket != "" {
		if cfg.Basic.Host != "" || cfg.Basic.Port != "" {
			log.Info().
				Str("socket", cfg.Basic.UnixSocket).
				Msg("Unix socket configured, ignoring host and port")

			cfg.Basic.Host = ""
			cfg.Basic.Port = ""
		}

		switch {
		case cfg.Basic.RawUnixSocketPermissions == "":
			cfg.Basic.UnixSocketPermissions = 0o666
		case fileModeOctalRegexp.MatchString(cfg.Basic.RawUnixSocketPermissions):
			rawModeUint64, _ := strconv.ParseUint(cfg.Basic.RawUnixSocketPermissions, 8, 32)

			cfg.Basic.UnixSocketPermissions = os.FileMode(rawModeUint64)
		default:
			return errUnixSocketInvalidPermissions
		}

		return nil
	}

	if cfg.Basic.Host == "" {
		cfg.Basic.Host = "localhost"
		log.Info().
			Str("host", cfg.Basic.Host).
			Msg("Binding to default host")
	}

	if cfg.Basic.Port == "" {
		cfg.Basic.Port = "8000"
		log.Info().
			Str("port", cfg.Basic.Port).
			Msg("Using default port")
	}

	port, err := strconv.Atoi(cfg.Basic.Port)
	if err != nil || port < 1 || port > maxPort {
		return fmt.Errorf("%w: %q", errInvalidPort, cfg.Basic.Port)
	}

	return nil
}

// normalizeRootPath returns rootPath with a single leading slash and no
// trailing slash. An empty or "/" root path disables prefixing.
func normalizeRootPath(rootPath string) (string, error) {
	rootPath = strings.TrimSpace(rootPath)
	if strings.ContainsAny(rootPath, "?#") {
		return "", fmt.Errorf("%w: %q", errInvalidRootPath, rootPath)
	}

	rootPath = strings.Trim(rootPath, "/")
	if rootPath == "" {
		return "", nil
	}

	return "/" + rootPath, nil
}
