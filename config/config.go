// Copyright 2025, the dog-api contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package config loads and validates the server configuration.

Values are layered in this order, later layers winning: built-in defaults,
a YAML file, a .env file, and finally the process environment.
*/
package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"
)

// ServerConfig holds the application configuration.
//
// A ServerConfig is populated once by LoadConfig and treated as read-only
// afterwards; components receive it by pointer.
type ServerConfig struct {
	Build buildInfo `yaml:"-"`

	Basic struct {
		Host                     string      `env:"HOST,overwrite" yaml:"host"`
		Port                     string      `env:"PORT,overwrite" yaml:"port"`
		UnixSocket               string      `env:"UNIX_SOCKET" yaml:"unixSocket"`
		RawUnixSocketPermissions string      `env:"UNIX_SOCKET_PERMISSIONS" yaml:"unixSocketPermissions"`
		UnixSocketPermissions    os.FileMode `yaml:"-"`
	} `yaml:"basic"`

	API struct {
		// RootPath is the prefix a reverse proxy mounts the API under.
		RootPath   string `env:"ROOT_PATH,overwrite" yaml:"rootPath"`
		BaseURLAPI string `env:"BASE_URL_API,overwrite" yaml:"baseUrlApi"`
		BaseURLImg string `env:"BASE_URL_IMG,overwrite" yaml:"baseUrlImg"`

		// Advertised URLs with RootPath already appended.
		PublicAPIURL   string `yaml:"-"`
		PublicImageURL string `yaml:"-"`
	} `yaml:"api"`

	Assets struct {
		Dir  string `env:"ASSETS_DIR,overwrite" yaml:"dir"`
		Root string `yaml:"-"` // absolute form of Dir
	} `yaml:"assets"`

	CORS struct {
		// Origins is a comma-separated list of exact origins, wildcard
		// globs (https://*.example.com) and /regular expressions/.
		Origins string `env:"CORS_ORIGINS,overwrite" yaml:"origins"`
	} `yaml:"cors"`

	Compression struct {
		Enabled bool `env:"COMPRESSION,overwrite" yaml:"enabled"`
	} `yaml:"compression"`

	Metrics struct {
		Enabled bool   `env:"METRICS,overwrite" yaml:"enabled"`
		Path    string `env:"METRICS_PATH,overwrite" yaml:"path"`
	} `yaml:"metrics"`

	Development struct {
		InDevelopment bool `env:"DEV" yaml:"inDevelopment"`
	} `yaml:"development"`

	Log struct {
		Level   string   `env:"LOG_LEVEL,overwrite" yaml:"logLevel"`
		Outputs []string `env:"LOG_OUTPUTS,overwrite" yaml:"logOutputs"`
		Format  string   `env:"LOG_FORMAT,overwrite" yaml:"logFormat"`
	} `yaml:"log"`

	Limiter struct {
		Enabled    bool     `env:"LIMITER,overwrite" yaml:"enabled"`
		Rate       float64  `env:"LIMITER_RATE,overwrite" yaml:"rate"`
		Burst      int      `env:"LIMITER_BURST,overwrite" yaml:"burst"`
		PassIPs    []string `env:"LIMITER_PASS_IPS,overwrite" yaml:"passList"`
		IPv4Prefix int      `env:"LIMITER_IPV4_PREFIX,overwrite" yaml:"ipv4Prefix"`
		IPv6Prefix int      `env:"LIMITER_IPV6_PREFIX,overwrite" yaml:"ipv6Prefix"`
	} `yaml:"limiter"`

	Instance struct {
		StartingTime string `yaml:"-"`
	} `yaml:"-"`
}

// LoadConfig loads the configuration from various sources.
func (cfg *ServerConfig) LoadConfig() error {
	parsedConfigFlagValue := parseCommandLineArgs()

	// Check if the -config flag was explicitly set by the user.
	configFlagUserSet := false

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			configFlagUserSet = true
		}
	})

	var configFilePath string

	// Determine the config file path with the correct precedence:
	// 1. Command-line flag (-config)
	// 2. Environment variable (DOGAPI_CONFIGFILE)
	// 3. Default path with fallback check
	if configFlagUserSet {
		configFilePath = parsedConfigFlagValue
	} else if envVar := os.Getenv("DOGAPI_CONFIGFILE"); envVar != "" {
		configFilePath = envVar
	} else {
		configFilePath = parsedConfigFlagValue
		if _, err := os.Stat(configFilePath); os.IsNotExist(err) {
			ymlPath := "./config.yml"
			if _, statErr := os.Stat(ymlPath); statErr == nil {
				configFilePath = ymlPath
			}
		}
	}

	if err := cfg.load(configFilePath); err != nil {
		return err
	}

	cfg.setupAudit()
	cfg.print()

	// Heuristically check for containerized environment and warn if host is not a wildcard address.
	if cfg.Basic.UnixSocket == "" && isContainerized() && cfg.Basic.Host != "0.0.0.0" && cfg.Basic.Host != "::" {
		log.Warn().
			Str("host", cfg.Basic.Host).
			Msg("Running in a containerized environment but host is not a wildcard address (e.g., '0.0.0.0' or '::'). This may prevent the service from being accessible outside the container.")
	}

	return nil
}

// load runs every configuration layer without touching global logger state.
func (cfg *ServerConfig) load(configFilePath string) error {
	cfg.SetDefaults()

	cfg.Build.load()

	cfg.Instance.StartingTime = time.Now().UTC().Format("2006-01-02 15:04")

	if err := cfg.readYAML(configFilePath); err != nil {
		return fmt.Errorf("error loading YAML config: %w", err)
	}

	if err := useDotEnv(); err != nil {
		return fmt.Errorf("error using .env file: %w", err)
	}

	if err := readEnv(cfg); err != nil {
		return fmt.Errorf("error loading environment variables: %w", err)
	}

	if err := cfg.validateAndSet(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	return nil
}

// ShouldSkipServerLogging determines if a request should bypass request logging.
func (cfg *ServerConfig) ShouldSkipServerLogging(path string) bool {
	if path == "/healthz" {
		return true
	}

	if cfg.Metrics.Enabled && path == cfg.Metrics.Path {
		return true
	}

	// image bytes are noisy outside development
	return !cfg.Development.InDevelopment && strings.HasPrefix(path, "/images/")
}

// isContainerized checks for common indicators of a containerized environment.
//
// This is a heuristic and may not be 100% accurate.
func isContainerized() bool {
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true
	}

	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}

	if _, err := os.Stat("/.containerenv"); err == nil {
		return true
	}

	// #nosec G304 -- We are checking for the existence and content of a well-known system file for heuristics.
	cgroup, err := os.ReadFile("/proc/self/cgroup")
	if err == nil {
		content := string(cgroup)

		return strings.Contains(content, "docker") ||
			strings.Contains(content, "kubepods") ||
			strings.Contains(content, "containerd") ||
			strings.Contains(content, "lxc") ||
			strings.Contains(content, "crio") ||
			// systemd-nspawn containers
			strings.Contains(content, ".machine")
	}

	return false
}

// GetDurationEncoderOption returns a YAML encoder option that marshals
// time.Duration into a human-readable string format (e.g., "30m", "1h").
func GetDurationEncoderOption() yaml.EncodeOption {
	return yaml.CustomMarshaler[time.Duration](
		func(d time.Duration) ([]byte, error) {
			return yaml.Marshal(d.String())
		},
	)
}
