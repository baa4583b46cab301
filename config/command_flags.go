// Copyright 2025, the dog-api contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import "flag"

const configFlagName = "config"

// parseCommandLineArgs defines and parses flags, returning the value of the "config" flag.
func parseCommandLineArgs() string {
	if flag.Lookup(configFlagName) == nil {
		flag.String(configFlagName, "./config.yaml", "Path to a dog-api configuration file in YAML format.")
	}

	if !flag.Parsed() {
		flag.Parse()
	}

	return flag.Lookup(configFlagName).Value.String()
}
