// Copyright 2025, the dog-api contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import "net/http"

// Health answers liveness probes.
func Health(w http.ResponseWriter, _ *http.Request) error {
	return writeSuccess(w, "ok")
}
