// Copyright 2025, the dog-api contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Status is the outcome reported in every JSON response.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Response is the JSON envelope shared by all API routes.
//
// Message is a breed map, a list of URLs or a single string depending on
// the route; each route instantiates Response with its own payload type.
type Response[T any] struct {
	Status  Status `json:"status"`
	Message T      `json:"message"`
}

// BreedMap maps breed names to their sub-breed names.
type BreedMap = map[string][]string

// writeJSON encodes v as the response body with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON response: %w", err)
	}

	return nil
}

// writeSuccess writes a 200 response carrying message.
func writeSuccess[T any](w http.ResponseWriter, message T) error {
	return writeJSON(w, http.StatusOK, Response[T]{Status: StatusSuccess, Message: message})
}

// WriteError writes an error envelope with the given status code.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	_ = writeJSON(w, statusCode, Response[string]{Status: StatusError, Message: message})
}
