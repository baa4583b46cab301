// Copyright 2025, the dog-api contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"

	"codeberg.org/dogapi/dogapi/server/utils"
)

// ListAllBreeds returns every breed with its sub-breeds.
func (h *Handlers) ListAllBreeds(w http.ResponseWriter, r *http.Request) error {
	breeds, err := h.catalog.ListBreeds(r.Context())
	if err != nil {
		return err
	}

	return writeSuccess(w, BreedMap(breeds))
}

// ListSubBreeds returns the sub-breeds of a single breed.
func (h *Handlers) ListSubBreeds(w http.ResponseWriter, r *http.Request) error {
	breed := utils.GetPathVar(r, "breed")

	breeds, err := h.catalog.ListBreeds(r.Context())
	if err != nil {
		return err
	}

	subBreeds, ok := breeds[breed]
	if !ok {
		return NewNotFoundError("Breed '%s' not found", breed)
	}

	return writeSuccess(w, subBreeds)
}
