// Copyright 2025, the dog-api contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"errors"
	"fmt"
	"net/http"

	"codeberg.org/dogapi/dogapi/core/catalog"
	"codeberg.org/dogapi/dogapi/server/utils"
)

// RandomImage returns one image URL picked from every breed.
func (h *Handlers) RandomImage(w http.ResponseWriter, r *http.Request) error {
	images, err := h.catalog.ListAllImages(r.Context())
	if err != nil {
		return err
	}

	if len(images) == 0 {
		return NewNotFoundError("No images found")
	}

	return h.writeImageURL(w, catalog.PickRandom(images))
}

// BreedImages returns every image URL of a breed, sub-breeds included.
func (h *Handlers) BreedImages(w http.ResponseWriter, r *http.Request) error {
	images, err := h.breedImages(r)
	if err != nil {
		return err
	}

	return h.writeImageURLs(w, images)
}

// RandomBreedImage returns one image URL of a breed, sub-breeds included.
func (h *Handlers) RandomBreedImage(w http.ResponseWriter, r *http.Request) error {
	images, err := h.breedImages(r)
	if err != nil {
		return err
	}

	return h.writeImageURL(w, catalog.PickRandom(images))
}

// SubBreedImages returns every image URL of a sub-breed.
func (h *Handlers) SubBreedImages(w http.ResponseWriter, r *http.Request) error {
	images, err := h.subBreedImages(r)
	if err != nil {
		return err
	}

	return h.writeImageURLs(w, images)
}

// RandomSubBreedImage returns one image URL of a sub-breed.
func (h *Handlers) RandomSubBreedImage(w http.ResponseWriter, r *http.Request) error {
	images, err := h.subBreedImages(r)
	if err != nil {
		return err
	}

	return h.writeImageURL(w, catalog.PickRandom(images))
}

// ServeImage writes the bytes of a file below the asset root. The content
// type is inferred from the file extension.
func (h *Handlers) ServeImage(w http.ResponseWriter, r *http.Request) error {
	file, info, err := h.catalog.OpenFile(utils.GetPathVar(r, "file_path"))
	if errors.Is(err, catalog.ErrNotFound) {
		return NewNotFoundError("Image not found")
	} else if err != nil {
		return err
	}
	defer file.Close()

	http.ServeContent(w, r, info.Name(), info.ModTime(), file)

	return nil
}

// breedImages lists the images of the {breed} path variable, failing with
// NotFoundError when there are none.
func (h *Handlers) breedImages(r *http.Request) ([]catalog.Image, error) {
	breed := utils.GetPathVar(r, "breed")

	images, err := h.catalog.ListImages(r.Context(), breed, "")
	if err != nil {
		return nil, err
	}

	if len(images) == 0 {
		return nil, NewNotFoundError("Breed '%s' not found or has no images", breed)
	}

	return images, nil
}

// subBreedImages lists the images of the {breed}/{subbreed} path variables,
// failing with NotFoundError when there are none.
func (h *Handlers) subBreedImages(r *http.Request) ([]catalog.Image, error) {
	breed := utils.GetPathVar(r, "breed")
	subBreed := utils.GetPathVar(r, "subbreed")

	images, err := h.catalog.ListImages(r.Context(), breed, subBreed)
	if err != nil {
		return nil, err
	}

	if len(images) == 0 {
		return nil, NewNotFoundError("Sub-breed '%s/%s' not found or has no images", breed, subBreed)
	}

	return images, nil
}

func (h *Handlers) writeImageURL(w http.ResponseWriter, image catalog.Image) error {
	url, err := h.urls.ImageURL(image)
	if err != nil {
		return fmt.Errorf("failed to build image URL: %w", err)
	}

	return writeSuccess(w, url)
}

func (h *Handlers) writeImageURLs(w http.ResponseWriter, images []catalog.Image) error {
	urls, err := h.urls.ImageURLs(images)
	if err != nil {
		return fmt.Errorf("failed to build image URLs: %w", err)
	}

	return writeSuccess(w, urls)
}
