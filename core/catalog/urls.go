// Copyright 2025, the dog-api contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrOutsideRoot is returned when an image path does not lie below the asset root.
var ErrOutsideRoot = errors.New("path is outside the assets directory")

// URLMapper turns image paths into public URLs.
type URLMapper struct {
	root    string
	baseURL string
}

// NewURLMapper returns a URLMapper for files below root, published under
// baseURL (which already includes any mount prefix).
func NewURLMapper(root, baseURL string) *URLMapper {
	return &URLMapper{
		root:    filepath.Clean(root),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// ImageURL returns baseURL + "/images/" + the slash-separated path of img
// relative to the asset root.
func (m *URLMapper) ImageURL(img Image) (string, error) {
	rel, err := filepath.Rel(m.root, img.Path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrOutsideRoot, err)
	}

	rel = filepath.ToSlash(rel)
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, img.Path)
	}

	return m.baseURL + "/images/" + rel, nil
}

// ImageURLs maps every image in order.
func (m *URLMapper) ImageURLs(images []Image) ([]string, error) {
	urls := make([]string, 0, len(images))

	for _, img := range images {
		u, err := m.ImageURL(img)
		if err != nil {
			return nil, err
		}

		urls = append(urls, u)
	}

	return urls, nil
}
