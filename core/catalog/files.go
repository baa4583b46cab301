// Copyright 2025, the dog-api contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ErrNotFound is returned by OpenFile for anything that is not a regular file
// below the asset root.
var ErrNotFound = errors.New("file not found")

// OpenFile opens filePath, a slash-separated path relative to the asset root.
//
// Paths containing ".." segments are refused outright, and the file is opened
// through an os.Root so symlinks cannot lead outside the tree either.
func (c *Catalog) OpenFile(filePath string) (*os.File, fs.FileInfo, error) {
	filePath = strings.TrimPrefix(filePath, "/")
	if filePath == "" || slices.Contains(strings.Split(filePath, "/"), "..") {
		return nil, nil, fmt.Errorf("%w: %q", ErrNotFound, filePath)
	}

	root, err := os.OpenRoot(c.root)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	defer root.Close()

	file, err := root.Open(filepath.FromSlash(filePath))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()

		return nil, nil, fmt.Errorf("failed to stat %q: %w", filePath, err)
	}

	if !info.Mode().IsRegular() {
		file.Close()

		return nil, nil, fmt.Errorf("%w: %q is not a regular file", ErrNotFound, filePath)
	}

	return file, info, nil
}
