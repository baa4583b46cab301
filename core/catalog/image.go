// Copyright 2025, the dog-api contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Image is an image file inside the asset tree.
type Image struct {
	// Path is the absolute filesystem path of the file.
	Path string
}

// imageExtensions lists the accepted file extensions, compared case-insensitively.
var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
}

// isImageName reports whether name carries one of the accepted image extensions.
//
// A leading dot does not start an extension, so ".png" alone is not an image.
func isImageName(name string) bool {
	ext := extension(name)
	if ext == "" {
		return false
	}

	_, ok := imageExtensions[strings.ToLower(ext)]

	return ok
}

// extension returns the final dot-suffix of name, or "" when there is none.
func extension(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || i == len(name)-1 {
		return ""
	}

	return name[i:]
}

// validName reports whether name can be used as a single path segment below
// the asset root.
func validName(name string) bool {
	switch name {
	case "", ".", "..":
		return false
	}

	return !strings.ContainsAny(name, "/\\\x00")
}

type kind int

const (
	kindOther kind = iota
	kindFile
	kindDir
)

// entryKind classifies entry, which lives in dir. Symlinks are resolved.
func entryKind(dir string, entry fs.DirEntry) kind {
	mode := entry.Type()

	if mode&fs.ModeSymlink != 0 {
		info, err := os.Stat(filepath.Join(dir, entry.Name()))
		if err != nil {
			return kindOther
		}

		mode = info.Mode()
	}

	switch {
	case mode.IsDir():
		return kindDir
	case mode.IsRegular():
		return kindFile
	default:
		return kindOther
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}
