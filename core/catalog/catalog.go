// Copyright 2025, the dog-api contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package catalog reads the asset tree of breed and sub-breed directories.

The tree is scanned from disk on every call; nothing is cached, so changes on
disk show up on the next request. A missing asset root is served as an empty
catalog rather than an error.

Layout:

	<root>/<breed>/<image>
	<root>/<breed>/<sub-breed>/<image>
*/
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"codeberg.org/dogapi/dogapi/core/audit"
)

// Observer receives the duration of every catalog operation.
type Observer interface {
	ObserveScan(operation string, duration time.Duration)
}

// Catalog lists breeds and images below a fixed asset root.
//
// A Catalog holds no mutable state and is safe for concurrent use.
type Catalog struct {
	root        string
	observer    Observer
	concurrency int
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithObserver reports operation durations to o.
func WithObserver(o Observer) Option {
	return func(c *Catalog) {
		c.observer = o
	}
}

// WithConcurrency bounds how many breeds ListAllImages scans at once.
func WithConcurrency(n int) Option {
	return func(c *Catalog) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// New returns a Catalog rooted at root, which should be an absolute path.
func New(root string, opts ...Option) *Catalog {
	c := &Catalog{
		root:        filepath.Clean(root),
		concurrency: runtime.GOMAXPROCS(0),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Root returns the asset root.
func (c *Catalog) Root() string {
	return c.root
}

// ListBreeds maps every breed directory to the names of its sub-breed
// directories. Breeds without sub-breeds map to an empty, non-nil slice.
func (c *Catalog) ListBreeds(ctx context.Context) (map[string][]string, error) {
	done := c.begin(ctx, "ListBreeds", "/")
	breeds, err := c.listBreeds()
	done(err)

	return breeds, err
}

// ListImages returns the images of breed, or of breed/subBreed when subBreed
// is not empty.
//
// With a sub-breed only the files directly inside that directory are listed.
// Without one, the files directly inside the breed directory are listed
// together with every image found recursively below its sub-directories.
//
// An unknown breed or sub-breed yields an empty slice.
func (c *Catalog) ListImages(ctx context.Context, breed, subBreed string) ([]Image, error) {
	done := c.begin(ctx, "ListImages", "/"+breed+"/"+subBreed)
	images, err := c.listImages(breed, subBreed)
	done(err)

	return images, err
}

// ListAllImages returns the union of ListImages over every breed, ordered by
// breed name.
func (c *Catalog) ListAllImages(ctx context.Context) ([]Image, error) {
	done := c.begin(ctx, "ListAllImages", "/")
	images, err := c.listAllImages(ctx)
	done(err)

	return images, err
}

// begin starts an audit span for operation and returns the function that ends it.
func (c *Catalog) begin(ctx context.Context, operation, target string) func(error) {
	span := audit.Span{
		Destination: audit.ToAssets,
		Method:      operation,
		URL:         target,
	}

	_ = span.Begin(ctx)

	return func(err error) {
		span.End()

		span.Error = err
		span.Log()

		if c.observer != nil {
			c.observer.ObserveScan(operation, span.Duration())
		}
	}
}

func (c *Catalog) listBreeds() (map[string][]string, error) {
	breeds := make(map[string][]string)

	entries, err := c.readRoot()
	if err != nil || entries == nil {
		return breeds, err
	}

	for _, entry := range entries {
		if entryKind(c.root, entry) != kindDir {
			continue
		}

		subBreeds, err := subdirectories(filepath.Join(c.root, entry.Name()))
		if err != nil {
			return nil, err
		}

		breeds[entry.Name()] = subBreeds
	}

	return breeds, nil
}

// readRoot lists the asset root. It returns nil entries and no error when the
// root does not exist.
func (c *Catalog) readRoot() ([]fs.DirEntry, error) {
	if !isDir(c.root) {
		log.Debug().
			Str("path", c.root).
			Msg("Assets directory missing, serving an empty catalog")

		return nil, nil
	}

	entries, err := os.ReadDir(c.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read assets directory: %w", err)
	}

	return entries, nil
}

func (c *Catalog) listImages(breed, subBreed string) ([]Image, error) {
	images := []Image{}

	if !validName(breed) || (subBreed != "" && !validName(subBreed)) {
		return images, nil
	}

	breedPath := filepath.Join(c.root, breed)
	if !isDir(breedPath) {
		return images, nil
	}

	if subBreed != "" {
		subBreedPath := filepath.Join(breedPath, subBreed)
		if !isDir(subBreedPath) {
			return images, nil
		}

		return directImages(subBreedPath)
	}

	entries, err := os.ReadDir(breedPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read breed %q: %w", breed, err)
	}

	for _, entry := range entries {
		switch entryKind(breedPath, entry) {
		case kindFile:
			if isImageName(entry.Name()) {
				images = append(images, Image{Path: filepath.Join(breedPath, entry.Name())})
			}
		case kindDir:
			images = append(images, walkImages(filepath.Join(breedPath, entry.Name()))...)
		case kindOther:
		}
	}

	return images, nil
}

func (c *Catalog) listAllImages(ctx context.Context) ([]Image, error) {
	breeds, err := c.listBreeds()
	if err != nil {
		return nil, err
	}

	names := slices.Sorted(maps.Keys(breeds))

	perBreed := make([][]Image, len(names))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			images, err := c.listImages(name, "")
			if err != nil {
				return err
			}

			perBreed[i] = images

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return slices.Concat(perBreed...), nil
}

// subdirectories returns the names of the directories directly inside dir.
func subdirectories(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", dir, err)
	}

	names := []string{}

	for _, entry := range entries {
		if entryKind(dir, entry) == kindDir {
			names = append(names, entry.Name())
		}
	}

	return names, nil
}

// directImages returns the images directly inside dir, without descending.
func directImages(dir string) ([]Image, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", dir, err)
	}

	images := []Image{}

	for _, entry := range entries {
		if entryKind(dir, entry) == kindFile && isImageName(entry.Name()) {
			images = append(images, Image{Path: filepath.Join(dir, entry.Name())})
		}
	}

	return images, nil
}

// walkImages returns every image below dir, at any depth.
//
// Symlinked directories below dir are not followed, which keeps the walk
// finite on trees with link cycles. Unreadable directories are skipped.
func walkImages(dir string) []Image {
	var images []Image

	err := fs.WalkDir(os.DirFS(dir), ".", func(name string, entry fs.DirEntry, err error) error {
		if err != nil {
			log.Warn().
				Err(err).
				Str("path", filepath.Join(dir, name)).
				Msg("Skipping unreadable path in assets directory")

			return nil
		}

		if entry.IsDir() || !isImageName(entry.Name()) {
			return nil
		}

		full := filepath.Join(dir, filepath.FromSlash(name))
		if entryKind(filepath.Dir(full), entry) == kindFile {
			images = append(images, Image{Path: full})
		}

		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Str("path", dir).Msg("Walking assets directory failed")
	}

	return images
}
