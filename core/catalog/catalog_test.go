// Copyright 2025, the dog-api contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/dogapi/dogapi/core/catalog"
)

// writeTree creates every file in files below root, along with its parents.
// Names ending in "/" create empty directories.
func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()

	for _, name := range files {
		full := filepath.Join(root, filepath.FromSlash(name))

		if name[len(name)-1] == '/' {
			require.NoError(t, os.MkdirAll(full, 0o755))

			continue
		}

		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("img"), 0o600))
	}
}

func relPaths(t *testing.T, root string, images []catalog.Image) []string {
	t.Helper()

	paths := make([]string, 0, len(images))

	for _, img := range images {
		rel, err := filepath.Rel(root, img.Path)
		require.NoError(t, err)

		paths = append(paths, filepath.ToSlash(rel))
	}

	return paths
}

func TestListBreeds(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root,
		"A/",
		"B/x/1.jpg",
		"B/y/",
		"B/readme.txt",
		"stray.png",
	)

	breeds, err := catalog.New(root).ListBreeds(t.Context())
	require.NoError(t, err)

	assert.Equal(t, map[string][]string{
		"A": {},
		"B": {"x", "y"},
	}, breeds)
	assert.NotNil(t, breeds["A"], "breeds without sub-breeds map to an empty list")
}

func TestListBreeds_MissingRoot(t *testing.T) {
	t.Parallel()

	c := catalog.New(filepath.Join(t.TempDir(), "missing"))

	breeds, err := c.ListBreeds(t.Context())
	require.NoError(t, err)
	assert.Empty(t, breeds)

	images, err := c.ListAllImages(t.Context())
	require.NoError(t, err)
	assert.Empty(t, images)
}

func TestListImages(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root,
		"A/1.jpg",
		"A/2.PNG",
		"A/notes.txt",
		"A/.png",
		"A/x/3.jpeg",
		"A/x/deep/4.jpg",
		"A/x/deep/5.gif",
		"B/",
	)

	c := catalog.New(root)

	tests := []struct {
		name     string
		breed    string
		subBreed string
		want     []string
	}{
		{
			name:  "Breed includes recursive sub-breed images",
			breed: "A",
			want:  []string{"A/1.jpg", "A/2.PNG", "A/x/3.jpeg", "A/x/deep/4.jpg"},
		},
		{
			name:     "Sub-breed lists direct files only",
			breed:    "A",
			subBreed: "x",
			want:     []string{"A/x/3.jpeg"},
		},
		{
			name:  "Empty breed",
			breed: "B",
			want:  []string{},
		},
		{
			name:  "Unknown breed",
			breed: "C",
			want:  []string{},
		},
		{
			name:     "Unknown sub-breed",
			breed:    "A",
			subBreed: "z",
			want:     []string{},
		},
		{
			name:  "Traversal name is treated as absent",
			breed: "..",
			want:  []string{},
		},
		{
			name:     "Sub-breed that is a file",
			breed:    "A",
			subBreed: "1.jpg",
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			images, err := c.ListImages(t.Context(), tt.breed, tt.subBreed)
			require.NoError(t, err)

			assert.Equal(t, tt.want, relPaths(t, root, images))
		})
	}
}

func TestListImages_SubBreedSkipsDirectories(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, "A/x/1.jpg", "A/x/folder.jpg/")

	images, err := catalog.New(root).ListImages(t.Context(), "A", "x")
	require.NoError(t, err)

	assert.Equal(t, []string{"A/x/1.jpg"}, relPaths(t, root, images))
}

func TestListImages_ReflectsDiskChanges(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, "A/1.jpg")

	c := catalog.New(root)

	images, err := c.ListImages(t.Context(), "A", "")
	require.NoError(t, err)
	assert.Len(t, images, 1)

	writeTree(t, root, "A/2.jpg")

	images, err = c.ListImages(t.Context(), "A", "")
	require.NoError(t, err)
	assert.Len(t, images, 2)
}

func TestListAllImages(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root,
		"C/c.jpg",
		"A/a.jpg",
		"A/x/ax.png",
		"B/",
		"D/d/dd.jpeg",
	)

	images, err := catalog.New(root, catalog.WithConcurrency(2)).ListAllImages(t.Context())
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"A/a.jpg", "A/x/ax.png", "C/c.jpg", "D/d/dd.jpeg"},
		relPaths(t, root, images),
	)
}

type recordingObserver struct {
	mu         sync.Mutex
	operations []string
}

func (o *recordingObserver) ObserveScan(operation string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.operations = append(o.operations, operation)
}

func TestObserver(t *testing.T) {
	t.Parallel()

	observer := &recordingObserver{}
	c := catalog.New(t.TempDir(), catalog.WithObserver(observer))

	_, err := c.ListBreeds(t.Context())
	require.NoError(t, err)

	_, err = c.ListImages(t.Context(), "A", "")
	require.NoError(t, err)

	_, err = c.ListAllImages(t.Context())
	require.NoError(t, err)

	assert.Equal(t, []string{"ListBreeds", "ListImages", "ListAllImages"}, observer.operations)
}
