package engine

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/averycrespi/cartographer-mcp/pkg/types"
)

func TestPathTableRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.go")
	writeFile(t, path, "package main\n")

	pt := NewPathTable()

	id, err := pt.FileID(path)
	require.NoError(t, err)

	resolved, err := pt.Path(id)
	require.NoError(t, err)

	// t.TempDir may sit behind a symlink; compare canonical forms
	canonical, err := filepath.EvalSymlinks(path)
	require.NoError(t, err)
	assert.Equal(t, canonical, resolved)
}

func TestPathTableFileIDMissing(t *testing.T) {
	dir := t.TempDir()

	pt := NewPathTable()

	_, err := pt.FileID(filepath.Join(dir, "missing.go"))
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrFileNotFound)
}

func TestPathTableUnknownFileURI(t *testing.T) {
	pt := NewPathTable()

	// Engine hits may reference files that were never resolved by us, such
	// as module cache sources; those resolve from the URI directly.
	path, err := pt.Path(types.FileID("file:///somewhere/else.go"))
	require.NoError(t, err)
	assert.Equal(t, "/somewhere/else.go", path)
}

func TestPathTableNonFileIdentifier(t *testing.T) {
	pt := NewPathTable()

	_, err := pt.Path(types.FileID("untitled:scratch"))
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrFileNotFound)
}

func TestPathTableSeed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.go"), "package a\n")
	writeFile(t, filepath.Join(dir, "sub", "b.go"), "package sub\n")
	writeFile(t, filepath.Join(dir, ".hidden", "c.go"), "package hidden\n")
	writeFile(t, filepath.Join(dir, "README.md"), "# demo\n")

	pt := NewPathTable()
	count := pt.Seed(dir)

	assert.Equal(t, 2, count)

	path, err := pt.Path(types.FileID(fileURIScheme + filepath.Join(dir, "sub", "b.go")))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "sub", "b.go"), path)
}
