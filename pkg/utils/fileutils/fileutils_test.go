package fileutils

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func content(s string) func(w io.Writer) error {
	return func(w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	}
}

func TestAtomicWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.sh")

	require.NoError(t, AtomicWrite(path, 0o755, content("#!/bin/sh\n")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh\n", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

func TestAtomicWriteFailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	err := AtomicWrite(path, 0o644, func(w io.Writer) error { return errors.New("boom") })
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAtomicEdit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("same"), 0o644))

	changed, err := AtomicEdit(path, 0o644, content("same"))
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = AtomicEdit(path, 0o644, content("different"))
	require.NoError(t, err)
	assert.True(t, changed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "different", string(data))
}

func TestWalkFilesFS(t *testing.T) {
	fsys := fstest.MapFS{
		"b.txt":          {},
		"a/c.txt":        {},
		".git/HEAD":      {},
		"sub/.git/index": {},
		"sub/d.txt":      {},
	}

	files, err := WalkFilesFS(fsys, ".", ".git")
	require.NoError(t, err)
	assert.Equal(t, []string{"a/c.txt", "b.txt", "sub/d.txt"}, files)

	files, err = WalkFilesFS(fsys, "sub", ".git")
	require.NoError(t, err)
	assert.Equal(t, []string{"d.txt"}, files)
}
