package main

import (
	"os"
	"path/filepath"
	"testing"

	lostest "github.com/bgrewell/los-kit/internal/testing"
	"github.com/bgrewell/los-kit/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tempRoot points os.MkdirTemp at a fresh directory so leftovers can be counted.
func tempRoot(t *testing.T) string {
	root := t.TempDir()
	t.Setenv("TMPDIR", root)
	return root
}

func entries(t *testing.T, dir string) []os.DirEntry {
	list, err := os.ReadDir(dir)
	require.NoError(t, err)
	return list
}

func TestRun_RemovesWorkDirOnFailure(t *testing.T) {
	root := tempRoot(t)
	missing := filepath.Join(t.TempDir(), "missing.dc42")

	assert.Equal(t, 1, run([]string{missing}, 7, "", false, logging.DefaultLogger()))
	assert.Empty(t, entries(t, root))
}

func TestRun_RemovesWorkDirOnSuccess(t *testing.T) {
	src := filepath.Join(t.TempDir(), "tool.dc42")
	require.NoError(t, os.WriteFile(src, lostest.ToolDisk("17", 5, [2]byte{1, 1}), 0o644))
	root := tempRoot(t)

	assert.Equal(t, 0, run([]string{src}, 7, "", false, logging.DefaultLogger()))
	assert.Empty(t, entries(t, root))
}

func TestRun_KeepsWorkDir(t *testing.T) {
	root := tempRoot(t)
	missing := filepath.Join(t.TempDir(), "missing.dc42")

	assert.Equal(t, 1, run([]string{missing}, 7, "", true, logging.DefaultLogger()))
	assert.Len(t, entries(t, root), 1)
}
