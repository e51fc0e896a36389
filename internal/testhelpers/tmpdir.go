package testhelpers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TmpDir returns a temporary directory with symlinks resolved, removed when
// the test ends
func TmpDir(tb testing.TB) string {
	tb.Helper()

	// On some systems `/tmp` can be a symlink
	tmpDir, err := filepath.EvalSymlinks(tb.TempDir())
	require.NoError(tb, err)

	return tmpDir
}

// DocumentRoot creates a temporary document root holding files, keyed by
// slash separated path relative to the root. Parent directories are
// created as needed.
func DocumentRoot(tb testing.TB, files map[string]string) string {
	tb.Helper()

	root := TmpDir(tb)

	for name, content := range files {
		WriteFile(tb, root, name, content)
	}

	return root
}

// WriteFile writes content to name below root, creating parent directories
func WriteFile(tb testing.TB, root, name, content string) string {
	tb.Helper()

	fullPath := filepath.Join(root, filepath.FromSlash(name))

	require.NoError(tb, os.MkdirAll(filepath.Dir(fullPath), 0755))
	require.NoError(tb, os.WriteFile(fullPath, []byte(content), 0644))

	return fullPath
}

// Symlink creates a symlink at name below root pointing to target
func Symlink(tb testing.TB, root, target, name string) {
	tb.Helper()

	linkPath := filepath.Join(root, filepath.FromSlash(name))

	require.NoError(tb, os.MkdirAll(filepath.Dir(linkPath), 0755))
	require.NoError(tb, os.Symlink(target, linkPath))
}
