// Package docroot resolves request paths to files below the public
// document root.
package docroot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

// DirectoryIndex is the file served for a request naming a directory
const DirectoryIndex = "index.html"

var (
	// ErrOutsideRoot is returned when a path resolves outside of the document root
	ErrOutsideRoot = errors.New("path is outside of the document root")
	// ErrSymlink is returned for paths crossing a symlink when symlinks are not followed
	ErrSymlink = errors.New("path crosses a symbolic link")
)

// Root is a document root directory
type Root struct {
	path           string
	followSymlinks bool
}

// New returns the document root at path. Relative paths are resolved
// against the working directory once, at start-up.
func New(path string, followSymlinks bool) (*Root, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving document root %q: %w", path, err)
	}

	return &Root{path: abs, followSymlinks: followSymlinks}, nil
}

// Path returns the absolute path of the document root
func (r *Root) Path() string {
	return r.path
}

func (r *Root) validateFullPath(fullPath string) error {
	if fullPath == r.path {
		return nil
	}

	// The requested path resolved to somewhere outside of the `r.path` directory
	if !strings.HasPrefix(fullPath, r.path+string(filepath.Separator)) {
		return fmt.Errorf("%q should be in %q: %w", fullPath, r.path, ErrOutsideRoot)
	}

	return nil
}

func (r *Root) stat(fullPath string) (os.FileInfo, error) {
	if r.followSymlinks {
		return os.Stat(fullPath)
	}

	return r.lstatEach(fullPath)
}

// lstatEach walks fullPath below the root one element at a time and fails on
// the first symlink. The root itself may live behind a symlink.
func (r *Root) lstatEach(fullPath string) (os.FileInfo, error) {
	rel, err := filepath.Rel(r.path, fullPath)
	if err != nil {
		return nil, err
	}

	current := r.path
	fi, err := os.Stat(current)
	if err != nil {
		return nil, err
	}

	if rel == "." {
		return fi, nil
	}

	for _, name := range strings.Split(rel, string(filepath.Separator)) {
		current = filepath.Join(current, name)

		fi, err = os.Lstat(current)
		if err != nil {
			return nil, err
		}

		if fi.Mode()&os.ModeSymlink != 0 {
			return nil, fmt.Errorf("%q: %w", current, ErrSymlink)
		}
	}

	return fi, nil
}

// Resolve maps a slash separated URL path, without query, to the file that
// answers it. ok is false when nothing servable exists there: the path
// escapes the root, stat fails, or the path names something other than a
// regular file or a directory holding an index file.
func (r *Root) Resolve(urlPath string) (fullPath string, ok bool) {
	fullPath = filepath.Join(r.path, filepath.FromSlash(urlPath))
	if err := r.validateFullPath(fullPath); err != nil {
		return "", false
	}

	fi, err := r.stat(fullPath)
	if err != nil {
		return "", false
	}

	if fi.IsDir() {
		fullPath = filepath.Join(fullPath, DirectoryIndex)

		fi, err = r.stat(fullPath)
		if err != nil {
			return "", false
		}
	}

	if !fi.Mode().IsRegular() {
		return "", false
	}

	return fullPath, true
}

// Open opens a file previously returned by Resolve for reading. Unless
// symlinks are followed no path element below the root may be a symlink.
func (r *Root) Open(fullPath string) (*os.File, error) {
	fullPath = filepath.Clean(fullPath)
	if err := r.validateFullPath(fullPath); err != nil {
		return nil, err
	}

	if r.followSymlinks {
		return os.Open(fullPath)
	}

	if _, err := r.lstatEach(fullPath); err != nil {
		return nil, err
	}

	return os.OpenFile(fullPath, os.O_RDONLY|unix.O_NOFOLLOW, 0)
}
