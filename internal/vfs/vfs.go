// Package vfs provides the file system abstraction used for loading and
// saving documents and reading configuration.
//
// OSFS is the real file system; MemFS backs tests.
package vfs

import (
	"io/fs"
	"time"
)

// VFS is a virtual file system abstraction.
type VFS interface {
	// ReadFile reads the entire file content.
	ReadFile(path string) ([]byte, error)

	// WriteFile writes data to a file, creating it if necessary.
	WriteFile(path string, data []byte, perm fs.FileMode) error

	// Stat returns file information.
	Stat(path string) (FileInfo, error)

	// MkdirAll creates a directory and all parent directories.
	MkdirAll(path string, perm fs.FileMode) error

	// Remove removes a file or empty directory.
	Remove(path string) error

	// Rename renames (moves) a file, replacing the target.
	Rename(oldPath, newPath string) error

	// Abs returns the absolute path.
	Abs(path string) (string, error)

	// Join joins path elements.
	Join(elem ...string) string

	// Dir returns the directory portion of a path.
	Dir(path string) string

	// Base returns the last element of a path.
	Base(path string) string

	// Exists returns true if the path exists.
	Exists(path string) bool
}

// FileInfo describes a file or directory.
type FileInfo struct {
	path    string
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
	isDir   bool
}

// NewFileInfo creates a FileInfo from the given parameters.
func NewFileInfo(path, name string, size int64, mode fs.FileMode, modTime time.Time, isDir bool) FileInfo {
	return FileInfo{
		path:    path,
		name:    name,
		size:    size,
		mode:    mode,
		modTime: modTime,
		isDir:   isDir,
	}
}

// Path returns the full path.
func (fi FileInfo) Path() string { return fi.path }

// Name returns the base name.
func (fi FileInfo) Name() string { return fi.name }

// Size returns the file size in bytes.
func (fi FileInfo) Size() int64 { return fi.size }

// Mode returns the file mode.
func (fi FileInfo) Mode() fs.FileMode { return fi.mode }

// ModTime returns the modification time.
func (fi FileInfo) ModTime() time.Time { return fi.modTime }

// IsDir returns true if this is a directory.
func (fi FileInfo) IsDir() bool { return fi.isDir }

// IsRegular returns true if this is a regular file.
func (fi FileInfo) IsRegular() bool { return fi.mode.IsRegular() }
