package vfs

import (
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"
)

// Standard error values for MemFS operations.
// These align with POSIX errors for consistency with OSFS.
var (
	errIsDir  = syscall.EISDIR
	errNotDir = syscall.ENOTDIR
)

// MemFS implements VFS using an in-memory file system.
// Paths are slash-separated and rooted at "/".
//
// MemFS is safe for concurrent use.
type MemFS struct {
	mu    sync.RWMutex
	files map[string]*memFile
	dirs  map[string]bool
}

type memFile struct {
	content []byte
	mode    fs.FileMode
	modTime time.Time
}

// NewMemFS creates a new in-memory file system.
func NewMemFS() *MemFS {
	return &MemFS{
		files: make(map[string]*memFile),
		dirs:  map[string]bool{"/": true},
	}
}

// Ensure MemFS implements VFS.
var _ VFS = (*MemFS)(nil)

// ReadFile reads the entire file content.
func (m *MemFS) ReadFile(filePath string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	filePath = m.cleanPath(filePath)
	f, ok := m.files[filePath]
	if !ok {
		if m.dirs[filePath] {
			return nil, &fs.PathError{Op: "read", Path: filePath, Err: errIsDir}
		}
		return nil, &fs.PathError{Op: "read", Path: filePath, Err: fs.ErrNotExist}
	}

	// Return a copy to prevent modification
	content := make([]byte, len(f.content))
	copy(content, f.content)
	return content, nil
}

// WriteFile writes data to a file, creating it if necessary.
// An existing file keeps its mode, as os.WriteFile does.
func (m *MemFS) WriteFile(filePath string, data []byte, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	filePath = m.cleanPath(filePath)
	if m.dirs[filePath] {
		return &fs.PathError{Op: "write", Path: filePath, Err: errIsDir}
	}
	if dir := path.Dir(filePath); !m.dirs[dir] {
		if _, ok := m.files[dir]; ok {
			return &fs.PathError{Op: "write", Path: filePath, Err: errNotDir}
		}
		return &fs.PathError{Op: "write", Path: filePath, Err: fs.ErrNotExist}
	}

	content := make([]byte, len(data))
	copy(content, data)

	mode := perm
	if existing, ok := m.files[filePath]; ok {
		mode = existing.mode
	}
	m.files[filePath] = &memFile{content: content, mode: mode, modTime: time.Now()}
	return nil
}

// Stat returns file information.
func (m *MemFS) Stat(filePath string) (FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	filePath = m.cleanPath(filePath)
	if f, ok := m.files[filePath]; ok {
		return NewFileInfo(filePath, path.Base(filePath), int64(len(f.content)), f.mode, f.modTime, false), nil
	}
	if m.dirs[filePath] {
		return NewFileInfo(filePath, path.Base(filePath), 0, fs.ModeDir|0755, time.Now(), true), nil
	}
	return FileInfo{}, &fs.PathError{Op: "stat", Path: filePath, Err: fs.ErrNotExist}
}

// MkdirAll creates a directory and all parent directories.
func (m *MemFS) MkdirAll(dirPath string, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	dirPath = m.cleanPath(dirPath)
	for p := dirPath; ; p = path.Dir(p) {
		if _, ok := m.files[p]; ok {
			return &fs.PathError{Op: "mkdir", Path: p, Err: errNotDir}
		}
		if p == "/" {
			break
		}
	}
	for p := dirPath; p != "/"; p = path.Dir(p) {
		m.dirs[p] = true
	}
	return nil
}

// Remove removes a file or empty directory.
func (m *MemFS) Remove(filePath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	filePath = m.cleanPath(filePath)
	if _, ok := m.files[filePath]; ok {
		delete(m.files, filePath)
		return nil
	}
	if !m.dirs[filePath] {
		return &fs.PathError{Op: "remove", Path: filePath, Err: fs.ErrNotExist}
	}
	prefix := strings.TrimSuffix(filePath, "/") + "/"
	for p := range m.files {
		if strings.HasPrefix(p, prefix) {
			return &fs.PathError{Op: "remove", Path: filePath, Err: syscall.ENOTEMPTY}
		}
	}
	for d := range m.dirs {
		if strings.HasPrefix(d, prefix) {
			return &fs.PathError{Op: "remove", Path: filePath, Err: syscall.ENOTEMPTY}
		}
	}
	delete(m.dirs, filePath)
	return nil
}

// Rename renames a file, replacing the target.
func (m *MemFS) Rename(oldPath, newPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	oldPath = m.cleanPath(oldPath)
	newPath = m.cleanPath(newPath)

	f, ok := m.files[oldPath]
	if !ok {
		if m.dirs[oldPath] {
			return &fs.PathError{Op: "rename", Path: oldPath, Err: errIsDir}
		}
		return &fs.PathError{Op: "rename", Path: oldPath, Err: fs.ErrNotExist}
	}
	if !m.dirs[path.Dir(newPath)] {
		return &fs.PathError{Op: "rename", Path: newPath, Err: fs.ErrNotExist}
	}
	if m.dirs[newPath] {
		return &fs.PathError{Op: "rename", Path: newPath, Err: errIsDir}
	}

	m.files[newPath] = f
	delete(m.files, oldPath)
	return nil
}

// Abs returns the absolute path.
func (m *MemFS) Abs(p string) (string, error) {
	return m.cleanPath(p), nil
}

// Join joins path elements.
func (m *MemFS) Join(elem ...string) string {
	return path.Join(elem...)
}

// Dir returns the directory portion of a path.
func (m *MemFS) Dir(p string) string {
	return path.Dir(p)
}

// Base returns the last element of a path.
func (m *MemFS) Base(p string) string {
	return path.Base(p)
}

// Exists returns true if the path exists.
func (m *MemFS) Exists(p string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p = m.cleanPath(p)
	_, isFile := m.files[p]
	return isFile || m.dirs[p]
}

// cleanPath normalizes a path to an absolute slash path.
func (m *MemFS) cleanPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

// AddFile creates a file with the given content and mode, creating parent
// directories as needed. Useful for testing.
func (m *MemFS) AddFile(filePath, content string, perm fs.FileMode) error {
	if dir := path.Dir(m.cleanPath(filePath)); dir != "/" {
		if err := m.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return m.WriteFile(filePath, []byte(content), perm)
}

// Files returns all file paths in the file system, sorted.
// Useful for testing and debugging.
func (m *MemFS) Files() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	paths := make([]string, 0, len(m.files))
	for p := range m.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
