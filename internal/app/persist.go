package app

import (
	"errors"
	"io/fs"

	"github.com/google/uuid"

	"github.com/dshills/exedit/internal/engine/document"
	"github.com/dshills/exedit/internal/vfs"
)

// defaultFileMode is used when the target does not exist yet.
const defaultFileMode fs.FileMode = 0o644

// loadDocument reads path and returns the document and the raw content.
func loadDocument(fsys vfs.VFS, path string) (*document.Document, string, error) {
	info, err := fsys.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", &FileError{Op: "open", Path: path, Err: ErrNoFile}
		}
		return nil, "", &FileError{Op: "open", Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, "", &FileError{Op: "open", Path: path, Err: errors.New("is a directory")}
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, "", &FileError{Op: "open", Path: path, Err: err}
	}
	text := string(data)
	return document.FromText(text), text, nil
}

// saveFile replaces path with content atomically: the data goes to a
// hidden temp file in the same directory, which is renamed over the
// target. The target's permission bits are kept.
func saveFile(fsys vfs.VFS, path, content string) error {
	perm := defaultFileMode
	if info, err := fsys.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	tmp := tempPath(fsys, path)
	if err := fsys.WriteFile(tmp, []byte(content), perm); err != nil {
		return &FileError{Op: "save", Path: path, Err: err}
	}
	if err := fsys.Rename(tmp, path); err != nil {
		_ = fsys.Remove(tmp)
		return &FileError{Op: "save", Path: path, Err: err}
	}
	return nil
}

// tempPath returns .<base>.<uuid>.tmp next to path.
func tempPath(fsys vfs.VFS, path string) string {
	return fsys.Join(fsys.Dir(path), "."+fsys.Base(path)+"."+uuid.NewString()+".tmp")
}
