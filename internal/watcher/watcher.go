// Package watcher reports external changes to the edited file.
//
// The directory holding the file is watched rather than the file itself,
// since an atomic save replaces the file's inode. Events for other names
// in that directory are dropped, and bursts of changes are coalesced by
// Debounced.
package watcher

import (
	"errors"
	"strings"
	"time"
)

// Common errors returned by watcher operations.
var (
	ErrWatcherClosed = errors.New("watcher is closed")
	ErrPathNotExist  = errors.New("path does not exist")
)

// Op represents the type of file system operation.
type Op uint32

const (
	// OpCreate indicates a file was created.
	OpCreate Op = 1 << iota
	// OpWrite indicates a file was written to.
	OpWrite
	// OpRemove indicates a file was removed.
	OpRemove
	// OpRename indicates a file was renamed.
	OpRename
	// OpChmod indicates file permissions were changed.
	OpChmod
)

var opNames = []struct {
	op   Op
	name string
}{
	{OpCreate, "CREATE"},
	{OpWrite, "WRITE"},
	{OpRemove, "REMOVE"},
	{OpRename, "RENAME"},
	{OpChmod, "CHMOD"},
}

// String returns a human-readable representation of the operation set.
func (op Op) String() string {
	var parts []string
	for _, n := range opNames {
		if op.Has(n.op) {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "UNKNOWN"
	}
	return strings.Join(parts, "|")
}

// Has returns true if the operation includes the given op.
func (op Op) Has(o Op) bool {
	return op&o == o
}

// Event represents a file system change event.
type Event struct {
	// Path is the absolute path of the affected file.
	Path string

	// Op is the operation that occurred. Debounced events carry every
	// operation seen in the window.
	Op Op

	// Timestamp is when the (last) event occurred.
	Timestamp time.Time
}

// Watcher delivers change events until closed.
type Watcher interface {
	// Events returns the channel of file change events.
	// The channel is closed when the watcher is closed.
	Events() <-chan Event

	// Errors returns the channel of watcher errors.
	// The channel is closed when the watcher is closed.
	Errors() <-chan error

	// Close stops the watcher and releases resources.
	Close() error
}
