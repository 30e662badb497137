package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher implements Watcher for a single file using fsnotify.
type FileWatcher struct {
	mu sync.Mutex

	watcher *fsnotify.Watcher
	path    string

	events chan Event
	errors chan error

	closed   bool
	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// NewFileWatcher starts watching path for external changes.
func NewFileWatcher(path string) (*FileWatcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(absPath)
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return nil, ErrPathNotExist
		}
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &FileWatcher{
		watcher: fsw,
		path:    absPath,
		events:  make(chan Event, 16),
		errors:  make(chan error, 16),
		closeCh: make(chan struct{}),
	}

	w.closedWg.Add(1)
	go w.processLoop()

	return w, nil
}

// Path returns the absolute path being watched.
func (w *FileWatcher) Path() string {
	return w.path
}

// Events returns the event channel.
func (w *FileWatcher) Events() <-chan Event {
	return w.events
}

// Errors returns the error channel.
func (w *FileWatcher) Errors() <-chan error {
	return w.errors
}

// Close stops the watcher.
func (w *FileWatcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	w.closedWg.Wait()

	close(w.events)
	close(w.errors)

	return w.watcher.Close()
}

// processLoop handles incoming fsnotify events.
func (w *FileWatcher) processLoop() {
	defer w.closedWg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case fsEvent, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(fsEvent)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}

// handleFSEvent converts and forwards events for the watched file.
func (w *FileWatcher) handleFSEvent(fsEvent fsnotify.Event) {
	if filepath.Clean(fsEvent.Name) != w.path {
		return
	}
	op := convertOp(fsEvent.Op)
	if op == 0 {
		return
	}

	select {
	case w.events <- Event{Path: w.path, Op: op, Timestamp: time.Now()}:
	case <-w.closeCh:
	}
}

// convertOp converts fsnotify.Op to watcher.Op.
func convertOp(fsOp fsnotify.Op) Op {
	var op Op
	if fsOp.Has(fsnotify.Create) {
		op |= OpCreate
	}
	if fsOp.Has(fsnotify.Write) {
		op |= OpWrite
	}
	if fsOp.Has(fsnotify.Remove) {
		op |= OpRemove
	}
	if fsOp.Has(fsnotify.Rename) {
		op |= OpRename
	}
	if fsOp.Has(fsnotify.Chmod) {
		op |= OpChmod
	}
	return op
}

// Ensure FileWatcher implements Watcher.
var _ Watcher = (*FileWatcher)(nil)
