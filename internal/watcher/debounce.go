package watcher

import (
	"sync"
	"time"
)

// DefaultDebounce is the coalescing window used when none is given.
const DefaultDebounce = 100 * time.Millisecond

// DebouncedWatcher wraps a Watcher with event debouncing.
// Multiple rapid changes to the same file are coalesced into one event.
type DebouncedWatcher struct {
	inner Watcher
	delay time.Duration

	mu       sync.Mutex
	pending  map[string]*pendingEvent
	events   chan Event
	errors   chan error
	closed   bool
	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// pendingEvent tracks a debounced event.
type pendingEvent struct {
	event Event
	timer *time.Timer
}

// NewDebouncedWatcher creates a debounced watcher wrapper.
// Operations on the same path within delay of each other are merged into
// one event, delivered delay after the last of them.
func NewDebouncedWatcher(inner Watcher, delay time.Duration) *DebouncedWatcher {
	if delay <= 0 {
		delay = DefaultDebounce
	}

	dw := &DebouncedWatcher{
		inner:   inner,
		delay:   delay,
		pending: make(map[string]*pendingEvent),
		events:  make(chan Event, 16),
		errors:  make(chan error, 16),
		closeCh: make(chan struct{}),
	}

	dw.closedWg.Add(1)
	go dw.processLoop()

	return dw
}

// Events returns the debounced event channel.
func (dw *DebouncedWatcher) Events() <-chan Event {
	return dw.events
}

// Errors returns the error channel.
func (dw *DebouncedWatcher) Errors() <-chan error {
	return dw.errors
}

// Close stops the debounced watcher and the inner watcher.
func (dw *DebouncedWatcher) Close() error {
	dw.mu.Lock()
	if dw.closed {
		dw.mu.Unlock()
		return nil
	}
	dw.closed = true
	close(dw.closeCh)
	for path, p := range dw.pending {
		p.timer.Stop()
		delete(dw.pending, path)
	}
	dw.mu.Unlock()

	dw.closedWg.Wait()

	// Timer callbacks check closed under the lock before sending.
	dw.mu.Lock()
	close(dw.events)
	close(dw.errors)
	dw.mu.Unlock()

	return dw.inner.Close()
}

// PendingCount returns the number of pending events.
func (dw *DebouncedWatcher) PendingCount() int {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	return len(dw.pending)
}

// Flush immediately fires all pending events.
func (dw *DebouncedWatcher) Flush() {
	dw.mu.Lock()
	paths := make([]string, 0, len(dw.pending))
	for path, p := range dw.pending {
		p.timer.Stop()
		paths = append(paths, path)
	}
	dw.mu.Unlock()

	for _, path := range paths {
		dw.fireEvent(path)
	}
}

// processLoop handles incoming events from the inner watcher.
func (dw *DebouncedWatcher) processLoop() {
	defer dw.closedWg.Done()

	for {
		select {
		case <-dw.closeCh:
			return

		case event, ok := <-dw.inner.Events():
			if !ok {
				return
			}
			dw.handleEvent(event)

		case err, ok := <-dw.inner.Errors():
			if !ok {
				return
			}
			select {
			case dw.errors <- err:
			default:
				// Channel full, drop error
			}
		}
	}
}

// handleEvent processes an incoming event with debouncing.
func (dw *DebouncedWatcher) handleEvent(event Event) {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	if dw.closed {
		return
	}

	if p, exists := dw.pending[event.Path]; exists {
		p.event.Op |= event.Op
		p.event.Timestamp = event.Timestamp
		p.timer.Reset(dw.delay)
		return
	}

	path := event.Path
	dw.pending[path] = &pendingEvent{
		event: event,
		timer: time.AfterFunc(dw.delay, func() { dw.fireEvent(path) }),
	}
}

// fireEvent sends a pending event and removes it from the map.
func (dw *DebouncedWatcher) fireEvent(path string) {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	if dw.closed {
		return
	}
	p, exists := dw.pending[path]
	if !exists {
		return
	}
	delete(dw.pending, path)

	select {
	case dw.events <- p.event:
	default:
		// Channel full, drop event
	}
}

// Ensure DebouncedWatcher implements Watcher.
var _ Watcher = (*DebouncedWatcher)(nil)
