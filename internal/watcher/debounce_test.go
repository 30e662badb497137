package watcher

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// mockWatcher is a simple mock for testing DebouncedWatcher.
type mockWatcher struct {
	mu     sync.Mutex
	events chan Event
	errors chan error
	closed bool
}

func newMockWatcher() *mockWatcher {
	return &mockWatcher{
		events: make(chan Event, 100),
		errors: make(chan error, 100),
	}
}

func (m *mockWatcher) Events() <-chan Event { return m.events }
func (m *mockWatcher) Errors() <-chan error { return m.errors }

func (m *mockWatcher) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.events)
		close(m.errors)
	}
	return nil
}

func (m *mockWatcher) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func receive(t *testing.T, ch <-chan Event, timeout time.Duration) (Event, bool) {
	t.Helper()
	select {
	case ev, ok := <-ch:
		return ev, ok
	case <-time.After(timeout):
		return Event{}, false
	}
}

func TestDebouncedWatcher_Coalesces(t *testing.T) {
	mock := newMockWatcher()
	dw := NewDebouncedWatcher(mock, 50*time.Millisecond)
	defer dw.Close()

	now := time.Now()
	mock.events <- Event{Path: "/f", Op: OpWrite, Timestamp: now}
	mock.events <- Event{Path: "/f", Op: OpChmod, Timestamp: now}
	mock.events <- Event{Path: "/f", Op: OpWrite, Timestamp: now}

	ev, ok := receive(t, dw.Events(), time.Second)
	if !ok {
		t.Fatal("expected a debounced event")
	}
	if ev.Path != "/f" || !ev.Op.Has(OpWrite) || !ev.Op.Has(OpChmod) {
		t.Errorf("event = %+v, want coalesced WRITE|CHMOD on /f", ev)
	}

	if _, ok := receive(t, dw.Events(), 150*time.Millisecond); ok {
		t.Error("expected exactly one event")
	}
}

func TestDebouncedWatcher_SeparatePaths(t *testing.T) {
	mock := newMockWatcher()
	dw := NewDebouncedWatcher(mock, 30*time.Millisecond)
	defer dw.Close()

	mock.events <- Event{Path: "/a", Op: OpWrite}
	mock.events <- Event{Path: "/b", Op: OpCreate}

	seen := map[string]bool{}
	for i := 0; i < 2; i++ {
		ev, ok := receive(t, dw.Events(), time.Second)
		if !ok {
			t.Fatalf("event %d missing", i)
		}
		seen[ev.Path] = true
	}
	if !seen["/a"] || !seen["/b"] {
		t.Errorf("seen = %v, want both paths", seen)
	}
}

func TestDebouncedWatcher_Flush(t *testing.T) {
	mock := newMockWatcher()
	dw := NewDebouncedWatcher(mock, time.Hour)
	defer dw.Close()

	mock.events <- Event{Path: "/f", Op: OpRemove}
	deadline := time.Now().Add(time.Second)
	for dw.PendingCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if dw.PendingCount() != 1 {
		t.Fatalf("PendingCount = %d, want 1", dw.PendingCount())
	}

	dw.Flush()
	ev, ok := receive(t, dw.Events(), time.Second)
	if !ok || ev.Op != OpRemove {
		t.Errorf("flushed event = %+v, %v", ev, ok)
	}
	if dw.PendingCount() != 0 {
		t.Errorf("PendingCount after flush = %d", dw.PendingCount())
	}
}

func TestDebouncedWatcher_ForwardsErrors(t *testing.T) {
	mock := newMockWatcher()
	dw := NewDebouncedWatcher(mock, 0)
	defer dw.Close()

	boom := errors.New("boom")
	mock.errors <- boom
	select {
	case err := <-dw.Errors():
		if !errors.Is(err, boom) {
			t.Errorf("error = %v, want boom", err)
		}
	case <-time.After(time.Second):
		t.Fatal("error was not forwarded")
	}
}

func TestDebouncedWatcher_Close(t *testing.T) {
	mock := newMockWatcher()
	dw := NewDebouncedWatcher(mock, time.Hour)

	mock.events <- Event{Path: "/f", Op: OpWrite}
	if err := dw.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := dw.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if !mock.isClosed() {
		t.Error("inner watcher should be closed")
	}
	if _, ok := <-dw.Events(); ok {
		t.Error("events channel should be closed")
	}
}

func TestOpString(t *testing.T) {
	tests := []struct {
		op   Op
		want string
	}{
		{OpWrite, "WRITE"},
		{OpCreate | OpRemove, "CREATE|REMOVE"},
		{0, "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("Op(%d).String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}
