package app

import (
	"sync/atomic"
	"time"
)

// Metrics counts event loop activity. It is logged at debug level on exit.
type Metrics struct {
	eventCount    atomic.Uint64
	eventTotalNs  atomic.Int64
	renderCount   atomic.Uint64
	renderTotalNs atomic.Int64
	ignoredKeys   atomic.Uint64
	droppedEdits  atomic.Uint64
	saves         atomic.Uint64
	failedSaves   atomic.Uint64
	diskChanges   atomic.Uint64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordEvent records event processing timing.
func (m *Metrics) RecordEvent(d time.Duration) {
	m.eventCount.Add(1)
	m.eventTotalNs.Add(d.Nanoseconds())
}

// RecordRender records render timing.
func (m *Metrics) RecordRender(d time.Duration) {
	m.renderCount.Add(1)
	m.renderTotalNs.Add(d.Nanoseconds())
}

// RecordIgnoredKey counts a key with no binding.
func (m *Metrics) RecordIgnoredKey() { m.ignoredKeys.Add(1) }

// RecordDroppedEdit counts an intent dropped by the session.
func (m *Metrics) RecordDroppedEdit() { m.droppedEdits.Add(1) }

// RecordSave counts a save attempt.
func (m *Metrics) RecordSave(ok bool) {
	if ok {
		m.saves.Add(1)
		return
	}
	m.failedSaves.Add(1)
}

// RecordDiskChange counts an external modification of the file.
func (m *Metrics) RecordDiskChange() { m.diskChanges.Add(1) }

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Uptime       time.Duration
	EventCount   uint64
	AvgEventNs   int64
	RenderCount  uint64
	AvgRenderNs  int64
	IgnoredKeys  uint64
	DroppedEdits uint64
	Saves        uint64
	FailedSaves  uint64
	DiskChanges  uint64
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	s := MetricsSnapshot{
		Uptime:       time.Since(m.startTime),
		EventCount:   m.eventCount.Load(),
		RenderCount:  m.renderCount.Load(),
		IgnoredKeys:  m.ignoredKeys.Load(),
		DroppedEdits: m.droppedEdits.Load(),
		Saves:        m.saves.Load(),
		FailedSaves:  m.failedSaves.Load(),
		DiskChanges:  m.diskChanges.Load(),
	}
	if s.EventCount > 0 {
		s.AvgEventNs = m.eventTotalNs.Load() / int64(s.EventCount)
	}
	if s.RenderCount > 0 {
		s.AvgRenderNs = m.renderTotalNs.Load() / int64(s.RenderCount)
	}
	return s
}

// Timer measures elapsed time.
type Timer struct {
	start time.Time
}

// StartTimer creates a new timer.
func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Elapsed returns the elapsed time since the timer started.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}
