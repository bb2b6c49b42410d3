package app

import (
	"sync/atomic"
	"time"

	"github.com/dshills/ksreactive/internal/project/watcher"
)

// Metrics tracks file events flowing from the backend into the host.
// Every counter is safe to read from any goroutine.
type Metrics struct {
	// Event dispatch timing
	eventCount   atomic.Uint64
	eventTotalNs atomic.Int64
	eventMinNs   atomic.Int64
	eventMaxNs   atomic.Int64

	// Per-kind counters
	created   atomic.Uint64
	changed   atomic.Uint64
	deleted   atomic.Uint64
	skipped   atomic.Uint64
	delivered atomic.Uint64

	// Config reloads
	reloads      atomic.Uint64
	reloadErrors atomic.Uint64

	backendErrors atomic.Uint64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{
		startTime: time.Now(),
	}
	m.eventMinNs.Store(1<<63 - 1)
	return m
}

// RecordEvent records one backend event: its host kind, how many host
// watchers received it and how long dispatch took.
func (m *Metrics) RecordEvent(change watcher.Change, delivered int, duration time.Duration) {
	switch change {
	case watcher.ChangeCreated:
		m.created.Add(1)
	case watcher.ChangeChanged:
		m.changed.Add(1)
	case watcher.ChangeDeleted:
		m.deleted.Add(1)
	default:
		m.skipped.Add(1)
		return
	}
	m.delivered.Add(uint64(delivered))

	ns := duration.Nanoseconds()
	m.eventCount.Add(1)
	m.eventTotalNs.Add(ns)

	for {
		old := m.eventMinNs.Load()
		if ns >= old || m.eventMinNs.CompareAndSwap(old, ns) {
			break
		}
	}
	for {
		old := m.eventMaxNs.Load()
		if ns <= old || m.eventMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordReload records a config reload attempt.
func (m *Metrics) RecordReload(err error) {
	m.reloads.Add(1)
	if err != nil {
		m.reloadErrors.Add(1)
	}
}

// RecordBackendError records an error reported by the file-system backend.
func (m *Metrics) RecordBackendError() {
	m.backendErrors.Add(1)
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	eventCount := m.eventCount.Load()

	var avgEventNs int64
	if eventCount > 0 {
		avgEventNs = m.eventTotalNs.Load() / int64(eventCount)
	}

	minEventNs := m.eventMinNs.Load()
	if minEventNs == 1<<63-1 {
		minEventNs = 0
	}

	return MetricsSnapshot{
		Uptime:        time.Since(m.startTime),
		EventCount:    eventCount,
		AvgEventNs:    avgEventNs,
		MinEventNs:    minEventNs,
		MaxEventNs:    m.eventMaxNs.Load(),
		Created:       m.created.Load(),
		Changed:       m.changed.Load(),
		Deleted:       m.deleted.Load(),
		Skipped:       m.skipped.Load(),
		Delivered:     m.delivered.Load(),
		Reloads:       m.reloads.Load(),
		ReloadErrors:  m.reloadErrors.Load(),
		BackendErrors: m.backendErrors.Load(),
	}
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.eventCount.Store(0)
	m.eventTotalNs.Store(0)
	m.eventMinNs.Store(1<<63 - 1)
	m.eventMaxNs.Store(0)
	m.created.Store(0)
	m.changed.Store(0)
	m.deleted.Store(0)
	m.skipped.Store(0)
	m.delivered.Store(0)
	m.reloads.Store(0)
	m.reloadErrors.Store(0)
	m.backendErrors.Store(0)
	m.startTime = time.Now()
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Uptime        time.Duration
	EventCount    uint64
	AvgEventNs    int64
	MinEventNs    int64
	MaxEventNs    int64
	Created       uint64
	Changed       uint64
	Deleted       uint64
	Skipped       uint64
	Delivered     uint64
	Reloads       uint64
	ReloadErrors  uint64
	BackendErrors uint64
}

// FanOut returns the average number of host watchers per dispatched event.
func (s MetricsSnapshot) FanOut() float64 {
	if s.EventCount == 0 {
		return 0
	}
	return float64(s.Delivered) / float64(s.EventCount)
}

// Timer provides a simple way to measure elapsed time.
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

// Stop returns the elapsed time and resets the timer.
func (t *Timer) Stop() time.Duration {
	elapsed := t.Elapsed()
	t.start = time.Now()
	return elapsed
}
