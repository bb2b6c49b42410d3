package app

import (
	"errors"
	"testing"
	"time"

	"github.com/dshills/ksreactive/internal/project/watcher"
)

func TestMetrics_RecordEvent(t *testing.T) {
	m := NewMetrics()

	m.RecordEvent(watcher.ChangeCreated, 2, 3*time.Millisecond)
	m.RecordEvent(watcher.ChangeChanged, 1, 1*time.Millisecond)
	m.RecordEvent(watcher.ChangeDeleted, 0, 2*time.Millisecond)
	m.RecordEvent(watcher.ChangeNone, 5, time.Hour)

	s := m.Snapshot()
	if s.Created != 1 || s.Changed != 1 || s.Deleted != 1 || s.Skipped != 1 {
		t.Errorf("counts = %+v", s)
	}
	if s.EventCount != 3 || s.Delivered != 3 {
		t.Errorf("EventCount = %d, Delivered = %d", s.EventCount, s.Delivered)
	}
	if s.MinEventNs != time.Millisecond.Nanoseconds() || s.MaxEventNs != (3*time.Millisecond).Nanoseconds() {
		t.Errorf("min/max = %d/%d", s.MinEventNs, s.MaxEventNs)
	}
	if s.AvgEventNs != (2 * time.Millisecond).Nanoseconds() {
		t.Errorf("AvgEventNs = %d", s.AvgEventNs)
	}
	if s.FanOut() != 1 {
		t.Errorf("FanOut() = %v", s.FanOut())
	}
}

func TestMetrics_Reloads(t *testing.T) {
	m := NewMetrics()
	m.RecordReload(nil)
	m.RecordReload(errors.New("bad"))
	m.RecordBackendError()

	s := m.Snapshot()
	if s.Reloads != 2 || s.ReloadErrors != 1 || s.BackendErrors != 1 {
		t.Errorf("snapshot = %+v", s)
	}
}

func TestMetrics_Reset(t *testing.T) {
	m := NewMetrics()
	m.RecordEvent(watcher.ChangeCreated, 1, time.Millisecond)
	m.RecordReload(nil)
	m.Reset()

	s := m.Snapshot()
	if s.EventCount != 0 || s.Created != 0 || s.Reloads != 0 || s.MinEventNs != 0 {
		t.Errorf("snapshot after Reset = %+v", s)
	}
	if s.FanOut() != 0 {
		t.Errorf("FanOut() = %v", s.FanOut())
	}
}
