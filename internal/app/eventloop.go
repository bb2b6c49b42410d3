package app

import (
	"github.com/dshills/ksreactive/internal/host"
	"github.com/dshills/ksreactive/internal/host/memhost"
	"github.com/dshills/ksreactive/internal/project/watcher"
)

// post hands a backend event to the loop goroutine. It runs on the
// forwarding goroutine.
func (a *Application) post(ev watcher.Event) {
	if err := a.loop.Post(func() { a.dispatch(ev) }); err != nil {
		a.logger.Debug("dropped %s %s: %v", ev.Op, ev.Path, err)
	}
}

func (a *Application) backendError(err error) {
	a.metrics.RecordBackendError()
	a.logger.Warn("watcher: %v", err)
}

// dispatch routes one backend event to the host watchers.
func (a *Application) dispatch(ev watcher.Event) {
	timer := StartTimer()
	change := ev.Change()

	n := 0
	if kind, ok := fileEventKind(change); ok {
		n = a.host.Workspace.FeedFileEvent(kind, host.File(ev.Path))
	}
	a.metrics.RecordEvent(change, n, timer.Elapsed())
}

func fileEventKind(c watcher.Change) (memhost.FileEventKind, bool) {
	switch c {
	case watcher.ChangeCreated:
		return memhost.FileCreated, true
	case watcher.ChangeChanged:
		return memhost.FileChanged, true
	case watcher.ChangeDeleted:
		return memhost.FileDeleted, true
	default:
		return 0, false
	}
}
