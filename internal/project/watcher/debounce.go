package watcher

import (
	"sort"
	"sync"
	"time"
)

// DebouncedWatcher coalesces the changes to each path that arrive within the
// delay into one event describing their net effect:
//
//	create ... remove   dropped, the file never existed for the host
//	remove ... create   write, the file was replaced (atomic save)
//	... remove          remove
//	create ...          create
//	otherwise           the union of the operations seen
type DebouncedWatcher struct {
	inner Watcher
	delay time.Duration

	mu      sync.Mutex
	pending map[string]*pendingEvent
	events  chan Event
	errors  chan error
	closed  bool
	closeCh chan struct{}
	done    sync.WaitGroup
}

type pendingEvent struct {
	path  string
	first Op
	last  Op
	all   Op
	at    time.Time
	seen  int
	timer *time.Timer
}

// net reduces the operations seen on one path. ok is false when they cancel
// out.
func (p *pendingEvent) net() (op Op, ok bool) {
	switch {
	case p.first.Has(OpCreate) && p.last.gone():
		return 0, false
	case p.first.gone() && p.last.Has(OpCreate):
		return OpWrite, true
	case p.last.gone():
		return p.last & (OpRemove | OpRename), true
	case p.first.Has(OpCreate):
		return OpCreate, true
	default:
		return p.all, true
	}
}

// NewDebouncedWatcher wraps inner. A non-positive delay uses the default.
func NewDebouncedWatcher(inner Watcher, delay time.Duration) *DebouncedWatcher {
	if delay <= 0 {
		delay = DefaultConfig().DebounceDelay
	}

	dw := &DebouncedWatcher{
		inner:   inner,
		delay:   delay,
		pending: make(map[string]*pendingEvent),
		events:  make(chan Event, DefaultConfig().BufferSize),
		errors:  make(chan error, DefaultConfig().BufferSize),
		closeCh: make(chan struct{}),
	}

	dw.done.Add(1)
	go dw.processLoop()

	return dw
}

func (dw *DebouncedWatcher) Watch(path string) error          { return dw.inner.Watch(path) }
func (dw *DebouncedWatcher) WatchRecursive(path string) error { return dw.inner.WatchRecursive(path) }
func (dw *DebouncedWatcher) Unwatch(path string) error        { return dw.inner.Unwatch(path) }
func (dw *DebouncedWatcher) IsWatching(path string) bool      { return dw.inner.IsWatching(path) }
func (dw *DebouncedWatcher) WatchedPaths() []string           { return dw.inner.WatchedPaths() }
func (dw *DebouncedWatcher) Events() <-chan Event             { return dw.events }
func (dw *DebouncedWatcher) Errors() <-chan error             { return dw.errors }

// Close drops pending events, closes the inner watcher and then the
// channels.
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

	err := dw.inner.Close()
	dw.done.Wait()

	// Timers that fired before Close took the lock may still be sending.
	dw.mu.Lock()
	close(dw.events)
	close(dw.errors)
	dw.mu.Unlock()
	return err
}

func (dw *DebouncedWatcher) Stats() Stats {
	stats := dw.inner.Stats()
	stats.PendingEvents = dw.PendingCount()
	return stats
}

// PendingCount returns the number of paths waiting for their window to end.
func (dw *DebouncedWatcher) PendingCount() int {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	return len(dw.pending)
}

func (dw *DebouncedWatcher) processLoop() {
	defer dw.done.Done()

	for {
		select {
		case <-dw.closeCh:
			return
		case ev, ok := <-dw.inner.Events():
			if !ok {
				return
			}
			dw.add(ev)
		case err, ok := <-dw.inner.Errors():
			if !ok {
				return
			}
			select {
			case dw.errors <- err:
			default:
			}
		}
	}
}

func (dw *DebouncedWatcher) add(ev Event) {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	if dw.closed {
		return
	}

	if p, ok := dw.pending[ev.Path]; ok {
		p.last = ev.Op
		p.all |= ev.Op
		p.at = ev.Time
		p.seen++
		p.timer.Reset(dw.delay)
		return
	}

	p := &pendingEvent{path: ev.Path, first: ev.Op, last: ev.Op, all: ev.Op, at: ev.Time, seen: 1}
	p.timer = time.AfterFunc(dw.delay, func() { dw.fire(ev.Path) })
	dw.pending[ev.Path] = p
}

func (dw *DebouncedWatcher) fire(path string) {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	p, ok := dw.pending[path]
	if !ok || dw.closed {
		return
	}
	delete(dw.pending, path)
	dw.emit(p)
}

// emit sends p's net event. The caller holds dw.mu.
func (dw *DebouncedWatcher) emit(p *pendingEvent) {
	op, ok := p.net()
	if !ok {
		return
	}
	select {
	case dw.events <- Event{Path: p.path, Op: op, Time: p.at}:
	default:
	}
}

// Flush emits every pending event now, in path order.
func (dw *DebouncedWatcher) Flush() {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	if dw.closed {
		return
	}
	paths := make([]string, 0, len(dw.pending))
	for path, p := range dw.pending {
		p.timer.Stop()
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		dw.emit(dw.pending[path])
		delete(dw.pending, path)
	}
}

// SetDelay changes the window for paths not already pending.
func (dw *DebouncedWatcher) SetDelay(delay time.Duration) {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	dw.delay = delay
}

var _ Watcher = (*DebouncedWatcher)(nil)
