package reactive

// StopHandle stops an effect or watcher. Calling it more than once is a no-op.
type StopHandle func()

// Stop calls h if it is non-nil.
func (h StopHandle) Stop() {
	if h != nil {
		h()
	}
}

// effect is a tracked function that reruns when its dependencies change.
type effect struct {
	id      uint64
	fn      func()
	deps    depSet
	active  bool
	running bool
	queued  bool
}

func newEffect(fn func()) *effect {
	return &effect{id: newID(), fn: fn, active: true}
}

func (e *effect) subID() uint64 { return e.id }

func (e *effect) addDep(d *dep) { e.deps.add(d) }

// notify queues the effect. A running effect is not re-queued by its own
// writes.
func (e *effect) notify() {
	if !e.active || e.running || e.queued {
		return
	}
	e.queued = true
	pending = append(pending, e)
}

func (e *effect) run() {
	if !e.active {
		return
	}

	e.deps.clear(e)

	prev := activeSub
	activeSub = e
	e.running = true
	defer func() {
		activeSub = prev
		e.running = false
	}()

	e.fn()
}

// runFirst runs e inside a batch that is closed even if e panics.
func (e *effect) runFirst() {
	startBatch()
	defer endBatch()
	e.run()
}

func (e *effect) stop() {
	if !e.active {
		return
	}
	e.active = false
	e.deps.clear(e)
	if e.queued {
		for i, p := range pending {
			if p == e {
				pending = append(pending[:i], pending[i+1:]...)
				break
			}
		}
		e.queued = false
	}
}

// WatchEffect runs fn immediately and again whenever anything it read changes.
// The effect belongs to s and stops when s is disposed. On a disposed scope
// the effect never runs.
func WatchEffect(s *Scope, fn func()) StopHandle {
	e := newEffect(fn)
	if !s.adopt(e) {
		e.active = false
		return func() {}
	}

	e.runFirst()

	return e.stop
}
