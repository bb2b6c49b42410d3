package event

import "sync"

// listenerEntry is a registered listener. removed is set under the emitter
// lock so that an in-flight snapshot can skip listeners removed mid-delivery.
type listenerEntry[T any] struct {
	id      uint64
	fn      func(T)
	removed bool
}

// Emitter is a fan-out notification point for values of type T.
type Emitter[T any] struct {
	mu        sync.Mutex
	listeners []*listenerEntry[T]
	nextID    uint64
	disposed  bool
}

// NewEmitter creates an Emitter with no listeners.
func NewEmitter[T any]() *Emitter[T] {
	return &Emitter[T]{}
}

// Event returns the subscription point for this emitter.
func (e *Emitter[T]) Event() Event[T] {
	return e.Subscribe
}

// Subscribe registers listener and returns its unsubscribe token.
// Subscribing to a disposed emitter returns a no-op token.
func (e *Emitter[T]) Subscribe(listener func(T)) Disposable {
	d, err := e.TrySubscribe(listener)
	if err != nil {
		return Nop
	}
	return d
}

// TrySubscribe is Subscribe with explicit errors for nil listeners and
// disposed emitters.
func (e *Emitter[T]) TrySubscribe(listener func(T)) (Disposable, error) {
	if listener == nil {
		return nil, ErrNilListener
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.disposed {
		return nil, ErrEmitterDisposed
	}

	e.nextID++
	entry := &listenerEntry[T]{id: e.nextID, fn: listener}
	e.listeners = append(e.listeners, entry)

	return OnceFunc(func() { e.remove(entry.id) }), nil
}

func (e *Emitter[T]) remove(id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, l := range e.listeners {
		if l.id == id {
			l.removed = true
			e.listeners = append(e.listeners[:i:i], e.listeners[i+1:]...)
			return
		}
	}
}

// Fire delivers v to every current listener. It is a no-op after Dispose.
func (e *Emitter[T]) Fire(v T) {
	_ = e.TryFire(v)
}

// TryFire is Fire that reports ErrEmitterDisposed.
func (e *Emitter[T]) TryFire(v T) error {
	e.mu.Lock()
	if e.disposed {
		e.mu.Unlock()
		return ErrEmitterDisposed
	}
	snapshot := make([]*listenerEntry[T], len(e.listeners))
	copy(snapshot, e.listeners)
	e.mu.Unlock()

	for _, l := range snapshot {
		e.mu.Lock()
		skip := l.removed || e.disposed
		e.mu.Unlock()
		if skip {
			continue
		}
		l.fn(v)
	}
	return nil
}

// Len returns the number of registered listeners.
func (e *Emitter[T]) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners)
}

// Disposed reports whether Dispose has been called.
func (e *Emitter[T]) Disposed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.disposed
}

// Dispose drops all listeners. It is safe to call Dispose multiple times.
func (e *Emitter[T]) Dispose() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.disposed {
		return
	}
	e.disposed = true
	for _, l := range e.listeners {
		l.removed = true
	}
	e.listeners = nil
}
