package reactive

import "reflect"

type watchConfig struct {
	immediate bool
	deep      bool
	always    bool
	once      bool
}

// WatchOption configures Watch.
type WatchOption func(*watchConfig)

// Immediate calls the callback once with the initial value. The old value
// passed on that call is the zero value.
func Immediate() WatchOption {
	return func(c *watchConfig) { c.immediate = true }
}

// Deep compares successive values with reflect.DeepEqual instead of ==.
func Deep() WatchOption {
	return func(c *watchConfig) { c.deep = true }
}

// Always calls the callback every time the source reruns, even if the value
// did not change.
func Always() WatchOption {
	return func(c *watchConfig) { c.always = true }
}

// Once stops the watcher after the first callback.
func Once() WatchOption {
	return func(c *watchConfig) { c.once = true }
}

// Watch reruns source whenever its dependencies change and calls cb with the
// new and previous value when the value changed. cb runs untracked.
func Watch[T any](s *Scope, source func() T, cb func(value, old T), opts ...WatchOption) StopHandle {
	var cfg watchConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	changed := func(a, b T) bool {
		switch {
		case cfg.always:
			return true
		case cfg.deep:
			return !reflect.DeepEqual(a, b)
		default:
			return hasChanged(a, b)
		}
	}

	var (
		old   T
		first = true
		e     *effect
	)

	call := func(v, prev T) {
		untracked(func() { cb(v, prev) })
		if cfg.once {
			e.stop()
		}
	}

	e = newEffect(func() {
		v := source()
		if first {
			first = false
			old = v
			if cfg.immediate {
				var zero T
				call(v, zero)
			}
			return
		}
		if !changed(old, v) {
			return
		}
		prev := old
		old = v
		call(v, prev)
	})

	if !s.adopt(e) {
		e.active = false
		return func() {}
	}

	e.runFirst()

	return e.stop
}

// WatchValue is Watch over a Value.
func WatchValue[T any](s *Scope, v Value[T], cb func(value, old T), opts ...WatchOption) StopHandle {
	return Watch(s, v.Get, cb, opts...)
}

// hasChanged reports whether b differs from a. Values whose dynamic type is
// not comparable always count as changed.
func hasChanged[T any](a, b T) bool {
	va, vb := any(a), any(b)
	if va == nil || vb == nil {
		return va != vb
	}
	if reflect.TypeOf(va) != reflect.TypeOf(vb) {
		return true
	}
	if !reflect.ValueOf(va).Comparable() {
		return true
	}
	return va != vb
}
