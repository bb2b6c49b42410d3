package composable

import (
	"reflect"

	"github.com/dshills/ksreactive/internal/event"
	"github.com/dshills/ksreactive/internal/logging"
	"github.com/dshills/ksreactive/internal/reactive"
)

func logger() *logging.Logger {
	return logging.Get().WithComponent("composable")
}

// UseDisposable disposes d when s is disposed and returns d.
func UseDisposable[D event.Disposable](s *reactive.Scope, d D) D {
	if isNil(d) {
		return d
	}
	s.OnDispose(event.Once(d).Dispose)
	return d
}

// UseEvent returns an Event whose subscriptions end when s is disposed.
// listeners are subscribed immediately.
//
// A listener never runs after its subscription is disposed, even if the
// host is part way through delivering a notification.
func UseEvent[T any](s *reactive.Scope, ev event.Event[T], listeners ...func(T)) event.Event[T] {
	scoped := func(listener func(T)) event.Disposable {
		if ev == nil || listener == nil || !s.Active() {
			return event.Nop
		}
		live := true
		sub := ev(func(v T) {
			if live {
				listener(v)
			}
		})
		token := event.OnceFunc(func() {
			live = false
			if sub != nil {
				sub.Dispose()
			}
		})
		s.OnDispose(token.Dispose)
		return token
	}

	for _, l := range listeners {
		scoped(l)
	}
	return scoped
}

// UseEventEmitter creates an emitter that is disposed with s. listeners are
// subscribed immediately.
func UseEventEmitter[T any](s *reactive.Scope, listeners ...func(T)) *event.Emitter[T] {
	em := event.NewEmitter[T]()
	for _, l := range listeners {
		em.Subscribe(l)
	}
	s.OnDispose(em.Dispose)
	return em
}

// useEventRef mirrors host state into a ref. The ref starts at initial and
// is set to read(v) on every notification v.
func useEventRef[T, E any](s *reactive.Scope, initial T, ev event.Event[E], read func(E) T) *reactive.Ref[T] {
	ref := reactive.NewRef(initial)
	UseEvent(s, ev, func(v E) {
		ref.Set(read(v))
	})
	return ref
}

func identity[T any](v T) T { return v }

// peek resolves v without tracking it in the running effect.
func peek[T any](v reactive.Value[T]) T {
	return reactive.Untracked(v.Get)
}

// untracked runs fn without tracking.
func untracked(fn func()) {
	reactive.Untracked(func() struct{} {
		fn()
		return struct{}{}
	})
}

// isNil reports whether v is nil or an interface holding a nil pointer.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// same reports whether a and b are the same host object. Objects of
// non-comparable types are never the same.
func same[T any](a, b T) bool {
	va, vb := any(a), any(b)
	if isNil(va) || isNil(vb) {
		return isNil(va) && isNil(vb)
	}
	if reflect.TypeOf(va) != reflect.TypeOf(vb) || !reflect.ValueOf(va).Comparable() {
		return false
	}
	return va == vb
}
