package event

// Event is a subscription point: calling it with a listener registers the
// listener and returns a Disposable that unregisters it.
type Event[T any] func(listener func(T)) Disposable

// None is an Event that never fires.
func None[T any]() Event[T] {
	return func(func(T)) Disposable { return Nop }
}

// Map returns an Event that delivers fn(v) for every v delivered by e.
func Map[T, U any](e Event[T], fn func(T) U) Event[U] {
	return func(listener func(U)) Disposable {
		return e(func(v T) { listener(fn(v)) })
	}
}

// Filter returns an Event that only delivers values accepted by keep.
func Filter[T any](e Event[T], keep func(T) bool) Event[T] {
	return func(listener func(T)) Disposable {
		return e(func(v T) {
			if keep(v) {
				listener(v)
			}
		})
	}
}

// Signal returns an Event that drops the payload of e.
func Signal[T any](e Event[T]) Event[struct{}] {
	return Map(e, func(T) struct{} { return struct{}{} })
}
