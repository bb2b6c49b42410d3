// Package event provides the publish/subscribe primitives shared by the host
// API and the composables built on it.
//
// An Event is a subscription function: it takes a listener and returns a
// Disposable that removes the listener again. Emitters own the listener list
// and expose it through Event:
//
//	em := event.NewEmitter[string]()
//	sub := em.Event()(func(s string) { fmt.Println(s) })
//	em.Fire("hello")
//	sub.Dispose()
//
// # Delivery
//
// Fire invokes listeners synchronously, in registration order, on the
// caller's goroutine. The listener list is snapshotted before delivery, so a
// listener may unsubscribe itself or others while an event is in flight; a
// listener removed during delivery is not called for the rest of it.
//
// # Disposal
//
// Every Disposable returned by this package is idempotent. Disposing an
// Emitter drops all listeners and turns later Fire calls into no-ops.
package event
