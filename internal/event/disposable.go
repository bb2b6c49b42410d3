package event

import "sync"

// Disposable releases a subscription or a host-allocated resource.
// Implementations must tolerate repeated calls.
type Disposable interface {
	Dispose()
}

// DisposableFunc adapts a function to the Disposable interface.
// It does not make the function idempotent; wrap it with Once for that.
type DisposableFunc func()

// Dispose calls f.
func (f DisposableFunc) Dispose() {
	if f != nil {
		f()
	}
}

// Nop is a Disposable that does nothing.
var Nop Disposable = DisposableFunc(nil)

// onceDisposable guarantees the wrapped Disposable runs at most once.
type onceDisposable struct {
	once  sync.Once
	inner Disposable
}

func (o *onceDisposable) Dispose() {
	o.once.Do(func() {
		if o.inner != nil {
			o.inner.Dispose()
		}
	})
}

// Once wraps d so that only the first Dispose call reaches it.
func Once(d Disposable) Disposable {
	if od, ok := d.(*onceDisposable); ok {
		return od
	}
	return &onceDisposable{inner: d}
}

// OnceFunc is Once(DisposableFunc(fn)).
func OnceFunc(fn func()) Disposable {
	return Once(DisposableFunc(fn))
}

// Combine returns a Disposable that disposes every argument in order, once.
func Combine(ds ...Disposable) Disposable {
	items := make([]Disposable, 0, len(ds))
	for _, d := range ds {
		if d != nil {
			items = append(items, d)
		}
	}
	return OnceFunc(func() {
		for _, d := range items {
			d.Dispose()
		}
	})
}
