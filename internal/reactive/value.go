package reactive

type valueKind uint8

const (
	kindUnset valueKind = iota
	kindConst
	kindReadable
	kindGetter
)

// Value is an input that may be a constant, an observable or a getter.
// The zero Value is unset and resolves to the zero T.
type Value[T any] struct {
	kind     valueKind
	constant T
	readable Readable[T]
	getter   func() T
}

// Const wraps a plain value.
func Const[T any](v T) Value[T] {
	return Value[T]{kind: kindConst, constant: v}
}

// Of wraps an observable. Of(nil) is unset.
func Of[T any](r Readable[T]) Value[T] {
	if r == nil {
		return Value[T]{}
	}
	return Value[T]{kind: kindReadable, readable: r}
}

// Getter wraps a function evaluated on every Get. Getter(nil) is unset.
func Getter[T any](fn func() T) Value[T] {
	if fn == nil {
		return Value[T]{}
	}
	return Value[T]{kind: kindGetter, getter: fn}
}

// Get resolves the value, tracking observables and getters.
func (v Value[T]) Get() T {
	switch v.kind {
	case kindConst:
		return v.constant
	case kindReadable:
		return v.readable.Get()
	case kindGetter:
		return v.getter()
	default:
		var zero T
		return zero
	}
}

// GetOr resolves the value, returning def when v is unset.
func (v Value[T]) GetOr(def T) T {
	if v.kind == kindUnset {
		return def
	}
	return v.Get()
}

// IsSet reports whether v holds anything.
func (v Value[T]) IsSet() bool {
	return v.kind != kindUnset
}

// IsConst reports whether v is a plain value that can never change.
func (v Value[T]) IsConst() bool {
	return v.kind == kindConst || v.kind == kindUnset
}

// Readable returns the wrapped observable, if v was built with Of.
func (v Value[T]) Readable() (Readable[T], bool) {
	return v.readable, v.kind == kindReadable
}

// ToValue resolves v. It is the single accessor used at composable call sites.
func ToValue[T any](v Value[T]) T {
	return v.Get()
}
