package reactive

// Readable is an observable value. Get tracks the read; Peek does not.
type Readable[T any] interface {
	Get() T
	Peek() T
}

// Writable is a Readable that can be assigned.
type Writable[T any] interface {
	Readable[T]
	Set(v T)
}

// Ref is a writable reactive cell. Values are replaced, never mutated in
// place: a Ref holding a slice only notifies when a new slice is Set.
type Ref[T any] struct {
	value T
	dep   dep
}

// NewRef creates a Ref holding v.
func NewRef[T any](v T) *Ref[T] {
	return &Ref[T]{value: v}
}

// Get returns the current value and tracks the read.
func (r *Ref[T]) Get() T {
	r.dep.track()
	return r.value
}

// Peek returns the current value without tracking.
func (r *Ref[T]) Peek() T {
	return r.value
}

// Set stores v and notifies dependents if it differs from the current value.
func (r *Ref[T]) Set(v T) {
	if !hasChanged(r.value, v) {
		return
	}
	r.value = v
	r.dep.trigger()
}

// Update sets the value to fn(current).
func (r *Ref[T]) Update(fn func(T) T) {
	r.Set(fn(r.value))
}

// Trigger notifies dependents without changing the value.
func (r *Ref[T]) Trigger() {
	r.dep.trigger()
}

var (
	_ Writable[int] = (*Ref[int])(nil)
)
