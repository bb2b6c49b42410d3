package reactive

// Computed is a lazily evaluated, cached derivation of other reactive values.
type Computed[T any] struct {
	id          uint64
	getter      func() T
	value       T
	dirty       bool
	initialized bool
	deps        depSet
	dep         dep
}

// NewComputed creates a Computed backed by getter. getter first runs on the
// first Get.
func NewComputed[T any](getter func() T) *Computed[T] {
	return &Computed[T]{id: newID(), getter: getter, dirty: true}
}

func (c *Computed[T]) subID() uint64 { return c.id }

func (c *Computed[T]) addDep(d *dep) { c.deps.add(d) }

// notify marks the cache stale and forwards the notification to readers.
func (c *Computed[T]) notify() {
	if c.dirty {
		return
	}
	c.dirty = true
	c.dep.trigger()
}

// Get returns the derived value, recomputing it if a dependency changed.
func (c *Computed[T]) Get() T {
	c.dep.track()
	c.refresh()
	return c.value
}

// Peek returns the derived value without tracking the read.
func (c *Computed[T]) Peek() T {
	c.refresh()
	return c.value
}

func (c *Computed[T]) refresh() {
	if !c.dirty && c.initialized {
		return
	}

	c.deps.clear(c)

	prev := activeSub
	activeSub = c
	defer func() { activeSub = prev }()

	c.value = c.getter()
	c.dirty = false
	c.initialized = true
}

// WritableComputed is a Computed with a setter.
type WritableComputed[T any] struct {
	*Computed[T]
	setter func(T)
}

// NewWritableComputed creates a computed whose Set calls setter.
func NewWritableComputed[T any](getter func() T, setter func(T)) *WritableComputed[T] {
	return &WritableComputed[T]{Computed: NewComputed(getter), setter: setter}
}

// Set passes v to the setter.
func (w *WritableComputed[T]) Set(v T) {
	w.setter(v)
}

var (
	_ Readable[int] = (*Computed[int])(nil)
	_ Writable[int] = (*WritableComputed[int])(nil)
)
