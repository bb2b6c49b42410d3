package reactive

// ShallowMap is a reactive map. Reads through the map track the whole map;
// writes that change its contents notify. Keys keep insertion order.
type ShallowMap[K comparable, V any] struct {
	keys   []K
	values map[K]V
	dep    dep
}

// NewShallowMap creates an empty ShallowMap.
func NewShallowMap[K comparable, V any]() *ShallowMap[K, V] {
	return &ShallowMap[K, V]{values: make(map[K]V)}
}

// Get returns the value stored under k.
func (m *ShallowMap[K, V]) Get(k K) (V, bool) {
	m.dep.track()
	v, ok := m.values[k]
	return v, ok
}

// Has reports whether k is present.
func (m *ShallowMap[K, V]) Has(k K) bool {
	m.dep.track()
	_, ok := m.values[k]
	return ok
}

// Len returns the number of entries.
func (m *ShallowMap[K, V]) Len() int {
	m.dep.track()
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *ShallowMap[K, V]) Keys() []K {
	m.dep.track()
	return m.PeekKeys()
}

// PeekKeys returns the keys without tracking.
func (m *ShallowMap[K, V]) PeekKeys() []K {
	out := make([]K, len(m.keys))
	copy(out, m.keys)
	return out
}

// Range calls fn for each entry in insertion order until fn returns false.
// The map may be modified by fn; iteration covers the entries present when
// Range was called.
func (m *ShallowMap[K, V]) Range(fn func(k K, v V) bool) {
	m.dep.track()
	for _, k := range m.PeekKeys() {
		v, ok := m.values[k]
		if !ok {
			continue
		}
		if !fn(k, v) {
			return
		}
	}
}

// Set stores v under k.
func (m *ShallowMap[K, V]) Set(k K, v V) {
	old, ok := m.values[k]
	if ok && !hasChanged(old, v) {
		return
	}
	if !ok {
		m.keys = append(m.keys, k)
	}
	m.values[k] = v
	m.dep.trigger()
}

// Delete removes k and reports whether it was present.
func (m *ShallowMap[K, V]) Delete(k K) bool {
	if _, ok := m.values[k]; !ok {
		return false
	}
	delete(m.values, k)
	for i, key := range m.keys {
		if key == k {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	m.dep.trigger()
	return true
}

// Clear removes every entry.
func (m *ShallowMap[K, V]) Clear() {
	if len(m.keys) == 0 {
		return
	}
	m.keys = nil
	m.values = make(map[K]V)
	m.dep.trigger()
}
