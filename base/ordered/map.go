// Package ordered provides insertion-ordered data structures.
package ordered

// Map is a map that remembers the order in which keys were first stored.
// Iter, Keys and Values range in insertion order, which keeps struct member
// tables and scope dumps deterministic.
type Map[K comparable, V any] struct {
	keys []K
	m    map[K]V
	pos  map[K]int
}

// NewMap returns a new ordered map.
func NewMap[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{
		m:   make(map[K]V),
		pos: make(map[K]int),
	}
}

// Store a key,value pair and return the position of the key.
// Storing an existing key keeps its original position.
func (m *Map[K, V]) Store(k K, v V) int {
	p, in := m.pos[k]
	if !in {
		p = len(m.keys)
		m.pos[k] = p
		m.keys = append(m.keys, k)
	}
	m.m[k] = v
	return p
}

// Load returns the value stored for a key.
func (m *Map[K, V]) Load(k K) (V, bool) {
	v, ok := m.m[k]
	return v, ok
}

// Index returns the insertion position of a key.
func (m *Map[K, V]) Index(k K) (int, bool) {
	p, ok := m.pos[k]
	return p, ok
}

// At returns the key and value at an insertion position.
func (m *Map[K, V]) At(i int) (K, V) {
	k := m.keys[i]
	return k, m.m[k]
}

// Iter returns an iterator over key,value pairs in insertion order.
func (m *Map[K, V]) Iter() func(func(K, V) bool) {
	return func(yield func(K, V) bool) {
		for _, k := range m.keys {
			if !yield(k, m.m[k]) {
				break
			}
		}
	}
}

// Keys returns an iterator over the keys in insertion order.
func (m *Map[K, V]) Keys() func(func(K) bool) {
	return func(yield func(K) bool) {
		for _, k := range m.keys {
			if !yield(k) {
				break
			}
		}
	}
}

// Values returns an iterator over the values in insertion order.
func (m *Map[K, V]) Values() func(func(V) bool) {
	return func(yield func(V) bool) {
		for _, k := range m.keys {
			if !yield(m.m[k]) {
				break
			}
		}
	}
}

// Size returns the number of keys in the map.
func (m *Map[K, V]) Size() int {
	return len(m.keys)
}
