package captions

// OrderedMultiMap groups values by key, remembering the order in which keys
// were first seen and the order in which values were added under each key.
type OrderedMultiMap[K comparable, V any] struct {
	keys   []K
	values map[K][]V
}

// NewOrderedMultiMap creates an empty map.
func NewOrderedMultiMap[K comparable, V any]() *OrderedMultiMap[K, V] {
	return &OrderedMultiMap[K, V]{values: make(map[K][]V)}
}

// Add appends value under key.
func (m *OrderedMultiMap[K, V]) Add(key K, value V) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = append(m.values[key], value)
}

// Keys returns the keys in first-seen order.
func (m *OrderedMultiMap[K, V]) Keys() []K {
	return append([]K(nil), m.keys...)
}

// Get returns the values stored under key in insertion order.
func (m *OrderedMultiMap[K, V]) Get(key K) []V {
	return m.values[key]
}

// Len returns the number of distinct keys.
func (m *OrderedMultiMap[K, V]) Len() int {
	return len(m.keys)
}

// Each calls fn for every key in first-seen order.
func (m *OrderedMultiMap[K, V]) Each(fn func(key K, values []V)) {
	for _, k := range m.keys {
		fn(k, m.values[k])
	}
}
