package graph

import "slices"

// ordered is a map that remembers insertion order. Deletes are O(n), which
// is fine for the adjacency sizes graphs here carry.
type ordered[K comparable, V any] struct {
	keys []K
	vals map[K]V
}

func newOrdered[K comparable, V any]() *ordered[K, V] {
	return &ordered[K, V]{vals: make(map[K]V)}
}

func (o *ordered[K, V]) set(k K, v V) {
	if _, ok := o.vals[k]; !ok {
		o.keys = append(o.keys, k)
	}
	o.vals[k] = v
}

func (o *ordered[K, V]) get(k K) (V, bool) {
	v, ok := o.vals[k]
	return v, ok
}

func (o *ordered[K, V]) has(k K) bool {
	_, ok := o.vals[k]
	return ok
}

func (o *ordered[K, V]) del(k K) bool {
	if _, ok := o.vals[k]; !ok {
		return false
	}
	delete(o.vals, k)
	if i := slices.Index(o.keys, k); i >= 0 {
		o.keys = slices.Delete(o.keys, i, i+1)
	}
	return true
}

func (o *ordered[K, V]) len() int { return len(o.keys) }
