package ecs

// Query returns every live entity that has all of keys attached, in spawn
// order. With no keys it returns all live entities. The scan is
// O(entities × keys); no index is kept.
func (w *World) Query(keys ...ComponentKey) []EntityID {
	stores := make([]anyStore, 0, len(keys))
	for _, k := range keys {
		s, ok := w.registry.lookup(k.ComponentName())
		if !ok {
			return []EntityID{} // nothing was ever attached under this name
		}
		stores = append(stores, s)
	}
	out := make([]EntityID, 0, w.pool.Len())
	w.pool.Each(func(id EntityID) {
		for _, s := range stores {
			if !s.Has(id) {
				return
			}
		}
		out = append(out, id)
	})
	return out
}

// Each calls fn for every entity that has A.
func Each[A any](w *World, ca ComponentType[A], fn func(EntityID, A)) {
	for _, id := range w.Query(ca) {
		if a, ok := Get(w, id, ca); ok {
			fn(id, a)
		}
	}
}

// Each2 calls fn for every entity that has both A and B, in query order.
// fn may mutate the world; the entity list is fixed before the first call.
func Each2[A, B any](w *World, ca ComponentType[A], cb ComponentType[B], fn func(EntityID, A, B)) {
	for _, id := range w.Query(ca, cb) {
		a, ok := Get(w, id, ca)
		if !ok {
			continue // detached by an earlier callback
		}
		b, ok := Get(w, id, cb)
		if !ok {
			continue
		}
		fn(id, a, b)
	}
}

// Each3 calls fn for every entity that has components A, B and C.
func Each3[A, B, C any](w *World, ca ComponentType[A], cb ComponentType[B], cc ComponentType[C], fn func(EntityID, A, B, C)) {
	for _, id := range w.Query(ca, cb, cc) {
		a, okA := Get(w, id, ca)
		b, okB := Get(w, id, cb)
		c, okC := Get(w, id, cc)
		if okA && okB && okC {
			fn(id, a, b, c)
		}
	}
}
