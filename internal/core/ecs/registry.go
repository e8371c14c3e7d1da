package ecs

// Registry tracks all component stores by name and supports bulk cleanup on
// entity destroy. Stores are created on first attach and never dropped.
type Registry struct {
	stores map[string]anyStore
	order  []string
}

func NewRegistry() *Registry {
	return &Registry{
		stores: make(map[string]anyStore, 16),
		order:  make([]string, 0, 16),
	}
}

// Register adds a component store under name. An existing store with the
// same name is kept.
func (r *Registry) Register(name string, store anyStore) {
	if _, ok := r.stores[name]; ok {
		return
	}
	r.stores[name] = store
	r.order = append(r.order, name)
}

func (r *Registry) lookup(name string) (anyStore, bool) {
	s, ok := r.stores[name]
	return s, ok
}

// Names returns store names in creation order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// RemoveAll clears the given entity from every registered component store.
func (r *Registry) RemoveAll(id EntityID) {
	for _, s := range r.stores {
		s.Remove(id)
	}
}

// storeFor returns the typed store for ct, creating it when create is set.
// A store registered under the same name with another value type panics.
func storeFor[T any](r *Registry, ct ComponentType[T], create bool) (*ComponentStore[T], bool) {
	s, ok := r.stores[ct.name]
	if !ok {
		if !create {
			return nil, false
		}
		typed := NewComponentStore[T](ct.name)
		r.Register(ct.name, typed)
		return typed, true
	}
	typed, ok := s.(*ComponentStore[T])
	if !ok {
		panic(typeMismatch("component", ct.name, s, (*ComponentStore[T])(nil)))
	}
	return typed, true
}
