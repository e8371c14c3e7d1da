package ecs

// ResourceType is a typed handle for a named singleton held by the World.
type ResourceType[T any] struct {
	name    string
	factory func() T
}

// NewResourceType creates a handle; factory runs on first access when the
// World holds no value yet. A nil factory yields the zero value of T.
func NewResourceType[T any](name string, factory func() T) ResourceType[T] {
	if factory == nil {
		factory = func() T {
			var zero T
			return zero
		}
	}
	return ResourceType[T]{name: name, factory: factory}
}

func (r ResourceType[T]) Name() string { return r.name }

// GetResource returns the singleton for rt, creating it with rt's factory on
// first access. Later calls return the stored value until SetResource
// replaces it.
func GetResource[T any](w *World, rt ResourceType[T]) T {
	if v, ok := LookupResource(w, rt); ok {
		return v
	}
	v := rt.factory()
	w.resources[rt.name] = v
	return v
}

// LookupResource returns the stored value without initializing it.
func LookupResource[T any](w *World, rt ResourceType[T]) (T, bool) {
	raw, ok := w.resources[rt.name]
	if !ok {
		var zero T
		return zero, false
	}
	if raw == nil {
		var zero T // nil stored for an interface-typed resource
		return zero, true
	}
	v, ok := raw.(T)
	if !ok {
		panic(typeMismatch("resource", rt.name, raw, v))
	}
	return v, true
}

// SetResource unconditionally replaces the value held for rt.
func SetResource[T any](w *World, rt ResourceType[T], v T) {
	w.resources[rt.name] = v
}

// HasResource reports whether a value is held under name.
func (w *World) HasResource(name string) bool {
	_, ok := w.resources[name]
	return ok
}
