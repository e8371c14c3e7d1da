package ecs

import "fmt"

// ComponentKey names a component store without carrying its value type.
// Query, Has and Detach only need the name.
type ComponentKey interface {
	ComponentName() string
}

// ComponentType is a typed handle for one kind of component data. It holds
// no storage; the World keys its stores by Name.
type ComponentType[T any] struct {
	name    string
	factory func() T
}

// NewComponentType creates a handle. factory must return a fresh value on
// every call; a nil factory yields the zero value of T.
func NewComponentType[T any](name string, factory func() T) ComponentType[T] {
	if factory == nil {
		factory = func() T {
			var zero T
			return zero
		}
	}
	return ComponentType[T]{name: name, factory: factory}
}

func (c ComponentType[T]) Name() string          { return c.name }
func (c ComponentType[T]) ComponentName() string { return c.name }
func (c ComponentType[T]) New() T                { return c.factory() }

// Removable is implemented by all component stores so the Registry can
// bulk-remove an entity's data from every store on destroy.
type Removable interface {
	Remove(id EntityID)
}

// anyStore is the type-erased view the World and Registry keep.
type anyStore interface {
	Removable
	Has(id EntityID) bool
	Len() int
	Lookup(id EntityID) (any, bool)
}

// ComponentStore is a generic typed map store for one component type.
type ComponentStore[T any] struct {
	name string
	data map[EntityID]T
}

func NewComponentStore[T any](name string) *ComponentStore[T] {
	return &ComponentStore[T]{
		name: name,
		data: make(map[EntityID]T, 256),
	}
}

func (s *ComponentStore[T]) Set(id EntityID, c T) {
	s.data[id] = c
}

func (s *ComponentStore[T]) Get(id EntityID) (T, bool) {
	c, ok := s.data[id]
	return c, ok
}

func (s *ComponentStore[T]) Lookup(id EntityID) (any, bool) {
	c, ok := s.data[id]
	if !ok {
		return nil, false
	}
	return c, true
}

func (s *ComponentStore[T]) Remove(id EntityID) {
	delete(s.data, id)
}

func (s *ComponentStore[T]) Has(id EntityID) bool {
	_, ok := s.data[id]
	return ok
}

func (s *ComponentStore[T]) Len() int {
	return len(s.data)
}

func typeMismatch(kind, name string, have any, want any) string {
	return fmt.Sprintf("ecs: %s %q registered with %T, used as %T", kind, name, have, want)
}
