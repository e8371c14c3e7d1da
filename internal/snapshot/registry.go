package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"golang.org/x/text/unicode/norm"

	"github.com/l1jgo/ecsgraph/internal/core/ecs"
)

// ErrUnknownName is returned by registry accessors for a name nobody registered.
var ErrUnknownName = errors.New("snapshot: unknown name")

// normName folds a registry name to NFC so "é" typed as one rune or as
// e + combining accent addresses the same entry.
func normName(name string) string {
	return norm.NFC.String(name)
}

type componentEntry struct {
	name   string
	typ    reflect.Type
	key    ecs.ComponentKey
	get    func(w *ecs.World, id ecs.EntityID) (any, bool)
	fresh  func(w *ecs.World, id ecs.EntityID)
	attach func(w *ecs.World, id ecs.EntityID, raw []byte) error
	set    func(w *ecs.World, id ecs.EntityID, raw []byte) error
}

// ComponentRegistry is an append-only name → component type table. The
// World cannot enumerate component types on its own, so snapshots and
// scripts go through this table to reach typed storage by name.
type ComponentRegistry struct {
	entries map[string]*componentEntry
	order   []string
}

func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{entries: make(map[string]*componentEntry, 16)}
}

// RegisterComponent adds ct to r. Registering the same name again with the
// same value type is a no-op; with a different value type it panics.
func RegisterComponent[T any](r *ComponentRegistry, ct ecs.ComponentType[T]) {
	name := normName(ct.Name())
	typ := reflect.TypeOf((*T)(nil)).Elem()
	if prev, ok := r.entries[name]; ok {
		if prev.typ != typ {
			panic(fmt.Sprintf("snapshot: component %q registered as %s, re-registered as %s", name, prev.typ, typ))
		}
		return
	}
	r.entries[name] = &componentEntry{
		name: name,
		typ:  typ,
		key:  ct,
		get: func(w *ecs.World, id ecs.EntityID) (any, bool) {
			return ecs.Get(w, id, ct)
		},
		fresh: func(w *ecs.World, id ecs.EntityID) {
			ecs.Attach(w, id, ct)
		},
		attach: func(w *ecs.World, id ecs.EntityID, raw []byte) error {
			v, err := decode[T](raw)
			if err != nil {
				return err
			}
			ecs.AttachValue(w, id, ct, v)
			return nil
		},
		set: func(w *ecs.World, id ecs.EntityID, raw []byte) error {
			v, err := decode[T](raw)
			if err != nil {
				return err
			}
			ecs.Set(w, id, ct, v)
			return nil
		},
	}
	r.order = append(r.order, name)
}

// Names returns registered names in registration order.
func (r *ComponentRegistry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

func (r *ComponentRegistry) Has(name string) bool {
	_, ok := r.entries[normName(name)]
	return ok
}

// Key returns the ComponentKey registered under name, for use with Query.
func (r *ComponentRegistry) Key(name string) (ecs.ComponentKey, bool) {
	e, ok := r.entries[normName(name)]
	if !ok {
		return nil, false
	}
	return e.key, true
}

// Get returns id's value for the named component.
func (r *ComponentRegistry) Get(w *ecs.World, id ecs.EntityID, name string) (any, bool) {
	e, ok := r.entries[normName(name)]
	if !ok {
		return nil, false
	}
	return e.get(w, id)
}

// Attach decodes raw JSON into the named component's type and attaches it.
// The usual attach rules apply: a dead id is ignored.
func (r *ComponentRegistry) Attach(w *ecs.World, id ecs.EntityID, name string, raw []byte) error {
	e, ok := r.entries[normName(name)]
	if !ok {
		return fmt.Errorf("%w: component %q", ErrUnknownName, name)
	}
	return e.attach(w, id, raw)
}

// AttachDefault attaches the named component's default value.
func (r *ComponentRegistry) AttachDefault(w *ecs.World, id ecs.EntityID, name string) error {
	e, ok := r.entries[normName(name)]
	if !ok {
		return fmt.Errorf("%w: component %q", ErrUnknownName, name)
	}
	e.fresh(w, id)
	return nil
}

// Set decodes raw JSON and overwrites an existing attachment. Entities
// without the component are left unchanged.
func (r *ComponentRegistry) Set(w *ecs.World, id ecs.EntityID, name string, raw []byte) error {
	e, ok := r.entries[normName(name)]
	if !ok {
		return fmt.Errorf("%w: component %q", ErrUnknownName, name)
	}
	return e.set(w, id, raw)
}

type resourceEntry struct {
	name   string
	typ    reflect.Type
	lookup func(w *ecs.World) (any, bool)
	set    func(w *ecs.World, raw []byte) error
}

// ResourceRegistry is the resource counterpart of ComponentRegistry.
type ResourceRegistry struct {
	entries map[string]*resourceEntry
	order   []string
}

func NewResourceRegistry() *ResourceRegistry {
	return &ResourceRegistry{entries: make(map[string]*resourceEntry, 8)}
}

// RegisterResource adds rt to r under the same rules as RegisterComponent.
func RegisterResource[T any](r *ResourceRegistry, rt ecs.ResourceType[T]) {
	name := normName(rt.Name())
	typ := reflect.TypeOf((*T)(nil)).Elem()
	if prev, ok := r.entries[name]; ok {
		if prev.typ != typ {
			panic(fmt.Sprintf("snapshot: resource %q registered as %s, re-registered as %s", name, prev.typ, typ))
		}
		return
	}
	r.entries[name] = &resourceEntry{
		name: name,
		typ:  typ,
		// never initializes: serializing must not create resources
		lookup: func(w *ecs.World) (any, bool) {
			return ecs.LookupResource(w, rt)
		},
		set: func(w *ecs.World, raw []byte) error {
			v, err := decode[T](raw)
			if err != nil {
				return err
			}
			ecs.SetResource(w, rt, v)
			return nil
		},
	}
	r.order = append(r.order, name)
}

func (r *ResourceRegistry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

func (r *ResourceRegistry) Has(name string) bool {
	_, ok := r.entries[normName(name)]
	return ok
}

func decode[T any](raw []byte) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("decode %T: %w", v, err)
	}
	return v, nil
}
