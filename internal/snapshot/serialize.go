package snapshot

import (
	"encoding/json"
	"slices"

	"go.uber.org/zap"

	"github.com/l1jgo/ecsgraph/internal/core/ecs"
)

// SaveOptions controls the resource pass of SerializeWorldWithResources.
// Include, when non-empty, limits which resources are saved; Exclude always
// wins over Include.
type SaveOptions struct {
	Resources *ResourceRegistry
	Include   []string
	Exclude   []string
	Log       *zap.Logger
}

// SerializeWorld saves every registered component of every entity that has
// at least one registered component. Values failing Serializable are left
// out; the snapshot is still produced.
func SerializeWorld(w *ecs.World, components *ComponentRegistry) *Snapshot {
	return SerializeWorldWithResources(w, components, SaveOptions{})
}

// SerializeWorldWithResources is SerializeWorld plus a pass over the
// resources in opts.Resources. Resources the World has never initialized
// are skipped and stay uninitialized.
func SerializeWorldWithResources(w *ecs.World, components *ComponentRegistry, opts SaveOptions) *Snapshot {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	snap := newSnapshot()

	for _, id := range discover(w, components) {
		ent := Entity{ID: id.String(), Components: map[string]json.RawMessage{}}
		for _, name := range components.order {
			v, ok := components.entries[name].get(w, id)
			if !ok {
				continue
			}
			raw, ok := encode(v)
			if !ok {
				log.Debug("component dropped from snapshot",
					zap.String("entity", ent.ID), zap.String("component", name))
				continue
			}
			ent.Components[name] = raw
		}
		snap.Entities = append(snap.Entities, ent)
	}

	if opts.Resources == nil {
		return snap
	}
	include := normNames(opts.Include)
	exclude := normNames(opts.Exclude)
	for _, name := range opts.Resources.order {
		if slices.Contains(exclude, name) {
			continue
		}
		if len(include) > 0 && !slices.Contains(include, name) {
			continue
		}
		v, ok := opts.Resources.entries[name].lookup(w)
		if !ok {
			continue
		}
		raw, ok := encode(v)
		if !ok {
			log.Debug("resource dropped from snapshot", zap.String("resource", name))
			continue
		}
		snap.Resources[name] = raw
	}
	return snap
}

// discover returns the union of entities holding any registered component,
// ordered by registry order and then spawn order. Entities with no
// registered component are not found.
func discover(w *ecs.World, components *ComponentRegistry) []ecs.EntityID {
	seen := make(map[ecs.EntityID]struct{}, w.Len())
	var out []ecs.EntityID
	for _, name := range components.order {
		for _, id := range w.Query(components.entries[name].key) {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

// Coverage returns how many live entities a snapshot of w would include
// and how many are alive in total. A gap means entities that carry only
// unregistered components, or none, and will be missing from saves.
func Coverage(w *ecs.World, components *ComponentRegistry) (discovered, live int) {
	return len(discover(w, components)), w.Len()
}

func encode(v any) (json.RawMessage, bool) {
	if !Serializable(v) {
		return nil, false
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, false
	}
	return raw, true
}

func normNames(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = normName(n)
	}
	return out
}
