package snapshot

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"go.uber.org/zap"

	"github.com/l1jgo/ecsgraph/internal/core/ecs"
)

// LoadOptions names the registries a restore resolves names against.
// Resources is optional; without it saved resources are ignored.
type LoadOptions struct {
	Components *ComponentRegistry
	Resources  *ResourceRegistry
	Log        *zap.Logger
}

// DeserializeWorld builds a new World from s. Every saved entity gets a
// freshly spawned identity. Unknown component or resource names and values
// that fail to decode are logged and skipped; a version mismatch fails the
// whole restore and returns no World.
func DeserializeWorld(s *Snapshot, opts LoadOptions) (*ecs.World, error) {
	w, _, err := DeserializeWorldWithMapping(s, opts)
	return w, err
}

// DeserializeWorldWithMapping is DeserializeWorld that also returns the
// saved id → new id mapping. Component fields that hold entity ids are not
// rewritten; callers remap them with this table.
func DeserializeWorldWithMapping(s *Snapshot, opts LoadOptions) (*ecs.World, map[string]ecs.EntityID, error) {
	if s == nil {
		return nil, nil, fmt.Errorf("%w: nil snapshot", ErrMalformed)
	}
	if s.Version != Version {
		return nil, nil, fmt.Errorf("%w: got %d, want %d", ErrVersionMismatch, s.Version, Version)
	}
	if opts.Components == nil {
		return nil, nil, errors.New("snapshot: component registry required")
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	w := ecs.NewWorld()
	mapping := make(map[string]ecs.EntityID, len(s.Entities))
	for _, saved := range s.Entities {
		id := w.Spawn()
		if _, dup := mapping[saved.ID]; dup {
			log.Warn("duplicate entity id in snapshot", zap.String("entity", saved.ID))
		}
		mapping[saved.ID] = id
		for _, name := range sortedKeys(saved.Components) {
			if !opts.Components.Has(name) {
				log.Warn("unknown component skipped",
					zap.String("entity", saved.ID), zap.String("component", name))
				continue
			}
			if err := opts.Components.Attach(w, id, name, saved.Components[name]); err != nil {
				log.Warn("component value skipped",
					zap.String("entity", saved.ID), zap.String("component", name), zap.Error(err))
			}
		}
	}

	if opts.Resources == nil {
		if len(s.Resources) > 0 {
			log.Debug("no resource registry, saved resources ignored", zap.Int("count", len(s.Resources)))
		}
		return w, mapping, nil
	}
	for _, name := range sortedKeys(s.Resources) {
		e, ok := opts.Resources.entries[normName(name)]
		if !ok {
			log.Warn("unknown resource skipped", zap.String("resource", name))
			continue
		}
		if err := e.set(w, s.Resources[name]); err != nil {
			log.Warn("resource value skipped", zap.String("resource", name), zap.Error(err))
		}
	}
	return w, mapping, nil
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
