package data

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/l1jgo/ecsgraph/internal/component"
	"github.com/l1jgo/ecsgraph/internal/core/ecs"
	"github.com/l1jgo/ecsgraph/internal/snapshot"
)

// Prefab is an entity template: component values keyed by registry name.
type Prefab struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

// Instance asks for one spawned copy of a prefab, labelled so graphs can
// refer to it.
type Instance struct {
	Prefab string `yaml:"prefab"`
	Label  string `yaml:"label"`
}

type prefabFile struct {
	Prefabs   []Prefab   `yaml:"prefabs"`
	Instances []Instance `yaml:"instances"`
}

// PrefabTable holds prefabs by name plus the instances to spawn at start.
type PrefabTable struct {
	prefabs   map[string]*Prefab
	instances []Instance
}

// LoadPrefabTable loads prefabs.yaml.
func LoadPrefabTable(path string) (*PrefabTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prefabs: %w", err)
	}
	var f prefabFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse prefabs: %w", err)
	}
	t := &PrefabTable{
		prefabs:   make(map[string]*Prefab, len(f.Prefabs)),
		instances: f.Instances,
	}
	for i := range f.Prefabs {
		p := &f.Prefabs[i]
		if p.Name == "" {
			return nil, fmt.Errorf("parse prefabs: entry %d has no name", i)
		}
		if _, dup := t.prefabs[p.Name]; dup {
			return nil, fmt.Errorf("parse prefabs: duplicate prefab %q", p.Name)
		}
		t.prefabs[p.Name] = p
	}
	for i, inst := range t.instances {
		if _, ok := t.prefabs[inst.Prefab]; !ok {
			return nil, fmt.Errorf("parse prefabs: instance %d uses unknown prefab %q", i, inst.Prefab)
		}
	}
	return t, nil
}

// Get returns the prefab by name, or nil if none.
func (t *PrefabTable) Get(name string) *Prefab {
	return t.prefabs[name]
}

// Count returns the total number of prefabs loaded.
func (t *PrefabTable) Count() int {
	return len(t.prefabs)
}

func (t *PrefabTable) Instances() []Instance {
	return t.instances
}

// Spawn creates an entity from the named prefab, attaching components in
// name order through cr. A non-empty label is attached as a Label.
func (t *PrefabTable) Spawn(w *ecs.World, cr *snapshot.ComponentRegistry, name, label string) (ecs.EntityID, error) {
	p, ok := t.prefabs[name]
	if !ok {
		return ecs.NilEntity, fmt.Errorf("unknown prefab %q", name)
	}
	names := make([]string, 0, len(p.Components))
	for n := range p.Components {
		names = append(names, n)
	}
	sort.Strings(names)

	id := w.Spawn()
	for _, n := range names {
		raw, err := json.Marshal(p.Components[n])
		if err != nil {
			w.Despawn(id)
			return ecs.NilEntity, fmt.Errorf("prefab %q component %s: %w", name, n, err)
		}
		if err := cr.Attach(w, id, n, raw); err != nil {
			w.Despawn(id)
			return ecs.NilEntity, fmt.Errorf("prefab %q: %w", name, err)
		}
	}
	if label != "" {
		ecs.AttachValue(w, id, component.LabelType, component.Label{Name: label})
	}
	return id, nil
}

// SpawnInstances spawns every listed instance and returns them by label.
func (t *PrefabTable) SpawnInstances(w *ecs.World, cr *snapshot.ComponentRegistry) (map[string]ecs.EntityID, error) {
	out := make(map[string]ecs.EntityID, len(t.instances))
	for _, inst := range t.instances {
		id, err := t.Spawn(w, cr, inst.Prefab, inst.Label)
		if err != nil {
			return nil, err
		}
		if inst.Label != "" {
			out[inst.Label] = id
		}
	}
	return out, nil
}

// Labels maps every labelled live entity's name to its id. Later entities
// win on duplicate names.
func Labels(w *ecs.World) map[string]ecs.EntityID {
	out := make(map[string]ecs.EntityID)
	ecs.Each(w, component.LabelType, func(id ecs.EntityID, l component.Label) {
		out[l.Name] = id
	})
	return out
}
