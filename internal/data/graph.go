package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/l1jgo/ecsgraph/internal/core/ecs"
	"github.com/l1jgo/ecsgraph/internal/core/graph"
)

// EdgeDef is one edge between two labelled entities. Data is the edge
// payload: a transition event for a state machine, a channel name for a
// pipeline, or empty for a hierarchy.
type EdgeDef struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
	Data string `yaml:"data"`
}

// GraphDef defines a named graph over labelled entities.
type GraphDef struct {
	Name  string    `yaml:"name"`
	Nodes []string  `yaml:"nodes"` // isolated nodes; edge endpoints are added implicitly
	Edges []EdgeDef `yaml:"edges"`
}

// LoadGraphDefs loads graphs.yaml.
func LoadGraphDefs(path string) ([]GraphDef, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read graphs: %w", err)
	}
	var defs []GraphDef
	if err := yaml.Unmarshal(raw, &defs); err != nil {
		return nil, fmt.Errorf("parse graphs: %w", err)
	}
	for i, d := range defs {
		if d.Name == "" {
			return nil, fmt.Errorf("parse graphs: entry %d has no name", i)
		}
	}
	return defs, nil
}

// Build resolves labels to entities and returns the graph. Every label must
// resolve.
func (d GraphDef) Build(labels map[string]ecs.EntityID) (*graph.Graph[string], error) {
	g := graph.New[string](d.Name)
	resolve := func(label string) (ecs.EntityID, error) {
		id, ok := labels[label]
		if !ok {
			return ecs.NilEntity, fmt.Errorf("graph %s: unknown entity label %q", d.Name, label)
		}
		return id, nil
	}
	for _, n := range d.Nodes {
		id, err := resolve(n)
		if err != nil {
			return nil, err
		}
		g.AddNode(id)
	}
	for _, e := range d.Edges {
		from, err := resolve(e.From)
		if err != nil {
			return nil, err
		}
		to, err := resolve(e.To)
		if err != nil {
			return nil, err
		}
		g.AddEdge(from, to, e.Data)
	}
	return g, nil
}
