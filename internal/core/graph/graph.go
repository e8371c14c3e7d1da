// Package graph is a directed graph over entity IDs with a typed payload on
// every edge. It assigns no meaning to edges: the same container serves
// scene hierarchies, state machines and pipelines. A Graph never affects
// entity lifecycle and the World holds no reference to it.
package graph

import "github.com/l1jgo/ecsgraph/internal/core/ecs"

// Edge is a directed edge carrying Data.
type Edge[E any] struct {
	From ecs.EntityID
	To   ecs.EntityID
	Data E
}

// Graph is a simple directed graph: at most one edge per ordered pair.
// Node and adjacency order follow insertion order. Not safe for concurrent use.
type Graph[E any] struct {
	name  string
	nodes *ordered[ecs.EntityID, struct{}]
	out   map[ecs.EntityID]*ordered[ecs.EntityID, E]
	in    map[ecs.EntityID]*ordered[ecs.EntityID, struct{}]
	edges int
}

func New[E any](name string) *Graph[E] {
	return &Graph[E]{
		name:  name,
		nodes: newOrdered[ecs.EntityID, struct{}](),
		out:   make(map[ecs.EntityID]*ordered[ecs.EntityID, E]),
		in:    make(map[ecs.EntityID]*ordered[ecs.EntityID, struct{}]),
	}
}

func (g *Graph[E]) Name() string { return g.name }

func (g *Graph[E]) AddNode(id ecs.EntityID) {
	if g.nodes.has(id) {
		return
	}
	g.nodes.set(id, struct{}{})
	g.out[id] = newOrdered[ecs.EntityID, E]()
	g.in[id] = newOrdered[ecs.EntityID, struct{}]()
}

// RemoveNode drops id and every edge that touches it in either direction.
func (g *Graph[E]) RemoveNode(id ecs.EntityID) {
	if !g.nodes.has(id) {
		return
	}
	for _, to := range g.out[id].keys {
		g.in[to].del(id)
		g.edges--
	}
	// a self-loop was already dropped from g.in[id] above
	for _, from := range g.in[id].keys {
		g.out[from].del(id)
		g.edges--
	}
	delete(g.out, id)
	delete(g.in, id)
	g.nodes.del(id)
}

func (g *Graph[E]) HasNode(id ecs.EntityID) bool {
	return g.nodes.has(id)
}

// Nodes returns all nodes in insertion order.
func (g *Graph[E]) Nodes() []ecs.EntityID {
	out := make([]ecs.EntityID, len(g.nodes.keys))
	copy(out, g.nodes.keys)
	return out
}

func (g *Graph[E]) NodeCount() int { return g.nodes.len() }
func (g *Graph[E]) EdgeCount() int { return g.edges }

// AddEdge adds from→to, adding missing endpoints as nodes. An existing edge
// between the same ordered pair has its data replaced.
func (g *Graph[E]) AddEdge(from, to ecs.EntityID, data E) {
	g.AddNode(from)
	g.AddNode(to)
	if !g.out[from].has(to) {
		g.edges++
	}
	g.out[from].set(to, data)
	g.in[to].set(from, struct{}{})
}

func (g *Graph[E]) RemoveEdge(from, to ecs.EntityID) {
	adj, ok := g.out[from]
	if !ok || !adj.del(to) {
		return
	}
	g.in[to].del(from)
	g.edges--
}

func (g *Graph[E]) HasEdge(from, to ecs.EntityID) bool {
	adj, ok := g.out[from]
	return ok && adj.has(to)
}

// GetEdge returns the edge from→to, or false when there is none.
func (g *Graph[E]) GetEdge(from, to ecs.EntityID) (Edge[E], bool) {
	adj, ok := g.out[from]
	if !ok {
		return Edge[E]{}, false
	}
	data, ok := adj.get(to)
	if !ok {
		return Edge[E]{}, false
	}
	return Edge[E]{From: from, To: to, Data: data}, true
}

// Edges returns every edge, grouped by source in node order.
func (g *Graph[E]) Edges() []Edge[E] {
	out := make([]Edge[E], 0, g.edges)
	for _, from := range g.nodes.keys {
		out = append(out, g.Outgoing(from)...)
	}
	return out
}

func (g *Graph[E]) Outgoing(id ecs.EntityID) []Edge[E] {
	adj, ok := g.out[id]
	if !ok {
		return nil
	}
	out := make([]Edge[E], 0, adj.len())
	for _, to := range adj.keys {
		out = append(out, Edge[E]{From: id, To: to, Data: adj.vals[to]})
	}
	return out
}

func (g *Graph[E]) Incoming(id ecs.EntityID) []Edge[E] {
	adj, ok := g.in[id]
	if !ok {
		return nil
	}
	out := make([]Edge[E], 0, adj.len())
	for _, from := range adj.keys {
		out = append(out, Edge[E]{From: from, To: id, Data: g.out[from].vals[id]})
	}
	return out
}

// Children returns the targets of id's outgoing edges.
func (g *Graph[E]) Children(id ecs.EntityID) []ecs.EntityID {
	adj, ok := g.out[id]
	if !ok {
		return nil
	}
	out := make([]ecs.EntityID, len(adj.keys))
	copy(out, adj.keys)
	return out
}

// Parents returns the sources of id's incoming edges.
func (g *Graph[E]) Parents(id ecs.EntityID) []ecs.EntityID {
	adj, ok := g.in[id]
	if !ok {
		return nil
	}
	out := make([]ecs.EntityID, len(adj.keys))
	copy(out, adj.keys)
	return out
}

// Roots returns nodes with no incoming edges.
func (g *Graph[E]) Roots() []ecs.EntityID {
	var out []ecs.EntityID
	for _, id := range g.nodes.keys {
		if g.in[id].len() == 0 {
			out = append(out, id)
		}
	}
	return out
}

// Leaves returns nodes with no outgoing edges.
func (g *Graph[E]) Leaves() []ecs.EntityID {
	var out []ecs.EntityID
	for _, id := range g.nodes.keys {
		if g.out[id].len() == 0 {
			out = append(out, id)
		}
	}
	return out
}
