package graph

import "github.com/l1jgo/ecsgraph/internal/core/ecs"

// Next follows the first outgoing edge of from whose data equals event, the
// usual reading of a Graph as a finite-state machine.
func Next[E comparable](g *Graph[E], from ecs.EntityID, event E) (ecs.EntityID, bool) {
	for _, e := range g.Outgoing(from) {
		if e.Data == event {
			return e.To, true
		}
	}
	return ecs.NilEntity, false
}

// Events lists the edge payloads leaving from, i.e. the transitions
// available in that state.
func Events[E any](g *Graph[E], from ecs.EntityID) []E {
	edges := g.Outgoing(from)
	out := make([]E, len(edges))
	for i, e := range edges {
		out[i] = e.Data
	}
	return out
}
