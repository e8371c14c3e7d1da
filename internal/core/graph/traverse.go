package graph

import (
	"errors"
	"fmt"

	"github.com/l1jgo/ecsgraph/internal/core/ecs"
)

// ErrCycle is returned by Topological when the graph is not a DAG.
var ErrCycle = errors.New("graph: cycle detected")

// VisitFunc receives a node and its edge distance from the start node.
type VisitFunc func(id ecs.EntityID, depth int)

// DFS visits nodes reachable from start in depth-first pre-order. Each node
// is visited once; edges back to visited nodes are skipped, so cycles are
// harmless. Nothing is visited when start is not a node.
func (g *Graph[E]) DFS(start ecs.EntityID, visit VisitFunc) {
	if !g.HasNode(start) {
		return
	}
	seen := make(map[ecs.EntityID]struct{}, g.nodes.len())
	var walk func(id ecs.EntityID, depth int)
	walk = func(id ecs.EntityID, depth int) {
		seen[id] = struct{}{}
		visit(id, depth)
		for _, next := range g.Children(id) {
			if _, ok := seen[next]; !ok {
				walk(next, depth+1)
			}
		}
	}
	walk(start, 0)
}

// BFS visits nodes reachable from start in breadth-first order; depth is the
// shortest edge distance from start.
func (g *Graph[E]) BFS(start ecs.EntityID, visit VisitFunc) {
	if !g.HasNode(start) {
		return
	}
	type item struct {
		id    ecs.EntityID
		depth int
	}
	seen := map[ecs.EntityID]struct{}{start: {}}
	queue := []item{{id: start}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		visit(cur.id, cur.depth)
		for _, next := range g.Children(cur.id) {
			if _, ok := seen[next]; ok {
				continue
			}
			seen[next] = struct{}{}
			queue = append(queue, item{id: next, depth: cur.depth + 1})
		}
	}
}

const (
	white = iota // unvisited
	grey         // on the current DFS path
	black        // finished
)

// Topological orders every node so each edge's source precedes its target.
// Unlike DFS and BFS it treats a cycle as fatal and returns ErrCycle.
func (g *Graph[E]) Topological() ([]ecs.EntityID, error) {
	color := make(map[ecs.EntityID]int, g.nodes.len())
	post := make([]ecs.EntityID, 0, g.nodes.len())

	var visit func(id ecs.EntityID) error
	visit = func(id ecs.EntityID) error {
		color[id] = grey
		for _, next := range g.out[id].keys {
			switch color[next] {
			case grey:
				return fmt.Errorf("%w: edge %s -> %s closes a cycle", ErrCycle, id, next)
			case white:
				if err := visit(next); err != nil {
					return err
				}
			}
		}
		color[id] = black
		post = append(post, id)
		return nil
	}

	for _, id := range g.nodes.keys {
		if color[id] != white {
			continue
		}
		if err := visit(id); err != nil {
			return nil, err
		}
	}

	for i, j := 0, len(post)-1; i < j; i, j = i+1, j-1 {
		post[i], post[j] = post[j], post[i]
	}
	return post, nil
}

// Descendants returns every node reachable from id, excluding id itself.
func (g *Graph[E]) Descendants(id ecs.EntityID) []ecs.EntityID {
	var out []ecs.EntityID
	g.DFS(id, func(n ecs.EntityID, _ int) {
		if n != id {
			out = append(out, n)
		}
	})
	return out
}

// Ancestors returns every node that can reach id, excluding id itself,
// walking parents breadth-first.
func (g *Graph[E]) Ancestors(id ecs.EntityID) []ecs.EntityID {
	if !g.HasNode(id) {
		return nil
	}
	var out []ecs.EntityID
	seen := map[ecs.EntityID]struct{}{id: {}}
	queue := []ecs.EntityID{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, p := range g.Parents(cur) {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
			queue = append(queue, p)
		}
	}
	return out
}
