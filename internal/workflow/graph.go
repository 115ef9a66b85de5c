// Package workflow implements a small directed-graph execution engine.
// Nodes are state transforms connected by unconditional or conditional
// edges; the graph is validated at compile time and executed sequentially.
package workflow

import (
	"context"
	"fmt"
)

// End is the terminal edge target. Routing to End stops execution.
const End = "__end__"

// NodeFunc transforms a state value into the next state value. A returned
// error aborts the whole run.
type NodeFunc[S any] func(ctx context.Context, state S) (S, error)

// EdgeFunc inspects a state and returns the label of the edge to follow.
type EdgeFunc[S any] func(state S) string

type conditionalEdge[S any] struct {
	router  EdgeFunc[S]
	targets map[string]string
}

// Graph is a mutable graph definition. Build it with AddNode/AddEdge/
// AddConditionalEdges, then Compile it into an immutable Runner.
type Graph[S any] struct {
	nodes       map[string]NodeFunc[S]
	edges       map[string]string
	conditional map[string]conditionalEdge[S]
	entryPoint  string
}

// New creates an empty graph definition.
func New[S any]() *Graph[S] {
	return &Graph[S]{
		nodes:       make(map[string]NodeFunc[S]),
		edges:       make(map[string]string),
		conditional: make(map[string]conditionalEdge[S]),
	}
}

// AddNode registers a named node.
func (g *Graph[S]) AddNode(name string, fn NodeFunc[S]) *Graph[S] {
	g.nodes[name] = fn
	return g
}

// AddEdge registers an unconditional edge from one node to another (or End).
func (g *Graph[S]) AddEdge(from, to string) *Graph[S] {
	g.edges[from] = to
	return g
}

// AddConditionalEdges registers a router on a node. After the node runs, the
// router's label is looked up in targets to find the next node.
func (g *Graph[S]) AddConditionalEdges(from string, router EdgeFunc[S], targets map[string]string) *Graph[S] {
	g.conditional[from] = conditionalEdge[S]{router: router, targets: targets}
	return g
}

// SetEntryPoint names the node execution starts from.
func (g *Graph[S]) SetEntryPoint(name string) *Graph[S] {
	g.entryPoint = name
	return g
}

// Compile validates the graph and returns a Runner. Every edge target and
// conditional target must name a registered node or End, the entry point
// must be set, and a node may not carry both edge kinds. Unknown labels are
// a construction-time error, never a runtime default.
func (g *Graph[S]) Compile() (*Runner[S], error) {
	if g.entryPoint == "" {
		return nil, fmt.Errorf("workflow: entry point not set")
	}
	if _, ok := g.nodes[g.entryPoint]; !ok {
		return nil, fmt.Errorf("workflow: entry point %q is not a registered node", g.entryPoint)
	}
	for from, to := range g.edges {
		if _, ok := g.nodes[from]; !ok {
			return nil, fmt.Errorf("workflow: edge from unknown node %q", from)
		}
		if _, ok := g.conditional[from]; ok {
			return nil, fmt.Errorf("workflow: node %q has both an edge and conditional edges", from)
		}
		if to != End {
			if _, ok := g.nodes[to]; !ok {
				return nil, fmt.Errorf("workflow: edge %q -> %q targets unknown node", from, to)
			}
		}
	}
	for from, ce := range g.conditional {
		if _, ok := g.nodes[from]; !ok {
			return nil, fmt.Errorf("workflow: conditional edges from unknown node %q", from)
		}
		if len(ce.targets) == 0 {
			return nil, fmt.Errorf("workflow: node %q has conditional edges with no targets", from)
		}
		for label, to := range ce.targets {
			if to != End {
				if _, ok := g.nodes[to]; !ok {
					return nil, fmt.Errorf("workflow: conditional edge %q[%s] -> %q targets unknown node", from, label, to)
				}
			}
		}
	}

	r := &Runner[S]{
		nodes:       make(map[string]NodeFunc[S], len(g.nodes)),
		edges:       make(map[string]string, len(g.edges)),
		conditional: make(map[string]conditionalEdge[S], len(g.conditional)),
		entryPoint:  g.entryPoint,
	}
	for k, v := range g.nodes {
		r.nodes[k] = v
	}
	for k, v := range g.edges {
		r.edges[k] = v
	}
	for k, v := range g.conditional {
		r.conditional[k] = v
	}
	return r, nil
}

// Runner is a compiled, immutable workflow. It is safe for concurrent use;
// each Run owns its state value exclusively.
type Runner[S any] struct {
	nodes       map[string]NodeFunc[S]
	edges       map[string]string
	conditional map[string]conditionalEdge[S]
	entryPoint  string
}

// Run executes the graph from the entry point until an edge routes to End.
// The context is checked before every node, so cancellation takes effect at
// the next suspension point. The engine does not detect cycles; loops must
// terminate through node-level conditions such as a bounded retry counter.
func (r *Runner[S]) Run(ctx context.Context, state S) (S, error) {
	current := r.entryPoint
	for current != End {
		if err := ctx.Err(); err != nil {
			return state, err
		}

		fn := r.nodes[current]
		next, err := fn(ctx, state)
		if err != nil {
			return state, fmt.Errorf("workflow: node %q: %w", current, err)
		}
		state = next

		if ce, ok := r.conditional[current]; ok {
			label := ce.router(state)
			target, ok := ce.targets[label]
			if !ok {
				return state, fmt.Errorf("workflow: node %q routed to unmapped label %q", current, label)
			}
			current = target
			continue
		}
		if to, ok := r.edges[current]; ok {
			current = to
			continue
		}
		// No outgoing edge is an implicit End.
		break
	}
	return state, nil
}
