// SPDX-License-Identifier: MPL-2.0

// Package dag orders a directed acyclic graph of string-keyed nodes. The
// build engine uses it to compute package load order: an edge from A to B
// means A loads before B.
package dag

import (
	"fmt"
	"strings"
)

// CycleError reports that ordering is impossible. Cycle holds enough of the
// offending nodes to identify the loop.
type CycleError struct {
	Cycle []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("circular dependency: %s", strings.Join(e.Cycle, " -> "))
}

// Graph accumulates nodes and loads-before edges. Nodes keep insertion
// order so Sort output is deterministic.
type Graph struct {
	edges   map[string][]string
	nodes   []string
	present map[string]bool
}

func New() *Graph {
	return &Graph{
		edges:   make(map[string][]string),
		present: make(map[string]bool),
	}
}

// AddNode records a node; re-adding an existing node is a no-op.
func (g *Graph) AddNode(name string) {
	if g.present[name] {
		return
	}
	g.present[name] = true
	g.nodes = append(g.nodes, name)
}

// AddEdge records that before loads ahead of after, adding either node as
// needed.
func (g *Graph) AddEdge(before, after string) {
	g.AddNode(before)
	g.AddNode(after)
	g.edges[before] = append(g.edges[before], after)
}

// Sort returns the nodes in an order that respects every edge, using
// Kahn's algorithm. Ties resolve by insertion order. Returns CycleError
// when no such order exists.
func (g *Graph) Sort() ([]string, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	indegree := make(map[string]int, len(g.nodes))
	for _, n := range g.nodes {
		indegree[n] = 0
	}
	for _, targets := range g.edges {
		for _, t := range targets {
			indegree[t]++
		}
	}

	var queue []string
	for _, n := range g.nodes {
		if indegree[n] == 0 {
			queue = append(queue, n)
		}
	}

	var order []string
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		order = append(order, n)

		for _, t := range g.edges[n] {
			indegree[t]--
			if indegree[t] == 0 {
				queue = append(queue, t)
			}
		}
	}

	if len(order) != len(g.nodes) {
		var cycle []string
		for _, n := range g.nodes {
			if indegree[n] > 0 {
				cycle = append(cycle, n)
			}
		}
		return nil, &CycleError{Cycle: cycle}
	}

	return order, nil
}
