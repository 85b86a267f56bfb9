// Copyright 2020, Square, Inc.

package graph

import (
	"fmt"
)

// ProcessingOrder returns a sequence covering every node exactly once such
// that every node appears after all nodes feeding its inputs.
//
// The order is computed by iterative dependency resolution: repeatedly scan
// all unscheduled nodes in graph insertion order, appending any node whose
// every wired upstream node is already scheduled. A node with no inputs, or
// whose every input is unwired, is immediately eligible. Because the scan
// is in insertion order and a node is accepted as soon as it is found
// eligible, ties always break toward earlier insertion, which makes the
// order deterministic.
//
// If a full scan schedules nothing while nodes remain, the wiring is cyclic
// or inconsistent; ErrNoProgress is returned along with the partial order
// for diagnostics. Callers must treat that as a hard error, never execute
// the partial order.
func (g *Graph) ProcessingOrder() ([]int, error) {
	scheduled := make(map[int]bool, len(g.order))
	result := make([]int, 0, len(g.order))

	for len(result) < len(g.order) {
		progress := false

		for _, id := range g.order {
			if scheduled[id] {
				continue
			}
			if g.upstreamScheduled(id, scheduled) {
				result = append(result, id)
				scheduled[id] = true
				progress = true
			}
		}

		if !progress {
			return result, ErrNoProgress
		}
	}
	return result, nil
}

// upstreamScheduled returns true if every wired input of the node is fed by
// an already-scheduled node. Unwired inputs don't block scheduling; they
// surface later as a not-ready condition at run time.
func (g *Graph) upstreamScheduled(id int, scheduled map[int]bool) bool {
	n := g.nodes[id]
	for i := 0; i < n.InputCount(); i++ {
		src, ok := g.ins[Port{NodeID: id, Index: i}]
		if ok && !scheduled[src.NodeID] {
			return false
		}
	}
	return true
}

// Validate checks that the graph is acyclic and that every input port of
// every node is bound. It is read-only and stricter than what a run
// requires: the runner tolerates unready nodes by skipping them, but
// Validate treats any unbound input as a failure.
func (g *Graph) Validate() error {
	if g.hasCycles() {
		return ErrCycle
	}
	for _, id := range g.order {
		n := g.nodes[id]
		for i := 0; i < n.InputCount(); i++ {
			if _, ok := g.ins[Port{NodeID: id, Index: i}]; !ok {
				return fmt.Errorf("node %s (id %d) input %d: %w", n.Name(), id, i, ErrUnboundInput)
			}
		}
	}
	return nil
}
