// Copyright 2020, Square, Inc.

package graph

// hasCycles determines if the wiring graph has a directed cycle, using DFS
// with a visited set and a recursion-stack set. Traversal restarts from
// every unvisited node so disconnected subgraphs are covered. A back-edge
// to a node on the recursion stack signals a cycle.
func (g *Graph) hasCycles() bool {
	visited := map[int]bool{}
	onStack := map[int]bool{}

	for _, id := range g.order {
		if !visited[id] {
			if g.detectCycle(id, visited, onStack) {
				return true
			}
		}
	}
	return false
}

func (g *Graph) detectCycle(id int, visited, onStack map[int]bool) bool {
	visited[id] = true
	onStack[id] = true

	for out, targets := range g.outs {
		if out.NodeID != id {
			continue
		}
		for _, t := range targets {
			if !visited[t.NodeID] {
				if g.detectCycle(t.NodeID, visited, onStack) {
					return true
				}
			} else if onStack[t.NodeID] {
				return true
			}
		}
	}

	onStack[id] = false
	return false
}
