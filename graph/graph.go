// Copyright 2020, Square, Inc.

// Package graph implements the node graph: an arena of nodes keyed by
// graph-scoped integer ids, a connection table wiring output ports to input
// ports, cycle-guarded connect/disconnect, and dependency-ordered scheduling.
//
// The graph owns all nodes and all wiring. Nodes never reference each other;
// every cross-reference is a (node id, port index) handle into the arena, so
// removing a node can never leave a dangling pointer. A Graph is single-
// writer: connect, disconnect, and order computation assume exclusive access
// for the duration of a call.
package graph

import (
	"strings"

	"github.com/square/imageflow/node"
)

// Port identifies one port of one node: an output port in the fan-out table,
// an input port in the fan-in table.
type Port struct {
	NodeID int
	Index  int
}

// Graph owns a collection of nodes and the wiring between them.
type Graph struct {
	nextID int               // id allocator, scoped to this graph
	nodes  map[int]node.Node // arena: id -> node
	order  []int             // node ids in insertion order (scheduling tie-break)
	ins    map[Port]Port     // input port -> the single output port feeding it
	outs   map[Port][]Port   // output port -> input ports it feeds
}

// New returns an empty graph with its own id allocator. Ids are unique
// within one graph only; independent graphs may reuse them.
func New() *Graph {
	return &Graph{
		nodes: map[int]node.Node{},
		ins:   map[Port]Port{},
		outs:  map[Port][]Port{},
	}
}

// AddNode adds n to the graph and returns its assigned id. Ids increase
// monotonically in insertion order, which is also the scheduling tie-break
// order.
func (g *Graph) AddNode(n node.Node) (int, error) {
	if n == nil {
		return 0, ErrNilNode
	}
	id := g.nextID
	g.nextID++
	g.nodes[id] = n
	g.order = append(g.order, id)
	return id, nil
}

// RemoveNode severs every connection touching the node, then removes it.
// After RemoveNode returns, no remaining wiring references the removed id.
func (g *Graph) RemoveNode(id int) error {
	if _, ok := g.nodes[id]; !ok {
		return ErrNodeNotFound
	}

	// Sever fan-out: every input port fed by one of this node's outputs.
	for out, targets := range g.outs {
		if out.NodeID != id {
			continue
		}
		for _, t := range targets {
			delete(g.ins, t)
		}
		delete(g.outs, out)
	}

	// Sever fan-in: the single upstream binding of each of this node's
	// input ports.
	for in, src := range g.ins {
		if in.NodeID != id {
			continue
		}
		g.outs[src] = removePort(g.outs[src], in)
		if len(g.outs[src]) == 0 {
			delete(g.outs, src)
		}
		delete(g.ins, in)
	}

	delete(g.nodes, id)
	for i, nid := range g.order {
		if nid == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	return nil
}

// Clear removes all nodes and wiring. The id allocator is not reset, so ids
// stay unique across the graph's lifetime.
func (g *Graph) Clear() {
	g.nodes = map[int]node.Node{}
	g.order = nil
	g.ins = map[Port]Port{}
	g.outs = map[Port][]Port{}
}

// Node returns the node with the given id.
func (g *Graph) Node(id int) (node.Node, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, ErrNodeNotFound
	}
	return n, nil
}

// Contains returns true if the graph holds a node with the given id.
func (g *Graph) Contains(id int) bool {
	_, ok := g.nodes[id]
	return ok
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// NodeIDs returns all node ids in insertion order.
func (g *Graph) NodeIDs() []int {
	ids := make([]int, len(g.order))
	copy(ids, g.order)
	return ids
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []node.Node {
	nodes := make([]node.Node, 0, len(g.order))
	for _, id := range g.order {
		nodes = append(nodes, g.nodes[id])
	}
	return nodes
}

// FindByName returns all nodes whose display name contains name, in
// insertion order.
func (g *Graph) FindByName(name string) []node.Node {
	var found []node.Node
	for _, id := range g.order {
		if strings.Contains(g.nodes[id].Name(), name) {
			found = append(found, g.nodes[id])
		}
	}
	return found
}

// Sources returns all nodes with zero input ports, in insertion order.
func (g *Graph) Sources() []node.Node {
	var sources []node.Node
	for _, id := range g.order {
		if g.nodes[id].InputCount() == 0 {
			sources = append(sources, g.nodes[id])
		}
	}
	return sources
}

// Sinks returns all nodes with zero output ports, in insertion order.
func (g *Graph) Sinks() []node.Node {
	var sinks []node.Node
	for _, id := range g.order {
		if g.nodes[id].OutputCount() == 0 {
			sinks = append(sinks, g.nodes[id])
		}
	}
	return sinks
}

// removePort removes the first occurrence of p from ports.
func removePort(ports []Port, p Port) []Port {
	for i, q := range ports {
		if q == p {
			return append(ports[:i], ports[i+1:]...)
		}
	}
	return ports
}
