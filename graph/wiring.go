// Copyright 2020, Square, Inc.

package graph

import (
	"github.com/square/imageflow/image"
	"github.com/square/imageflow/node"
)

// Connect wires output port out of node srcID to input port in of node
// dstID. Exactly one of two things happens: the edge is registered on both
// sides of the connection table, or the graph is left untouched and an error
// is returned (unknown id, out-of-range port, input already bound, or the
// edge would create a cycle).
//
// The cycle guard commits the edge tentatively, runs the detector, and rolls
// the edge back on violation. The graph is briefly cyclic during the check,
// which is safe under the single-writer model.
func (g *Graph) Connect(srcID, out, dstID, in int) error {
	src, ok := g.nodes[srcID]
	if !ok {
		return ErrNodeNotFound
	}
	dst, ok := g.nodes[dstID]
	if !ok {
		return ErrNodeNotFound
	}
	if out < 0 || out >= src.OutputCount() || in < 0 || in >= dst.InputCount() {
		return ErrInvalidPort
	}

	to := Port{NodeID: dstID, Index: in}
	if _, bound := g.ins[to]; bound {
		return ErrInputBound
	}

	// Commit tentatively, then check.
	from := Port{NodeID: srcID, Index: out}
	g.ins[to] = from
	g.outs[from] = append(g.outs[from], to)

	if g.hasCycles() {
		// Roll back both sides; the graph must be exactly as before.
		delete(g.ins, to)
		g.outs[from] = removePort(g.outs[from], to)
		if len(g.outs[from]) == 0 {
			delete(g.outs, from)
		}
		return ErrCycle
	}
	return nil
}

// Disconnect removes the edge from (srcID, out) to (dstID, in). Both sides
// of the connection table are updated atomically; if the edge does not
// exist, nothing changes.
func (g *Graph) Disconnect(srcID, out, dstID, in int) error {
	if _, ok := g.nodes[srcID]; !ok {
		return ErrNodeNotFound
	}
	if _, ok := g.nodes[dstID]; !ok {
		return ErrNodeNotFound
	}

	from := Port{NodeID: srcID, Index: out}
	to := Port{NodeID: dstID, Index: in}
	if g.ins[to] != from {
		return ErrNoEdge
	}

	delete(g.ins, to)
	g.outs[from] = removePort(g.outs[from], to)
	if len(g.outs[from]) == 0 {
		delete(g.outs, from)
	}
	return nil
}

// InputSource returns the output port feeding input port in of the given
// node, and whether that input is wired.
func (g *Graph) InputSource(id, in int) (Port, bool) {
	src, ok := g.ins[Port{NodeID: id, Index: in}]
	return src, ok
}

// Outputs returns the input ports fed by output port out of the given node.
// The fan-out list is in connection order.
func (g *Graph) Outputs(id, out int) []Port {
	targets := g.outs[Port{NodeID: id, Index: out}]
	cp := make([]Port, len(targets))
	copy(cp, targets)
	return cp
}

// Connections returns every edge in the graph as (from output port, to
// input port) pairs. Used by tests to assert the edge set is unchanged
// after a failed operation.
func (g *Graph) Connections() map[Port]Port {
	edges := make(map[Port]Port, len(g.ins))
	for to, from := range g.ins {
		edges[to] = from
	}
	return edges
}

// InputsFor returns the Inputs accessor the runner passes to a node's Ready
// and Process. All reads go through the connection table; values come back
// as copies of the upstream node's cached outputs.
func (g *Graph) InputsFor(id int) node.Inputs {
	return inputs{g: g, id: id}
}

// inputs adapts the graph's connection table to the node.Inputs interface
// for one node.
type inputs struct {
	g  *Graph
	id int
}

func (in inputs) Wired(i int) bool {
	_, ok := in.g.ins[Port{NodeID: in.id, Index: i}]
	return ok
}

func (in inputs) Value(i int) image.Image {
	src, ok := in.g.ins[Port{NodeID: in.id, Index: i}]
	if !ok {
		return image.Image{}
	}
	n, ok := in.g.nodes[src.NodeID]
	if !ok {
		return image.Image{}
	}
	return n.OutputValue(src.Index)
}
