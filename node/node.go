// Copyright 2020, Square, Inc.

// Package node provides node-related interfaces, data structures, and errors.
// To avoid an import cycle, this package must not depend on other imageflow
// packages (except image, the payload) because everything else depends on it.
package node

import (
	"errors"

	"github.com/square/imageflow/image"
)

var (
	// Returned by Process when a required input carries no image. This
	// happens when an upstream node was skipped or never ran.
	ErrEmptyInput = errors.New("input port carries an empty image")

	// Returned by Source.Process when no image has been supplied.
	ErrNoImage = errors.New("source holds no image")
)

// Inputs is how a node reads its wired input ports during Process and Ready.
// It is implemented by the graph, which owns all wiring; nodes never hold
// references to each other.
type Inputs interface {
	// Wired returns true if input port i is bound to an upstream output.
	Wired(i int) bool

	// Value returns the current value on input port i: the cached output of
	// the upstream node it is wired to, or the empty image if the port is
	// unwired or the upstream node has not produced a value.
	Value(i int) image.Image
}

// A Node is the unit of computation in a graph: a named processor with fixed
// input and output ports. Concrete nodes are external to the core (see the
// nodes package); the graph and runner use only this interface.
//
// Port counts may depend on node state (a channel splitter grows outputs to
// match its last input) but must be stable between two Process calls. Port
// indices are always 0 <= i < count.
type Node interface {
	// Name returns the node's display name.
	Name() string

	// SetName changes the node's display name.
	SetName(name string)

	// InputCount returns the number of input ports.
	InputCount() int

	// OutputCount returns the number of output ports.
	OutputCount() int

	// InputName returns the human-readable name of input port i, or "" if i
	// is out of range.
	InputName(i int) string

	// OutputName returns the human-readable name of output port i, or "" if
	// i is out of range.
	OutputName(i int) string

	// Ready reports whether the node can Process. The default policy is
	// AllWired; generators derive readiness from their own configuration
	// instead of wiring.
	Ready(in Inputs) bool

	// Process pulls current values from wired inputs, computes, and stores
	// the results in the node's own output slots. It must be idempotent
	// given unchanged inputs and parameters, must only be called when Ready,
	// and must not mutate upstream nodes.
	Process(in Inputs) error

	// OutputValue returns the cached value at output port i, or the empty
	// image if the port never produced a value or i is out of range. The
	// returned image is a copy; callers cannot mutate the node's state
	// through it.
	OutputValue(i int) image.Image
}

// AllWired reports whether every input port of n is bound to a source. It is
// the default Ready policy.
func AllWired(n Node, in Inputs) bool {
	for i := 0; i < n.InputCount(); i++ {
		if !in.Wired(i) {
			return false
		}
	}
	return true
}

// A Factory instantiates a Node of the given type. A factory only constructs
// the node from its parameters; it must not call Process. imageflow does not
// know how to instantiate concrete nodes because they are external (the nodes
// package provides the default factory); once constructed, only the Node
// interface is used.
type Factory interface {
	Make(nodeType, name string, params map[string]interface{}) (Node, error)
}

// Base holds the state every node variant shares: the display name and the
// cached output values. Concrete nodes embed it and keep their own parameters.
type Base struct {
	name string
	out  map[int]image.Image
}

// NewBase returns a Base with the given display name.
func NewBase(name string) Base {
	return Base{
		name: name,
		out:  map[int]image.Image{},
	}
}

func (b *Base) Name() string {
	return b.name
}

func (b *Base) SetName(name string) {
	b.name = name
}

// SetOutput stores img as the cached value of output port i, overwriting any
// previous value.
func (b *Base) SetOutput(i int, img image.Image) {
	if b.out == nil {
		b.out = map[int]image.Image{}
	}
	b.out[i] = img
}

// ResetOutputs drops all cached output values. Nodes whose output count can
// shrink (channel splitter) call this at the start of Process so stale slots
// don't outlive the ports they belonged to.
func (b *Base) ResetOutputs() {
	b.out = map[int]image.Image{}
}

// OutputValue returns a copy of the cached value at output port i, or the
// empty image if nothing was ever stored there.
func (b *Base) OutputValue(i int) image.Image {
	img, ok := b.out[i]
	if !ok {
		return image.Image{}
	}
	return img.Clone()
}
