// Copyright 2020, Square, Inc.

package graph

import (
	"errors"
)

var (
	// Returned when an operation names a node id that is not in the graph.
	ErrNodeNotFound = errors.New("node not found in graph")

	// Returned when AddNode is given a nil node.
	ErrNilNode = errors.New("cannot add nil node")

	// Returned when a port index is outside [0, count) for its node.
	ErrInvalidPort = errors.New("port index out of range")

	// Returned by Connect when the target input port is already bound.
	// Input ports accept exactly one connection (fan-in = 1).
	ErrInputBound = errors.New("input port already connected")

	// Returned by Connect when the new edge would create a cycle. The edge
	// is rolled back; the graph is unchanged.
	ErrCycle = errors.New("connection would create a cycle")

	// Returned by Disconnect when the named edge does not exist.
	ErrNoEdge = errors.New("no such connection")

	// Returned by ProcessingOrder when a full scan schedules no node while
	// nodes remain. This means a cycle or inconsistent wiring slipped past
	// the connect-time guard; the partial order is never executed.
	ErrNoProgress = errors.New("cannot determine processing order: cyclic or inconsistent wiring")

	// Returned by Validate when some node has an unbound input port.
	ErrUnboundInput = errors.New("input port not connected")
)
