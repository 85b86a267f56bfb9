// Copyright 2020, Square, Inc.

// Package runner executes a node graph. It computes the processing order
// from the graph, drives Process on each node in that order, and reports a
// per-node status. A node that is not ready is skipped, not fatal: it keeps
// its stale or empty outputs, which may in turn leave downstream nodes
// unready. A structural problem (no valid order) is a hard error and
// nothing is executed.
package runner

import (
	"time"

	"github.com/rs/xid"
	log "github.com/sirupsen/logrus"

	"github.com/square/imageflow/graph"
)

// Runner runs one graph. It is not safe for concurrent use, matching the
// graph's single-writer model; create one Runner per run.
type Runner struct {
	g      *graph.Graph
	runID  string
	logger *log.Entry
}

// NewRunner creates a Runner for the graph with a fresh, globally unique
// run id. All of the runner's logging includes the run id.
func NewRunner(g *graph.Graph) *Runner {
	runID := xid.New().String()
	return &Runner{
		g:      g,
		runID:  runID,
		logger: log.WithFields(log.Fields{"runId": runID}),
	}
}

// RunID returns the id assigned to this run.
func (r *Runner) RunID() string {
	return r.runID
}

// Run computes the processing order and drives every node once. If no valid
// order exists (graph.ErrNoProgress), the error is returned and no node is
// processed. Otherwise Run always visits the full order: ready nodes are
// processed, unready nodes are skipped with STATE_SKIPPED, and Process
// errors are recorded with STATE_FAIL without stopping the run.
func (r *Runner) Run() (Result, error) {
	result := Result{
		RunID:     r.runID,
		State:     STATE_PENDING,
		StartedAt: time.Now().UnixNano(),
	}

	order, err := r.g.ProcessingOrder()
	if err != nil {
		r.logger.Errorf("cannot order graph: %s", err)
		result.State = STATE_FAIL
		result.FinishedAt = time.Now().UnixNano()
		return result, err
	}

	r.logger.Infof("run started: %d nodes", len(order))
	result.State = STATE_RUNNING

	complete := true
	for _, id := range order {
		n, err := r.g.Node(id)
		if err != nil {
			// Node removed between ordering and execution; single-writer
			// model makes this unreachable, but don't run a ghost node.
			complete = false
			result.Nodes = append(result.Nodes, NodeStatus{
				NodeID: id,
				State:  STATE_FAIL,
				Error:  err.Error(),
			})
			continue
		}

		status := NodeStatus{
			NodeID: id,
			Name:   n.Name(),
			State:  STATE_PENDING,
		}
		in := r.g.InputsFor(id)

		if !n.Ready(in) {
			r.logger.Warnf("node %s (id %d) not ready, skipping", n.Name(), id)
			status.State = STATE_SKIPPED
			complete = false
			result.Nodes = append(result.Nodes, status)
			continue
		}

		t0 := time.Now()
		err = n.Process(in)
		status.Runtime = time.Since(t0).Seconds()
		if err != nil {
			r.logger.Errorf("node %s (id %d) failed: %s", n.Name(), id, err)
			status.State = STATE_FAIL
			status.Error = err.Error()
			complete = false
		} else {
			status.State = STATE_COMPLETE
		}
		result.Nodes = append(result.Nodes, status)
	}

	if complete {
		result.State = STATE_COMPLETE
	} else {
		result.State = STATE_FAIL
	}
	result.FinishedAt = time.Now().UnixNano()
	r.logger.Infof("run done: %s", StateName[result.State])
	return result, nil
}
