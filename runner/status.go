// Copyright 2020, Square, Inc.

package runner

// Node and run states. A run is COMPLETE only if every node in it is
// COMPLETE; a single failed or skipped node does not halt the run, it only
// makes the overall state FAIL.
const (
	STATE_UNKNOWN  byte = iota
	STATE_PENDING       // scheduled, not run yet
	STATE_RUNNING       // Process in progress
	STATE_COMPLETE      // Process returned without error
	STATE_FAIL          // Process returned an error
	STATE_SKIPPED       // node was not ready; Process never called
)

// StateName maps states to human-readable names.
var StateName = map[byte]string{
	STATE_UNKNOWN:  "UNKNOWN",
	STATE_PENDING:  "PENDING",
	STATE_RUNNING:  "RUNNING",
	STATE_COMPLETE: "COMPLETE",
	STATE_FAIL:     "FAIL",
	STATE_SKIPPED:  "SKIPPED",
}

// NodeStatus reports how one node fared during a run.
type NodeStatus struct {
	NodeID  int     `json:"nodeId"`
	Name    string  `json:"name"`
	State   byte    `json:"state"`
	Error   string  `json:"error,omitempty"`
	Runtime float64 `json:"runtime"` // seconds spent in Process
}

// Result is the outcome of one run of a graph.
type Result struct {
	RunID      string       `json:"runId"`
	State      byte         `json:"state"`
	StartedAt  int64        `json:"startedAt"`  // unix nano
	FinishedAt int64        `json:"finishedAt"` // unix nano
	Nodes      []NodeStatus `json:"nodes"`      // in processing order
}
