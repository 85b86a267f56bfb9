// Copyright 2020, Square, Inc.

// Package pipeline reads pipeline spec files and builds graphs from them.
// A pipeline file is YAML: a list of nodes (name, type, params) and a list
// of connections between named ports, written "node:port".
//
// Nodes are added to the graph in file order, which is also the scheduler's
// tie-break order, so a pipeline file fully determines its execution order.
package pipeline

import (
	"fmt"
	"io/ioutil"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/square/imageflow/graph"
	"github.com/square/imageflow/node"
)

// Spec is a parsed pipeline file.
type Spec struct {
	Name        string     `yaml:"name"`
	Nodes       []NodeSpec `yaml:"nodes"`
	Connections []ConnSpec `yaml:"connections"`
}

// NodeSpec describes one node: its unique name within the pipeline, its
// factory type, and its type-specific parameters.
type NodeSpec struct {
	Name   string                 `yaml:"name"`
	Type   string                 `yaml:"type"`
	Params map[string]interface{} `yaml:"params"`
}

// ConnSpec describes one edge, each endpoint written "node:port", e.g.
// "input:0" -> "blur:0".
type ConnSpec struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Parse parses and validates a pipeline spec. Node names must be unique and
// non-empty, types non-empty, and every connection endpoint well-formed.
func Parse(data []byte) (Spec, error) {
	var s Spec
	if err := yaml.UnmarshalStrict(data, &s); err != nil {
		return Spec{}, fmt.Errorf("parse pipeline: %s", err)
	}

	if len(s.Nodes) == 0 {
		return Spec{}, fmt.Errorf("pipeline has no nodes")
	}
	seen := map[string]bool{}
	for i, ns := range s.Nodes {
		if ns.Name == "" {
			return Spec{}, fmt.Errorf("node %d has no name", i)
		}
		if ns.Type == "" {
			return Spec{}, fmt.Errorf("node %s has no type", ns.Name)
		}
		if seen[ns.Name] {
			return Spec{}, fmt.Errorf("duplicate node name: %s", ns.Name)
		}
		seen[ns.Name] = true
	}
	for i, cs := range s.Connections {
		for _, endpoint := range []string{cs.From, cs.To} {
			name, _, err := splitEndpoint(endpoint)
			if err != nil {
				return Spec{}, fmt.Errorf("connection %d: %s", i, err)
			}
			if !seen[name] {
				return Spec{}, fmt.Errorf("connection %d names unknown node %s", i, name)
			}
		}
	}
	return s, nil
}

// ReadFile reads and parses a pipeline spec file.
func ReadFile(path string) (Spec, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return Spec{}, err
	}
	return Parse(data)
}

// Build constructs a graph from the spec: every node is made through the
// factory and added in file order, then every connection is wired. It
// returns the graph and a map of node name -> assigned graph id. Any
// factory or connect error aborts the build.
func Build(s Spec, f node.Factory) (*graph.Graph, map[string]int, error) {
	g := graph.New()
	ids := make(map[string]int, len(s.Nodes))

	for _, ns := range s.Nodes {
		n, err := f.Make(ns.Type, ns.Name, ns.Params)
		if err != nil {
			return nil, nil, fmt.Errorf("node %s: %s", ns.Name, err)
		}
		id, err := g.AddNode(n)
		if err != nil {
			return nil, nil, fmt.Errorf("node %s: %s", ns.Name, err)
		}
		ids[ns.Name] = id
	}

	for _, cs := range s.Connections {
		fromName, out, err := splitEndpoint(cs.From)
		if err != nil {
			return nil, nil, err
		}
		toName, in, err := splitEndpoint(cs.To)
		if err != nil {
			return nil, nil, err
		}
		// Specs built directly (not through Parse) may name nodes that do
		// not exist; without this check the zero id would silently wire the
		// first node.
		fromID, ok := ids[fromName]
		if !ok {
			return nil, nil, fmt.Errorf("connection %s -> %s names unknown node %s", cs.From, cs.To, fromName)
		}
		toID, ok := ids[toName]
		if !ok {
			return nil, nil, fmt.Errorf("connection %s -> %s names unknown node %s", cs.From, cs.To, toName)
		}
		if err := g.Connect(fromID, out, toID, in); err != nil {
			return nil, nil, fmt.Errorf("connect %s -> %s: %s", cs.From, cs.To, err)
		}
	}
	return g, ids, nil
}

// splitEndpoint parses "node:port" into the node name and port index.
func splitEndpoint(s string) (string, int, error) {
	i := strings.LastIndex(s, ":")
	if i <= 0 || i == len(s)-1 {
		return "", 0, fmt.Errorf("malformed endpoint %q (want \"node:port\")", s)
	}
	port, err := strconv.Atoi(s[i+1:])
	if err != nil || port < 0 {
		return "", 0, fmt.Errorf("malformed port in endpoint %q", s)
	}
	return s[:i], port, nil
}
