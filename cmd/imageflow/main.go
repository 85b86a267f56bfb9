// Copyright 2020, Square, Inc.

// imageflow runs a pipeline spec file locally: it builds the graph, runs it
// once, prints a per-node summary, and saves every output node that has a
// configured path.
package main

import (
	"fmt"
	"os"

	"github.com/alexflint/go-arg"
	log "github.com/sirupsen/logrus"

	"github.com/square/imageflow/node"
	"github.com/square/imageflow/nodes"
	"github.com/square/imageflow/pipeline"
	"github.com/square/imageflow/runner"
	"github.com/square/imageflow/version"
)

// Options represents the command line options.
type Options struct {
	Pipeline string `arg:"positional" help:"pipeline spec file (YAML)"`
	Debug    bool   `arg:"env" help:"enable debug logging"`
	Version  bool   `help:"print version"`
}

func main() {
	var o Options
	p, err := arg.NewParser(arg.Config{Program: "imageflow"}, &o)
	if err != nil {
		fmt.Printf("arg.NewParser: %s", err)
		os.Exit(1)
	}
	if err := p.Parse(os.Args[1:]); err != nil {
		switch err {
		case arg.ErrHelp:
			p.WriteHelp(os.Stdout)
			os.Exit(0)
		case arg.ErrVersion:
			o.Version = true
		default:
			fmt.Printf("Error parsing command line: %s\n", err)
			os.Exit(1)
		}
	}

	if o.Version {
		fmt.Println("imageflow " + version.Version())
		os.Exit(0)
	}
	if o.Pipeline == "" {
		fmt.Fprintln(os.Stderr, "no pipeline file given (run with --help for usage)")
		os.Exit(1)
	}

	if o.Debug {
		log.SetLevel(log.DebugLevel)
	}

	spec, err := pipeline.ReadFile(o.Pipeline)
	if err != nil {
		log.Fatalf("error reading pipeline %s: %s", o.Pipeline, err)
	}

	g, ids, err := pipeline.Build(spec, nodes.Factory)
	if err != nil {
		log.Fatalf("error building pipeline %s: %s", o.Pipeline, err)
	}

	r := runner.NewRunner(g)
	result, err := r.Run()
	if err != nil {
		log.Fatalf("error running pipeline: %s", err)
	}

	fmt.Printf("run %s: %s\n", result.RunID, runner.StateName[result.State])
	for _, ns := range result.Nodes {
		line := fmt.Sprintf("  %-20s %s", ns.Name, runner.StateName[ns.State])
		if ns.Error != "" {
			line += ": " + ns.Error
		}
		fmt.Println(line)
	}

	// Save every output node that received an image and has a path. Spec
	// file order keeps the output order stable.
	for _, ns := range spec.Nodes {
		n, err := g.Node(ids[ns.Name])
		if err != nil {
			continue
		}
		sink, ok := n.(*node.Sink)
		if !ok || sink.Path() == "" {
			continue
		}
		if !sink.HasImage() {
			log.Warnf("output node %s has no image, not saving %s", sink.Name(), sink.Path())
			continue
		}
		if err := sink.Save(); err != nil {
			log.Fatalf("error saving %s: %s", sink.Path(), err)
		}
		fmt.Printf("saved %s\n", sink.Path())
	}

	if result.State != runner.STATE_COMPLETE {
		os.Exit(1)
	}
}
