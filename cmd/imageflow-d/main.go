// Copyright 2020, Square, Inc.

// imageflow-d is the Imageflow daemon: an HTTP API that runs pipeline specs
// and serves their results.
package main

import (
	"fmt"
	"os"

	"github.com/alexflint/go-arg"
	log "github.com/sirupsen/logrus"

	"github.com/square/imageflow/api"
	"github.com/square/imageflow/config"
	"github.com/square/imageflow/nodes"
	"github.com/square/imageflow/runner"
	"github.com/square/imageflow/version"
)

// Options represents the command line options.
type Options struct {
	Config  string `arg:"env" help:"config file (YAML)"`
	Debug   bool   `arg:"env" help:"enable debug logging"`
	Version bool   `help:"print version"`
}

func main() {
	var o Options
	p, err := arg.NewParser(arg.Config{Program: "imageflow-d"}, &o)
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
		fmt.Println("imageflow-d " + version.Version())
		os.Exit(0)
	}

	if o.Debug {
		log.SetLevel(log.DebugLevel)
	}

	cfg := config.Defaults()
	if o.Config != "" {
		if err := config.Load(o.Config, &cfg); err != nil {
			log.Fatalf("error loading config at %s: %s", o.Config, err)
		}
	}

	a := api.NewAPI(nodes.Factory, runner.NewMemoryRepo())
	log.Infof("listening on %s", cfg.ListenAddress)
	if err := a.Run(cfg.ListenAddress); err != nil {
		log.Fatalf("api error: %s", err)
	}
}
