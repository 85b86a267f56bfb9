// Copyright 2020, Square, Inc.

// Package nodes implements the concrete image-operation nodes and the
// factory that creates them by type name. The core (graph, runner) never
// imports this package; it sees only the node.Node interface. External node
// types can be added at startup with Register.
package nodes

import (
	"errors"
	"fmt"

	"github.com/orcaman/concurrent-map"

	"github.com/square/imageflow/node"
)

var (
	ErrUnknownType = errors.New("unknown node type")
)

// A Maker constructs a node of one type from its display name and a
// parameter map (as parsed from a pipeline file). Makers must not call
// Process.
type Maker func(name string, params map[string]interface{}) (node.Node, error)

// makers maps node type name -> Maker. Registration may happen from
// multiple packages' init functions, so the map is thread-safe.
var makers = cmap.New()

// Register installs a Maker for the given type name, replacing any existing
// one. The built-in types are registered by this package's init.
func Register(nodeType string, m Maker) {
	makers.Set(nodeType, m)
}

// Types returns the registered node type names.
func Types() []string {
	return makers.Keys()
}

// Factory is a package variable referenced from other modules. It is the
// main entry point to the built-in node types. Refer to the node.Factory
// type for usage documentation.
var Factory node.Factory = factory{}

type factory struct{}

func (factory) Make(nodeType, name string, params map[string]interface{}) (node.Node, error) {
	val, ok := makers.Get(nodeType)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, nodeType)
	}
	return val.(Maker)(name, params)
}

func init() {
	Register("input", makeInput)
	Register("output", makeOutput)
	Register("brightness-contrast", makeBrightnessContrast)
	Register("blur", makeBlur)
	Register("threshold", makeThreshold)
	Register("edge-detect", makeEdgeDetect)
	Register("channel-splitter", makeChannelSplitter)
	Register("blend", makeBlend)
	Register("convolution", makeConvolution)
	Register("noise", makeNoise)
}

// makeInput creates a node.Source. If a "path" param is given, the image is
// loaded from it immediately.
func makeInput(name string, params map[string]interface{}) (node.Node, error) {
	src := node.NewSource(name)
	path, err := stringParam(params, "path", "")
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := src.Load(path); err != nil {
			return nil, err
		}
	}
	return src, nil
}

// makeOutput creates a node.Sink. A "path" param configures where the CLI
// saves the received image after a run.
func makeOutput(name string, params map[string]interface{}) (node.Node, error) {
	sink := node.NewSink(name)
	path, err := stringParam(params, "path", "")
	if err != nil {
		return nil, err
	}
	sink.SetPath(path)
	return sink, nil
}
