// Copyright 2020, Square, Inc.

package nodes

import (
	"errors"
	"fmt"

	"github.com/square/imageflow/image"
	"github.com/square/imageflow/node"
)

// Blend modes.
const (
	BLEND_NORMAL     = "normal"
	BLEND_ADD        = "add"
	BLEND_MULTIPLY   = "multiply"
	BLEND_SCREEN     = "screen"
	BLEND_OVERLAY    = "overlay"
	BLEND_DARKEN     = "darken"
	BLEND_LIGHTEN    = "lighten"
	BLEND_DIFFERENCE = "difference"
)

var blendModes = map[string]bool{
	BLEND_NORMAL:     true,
	BLEND_ADD:        true,
	BLEND_MULTIPLY:   true,
	BLEND_SCREEN:     true,
	BLEND_OVERLAY:    true,
	BLEND_DARKEN:     true,
	BLEND_LIGHTEN:    true,
	BLEND_DIFFERENCE: true,
}

var ErrShapeMismatch = errors.New("blend inputs differ in dimensions or channels")

// Blend combines two images. The blend formula is applied per sample, then
// mixed with the base image by alpha: out = (1-alpha)*base + alpha*blended.
// Both inputs must have identical dimensions and channel counts.
type Blend struct {
	node.Base
	mode  string
	alpha float64
}

func NewBlend(name, mode string, alpha float64) (*Blend, error) {
	if !blendModes[mode] {
		return nil, fmt.Errorf("unknown blend mode %q", mode)
	}
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	return &Blend{
		Base:  node.NewBase(name),
		mode:  mode,
		alpha: alpha,
	}, nil
}

func makeBlend(name string, params map[string]interface{}) (node.Node, error) {
	mode, err := stringParam(params, "mode", BLEND_NORMAL)
	if err != nil {
		return nil, err
	}
	alpha, err := floatParam(params, "alpha", 0.5)
	if err != nil {
		return nil, err
	}
	return NewBlend(name, mode, alpha)
}

func (n *Blend) Mode() string   { return n.mode }
func (n *Blend) Alpha() float64 { return n.alpha }

func (n *Blend) InputCount() int  { return 2 }
func (n *Blend) OutputCount() int { return 1 }

func (n *Blend) InputName(i int) string {
	switch i {
	case 0:
		return "Base Image"
	case 1:
		return "Blend Image"
	}
	return ""
}

func (n *Blend) OutputName(i int) string {
	if i == 0 {
		return "Blended Image"
	}
	return ""
}

func (n *Blend) Ready(in node.Inputs) bool {
	return node.AllWired(n, in)
}

func (n *Blend) Process(in node.Inputs) error {
	base := in.Value(0)
	blend := in.Value(1)
	if base.IsEmpty() || blend.IsEmpty() {
		return node.ErrEmptyInput
	}
	if !base.SameShape(blend) {
		return ErrShapeMismatch
	}

	out := image.New(base.Width, base.Height, base.Channels)
	for i := range base.Pix {
		a := float64(base.Pix[i])
		b := float64(blend.Pix[i])
		v := blendSample(n.mode, a, b)
		out.Pix[i] = image.ClampFloat((1-n.alpha)*a + n.alpha*v)
	}
	n.SetOutput(0, out)
	return nil
}

func blendSample(mode string, a, b float64) float64 {
	switch mode {
	case BLEND_NORMAL:
		return b
	case BLEND_ADD:
		return a + b
	case BLEND_MULTIPLY:
		return a * b / 255
	case BLEND_SCREEN:
		return 255 - (255-a)*(255-b)/255
	case BLEND_OVERLAY:
		if a < 128 {
			return 2 * a * b / 255
		}
		return 255 - 2*(255-a)*(255-b)/255
	case BLEND_DARKEN:
		if a < b {
			return a
		}
		return b
	case BLEND_LIGHTEN:
		if a > b {
			return a
		}
		return b
	case BLEND_DIFFERENCE:
		if a > b {
			return a - b
		}
		return b - a
	}
	return b
}
