// Copyright 2020, Square, Inc.

package nodes

import (
	"github.com/square/imageflow/image"
	"github.com/square/imageflow/node"
)

// BrightnessContrast scales and offsets every sample: out = alpha*in + beta,
// clamped to [0, 255]. Alpha controls contrast, beta brightness.
type BrightnessContrast struct {
	node.Base
	alpha float64
	beta  float64
}

func NewBrightnessContrast(name string, alpha, beta float64) *BrightnessContrast {
	return &BrightnessContrast{
		Base:  node.NewBase(name),
		alpha: alpha,
		beta:  beta,
	}
}

func makeBrightnessContrast(name string, params map[string]interface{}) (node.Node, error) {
	alpha, err := floatParam(params, "alpha", 1.0)
	if err != nil {
		return nil, err
	}
	beta, err := floatParam(params, "beta", 0.0)
	if err != nil {
		return nil, err
	}
	return NewBrightnessContrast(name, alpha, beta), nil
}

func (n *BrightnessContrast) SetParameters(alpha, beta float64) {
	n.alpha = alpha
	n.beta = beta
}

func (n *BrightnessContrast) Alpha() float64 { return n.alpha }
func (n *BrightnessContrast) Beta() float64  { return n.beta }

func (n *BrightnessContrast) InputCount() int  { return 1 }
func (n *BrightnessContrast) OutputCount() int { return 1 }

func (n *BrightnessContrast) InputName(i int) string {
	if i == 0 {
		return "Image"
	}
	return ""
}

func (n *BrightnessContrast) OutputName(i int) string {
	if i == 0 {
		return "Adjusted Image"
	}
	return ""
}

func (n *BrightnessContrast) Ready(in node.Inputs) bool {
	return node.AllWired(n, in)
}

func (n *BrightnessContrast) Process(in node.Inputs) error {
	src := in.Value(0)
	if src.IsEmpty() {
		return node.ErrEmptyInput
	}

	out := image.New(src.Width, src.Height, src.Channels)
	for i, p := range src.Pix {
		out.Pix[i] = image.ClampFloat(n.alpha*float64(p) + n.beta)
	}
	n.SetOutput(0, out)
	return nil
}
