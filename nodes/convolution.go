// Copyright 2020, Square, Inc.

package nodes

import (
	"fmt"

	"github.com/square/imageflow/image"
	"github.com/square/imageflow/node"
)

// Convolution applies an arbitrary odd square kernel to every channel, with
// replicated borders. With normalize set, the kernel is divided by the sum
// of its coefficients (when that sum is non-zero), which keeps overall
// brightness constant for smoothing kernels.
type Convolution struct {
	node.Base
	kernel    [][]float64
	normalize bool
}

func NewConvolution(name string, kernel [][]float64, normalize bool) (*Convolution, error) {
	size := len(kernel)
	if size == 0 || size%2 == 0 {
		return nil, fmt.Errorf("kernel must be odd-sized and non-empty, got %d rows", size)
	}
	for i, row := range kernel {
		if len(row) != size {
			return nil, fmt.Errorf("kernel must be square: row %d has %d cells, want %d", i, len(row), size)
		}
	}
	return &Convolution{
		Base:      node.NewBase(name),
		kernel:    kernel,
		normalize: normalize,
	}, nil
}

func makeConvolution(name string, params map[string]interface{}) (node.Node, error) {
	kernel, err := kernelParam(params, "kernel")
	if err != nil {
		return nil, err
	}
	if kernel == nil {
		return nil, fmt.Errorf("convolution requires a kernel param")
	}
	normalize, err := boolParam(params, "normalize", false)
	if err != nil {
		return nil, err
	}
	return NewConvolution(name, kernel, normalize)
}

func (n *Convolution) Kernel() [][]float64 { return n.kernel }
func (n *Convolution) Normalize() bool     { return n.normalize }

func (n *Convolution) InputCount() int  { return 1 }
func (n *Convolution) OutputCount() int { return 1 }

func (n *Convolution) InputName(i int) string {
	if i == 0 {
		return "Image"
	}
	return ""
}

func (n *Convolution) OutputName(i int) string {
	if i == 0 {
		return "Filtered Image"
	}
	return ""
}

func (n *Convolution) Ready(in node.Inputs) bool {
	return node.AllWired(n, in)
}

func (n *Convolution) Process(in node.Inputs) error {
	src := in.Value(0)
	if src.IsEmpty() {
		return node.ErrEmptyInput
	}

	kernel := n.kernel
	if n.normalize {
		sum := 0.0
		for _, row := range kernel {
			for _, w := range row {
				sum += w
			}
		}
		if sum != 0 {
			norm := make([][]float64, len(kernel))
			for i, row := range kernel {
				norm[i] = make([]float64, len(row))
				for j, w := range row {
					norm[i][j] = w / sum
				}
			}
			kernel = norm
		}
	}

	mid := len(kernel) / 2
	out := image.New(src.Width, src.Height, src.Channels)
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			for c := 0; c < src.Channels; c++ {
				sum := 0.0
				for ky, row := range kernel {
					for kx, w := range row {
						sx := clampIndex(x+kx-mid, src.Width)
						sy := clampIndex(y+ky-mid, src.Height)
						sum += w * float64(src.At(sx, sy, c))
					}
				}
				out.Set(x, y, c, image.ClampFloat(sum))
			}
		}
	}
	n.SetOutput(0, out)
	return nil
}
