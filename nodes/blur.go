// Copyright 2020, Square, Inc.

package nodes

import (
	"fmt"
	"math"
	"sort"

	"github.com/square/imageflow/image"
	"github.com/square/imageflow/node"
)

// Blur types.
const (
	BLUR_BOX       = "box"
	BLUR_GAUSSIAN  = "gaussian"
	BLUR_MEDIAN    = "median"
	BLUR_BILATERAL = "bilateral"
)

var blurTypes = map[string]bool{
	BLUR_BOX:       true,
	BLUR_GAUSSIAN:  true,
	BLUR_MEDIAN:    true,
	BLUR_BILATERAL: true,
}

// Blur smooths the input: box, gaussian, median, or bilateral
// (edge-preserving). The kernel size must be odd. Edges are handled by
// replicating border pixels.
type Blur struct {
	node.Base
	blurType   string
	kernelSize int
	sigma      float64 // gaussian only; <= 0 derives sigma from kernel size
	sigmaColor float64 // bilateral: range falloff
	sigmaSpace float64 // bilateral: spatial falloff
}

func NewBlur(name, blurType string, kernelSize int, sigma float64) (*Blur, error) {
	if !blurTypes[blurType] {
		return nil, fmt.Errorf("unknown blur type %q", blurType)
	}
	if kernelSize < 1 || kernelSize%2 == 0 {
		return nil, fmt.Errorf("kernel size must be odd and positive, got %d", kernelSize)
	}
	return &Blur{
		Base:       node.NewBase(name),
		blurType:   blurType,
		kernelSize: kernelSize,
		sigma:      sigma,
		sigmaColor: 75,
		sigmaSpace: 75,
	}, nil
}

func makeBlur(name string, params map[string]interface{}) (node.Node, error) {
	blurType, err := stringParam(params, "type", BLUR_GAUSSIAN)
	if err != nil {
		return nil, err
	}
	kernelSize, err := intParam(params, "kernel_size", 5)
	if err != nil {
		return nil, err
	}
	sigma, err := floatParam(params, "sigma", 0)
	if err != nil {
		return nil, err
	}
	n, err := NewBlur(name, blurType, kernelSize, sigma)
	if err != nil {
		return nil, err
	}
	sigmaColor, err := floatParam(params, "sigma_color", n.sigmaColor)
	if err != nil {
		return nil, err
	}
	sigmaSpace, err := floatParam(params, "sigma_space", n.sigmaSpace)
	if err != nil {
		return nil, err
	}
	if err := n.SetBilateralParams(sigmaColor, sigmaSpace); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *Blur) BlurType() string { return n.blurType }
func (n *Blur) KernelSize() int  { return n.kernelSize }

// SetBilateralParams configures the bilateral filter's range (color) and
// spatial falloffs.
func (n *Blur) SetBilateralParams(sigmaColor, sigmaSpace float64) error {
	if sigmaColor <= 0 || sigmaSpace <= 0 {
		return fmt.Errorf("bilateral sigmas must be positive, got color %f space %f", sigmaColor, sigmaSpace)
	}
	n.sigmaColor = sigmaColor
	n.sigmaSpace = sigmaSpace
	return nil
}

func (n *Blur) InputCount() int  { return 1 }
func (n *Blur) OutputCount() int { return 1 }

func (n *Blur) InputName(i int) string {
	if i == 0 {
		return "Image"
	}
	return ""
}

func (n *Blur) OutputName(i int) string {
	if i == 0 {
		return "Blurred Image"
	}
	return ""
}

func (n *Blur) Ready(in node.Inputs) bool {
	return node.AllWired(n, in)
}

func (n *Blur) Process(in node.Inputs) error {
	src := in.Value(0)
	if src.IsEmpty() {
		return node.ErrEmptyInput
	}

	var out image.Image
	switch n.blurType {
	case BLUR_BOX:
		kernel := boxKernel(n.kernelSize)
		out = convolve1D(convolve1D(src, kernel, true), kernel, false)
	case BLUR_GAUSSIAN:
		kernel := gaussianKernel(n.kernelSize, n.sigma)
		out = convolve1D(convolve1D(src, kernel, true), kernel, false)
	case BLUR_MEDIAN:
		out = medianBlur(src, n.kernelSize)
	case BLUR_BILATERAL:
		out = bilateralFilter(src, n.kernelSize, n.sigmaColor, n.sigmaSpace)
	}
	n.SetOutput(0, out)
	return nil
}

func boxKernel(size int) []float64 {
	k := make([]float64, size)
	for i := range k {
		k[i] = 1.0 / float64(size)
	}
	return k
}

// gaussianKernel builds a normalized 1D gaussian. For sigma <= 0 the sigma
// is derived from the kernel size the same way OpenCV does.
func gaussianKernel(size int, sigma float64) []float64 {
	if sigma <= 0 {
		sigma = 0.3*(float64(size-1)*0.5-1) + 0.8
	}
	k := make([]float64, size)
	mid := size / 2
	sum := 0.0
	for i := range k {
		d := float64(i - mid)
		k[i] = math.Exp(-d * d / (2 * sigma * sigma))
		sum += k[i]
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

// convolve1D applies a 1D kernel along one axis with replicated borders.
func convolve1D(src image.Image, kernel []float64, horizontal bool) image.Image {
	out := image.New(src.Width, src.Height, src.Channels)
	mid := len(kernel) / 2
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			for c := 0; c < src.Channels; c++ {
				sum := 0.0
				for k, w := range kernel {
					sx, sy := x, y
					if horizontal {
						sx = clampIndex(x+k-mid, src.Width)
					} else {
						sy = clampIndex(y+k-mid, src.Height)
					}
					sum += w * float64(src.At(sx, sy, c))
				}
				out.Set(x, y, c, image.ClampFloat(sum))
			}
		}
	}
	return out
}

// medianBlur replaces every sample with the median of its kernel window,
// per channel, with replicated borders.
func medianBlur(src image.Image, size int) image.Image {
	out := image.New(src.Width, src.Height, src.Channels)
	mid := size / 2
	window := make([]int, 0, size*size)
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			for c := 0; c < src.Channels; c++ {
				window = window[:0]
				for ky := 0; ky < size; ky++ {
					for kx := 0; kx < size; kx++ {
						sx := clampIndex(x+kx-mid, src.Width)
						sy := clampIndex(y+ky-mid, src.Height)
						window = append(window, int(src.At(sx, sy, c)))
					}
				}
				sort.Ints(window)
				out.Set(x, y, c, uint8(window[len(window)/2]))
			}
		}
	}
	return out
}

// bilateralFilter smooths while preserving edges: each neighbor is weighted
// by spatial distance (sigmaSpace) and by color distance to the center
// pixel across all channels (sigmaColor), so pixels across a strong edge
// contribute little.
func bilateralFilter(src image.Image, size int, sigmaColor, sigmaSpace float64) image.Image {
	out := image.New(src.Width, src.Height, src.Channels)
	mid := size / 2
	spatial := make([]float64, size*size)
	for ky := 0; ky < size; ky++ {
		for kx := 0; kx < size; kx++ {
			dx := float64(kx - mid)
			dy := float64(ky - mid)
			spatial[ky*size+kx] = math.Exp(-(dx*dx + dy*dy) / (2 * sigmaSpace * sigmaSpace))
		}
	}

	sums := make([]float64, src.Channels)
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			for c := range sums {
				sums[c] = 0
			}
			weightSum := 0.0
			for ky := 0; ky < size; ky++ {
				for kx := 0; kx < size; kx++ {
					sx := clampIndex(x+kx-mid, src.Width)
					sy := clampIndex(y+ky-mid, src.Height)

					colorDist2 := 0.0
					for c := 0; c < src.Channels; c++ {
						d := float64(src.At(sx, sy, c)) - float64(src.At(x, y, c))
						colorDist2 += d * d
					}
					w := spatial[ky*size+kx] * math.Exp(-colorDist2/(2*sigmaColor*sigmaColor))

					for c := 0; c < src.Channels; c++ {
						sums[c] += w * float64(src.At(sx, sy, c))
					}
					weightSum += w
				}
			}
			for c := 0; c < src.Channels; c++ {
				out.Set(x, y, c, image.ClampFloat(sums[c]/weightSum))
			}
		}
	}
	return out
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
