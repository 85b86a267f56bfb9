// Copyright 2020, Square, Inc.

package nodes

import (
	"fmt"
	"math"

	"github.com/square/imageflow/image"
	"github.com/square/imageflow/node"
)

// Edge detection operators.
const (
	EDGE_SOBEL     = "sobel"
	EDGE_SCHARR    = "scharr"
	EDGE_LAPLACIAN = "laplacian"
	EDGE_CANNY     = "canny"
)

var edgeTypes = map[string]bool{
	EDGE_SOBEL:     true,
	EDGE_SCHARR:    true,
	EDGE_LAPLACIAN: true,
	EDGE_CANNY:     true,
}

var (
	sobelX = [][]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY = [][]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
	scharrX = [][]float64{
		{-3, 0, 3},
		{-10, 0, 10},
		{-3, 0, 3},
	}
	scharrY = [][]float64{
		{-3, -10, -3},
		{0, 0, 0},
		{3, 10, 3},
	}
	laplacian = [][]float64{
		{0, 1, 0},
		{1, -4, 1},
		{0, 1, 0},
	}
)

// EdgeDetect converts the input to grayscale and applies an edge operator:
// sobel or scharr gradient magnitude, a laplacian, or the canny detector
// (non-maximum suppression plus hysteresis between two thresholds).
type EdgeDetect struct {
	node.Base
	edgeType   string
	threshold1 float64 // canny: low threshold
	threshold2 float64 // canny: high threshold
	l2Gradient bool    // canny: L2 gradient magnitude instead of L1
}

func NewEdgeDetect(name, edgeType string) (*EdgeDetect, error) {
	if !edgeTypes[edgeType] {
		return nil, fmt.Errorf("unknown edge type %q", edgeType)
	}
	return &EdgeDetect{
		Base:       node.NewBase(name),
		edgeType:   edgeType,
		threshold1: 100,
		threshold2: 200,
	}, nil
}

func makeEdgeDetect(name string, params map[string]interface{}) (node.Node, error) {
	edgeType, err := stringParam(params, "type", EDGE_SOBEL)
	if err != nil {
		return nil, err
	}
	n, err := NewEdgeDetect(name, edgeType)
	if err != nil {
		return nil, err
	}
	threshold1, err := floatParam(params, "threshold1", n.threshold1)
	if err != nil {
		return nil, err
	}
	threshold2, err := floatParam(params, "threshold2", n.threshold2)
	if err != nil {
		return nil, err
	}
	l2, err := boolParam(params, "l2_gradient", false)
	if err != nil {
		return nil, err
	}
	if err := n.SetCannyParams(threshold1, threshold2, l2); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *EdgeDetect) EdgeType() string { return n.edgeType }

// SetCannyParams configures the canny detector's hysteresis thresholds and
// gradient norm.
func (n *EdgeDetect) SetCannyParams(threshold1, threshold2 float64, l2Gradient bool) error {
	if threshold1 < 0 || threshold2 < 0 {
		return fmt.Errorf("canny thresholds must be non-negative, got %f and %f", threshold1, threshold2)
	}
	n.threshold1 = threshold1
	n.threshold2 = threshold2
	n.l2Gradient = l2Gradient
	return nil
}

func (n *EdgeDetect) InputCount() int  { return 1 }
func (n *EdgeDetect) OutputCount() int { return 1 }

func (n *EdgeDetect) InputName(i int) string {
	if i == 0 {
		return "Image"
	}
	return ""
}

func (n *EdgeDetect) OutputName(i int) string {
	if i == 0 {
		return "Edge Image"
	}
	return ""
}

func (n *EdgeDetect) Ready(in node.Inputs) bool {
	return node.AllWired(n, in)
}

func (n *EdgeDetect) Process(in node.Inputs) error {
	src := in.Value(0)
	if src.IsEmpty() {
		return node.ErrEmptyInput
	}

	gray := src.ToGray()
	var out image.Image

	switch n.edgeType {
	case EDGE_SOBEL:
		out = gradientMagnitude(gray, sobelX, sobelY)
	case EDGE_SCHARR:
		out = gradientMagnitude(gray, scharrX, scharrY)
	case EDGE_LAPLACIAN:
		out = image.New(gray.Width, gray.Height, 1)
		for y := 0; y < gray.Height; y++ {
			for x := 0; x < gray.Width; x++ {
				v := applyKernelAt(gray, x, y, laplacian)
				out.Pix[y*gray.Width+x] = image.ClampFloat(math.Abs(v))
			}
		}
	case EDGE_CANNY:
		out = canny(gray, n.threshold1, n.threshold2, n.l2Gradient)
	}
	n.SetOutput(0, out)
	return nil
}

func gradientMagnitude(gray image.Image, kx, ky [][]float64) image.Image {
	out := image.New(gray.Width, gray.Height, 1)
	for y := 0; y < gray.Height; y++ {
		for x := 0; x < gray.Width; x++ {
			gx := applyKernelAt(gray, x, y, kx)
			gy := applyKernelAt(gray, x, y, ky)
			out.Pix[y*gray.Width+x] = image.ClampFloat(math.Sqrt(gx*gx + gy*gy))
		}
	}
	return out
}

// canny runs the classic pipeline on a grayscale image: sobel gradients,
// non-maximum suppression along the gradient direction, then hysteresis:
// pixels above the high threshold are edges, pixels between the thresholds
// are kept only when 8-connected to an edge. Output pixels are 255 or 0.
func canny(gray image.Image, threshold1, threshold2 float64, l2 bool) image.Image {
	w, h := gray.Width, gray.Height
	low, high := threshold1, threshold2
	if low > high {
		low, high = high, low
	}

	gx := make([]float64, w*h)
	gy := make([]float64, w*h)
	mag := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			gx[i] = applyKernelAt(gray, x, y, sobelX)
			gy[i] = applyKernelAt(gray, x, y, sobelY)
			if l2 {
				mag[i] = math.Sqrt(gx[i]*gx[i] + gy[i]*gy[i])
			} else {
				mag[i] = math.Abs(gx[i]) + math.Abs(gy[i])
			}
		}
	}

	// Non-maximum suppression: a pixel survives only if it is at least as
	// strong as both neighbors along its gradient direction.
	thin := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if mag[i] == 0 {
				continue
			}
			dx, dy := gradientStep(gx[i], gy[i])
			n1 := mag[clampIndex(y+dy, h)*w+clampIndex(x+dx, w)]
			n2 := mag[clampIndex(y-dy, h)*w+clampIndex(x-dx, w)]
			if mag[i] >= n1 && mag[i] >= n2 {
				thin[i] = mag[i]
			}
		}
	}

	// Hysteresis: seed from strong pixels, grow through weak ones.
	out := image.New(w, h, 1)
	var stack []int
	for i, v := range thin {
		if v >= high {
			out.Pix[i] = 255
			stack = append(stack, i)
		}
	}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%w, i/w
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := x+dx, y+dy
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				j := ny*w + nx
				if out.Pix[j] == 0 && thin[j] >= low {
					out.Pix[j] = 255
					stack = append(stack, j)
				}
			}
		}
	}
	return out
}

// gradientStep quantizes a gradient direction to one of the four axes
// (horizontal, vertical, two diagonals) as a unit step.
func gradientStep(gx, gy float64) (int, int) {
	angle := math.Atan2(gy, gx) * 180 / math.Pi
	if angle < 0 {
		angle += 180
	}
	switch {
	case angle < 22.5 || angle >= 157.5:
		return 1, 0
	case angle < 67.5:
		return 1, 1
	case angle < 112.5:
		return 0, 1
	default:
		return -1, 1
	}
}

// applyKernelAt applies a square kernel centered on (x, y) of a
// single-channel image with replicated borders.
func applyKernelAt(src image.Image, x, y int, kernel [][]float64) float64 {
	mid := len(kernel) / 2
	sum := 0.0
	for ky, row := range kernel {
		for kx, w := range row {
			sx := clampIndex(x+kx-mid, src.Width)
			sy := clampIndex(y+ky-mid, src.Height)
			sum += w * float64(src.Pix[sy*src.Width+sx])
		}
	}
	return sum
}
