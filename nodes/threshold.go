// Copyright 2020, Square, Inc.

package nodes

import (
	"fmt"

	"github.com/square/imageflow/image"
	"github.com/square/imageflow/node"
)

// Threshold modes.
const (
	THRESH_BINARY            = "binary"     // v > thresh ? max : 0
	THRESH_BINARY_INV        = "binary-inv" // v > thresh ? 0 : max
	THRESH_TRUNC             = "trunc"      // v > thresh ? thresh : v
	THRESH_TOZERO            = "tozero"     // v > thresh ? v : 0
	THRESH_TOZERO_INV        = "tozero-inv" // v > thresh ? 0 : v
	THRESH_OTSU              = "otsu"       // binary with the level picked from the histogram
	THRESH_ADAPTIVE_MEAN     = "adaptive-mean"
	THRESH_ADAPTIVE_GAUSSIAN = "adaptive-gaussian"
)

var threshModes = map[string]bool{
	THRESH_BINARY:            true,
	THRESH_BINARY_INV:        true,
	THRESH_TRUNC:             true,
	THRESH_TOZERO:            true,
	THRESH_TOZERO_INV:        true,
	THRESH_OTSU:              true,
	THRESH_ADAPTIVE_MEAN:     true,
	THRESH_ADAPTIVE_GAUSSIAN: true,
}

// Threshold converts the input to grayscale and thresholds it, producing a
// single-channel image. Fixed-level modes compare against thresh; otsu
// derives the level from the image histogram; the adaptive modes compare
// each pixel against its local neighborhood mean (flat or gaussian
// weighted) minus the constant c.
type Threshold struct {
	node.Base
	mode      string
	thresh    uint8
	max       uint8
	blockSize int     // adaptive: odd neighborhood size
	c         float64 // adaptive: subtracted from the local mean
}

func NewThreshold(name, mode string, thresh, max uint8) (*Threshold, error) {
	if !threshModes[mode] {
		return nil, fmt.Errorf("unknown threshold mode %q", mode)
	}
	return &Threshold{
		Base:      node.NewBase(name),
		mode:      mode,
		thresh:    thresh,
		max:       max,
		blockSize: 11,
		c:         2,
	}, nil
}

func makeThreshold(name string, params map[string]interface{}) (node.Node, error) {
	mode, err := stringParam(params, "mode", THRESH_BINARY)
	if err != nil {
		return nil, err
	}
	thresh, err := intParam(params, "thresh", 128)
	if err != nil {
		return nil, err
	}
	max, err := intParam(params, "max", 255)
	if err != nil {
		return nil, err
	}
	if thresh < 0 || thresh > 255 || max < 0 || max > 255 {
		return nil, fmt.Errorf("thresh and max must be in [0, 255]")
	}
	n, err := NewThreshold(name, mode, uint8(thresh), uint8(max))
	if err != nil {
		return nil, err
	}
	blockSize, err := intParam(params, "block_size", n.blockSize)
	if err != nil {
		return nil, err
	}
	c, err := floatParam(params, "c", n.c)
	if err != nil {
		return nil, err
	}
	if err := n.SetAdaptiveParams(blockSize, c); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *Threshold) Mode() string { return n.mode }

// SetAdaptiveParams configures the adaptive modes' neighborhood size (odd,
// > 1) and mean offset.
func (n *Threshold) SetAdaptiveParams(blockSize int, c float64) error {
	if blockSize < 3 || blockSize%2 == 0 {
		return fmt.Errorf("block size must be odd and at least 3, got %d", blockSize)
	}
	n.blockSize = blockSize
	n.c = c
	return nil
}

func (n *Threshold) InputCount() int  { return 1 }
func (n *Threshold) OutputCount() int { return 1 }

func (n *Threshold) InputName(i int) string {
	if i == 0 {
		return "Image"
	}
	return ""
}

func (n *Threshold) OutputName(i int) string {
	if i == 0 {
		return "Thresholded Image"
	}
	return ""
}

func (n *Threshold) Ready(in node.Inputs) bool {
	return node.AllWired(n, in)
}

func (n *Threshold) Process(in node.Inputs) error {
	src := in.Value(0)
	if src.IsEmpty() {
		return node.ErrEmptyInput
	}

	gray := src.ToGray()

	switch n.mode {
	case THRESH_ADAPTIVE_MEAN:
		kernel := boxKernel(n.blockSize)
		n.SetOutput(0, n.adaptive(gray, convolve1D(convolve1D(gray, kernel, true), kernel, false)))
		return nil
	case THRESH_ADAPTIVE_GAUSSIAN:
		kernel := gaussianKernel(n.blockSize, 0)
		n.SetOutput(0, n.adaptive(gray, convolve1D(convolve1D(gray, kernel, true), kernel, false)))
		return nil
	}

	thresh := n.thresh
	if n.mode == THRESH_OTSU {
		thresh = otsuLevel(gray)
	}

	out := image.New(gray.Width, gray.Height, 1)
	for i, v := range gray.Pix {
		above := v > thresh
		switch n.mode {
		case THRESH_BINARY, THRESH_OTSU:
			if above {
				out.Pix[i] = n.max
			}
		case THRESH_BINARY_INV:
			if !above {
				out.Pix[i] = n.max
			}
		case THRESH_TRUNC:
			if above {
				out.Pix[i] = thresh
			} else {
				out.Pix[i] = v
			}
		case THRESH_TOZERO:
			if above {
				out.Pix[i] = v
			}
		case THRESH_TOZERO_INV:
			if !above {
				out.Pix[i] = v
			}
		}
	}
	n.SetOutput(0, out)
	return nil
}

// adaptive compares every pixel against its local mean minus c.
func (n *Threshold) adaptive(gray, localMean image.Image) image.Image {
	out := image.New(gray.Width, gray.Height, 1)
	for i, v := range gray.Pix {
		if float64(v) > float64(localMean.Pix[i])-n.c {
			out.Pix[i] = n.max
		}
	}
	return out
}

// otsuLevel picks the threshold that maximizes the between-class variance
// of the grayscale histogram.
func otsuLevel(gray image.Image) uint8 {
	var hist [256]int
	for _, v := range gray.Pix {
		hist[v]++
	}
	total := len(gray.Pix)

	sum := 0.0
	for t, count := range hist {
		sum += float64(t) * float64(count)
	}

	sumBelow := 0.0
	weightBelow := 0
	bestLevel := uint8(0)
	bestVariance := 0.0
	for t := 0; t < 256; t++ {
		weightBelow += hist[t]
		if weightBelow == 0 {
			continue
		}
		weightAbove := total - weightBelow
		if weightAbove == 0 {
			break
		}
		sumBelow += float64(t) * float64(hist[t])

		meanBelow := sumBelow / float64(weightBelow)
		meanAbove := (sum - sumBelow) / float64(weightAbove)
		d := meanBelow - meanAbove
		variance := float64(weightBelow) * float64(weightAbove) * d * d
		if variance > bestVariance {
			bestVariance = variance
			bestLevel = uint8(t)
		}
	}
	return bestLevel
}
