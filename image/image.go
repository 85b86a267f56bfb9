// Copyright 2020, Square, Inc.

// Package image provides the pixel buffer that flows between nodes. An Image
// is a plain value: interleaved 8-bit samples, 1 to 4 channels, stored in BGR
// channel order. The zero value is the empty image, which nodes use as the
// "no output yet" sentinel.
package image

import (
	"fmt"
)

// Gray conversion weights for BGR data (ITU-R BT.601).
const (
	weightB = 0.114
	weightG = 0.587
	weightR = 0.299
)

// Image is an interleaved 8-bit pixel buffer. Pix holds Width*Height*Channels
// samples in row-major order, BGR(A) within a pixel. An Image with no pixels
// is "empty".
type Image struct {
	Width    int
	Height   int
	Channels int
	Pix      []uint8
}

// New creates a zeroed image with the given dimensions. It returns the empty
// image if any dimension is invalid (channels must be 1-4).
func New(width, height, channels int) Image {
	if width <= 0 || height <= 0 || channels < 1 || channels > 4 {
		return Image{}
	}
	return Image{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]uint8, width*height*channels),
	}
}

// IsEmpty returns true if the image holds no pixel data.
func (m Image) IsEmpty() bool {
	return len(m.Pix) == 0 || m.Width <= 0 || m.Height <= 0 || m.Channels <= 0
}

// Clone returns a deep copy. Mutating the copy never affects the original,
// which is what lets nodes hand out their cached outputs safely.
func (m Image) Clone() Image {
	if m.IsEmpty() {
		return Image{}
	}
	pix := make([]uint8, len(m.Pix))
	copy(pix, m.Pix)
	return Image{
		Width:    m.Width,
		Height:   m.Height,
		Channels: m.Channels,
		Pix:      pix,
	}
}

// At returns the sample at (x, y) in channel c. Out-of-range coordinates
// return 0.
func (m Image) At(x, y, c int) uint8 {
	if x < 0 || x >= m.Width || y < 0 || y >= m.Height || c < 0 || c >= m.Channels {
		return 0
	}
	return m.Pix[(y*m.Width+x)*m.Channels+c]
}

// Set writes the sample at (x, y) in channel c. Out-of-range coordinates are
// ignored.
func (m Image) Set(x, y, c int, v uint8) {
	if x < 0 || x >= m.Width || y < 0 || y >= m.Height || c < 0 || c >= m.Channels {
		return
	}
	m.Pix[(y*m.Width+x)*m.Channels+c] = v
}

// SameShape returns true if both images have identical dimensions and
// channel counts.
func (m Image) SameShape(other Image) bool {
	return m.Width == other.Width && m.Height == other.Height && m.Channels == other.Channels
}

// Split returns one single-channel image per channel, in channel order
// (B, G, R[, A] for color images). An empty image splits into nothing.
func (m Image) Split() []Image {
	if m.IsEmpty() {
		return nil
	}
	chans := make([]Image, m.Channels)
	for c := 0; c < m.Channels; c++ {
		chans[c] = New(m.Width, m.Height, 1)
	}
	n := m.Width * m.Height
	for i := 0; i < n; i++ {
		for c := 0; c < m.Channels; c++ {
			chans[c].Pix[i] = m.Pix[i*m.Channels+c]
		}
	}
	return chans
}

// Merge combines single-channel images of identical dimensions into one
// interleaved image.
func Merge(channels []Image) (Image, error) {
	if len(channels) < 1 || len(channels) > 4 {
		return Image{}, fmt.Errorf("merge: need 1-4 channels, got %d", len(channels))
	}
	first := channels[0]
	if first.IsEmpty() {
		return Image{}, fmt.Errorf("merge: channel 0 is empty")
	}
	for i, ch := range channels {
		if ch.Channels != 1 {
			return Image{}, fmt.Errorf("merge: channel %d has %d channels, want 1", i, ch.Channels)
		}
		if ch.Width != first.Width || ch.Height != first.Height {
			return Image{}, fmt.Errorf("merge: channel %d is %dx%d, want %dx%d", i, ch.Width, ch.Height, first.Width, first.Height)
		}
	}
	out := New(first.Width, first.Height, len(channels))
	n := first.Width * first.Height
	for i := 0; i < n; i++ {
		for c := range channels {
			out.Pix[i*len(channels)+c] = channels[c].Pix[i]
		}
	}
	return out, nil
}

// ToGray returns a single-channel copy. Color images are converted with
// BT.601 weights; single-channel images are cloned. Alpha is ignored.
func (m Image) ToGray() Image {
	if m.IsEmpty() {
		return Image{}
	}
	if m.Channels == 1 {
		return m.Clone()
	}
	out := New(m.Width, m.Height, 1)
	n := m.Width * m.Height
	for i := 0; i < n; i++ {
		b := float64(m.Pix[i*m.Channels])
		g := b
		r := b
		if m.Channels >= 3 {
			g = float64(m.Pix[i*m.Channels+1])
			r = float64(m.Pix[i*m.Channels+2])
		}
		out.Pix[i] = ClampFloat(weightB*b + weightG*g + weightR*r)
	}
	return out
}

// ClampFloat rounds v to the nearest integer and clamps it to [0, 255].
func ClampFloat(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
