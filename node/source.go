// Copyright 2020, Square, Inc.

package node

import (
	"github.com/square/imageflow/image"
)

// Source feeds an externally supplied image into a graph: zero inputs, one
// output. It is ready as soon as it holds a valid image, regardless of
// wiring, and Process republishes that image unchanged to output 0.
type Source struct {
	Base
	img  image.Image
	path string // file the image was loaded from, if any
}

func NewSource(name string) *Source {
	return &Source{
		Base: NewBase(name),
	}
}

func (s *Source) InputCount() int {
	return 0
}

func (s *Source) OutputCount() int {
	return 1
}

func (s *Source) InputName(i int) string {
	return "" // no inputs
}

func (s *Source) OutputName(i int) string {
	if i == 0 {
		return "Image"
	}
	return ""
}

// SetImage supplies the image directly. Empty images are rejected. The
// output slot is republished immediately so downstream nodes see the new
// value even without a fresh Process call.
func (s *Source) SetImage(img image.Image) error {
	if img.IsEmpty() {
		return ErrNoImage
	}
	s.img = img.Clone()
	s.path = ""
	return s.Process(nil)
}

// Load reads the image from a PNG or JPEG file and republishes it.
func (s *Source) Load(path string) error {
	img, err := image.Load(path)
	if err != nil {
		return err
	}
	s.img = img
	s.path = path
	return s.Process(nil)
}

// Image returns a copy of the currently held image.
func (s *Source) Image() image.Image {
	return s.img.Clone()
}

// HasImage returns true if the source holds a valid image.
func (s *Source) HasImage() bool {
	return !s.img.IsEmpty()
}

// Path returns the file the image was loaded from, or "" if the image was
// set directly.
func (s *Source) Path() string {
	return s.path
}

// Ready ignores wiring: a source is ready iff it holds an image.
func (s *Source) Ready(in Inputs) bool {
	return s.HasImage()
}

// Process republishes the held image to output 0. The Inputs argument is
// unused (a source has no inputs) and may be nil.
func (s *Source) Process(in Inputs) error {
	if !s.HasImage() {
		return ErrNoImage
	}
	s.SetOutput(0, s.img.Clone())
	return nil
}
