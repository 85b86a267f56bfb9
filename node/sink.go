// Copyright 2020, Square, Inc.

package node

import (
	"github.com/square/imageflow/image"
)

// Sink terminates a graph: one input, zero outputs. Process copies the
// upstream value into retrievable state (not an output port, since it has
// none). A sink is ready iff its input is wired, independent of upstream
// readiness.
type Sink struct {
	Base
	img  image.Image
	path string // where Save writes, if configured
}

func NewSink(name string) *Sink {
	return &Sink{
		Base: NewBase(name),
	}
}

func (s *Sink) InputCount() int {
	return 1
}

func (s *Sink) OutputCount() int {
	return 0
}

func (s *Sink) InputName(i int) string {
	if i == 0 {
		return "Image"
	}
	return ""
}

func (s *Sink) OutputName(i int) string {
	return "" // no outputs
}

// Image returns a copy of the last received image.
func (s *Sink) Image() image.Image {
	return s.img.Clone()
}

// HasImage returns true if the sink has received a valid image.
func (s *Sink) HasImage() bool {
	return !s.img.IsEmpty()
}

// SetPath configures where Save writes the received image.
func (s *Sink) SetPath(path string) {
	s.path = path
}

func (s *Sink) Path() string {
	return s.path
}

// Save writes the received image to the configured path.
func (s *Sink) Save() error {
	return s.img.Save(s.path)
}

// SaveTo writes the received image to the given file.
func (s *Sink) SaveTo(path string) error {
	return s.img.Save(path)
}

// Ready requires only that input 0 is wired; whether the upstream node has
// produced a value is discovered at Process time.
func (s *Sink) Ready(in Inputs) bool {
	return in != nil && in.Wired(0)
}

// Process copies the upstream value into the sink's retrievable state.
func (s *Sink) Process(in Inputs) error {
	v := in.Value(0)
	if v.IsEmpty() {
		return ErrEmptyInput
	}
	s.img = v
	return nil
}
