// Copyright 2020, Square, Inc.

package node

import (
	"testing"

	"github.com/go-test/deep"

	"github.com/square/imageflow/image"
)

// mockInputs serves fixed values, standing in for the graph's wiring.
type mockInputs struct {
	imgs map[int]image.Image
}

func (m mockInputs) Wired(i int) bool {
	_, ok := m.imgs[i]
	return ok
}

func (m mockInputs) Value(i int) image.Image {
	return m.imgs[i].Clone()
}

// mockNode is a minimal pass-through node for exercising Base and AllWired.
type mockNode struct {
	Base
	inputs int
}

func (n *mockNode) InputCount() int         { return n.inputs }
func (n *mockNode) OutputCount() int        { return 1 }
func (n *mockNode) InputName(i int) string  { return "In" }
func (n *mockNode) OutputName(i int) string { return "Out" }
func (n *mockNode) Ready(in Inputs) bool    { return AllWired(n, in) }
func (n *mockNode) Process(in Inputs) error {
	n.SetOutput(0, in.Value(0))
	return nil
}

func testImage() image.Image {
	m := image.New(2, 2, 3)
	for i := range m.Pix {
		m.Pix[i] = uint8(i)
	}
	return m
}

func TestBaseName(t *testing.T) {
	b := NewBase("adjust")
	if b.Name() != "adjust" {
		t.Errorf("Name = %s, expected adjust", b.Name())
	}
	b.SetName("adjust2")
	if b.Name() != "adjust2" {
		t.Errorf("Name = %s, expected adjust2", b.Name())
	}
}

func TestBaseOutputValue(t *testing.T) {
	b := NewBase("n")
	if !b.OutputValue(0).IsEmpty() {
		t.Error("OutputValue of a fresh Base is not empty")
	}

	img := testImage()
	b.SetOutput(0, img)

	got := b.OutputValue(0)
	if diff := deep.Equal(img, got); diff != nil {
		t.Error(diff)
	}

	// The returned value is a copy; mutating it must not reach the cache.
	got.Pix[0] = 200
	if v := b.OutputValue(0).Pix[0]; v != 0 {
		t.Errorf("cached output changed through returned copy: got %d, expected 0", v)
	}

	b.ResetOutputs()
	if !b.OutputValue(0).IsEmpty() {
		t.Error("OutputValue after ResetOutputs is not empty")
	}
}

func TestAllWired(t *testing.T) {
	n := &mockNode{Base: NewBase("n"), inputs: 2}

	in := mockInputs{imgs: map[int]image.Image{0: testImage()}}
	if AllWired(n, in) {
		t.Error("AllWired true with input 1 unwired")
	}

	in.imgs[1] = testImage()
	if !AllWired(n, in) {
		t.Error("AllWired false with all inputs wired")
	}
}

func TestSource(t *testing.T) {
	s := NewSource("input")
	if s.InputCount() != 0 || s.OutputCount() != 1 {
		t.Errorf("got %d in/%d out, expected 0 in/1 out", s.InputCount(), s.OutputCount())
	}
	if s.Ready(nil) {
		t.Error("source with no image reports ready")
	}
	if err := s.Process(nil); err != ErrNoImage {
		t.Errorf("Process with no image returned %v, expected ErrNoImage", err)
	}
	if err := s.SetImage(image.Image{}); err != ErrNoImage {
		t.Errorf("SetImage(empty) returned %v, expected ErrNoImage", err)
	}

	img := testImage()
	if err := s.SetImage(img); err != nil {
		t.Fatal(err)
	}
	if !s.Ready(nil) {
		t.Error("source with an image reports not ready")
	}

	// SetImage republishes to output 0 without an explicit Process call.
	if diff := deep.Equal(img, s.OutputValue(0)); diff != nil {
		t.Error(diff)
	}

	// The source keeps its own copy of the supplied image.
	img.Pix[0] = 99
	if v := s.Image().Pix[0]; v != 0 {
		t.Errorf("source image changed through caller's buffer: got %d, expected 0", v)
	}
}

func TestSink(t *testing.T) {
	s := NewSink("output")
	if s.InputCount() != 1 || s.OutputCount() != 0 {
		t.Errorf("got %d in/%d out, expected 1 in/0 out", s.InputCount(), s.OutputCount())
	}

	// Ready iff input 0 is wired, even if the value is still empty.
	if s.Ready(mockInputs{imgs: map[int]image.Image{}}) {
		t.Error("sink with unwired input reports ready")
	}
	if !s.Ready(mockInputs{imgs: map[int]image.Image{0: {}}}) {
		t.Error("sink with wired input reports not ready")
	}

	// Empty value at Process time is an error.
	if err := s.Process(mockInputs{imgs: map[int]image.Image{0: {}}}); err != ErrEmptyInput {
		t.Errorf("Process with empty input returned %v, expected ErrEmptyInput", err)
	}
	if s.HasImage() {
		t.Error("sink has an image after a failed Process")
	}

	img := testImage()
	if err := s.Process(mockInputs{imgs: map[int]image.Image{0: img}}); err != nil {
		t.Fatal(err)
	}
	if !s.HasImage() {
		t.Error("sink has no image after Process")
	}
	if diff := deep.Equal(img, s.Image()); diff != nil {
		t.Error(diff)
	}
}
