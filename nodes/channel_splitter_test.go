// Copyright 2020, Square, Inc.

package nodes

import (
	"testing"

	"github.com/go-test/deep"

	"github.com/square/imageflow/image"
)

func TestChannelSplitterDefaultOutputs(t *testing.T) {
	n := NewChannelSplitter("split")
	if n.OutputCount() != 3 {
		t.Errorf("fresh splitter has %d outputs, expected 3", n.OutputCount())
	}
	if n.ChannelCount() != 0 {
		t.Errorf("fresh splitter channel count = %d, expected 0", n.ChannelCount())
	}
}

func TestChannelSplitterProcess(t *testing.T) {
	src := image.New(2, 1, 3)
	copy(src.Pix, []uint8{10, 20, 30, 40, 50, 60})

	n := NewChannelSplitter("split")
	if err := n.Process(inputs(src)); err != nil {
		t.Fatal(err)
	}
	if n.OutputCount() != 3 {
		t.Errorf("got %d outputs, expected 3", n.OutputCount())
	}

	blue := n.OutputValue(0)
	if diff := deep.Equal([]uint8{10, 40}, blue.Pix); diff != nil {
		t.Error(diff)
	}
	red := n.OutputValue(2)
	if diff := deep.Equal([]uint8{30, 60}, red.Pix); diff != nil {
		t.Error(diff)
	}
}

func TestChannelSplitterOutputCountTracksInput(t *testing.T) {
	n := NewChannelSplitter("split")

	if err := n.Process(inputs(flat(2, 2, 4, 7))); err != nil {
		t.Fatal(err)
	}
	if n.OutputCount() != 4 {
		t.Errorf("got %d outputs after 4-channel input, expected 4", n.OutputCount())
	}
	if n.OutputName(3) != "Channel 3" {
		t.Errorf("OutputName(3) = %q, expected Channel 3", n.OutputName(3))
	}

	// Shrinking drops the stale high slot.
	if err := n.Process(inputs(flat(2, 2, 1, 7))); err != nil {
		t.Fatal(err)
	}
	if n.OutputCount() != 1 {
		t.Errorf("got %d outputs after 1-channel input, expected 1", n.OutputCount())
	}
	if !n.OutputValue(3).IsEmpty() {
		t.Error("stale output slot survived a shrink")
	}
}

func TestChannelSplitterIdempotent(t *testing.T) {
	src := image.New(2, 2, 3)
	for i := range src.Pix {
		src.Pix[i] = uint8(i * 7)
	}

	n := NewChannelSplitter("split")
	if err := n.Process(inputs(src)); err != nil {
		t.Fatal(err)
	}
	first := make([]image.Image, n.OutputCount())
	for i := range first {
		first[i] = n.OutputValue(i)
	}

	// A second Process with the same input must reproduce every output;
	// the ResetOutputs pass in between must not leak or drop slots.
	if err := n.Process(inputs(src)); err != nil {
		t.Fatal(err)
	}
	if n.OutputCount() != len(first) {
		t.Fatalf("output count changed from %d to %d", len(first), n.OutputCount())
	}
	for i := range first {
		if diff := deep.Equal(first[i], n.OutputValue(i)); diff != nil {
			t.Errorf("output %d: %v", i, diff)
		}
	}
}

func TestChannelSplitterPortNames(t *testing.T) {
	n := NewChannelSplitter("split")
	expected := []string{"Blue Channel", "Green Channel", "Red Channel"}
	for i, name := range expected {
		if n.OutputName(i) != name {
			t.Errorf("OutputName(%d) = %q, expected %q", i, n.OutputName(i), name)
		}
	}
	if n.OutputName(5) != "" {
		t.Errorf("out-of-range OutputName = %q, expected empty", n.OutputName(5))
	}
}
