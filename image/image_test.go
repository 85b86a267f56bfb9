// Copyright 2020, Square, Inc.

package image

import (
	"testing"

	"github.com/go-test/deep"
)

func TestNew(t *testing.T) {
	m := New(4, 3, 3)
	if m.IsEmpty() {
		t.Error("New(4, 3, 3) is empty, expected a valid image")
	}
	if len(m.Pix) != 4*3*3 {
		t.Errorf("got %d samples, expected %d", len(m.Pix), 4*3*3)
	}

	// Invalid dimensions give the empty image.
	bad := []Image{
		New(0, 3, 3),
		New(4, -1, 3),
		New(4, 3, 0),
		New(4, 3, 5),
	}
	for i, m := range bad {
		if !m.IsEmpty() {
			t.Errorf("bad image %d is not empty", i)
		}
	}
}

func TestZeroValueIsEmpty(t *testing.T) {
	var m Image
	if !m.IsEmpty() {
		t.Error("zero value image is not empty")
	}
	if !m.Clone().IsEmpty() {
		t.Error("clone of empty image is not empty")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	m := New(2, 2, 1)
	m.Set(0, 0, 0, 9)

	c := m.Clone()
	if diff := deep.Equal(m, c); diff != nil {
		t.Error(diff)
	}

	c.Set(0, 0, 0, 100)
	if m.At(0, 0, 0) != 9 {
		t.Errorf("mutating clone changed original: got %d, expected 9", m.At(0, 0, 0))
	}
}

func TestAtSetOutOfRange(t *testing.T) {
	m := New(2, 2, 1)
	if v := m.At(5, 0, 0); v != 0 {
		t.Errorf("out-of-range At = %d, expected 0", v)
	}
	m.Set(5, 0, 0, 7) // no-op, must not panic
	m.Set(0, 0, 3, 7)
}

func TestSplitMerge(t *testing.T) {
	m := New(2, 1, 3)
	// pixel 0: B=10 G=20 R=30, pixel 1: B=40 G=50 R=60
	copy(m.Pix, []uint8{10, 20, 30, 40, 50, 60})

	chans := m.Split()
	if len(chans) != 3 {
		t.Fatalf("got %d channels, expected 3", len(chans))
	}
	if diff := deep.Equal(chans[0].Pix, []uint8{10, 40}); diff != nil {
		t.Error(diff)
	}
	if diff := deep.Equal(chans[2].Pix, []uint8{30, 60}); diff != nil {
		t.Error(diff)
	}

	back, err := Merge(chans)
	if err != nil {
		t.Fatal(err)
	}
	if diff := deep.Equal(m, back); diff != nil {
		t.Error(diff)
	}
}

func TestMergeErrors(t *testing.T) {
	if _, err := Merge(nil); err == nil {
		t.Error("Merge(nil) did not return an error")
	}
	if _, err := Merge([]Image{New(2, 2, 3)}); err == nil {
		t.Error("merging a multi-channel image did not return an error")
	}
	if _, err := Merge([]Image{New(2, 2, 1), New(3, 2, 1)}); err == nil {
		t.Error("merging mismatched dimensions did not return an error")
	}
}

func TestToGray(t *testing.T) {
	m := New(1, 1, 3)
	copy(m.Pix, []uint8{100, 150, 200}) // B, G, R

	gray := m.ToGray()
	if gray.Channels != 1 {
		t.Fatalf("got %d channels, expected 1", gray.Channels)
	}
	// 0.114*100 + 0.587*150 + 0.299*200 = 159.25 -> 159
	if gray.Pix[0] != 159 {
		t.Errorf("gray = %d, expected 159", gray.Pix[0])
	}

	// Single-channel input is returned as-is.
	g1 := New(1, 1, 1)
	g1.Pix[0] = 42
	if v := g1.ToGray().Pix[0]; v != 42 {
		t.Errorf("gray of gray = %d, expected 42", v)
	}
}

func TestClampFloat(t *testing.T) {
	cases := []struct {
		in  float64
		out uint8
	}{
		{-10, 0},
		{0, 0},
		{127.4, 127},
		{127.5, 128},
		{255, 255},
		{300, 255},
	}
	for _, c := range cases {
		if got := ClampFloat(c.in); got != c.out {
			t.Errorf("ClampFloat(%f) = %d, expected %d", c.in, got, c.out)
		}
	}
}

func TestSameShape(t *testing.T) {
	a := New(4, 3, 3)
	if !a.SameShape(New(4, 3, 3)) {
		t.Error("identical shapes reported as different")
	}
	if a.SameShape(New(4, 3, 1)) {
		t.Error("different channel counts reported as same shape")
	}
}
