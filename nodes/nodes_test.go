// Copyright 2020, Square, Inc.

package nodes

import (
	"github.com/square/imageflow/image"
)

// testInputs serves fixed values, standing in for the graph's wiring.
type testInputs struct {
	imgs map[int]image.Image
}

func inputs(imgs ...image.Image) testInputs {
	in := testInputs{imgs: map[int]image.Image{}}
	for i, img := range imgs {
		in.imgs[i] = img
	}
	return in
}

func (t testInputs) Wired(i int) bool {
	_, ok := t.imgs[i]
	return ok
}

func (t testInputs) Value(i int) image.Image {
	return t.imgs[i].Clone()
}

// flat returns a constant image filled with v.
func flat(w, h, channels int, v uint8) image.Image {
	m := image.New(w, h, channels)
	for i := range m.Pix {
		m.Pix[i] = v
	}
	return m
}
