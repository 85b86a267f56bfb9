// Copyright 2020, Square, Inc.

package nodes

import (
	"testing"
)

func TestEdgeDetectConstantImage(t *testing.T) {
	// No edges in a constant image.
	for _, edgeType := range []string{EDGE_SOBEL, EDGE_SCHARR, EDGE_LAPLACIAN, EDGE_CANNY} {
		n, err := NewEdgeDetect("e", edgeType)
		if err != nil {
			t.Fatal(err)
		}
		if err := n.Process(inputs(flat(4, 4, 3, 120))); err != nil {
			t.Fatal(err)
		}
		for i, v := range n.OutputValue(0).Pix {
			if v != 0 {
				t.Fatalf("type %s: sample %d = %d, expected 0", edgeType, i, v)
			}
		}
	}
}

func TestEdgeDetectFindsStep(t *testing.T) {
	// Vertical step edge: left half dark, right half bright.
	src := flat(4, 4, 1, 0)
	for y := 0; y < 4; y++ {
		src.Set(2, y, 0, 200)
		src.Set(3, y, 0, 200)
	}

	n, err := NewEdgeDetect("e", EDGE_SOBEL)
	if err != nil {
		t.Fatal(err)
	}
	if err := n.Process(inputs(src)); err != nil {
		t.Fatal(err)
	}

	out := n.OutputValue(0)
	if out.Channels != 1 {
		t.Fatalf("output has %d channels, expected 1", out.Channels)
	}
	// The edge column lights up, the flat interior does not.
	if out.At(1, 1, 0) == 0 && out.At(2, 1, 0) == 0 {
		t.Error("no response at the step edge")
	}
	if out.At(0, 1, 0) != 0 {
		t.Errorf("response %d in flat region, expected 0", out.At(0, 1, 0))
	}
}

func TestScharrFindsStep(t *testing.T) {
	src := flat(4, 4, 1, 0)
	for y := 0; y < 4; y++ {
		src.Set(2, y, 0, 200)
		src.Set(3, y, 0, 200)
	}

	n, err := NewEdgeDetect("e", EDGE_SCHARR)
	if err != nil {
		t.Fatal(err)
	}
	if err := n.Process(inputs(src)); err != nil {
		t.Fatal(err)
	}

	out := n.OutputValue(0)
	if out.At(1, 1, 0) == 0 && out.At(2, 1, 0) == 0 {
		t.Error("no response at the step edge")
	}
	if out.At(0, 1, 0) != 0 {
		t.Errorf("response %d in flat region, expected 0", out.At(0, 1, 0))
	}
}

func TestCannyBinaryOutput(t *testing.T) {
	// Vertical step: left half 0, right half 200. The edge columns light
	// up at 255, everything else stays 0; no intermediate values.
	src := flat(8, 8, 1, 0)
	for y := 0; y < 8; y++ {
		for x := 4; x < 8; x++ {
			src.Set(x, y, 0, 200)
		}
	}

	n, err := NewEdgeDetect("e", EDGE_CANNY)
	if err != nil {
		t.Fatal(err)
	}
	if err := n.Process(inputs(src)); err != nil {
		t.Fatal(err)
	}

	out := n.OutputValue(0)
	for i, v := range out.Pix {
		if v != 0 && v != 255 {
			t.Fatalf("sample %d = %d, expected 0 or 255", i, v)
		}
	}
	if out.At(3, 4, 0) != 255 && out.At(4, 4, 0) != 255 {
		t.Error("no edge marked at the step")
	}
	if out.At(0, 4, 0) != 0 || out.At(7, 4, 0) != 0 {
		t.Error("edge marked in flat region")
	}
}

func TestCannyThresholdsSuppress(t *testing.T) {
	// With the low/high thresholds above the step's gradient, nothing
	// survives hysteresis.
	src := flat(8, 8, 1, 0)
	for y := 0; y < 8; y++ {
		for x := 4; x < 8; x++ {
			src.Set(x, y, 0, 10)
		}
	}

	n, err := NewEdgeDetect("e", EDGE_CANNY)
	if err != nil {
		t.Fatal(err)
	}
	if err := n.SetCannyParams(500, 1000, false); err != nil {
		t.Fatal(err)
	}
	if err := n.Process(inputs(src)); err != nil {
		t.Fatal(err)
	}
	for i, v := range n.OutputValue(0).Pix {
		if v != 0 {
			t.Fatalf("sample %d = %d, expected full suppression", i, v)
		}
	}
}

func TestSetCannyParamsValidation(t *testing.T) {
	n, err := NewEdgeDetect("e", EDGE_CANNY)
	if err != nil {
		t.Fatal(err)
	}
	if err := n.SetCannyParams(-1, 200, false); err == nil {
		t.Error("negative threshold did not return an error")
	}
}

func TestEdgeDetectBadType(t *testing.T) {
	if _, err := NewEdgeDetect("e", "prewitt"); err == nil {
		t.Error("unknown edge type did not return an error")
	}
}
