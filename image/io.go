// Copyright 2020, Square, Inc.

package image

import (
	"fmt"
	goimage "image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
)

const jpegQuality = 95

// Load reads a PNG or JPEG file into an Image. Grayscale files produce a
// single-channel image; everything else produces 3-channel BGR.
func Load(path string) (Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return Image{}, err
	}
	defer f.Close()

	src, _, err := goimage.Decode(f)
	if err != nil {
		return Image{}, fmt.Errorf("decode %s: %s", path, err)
	}
	return FromGoImage(src), nil
}

// Save writes the image to a PNG or JPEG file based on the file extension.
func (m Image) Save(path string) error {
	if m.IsEmpty() {
		return fmt.Errorf("save %s: image is empty", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dst := m.ToGoImage()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		err = png.Encode(f, dst)
	case ".jpg", ".jpeg":
		err = jpeg.Encode(f, dst, &jpeg.Options{Quality: jpegQuality})
	default:
		err = fmt.Errorf("save %s: unsupported extension (want .png, .jpg, or .jpeg)", path)
	}
	return err
}

// FromGoImage converts a standard library image. *image.Gray becomes a
// single-channel image; all other formats become 3-channel BGR.
func FromGoImage(src goimage.Image) Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return Image{}
	}

	if gray, ok := src.(*goimage.Gray); ok {
		out := New(w, h, 1)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				out.Pix[y*w+x] = gray.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y
			}
		}
		return out
	}

	out := New(w, h, 3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := src.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			i := (y*w + x) * 3
			out.Pix[i] = uint8(b >> 8)
			out.Pix[i+1] = uint8(g >> 8)
			out.Pix[i+2] = uint8(r >> 8)
		}
	}
	return out
}

// ToGoImage converts to a standard library image: *image.Gray for
// single-channel data, *image.RGBA otherwise.
func (m Image) ToGoImage() goimage.Image {
	if m.IsEmpty() {
		return goimage.NewRGBA(goimage.Rect(0, 0, 0, 0))
	}

	if m.Channels == 1 {
		out := goimage.NewGray(goimage.Rect(0, 0, m.Width, m.Height))
		for y := 0; y < m.Height; y++ {
			for x := 0; x < m.Width; x++ {
				out.SetGray(x, y, color.Gray{Y: m.Pix[y*m.Width+x]})
			}
		}
		return out
	}

	out := goimage.NewRGBA(goimage.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			b := m.At(x, y, 0)
			g := b
			r := b
			a := uint8(255)
			if m.Channels >= 3 {
				g = m.At(x, y, 1)
				r = m.At(x, y, 2)
			}
			if m.Channels == 4 {
				a = m.At(x, y, 3)
			}
			out.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: a})
		}
	}
	return out
}
