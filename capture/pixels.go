// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package capture

import (
	"image"
	"image/color"
)

// BytesPerPixel is the size of one BGRA texel in a PixelBuffer.
const BytesPerPixel = 4

// PixelBuffer holds one readback: Width*Height BGRA pixels stored
// bottom-up, the first row being the bottom of the image. This is the row
// order of a bitmap with positive height, so Pix can be handed to the
// encoder unchanged.
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []byte
}

// Stride returns the number of bytes per row.
func (b *PixelBuffer) Stride() int {
	return b.Width * BytesPerPixel
}

// Len returns the payload size in bytes.
func (b *PixelBuffer) Len() int {
	return b.Stride() * b.Height
}

// BGRAAt returns the pixel at (x, y) in image coordinates (origin top-left).
// Out of range coordinates return the zero color.
func (b *PixelBuffer) BGRAAt(x, y int) [4]byte {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		return [4]byte{}
	}
	i := (b.Height-1-y)*b.Stride() + x*BytesPerPixel
	return [4]byte{b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3]}
}

// Image converts the buffer to a top-down *image.NRGBA.
func (b *PixelBuffer) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			p := b.BGRAAt(x, y)
			img.SetNRGBA(x, y, color.NRGBA{R: p[2], G: p[1], B: p[0], A: p[3]})
		}
	}
	return img
}

// flipRows reverses the row order of pix in place.
func flipRows(pix []byte, stride, height int) {
	if height < 2 {
		return
	}
	tmp := make([]byte, stride)
	for top, bottom := 0, height-1; top < bottom; top, bottom = top+1, bottom-1 {
		a := pix[top*stride : (top+1)*stride]
		b := pix[bottom*stride : (bottom+1)*stride]
		copy(tmp, a)
		copy(a, b)
		copy(b, tmp)
	}
}
