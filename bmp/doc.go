// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package bmp writes uncompressed Windows bitmap files.
//
// A file is a 14-byte BITMAPFILEHEADER, a 40-byte BITMAPINFOHEADER and the
// raw pixel payload, all little endian with no padding between the parts:
//
//	offset  size  field
//	0       2     "BM"
//	2       4     file size (54 + payload)
//	6       2     reserved (0)
//	8       2     reserved (0)
//	10      4     pixel data offset (54)
//	14      4     info header size (40)
//	18      4     width
//	22      4     height (positive: bottom-up rows)
//	26      2     planes (1)
//	28      2     bits per pixel
//	30      4     compression (0)
//	34      4     payload size
//	38      16    resolution and palette counts (0)
//
// The payload size is height*width*(bitsPerPixel/8). Rows are not padded,
// so callers writing 8, 16 or 24 bits per pixel should use widths whose row
// length is a multiple of four bytes if strict readers must accept the file.
// 32 bits per pixel is always aligned.
//
// Example:
//
//	err := bmp.WriteFile("imgout/image0.bmp", buf.Pix, buf.Width, buf.Height, 32)
//	if errors.Is(err, bmp.ErrIO) {
//	    // directory missing or not writable
//	}
package bmp
