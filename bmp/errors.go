// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package bmp

import (
	"errors"
	"fmt"
)

// Package errors.
var (
	// ErrInvalidDimensions is returned when width or height is not positive.
	ErrInvalidDimensions = errors.New("bmp: invalid dimensions")

	// ErrBitsPerPixel is returned for a bit depth that is not a whole number
	// of bytes in the supported 8..32 range.
	ErrBitsPerPixel = errors.New("bmp: unsupported bits per pixel")

	// ErrPixelDataSize is returned when the pixel slice is shorter than
	// width*height*(bitsPerPixel/8).
	ErrPixelDataSize = errors.New("bmp: pixel data shorter than image size")

	// ErrTooLarge is returned when the payload does not fit the 32-bit size
	// fields of the headers.
	ErrTooLarge = errors.New("bmp: image too large")

	// ErrNotBitmap is returned by ReadHeaders when the input does not start
	// with a valid bitmap header pair.
	ErrNotBitmap = errors.New("bmp: not a bitmap file")

	// ErrIO matches every *IOError through errors.Is.
	ErrIO = errors.New("bmp: i/o failure")
)

// IOError records a failed file operation on an output path.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("bmp: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Is reports whether target is ErrIO.
func (e *IOError) Is(target error) bool { return target == ErrIO }
