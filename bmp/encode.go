// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package bmp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Encode writes pixels as an uncompressed bitmap to w: file header, info
// header, then the first width*height*(bitsPerPixel/8) bytes of pixels.
//
// The pixel rows are written as given. With the positive height stored in
// the info header, readers treat the first row as the bottom of the image.
func Encode(w io.Writer, pixels []byte, width, height, bitsPerPixel int) error {
	file, info, err := NewHeaders(width, height, bitsPerPixel)
	if err != nil {
		return err
	}
	size := int(info.SizeImage)
	if len(pixels) < size {
		return fmt.Errorf("%w: have %d bytes, need %d", ErrPixelDataSize, len(pixels), size)
	}
	if err := writeHeaders(w, file, info); err != nil {
		return err
	}
	if _, err := w.Write(pixels[:size]); err != nil {
		return fmt.Errorf("write pixel data: %w", err)
	}
	return nil
}

// WriteFile encodes pixels to the file at path, creating or truncating it.
// The parent directory must already exist.
//
// Argument errors are returned before the file is touched. Any failure to
// open, write, flush or close the file is reported as *IOError, and a
// partly written file is removed.
func WriteFile(path string, pixels []byte, width, height, bitsPerPixel int) (err error) {
	size, err := PixelDataSize(width, height, bitsPerPixel)
	if err != nil {
		return err
	}
	if len(pixels) < size {
		return fmt.Errorf("%w: have %d bytes, need %d", ErrPixelDataSize, len(pixels), size)
	}

	name := filepath.Clean(path)
	f, err := createFile(name)
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: unwrapPathError(err)}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &IOError{Op: "close", Path: path, Err: unwrapPathError(cerr)}
		}
		if err != nil {
			_ = os.Remove(name)
		}
	}()

	bw := bufio.NewWriterSize(f, HeaderSize+min(size, 1<<20))
	if err := Encode(bw, pixels, width, height, bitsPerPixel); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := bw.Flush(); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}

var createFile = os.Create

// unwrapPathError strips the *os.PathError wrapper so IOError does not
// repeat the path.
func unwrapPathError(err error) error {
	var pe *os.PathError
	if errors.As(err, &pe) {
		return pe.Err
	}
	return err
}
