// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package bmp

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Header layout constants.
const (
	// FileHeaderSize is the encoded size of FileHeader.
	FileHeaderSize = 14

	// InfoHeaderSize is the encoded size of InfoHeader and the value of
	// its Size field.
	InfoHeaderSize = 40

	// HeaderSize is the combined header size and the pixel data offset.
	HeaderSize = FileHeaderSize + InfoHeaderSize

	// Signature is "BM" read as a little-endian uint16.
	Signature uint16 = 0x4D42

	// CompressionNone is BI_RGB.
	CompressionNone = 0
)

// The combined header must be exactly 54 bytes.
var (
	_ [HeaderSize - 54]struct{}
	_ [54 - HeaderSize]struct{}
)

// FileHeader is the 14-byte BITMAPFILEHEADER.
type FileHeader struct {
	Type      uint16 // Signature
	Size      uint32 // whole file in bytes
	Reserved1 uint16
	Reserved2 uint16
	OffBits   uint32 // offset of the pixel array
}

// InfoHeader is the 40-byte BITMAPINFOHEADER.
//
// A positive Height means rows are stored bottom-up.
type InfoHeader struct {
	Size          uint32
	Width         int32
	Height        int32
	Planes        uint16
	BitCount      uint16
	Compression   uint32
	SizeImage     uint32
	XPelsPerMeter int32
	YPelsPerMeter int32
	ClrUsed       uint32
	ClrImportant  uint32
}

// ValidateBitsPerPixel returns ErrBitsPerPixel unless bitsPerPixel is 8,
// 16, 24 or 32.
func ValidateBitsPerPixel(bitsPerPixel int) error {
	if bitsPerPixel%8 != 0 || bitsPerPixel < 8 || bitsPerPixel > 32 {
		return fmt.Errorf("%w: %d", ErrBitsPerPixel, bitsPerPixel)
	}
	return nil
}

// PixelDataSize returns height*width*(bitsPerPixel/8) after validating
// the arguments.
func PixelDataSize(width, height, bitsPerPixel int) (int, error) {
	if width <= 0 || height <= 0 {
		return 0, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if err := ValidateBitsPerPixel(bitsPerPixel); err != nil {
		return 0, err
	}
	if width > math.MaxInt32 || height > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %dx%d", ErrTooLarge, width, height)
	}
	size := uint64(height) * uint64(width) * uint64(bitsPerPixel/8)
	if size > math.MaxUint32-HeaderSize {
		return 0, fmt.Errorf("%w: %d payload bytes", ErrTooLarge, size)
	}
	return int(size), nil
}

// NewHeaders builds the file and info headers for an uncompressed
// bottom-up bitmap of the given size and depth.
func NewHeaders(width, height, bitsPerPixel int) (FileHeader, InfoHeader, error) {
	size, err := PixelDataSize(width, height, bitsPerPixel)
	if err != nil {
		return FileHeader{}, InfoHeader{}, err
	}
	//nolint:gosec // G115: bounds checked by PixelDataSize
	info := InfoHeader{
		Size:        InfoHeaderSize,
		Width:       int32(width),
		Height:      int32(height),
		Planes:      1,
		BitCount:    uint16(bitsPerPixel),
		Compression: CompressionNone,
		SizeImage:   uint32(size),
	}
	//nolint:gosec // G115: bounds checked by PixelDataSize
	file := FileHeader{
		Type:    Signature,
		Size:    uint32(HeaderSize + size),
		OffBits: HeaderSize,
	}
	return file, info, nil
}

// writeHeaders writes both headers back to back with no padding.
func writeHeaders(w io.Writer, file FileHeader, info InfoHeader) error {
	if err := binary.Write(w, binary.LittleEndian, &file); err != nil {
		return fmt.Errorf("write file header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, &info); err != nil {
		return fmt.Errorf("write info header: %w", err)
	}
	return nil
}

// ReadHeaders decodes the file and info headers from the start of r and
// checks the signature and header sizes.
func ReadHeaders(r io.Reader) (FileHeader, InfoHeader, error) {
	var file FileHeader
	var info InfoHeader
	if err := binary.Read(r, binary.LittleEndian, &file); err != nil {
		return file, info, fmt.Errorf("%w: read file header: %w", ErrNotBitmap, err)
	}
	if file.Type != Signature {
		return file, info, fmt.Errorf("%w: signature %#04x", ErrNotBitmap, file.Type)
	}
	if err := binary.Read(r, binary.LittleEndian, &info); err != nil {
		return file, info, fmt.Errorf("%w: read info header: %w", ErrNotBitmap, err)
	}
	if info.Size != InfoHeaderSize {
		return file, info, fmt.Errorf("%w: info header size %d", ErrNotBitmap, info.Size)
	}
	return file, info, nil
}
