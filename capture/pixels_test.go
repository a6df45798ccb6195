// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package capture

import (
	"bytes"
	"testing"
)

func TestFlipRows(t *testing.T) {
	tests := []struct {
		name   string
		in     []byte
		stride int
		height int
		want   []byte
	}{
		{"single row", []byte{1, 2}, 2, 1, []byte{1, 2}},
		{"two rows", []byte{1, 2, 3, 4}, 2, 2, []byte{3, 4, 1, 2}},
		{"three rows", []byte{1, 2, 3, 4, 5, 6}, 2, 3, []byte{5, 6, 3, 4, 1, 2}},
		{"four rows", []byte{1, 2, 3, 4}, 1, 4, []byte{4, 3, 2, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := append([]byte(nil), tt.in...)
			flipRows(got, tt.stride, tt.height)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("flipRows() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPixelBufferGeometry(t *testing.T) {
	b := &PixelBuffer{Width: 5, Height: 3, Pix: make([]byte, 60)}
	if got := b.Stride(); got != 20 {
		t.Errorf("Stride() = %d, want 20", got)
	}
	if got := b.Len(); got != 60 {
		t.Errorf("Len() = %d, want 60", got)
	}
	if got := b.BGRAAt(-1, 0); got != ([4]byte{}) {
		t.Errorf("BGRAAt(-1, 0) = %v, want zero", got)
	}
	if got := b.BGRAAt(5, 0); got != ([4]byte{}) {
		t.Errorf("BGRAAt(5, 0) = %v, want zero", got)
	}
}

func TestLimitedAllocator(t *testing.T) {
	alloc := limitedAllocator(16)
	if b, err := alloc(16); err != nil || len(b) != 16 {
		t.Errorf("alloc(16) = %d bytes, %v; want 16 bytes, nil", len(b), err)
	}
	if _, err := alloc(17); err == nil {
		t.Error("alloc(17) error = nil, want limit error")
	}
	if _, err := alloc(-1); err == nil {
		t.Error("alloc(-1) error = nil, want error")
	}
}
