// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"bytes"
	"testing"
)

func TestAlignedBytesPerRow(t *testing.T) {
	tests := []struct {
		width uint32
		want  uint32
	}{
		{1, 256},
		{63, 256},
		{64, 256},
		{65, 512},
		{800, 3328},
		{1920, 7680},
	}
	for _, tt := range tests {
		if got := alignedBytesPerRow(tt.width); got != tt.want {
			t.Errorf("alignedBytesPerRow(%d) = %d, want %d", tt.width, got, tt.want)
		}
	}
}

func TestStripRowPadding(t *testing.T) {
	tests := []struct {
		name     string
		src      []byte
		rowBytes int
		pitch    int
		height   int
		want     []byte
	}{
		{
			name: "no padding", src: []byte{1, 2, 3, 4},
			rowBytes: 2, pitch: 2, height: 2,
			want: []byte{1, 2, 3, 4},
		},
		{
			name: "padded rows", src: []byte{1, 2, 0, 0, 3, 4, 0, 0},
			rowBytes: 2, pitch: 4, height: 2,
			want: []byte{1, 2, 3, 4},
		},
		{
			name: "single row", src: []byte{9, 8, 7, 0, 0},
			rowBytes: 3, pitch: 5, height: 1,
			want: []byte{9, 8, 7},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := make([]byte, tt.rowBytes*tt.height)
			stripRowPadding(got, tt.src, tt.rowBytes, tt.pitch, tt.height)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("stripRowPadding() = %v, want %v", got, tt.want)
			}
		})
	}
}
