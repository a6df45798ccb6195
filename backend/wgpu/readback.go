// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// copyPitchAlignment is the row pitch alignment WebGPU requires for
// texture to buffer copies.
const copyPitchAlignment = 256

// alignedBytesPerRow rounds a row of width BGRA pixels up to the copy pitch.
func alignedBytesPerRow(width uint32) uint32 {
	return (width*4 + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
}

// stripRowPadding copies height rows of rowBytes each from the padded src
// (pitch bytes per row) into the tight dst.
func stripRowPadding(dst, src []byte, rowBytes, pitch, height int) {
	if rowBytes == pitch {
		copy(dst, src[:rowBytes*height])
		return
	}
	for row := 0; row < height; row++ {
		copy(dst[row*rowBytes:(row+1)*rowBytes], src[row*pitch:row*pitch+rowBytes])
	}
}

// submit finishes encoding, submits and waits for the fence.
func (b *Backend) submit(encoder hal.CommandEncoder) error {
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer b.device.FreeCommandBuffer(cmdBuf)

	fence, err := b.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer b.device.DestroyFence(fence)

	if err := b.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	ok, err := b.device.Wait(fence, 1, b.timeout)
	if err != nil {
		return fmt.Errorf("wait for GPU: %w", err)
	}
	if !ok {
		return ErrTimeout
	}
	return nil
}

// readback copies the texture into a staging buffer and reads it into dst,
// top row first.
func (b *Backend) readback(ct *colorTexture, dst []byte) error {
	w, h := ct.width, ct.height
	pitch := alignedBytesPerRow(w)
	stagingSize := uint64(pitch) * uint64(h)

	encoder, err := b.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "capture_readback",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("capture_readback"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	staging, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "capture_staging",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("create staging buffer: %w", err)
	}
	defer b.device.DestroyBuffer(staging)

	// The pass left the texture as a render attachment; copies need it as
	// a copy source. Move it back afterwards for the next frame.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: ct.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	encoder.CopyTextureToBuffer(ct.tex, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: pitch, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: ct.tex, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: ct.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})

	if err := b.submit(encoder); err != nil {
		return err
	}

	padded := make([]byte, stagingSize)
	if err := b.queue.ReadBuffer(staging, 0, padded); err != nil {
		return fmt.Errorf("readback: %w", err)
	}
	stripRowPadding(dst, padded, int(w)*4, int(pitch), int(h))
	return nil
}
