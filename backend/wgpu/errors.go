// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import "errors"

// Package errors.
var (
	// ErrNoGPU is returned by Open when the requested HAL backend is not
	// registered or exposes no adapters.
	ErrNoGPU = errors.New("wgpu: no GPU available")

	// ErrNilDevice is returned when a nil device or queue is supplied.
	ErrNilDevice = errors.New("wgpu: nil device or queue")

	// ErrNotHALProvider is returned by FromProvider when the provider does
	// not expose HAL device and queue.
	ErrNotHALProvider = errors.New("wgpu: provider does not expose HAL types")

	// ErrUnknownHandle is returned for handles this backend did not create
	// or already deleted.
	ErrUnknownHandle = errors.New("wgpu: unknown handle")

	// ErrTextureBound is returned by ReadTexture while the texture is the
	// color attachment of the bound framebuffer.
	ErrTextureBound = errors.New("wgpu: texture is bound for drawing")

	// ErrSizeMismatch is returned when attachments or read buffers do not
	// match the texture size.
	ErrSizeMismatch = errors.New("wgpu: size mismatch")

	// ErrTimeout is returned when the GPU does not signal a fence in time.
	ErrTimeout = errors.New("wgpu: timed out waiting for GPU")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("wgpu: backend closed")
)
