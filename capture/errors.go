// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package capture

import "errors"

// Package errors.
//
// ErrNotInitialized, ErrNoRenderFunc and ErrCaptureInProgress mean no
// capture happened: no render func ran and no pixels were read.
// ErrPixelBufferAlloc aborts one capture and leaves the target usable.
var (
	// ErrInvalidDimensions is returned by Init when width or height is zero.
	ErrInvalidDimensions = errors.New("capture: invalid dimensions")

	// ErrNotInitialized is returned when Capture is called before Init
	// or after Close.
	ErrNotInitialized = errors.New("capture: target not initialized")

	// ErrNoRenderFunc is returned when Capture is called with an empty
	// render func slot.
	ErrNoRenderFunc = errors.New("capture: no render func registered")

	// ErrCaptureInProgress is returned when Capture is re-entered from
	// inside the render func.
	ErrCaptureInProgress = errors.New("capture: capture already in progress")

	// ErrPixelBufferAlloc is returned when the host pixel buffer for the
	// readback cannot be allocated.
	ErrPixelBufferAlloc = errors.New("capture: pixel buffer allocation failed")

	// ErrNilBackend is returned by Init when the target has no backend.
	ErrNilBackend = errors.New("capture: nil backend")
)
