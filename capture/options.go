// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package capture

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// DefaultMaxPixelBytes caps the host pixel buffer a Target will allocate
// for one readback (1 GiB).
const DefaultMaxPixelBytes = 1 << 30

// Allocator returns a zeroed byte slice of length n for a readback.
// Returning an error aborts the capture with ErrPixelBufferAlloc.
type Allocator func(n int) ([]byte, error)

// Option configures a Target during creation.
//
// Example:
//
//	t := capture.New(backend, 800, 600,
//	    capture.WithClearColor(gputypes.Color{A: 1}),
//	    capture.WithRenderFunc(drawScene),
//	)
type Option func(*options)

type options struct {
	clear         gputypes.Color
	alloc         Allocator
	maxPixelBytes int
	render        RenderFunc
}

func defaultOptions() options {
	return options{
		clear:         gputypes.Color{R: 0, G: 0, B: 0, A: 0},
		maxPixelBytes: DefaultMaxPixelBytes,
	}
}

// WithClearColor sets the color the framebuffer is cleared to before the
// render func runs. The default is transparent black.
func WithClearColor(c gputypes.Color) Option {
	return func(o *options) {
		o.clear = c
	}
}

// WithAllocator replaces the pixel buffer allocator.
func WithAllocator(a Allocator) Option {
	return func(o *options) {
		o.alloc = a
	}
}

// WithMaxPixelBytes caps the size of the readback buffer allocated by the
// default allocator. Values <= 0 keep DefaultMaxPixelBytes.
func WithMaxPixelBytes(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxPixelBytes = n
		}
	}
}

// WithRenderFunc fills the render func slot.
func WithRenderFunc(fn RenderFunc) Option {
	return func(o *options) {
		o.render = fn
	}
}

// limitedAllocator is the default Allocator.
func limitedAllocator(limit int) Allocator {
	return func(n int) ([]byte, error) {
		if n < 0 || n > limit {
			return nil, fmt.Errorf("%d bytes exceeds limit of %d", n, limit)
		}
		return make([]byte, n), nil
	}
}
