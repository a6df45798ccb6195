// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package fbcapture

import (
	"github.com/gogpu/gputypes"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/gogpu/fbcapture/capture"
)

// Defaults used by New.
const (
	DefaultWidth        = 800
	DefaultHeight       = 600
	DefaultOutputDir    = "imgout/"
	DefaultBitsPerPixel = 32
)

// Option configures a Recorder during creation.
//
// Example:
//
//	r := fbcapture.New(backend,
//	    fbcapture.WithSize(1920, 1080),
//	    fbcapture.WithOutputDir("frames"),
//	    fbcapture.WithRenderFunc(draw))
type Option func(*recorderOptions)

type recorderOptions struct {
	width, height int
	outputDir     string
	render        capture.RenderFunc
	draw          DrawFunc
	seq           Sequence
	bitsPerPixel  int
	registerer    prometheus.Registerer
	clear         gputypes.Color
	captureOpts   []capture.Option
}

func defaultOptions() recorderOptions {
	return recorderOptions{
		width:        DefaultWidth,
		height:       DefaultHeight,
		outputDir:    DefaultOutputDir,
		bitsPerPixel: DefaultBitsPerPixel,
		clear:        gputypes.Color{A: 1},
	}
}

// WithSize sets the capture size in pixels.
func WithSize(width, height int) Option {
	return func(o *recorderOptions) {
		o.width, o.height = width, height
	}
}

// WithOutputDir sets the directory bitmaps are written to. The directory
// must exist; the recorder never creates it. Paths are built with
// filepath.Join, so dir is always a directory and never a file name
// prefix: "out_" writes out_/image0.bmp, not out_image0.bmp.
func WithOutputDir(dir string) Option {
	return func(o *recorderOptions) {
		o.outputDir = dir
	}
}

// WithRenderFunc sets the function that draws each captured frame.
func WithRenderFunc(fn capture.RenderFunc) Option {
	return func(o *recorderOptions) {
		o.render, o.draw = fn, nil
	}
}

// WithDrawFunc sets a drawing function that can fail. A frame whose
// DrawFunc returns an error is not written. See Recorder.SetDrawFunc.
func WithDrawFunc(fn DrawFunc) Option {
	return func(o *recorderOptions) {
		o.render, o.draw = nil, fn
	}
}

// WithSequence replaces the default in-memory Counter.
func WithSequence(seq Sequence) Option {
	return func(o *recorderOptions) {
		o.seq = seq
	}
}

// WithBitsPerPixel sets the depth written to the bitmap header. Each pixel
// keeps its first bitsPerPixel/8 BGRA channels; 32 writes them all and 24
// drops alpha.
func WithBitsPerPixel(bpp int) Option {
	return func(o *recorderOptions) {
		o.bitsPerPixel = bpp
	}
}

// WithMetrics registers the recorder counters on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *recorderOptions) {
		o.registerer = reg
	}
}

// WithClearColor sets the color the target is cleared to before each frame.
// The default is opaque black.
func WithClearColor(c gputypes.Color) Option {
	return func(o *recorderOptions) {
		o.clear = c
	}
}

// WithCaptureOptions passes extra options to the underlying capture.Target,
// such as capture.WithMaxPixelBytes.
func WithCaptureOptions(opts ...capture.Option) Option {
	return func(o *recorderOptions) {
		o.captureOpts = append(o.captureOpts, opts...)
	}
}
