// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package fbcapture

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/gogpu/fbcapture/bmp"
	"github.com/gogpu/fbcapture/capture"
)

// Failure reasons reported in fbcapture_capture_failures_total.
const (
	reasonNotInitialized = "not_initialized"
	reasonNoRenderFunc   = "no_render_func"
	reasonInProgress     = "in_progress"
	reasonAlloc          = "alloc"
	reasonDraw           = "draw"
	reasonBackend        = "backend"
	reasonEncode         = "encode"
	reasonIO             = "io"
)

type metrics struct {
	captures prometheus.Counter
	failures *prometheus.CounterVec
	bytes    prometheus.Counter
}

// newMetrics creates the recorder counters and registers them on reg when
// it is non-nil. Counters already registered by another recorder are
// shared.
func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		captures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fbcapture_captures_total",
			Help: "Frames captured and written to disk.",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fbcapture_capture_failures_total",
			Help: "Frames that could not be captured or written, by reason.",
		}, []string{"reason"}),
		bytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fbcapture_bytes_written_total",
			Help: "Bitmap bytes written, headers included.",
		}),
	}
	if reg == nil {
		return m
	}
	m.captures = register(reg, m.captures)
	m.failures = register(reg, m.failures)
	m.bytes = register(reg, m.bytes)
	return m
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	err := reg.Register(c)
	if err == nil {
		return c
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing
		}
	}
	logger.Load().Warn("fbcapture: metric registration failed", "error", err)
	return c
}

// failureReason classifies a DumpImage error.
func failureReason(err error) string {
	switch {
	case errors.Is(err, capture.ErrNotInitialized):
		return reasonNotInitialized
	case errors.Is(err, capture.ErrNoRenderFunc):
		return reasonNoRenderFunc
	case errors.Is(err, capture.ErrCaptureInProgress):
		return reasonInProgress
	case errors.Is(err, capture.ErrPixelBufferAlloc):
		return reasonAlloc
	case errors.Is(err, ErrDraw):
		return reasonDraw
	case errors.Is(err, bmp.ErrIO):
		return reasonIO
	case errors.Is(err, bmp.ErrInvalidDimensions),
		errors.Is(err, bmp.ErrBitsPerPixel),
		errors.Is(err, bmp.ErrPixelDataSize),
		errors.Is(err, bmp.ErrTooLarge):
		return reasonEncode
	default:
		return reasonBackend
	}
}
