// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package fbcapture renders frames into an off-screen GPU target and saves
// them as uncompressed BMP files.
//
// # Quick Start
//
//	be, err := wgpu.Open()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer be.Close()
//
//	r := fbcapture.New(be,
//	    fbcapture.WithSize(800, 600),
//	    fbcapture.WithOutputDir("imgout"),
//	    fbcapture.WithRenderFunc(func() { drawScene(be.Pass()) }))
//	if err := r.Init(); err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	path, err := r.DumpImage() // imgout/image0.bmp
//
// # Packages
//
//   - capture: the off-screen target and the Backend interface it drives
//   - bmp: byte-exact BMP headers and encoder
//   - backend/wgpu: Backend on the gogpu/wgpu hardware abstraction layer
//   - capture/capturetest: in-memory Backend for tests
//
// # File naming
//
// Each Recorder numbers its files from zero: image0.bmp, image1.bmp and so
// on. The number advances only after a file is fully written. Nothing is
// persisted, so a new Recorder overwrites files from an earlier run.
//
// # Logging
//
// fbcapture is silent by default. Use SetLogger to enable slog output for
// this package and capture.
//
// # Metrics
//
// WithMetrics registers Prometheus counters for captured frames, failures
// by reason and bytes written.
package fbcapture
