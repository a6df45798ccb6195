// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package wgpu implements capture.Backend on the gogpu/wgpu hardware
// abstraction layer.
//
// A Backend either owns a standalone device created by Open, or borrows
// the device of a host application through FromProvider or New.
//
//	be, err := wgpu.Open()
//	if err != nil {
//		return err
//	}
//	defer be.Close()
//
//	painter, err := wgpu.NewPatternPainter(be.Device())
//	if err != nil {
//		return err
//	}
//	defer painter.Destroy()
//
//	t := capture.New(be, 800, 600,
//		capture.WithRenderFunc(func() { _ = painter.Draw(be.Pass()) }))
//
// # Framebuffers
//
// Color attachments are BGRA8Unorm textures and depth attachments are
// Depth24PlusStencil8. Binding a framebuffer starts a render pass that
// clears both; unbinding ends it and waits for the GPU. Render funcs
// record their draws into Pass while the framebuffer is bound.
//
// # Readback
//
// ReadTexture copies through a staging buffer whose rows are padded to
// 256 bytes, then strips the padding. Rows come back top row first.
package wgpu
