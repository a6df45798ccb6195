// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package capture renders into an off-screen framebuffer and reads the
// result back to host memory.
//
// A Target owns three GPU resources created through a Backend: a color
// texture, a depth buffer and a framebuffer combining them. Capture binds
// the framebuffer, clears it, runs the caller's RenderFunc, binds the
// default target again and reads the texels back as BGRA.
//
// # Usage
//
//	t := capture.New(backend, 800, 600, capture.WithRenderFunc(draw))
//	if err := t.Init(); err != nil {
//	    return err
//	}
//	defer t.Close()
//
//	buf, err := t.Capture()
//	if err != nil {
//	    return err
//	}
//	err = bmp.WriteFile("frame.bmp", buf.Pix, buf.Width, buf.Height, 32)
//
// # Binding state
//
// Binding is global backend state with no stack. After Capture the default
// target is bound, whatever was bound before. Code that nests its own
// framebuffers around Capture must rebind them itself.
//
// # Row order
//
// Backends return rows top to bottom. Capture flips them so PixelBuffer.Pix
// is bottom-up, matching a bitmap with positive height.
//
// # Thread Safety
//
// Targets and backends must be used from the goroutine that owns the GPU
// context. The re-entrancy guard in Capture only stops a RenderFunc from
// capturing recursively; it is not a lock.
package capture
