// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package capture

import "github.com/gogpu/gputypes"

// Texture names a color texture owned by a Backend. Zero means none.
type Texture uint32

// Renderbuffer names a depth buffer owned by a Backend. Zero means none.
type Renderbuffer uint32

// Framebuffer names an off-screen render target combining one color
// texture and one depth buffer. Zero is the default target.
type Framebuffer uint32

// Backend is the graphics API the Target drives.
//
// Implementations keep global binding state the way a GL context does:
// BindFramebuffer makes fb the current target, UnbindFramebuffer returns to
// the default target. There is no binding stack; unbinding never restores a
// framebuffer that was bound before.
//
// Backends are not safe for concurrent use and must be called from the
// goroutine that owns the GPU context.
type Backend interface {
	// CreateColorTexture allocates a width x height texture with 8 bits per
	// channel, repeat wrapping on both axes and the given min/mag filter.
	CreateColorTexture(width, height uint32, filter gputypes.FilterMode) (Texture, error)

	// CreateDepthBuffer allocates a depth buffer of the given size.
	CreateDepthBuffer(width, height uint32) (Renderbuffer, error)

	// CreateFramebuffer combines color as the only color attachment and depth
	// as the depth attachment.
	CreateFramebuffer(color Texture, depth Renderbuffer) (Framebuffer, error)

	// BindFramebuffer binds fb and clears its color attachment to clear and
	// its depth attachment to the far plane.
	BindFramebuffer(fb Framebuffer, clear gputypes.Color) error

	// UnbindFramebuffer finishes drawing into the bound framebuffer and
	// binds the default target.
	UnbindFramebuffer() error

	// SetTextureFilter changes the minification and magnification filters.
	SetTextureFilter(tex Texture, minFilter, magFilter gputypes.FilterMode) error

	// ReadTexture copies the texture into dst as tightly packed BGRA bytes,
	// rows ordered top to bottom. len(dst) must be width*height*4.
	ReadTexture(tex Texture, dst []byte) error

	DeleteFramebuffer(fb Framebuffer) error
	DeleteTexture(tex Texture) error
	DeleteRenderbuffer(rb Renderbuffer) error
}
