// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package capture

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/fbcapture/internal/logging"
)

// MaxDimension is the largest width or height accepted by Init.
const MaxDimension = 1 << 16

var logger logging.Slot

// SetLogger sets the logger used by this package. Nil disables logging.
func SetLogger(l *slog.Logger) { logger.Store(l) }

// RenderFunc issues drawing commands against the currently bound
// framebuffer. It must not bind another framebuffer and must not call
// Capture on the same target; such a nested Capture returns
// ErrCaptureInProgress and is otherwise ignored.
type RenderFunc func()

// Target is an off-screen capture target: a color texture, a depth buffer
// and a framebuffer combining them, all created by Init and released by
// Close.
//
// The three GPU resources exist together or not at all. Width and height
// are fixed at creation.
//
// Target is not safe for concurrent use.
type Target struct {
	backend Backend
	width   int
	height  int

	color Texture
	depth Renderbuffer
	fb    Framebuffer

	initialized bool
	inProgress  bool

	render RenderFunc
	clear  gputypes.Color
	alloc  Allocator
}

// New creates an uninitialized target of the given size. No GPU resources
// are allocated until Init.
func New(backend Backend, width, height int, opts ...Option) *Target {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.alloc == nil {
		o.alloc = limitedAllocator(o.maxPixelBytes)
	}
	return &Target{
		backend: backend,
		width:   width,
		height:  height,
		render:  o.render,
		clear:   o.clear,
		alloc:   o.alloc,
	}
}

// Width returns the target width in pixels.
func (t *Target) Width() int { return t.width }

// Height returns the target height in pixels.
func (t *Target) Height() int { return t.height }

// Initialized reports whether Init succeeded and Close has not been called.
func (t *Target) Initialized() bool { return t.initialized }

// SetRenderFunc fills the render func slot. Nil empties it.
func (t *Target) SetRenderFunc(fn RenderFunc) { t.render = fn }

// ClearRenderFunc empties the render func slot.
func (t *Target) ClearRenderFunc() { t.render = nil }

// HasRenderFunc reports whether a render func is registered.
func (t *Target) HasRenderFunc() bool { return t.render != nil }

// Init creates the color texture (linear filtering, repeat wrap), the depth
// buffer and the framebuffer. Calling Init on an initialized target is a
// no-op. If any step fails, everything created so far is released and the
// target stays uninitialized.
func (t *Target) Init() error {
	if t.initialized {
		return nil
	}
	if t.backend == nil {
		return ErrNilBackend
	}
	if t.width <= 0 || t.height <= 0 || t.width > MaxDimension || t.height > MaxDimension ||
		uint64(t.width)*uint64(t.height)*BytesPerPixel > math.MaxInt {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, t.width, t.height)
	}
	w, h := uint32(t.width), uint32(t.height) //nolint:gosec // G115: range checked above

	color, err := t.backend.CreateColorTexture(w, h, gputypes.FilterModeLinear)
	if err != nil {
		return fmt.Errorf("create color texture: %w", err)
	}
	t.color = color

	depth, err := t.backend.CreateDepthBuffer(w, h)
	if err != nil {
		t.releaseLogged()
		return fmt.Errorf("create depth buffer: %w", err)
	}
	t.depth = depth

	fb, err := t.backend.CreateFramebuffer(t.color, t.depth)
	if err != nil {
		t.releaseLogged()
		return fmt.Errorf("create framebuffer: %w", err)
	}
	t.fb = fb

	t.initialized = true
	logger.Load().Info("capture: target initialized", "width", t.width, "height", t.height)
	return nil
}

// Capture renders one frame into the target and reads it back.
//
// The framebuffer is bound and cleared, the render func runs once, the
// default target is bound again, the texture filter is switched to nearest
// and the texels are read into a new PixelBuffer with bottom-up rows.
//
// Capture returns ErrNotInitialized, ErrNoRenderFunc or
// ErrCaptureInProgress without touching the GPU. A failed pixel buffer
// allocation returns ErrPixelBufferAlloc before anything is drawn. In all
// error cases the target remains usable.
func (t *Target) Capture() (*PixelBuffer, error) {
	if !t.initialized {
		return nil, ErrNotInitialized
	}
	if t.render == nil {
		return nil, ErrNoRenderFunc
	}
	if t.inProgress {
		logger.Load().Debug("capture: nested capture dropped")
		return nil, ErrCaptureInProgress
	}
	t.inProgress = true
	defer func() { t.inProgress = false }()

	n := t.width * t.height * BytesPerPixel
	pix, err := t.allocate(n)
	if err != nil {
		logger.Load().Warn("capture: pixel buffer allocation failed", "bytes", n, "error", err)
		return nil, err
	}

	if err := t.draw(); err != nil {
		return nil, err
	}

	if err := t.backend.SetTextureFilter(t.color, gputypes.FilterModeNearest, gputypes.FilterModeNearest); err != nil {
		return nil, fmt.Errorf("set texture filter: %w", err)
	}
	if err := t.backend.ReadTexture(t.color, pix); err != nil {
		return nil, fmt.Errorf("read texture: %w", err)
	}
	flipRows(pix, t.width*BytesPerPixel, t.height)

	logger.Load().Debug("capture: frame read back", "bytes", n)
	return &PixelBuffer{Width: t.width, Height: t.height, Pix: pix}, nil
}

// draw binds the framebuffer, runs the render func and binds the default
// target again, also when the render func panics.
func (t *Target) draw() (err error) {
	if err := t.backend.BindFramebuffer(t.fb, t.clear); err != nil {
		return fmt.Errorf("bind framebuffer: %w", err)
	}
	defer func() {
		if uerr := t.backend.UnbindFramebuffer(); uerr != nil && err == nil {
			err = fmt.Errorf("unbind framebuffer: %w", uerr)
		}
	}()
	t.render()
	return nil
}

func (t *Target) allocate(n int) ([]byte, error) {
	pix, err := t.alloc(n)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPixelBufferAlloc, err)
	}
	if len(pix) != n {
		return nil, fmt.Errorf("%w: allocator returned %d bytes, want %d", ErrPixelBufferAlloc, len(pix), n)
	}
	return pix, nil
}

// Close releases the framebuffer, texture and depth buffer. Close on an
// uninitialized or closed target is a no-op. The target is uninitialized
// afterwards even if a release fails.
func (t *Target) Close() error {
	if !t.initialized {
		return nil
	}
	t.initialized = false
	err := t.release()
	if err != nil {
		logger.Load().Warn("capture: resource release failed", "error", err)
	}
	return err
}

// release deletes every non-zero handle and zeroes it.
func (t *Target) release() error {
	var errs []error
	if t.fb != 0 {
		if err := t.backend.DeleteFramebuffer(t.fb); err != nil {
			errs = append(errs, fmt.Errorf("delete framebuffer: %w", err))
		}
		t.fb = 0
	}
	if t.color != 0 {
		if err := t.backend.DeleteTexture(t.color); err != nil {
			errs = append(errs, fmt.Errorf("delete texture: %w", err))
		}
		t.color = 0
	}
	if t.depth != 0 {
		if err := t.backend.DeleteRenderbuffer(t.depth); err != nil {
			errs = append(errs, fmt.Errorf("delete depth buffer: %w", err))
		}
		t.depth = 0
	}
	return errors.Join(errs...)
}

func (t *Target) releaseLogged() {
	if err := t.release(); err != nil {
		logger.Load().Warn("capture: cleanup after failed init", "error", err)
	}
}
