// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/fbcapture/capture"
	"github.com/gogpu/fbcapture/internal/logging"
)

const (
	// ColorFormat is the format of color textures. Copies out of it are
	// already BGRA, so readback needs no swizzle.
	ColorFormat = gputypes.TextureFormatBGRA8Unorm

	// DepthFormat is the format of depth buffers.
	DepthFormat = gputypes.TextureFormatDepth24PlusStencil8

	// DefaultTimeout bounds each fence wait.
	DefaultTimeout = 5 * time.Second
)

var logger logging.Slot

// SetLogger sets the logger used by this package. Nil disables logging.
func SetLogger(l *slog.Logger) { logger.Store(l) }

type colorTexture struct {
	tex       hal.Texture
	view      hal.TextureView
	sampler   hal.Sampler
	width     uint32
	height    uint32
	minFilter gputypes.FilterMode
	magFilter gputypes.FilterMode
}

type depthBuffer struct {
	tex    hal.Texture
	view   hal.TextureView
	width  uint32
	height uint32
}

type framebuffer struct {
	color capture.Texture
	depth capture.Renderbuffer
}

// Backend implements capture.Backend on a gogpu/wgpu HAL device.
//
// Binding a framebuffer begins a command encoder and a render pass whose
// load ops clear color and depth. Draw commands go into the pass returned
// by Pass. Unbinding ends the pass, submits and waits for the GPU.
//
// Backend is not safe for concurrent use.
type Backend struct {
	device   hal.Device
	queue    hal.Queue
	instance hal.Instance // set when Open created the device
	owned    bool
	timeout  time.Duration

	next         uint32
	textures     map[capture.Texture]*colorTexture
	depths       map[capture.Renderbuffer]*depthBuffer
	framebuffers map[capture.Framebuffer]framebuffer

	bound   capture.Framebuffer
	encoder hal.CommandEncoder
	pass    hal.RenderPassEncoder
	closed  bool
}

// New wraps an existing device and queue. The caller keeps ownership of
// both; Close releases only the resources created through the backend.
func New(device hal.Device, queue hal.Queue, opts ...Option) (*Backend, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Backend{
		device:       device,
		queue:        queue,
		timeout:      o.timeout,
		textures:     make(map[capture.Texture]*colorTexture),
		depths:       make(map[capture.Renderbuffer]*depthBuffer),
		framebuffers: make(map[capture.Framebuffer]framebuffer),
	}, nil
}

// Device returns the HAL device.
func (b *Backend) Device() hal.Device { return b.device }

// Queue returns the HAL queue.
func (b *Backend) Queue() hal.Queue { return b.queue }

// Pass returns the render pass of the bound framebuffer, or nil while the
// default target is bound. Render funcs record their draws into it.
func (b *Backend) Pass() hal.RenderPassEncoder { return b.pass }

// Sampler returns the sampler of a color texture, reflecting the filters set
// by CreateColorTexture and SetTextureFilter.
func (b *Backend) Sampler(tex capture.Texture) (hal.Sampler, bool) {
	t, ok := b.textures[tex]
	if !ok {
		return nil, false
	}
	return t.sampler, true
}

func (b *Backend) name() uint32 {
	b.next++
	return b.next
}

// CreateColorTexture implements capture.Backend.
func (b *Backend) CreateColorTexture(width, height uint32, filter gputypes.FilterMode) (capture.Texture, error) {
	if b.closed {
		return 0, ErrClosed
	}
	tex, err := b.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "capture_color",
		Size:          hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        ColorFormat,
		Usage: gputypes.TextureUsageRenderAttachment |
			gputypes.TextureUsageCopySrc |
			gputypes.TextureUsageTextureBinding,
	})
	if err != nil {
		return 0, fmt.Errorf("create color texture: %w", err)
	}
	ct := &colorTexture{tex: tex, width: width, height: height}

	view, err := b.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: "capture_color_view",
	})
	if err != nil {
		b.destroyColor(ct)
		return 0, fmt.Errorf("create color view: %w", err)
	}
	ct.view = view

	if err := b.setSampler(ct, filter, filter); err != nil {
		b.destroyColor(ct)
		return 0, err
	}

	name := capture.Texture(b.name())
	b.textures[name] = ct
	logger.Load().Debug("wgpu: color texture created", "texture", name, "width", width, "height", height)
	return name, nil
}

// setSampler replaces the sampler of ct with one using the given filters
// and repeat wrapping.
func (b *Backend) setSampler(ct *colorTexture, minFilter, magFilter gputypes.FilterMode) error {
	sampler, err := b.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "capture_color_sampler",
		AddressModeU: gputypes.AddressModeRepeat,
		AddressModeV: gputypes.AddressModeRepeat,
		AddressModeW: gputypes.AddressModeRepeat,
		MagFilter:    magFilter,
		MinFilter:    minFilter,
		MipmapFilter: gputypes.FilterModeNearest,
	})
	if err != nil {
		return fmt.Errorf("create sampler: %w", err)
	}
	if ct.sampler != nil {
		b.device.DestroySampler(ct.sampler)
	}
	ct.sampler = sampler
	ct.minFilter = minFilter
	ct.magFilter = magFilter
	return nil
}

// CreateDepthBuffer implements capture.Backend.
func (b *Backend) CreateDepthBuffer(width, height uint32) (capture.Renderbuffer, error) {
	if b.closed {
		return 0, ErrClosed
	}
	tex, err := b.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "capture_depth",
		Size:          hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        DepthFormat,
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		return 0, fmt.Errorf("create depth texture: %w", err)
	}
	view, err := b.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: "capture_depth_view",
	})
	if err != nil {
		b.device.DestroyTexture(tex)
		return 0, fmt.Errorf("create depth view: %w", err)
	}

	name := capture.Renderbuffer(b.name())
	b.depths[name] = &depthBuffer{tex: tex, view: view, width: width, height: height}
	return name, nil
}

// CreateFramebuffer implements capture.Backend. No GPU object is created;
// the pairing is turned into a render pass descriptor on bind.
func (b *Backend) CreateFramebuffer(color capture.Texture, depth capture.Renderbuffer) (capture.Framebuffer, error) {
	if b.closed {
		return 0, ErrClosed
	}
	ct, ok := b.textures[color]
	if !ok {
		return 0, fmt.Errorf("%w: texture %d", ErrUnknownHandle, color)
	}
	db, ok := b.depths[depth]
	if !ok {
		return 0, fmt.Errorf("%w: renderbuffer %d", ErrUnknownHandle, depth)
	}
	if ct.width != db.width || ct.height != db.height {
		return 0, fmt.Errorf("%w: color %dx%d, depth %dx%d",
			ErrSizeMismatch, ct.width, ct.height, db.width, db.height)
	}
	name := capture.Framebuffer(b.name())
	b.framebuffers[name] = framebuffer{color: color, depth: depth}
	return name, nil
}

// BindFramebuffer implements capture.Backend. Binding while another
// framebuffer is bound finishes that one first.
func (b *Backend) BindFramebuffer(fb capture.Framebuffer, clear gputypes.Color) error {
	if b.closed {
		return ErrClosed
	}
	f, ok := b.framebuffers[fb]
	if !ok {
		return fmt.Errorf("%w: framebuffer %d", ErrUnknownHandle, fb)
	}
	ct, ok := b.textures[f.color]
	if !ok {
		return fmt.Errorf("%w: texture %d", ErrUnknownHandle, f.color)
	}
	db, ok := b.depths[f.depth]
	if !ok {
		return fmt.Errorf("%w: renderbuffer %d", ErrUnknownHandle, f.depth)
	}
	if err := b.UnbindFramebuffer(); err != nil {
		return err
	}

	encoder, err := b.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "capture_encoder",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("capture_frame"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	b.pass = encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "capture_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       ct.view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: clear,
		}},
		DepthStencilAttachment: &hal.RenderPassDepthStencilAttachment{
			View:              db.view,
			DepthLoadOp:       gputypes.LoadOpClear,
			DepthStoreOp:      gputypes.StoreOpDiscard,
			DepthClearValue:   1.0,
			StencilLoadOp:     gputypes.LoadOpClear,
			StencilStoreOp:    gputypes.StoreOpDiscard,
			StencilClearValue: 0,
		},
	})
	b.encoder = encoder
	b.bound = fb
	return nil
}

// UnbindFramebuffer implements capture.Backend. It ends the render pass,
// submits the recorded commands and waits for them. With nothing bound it
// does nothing.
func (b *Backend) UnbindFramebuffer() error {
	if b.bound == 0 {
		return nil
	}
	pass, encoder := b.pass, b.encoder
	b.pass, b.encoder, b.bound = nil, nil, 0

	pass.End()
	return b.submit(encoder)
}

// SetTextureFilter implements capture.Backend.
func (b *Backend) SetTextureFilter(tex capture.Texture, minFilter, magFilter gputypes.FilterMode) error {
	if b.closed {
		return ErrClosed
	}
	ct, ok := b.textures[tex]
	if !ok {
		return fmt.Errorf("%w: texture %d", ErrUnknownHandle, tex)
	}
	if ct.minFilter == minFilter && ct.magFilter == magFilter {
		return nil
	}
	return b.setSampler(ct, minFilter, magFilter)
}

// ReadTexture implements capture.Backend.
func (b *Backend) ReadTexture(tex capture.Texture, dst []byte) error {
	if b.closed {
		return ErrClosed
	}
	ct, ok := b.textures[tex]
	if !ok {
		return fmt.Errorf("%w: texture %d", ErrUnknownHandle, tex)
	}
	if b.bound != 0 && b.framebuffers[b.bound].color == tex {
		return ErrTextureBound
	}
	if want := int(ct.width) * int(ct.height) * 4; len(dst) != want {
		return fmt.Errorf("%w: read buffer is %d bytes, want %d", ErrSizeMismatch, len(dst), want)
	}
	return b.readback(ct, dst)
}

// DeleteFramebuffer implements capture.Backend. Deleting the bound
// framebuffer finishes its pass and binds the default target.
func (b *Backend) DeleteFramebuffer(fb capture.Framebuffer) error {
	if _, ok := b.framebuffers[fb]; !ok {
		return fmt.Errorf("%w: framebuffer %d", ErrUnknownHandle, fb)
	}
	var err error
	if b.bound == fb {
		err = b.UnbindFramebuffer()
	}
	delete(b.framebuffers, fb)
	return err
}

// DeleteTexture implements capture.Backend.
func (b *Backend) DeleteTexture(tex capture.Texture) error {
	ct, ok := b.textures[tex]
	if !ok {
		return fmt.Errorf("%w: texture %d", ErrUnknownHandle, tex)
	}
	b.destroyColor(ct)
	delete(b.textures, tex)
	return nil
}

// DeleteRenderbuffer implements capture.Backend.
func (b *Backend) DeleteRenderbuffer(rb capture.Renderbuffer) error {
	db, ok := b.depths[rb]
	if !ok {
		return fmt.Errorf("%w: renderbuffer %d", ErrUnknownHandle, rb)
	}
	b.device.DestroyTextureView(db.view)
	b.device.DestroyTexture(db.tex)
	delete(b.depths, rb)
	return nil
}

func (b *Backend) destroyColor(ct *colorTexture) {
	if ct.sampler != nil {
		b.device.DestroySampler(ct.sampler)
		ct.sampler = nil
	}
	if ct.view != nil {
		b.device.DestroyTextureView(ct.view)
		ct.view = nil
	}
	if ct.tex != nil {
		b.device.DestroyTexture(ct.tex)
		ct.tex = nil
	}
}

// Close finishes any bound pass and releases every resource still alive.
// If the backend was created by Open, the device and instance are destroyed
// as well. Close is idempotent.
func (b *Backend) Close() error {
	if b.closed {
		return nil
	}
	err := b.UnbindFramebuffer()
	b.closed = true

	leaked := len(b.framebuffers) + len(b.textures) + len(b.depths)
	if leaked > 0 {
		logger.Load().Warn("wgpu: releasing resources at close", "count", leaked)
	}
	clear(b.framebuffers)
	for name, ct := range b.textures {
		b.destroyColor(ct)
		delete(b.textures, name)
	}
	for name, db := range b.depths {
		b.device.DestroyTextureView(db.view)
		b.device.DestroyTexture(db.tex)
		delete(b.depths, name)
	}

	if b.owned {
		b.device.Destroy()
		if b.instance != nil {
			b.instance.Destroy()
			b.instance = nil
		}
		logger.Load().Info("wgpu: device closed")
	}
	if err != nil {
		return errors.Join(ErrClosed, err)
	}
	return nil
}

var _ capture.Backend = (*Backend)(nil)
