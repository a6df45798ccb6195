// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package capturetest provides an in-memory capture.Backend that records
// calls and tracks live handles, for testing code built on capture.
package capturetest

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/fbcapture/capture"
)

// Operation names recorded in Backend.Calls and accepted by Backend.Fail.
const (
	OpCreateColorTexture = "CreateColorTexture"
	OpCreateDepthBuffer  = "CreateDepthBuffer"
	OpCreateFramebuffer  = "CreateFramebuffer"
	OpBindFramebuffer    = "BindFramebuffer"
	OpUnbindFramebuffer  = "UnbindFramebuffer"
	OpSetTextureFilter   = "SetTextureFilter"
	OpReadTexture        = "ReadTexture"
	OpDeleteFramebuffer  = "DeleteFramebuffer"
	OpDeleteTexture      = "DeleteTexture"
	OpDeleteRenderbuffer = "DeleteRenderbuffer"
)

// ErrUnknownHandle is returned for handles the backend did not create or
// already deleted.
var ErrUnknownHandle = errors.New("capturetest: unknown handle")

type texture struct {
	width, height uint32
	pix           []byte // BGRA, top-down
	minFilter     gputypes.FilterMode
	magFilter     gputypes.FilterMode
}

type depthBuffer struct {
	width, height uint32
}

type framebuffer struct {
	color capture.Texture
	depth capture.Renderbuffer
}

// Backend is a capture.Backend backed by host memory.
// The zero value is not usable; call New.
type Backend struct {
	// Calls lists every backend call in order, by operation name.
	Calls []string

	next         uint32
	textures     map[capture.Texture]*texture
	depths       map[capture.Renderbuffer]depthBuffer
	framebuffers map[capture.Framebuffer]framebuffer
	bound        capture.Framebuffer
	failures     map[string]error
}

// New returns an empty recording backend.
func New() *Backend {
	return &Backend{
		textures:     make(map[capture.Texture]*texture),
		depths:       make(map[capture.Renderbuffer]depthBuffer),
		framebuffers: make(map[capture.Framebuffer]framebuffer),
		failures:     make(map[string]error),
	}
}

// Fail makes every later call of op return err. A nil err clears it.
func (b *Backend) Fail(op string, err error) {
	if err == nil {
		delete(b.failures, op)
		return
	}
	b.failures[op] = err
}

// Live returns the number of textures, depth buffers and framebuffers that
// were created and not deleted.
func (b *Backend) Live() int {
	return len(b.textures) + len(b.depths) + len(b.framebuffers)
}

// Bound returns the currently bound framebuffer, zero for the default.
func (b *Backend) Bound() capture.Framebuffer {
	return b.bound
}

// Count returns how many times op was called.
func (b *Backend) Count(op string) int {
	n := 0
	for _, c := range b.Calls {
		if c == op {
			n++
		}
	}
	return n
}

// Filter returns the current filters of tex.
func (b *Backend) Filter(tex capture.Texture) (minFilter, magFilter gputypes.FilterMode, ok bool) {
	t, ok := b.textures[tex]
	if !ok {
		return 0, 0, false
	}
	return t.minFilter, t.magFilter, true
}

// Fill paints the whole color attachment of the bound framebuffer with the
// BGRA color c. It stands in for draw calls inside a render func.
func (b *Backend) Fill(c [4]byte) error {
	t, err := b.boundColor()
	if err != nil {
		return err
	}
	for i := 0; i < len(t.pix); i += 4 {
		copy(t.pix[i:i+4], c[:])
	}
	return nil
}

// FillRow paints row y (0 is the top row) of the bound color attachment.
func (b *Backend) FillRow(y int, c [4]byte) error {
	t, err := b.boundColor()
	if err != nil {
		return err
	}
	if y < 0 || y >= int(t.height) {
		return fmt.Errorf("capturetest: row %d out of range", y)
	}
	stride := int(t.width) * 4
	row := t.pix[y*stride : (y+1)*stride]
	for i := 0; i < len(row); i += 4 {
		copy(row[i:i+4], c[:])
	}
	return nil
}

func (b *Backend) boundColor() (*texture, error) {
	if b.bound == 0 {
		return nil, errors.New("capturetest: no framebuffer bound")
	}
	return b.textures[b.framebuffers[b.bound].color], nil
}

func (b *Backend) call(op string) error {
	b.Calls = append(b.Calls, op)
	return b.failures[op]
}

func (b *Backend) name() uint32 {
	b.next++
	return b.next
}

// CreateColorTexture implements capture.Backend.
func (b *Backend) CreateColorTexture(width, height uint32, filter gputypes.FilterMode) (capture.Texture, error) {
	if err := b.call(OpCreateColorTexture); err != nil {
		return 0, err
	}
	tex := capture.Texture(b.name())
	b.textures[tex] = &texture{
		width:     width,
		height:    height,
		pix:       make([]byte, int(width)*int(height)*4),
		minFilter: filter,
		magFilter: filter,
	}
	return tex, nil
}

// CreateDepthBuffer implements capture.Backend.
func (b *Backend) CreateDepthBuffer(width, height uint32) (capture.Renderbuffer, error) {
	if err := b.call(OpCreateDepthBuffer); err != nil {
		return 0, err
	}
	rb := capture.Renderbuffer(b.name())
	b.depths[rb] = depthBuffer{width: width, height: height}
	return rb, nil
}

// CreateFramebuffer implements capture.Backend.
func (b *Backend) CreateFramebuffer(color capture.Texture, depth capture.Renderbuffer) (capture.Framebuffer, error) {
	if err := b.call(OpCreateFramebuffer); err != nil {
		return 0, err
	}
	t, ok := b.textures[color]
	if !ok {
		return 0, fmt.Errorf("%w: texture %d", ErrUnknownHandle, color)
	}
	d, ok := b.depths[depth]
	if !ok {
		return 0, fmt.Errorf("%w: renderbuffer %d", ErrUnknownHandle, depth)
	}
	if t.width != d.width || t.height != d.height {
		return 0, errors.New("capturetest: attachment sizes differ")
	}
	fb := capture.Framebuffer(b.name())
	b.framebuffers[fb] = framebuffer{color: color, depth: depth}
	return fb, nil
}

// BindFramebuffer implements capture.Backend.
func (b *Backend) BindFramebuffer(fb capture.Framebuffer, clear gputypes.Color) error {
	if err := b.call(OpBindFramebuffer); err != nil {
		return err
	}
	if _, ok := b.framebuffers[fb]; !ok {
		return fmt.Errorf("%w: framebuffer %d", ErrUnknownHandle, fb)
	}
	b.bound = fb
	return b.Fill(ClearBGRA(clear))
}

// UnbindFramebuffer implements capture.Backend.
func (b *Backend) UnbindFramebuffer() error {
	if err := b.call(OpUnbindFramebuffer); err != nil {
		return err
	}
	b.bound = 0
	return nil
}

// SetTextureFilter implements capture.Backend.
func (b *Backend) SetTextureFilter(tex capture.Texture, minFilter, magFilter gputypes.FilterMode) error {
	if err := b.call(OpSetTextureFilter); err != nil {
		return err
	}
	t, ok := b.textures[tex]
	if !ok {
		return fmt.Errorf("%w: texture %d", ErrUnknownHandle, tex)
	}
	t.minFilter, t.magFilter = minFilter, magFilter
	return nil
}

// ReadTexture implements capture.Backend.
func (b *Backend) ReadTexture(tex capture.Texture, dst []byte) error {
	if err := b.call(OpReadTexture); err != nil {
		return err
	}
	t, ok := b.textures[tex]
	if !ok {
		return fmt.Errorf("%w: texture %d", ErrUnknownHandle, tex)
	}
	if len(dst) != len(t.pix) {
		return fmt.Errorf("capturetest: read buffer is %d bytes, want %d", len(dst), len(t.pix))
	}
	copy(dst, t.pix)
	return nil
}

// DeleteFramebuffer implements capture.Backend.
func (b *Backend) DeleteFramebuffer(fb capture.Framebuffer) error {
	if err := b.call(OpDeleteFramebuffer); err != nil {
		return err
	}
	if _, ok := b.framebuffers[fb]; !ok {
		return fmt.Errorf("%w: framebuffer %d", ErrUnknownHandle, fb)
	}
	delete(b.framebuffers, fb)
	if b.bound == fb {
		b.bound = 0
	}
	return nil
}

// DeleteTexture implements capture.Backend.
func (b *Backend) DeleteTexture(tex capture.Texture) error {
	if err := b.call(OpDeleteTexture); err != nil {
		return err
	}
	if _, ok := b.textures[tex]; !ok {
		return fmt.Errorf("%w: texture %d", ErrUnknownHandle, tex)
	}
	delete(b.textures, tex)
	return nil
}

// DeleteRenderbuffer implements capture.Backend.
func (b *Backend) DeleteRenderbuffer(rb capture.Renderbuffer) error {
	if err := b.call(OpDeleteRenderbuffer); err != nil {
		return err
	}
	if _, ok := b.depths[rb]; !ok {
		return fmt.Errorf("%w: renderbuffer %d", ErrUnknownHandle, rb)
	}
	delete(b.depths, rb)
	return nil
}

// ClearBGRA converts a clear color to the BGRA bytes a backend stores.
func ClearBGRA(c gputypes.Color) [4]byte {
	return [4]byte{unorm8(float64(c.B)), unorm8(float64(c.G)), unorm8(float64(c.R)), unorm8(float64(c.A))}
}

func unorm8(v float64) byte {
	v = math.Max(0, math.Min(1, v))
	return byte(math.Round(v * 255))
}

var _ capture.Backend = (*Backend)(nil)
