// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package capture_test

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/fbcapture/capture"
	"github.com/gogpu/fbcapture/capture/capturetest"
)

func TestInitCloseLeavesNoHandles(t *testing.T) {
	sizes := []struct {
		name          string
		width, height int
	}{
		{"1x1", 1, 1},
		{"800x600", 800, 600},
		{"wide", 1000, 10},
		{"tall", 10, 1000},
	}

	for _, tt := range sizes {
		t.Run(tt.name, func(t *testing.T) {
			b := capturetest.New()
			target := capture.New(b, tt.width, tt.height)

			if err := target.Init(); err != nil {
				t.Fatalf("Init() error = %v", err)
			}
			if got := b.Live(); got != 3 {
				t.Errorf("Live() after Init = %d, want 3", got)
			}
			if !target.Initialized() {
				t.Error("Initialized() = false after Init")
			}
			if err := target.Close(); err != nil {
				t.Fatalf("Close() error = %v", err)
			}
			if got := b.Live(); got != 0 {
				t.Errorf("Live() after Close = %d, want 0", got)
			}
			if target.Initialized() {
				t.Error("Initialized() = true after Close")
			}
		})
	}
}

func TestInitIsIdempotent(t *testing.T) {
	b := capturetest.New()
	target := capture.New(b, 4, 4)

	for i := 0; i < 3; i++ {
		if err := target.Init(); err != nil {
			t.Fatalf("Init() #%d error = %v", i, err)
		}
	}
	if got := b.Count(capturetest.OpCreateColorTexture); got != 1 {
		t.Errorf("CreateColorTexture calls = %d, want 1", got)
	}
	if got := b.Live(); got != 3 {
		t.Errorf("Live() = %d, want 3", got)
	}
	_ = target.Close()
}

func TestInitCreatesLinearTexture(t *testing.T) {
	b := capturetest.New()
	target := capture.New(b, 4, 4)
	if err := target.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer target.Close()

	minF, magF, ok := b.Filter(capture.Texture(1))
	if !ok {
		t.Fatal("color texture not found")
	}
	if minF != gputypes.FilterModeLinear || magF != gputypes.FilterModeLinear {
		t.Errorf("filters = %v/%v, want linear/linear", minF, magF)
	}
}

func TestInitInvalidDimensions(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{"zero width", 0, 10},
		{"zero height", 10, 0},
		{"negative", -1, 10},
		{"too large", capture.MaxDimension + 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := capturetest.New()
			target := capture.New(b, tt.width, tt.height)
			err := target.Init()
			if !errors.Is(err, capture.ErrInvalidDimensions) {
				t.Errorf("Init() error = %v, want ErrInvalidDimensions", err)
			}
			if len(b.Calls) != 0 {
				t.Errorf("backend calls = %v, want none", b.Calls)
			}
		})
	}
}

func TestInitNilBackend(t *testing.T) {
	target := capture.New(nil, 4, 4)
	if err := target.Init(); !errors.Is(err, capture.ErrNilBackend) {
		t.Errorf("Init() error = %v, want ErrNilBackend", err)
	}
}

func TestInitFailureIsAtomic(t *testing.T) {
	boom := errors.New("out of video memory")
	for _, op := range []string{
		capturetest.OpCreateColorTexture,
		capturetest.OpCreateDepthBuffer,
		capturetest.OpCreateFramebuffer,
	} {
		t.Run(op, func(t *testing.T) {
			b := capturetest.New()
			b.Fail(op, boom)
			target := capture.New(b, 8, 8)

			err := target.Init()
			if !errors.Is(err, boom) {
				t.Fatalf("Init() error = %v, want %v", err, boom)
			}
			if target.Initialized() {
				t.Error("Initialized() = true after failed Init")
			}
			if got := b.Live(); got != 0 {
				t.Errorf("Live() after failed Init = %d, want 0", got)
			}

			// A later Init succeeds once the backend recovers.
			b.Fail(op, nil)
			if err := target.Init(); err != nil {
				t.Fatalf("Init() retry error = %v", err)
			}
			if err := target.Close(); err != nil {
				t.Fatalf("Close() error = %v", err)
			}
			if got := b.Live(); got != 0 {
				t.Errorf("Live() after Close = %d, want 0", got)
			}
		})
	}
}

func TestCloseWithoutInit(t *testing.T) {
	b := capturetest.New()
	target := capture.New(b, 4, 4)
	if err := target.Close(); err != nil {
		t.Errorf("Close() error = %v, want nil", err)
	}
	if len(b.Calls) != 0 {
		t.Errorf("backend calls = %v, want none", b.Calls)
	}
}

func TestCloseTwice(t *testing.T) {
	b := capturetest.New()
	target := capture.New(b, 4, 4)
	if err := target.Init(); err != nil {
		t.Fatal(err)
	}
	if err := target.Close(); err != nil {
		t.Fatal(err)
	}
	if err := target.Close(); err != nil {
		t.Errorf("second Close() error = %v, want nil", err)
	}
	if got := b.Count(capturetest.OpDeleteTexture); got != 1 {
		t.Errorf("DeleteTexture calls = %d, want 1", got)
	}
}

func TestCloseReportsReleaseErrors(t *testing.T) {
	boom := errors.New("device lost")
	b := capturetest.New()
	target := capture.New(b, 4, 4)
	if err := target.Init(); err != nil {
		t.Fatal(err)
	}
	b.Fail(capturetest.OpDeleteTexture, boom)

	err := target.Close()
	if !errors.Is(err, boom) {
		t.Errorf("Close() error = %v, want %v", err, boom)
	}
	if target.Initialized() {
		t.Error("Initialized() = true after Close")
	}
	// The other two resources are still released.
	if got := b.Count(capturetest.OpDeleteFramebuffer); got != 1 {
		t.Errorf("DeleteFramebuffer calls = %d, want 1", got)
	}
	if got := b.Count(capturetest.OpDeleteRenderbuffer); got != 1 {
		t.Errorf("DeleteRenderbuffer calls = %d, want 1", got)
	}
}

func TestCaptureBeforeInit(t *testing.T) {
	b := capturetest.New()
	calls := 0
	target := capture.New(b, 4, 4, capture.WithRenderFunc(func() { calls++ }))

	buf, err := target.Capture()
	if !errors.Is(err, capture.ErrNotInitialized) {
		t.Errorf("Capture() error = %v, want ErrNotInitialized", err)
	}
	if buf != nil {
		t.Error("Capture() returned a buffer before Init")
	}
	if calls != 0 {
		t.Errorf("render func ran %d times, want 0", calls)
	}
	if len(b.Calls) != 0 {
		t.Errorf("backend calls = %v, want none", b.Calls)
	}
}

func TestCaptureAfterClose(t *testing.T) {
	b := capturetest.New()
	target := capture.New(b, 4, 4, capture.WithRenderFunc(func() {}))
	if err := target.Init(); err != nil {
		t.Fatal(err)
	}
	_ = target.Close()

	if _, err := target.Capture(); !errors.Is(err, capture.ErrNotInitialized) {
		t.Errorf("Capture() error = %v, want ErrNotInitialized", err)
	}
}

func TestCaptureWithoutRenderFunc(t *testing.T) {
	b := capturetest.New()
	target := capture.New(b, 4, 4)
	if err := target.Init(); err != nil {
		t.Fatal(err)
	}
	defer target.Close()
	before := len(b.Calls)

	if target.HasRenderFunc() {
		t.Fatal("HasRenderFunc() = true, want false")
	}
	buf, err := target.Capture()
	if !errors.Is(err, capture.ErrNoRenderFunc) {
		t.Errorf("Capture() error = %v, want ErrNoRenderFunc", err)
	}
	if buf != nil {
		t.Error("Capture() returned a buffer without render func")
	}
	if len(b.Calls) != before {
		t.Errorf("backend calls after Capture = %v, want none", b.Calls[before:])
	}

	target.SetRenderFunc(func() {})
	if !target.HasRenderFunc() {
		t.Error("HasRenderFunc() = false after SetRenderFunc")
	}
	target.ClearRenderFunc()
	if _, err := target.Capture(); !errors.Is(err, capture.ErrNoRenderFunc) {
		t.Errorf("Capture() after ClearRenderFunc error = %v, want ErrNoRenderFunc", err)
	}
}

func TestCaptureSequence(t *testing.T) {
	b := capturetest.New()
	target := capture.New(b, 2, 2, capture.WithRenderFunc(func() {}))
	if err := target.Init(); err != nil {
		t.Fatal(err)
	}
	defer target.Close()
	b.Calls = nil

	if _, err := target.Capture(); err != nil {
		t.Fatalf("Capture() error = %v", err)
	}

	want := []string{
		capturetest.OpBindFramebuffer,
		capturetest.OpUnbindFramebuffer,
		capturetest.OpSetTextureFilter,
		capturetest.OpReadTexture,
	}
	if len(b.Calls) != len(want) {
		t.Fatalf("Calls = %v, want %v", b.Calls, want)
	}
	for i := range want {
		if b.Calls[i] != want[i] {
			t.Errorf("Calls[%d] = %q, want %q", i, b.Calls[i], want[i])
		}
	}
	if b.Bound() != 0 {
		t.Errorf("Bound() after Capture = %d, want default target", b.Bound())
	}
	minF, magF, _ := b.Filter(capture.Texture(1))
	if minF != gputypes.FilterModeNearest || magF != gputypes.FilterModeNearest {
		t.Errorf("filters after Capture = %v/%v, want nearest/nearest", minF, magF)
	}
}

func TestCaptureRenderFuncSeesBoundTarget(t *testing.T) {
	b := capturetest.New()
	var bound capture.Framebuffer
	target := capture.New(b, 2, 2)
	target.SetRenderFunc(func() { bound = b.Bound() })
	if err := target.Init(); err != nil {
		t.Fatal(err)
	}
	defer target.Close()

	if _, err := target.Capture(); err != nil {
		t.Fatal(err)
	}
	if bound == 0 {
		t.Error("render func ran with the default target bound")
	}
}

func TestCapturePixels(t *testing.T) {
	red := [4]byte{0, 0, 255, 255}  // BGRA
	blue := [4]byte{255, 0, 0, 255} // BGRA

	b := capturetest.New()
	target := capture.New(b, 3, 2, capture.WithRenderFunc(func() {
		_ = b.FillRow(0, red)  // top
		_ = b.FillRow(1, blue) // bottom
	}))
	if err := target.Init(); err != nil {
		t.Fatal(err)
	}
	defer target.Close()

	buf, err := target.Capture()
	if err != nil {
		t.Fatalf("Capture() error = %v", err)
	}
	if buf.Width != 3 || buf.Height != 2 {
		t.Fatalf("buffer size = %dx%d, want 3x2", buf.Width, buf.Height)
	}
	if got := len(buf.Pix); got != 3*2*4 {
		t.Fatalf("len(Pix) = %d, want %d", got, 3*2*4)
	}

	// Stored bottom-up: the first row in memory is the bottom (blue) row.
	for x := 0; x < 3; x++ {
		got := [4]byte(buf.Pix[x*4 : x*4+4])
		if got != blue {
			t.Errorf("Pix row 0, x=%d = %v, want %v", x, got, blue)
		}
	}
	if got := buf.BGRAAt(1, 0); got != red {
		t.Errorf("BGRAAt(1, 0) = %v, want %v", got, red)
	}
	if got := buf.BGRAAt(1, 1); got != blue {
		t.Errorf("BGRAAt(1, 1) = %v, want %v", got, blue)
	}

	img := buf.Image()
	if c := img.NRGBAAt(0, 0); c.R != 255 || c.B != 0 || c.A != 255 {
		t.Errorf("Image().At(0, 0) = %v, want opaque red", c)
	}
	if c := img.NRGBAAt(0, 1); c.B != 255 || c.R != 0 {
		t.Errorf("Image().At(0, 1) = %v, want opaque blue", c)
	}
}

func TestCaptureClearColor(t *testing.T) {
	b := capturetest.New()
	target := capture.New(b, 2, 2,
		capture.WithClearColor(gputypes.Color{R: 1, G: 0, B: 0, A: 1}),
		capture.WithRenderFunc(func() {}),
	)
	if err := target.Init(); err != nil {
		t.Fatal(err)
	}
	defer target.Close()

	buf, err := target.Capture()
	if err != nil {
		t.Fatal(err)
	}
	want := [4]byte{0, 0, 255, 255}
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if got := buf.BGRAAt(x, y); got != want {
				t.Errorf("BGRAAt(%d, %d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestCaptureReentrant(t *testing.T) {
	b := capturetest.New()
	target := capture.New(b, 2, 2)

	calls := 0
	var nestedErr error
	target.SetRenderFunc(func() {
		calls++
		_, nestedErr = target.Capture()
	})
	if err := target.Init(); err != nil {
		t.Fatal(err)
	}
	defer target.Close()

	for i := 1; i <= 3; i++ {
		if _, err := target.Capture(); err != nil {
			t.Fatalf("Capture() #%d error = %v", i, err)
		}
		if calls != i {
			t.Errorf("render func calls after %d captures = %d, want %d", i, calls, i)
		}
		if !errors.Is(nestedErr, capture.ErrCaptureInProgress) {
			t.Errorf("nested Capture() error = %v, want ErrCaptureInProgress", nestedErr)
		}
	}
	if got := b.Count(capturetest.OpReadTexture); got != 3 {
		t.Errorf("ReadTexture calls = %d, want 3", got)
	}
}

func TestCaptureAllocationFailure(t *testing.T) {
	b := capturetest.New()
	calls := 0
	fail := true
	target := capture.New(b, 4, 4,
		capture.WithRenderFunc(func() { calls++ }),
		capture.WithAllocator(func(n int) ([]byte, error) {
			if fail {
				return nil, errors.New("no memory")
			}
			return make([]byte, n), nil
		}),
	)
	if err := target.Init(); err != nil {
		t.Fatal(err)
	}
	defer target.Close()

	buf, err := target.Capture()
	if !errors.Is(err, capture.ErrPixelBufferAlloc) {
		t.Fatalf("Capture() error = %v, want ErrPixelBufferAlloc", err)
	}
	if buf != nil {
		t.Error("Capture() returned a buffer on allocation failure")
	}
	if calls != 0 {
		t.Errorf("render func ran %d times on allocation failure, want 0", calls)
	}

	fail = false
	if _, err := target.Capture(); err != nil {
		t.Errorf("Capture() after recovery error = %v", err)
	}
	if calls != 1 {
		t.Errorf("render func calls = %d, want 1", calls)
	}
}

func TestCaptureMaxPixelBytes(t *testing.T) {
	b := capturetest.New()
	target := capture.New(b, 4, 4,
		capture.WithRenderFunc(func() {}),
		capture.WithMaxPixelBytes(4*4*4-1),
	)
	if err := target.Init(); err != nil {
		t.Fatal(err)
	}
	defer target.Close()

	if _, err := target.Capture(); !errors.Is(err, capture.ErrPixelBufferAlloc) {
		t.Errorf("Capture() error = %v, want ErrPixelBufferAlloc", err)
	}
}

func TestCaptureShortAllocation(t *testing.T) {
	b := capturetest.New()
	target := capture.New(b, 4, 4,
		capture.WithRenderFunc(func() {}),
		capture.WithAllocator(func(n int) ([]byte, error) { return make([]byte, n/2), nil }),
	)
	if err := target.Init(); err != nil {
		t.Fatal(err)
	}
	defer target.Close()

	if _, err := target.Capture(); !errors.Is(err, capture.ErrPixelBufferAlloc) {
		t.Errorf("Capture() error = %v, want ErrPixelBufferAlloc", err)
	}
}

func TestCaptureBackendErrors(t *testing.T) {
	boom := errors.New("gpu fault")
	tests := []struct {
		op         string
		wantUnbind int
	}{
		{capturetest.OpBindFramebuffer, 0},
		{capturetest.OpUnbindFramebuffer, 1},
		{capturetest.OpSetTextureFilter, 1},
		{capturetest.OpReadTexture, 1},
	}

	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			b := capturetest.New()
			target := capture.New(b, 2, 2, capture.WithRenderFunc(func() {}))
			if err := target.Init(); err != nil {
				t.Fatal(err)
			}
			defer target.Close()
			b.Fail(tt.op, boom)

			if _, err := target.Capture(); !errors.Is(err, boom) {
				t.Fatalf("Capture() error = %v, want %v", err, boom)
			}
			if got := b.Count(capturetest.OpUnbindFramebuffer); got != tt.wantUnbind {
				t.Errorf("UnbindFramebuffer calls = %d, want %d", got, tt.wantUnbind)
			}

			// The target stays usable.
			b.Fail(tt.op, nil)
			if _, err := target.Capture(); err != nil {
				t.Errorf("Capture() after recovery error = %v", err)
			}
		})
	}
}

func TestCaptureRenderPanicUnbinds(t *testing.T) {
	b := capturetest.New()
	target := capture.New(b, 2, 2, capture.WithRenderFunc(func() { panic("draw failed") }))
	if err := target.Init(); err != nil {
		t.Fatal(err)
	}
	defer target.Close()

	func() {
		defer func() {
			if recover() == nil {
				t.Error("Capture() did not propagate the render func panic")
			}
		}()
		_, _ = target.Capture()
	}()

	if b.Bound() != 0 {
		t.Error("framebuffer still bound after render func panic")
	}
	target.SetRenderFunc(func() {})
	if _, err := target.Capture(); err != nil {
		t.Errorf("Capture() after panic error = %v, want nil", err)
	}
}
