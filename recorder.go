// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package fbcapture

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gogpu/fbcapture/bmp"
	"github.com/gogpu/fbcapture/capture"
)

// Recorder captures frames from a capture.Target and writes each one to
// disk as image<N>.bmp, numbering from its Sequence.
//
// Recorder is not safe for concurrent use.
type Recorder struct {
	target       *capture.Target
	outputDir    string
	seq          Sequence
	bitsPerPixel int
	metrics      *metrics
	drawErr      error
}

// ErrDraw wraps the error returned by a DrawFunc. The frame is discarded.
var ErrDraw = errors.New("fbcapture: draw failed")

// DrawFunc draws one frame and reports whether it succeeded.
type DrawFunc func() error

// New creates a Recorder drawing through backend. Call Init before
// DumpImage.
func New(backend capture.Backend, opts ...Option) *Recorder {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.seq == nil {
		o.seq = &Counter{}
	}

	r := &Recorder{
		outputDir:    o.outputDir,
		seq:          o.seq,
		bitsPerPixel: o.bitsPerPixel,
		metrics:      newMetrics(o.registerer),
	}
	topts := append([]capture.Option{capture.WithClearColor(o.clear)}, o.captureOpts...)
	if render := r.renderFunc(o.render, o.draw); render != nil {
		topts = append(topts, capture.WithRenderFunc(render))
	}
	r.target = capture.New(backend, o.width, o.height, topts...)
	return r
}

// Init checks the bit depth and allocates the capture target.
func (r *Recorder) Init() error {
	if err := bmp.ValidateBitsPerPixel(r.bitsPerPixel); err != nil {
		return fmt.Errorf("fbcapture: %w", err)
	}
	return r.target.Init()
}

// SetRenderFunc sets the function that draws each frame. Nil clears it.
func (r *Recorder) SetRenderFunc(fn capture.RenderFunc) {
	r.target.SetRenderFunc(fn)
}

// SetDrawFunc sets a drawing function that can fail. When it returns an
// error, DumpImage writes nothing and returns the error wrapped in
// ErrDraw. Nil clears the render func slot.
func (r *Recorder) SetDrawFunc(fn DrawFunc) {
	r.target.SetRenderFunc(r.renderFunc(nil, fn))
}

// renderFunc returns draw wrapped to record its error, or render when
// draw is nil.
func (r *Recorder) renderFunc(render capture.RenderFunc, draw DrawFunc) capture.RenderFunc {
	if draw == nil {
		return render
	}
	return func() { r.drawErr = draw() }
}

// Target returns the underlying capture target.
func (r *Recorder) Target() *capture.Target { return r.target }

// OutputDir returns the directory bitmaps are written to.
func (r *Recorder) OutputDir() string { return r.outputDir }

// Sequence returns the sequence numbering written files.
func (r *Recorder) Sequence() Sequence { return r.seq }

// NextPath returns the path the next successful DumpImage will write.
func (r *Recorder) NextPath() string {
	return filepath.Join(r.outputDir, FileName(r.seq.Current()))
}

// DumpImage captures one frame and writes it to NextPath. The sequence
// advances only once the file is complete, so a failed dump leaves no gap
// in the numbering. It returns the written path.
func (r *Recorder) DumpImage() (string, error) {
	path, n, err := r.dump()
	if err != nil {
		r.metrics.failures.WithLabelValues(failureReason(err)).Inc()
		return "", err
	}
	r.seq.Advance()
	r.metrics.captures.Inc()
	r.metrics.bytes.Add(float64(n))
	logger.Load().Debug("fbcapture: image written", "path", path, "bytes", n)
	return path, nil
}

func (r *Recorder) dump() (string, int, error) {
	r.drawErr = nil
	buf, err := r.target.Capture()
	drawErr := r.drawErr
	r.drawErr = nil
	if err != nil {
		return "", 0, fmt.Errorf("fbcapture: capture: %w", err)
	}
	if drawErr != nil {
		return "", 0, fmt.Errorf("%w: %w", ErrDraw, drawErr)
	}
	pix, err := packPixels(buf.Pix, r.bitsPerPixel)
	if err != nil {
		return "", 0, fmt.Errorf("fbcapture: encode: %w", err)
	}
	size, err := bmp.PixelDataSize(buf.Width, buf.Height, r.bitsPerPixel)
	if err != nil {
		return "", 0, fmt.Errorf("fbcapture: encode: %w", err)
	}
	path := r.NextPath()
	if err := bmp.WriteFile(path, pix, buf.Width, buf.Height, r.bitsPerPixel); err != nil {
		return "", 0, fmt.Errorf("fbcapture: write: %w", err)
	}
	return path, bmp.HeaderSize + size, nil
}

// Close releases the capture target. It is safe to call more than once.
func (r *Recorder) Close() error {
	return r.target.Close()
}

// packPixels keeps the first bitsPerPixel/8 channels of each BGRA pixel.
// At 32 bits the buffer is returned as is.
func packPixels(bgra []byte, bitsPerPixel int) ([]byte, error) {
	if err := bmp.ValidateBitsPerPixel(bitsPerPixel); err != nil {
		return nil, err
	}
	bpp := bitsPerPixel / 8
	if bpp == capture.BytesPerPixel {
		return bgra, nil
	}
	out := make([]byte, len(bgra)/capture.BytesPerPixel*bpp)
	for i, j := 0, 0; i+capture.BytesPerPixel <= len(bgra); i, j = i+capture.BytesPerPixel, j+bpp {
		copy(out[j:j+bpp], bgra[i:i+bpp])
	}
	return out, nil
}
